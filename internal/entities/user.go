package entities

type RegisterRequest struct {
	FirstName    string `json:"fname"`
	LastName     string `json:"lname"`
	Email        string `json:"email"`
	Mobile       string `json:"mobile"`
	NICNo        string `json:"nicno"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	AddressLine3 string `json:"address_line3"`
	Password     string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string    `json:"token"`
	User  UserBrief `json:"user"`
}

type UserBrief struct {
	ID        string `json:"id"`
	FirstName string `json:"fname"`
	LastName  string `json:"lname"`
	Email     string `json:"email"`
	Mobile    string `json:"mobile"`
	NICNo     string `json:"nicno"`
}

type ProfileResponse struct {
	FirstName    string `json:"fname"`
	LastName     string `json:"lname"`
	Email        string `json:"email"`
	Mobile       string `json:"mobile"`
	NICNo        string `json:"nicno"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	AddressLine3 string `json:"address_line3"`
}

type OTPVerifyRequest struct {
	Mobile string `json:"mobile"`
	OTP    string `json:"otp"`
}
