package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"

	"autolanka/internal/apperrors"
	"autolanka/internal/auth"
	"autolanka/internal/db"
	"autolanka/internal/entities"
	"autolanka/internal/repository"
)

const customerUserType = 2

// AuthService covers registration, login and the email/OTP verification
// flows around them.
type AuthService struct {
	Users  *repository.UserRepository
	Tokens *auth.TokenService
	Sender *SenderService
}

func NewAuthService(users *repository.UserRepository, tokens *auth.TokenService, sender *SenderService) *AuthService {
	return &AuthService{Users: users, Tokens: tokens, Sender: sender}
}

// Register creates the mobile, address and user rows, then dispatches the
// OTP SMS and the verification email.
func (s *AuthService) Register(req entities.RegisterRequest) error {
	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Mobile == "" ||
		req.NICNo == "" || req.AddressLine1 == "" || req.Password == "" {
		return apperrors.Validation("Missing required fields")
	}

	existing, err := s.Users.GetByEmail(req.Email)
	if err != nil {
		return apperrors.Internal("Internal Server Error", err)
	}
	if existing != nil {
		return apperrors.Validation("Email already exists")
	}

	mobile, err := s.Users.GetMobile(req.Mobile)
	if err != nil {
		return apperrors.Internal("Internal Server Error", err)
	}
	if mobile != nil && mobile.IsOTPVerified {
		return apperrors.Validation("Mobile number already exists")
	}

	otp, err := generateOTP()
	if err != nil {
		return apperrors.Internal("Internal Server Error", err)
	}
	otpHash, err := bcrypt.GenerateFromPassword([]byte(otp), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Internal("Internal Server Error", err)
	}

	now := time.Now().UTC()
	var mobileID int
	if mobile == nil {
		mobileID, err = s.Users.InsertMobile(req.Mobile, string(otpHash), now)
	} else {
		mobileID, err = s.Users.UpdateMobileOTP(req.Mobile, string(otpHash), now)
	}
	if err != nil {
		return apperrors.Internal("Internal Server Error", err)
	}

	addressID, err := s.Users.InsertAddress(req.AddressLine1,
		toNullString(req.AddressLine2), toNullString(req.AddressLine3))
	if err != nil {
		return apperrors.Internal("Internal Server Error", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Internal("Internal Server Error", err)
	}

	count, err := s.Users.CountUsers()
	if err != nil {
		return apperrors.Internal("Internal Server Error", err)
	}

	user := &db.User{
		UserID:         fmt.Sprintf("CUS%d", count+1),
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		PasswordHash:   string(passwordHash),
		MobileID:       mobileID,
		RegisteredDate: now,
		UserTypeID:     customerUserType,
		NICNo:          req.NICNo,
		AddressID:      addressID,
	}
	if err := s.Users.InsertUser(user); err != nil {
		return apperrors.Internal("Internal Server Error", err)
	}

	s.Sender.SendOTPSMS(req.Mobile, otp)
	s.sendVerificationEmail(req.Email)
	return nil
}

// Login checks credentials and issues a session token. Unverified email
// addresses cannot log in.
func (s *AuthService) Login(req entities.LoginRequest) (*entities.LoginResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, apperrors.Validation("Email and password are required")
	}

	user, err := s.Users.GetByEmail(req.Email)
	if err != nil {
		return nil, apperrors.Internal("Internal Server Error", err)
	}
	if user == nil || !user.Status {
		return nil, apperrors.Validation("Invalid username")
	}
	if !user.IsEmailVerified {
		return nil, apperrors.Validation("Email not verified")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperrors.Validation("Invalid credentials")
	}

	token, err := s.Tokens.IssueLogin(user.UserID, user.Email)
	if err != nil {
		return nil, apperrors.Internal("Internal Server Error", err)
	}

	mobile := ""
	if m, err := s.Users.GetProfile(user.UserID); err == nil && m != nil {
		mobile = m.Mobile
	}

	return &entities.LoginResponse{
		Token: token,
		User: entities.UserBrief{
			ID:        user.UserID,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Email:     user.Email,
			Mobile:    mobile,
			NICNo:     user.NICNo,
		},
	}, nil
}

// VerifyEmail consumes an email-verification token.
func (s *AuthService) VerifyEmail(token string) error {
	email, err := s.emailFromToken(token)
	if err != nil {
		return err
	}
	user, err := s.Users.GetByEmail(email)
	if err != nil {
		return apperrors.Internal("Internal Server Error", err)
	}
	if user == nil {
		return apperrors.Validation("No registered email from this token")
	}
	if err := s.Users.SetEmailVerified(email); err != nil {
		return apperrors.Internal("Internal Server Error", err)
	}
	return nil
}

// ResendVerification re-sends the verification email for an unverified
// account.
func (s *AuthService) ResendVerification(email string) (alreadyVerified bool, err error) {
	if email == "" {
		return false, apperrors.Validation("Email is required")
	}
	user, err := s.Users.GetByEmail(email)
	if err != nil {
		return false, apperrors.Internal("Internal Server Error", err)
	}
	if user == nil {
		return false, apperrors.Validation("Invalid Email")
	}
	if user.IsEmailVerified {
		return true, nil
	}
	s.sendVerificationEmail(email)
	return false, nil
}

// VerifyOTP compares the submitted code against the stored hash and marks
// the mobile number verified.
func (s *AuthService) VerifyOTP(req entities.OTPVerifyRequest) error {
	if req.Mobile == "" || req.OTP == "" {
		return apperrors.Validation("Mobile number and OTP are required")
	}
	mobile, err := s.Users.GetMobile(req.Mobile)
	if err != nil {
		return apperrors.Internal("Internal Server Error", err)
	}
	if mobile == nil {
		return apperrors.Validation("Invalid Mobile Number")
	}
	if mobile.OTPHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(mobile.OTPHash), []byte(req.OTP)) != nil {
		return apperrors.Validation("Invalid OTP")
	}
	if err := s.Users.MarkOTPVerified(mobile.MobileID, req.Mobile); err != nil {
		return apperrors.Internal("Internal Server Error", err)
	}
	return nil
}

// ForgotPassword mails a reset link to a known account.
func (s *AuthService) ForgotPassword(email string) error {
	if email == "" {
		return apperrors.Validation("Email is required")
	}
	user, err := s.Users.GetByEmail(email)
	if err != nil {
		return apperrors.Internal("Internal Server Error", err)
	}
	if user == nil {
		return apperrors.Validation("Invalid Email")
	}
	token, err := s.Tokens.IssueEmail(map[string]interface{}{"email": email})
	if err != nil {
		return apperrors.Internal("Internal Server Error", err)
	}
	s.Sender.SendPasswordResetEmail(email, token)
	return nil
}

// VerifyResetToken checks that a reset token is valid and belongs to an
// existing account, without consuming it.
func (s *AuthService) VerifyResetToken(token string) error {
	email, err := s.emailFromToken(token)
	if err != nil {
		return err
	}
	user, err := s.Users.GetByEmail(email)
	if err != nil {
		return apperrors.Internal("Internal Server Error", err)
	}
	if user == nil {
		return apperrors.Validation("Email not found. Check the link again.")
	}
	return nil
}

// ResetPassword consumes a reset token and stores the new password hash.
func (s *AuthService) ResetPassword(token, password string) error {
	if token == "" || password == "" {
		return apperrors.Validation("Token and password are required")
	}
	email, err := s.emailFromToken(token)
	if err != nil {
		return err
	}
	user, err := s.Users.GetByEmail(email)
	if err != nil {
		return apperrors.Internal("Internal Server Error", err)
	}
	if user == nil {
		return apperrors.Validation("Invalid Email")
	}
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Internal("Internal Server Error", err)
	}
	if err := s.Users.UpdatePassword(email, string(passwordHash)); err != nil {
		return apperrors.Internal("Internal Server Error", err)
	}
	return nil
}

// ResetPasswordDirect hashes the new password immediately and mails a
// confirmation link carrying it; nothing changes until the link is opened.
func (s *AuthService) ResetPasswordDirect(email, password string) error {
	if email == "" || password == "" {
		return apperrors.Validation("Email and password are required")
	}
	user, err := s.Users.GetByEmail(email)
	if err != nil {
		return apperrors.Internal("Internal Server Error", err)
	}
	if user == nil {
		return apperrors.Validation("Email not found")
	}
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Internal("Internal Server Error", err)
	}
	token, err := s.Tokens.IssueEmail(map[string]interface{}{
		"email":    email,
		"password": string(passwordHash),
	})
	if err != nil {
		return apperrors.Internal("Internal Server Error", err)
	}
	s.Sender.SendPasswordResetConfirmEmail(email, token)
	return nil
}

// ConfirmPasswordReset consumes a direct-reset token and applies the hash it
// carries.
func (s *AuthService) ConfirmPasswordReset(token string) error {
	if token == "" {
		return apperrors.Validation("Token not found")
	}
	claims, err := s.Tokens.Verify(token)
	if err != nil {
		return apperrors.Validation("Invalid token")
	}
	email, _ := claims["email"].(string)
	passwordHash, _ := claims["password"].(string)
	if email == "" || passwordHash == "" {
		return apperrors.Validation("Invalid token")
	}
	if err := s.Users.UpdatePassword(email, passwordHash); err != nil {
		return apperrors.Internal("Internal Server Error", err)
	}
	return nil
}

// Profile returns the joined profile view for the authenticated user.
func (s *AuthService) Profile(userID string) (*entities.ProfileResponse, error) {
	profile, err := s.Users.GetProfile(userID)
	if err != nil {
		return nil, apperrors.Internal("Internal Server Error", err)
	}
	if profile == nil {
		return nil, apperrors.NotFound("User not found")
	}
	return profile, nil
}

func (s *AuthService) sendVerificationEmail(email string) {
	token, err := s.Tokens.IssueEmail(map[string]interface{}{"email": email})
	if err != nil {
		return
	}
	s.Sender.SendVerificationEmail(email, token)
}

func (s *AuthService) emailFromToken(token string) (string, error) {
	if token == "" {
		return "", apperrors.Validation("Token not found")
	}
	claims, err := s.Tokens.Verify(token)
	if err != nil {
		return "", apperrors.Validation("Invalid token")
	}
	email, _ := claims["email"].(string)
	if email == "" {
		return "", apperrors.Validation("Invalid token")
	}
	return email, nil
}

// generateOTP draws a random 6-digit code.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
