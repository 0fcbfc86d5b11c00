package entities

type RegisterVehicleRequest struct {
	LicensePlate string
	VehicleType  string
	Make         string
	Model        string
	Color        string
	Year         string
	Transmission string
	FuelType     string
	ImageURL     string
}

type VehicleResponse struct {
	LicensePlate     string `json:"license_plate"`
	Model            string `json:"model"`
	Color            string `json:"color"`
	MakeYear         int    `json:"make_year"`
	ImagePath        string `json:"imgpath"`
	VehicleType      string `json:"vehicle_type"`
	VehicleBrand     string `json:"vehicle_brand"`
	FuelType         string `json:"fuel_type"`
	TransmissionType string `json:"transmission_type"`
}

type VehicleTypeResponse struct {
	VehicleTypeID int    `json:"vehicle_type_id"`
	VehicleType   string `json:"vehicle_type"`
}

type VehicleBrandResponse struct {
	VehicleBrandID int    `json:"vehicle_brand_id"`
	VehicleBrand   string `json:"vehicle_brand"`
}

type ServiceTypeResponse struct {
	ServiceTypeID int    `json:"service_type_id"`
	ServiceName   string `json:"service_name"`
	Description   string `json:"description"`
}
