package api

import (
	"fmt"
	"io"
	"log"
	"net/http"

	"autolanka/internal/auth"
	"autolanka/internal/entities"
	"autolanka/internal/service"
	"autolanka/internal/storage"
)

type VehicleHandler struct {
	Vehicles *service.VehicleService
	Storage  *storage.SupabaseClient
}

func NewVehicleHandler(vehicles *service.VehicleService, store *storage.SupabaseClient) *VehicleHandler {
	return &VehicleHandler{Vehicles: vehicles, Storage: store}
}

// RegisterVehicle takes a multipart form: the vehicle fields plus an optional
// image part. The image is uploaded first so the insert can store its URL.
func (h *VehicleHandler) RegisterVehicle(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(storage.MaxImageSize); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	req := entities.RegisterVehicleRequest{
		LicensePlate: r.FormValue("licensePlate"),
		VehicleType:  r.FormValue("vehicleType"),
		Make:         r.FormValue("make"),
		Model:        r.FormValue("model"),
		Color:        r.FormValue("color"),
		Year:         r.FormValue("year"),
		Transmission: r.FormValue("transmission"),
		FuelType:     r.FormValue("fuelType"),
	}

	imageURL, err := h.uploadImageIfPresent(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	req.ImageURL = imageURL

	userID := auth.UserIDFromContext(r.Context())
	if err := h.Vehicles.Register(userID, req); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusCreated, "Vehicle registered successfully")
}

func (h *VehicleHandler) UpdateVehicleImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(storage.MaxImageSize); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	imageURL, err := h.uploadImageIfPresent(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if imageURL == "" {
		writeMessage(w, http.StatusBadRequest, "Image file is required")
		return
	}

	userID := auth.UserIDFromContext(r.Context())
	if err := h.Vehicles.UpdateImage(userID, r.FormValue("licensePlate"), imageURL); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Vehicle image updated",
		"imgpath": imageURL,
	})
}

func (h *VehicleHandler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	vehicles, err := h.Vehicles.ListByUser(userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if vehicles == nil {
		vehicles = []entities.VehicleResponse{}
	}
	writeJSON(w, http.StatusOK, vehicles)
}

func (h *VehicleHandler) LoadVehicleTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.Vehicles.ListVehicleTypes()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types)
}

func (h *VehicleHandler) LoadVehicleBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.Vehicles.ListVehicleBrands()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, brands)
}

func (h *VehicleHandler) LoadServiceTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.Vehicles.ListServiceTypes()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types)
}

// uploadImageIfPresent validates and uploads the "vehicleImage" part if the
// request carries one. Returns the public URL, or "" when no image was sent.
func (h *VehicleHandler) uploadImageIfPresent(r *http.Request) (string, error) {
	file, header, err := r.FormFile("vehicleImage")
	if err != nil {
		if err == http.ErrMissingFile {
			return "", nil
		}
		return "", err
	}
	defer file.Close()

	if header.Size > storage.MaxImageSize {
		return "", fmt.Errorf("Image exceeds the 10MB limit")
	}
	contentType := header.Header.Get("Content-Type")
	if err := storage.ValidateImage(header.Filename, contentType); err != nil {
		return "", err
	}

	data, err := io.ReadAll(io.LimitReader(file, storage.MaxImageSize+1))
	if err != nil {
		return "", err
	}
	if len(data) > storage.MaxImageSize {
		return "", fmt.Errorf("Image exceeds the 10MB limit")
	}

	url, err := h.Storage.Upload(header.Filename, contentType, data)
	if err != nil {
		log.Printf("Image upload failed: %v", err)
		return "", fmt.Errorf("Could not upload image")
	}
	return url, nil
}
