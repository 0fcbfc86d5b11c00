package service

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"autolanka/internal/apperrors"
	"autolanka/internal/entities"
	"autolanka/internal/repository"
)

func newVehicleServiceWithMock(t *testing.T) (*VehicleService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewVehicleService(
		repository.NewVehicleRepository(db),
		repository.NewCatalogRepository(db),
	), mock
}

func validVehicleRequest() entities.RegisterVehicleRequest {
	return entities.RegisterVehicleRequest{
		LicensePlate: "ABC-1234",
		VehicleType:  "1",
		Make:         "3",
		Model:        "Corolla",
		Color:        "White",
		Year:         "2019",
		Transmission: "1",
		FuelType:     "1",
	}
}

func TestRegisterVehicle(t *testing.T) {
	svc, mock := newVehicleServiceWithMock(t)

	mock.ExpectQuery("SELECT license_plate FROM vehicles").
		WithArgs("ABC-1234").
		WillReturnRows(sqlmock.NewRows([]string{"license_plate"}))
	mock.ExpectExec("INSERT INTO vehicles").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := svc.Register("CUS1", validVehicleRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRegisterVehicleRejectsDuplicatePlate(t *testing.T) {
	svc, mock := newVehicleServiceWithMock(t)

	mock.ExpectQuery("SELECT license_plate FROM vehicles").
		WithArgs("ABC-1234").
		WillReturnRows(sqlmock.NewRows([]string{"license_plate"}).AddRow("ABC-1234"))

	err := svc.Register("CUS1", validVehicleRequest())
	if !apperrors.Is(err, apperrors.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRegisterVehicleRejectsBadEnums(t *testing.T) {
	svc, mock := newVehicleServiceWithMock(t)

	// Uniqueness is checked before the enum fields, so the plate lookup runs.
	mock.ExpectQuery("SELECT license_plate FROM vehicles").
		WillReturnRows(sqlmock.NewRows([]string{"license_plate"}))

	req := validVehicleRequest()
	req.FuelType = "9"
	err := svc.Register("CUS1", req)
	if !apperrors.Is(err, apperrors.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRegisterVehicleRequiresAllFields(t *testing.T) {
	svc, _ := newVehicleServiceWithMock(t)

	req := validVehicleRequest()
	req.Model = ""
	err := svc.Register("CUS1", req)
	if !apperrors.Is(err, apperrors.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateImageUnknownVehicle(t *testing.T) {
	svc, mock := newVehicleServiceWithMock(t)

	mock.ExpectExec("UPDATE vehicles SET imgpath").
		WithArgs("http://img", "XYZ-0001", "CUS1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := svc.UpdateImage("CUS1", "XYZ-0001", "http://img")
	if !apperrors.Is(err, apperrors.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
