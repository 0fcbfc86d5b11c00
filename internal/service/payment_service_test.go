package service

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"autolanka/internal/apperrors"
	"autolanka/internal/config"
	"autolanka/internal/entities"
	"autolanka/internal/gateway"
	"autolanka/internal/repository"
)

const (
	testMerchantID = "1211149"
	testSecret     = "8boBnfRoK4d"
)

func md5Upper(raw string) string {
	sum := md5.Sum([]byte(raw))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// gatewaySign mimics the gateway's side of the IPN signature.
func gatewaySign(orderID, amount, currency, statusCode string) string {
	inner := md5Upper(testSecret)
	return md5Upper(testMerchantID + orderID + amount + currency + statusCode + inner)
}

func newPaymentServiceWithMock(t *testing.T) (*PaymentService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	signer := gateway.NewSigner(testMerchantID, testSecret, "LKR", nil)
	svc := NewPaymentService(repository.NewReservationRepository(db), signer, config.GatewayConfig{
		CheckoutURL: "https://sandbox.payhere.lk/pay/checkout",
		MerchantID:  testMerchantID,
		Currency:    "LKR",
		ReturnURL:   "https://example.com/return",
		CancelURL:   "https://example.com/cancel",
		NotifyURL:   "https://example.com/notify",
	})
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return svc, mock
}

func TestCreateCheckoutBuildsSignedForm(t *testing.T) {
	svc, mock := newPaymentServiceWithMock(t)

	mock.ExpectQuery("COALESCE\\(sr.final_amount, 0\\)").
		WithArgs(12).
		WillReturnRows(sqlmock.NewRows([]string{"service_name", "amount"}).AddRow("Oil Change", 4500.5))
	mock.ExpectQuery("FROM reservations r").
		WithArgs(12).
		WillReturnRows(sqlmock.NewRows([]string{"first_name", "last_name", "email", "mobile_no"}).
			AddRow("Nimal", "Perera", "nimal@example.com", "0771234567"))

	resp, err := svc.CreateCheckout(12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Action != "https://sandbox.payhere.lk/pay/checkout" {
		t.Fatalf("unexpected action: %s", resp.Action)
	}

	f := resp.Fields
	wantOrderID := fmt.Sprintf("R12-%d", int64(1700000000000))
	if f["order_id"] != wantOrderID {
		t.Fatalf("unexpected order_id: %s", f["order_id"])
	}
	if f["amount"] != "4500.50" {
		t.Fatalf("amount must carry two decimal places, got %s", f["amount"])
	}
	if f["custom_1"] != "12" {
		t.Fatalf("unexpected custom_1: %s", f["custom_1"])
	}
	if f["first_name"] != "Nimal" || f["email"] != "nimal@example.com" {
		t.Fatalf("customer fields not resolved: %+v", f)
	}

	wantHash := md5Upper(testMerchantID + wantOrderID + "4500.50" + "LKR" + md5Upper(testSecret))
	if f["hash"] != wantHash {
		t.Fatalf("checkout hash mismatch: got %s want %s", f["hash"], wantHash)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateCheckoutRejectsUnpricedReservation(t *testing.T) {
	svc, mock := newPaymentServiceWithMock(t)

	mock.ExpectQuery("COALESCE\\(sr.final_amount, 0\\)").
		WithArgs(12).
		WillReturnRows(sqlmock.NewRows([]string{"service_name", "amount"}).AddRow("Oil Change", 0))

	_, err := svc.CreateCheckout(12)
	if !apperrors.Is(err, apperrors.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateCheckoutUnknownReservation(t *testing.T) {
	svc, mock := newPaymentServiceWithMock(t)

	mock.ExpectQuery("COALESCE\\(sr.final_amount, 0\\)").
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"service_name", "amount"}))

	_, err := svc.CreateCheckout(99)
	if !apperrors.Is(err, apperrors.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateCheckoutStorageFailureIsInternal(t *testing.T) {
	svc, mock := newPaymentServiceWithMock(t)

	mock.ExpectQuery("COALESCE\\(sr.final_amount, 0\\)").
		WithArgs(12).
		WillReturnError(fmt.Errorf("connection refused"))

	_, err := svc.CreateCheckout(12)
	if !apperrors.Is(err, apperrors.KindInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestHandleNotificationMarksPaid(t *testing.T) {
	svc, mock := newPaymentServiceWithMock(t)

	mock.ExpectExec("UPDATE service_records SET is_paid").
		WithArgs(12).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n := entities.Notification{
		MerchantID: testMerchantID,
		OrderID:    "R12-1700000000000",
		Amount:     "4500.50",
		Currency:   "LKR",
		StatusCode: "2",
		Signature:  gatewaySign("R12-1700000000000", "4500.50", "LKR", "2"),
		Custom1:    "12",
	}
	if err := svc.HandleNotification(n); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestHandleNotificationReplayIsIdempotent(t *testing.T) {
	svc, mock := newPaymentServiceWithMock(t)

	mock.ExpectExec("UPDATE service_records SET is_paid").
		WithArgs(12).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE service_records SET is_paid").
		WithArgs(12).WillReturnResult(sqlmock.NewResult(0, 0))

	n := entities.Notification{
		MerchantID: testMerchantID,
		OrderID:    "R12-1700000000000",
		Amount:     "4500.50",
		Currency:   "LKR",
		StatusCode: "2",
		Signature:  gatewaySign("R12-1700000000000", "4500.50", "LKR", "2"),
		Custom1:    "12",
	}
	if err := svc.HandleNotification(n); err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	if err := svc.HandleNotification(n); err != nil {
		t.Fatalf("replay: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestHandleNotificationRejectsTamperedAmount(t *testing.T) {
	svc, mock := newPaymentServiceWithMock(t)

	// Signature was computed over the real amount; the replayed notification
	// claims a different one. Nothing may touch the database.
	n := entities.Notification{
		MerchantID: testMerchantID,
		OrderID:    "R12-1700000000000",
		Amount:     "1.00",
		Currency:   "LKR",
		StatusCode: "2",
		Signature:  gatewaySign("R12-1700000000000", "4500.50", "LKR", "2"),
		Custom1:    "12",
	}
	err := svc.HandleNotification(n)
	if !apperrors.Is(err, apperrors.KindSignature) {
		t.Fatalf("expected signature error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestHandleNotificationNonSuccessStatusIsAcknowledged(t *testing.T) {
	svc, mock := newPaymentServiceWithMock(t)

	n := entities.Notification{
		MerchantID: testMerchantID,
		OrderID:    "R12-1700000000000",
		Amount:     "4500.50",
		Currency:   "LKR",
		StatusCode: "0",
		Signature:  gatewaySign("R12-1700000000000", "4500.50", "LKR", "0"),
		Custom1:    "12",
	}
	if err := svc.HandleNotification(n); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestHandleNotificationCorrelatesFromOrderID(t *testing.T) {
	svc, mock := newPaymentServiceWithMock(t)

	mock.ExpectExec("UPDATE service_records SET is_paid").
		WithArgs(33).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// No custom_1 echoed back; the reservation id is recovered from the
	// order identifier.
	n := entities.Notification{
		MerchantID: testMerchantID,
		OrderID:    "R33-1700000000000",
		Amount:     "900.00",
		Currency:   "LKR",
		StatusCode: "2",
		Signature:  gatewaySign("R33-1700000000000", "900.00", "LKR", "2"),
	}
	if err := svc.HandleNotification(n); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
