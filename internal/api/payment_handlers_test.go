package api

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"autolanka/internal/config"
	"autolanka/internal/gateway"
	"autolanka/internal/repository"
	"autolanka/internal/service"
)

const (
	testMerchantID = "1211149"
	testSecret     = "8boBnfRoK4d"
)

func md5Upper(raw string) string {
	sum := md5.Sum([]byte(raw))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

func gatewaySign(orderID, amount, currency, statusCode string) string {
	inner := md5Upper(testSecret)
	return md5Upper(testMerchantID + orderID + amount + currency + statusCode + inner)
}

func newPaymentHandlerWithMock(t *testing.T) (*PaymentHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	signer := gateway.NewSigner(testMerchantID, testSecret, "LKR", nil)
	svc := service.NewPaymentService(repository.NewReservationRepository(db), signer, config.GatewayConfig{
		CheckoutURL: "https://sandbox.payhere.lk/pay/checkout",
		MerchantID:  testMerchantID,
		Currency:    "LKR",
	})
	return NewPaymentHandler(svc), mock
}

func postNotification(h *PaymentHandler, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/ipn", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.Notify(rec, req)
	return rec
}

func successNotification(reservationID int, amount string) url.Values {
	orderID := fmt.Sprintf("R%d-1700000000000", reservationID)
	return url.Values{
		"merchant_id":      {testMerchantID},
		"order_id":         {orderID},
		"payhere_amount":   {amount},
		"payhere_currency": {"LKR"},
		"status_code":      {"2"},
		"md5sig":           {gatewaySign(orderID, amount, "LKR", "2")},
		"custom_1":         {fmt.Sprintf("%d", reservationID)},
	}
}

func TestNotifyAcknowledgesVerifiedPayment(t *testing.T) {
	h, mock := newPaymentHandlerWithMock(t)

	mock.ExpectExec("UPDATE service_records SET is_paid").
		WithArgs(12).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := postNotification(h, successNotification(12, "4500.50"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := rec.Body.String(); body != "OK" {
		t.Fatalf("expected plain OK body, got %q", body)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("expected text/plain reply, got %q", ct)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestNotifyRejectsBadSignature(t *testing.T) {
	h, mock := newPaymentHandlerWithMock(t)

	form := successNotification(12, "4500.50")
	form.Set("payhere_amount", "1.00") // signature no longer covers this

	rec := postNotification(h, form)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body := rec.Body.String(); body != "SIG_MISMATCH" {
		t.Fatalf("expected SIG_MISMATCH body, got %q", body)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("database was touched: %v", err)
	}
}

func TestNotifyReportsProcessingFailure(t *testing.T) {
	h, mock := newPaymentHandlerWithMock(t)

	mock.ExpectExec("UPDATE service_records SET is_paid").
		WithArgs(12).
		WillReturnError(fmt.Errorf("connection reset"))

	rec := postNotification(h, successNotification(12, "4500.50"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if body := rec.Body.String(); body != "ERR" {
		t.Fatalf("expected ERR body, got %q", body)
	}
}

func TestCreatePaymentRequiresReservationID(t *testing.T) {
	h, _ := newPaymentHandlerWithMock(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/create", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.CreatePayment(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
