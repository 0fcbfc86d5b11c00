package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"autolanka/internal/apperrors"
	"autolanka/internal/entities"
	"autolanka/internal/service"
)

type PaymentHandler struct {
	Payments *service.PaymentService
}

func NewPaymentHandler(payments *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{Payments: payments}
}

func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ReservationID int `json:"reservation_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if req.ReservationID <= 0 {
		writeMessage(w, http.StatusBadRequest, "reservation_id is required")
		return
	}
	resp, err := h.Payments.CreateCheckout(req.ReservationID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Notify is the gateway's server-to-server IPN endpoint. The gateway expects
// plain text, not JSON: 200 for anything it should stop retrying, 400 for a
// signature mismatch, 500 when our side failed and a retry could succeed.
func (h *PaymentHandler) Notify(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writePlain(w, http.StatusBadRequest, "ERR")
		return
	}

	n := entities.Notification{
		MerchantID: r.PostFormValue("merchant_id"),
		OrderID:    r.PostFormValue("order_id"),
		Amount:     r.PostFormValue("payhere_amount"),
		Currency:   r.PostFormValue("payhere_currency"),
		StatusCode: r.PostFormValue("status_code"),
		Signature:  r.PostFormValue("md5sig"),
		Custom1:    r.PostFormValue("custom_1"),
	}

	if err := h.Payments.HandleNotification(n); err != nil {
		if apperrors.KindOf(err) == apperrors.KindSignature {
			writePlain(w, http.StatusBadRequest, "SIG_MISMATCH")
			return
		}
		var ae *apperrors.Error
		if errors.As(err, &ae) {
			log.Printf("IPN processing failed for order %s: %v", n.OrderID, ae.Err)
		} else {
			log.Printf("IPN processing failed for order %s: %v", n.OrderID, err)
		}
		writePlain(w, http.StatusInternalServerError, "ERR")
		return
	}
	writePlain(w, http.StatusOK, "OK")
}

// Return lands the customer's browser after a completed checkout.
func (h *PaymentHandler) Return(w http.ResponseWriter, r *http.Request) {
	writeGatewayPage(w, "Payment Received",
		"Thank you! Your payment is being confirmed. You can close this page and return to the app.")
}

// Cancel lands the customer's browser after an abandoned checkout.
func (h *PaymentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	writeGatewayPage(w, "Payment Cancelled",
		"Your payment was cancelled. You can retry from the app at any time.")
}

func writePlain(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprint(w, body)
}

func writeGatewayPage(w http.ResponseWriter, title, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<html><head><title>%s</title></head><body><h2>%s</h2><p>%s</p></body></html>`,
		title, title, body)
}
