package service

import (
	"database/sql"
	"errors"
	"log"
	"strconv"
	"time"

	"autolanka/internal/apperrors"
	"autolanka/internal/config"
	"autolanka/internal/entities"
	"autolanka/internal/gateway"
	"autolanka/internal/repository"
)

// PaymentService builds signed gateway checkout forms and processes the
// gateway's IPN callbacks.
type PaymentService struct {
	Reservations *repository.ReservationRepository
	Signer       *gateway.Signer
	Gateway      config.GatewayConfig
	now          func() time.Time
}

func NewPaymentService(reservations *repository.ReservationRepository, signer *gateway.Signer, gw config.GatewayConfig) *PaymentService {
	return &PaymentService{
		Reservations: reservations,
		Signer:       signer,
		Gateway:      gw,
		now:          time.Now,
	}
}

// CreateCheckout resolves the reservation's charge and returns the gateway
// form. A reservation whose final amount was never set cannot be checked out.
func (s *PaymentService) CreateCheckout(reservationID int) (*entities.CheckoutResponse, error) {
	serviceName, amount, err := s.Reservations.GetChargeAmount(reservationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("reservation not found")
		}
		return nil, apperrors.Internal("Internal Server Error", err)
	}
	if amount <= 0 {
		return nil, apperrors.Validation("Final amount not set for this reservation")
	}

	firstName, lastName, email, phone := "Customer", "Service", "customer@example.com", "0700000000"
	if fn, ln, em, ph, err := s.Reservations.CustomerForReservation(reservationID); err == nil {
		firstName, lastName, email, phone = fn, ln, em, ph
	} else {
		log.Printf("Could not resolve customer for reservation %d: %v", reservationID, err)
	}

	// A fresh order id per attempt; the reservation id stays recoverable
	// from it because the IPN may not echo custom_1 back.
	orderID := gateway.BuildOrderID(reservationID, s.now())
	hash := s.Signer.CheckoutHash(orderID, amount)

	return &entities.CheckoutResponse{
		Action: s.Gateway.CheckoutURL,
		Fields: map[string]string{
			"merchant_id": s.Signer.MerchantID(),
			"return_url":  s.Gateway.ReturnURL,
			"cancel_url":  s.Gateway.CancelURL,
			"notify_url":  s.Gateway.NotifyURL,

			"order_id": orderID,
			"items":    serviceName,
			"currency": s.Signer.Currency(),
			"amount":   gateway.FormatAmount(amount),

			"first_name": firstName,
			"last_name":  lastName,
			"email":      email,
			"phone":      phone,
			"address":    "N/A",
			"city":       "N/A",
			"country":    "Sri Lanka",

			"custom_1": strconv.Itoa(reservationID),

			"hash": hash,
		},
	}, nil
}

// HandleNotification verifies an IPN callback and, for a successful payment,
// marks the correlated reservation paid. Anything short of a verified
// success leaves the database untouched. Replays of the same successful
// notification are harmless: marking paid twice is a no-op.
func (s *PaymentService) HandleNotification(n entities.Notification) error {
	if !s.Signer.VerifySignature(n.MerchantID, n.OrderID, n.Amount, n.Currency, n.StatusCode, n.Signature) {
		log.Printf("IPN signature mismatch for order %s", n.OrderID)
		return apperrors.Signature("SIG_MISMATCH")
	}

	reservationID, ok := s.correlate(n)
	if n.StatusCode != gateway.StatusSuccess {
		log.Printf("IPN for order %s acknowledged with status_code=%s, no state change", n.OrderID, n.StatusCode)
		return nil
	}
	if !ok {
		log.Printf("IPN for order %s carries no recoverable reservation id", n.OrderID)
		return nil
	}
	if err := s.Reservations.MarkPaid(reservationID); err != nil {
		return apperrors.Internal("ERR", err)
	}
	log.Printf("Reservation %d marked paid (order %s)", reservationID, n.OrderID)
	return nil
}

// correlate prefers the explicit custom field and falls back to the
// reservation id embedded in the order identifier.
func (s *PaymentService) correlate(n entities.Notification) (int, bool) {
	if n.Custom1 != "" {
		if id, err := strconv.Atoi(n.Custom1); err == nil && id > 0 {
			return id, true
		}
	}
	return gateway.ReservationIDFromOrder(n.OrderID)
}
