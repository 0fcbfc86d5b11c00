package gateway

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"hash"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// StatusSuccess is the gateway's status_code value for a completed payment.
const StatusSuccess = "2"

var orderIDPattern = regexp.MustCompile(`^R(\d+)-`)

// Signer computes and verifies the gateway's keyed digests. The digest
// algorithm is a parameter of the integration, not a constant: it must match
// whatever the gateway validates on its side. The legacy contract is MD5.
type Signer struct {
	merchantID string
	currency   string
	inner      string // HEX_UPPER(digest(secret)), precomputed
	newDigest  func() hash.Hash
}

// NewSigner builds a Signer for the given merchant credentials. A nil digest
// selects MD5, the legacy gateway algorithm.
func NewSigner(merchantID, merchantSecret, currency string, digest func() hash.Hash) *Signer {
	if digest == nil {
		digest = func() hash.Hash { return md5.New() }
	}
	s := &Signer{
		merchantID: merchantID,
		currency:   currency,
		newDigest:  digest,
	}
	s.inner = s.hexDigest(merchantSecret)
	return s
}

func (s *Signer) MerchantID() string { return s.merchantID }
func (s *Signer) Currency() string   { return s.currency }

func (s *Signer) hexDigest(raw string) string {
	h := s.newDigest()
	h.Write([]byte(raw))
	return strings.ToUpper(hex.EncodeToString(h.Sum(nil)))
}

// CheckoutHash signs an outbound checkout form:
// HEX_UPPER(digest(merchantID + orderID + amount(2dp) + currency + digest(secret))).
func (s *Signer) CheckoutHash(orderID string, amount float64) string {
	raw := s.merchantID + orderID + FormatAmount(amount) + s.currency + s.inner
	return s.hexDigest(raw)
}

// VerifySignature recomputes the notification digest from the
// gateway-reported fields and compares it against the reported signature.
// The comparison covers the full length so a forged signature cannot be
// probed byte by byte.
func (s *Signer) VerifySignature(merchantID, orderID, amount, currency, statusCode, signature string) bool {
	amt, err := strconv.ParseFloat(strings.TrimSpace(amount), 64)
	if err != nil {
		return false
	}
	raw := merchantID + orderID + FormatAmount(amt) + currency + statusCode + s.inner
	local := s.hexDigest(raw)
	if len(local) != len(signature) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(local), []byte(signature)) == 1
}

// FormatAmount renders an amount the way the gateway hashes it: fixed two
// decimal places.
func FormatAmount(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

// BuildOrderID creates a per-attempt order identifier that embeds the
// reservation id recoverably: R<id>-<epochMillis>.
func BuildOrderID(reservationID int, now time.Time) string {
	return fmt.Sprintf("R%d-%d", reservationID, now.UnixMilli())
}

// ReservationIDFromOrder recovers the reservation id from an order
// identifier built by BuildOrderID.
func ReservationIDFromOrder(orderID string) (int, bool) {
	m := orderIDPattern.FindStringSubmatch(orderID)
	if m == nil {
		return 0, false
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return id, true
}
