package entities

// CheckoutResponse carries everything the client needs to post the gateway
// checkout form: the target URL and the signed field set.
type CheckoutResponse struct {
	Action string            `json:"action"`
	Fields map[string]string `json:"fields"`
}

// Notification is the gateway's IPN callback, delivered form-encoded.
type Notification struct {
	MerchantID string
	OrderID    string
	Amount     string
	Currency   string
	StatusCode string
	Signature  string
	Custom1    string
}
