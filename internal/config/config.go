package config

import (
	"fmt"
	"os"
	"strings"
)

const (
	sandboxCheckoutURL = "https://sandbox.payhere.lk/pay/checkout"
	liveCheckoutURL    = "https://www.payhere.lk/pay/checkout"
)

// GatewayConfig holds the PayHere merchant credentials and callback URLs.
// Everything here comes from the environment; nothing is hard-coded.
type GatewayConfig struct {
	CheckoutURL    string
	MerchantID     string
	MerchantSecret string
	Currency       string
	ReturnURL      string
	CancelURL      string
	NotifyURL      string
}

type Config struct {
	DatabaseURL string
	Port        string
	JWTSecret   string
	ClientURL   string

	Gateway GatewayConfig

	SendgridAPIKey    string
	SendgridFromEmail string
	SendgridFromName  string

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string

	SupabaseURL    string
	SupabaseKey    string
	SupabaseBucket string

	AllowedOrigins []string
}

// Load reads configuration from the environment. godotenv.Load is the
// caller's responsibility (done once in main).
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Port:        getenv("PORT", "8080"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		ClientURL:   os.Getenv("CLIENT_URL"),
		Gateway: GatewayConfig{
			MerchantID:     os.Getenv("PAYHERE_MERCHANT_ID"),
			MerchantSecret: os.Getenv("PAYHERE_MERCHANT_SECRET"),
			Currency:       getenv("PAYHERE_CURRENCY", "LKR"),
			ReturnURL:      os.Getenv("PAYHERE_RETURN_URL"),
			CancelURL:      os.Getenv("PAYHERE_CANCEL_URL"),
			NotifyURL:      os.Getenv("PAYHERE_NOTIFY_URL"),
		},
		SendgridAPIKey:    os.Getenv("SENDGRID_API_KEY"),
		SendgridFromEmail: os.Getenv("SENDGRID_FROM_EMAIL"),
		SendgridFromName:  getenv("SENDGRID_FROM_NAME", "Auto Lanka Services"),
		TwilioAccountSID:  os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:   os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFromNumber:  os.Getenv("TWILIO_FROM_NUMBER"),
		SupabaseURL:       os.Getenv("SUPABASE_URL"),
		SupabaseKey:       os.Getenv("SUPABASE_ANON_KEY"),
		SupabaseBucket:    getenv("SUPABASE_BUCKET", "vehicle-images"),
	}

	if getenv("PAYHERE_MODE", "sandbox") == "sandbox" {
		cfg.Gateway.CheckoutURL = sandboxCheckoutURL
	} else {
		cfg.Gateway.CheckoutURL = liveCheckoutURL
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = splitAndTrim(origins)
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET not set")
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
