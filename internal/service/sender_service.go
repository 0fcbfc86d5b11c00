package service

import (
	"fmt"
	"log"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"autolanka/internal/config"
)

// SenderService pushes emails through SendGrid and SMS through Twilio.
// Credentials come from configuration; a missing credential downgrades the
// send to a logged warning so a dev environment without keys still works.
type SenderService struct {
	cfg *config.Config
}

func NewSenderService(cfg *config.Config) *SenderService {
	return &SenderService{cfg: cfg}
}

func (s *SenderService) SendEmail(toEmail, toName, subject, plainBody, htmlBody string) error {
	if s.cfg.SendgridAPIKey == "" || s.cfg.SendgridFromEmail == "" {
		log.Println("WARNING: SendGrid not configured, email not sent")
		return fmt.Errorf("sendgrid not configured")
	}

	from := mail.NewEmail(s.cfg.SendgridFromName, s.cfg.SendgridFromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainBody, htmlBody)

	client := sendgrid.NewSendClient(s.cfg.SendgridAPIKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email via SendGrid: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("SendGrid returned status %d: %s", response.StatusCode, response.Body)
	}
	log.Printf("Email sent to %s (subject: %s)", toEmail, subject)
	return nil
}

func (s *SenderService) SendSMS(toNumber, messageBody string) error {
	if s.cfg.TwilioAccountSID == "" || s.cfg.TwilioAuthToken == "" || s.cfg.TwilioFromNumber == "" {
		log.Println("WARNING: Twilio not configured, SMS not sent")
		return fmt.Errorf("twilio not configured")
	}
	if !strings.HasPrefix(toNumber, "+") {
		log.Printf("WARNING: destination number %q is not E.164, SMS may fail", toNumber)
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: s.cfg.TwilioAccountSID,
		Password: s.cfg.TwilioAuthToken,
	})

	params := &openapi.CreateMessageParams{}
	params.SetTo(toNumber)
	params.SetFrom(s.cfg.TwilioFromNumber)
	params.SetBody(messageBody)

	if _, err := client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}
	return nil
}

// SendVerificationEmail mails the address-verification link.
func (s *SenderService) SendVerificationEmail(toEmail, token string) {
	link := fmt.Sprintf("%s/emailverify?token=%s", s.cfg.ClientURL, token)
	subject := "Auto Lanka Services, Email Verification"
	plain := fmt.Sprintf(
		"Thank you for registering with Auto Lanka Services.\n\n"+
			"To complete your registration, please verify your email address:\n\n%s\n\n"+
			"If you didn't create an account, you can safely ignore this email.", link)
	html := fmt.Sprintf(
		`<p>Thank you for registering with Auto Lanka Services.</p>`+
			`<p><a href="%s">Click here to verify your email address</a></p>`+
			`<p>If the button doesn't work, copy this link into your browser:<br>%s</p>`, link, link)

	go func() {
		if err := s.SendEmail(toEmail, "", subject, plain, html); err != nil {
			log.Printf("WARNING: failed to send verification email to %s: %v", toEmail, err)
		}
	}()
}

// SendPasswordResetEmail mails the reset-password link.
func (s *SenderService) SendPasswordResetEmail(toEmail, token string) {
	link := fmt.Sprintf("%s/login/reset-password?token=%s", s.cfg.ClientURL, token)
	subject := "Auto Lanka Services, Reset Account Password"
	plain := fmt.Sprintf(
		"Click the following link to reset the password of your Auto Lanka Services account:\n\n%s\n\n"+
			"If you didn't request this, you can safely ignore this email.", link)
	html := fmt.Sprintf(
		`<p><a href="%s">Click here to reset your password</a></p>`+
			`<p>If the button doesn't work, copy this link into your browser:<br>%s</p>`, link, link)

	go func() {
		if err := s.SendEmail(toEmail, "", subject, plain, html); err != nil {
			log.Printf("WARNING: failed to send password reset email to %s: %v", toEmail, err)
		}
	}()
}

// SendPasswordResetConfirmEmail mails the confirmation link for a direct
// password reset. The new password only takes effect when the link is opened.
func (s *SenderService) SendPasswordResetConfirmEmail(toEmail, token string) {
	link := fmt.Sprintf("%s/confirm-password-reset?token=%s", s.cfg.ClientURL, token)
	subject := "Auto Lanka Services, Password Reset Confirmation"
	plain := fmt.Sprintf(
		"Click the following link to confirm your password reset:\n\n%s\n\n"+
			"If you didn't request this, you can safely ignore this email.", link)
	html := fmt.Sprintf(
		`<p><a href="%s">Click here to confirm your password reset</a></p>`+
			`<p>If the button doesn't work, copy this link into your browser:<br>%s</p>`, link, link)

	go func() {
		if err := s.SendEmail(toEmail, "", subject, plain, html); err != nil {
			log.Printf("WARNING: failed to send password reset confirmation to %s: %v", toEmail, err)
		}
	}()
}

// SendOTPSMS texts the registration OTP.
func (s *SenderService) SendOTPSMS(toNumber, otp string) {
	body := fmt.Sprintf("Auto Lanka Services: your verification code is %s", otp)
	go func() {
		if err := s.SendSMS(toNumber, body); err != nil {
			log.Printf("WARNING: failed to send OTP SMS to %s: %v", toNumber, err)
		}
	}()
}
