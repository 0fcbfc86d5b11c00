package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"autolanka/internal/auth"
	"autolanka/internal/entities"
	"autolanka/internal/service"
)

type UserHandler struct {
	Auth *service.AuthService
}

func NewUserHandler(authService *service.AuthService) *UserHandler {
	return &UserHandler{Auth: authService}
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req entities.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if err := h.Auth.Register(req); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusCreated, "Success")
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req entities.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}
	resp, err := h.Auth.Login(req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// EmailVerify lands email-link clicks, so it answers with a small HTML page
// instead of JSON.
func (h *UserHandler) EmailVerify(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if err := h.Auth.VerifyEmail(token); err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, `<html><head><title>Email Verified</title></head>`+
		`<body><h2>Email verified successfully!</h2>`+
		`<p>You can now close this browser and return to the app.</p></body></html>`)
}

func (h *UserHandler) OTPVerify(w http.ResponseWriter, r *http.Request) {
	var req entities.OTPVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if err := h.Auth.VerifyOTP(req); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Success")
}

func (h *UserHandler) ResendVerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}
	alreadyVerified, err := h.Auth.ResendVerification(req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	if alreadyVerified {
		writeMessage(w, http.StatusOK, "Email already verified. Go to login!")
		return
	}
	writeMessage(w, http.StatusOK, "Email sent")
}

func (h *UserHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if err := h.Auth.ForgotPassword(req.Email); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Email sent")
}

func (h *UserHandler) VerifyResetPasswordToken(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if err := h.Auth.VerifyResetToken(token); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Token verified")
}

func (h *UserHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if err := h.Auth.ResetPassword(req.Token, req.Password); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Password updated")
}

func (h *UserHandler) ResetPasswordDirect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if err := h.Auth.ResetPasswordDirect(req.Email, req.Password); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Password reset email sent")
}

// ConfirmPasswordReset lands the direct-reset email link, so it answers HTML.
func (h *UserHandler) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if err := h.Auth.ConfirmPasswordReset(token); err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, `<html><head><title>Password Reset Confirmed</title></head>`+
		`<body><h2>Password reset successfully!</h2>`+
		`<p>You can now close this browser and log in with your new password.</p></body></html>`)
}

func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	profile, err := h.Auth.Profile(userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
