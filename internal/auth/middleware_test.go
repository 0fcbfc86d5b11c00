package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware(t *testing.T) {
	tokens := NewTokenService("test-secret")
	var seenUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUserID = UserIDFromContext(r.Context())
	})
	protected := Middleware(tokens)(next)

	token, err := tokens.IssueLogin("CUS7", "nimal@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "CUS7", seenUserID)
}

func TestMiddlewareRejectsMissingOrBadToken(t *testing.T) {
	tokens := NewTokenService("test-secret")
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})
	protected := Middleware(tokens)(next)

	for _, header := range []string{"", "Bearer ", "Bearer garbage", "Basic abc"} {
		req := httptest.NewRequest(http.MethodGet, "/profile", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"), "header %q", header)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), "header %q", header)
		assert.NotEmpty(t, body["message"], "header %q", header)
	}
}
