package guard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/RinkiBai/portfolio-backend/internal/contact/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func siteverify(t *testing.T, resp siteVerifyResponse) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "secret", r.PostForm.Get("secret"))
		assert.Equal(t, "tok", r.PostForm.Get("response"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRecaptchaVerifier_Verify(t *testing.T) {
	ctx := context.Background()

	t.Run("accepts confident matching token", func(t *testing.T) {
		srv := siteverify(t, siteVerifyResponse{Success: true, Score: 0.9, Action: "contact"})
		v := NewRecaptchaVerifier("secret", srv.URL, 0.5, "contact")
		assert.NoError(t, v.Verify(ctx, "tok", "1.2.3.4"))
	})

	rejected := map[string]siteVerifyResponse{
		"unsuccessful":    {Success: false, ErrorCodes: []string{"invalid-input-response"}},
		"low score":       {Success: true, Score: 0.3, Action: "contact"},
		"action mismatch": {Success: true, Score: 0.9, Action: "login"},
	}
	for name, resp := range rejected {
		t.Run("rejects "+name, func(t *testing.T) {
			srv := siteverify(t, resp)
			v := NewRecaptchaVerifier("secret", srv.URL, 0.5, "contact")
			assert.ErrorIs(t, v.Verify(ctx, "tok", ""), domain.ErrVerificationFailed)
		})
	}

	t.Run("missing token is a verification failure", func(t *testing.T) {
		v := NewRecaptchaVerifier("secret", "http://127.0.0.1:0", 0.5, "contact")
		assert.ErrorIs(t, v.Verify(ctx, " ", ""), domain.ErrVerificationFailed)
	})

	t.Run("service outage is not a verification failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		v := NewRecaptchaVerifier("secret", srv.URL, 0.5, "contact")
		err := v.Verify(ctx, "tok", "")
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrVerificationFailed)
	})

	t.Run("noop verifier accepts anything", func(t *testing.T) {
		assert.NoError(t, NoopVerifier{}.Verify(ctx, "", ""))
	})
}
