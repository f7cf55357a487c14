package guard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/RinkiBai/portfolio-backend/internal/contact/domain"
)

// Verifier checks a human-verification token supplied by the client.
type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) error
}

// NoopVerifier accepts everything; used when verification is disabled.
type NoopVerifier struct{}

func (NoopVerifier) Verify(context.Context, string, string) error { return nil }

type siteVerifyResponse struct {
	Success     bool     `json:"success"`
	Score       float64  `json:"score"`
	Action      string   `json:"action"`
	ChallengeTS string   `json:"challenge_ts"`
	Hostname    string   `json:"hostname"`
	ErrorCodes  []string `json:"error-codes"`
}

// RecaptchaVerifier validates score-based tokens against the siteverify API.
type RecaptchaVerifier struct {
	secret   string
	url      string
	minScore float64
	action   string
	client   *http.Client
}

func NewRecaptchaVerifier(secret, verifyURL string, minScore float64, action string) *RecaptchaVerifier {
	return &RecaptchaVerifier{
		secret:   secret,
		url:      verifyURL,
		minScore: minScore,
		action:   action,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Verify returns domain.ErrVerificationFailed when the token is missing or
// rejected, and a plain error when the verification service is unreachable.
func (v *RecaptchaVerifier) Verify(ctx context.Context, token, remoteIP string) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("%w: token is missing", domain.ErrVerificationFailed)
	}

	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.url, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("verify request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("verify request: unexpected status %d", resp.StatusCode)
	}

	var out siteVerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("decode verify response: %w", err)
	}

	switch {
	case !out.Success:
		return fmt.Errorf("%w: %s", domain.ErrVerificationFailed, strings.Join(out.ErrorCodes, ","))
	case out.Score < v.minScore:
		return fmt.Errorf("%w: score %.2f below %.2f", domain.ErrVerificationFailed, out.Score, v.minScore)
	case out.Action != v.action:
		return fmt.Errorf("%w: action %q", domain.ErrVerificationFailed, out.Action)
	}
	return nil
}
