package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/anonto42/nano-posts/backend/internal/repositories"
)

const (
	hunterEndpoint      = "https://api.hunter.io/v2/email-verifier"
	emailVerifyTimeout  = 20 * time.Second
	emailVerifyAttempts = 2
)

// EmailVerifier activates new accounts whose address the hunter.io verifier reports as valid.
type EmailVerifier struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	users      repositories.UserRepository
	logger     *slog.Logger
}

// NewEmailVerifier creates an EmailVerifier using the given hunter.io API key.
func NewEmailVerifier(apiKey string, users repositories.UserRepository, logger *slog.Logger) *EmailVerifier {
	return &EmailVerifier{
		httpClient: &http.Client{Timeout: emailVerifyTimeout},
		endpoint:   hunterEndpoint,
		apiKey:     apiKey,
		users:      users,
		logger:     logger,
	}
}

type hunterResponse struct {
	Data struct {
		Status string `json:"status"`
	} `json:"data"`
}

// Check asks the verifier whether email is deliverable.
func (v *EmailVerifier) Check(ctx context.Context, email string) (bool, error) {
	params := url.Values{}
	params.Set("email", email)
	params.Set("api_key", v.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return false, err
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("email verifier returned status %d", resp.StatusCode)
	}

	var body hunterResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("decode email verifier response: %w", err)
	}
	return body.Data.Status == "valid", nil
}

// VerifyAndActivate checks email, retrying once, and activates its user when valid.
// It reports whether the user was activated.
func (v *EmailVerifier) VerifyAndActivate(ctx context.Context, email string) bool {
	for attempt := 1; attempt <= emailVerifyAttempts; attempt++ {
		valid, err := v.Check(ctx, email)
		if err != nil {
			v.logger.WarnContext(ctx, "email verification failed",
				slog.String("email", email), slog.Int("attempt", attempt), slog.Any("error", err))
			continue
		}
		if !valid {
			continue
		}
		if err := v.users.ActivateUser(ctx, email); err != nil {
			v.logger.ErrorContext(ctx, "failed to activate user",
				slog.String("email", email), slog.Any("error", err))
			return false
		}
		return true
	}
	return false
}
