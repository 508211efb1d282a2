// Package relay forwards an identity token to the application backend and
// reports whether the backend accepted it.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/casevault/casevault/pkg/config"
	"github.com/casevault/casevault/pkg/domain/auth"
)

const (
	DefaultTimeout = 5 * time.Second
	maxBodyBytes   = 1 << 20
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Result is the outcome of presenting a token to the backend.
type Result struct {
	Status     Status
	StatusCode int
	Detail     string
	// Payload is the backend's response body on success.
	Payload json.RawMessage
	err     error
}

func (r Result) OK() bool {
	return r.Status == StatusSuccess
}

// Err returns a *auth.RelayError for failed results and nil otherwise.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return &auth.RelayError{StatusCode: r.StatusCode, Detail: r.Detail, Err: r.err}
}

// Relayer is the capability the login flow depends on.
type Relayer interface {
	Relay(ctx context.Context, token auth.IdentityToken) Result
}

type loginRequest struct {
	IDToken string `json:"idToken"`
}

// Client posts tokens to a fixed backend endpoint.
type Client struct {
	url        string
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

func New(cfg *config.Relay, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		url:        cfg.URL,
		timeout:    timeout,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// Relay sends {"idToken": token} once. It never returns an error; failures
// are reported in the Result.
func (c *Client) Relay(ctx context.Context, token auth.IdentityToken) Result {
	log := c.logger.With("context", "Relay", "url", c.url)
	log.Debug("Relaying identity token")

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(loginRequest{IDToken: token.Reveal()})
	if err != nil {
		return failure(0, "unable to encode request", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		log.Error("Failed to create relay request", "error", err)
		return failure(0, "invalid backend address", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			log.Error("Backend timed out", "timeout", c.timeout)
			return failure(0, "backend timeout", err)
		}
		log.Error("Backend unreachable", "error", err)
		return failure(0, "backend unreachable", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		// The status line alone is not a confirmation or a rejection.
		log.Error("Failed to read backend response", "status", resp.StatusCode, "error", err)
		return failure(0, "unable to read backend response", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Warn("Backend rejected token", "status", resp.StatusCode)
		return failure(resp.StatusCode, http.StatusText(resp.StatusCode), nil)
	}

	log.Info("Backend accepted token", "status", resp.StatusCode)
	res := Result{Status: StatusSuccess, StatusCode: resp.StatusCode, Detail: "ok"}
	if json.Valid(payload) {
		res.Payload = payload
	}
	return res
}

func failure(code int, detail string, err error) Result {
	if err != nil && code == 0 {
		err = fmt.Errorf("%s: %w", detail, err)
	}
	return Result{Status: StatusFailure, StatusCode: code, Detail: detail, err: err}
}
