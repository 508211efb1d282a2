package auth

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/casevault/casevault/pkg/config"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"
)

const (
	firebaseIssuerPrefix = "https://securetoken.google.com/"
	defaultKeysMaxAge    = time.Hour
	keysFetchTimeout     = 10 * time.Second
	minRefreshInterval   = time.Minute
)

var errUnknownKey = errors.New("unknown signing key")

// FirebaseStrategy verifies Firebase ID tokens: RS256 signed with one of
// Google's rotating securetoken keys.
type FirebaseStrategy struct {
	projectID  string
	keysURL    string
	httpClient *http.Client
	logger     *slog.Logger
	now        func() time.Time

	group     singleflight.Group
	mu        sync.RWMutex
	keys      map[string]*rsa.PublicKey
	expiresAt time.Time
	fetchedAt time.Time
}

func NewFirebaseStrategy(cfg *config.Firebase, logger *slog.Logger) *FirebaseStrategy {
	return &FirebaseStrategy{
		projectID:  cfg.ProjectID,
		keysURL:    cfg.KeysURL,
		httpClient: &http.Client{Timeout: keysFetchTimeout},
		logger:     logger,
		now:        time.Now,
	}
}

func (s *FirebaseStrategy) Name() string { return "firebase" }

func (s *FirebaseStrategy) Issuer() string { return firebaseIssuerPrefix + s.projectID }

func (s *FirebaseStrategy) Audience() string { return s.projectID }

func (s *FirebaseStrategy) Keyfunc(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok || token.Method.Alg() != "RS256" {
		return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
	}
	kid, _ := token.Header["kid"].(string)
	if kid == "" {
		return nil, errors.New("token has no kid header")
	}

	key, fresh := s.lookup(kid)
	if key != nil && fresh {
		return key, nil
	}
	if fresh && s.recentlyFetched() {
		return nil, fmt.Errorf("%w %q", errUnknownKey, kid)
	}
	if err := s.refresh(context.Background()); err != nil {
		// Serve a stale key rather than fail while Google is unreachable.
		if key, _ := s.lookup(kid); key != nil {
			s.logger.Warn("Using stale signing key", "kid", kid, "error", err)
			return key, nil
		}
		return nil, err
	}
	if key, _ := s.lookup(kid); key != nil {
		return key, nil
	}
	return nil, fmt.Errorf("%w %q", errUnknownKey, kid)
}

func (s *FirebaseStrategy) lookup(kid string) (*rsa.PublicKey, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.keys[kid], s.now().Before(s.expiresAt)
}

func (s *FirebaseStrategy) recentlyFetched() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.now().Sub(s.fetchedAt) < minRefreshInterval
}

// refresh downloads the current key set. Concurrent callers share one
// request.
func (s *FirebaseStrategy) refresh(ctx context.Context) error {
	_, err, _ := s.group.Do("keys", func() (any, error) {
		if s.recentlyFetched() {
			return nil, nil
		}
		keys, ttl, err := s.fetch(ctx)
		if err != nil {
			s.logger.Error("Failed to fetch signing keys", "url", s.keysURL, "error", err)
			return nil, err
		}
		now := s.now()
		s.mu.Lock()
		s.keys = keys
		s.expiresAt = now.Add(ttl)
		s.fetchedAt = now
		s.mu.Unlock()
		s.logger.Info("Signing keys refreshed", "count", len(keys), "max_age", ttl)
		return nil, nil
	})
	return err
}

func (s *FirebaseStrategy) fetch(ctx context.Context) (map[string]*rsa.PublicKey, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.keysURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch keys: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, 0, fmt.Errorf("keys endpoint returned status %d: %s", resp.StatusCode, string(body))
	}

	var certs map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&certs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode keys: %w", err)
	}
	keys := make(map[string]*rsa.PublicKey, len(certs))
	for kid, pem := range certs {
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pem))
		if err != nil {
			s.logger.Warn("Skipping unparsable signing key", "kid", kid, "error", err)
			continue
		}
		keys[kid] = key
	}
	if len(keys) == 0 {
		return nil, 0, errors.New("keys endpoint returned no usable keys")
	}
	return keys, maxAge(resp.Header.Get("Cache-Control")), nil
}

// maxAge reads max-age from a Cache-Control header.
func maxAge(header string) time.Duration {
	for _, directive := range strings.Split(header, ",") {
		name, value, ok := strings.Cut(strings.TrimSpace(directive), "=")
		if !ok || !strings.EqualFold(name, "max-age") {
			continue
		}
		if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultKeysMaxAge
}
