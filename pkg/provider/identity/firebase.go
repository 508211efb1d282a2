package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/casevault/casevault/pkg/config"
	"github.com/casevault/casevault/pkg/domain/auth"
)

const signInPath = "/v1/accounts:signInWithPassword"

var friendlyMessages = map[string]string{
	"EMAIL_NOT_FOUND":             "There is no user record corresponding to this email.",
	"INVALID_PASSWORD":            "The password is invalid.",
	"INVALID_LOGIN_CREDENTIALS":   "The email or password is incorrect.",
	"INVALID_EMAIL":               "The email address is badly formatted.",
	"USER_DISABLED":               "The user account has been disabled by an administrator.",
	"TOO_MANY_ATTEMPTS_TRY_LATER": "Too many unsuccessful login attempts. Please try again later.",
}

// ProviderError is returned when the provider answered with an error body.
type ProviderError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *ProviderError) Error() string {
	return e.Message
}

// FirebaseProvider signs users in through the Firebase Auth REST API. The
// base URL can point at the Auth emulator.
type FirebaseProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signInResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func NewFirebaseProvider(cfg *config.Identity, logger *slog.Logger) *FirebaseProvider {
	return &FirebaseProvider{
		apiKey:  cfg.ApiKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
		logger: logger,
	}
}

func (p *FirebaseProvider) AuthenticateWithPassword(
	ctx context.Context,
	email, password string,
) (*auth.Session, error) {
	log := p.logger.With("context", "AuthenticateWithPassword")
	log.Debug("Signing in with password", "email", email)

	body, err := json.Marshal(signInRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode sign-in request: %w", err)
	}

	endpoint := p.baseURL + signInPath + "?key=" + url.QueryEscape(p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		log.Error("Identity provider unreachable", "error", err)
		return nil, fmt.Errorf("identity provider unreachable: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		perr := decodeProviderError(resp)
		log.Warn("Sign-in rejected", "status", resp.StatusCode, "code", perr.Code)
		return nil, perr
	}

	var out signInResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode sign-in response: %w", err)
	}
	if out.IDToken == "" {
		return nil, errors.New("identity provider returned no token")
	}
	expiresIn, _ := strconv.Atoi(out.ExpiresIn)

	log.Info("Sign-in successful", "uid", out.LocalID)
	return &auth.Session{
		UserID:       out.LocalID,
		Email:        out.Email,
		Token:        auth.IdentityToken(out.IDToken),
		RefreshToken: auth.IdentityToken(out.RefreshToken),
		ExpiresIn:    expiresIn,
	}, nil
}

func decodeProviderError(resp *http.Response) *ProviderError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	perr := &ProviderError{StatusCode: resp.StatusCode}

	var body errorResponse
	if err := json.Unmarshal(raw, &body); err != nil || body.Error.Message == "" {
		perr.Message = fmt.Sprintf("identity provider returned status %d", resp.StatusCode)
		return perr
	}

	// Messages look like "CODE" or "CODE : extra detail".
	code, detail, _ := strings.Cut(body.Error.Message, " : ")
	perr.Code = strings.TrimSpace(code)
	switch {
	case friendlyMessages[perr.Code] != "":
		perr.Message = friendlyMessages[perr.Code]
	case detail != "":
		perr.Message = strings.TrimSpace(detail)
	default:
		perr.Message = body.Error.Message
	}
	return perr
}
