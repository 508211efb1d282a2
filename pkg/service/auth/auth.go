package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/casevault/casevault/pkg/config"
	"github.com/casevault/casevault/pkg/domain"
	domainauth "github.com/casevault/casevault/pkg/domain/auth"
	"github.com/casevault/casevault/pkg/domain/user"
	repouser "github.com/casevault/casevault/pkg/repository/user"
	"github.com/golang-jwt/jwt/v5"
)

const leeway = 30 * time.Second

// TokenClaims is the claim set of an identity token.
type TokenClaims struct {
	Email         string `json:"email,omitempty"`
	EmailVerified bool   `json:"email_verified,omitempty"`
	jwt.RegisteredClaims
}

// Strategy knows how a family of identity tokens is signed and who issues
// them.
type Strategy interface {
	Name() string
	// Keyfunc resolves the verification key and rejects unexpected
	// signing methods.
	Keyfunc(token *jwt.Token) (any, error)
	Issuer() string
	Audience() string
}

type Service struct {
	strategy  Strategy
	users     repouser.Repository
	validator *jwt.Validator
	logger    *slog.Logger
	now       func() time.Time
}

func New(
	strategy Strategy,
	users repouser.Repository,
	logger *slog.Logger,
) *Service {
	opts := []jwt.ParserOption{
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(leeway),
		jwt.WithIssuer(strategy.Issuer()),
	}
	if aud := strategy.Audience(); aud != "" {
		opts = append(opts, jwt.WithAudience(aud))
	}
	return &Service{
		strategy:  strategy,
		users:     users,
		validator: jwt.NewValidator(opts...),
		logger:    logger,
		now:       time.Now,
	}
}

func NewWithFirebase(
	cfg *config.Firebase,
	users repouser.Repository,
	logger *slog.Logger,
) *Service {
	return New(NewFirebaseStrategy(cfg, logger), users, logger)
}

func NewWithHMAC(
	cfg *config.Hmac,
	users repouser.Repository,
	logger *slog.Logger,
) *Service {
	return New(NewHMACStrategy(cfg), users, logger)
}

// Keyfunc exposes the strategy's key resolution for bearer middleware.
func (s *Service) Keyfunc() jwt.Keyfunc {
	return s.strategy.Keyfunc
}

// Verify parses and fully validates a raw identity token.
func (s *Service) Verify(ctx context.Context, raw string) (*domainauth.Claims, error) {
	log := s.logger.With("context", "Verify", "strategy", s.strategy.Name())
	if raw == "" {
		return nil, fmt.Errorf("%w: empty token", domain.ErrUnauthorized)
	}
	token, err := jwt.ParseWithClaims(
		raw,
		&TokenClaims{},
		s.strategy.Keyfunc,
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		log.Warn("Token rejected", "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	return s.ValidateClaims(token)
}

// ValidateClaims checks issuer, audience, lifetime and subject of a token
// whose signature has already been verified.
func (s *Service) ValidateClaims(token *jwt.Token) (*domainauth.Claims, error) {
	tc, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: unexpected token claims", domain.ErrUnauthorized)
	}
	if err := s.validator.Validate(tc); err != nil {
		s.logger.Warn("Token claims rejected", "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	if tc.Subject == "" {
		return nil, fmt.Errorf("%w: token has no subject", domain.ErrUnauthorized)
	}
	claims := &domainauth.Claims{
		UID:           tc.Subject,
		Email:         tc.Email,
		EmailVerified: tc.EmailVerified,
	}
	if tc.IssuedAt != nil {
		claims.IssuedAt = tc.IssuedAt.Time
	}
	if tc.ExpiresAt != nil {
		claims.ExpiresAt = tc.ExpiresAt.Time
	}
	return claims, nil
}

// Login verifies a relayed identity token and records the user.
func (s *Service) Login(ctx context.Context, raw string) (*user.User, error) {
	log := s.logger.With("context", "Login")
	claims, err := s.Verify(ctx, raw)
	if err != nil {
		return nil, err
	}
	if s.users == nil {
		return nil, errors.New("user repository is not configured")
	}
	u := user.FromClaims(claims, s.now())
	if err := s.users.Upsert(ctx, u); err != nil {
		log.Error("Failed to record login", "uid", u.UID, "error", err)
		return nil, fmt.Errorf("failed to record login: %w", err)
	}
	log.Info("Login verified", "uid", u.UID)
	return u, nil
}
