package auth

import (
	"fmt"
	"time"

	"github.com/casevault/casevault/pkg/config"
	"github.com/golang-jwt/jwt/v5"
)

// HMACStrategy verifies HS256 tokens signed with a shared secret. It backs
// local development and tests, where no Firebase project is available.
type HMACStrategy struct {
	secret []byte
	issuer string
}

func NewHMACStrategy(cfg *config.Hmac) *HMACStrategy {
	return &HMACStrategy{secret: []byte(cfg.Secret), issuer: cfg.Issuer}
}

func (s *HMACStrategy) Name() string { return "hmac" }

func (s *HMACStrategy) Issuer() string { return s.issuer }

func (s *HMACStrategy) Audience() string { return "" }

func (s *HMACStrategy) Keyfunc(token *jwt.Token) (any, error) {
	if token.Method != jwt.SigningMethodHS256 {
		return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
	}
	return s.secret, nil
}

// Sign issues a token for uid that this strategy accepts.
func (s *HMACStrategy) Sign(uid, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		Email:         email,
		EmailVerified: true,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   uid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
