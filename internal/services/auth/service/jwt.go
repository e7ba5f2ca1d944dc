// Package service verifies HS256 bearer tokens carrying a user_id claim
package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	perr "matchlog/internal/platform/errors"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the token payload
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Config configures a JWT verifier
type Config struct {
	Secret []byte
	Issuer string
	Leeway time.Duration
	// Now overrides the clock, for tests
	Now func() time.Time
}

// JWT implements domain.Verifier and domain.Issuer
type JWT struct {
	cfg    Config
	parser *jwt.Parser
}

// New fails when no secret is set
func New(cfg Config) (*JWT, error) {
	if len(cfg.Secret) == 0 {
		return nil, perr.InvalidArgf("jwt secret is empty")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	popts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(cfg.Leeway),
		jwt.WithTimeFunc(cfg.Now),
	}
	if cfg.Issuer != "" {
		popts = append(popts, jwt.WithIssuer(cfg.Issuer))
	}
	return &JWT{cfg: cfg, parser: jwt.NewParser(popts...)}, nil
}

// Verify returns the user_id claim of a valid token
func (v *JWT) Verify(token string) (string, error) {
	claims := &Claims{}
	_, err := v.parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.cfg.Secret, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", perr.Wrap(err, perr.ErrorCodeUnauthorized, "token expired")
	case err != nil:
		return "", perr.Wrap(err, perr.ErrorCodeUnauthorized, "invalid token")
	}
	uid := strings.TrimSpace(claims.UserID)
	if uid == "" {
		return "", perr.Unauthorizedf("token has no user_id")
	}
	return uid, nil
}

// Issue signs a token for userID valid for ttl
func (v *JWT) Issue(userID string, ttl time.Duration) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", perr.InvalidArgf("user id is empty")
	}
	now := v.cfg.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    v.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.cfg.Secret)
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeUnknown, "sign token")
	}
	return signed, nil
}
