// api/auth/token.go
package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rollcall-app/api/config"
	rollcall_errors "github.com/rollcall-app/api/errors"
	logger "github.com/rollcall-app/api/logging"
	"github.com/rollcall-app/api/model"
)

// Claims carried by every access token.
type Claims struct {
	FullName string `json:"name"`
	Role     string `json:"role"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// TokenIssuer builds and verifies HS256-signed access tokens. Validity is
// purely cryptographic and time-based; no server-side session store is
// consulted.
type TokenIssuer struct {
	key      []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

// NewTokenIssuer fails closed when the signing key, issuer, or audience is
// absent, logging the missing key by name. Signing with an empty key is
// never an option.
func NewTokenIssuer(cfg config.AuthConfiguration, now func() time.Time) (*TokenIssuer, error) {
	for name, value := range map[string]string{
		"auth.jwtKey":      cfg.JwtKey,
		"auth.jwtIssuer":   cfg.JwtIssuer,
		"auth.jwtAudience": cfg.JwtAudience,
	} {
		if err := config.Require(name, value); err != nil {
			logger.Error(fmt.Sprintf("Missing required configuration: %s", name))
			return nil, err
		}
	}
	if now == nil {
		now = time.Now
	}
	return &TokenIssuer{
		key:      []byte(cfg.JwtKey),
		issuer:   cfg.JwtIssuer,
		audience: cfg.JwtAudience,
		ttl:      cfg.AccessTokenTTL,
		now:      now,
	}, nil
}

// Issue signs an access token for the user with the configured validity
// window.
func (i *TokenIssuer) Issue(user *model.User) (string, error) {
	now := i.now()
	claims := Claims{
		FullName: user.FullName,
		Role:     user.Role,
		Email:    user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    i.issuer,
			Audience:  jwt.ClaimStrings{i.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate verifies signature, issuer, audience, and expiry. Every failure
// mode, malformed input included, collapses to ErrInvalidToken; callers get
// no oracle distinguishing expired from forged.
func (i *TokenIssuer) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Method)
			}
			return i.key, nil
		},
		jwt.WithIssuer(i.issuer),
		jwt.WithAudience(i.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !token.Valid {
		return nil, rollcall_errors.ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, rollcall_errors.ErrInvalidToken
	}
	return claims, nil
}

// NewOpaqueToken returns a 256-bit random string for use as a refresh
// token.
func NewOpaqueToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
