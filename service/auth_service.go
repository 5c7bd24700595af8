// api/service/auth_service.go
package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/rollcall-app/api/auth"
	rollcall_errors "github.com/rollcall-app/api/errors"
	logger "github.com/rollcall-app/api/logging"
	"github.com/rollcall-app/api/model"
	"github.com/rollcall-app/api/util"
)

// TokenPair is what a successful login or refresh hands back: a signed
// access token plus the opaque, persisted refresh token.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// IAuthService defines the interface for the passwordless authentication flow
type IAuthService interface {
	RequestOtp(ctx context.Context, email string) error
	Login(ctx context.Context, email, code, clientIP string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken, clientIP string) (*TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
}

// AuthService orchestrates OTP delivery, login, and refresh-token rotation.
// Every failure surfaces as ErrInvalidCredentials or
// ErrRefreshTokenExpired; callers never learn whether the email, the code,
// or the token was the wrong half.
type AuthService struct {
	users      UserStore
	tokens     RefreshTokenStore
	otp        *auth.OtpEngine
	issuer     *auth.TokenIssuer
	mailer     util.Mailer
	refreshTTL time.Duration
	now        func() time.Time
}

var _ IAuthService = &AuthService{}

func NewAuthService(users UserStore, tokens RefreshTokenStore, otp *auth.OtpEngine, issuer *auth.TokenIssuer, mailer util.Mailer, refreshTTL time.Duration, now func() time.Time) *AuthService {
	if now == nil {
		now = time.Now
	}
	return &AuthService{
		users:      users,
		tokens:     tokens,
		otp:        otp,
		issuer:     issuer,
		mailer:     mailer,
		refreshTTL: refreshTTL,
		now:        now,
	}
}

// RequestOtp emails a one-time code to the account. Unknown addresses are
// swallowed so the endpoint cannot be used to enumerate accounts.
func (s *AuthService) RequestOtp(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, rollcall_errors.ErrUserNotFound) {
			logger.Debug("OTP requested for unknown email", zap.String("email", email))
			return nil
		}
		return err
	}

	code := s.otp.Generate(user.ID)
	if err := s.mailer.SendEmail(ctx, user.Email, "Your sign-in code", code); err != nil {
		logger.Error("Failed to deliver OTP", zap.Error(err), zap.String("userID", user.ID))
		return err
	}
	return nil
}

// Login verifies the emailed code and, on success, issues an access token
// plus a fresh refresh token persisted against the client IP.
func (s *AuthService) Login(ctx context.Context, email, code, clientIP string) (*TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, rollcall_errors.ErrInvalidCredentials
	}

	if !s.otp.Verify(user.ID, code) {
		logger.Warn("OTP verification failed", zap.String("userID", user.ID))
		return nil, rollcall_errors.ErrInvalidCredentials
	}

	return s.issuePair(ctx, user, clientIP)
}

// Refresh rotates a refresh token: the presented token must be unexpired,
// unused, and unrevoked; it is then marked revoked with a pointer to its
// successor, so a stolen token replays at most once.
func (s *AuthService) Refresh(ctx context.Context, refreshToken, clientIP string) (*TokenPair, error) {
	record, err := s.tokens.GetByToken(ctx, refreshToken)
	if err != nil {
		return nil, rollcall_errors.ErrRefreshTokenExpired
	}
	if !record.Active(s.now()) {
		logger.Warn("Inactive refresh token presented", zap.String("userID", record.UserID))
		return nil, rollcall_errors.ErrRefreshTokenExpired
	}

	user, err := s.users.GetByID(ctx, record.UserID)
	if err != nil {
		return nil, rollcall_errors.ErrRefreshTokenExpired
	}

	pair, err := s.issuePair(ctx, user, clientIP)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.Revoke(ctx, record.ID, pair.RefreshToken); err != nil {
		return nil, err
	}
	return pair, nil
}

// Logout revokes the session's refresh token. The access token keeps its
// cryptographic validity until expiry; only the refresh chain dies here.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	record, err := s.tokens.GetByToken(ctx, refreshToken)
	if err != nil {
		return rollcall_errors.ErrRefreshTokenExpired
	}
	return s.tokens.Revoke(ctx, record.ID, "")
}

func (s *AuthService) issuePair(ctx context.Context, user *model.User, clientIP string) (*TokenPair, error) {
	accessToken, err := s.issuer.Issue(user)
	if err != nil {
		return nil, err
	}

	opaque, err := auth.NewOpaqueToken()
	if err != nil {
		return nil, err
	}

	_, err = s.tokens.Create(ctx, model.RefreshToken{
		UserID:      user.ID,
		Token:       opaque,
		CreatedByIP: clientIP,
		ExpiresAt:   s.now().Add(s.refreshTTL),
	})
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: opaque}, nil
}
