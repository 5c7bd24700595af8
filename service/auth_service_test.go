// api/service/auth_service_test.go
package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rollcall-app/api/auth"
	"github.com/rollcall-app/api/config"
	rollcall_errors "github.com/rollcall-app/api/errors"
	"github.com/rollcall-app/api/model"
	"github.com/rollcall-app/api/service"
)

type sentMail struct {
	recipient string
	body      string
}

type fakeMailer struct {
	sent []sentMail
}

func (f *fakeMailer) SendEmail(ctx context.Context, recipient, subject, body string) error {
	f.sent = append(f.sent, sentMail{recipient: recipient, body: body})
	return nil
}

type authFixture struct {
	svc    *service.AuthService
	users  *fakeUserStore
	tokens *fakeTokenStore
	mailer *fakeMailer
	otp    *auth.OtpEngine
	now    time.Time
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	otp, err := auth.NewOtpEngine("s3cr3t", clock)
	require.NoError(t, err)
	issuer, err := auth.NewTokenIssuer(config.AuthConfiguration{
		JwtKey:         "unit-test-signing-key",
		JwtIssuer:      "rollcall-api",
		JwtAudience:    "rollcall-clients",
		AccessTokenTTL: 15 * time.Minute,
	}, clock)
	require.NoError(t, err)

	users := &fakeUserStore{users: map[string]*model.User{
		"u-1": {ID: "u-1", Email: "teacher@example.edu", FullName: "Ada", Role: model.RoleTeacher},
	}}
	tokens := newFakeTokenStore()
	mailer := &fakeMailer{}

	svc := service.NewAuthService(users, tokens, otp, issuer, mailer, 60*24*time.Hour, clock)
	return &authFixture{svc: svc, users: users, tokens: tokens, mailer: mailer, otp: otp, now: now}
}

func TestRequestOtpEmailsCode(t *testing.T) {
	f := newAuthFixture(t)

	require.NoError(t, f.svc.RequestOtp(context.Background(), "teacher@example.edu"))
	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, "teacher@example.edu", f.mailer.sent[0].recipient)
	assert.Len(t, f.mailer.sent[0].body, 6)
}

func TestRequestOtpHidesUnknownAccounts(t *testing.T) {
	f := newAuthFixture(t)

	require.NoError(t, f.svc.RequestOtp(context.Background(), "stranger@example.edu"))
	assert.Empty(t, f.mailer.sent, "unknown emails get no mail and no error")
}

func TestLoginWithValidCode(t *testing.T) {
	f := newAuthFixture(t)
	code := f.otp.Generate("u-1")

	pair, err := f.svc.Login(context.Background(), "teacher@example.edu", code, "10.0.0.1")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, 1, f.tokens.created)
}

func TestLoginRejectsWrongCodeAndUnknownUserAlike(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Login(context.Background(), "teacher@example.edu", "000000", "10.0.0.1")
	assert.ErrorIs(t, err, rollcall_errors.ErrInvalidCredentials)

	_, err = f.svc.Login(context.Background(), "stranger@example.edu", "123456", "10.0.0.1")
	assert.ErrorIs(t, err, rollcall_errors.ErrInvalidCredentials,
		"unknown user and wrong code must be indistinguishable")
}

func TestRefreshRotatesToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	code := f.otp.Generate("u-1")
	pair, err := f.svc.Login(ctx, "teacher@example.edu", code, "10.0.0.1")
	require.NoError(t, err)

	rotated, err := f.svc.Refresh(ctx, pair.RefreshToken, "10.0.0.2")
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// The spent token must record its successor.
	old, ok := f.tokens.byID[pair.RefreshToken]
	require.True(t, ok)
	assert.True(t, old.Revoked)
	assert.Equal(t, rotated.RefreshToken, old.ReplacedByToken)
}

func TestRefreshTokenIsSingleUse(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	code := f.otp.Generate("u-1")
	pair, err := f.svc.Login(ctx, "teacher@example.edu", code, "10.0.0.1")
	require.NoError(t, err)

	_, err = f.svc.Refresh(ctx, pair.RefreshToken, "10.0.0.1")
	require.NoError(t, err)

	_, err = f.svc.Refresh(ctx, pair.RefreshToken, "10.0.0.1")
	assert.ErrorIs(t, err, rollcall_errors.ErrRefreshTokenExpired,
		"a redeemed token must never redeem twice")
}

func TestRefreshRejectsExpiredToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	expired := model.RefreshToken{
		ID:        "rt-old",
		UserID:    "u-1",
		Token:     "expired-token",
		ExpiresAt: f.now.Add(-time.Hour),
	}
	_, err := f.tokens.Create(ctx, expired)
	require.NoError(t, err)

	_, err = f.svc.Refresh(ctx, "expired-token", "10.0.0.1")
	assert.ErrorIs(t, err, rollcall_errors.ErrRefreshTokenExpired)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	code := f.otp.Generate("u-1")
	pair, err := f.svc.Login(ctx, "teacher@example.edu", code, "10.0.0.1")
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, pair.RefreshToken))

	_, err = f.svc.Refresh(ctx, pair.RefreshToken, "10.0.0.1")
	assert.ErrorIs(t, err, rollcall_errors.ErrRefreshTokenExpired)
}
