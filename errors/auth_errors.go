// api/errors/auth_errors.go
package errors

import "errors"

var (
	ErrMissingOtpSecret    = errors.New("otp secret is not configured")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidToken        = errors.New("invalid token")
	ErrRefreshTokenExpired = errors.New("refresh token expired or revoked")
)
