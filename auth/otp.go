// api/auth/otp.go
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/binary"
	"fmt"
	"strconv"
	"time"

	rollcall_errors "github.com/rollcall-app/api/errors"
	logger "github.com/rollcall-app/api/logging"
)

// otpWindow is fixed at 120 seconds regardless of configuration; codes in
// flight were generated against this window and changing it would break
// verification for all of them.
const otpWindow = 120

// OtpEngine derives deterministic, time-windowed one-time codes from a
// per-subject identifier and the shared secret. Codes are never persisted:
// verification recomputes the derivation and compares.
//
// The derivation is an HMAC-SHA256 dynamic-truncation construction over the
// message subjectID || step || secret. Verification accepts the current and
// the immediately previous time step to absorb clock skew.
type OtpEngine struct {
	secret string
	now    func() time.Time
}

// NewOtpEngine builds an engine over the shared secret. A nil clock defaults
// to time.Now. An empty secret is refused outright; the engine must never
// fall back to deriving codes from a default key.
func NewOtpEngine(secret string, now func() time.Time) (*OtpEngine, error) {
	if secret == "" {
		logger.Error("Missing required configuration: auth.otpSecret")
		return nil, rollcall_errors.ErrMissingOtpSecret
	}
	if now == nil {
		now = time.Now
	}
	return &OtpEngine{secret: secret, now: now}, nil
}

// Generate returns the 6-digit code for the subject in the current time
// window. Two calls within the same window return the same code.
func (e *OtpEngine) Generate(subjectID string) string {
	return e.codeForStep(subjectID, e.step())
}

// Verify recomputes the code for the current window and, to tolerate a code
// issued just before a window rollover, the previous one. Expired or
// mismatched codes report false; nothing here returns an error to the
// caller that could distinguish the two.
func (e *OtpEngine) Verify(subjectID, code string) bool {
	step := e.step()
	for _, s := range []int64{step, step - 1} {
		expected := e.codeForStep(subjectID, s)
		if subtle.ConstantTimeCompare([]byte(expected), []byte(code)) == 1 {
			return true
		}
	}
	return false
}

func (e *OtpEngine) step() int64 {
	return e.now().Unix() / otpWindow
}

func (e *OtpEngine) codeForStep(subjectID string, step int64) string {
	mac := hmac.New(sha256.New, []byte(e.secret))
	mac.Write([]byte(subjectID))
	mac.Write([]byte(strconv.FormatInt(step, 10)))
	mac.Write([]byte(e.secret))
	sum := mac.Sum(nil)

	// Dynamic truncation: the low nibble of the last byte picks 4 bytes,
	// read big-endian with the sign bit masked off.
	offset := sum[len(sum)-1] & 0x0f
	value := binary.BigEndian.Uint32(sum[offset:offset+4]) & 0x7fffffff

	return fmt.Sprintf("%06d", value%1000000)
}
