package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base32"
	"fmt"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// OTPManager derives email verification codes from the address and an
// application salt. Nothing is stored: a code stays valid for its whole
// time window and may be checked any number of times.
type OTPManager struct {
	salt   []byte
	period uint
	skew   uint
}

// NewOTPManager creates a new OTP manager. period is in seconds.
func NewOTPManager(salt string, period, skew uint) *OTPManager {
	return &OTPManager{
		salt:   []byte(salt),
		period: period,
		skew:   skew,
	}
}

// Period returns the lifetime of a single code
func (m *OTPManager) Period() time.Duration {
	return time.Duration(m.period) * time.Second
}

// Generate returns the code for email in the current time window
func (m *OTPManager) Generate(email string) (string, error) {
	return m.GenerateAt(email, time.Now())
}

// GenerateAt returns the code for email in the window containing t
func (m *OTPManager) GenerateAt(email string, t time.Time) (string, error) {
	code, err := totp.GenerateCodeCustom(m.secretFor(email), t, totp.ValidateOpts{
		Period:    m.period,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP: %w", err)
	}
	return code, nil
}

// Validate checks code against the current window and its skew neighbours
func (m *OTPManager) Validate(email, code string) bool {
	return m.ValidateAt(email, code, time.Now())
}

// ValidateAt checks code as if submitted at t
func (m *OTPManager) ValidateAt(email, code string, t time.Time) bool {
	code = strings.TrimSpace(code)
	if code == "" {
		return false
	}

	valid, err := totp.ValidateCustom(code, m.secretFor(email), t, totp.ValidateOpts{
		Period:    m.period,
		Skew:      m.skew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		return false
	}
	return valid
}

// secretFor computes the base32 shared secret bound to a normalized email
func (m *OTPManager) secretFor(email string) string {
	mac := hmac.New(sha256.New, m.salt)
	mac.Write([]byte(strings.ToLower(strings.TrimSpace(email))))
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(mac.Sum(nil))
}
