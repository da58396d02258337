package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/iliyamo/hotel-booking/internal/utils"
)

// ErrInvalidCredentials is returned for any failed login.  It does not say
// which half of the pair was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// CredentialVerifier checks an admin login.
type CredentialVerifier interface {
	Verify(ctx context.Context, username, password string) error
}

// StaticVerifier accepts a single configured admin account whose password
// is kept as a bcrypt hash.
type StaticVerifier struct {
	username     string
	passwordHash string
}

// NewStaticVerifier builds a verifier for one account.
func NewStaticVerifier(username, passwordHash string) *StaticVerifier {
	return &StaticVerifier{username: strings.TrimSpace(username), passwordHash: passwordHash}
}

// Verify implements CredentialVerifier.  The password hash is compared
// even when the username is wrong so both failures take the same time.
func (v *StaticVerifier) Verify(_ context.Context, username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(username)), []byte(v.username)) == 1
	passOK := v.passwordHash != "" && utils.VerifyPassword(v.passwordHash, password)
	if !userOK || !passOK || password == "" {
		return ErrInvalidCredentials
	}
	return nil
}
