package utils // package utils provides helpers for session tokens and password hashing

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin is the only role a session token is ever issued for.
const RoleAdmin = "ADMIN"

// ErrInvalidToken covers every reason a session token is rejected:
// malformed, badly signed, expired or missing claims.
var ErrInvalidToken = errors.New("invalid session token")

// SessionToken is a signed admin session along with its expiry.
type SessionToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// SessionClaims are the claims read back from a valid token.
type SessionClaims struct {
	Username string
	Role     string
	Exp      time.Time
}

// NewSessionToken builds and signs an HS256 JWT for the admin user.  The
// token carries sub (username), role, exp and iat.
func NewSessionToken(secret, username string, ttl time.Duration) (SessionToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub":  username,
		"role": RoleAdmin,
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}

// ParseSessionToken validates raw against secret and returns its claims.
func ParseSessionToken(secret, raw string) (SessionClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil || !tok.Valid {
		return SessionClaims{}, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return SessionClaims{}, ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if sub == "" || role == "" {
		return SessionClaims{}, ErrInvalidToken
	}
	out := SessionClaims{Username: sub, Role: role}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.Exp = exp.Time
	}
	return out, nil
}
