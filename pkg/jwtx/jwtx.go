// Package jwtx issues and verifies the HS256 session tokens used by the
// kitchen service. Tokens are self-contained: the server keeps no record of
// what it issued, so a token is exactly as trustworthy as its signature and
// its exp claim.
package jwtx

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed    = errors.New("jwtx: malformed token")
	ErrBadSignature = errors.New("jwtx: invalid signature")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)

// Key is the process-wide signing secret plus the lifetime of tokens minted
// with it. It is loaded once at startup and never mutated, which is what makes
// the TokenService safe for concurrent use without any locking.
type Key struct {
	Secret   []byte
	Lifetime time.Duration
}

// Claims are the identity claims carried in a token payload.
type Claims struct {
	Email  string
	UserID int64
}

// TokenService mints and checks session tokens. The zero Clock means
// time.Now; tests inject a fixed clock to pin iat/exp.
type TokenService struct {
	Key   Key
	Clock func() time.Time
}

func (s *TokenService) now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

// Issue mints a signed token for the given user. Claims are sub (email),
// uid (numeric user id), iat and exp. Two calls in different seconds produce
// different tokens for the same user because iat moves.
func (s *TokenService) Issue(email string, userID int64) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub": email,
		"uid": userID,
		"iat": now.Unix(),
		"exp": now.Add(s.Key.Lifetime).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Key.Secret)
}

// Verify checks structure, signature and freshness, in that order, and
// reports the first failure as ErrMalformed, ErrBadSignature or ErrExpired.
// A token is expired once exp <= now; there is no leeway window. Claim shape
// is deliberately NOT checked here, that is ExtractClaims' job.
func (s *TokenService) Verify(raw string) error {
	tok, err := jwt.Parse(raw, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
		jwt.WithJSONNumber(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return ErrMalformed
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return ErrBadSignature
		default:
			return ErrMalformed
		}
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return ErrMalformed
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return ErrMalformed
	}
	if !s.now().Before(exp.Time) {
		return ErrExpired
	}
	return nil
}

// ExtractClaims pulls sub and uid out of the payload. It is only meaningful
// after Verify returned nil; it does not re-check the signature. A token can
// verify fine and still fail here when uid is present but not an integer
// (e.g. encoded as a string), which is reported as ErrInvalidClaim.
func (s *TokenService) ExtractClaims(raw string) (Claims, error) {
	parser := jwt.NewParser(jwt.WithJSONNumber())
	tok, _, err := parser.ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return Claims{}, ErrMalformed
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrMalformed
	}

	sub, err := mc.GetSubject()
	if err != nil || sub == "" {
		return Claims{}, ErrInvalidClaim
	}

	uidVal, hasUID := mc["uid"]
	if !hasUID {
		return Claims{}, ErrInvalidClaim
	}
	num, ok := uidVal.(json.Number)
	if !ok {
		return Claims{}, ErrInvalidClaim
	}
	uid, err := num.Int64()
	if err != nil {
		return Claims{}, ErrInvalidClaim
	}

	return Claims{Email: sub, UserID: uid}, nil
}

func (s *TokenService) keyFunc(*jwt.Token) (any, error) {
	return s.Key.Secret, nil
}
