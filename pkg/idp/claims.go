package idp

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// expirySkew tolerates minor clock drift between us and the provider before
// rejecting a token without asking.
const expirySkew = 30 * time.Second

type peekedClaims struct {
	subject   string
	expiresAt *time.Time
}

func (p *peekedClaims) expired(now time.Time) bool {
	if p == nil || p.expiresAt == nil {
		return false
	}
	return now.After(p.expiresAt.Add(expirySkew))
}

// peekClaims decodes a JWT access token WITHOUT verifying its signature.
// Opaque (non-JWT) tokens return nil and go straight to introspection.
func peekClaims(token string) *peekedClaims {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil
	}

	peeked := &peekedClaims{}
	if sub, err := claims.GetSubject(); err == nil {
		peeked.subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		peeked.expiresAt = &t
	}
	return peeked
}
