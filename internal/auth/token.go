package auth

import (
	"barangay/pkg/types"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

const tokenIssuer = "barangay-admin"

// Tokens issues and verifies HS256 session tokens for admins.
type Tokens struct {
	key    []byte
	maxAge time.Duration
}

func NewTokens(signingKey string, maxAge time.Duration) *Tokens {
	return &Tokens{key: []byte(signingKey), maxAge: maxAge}
}

func (t *Tokens) Issue(admin *types.AdminUser) (string, error) {
	now := time.Now()

	token, err := jwt.NewBuilder().
		Issuer(tokenIssuer).
		Subject(admin.ID).
		IssuedAt(now).
		Expiration(now.Add(t.maxAge)).
		Claim("email", admin.Email).
		Claim("name", admin.FullName).
		Build()
	if err != nil {
		return "", fmt.Errorf("build session token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), t.key))
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	return string(signed), nil
}

// Parse verifies the signature, issuer and expiry and returns the session.
func (t *Tokens) Parse(raw string) (*types.AdminSession, error) {
	token, err := jwt.Parse(
		[]byte(raw),
		jwt.WithKey(jwa.HS256(), t.key),
		jwt.WithValidate(true),
		jwt.WithIssuer(tokenIssuer),
	)
	if err != nil {
		return nil, fmt.Errorf("parse session token: %w", err)
	}

	adminID, ok := token.Subject()
	if !ok || adminID == "" {
		return nil, fmt.Errorf("session token has no subject")
	}

	session := &types.AdminSession{AdminID: adminID}
	if err := token.Get("email", &session.Email); err != nil {
		return nil, fmt.Errorf("session token has no email: %w", err)
	}
	// name is informational only
	_ = token.Get("name", &session.FullName)

	return session, nil
}
