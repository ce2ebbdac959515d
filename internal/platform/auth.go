package platform

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates the platform's signed bearer token on incoming
// webhook calls. An empty secret disables verification for local runs.
type Verifier struct {
	secret []byte
	issuer string
}

// NewVerifier builds a verifier over the shared webhook secret.
func NewVerifier(secret []byte, issuer string) *Verifier {
	return &Verifier{secret: secret, issuer: issuer}
}

// Enabled reports whether verification is active.
func (v *Verifier) Enabled() bool {
	return len(v.secret) > 0
}

// VerifyHeader checks an Authorization header value of the form
// "Bearer <token>".
func (v *Verifier) VerifyHeader(header string) error {
	if !v.Enabled() {
		return nil
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return fmt.Errorf("missing bearer token")
	}
	return v.Verify(token)
}

// Verify parses and validates the token signature and issuer.
func (v *Verifier) Verify(tokenString string) error {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	_, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return fmt.Errorf("verify webhook token: %w", err)
	}
	return nil
}
