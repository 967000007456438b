// Package csrf issues and checks the double-submit tokens guarding the
// login, message and comment forms.
package csrf

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
)

const (
	TokenLength = 32 // bytes
	// CookieName and FormField carry the same token; a form post is
	// accepted only if both match.
	CookieName = "csrf_token"
	FormField  = "csrf_token"
)

var encoding = base64.RawURLEncoding

// GenerateToken creates a cryptographically secure random token
func GenerateToken() (string, error) {
	bytes := make([]byte, TokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return encoding.EncodeToString(bytes), nil
}

// WellFormed reports whether token could have come from GenerateToken.
// Cookies failing this are replaced rather than trusted.
func WellFormed(token string) bool {
	raw, err := encoding.DecodeString(token)
	return err == nil && len(raw) == TokenLength
}

// ValidateToken compares the cookie token with the form token in constant time.
func ValidateToken(cookieToken, formToken string) bool {
	if !WellFormed(cookieToken) || formToken == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(cookieToken), []byte(formToken)) == 1
}
