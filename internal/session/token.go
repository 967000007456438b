package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var errInvalidToken = errors.New("invalid session token")

// TokenService signs session ids into cookie values and verifies them back.
// Expiry is governed by the session record's TTL, not by the token.
type TokenService interface {
	NewToken(sessionId string) (string, error)
	DecodeToken(token string) (string, error)
}

type Jwt struct {
	secretKey []byte
}

func NewJwt(secretKey string) TokenService {
	return &Jwt{secretKey: []byte(secretKey)}
}

func (j *Jwt) NewToken(sessionId string) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:       sessionId,
		IssuedAt: jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", fmt.Errorf("can't sign session token: %w", err)
	}
	return signed, nil
}

func (j *Jwt) DecodeToken(tokenStr string) (string, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(token *jwt.Token) (interface{}, error) {
		return j.secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", errInvalidToken
	}
	if claims.ID == "" {
		return "", errInvalidToken
	}
	return claims.ID, nil
}
