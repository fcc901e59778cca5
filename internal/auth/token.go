package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hyunwoopark/meritpoint/internal/model"
)

// Claims is the access-token payload issued by the identity service. The
// subject is the actor's service number; name and type ride along for
// display but the actor record is always re-resolved from the store.
type Claims struct {
	Name string `json:"name"`
	Type string `json:"type"`
	jwt.RegisteredClaims
}

// Sign issues an HS512 access token for the actor.
func Sign(secret []byte, sn, name string, role model.Role, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Name: name,
		Type: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sn,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// ParseSubject verifies an HS512 access token and returns its subject.
func ParseSubject(secret []byte, token string) (string, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}))
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return claims.Subject, nil
}
