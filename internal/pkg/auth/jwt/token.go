package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

const (
	// SessionExpiration defines the lifetime of a session token issued on signup or login.
	SessionExpiration = 1 * time.Hour

	// TokenIssuer identifies the issuer of the token.
	TokenIssuer = "PawChat-Server"
)

// GenerateToken creates and signs a new JWT string for the given claims.
func GenerateToken(claims *Claims, secretKey string, duration time.Duration) (string, error) {
	now := time.Now()

	claims.StandardClaims = jwt.StandardClaims{
		ExpiresAt: now.Add(duration).Unix(),
		IssuedAt:  now.Unix(),
		Issuer:    TokenIssuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(secretKey))
}

// ParseToken parses and validates the JWT string using the provided secretKey.
func ParseToken(tokenString string, secretKey string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secretKey), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	return claims, nil
}

// Verifier validates bearer tokens and yields the subject user id.
// It is the credential verifier consumed by the chat hub.
type Verifier struct {
	Secret string
}

// Verify checks the token signature and validity and returns the subject user id.
func (v Verifier) Verify(tokenString string) (int64, error) {
	claims, err := ParseToken(tokenString, v.Secret)
	if err != nil {
		return 0, err
	}

	return claims.ID, nil
}
