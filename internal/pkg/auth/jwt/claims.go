package jwt

import "github.com/golang-jwt/jwt"

// Claims defines the JWT payload issued on signup/login and verified when a
// connection registers with a token credential.
type Claims struct {
	// StandardClaims embeds the JWT standard fields such as Exp (Expiration),
	// Iat (Issued At), and Iss (Issuer), used for token validity checks.
	jwt.StandardClaims `json:"standard_claims"`

	// ID is the subject user's store-assigned identifier.
	ID int64 `json:"id"`

	// Email is the subject user's address at issuance time. Informational only;
	// registration re-reads the user from the store by ID.
	Email string `json:"email"`
}
