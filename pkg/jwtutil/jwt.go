package jwtutil

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var (
	secret          = []byte("salesboardsecretkey")
	tokenExpiration = time.Hour * 24
)

// Initialize overrides the signing key and expiration from configuration.
func Initialize(signingKey string, expirationHours int) {
	if signingKey != "" {
		secret = []byte(signingKey)
	}
	if expirationHours > 0 {
		tokenExpiration = time.Duration(expirationHours) * time.Hour
	}
}

// SessionClaims represents the JWT claims for a logged-in board user
type SessionClaims struct {
	Email        string `json:"email"`
	CompanyID    string `json:"company_id"`
	Role         string `json:"role"`
	IsAdmin      bool   `json:"is_admin"`
	IsSuperAdmin bool   `json:"is_super_admin,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken creates a JWT token carrying the user's session identity
func GenerateToken(email, companyID, role string, isAdmin, isSuperAdmin bool) (string, error) {
	claims := SessionClaims{
		Email:        email,
		CompanyID:    companyID,
		Role:         role,
		IsAdmin:      isAdmin,
		IsSuperAdmin: isSuperAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenExpiration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateToken validates and parses the JWT token
func ValidateToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}
