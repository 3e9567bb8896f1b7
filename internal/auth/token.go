package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is how long an issued session token stays valid. There is no
// revocation list; expiry is the only invalidation mechanism.
const TokenTTL = 24 * time.Hour

type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenManager issues and validates HMAC-SHA256 signed session tokens.
type TokenManager struct {
	secret []byte
	now    func() time.Time
}

func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret), now: time.Now}
}

// Issue returns a signed token bound to the given user identity.
func (tm *TokenManager) Issue(userID string) (string, error) {
	now := tm.now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secret)
}

// Validate returns the user id encoded in a well-formed, signature-valid,
// unexpired token, and "" for everything else. Callers cannot distinguish a
// missing token from a bad one; both map to an unauthorized response.
func (tm *TokenManager) Validate(tokenString string) string {
	if tokenString == "" {
		return ""
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return tm.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return tm.now() }))
	if err != nil {
		return ""
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return ""
	}
	return claims.UserID
}
