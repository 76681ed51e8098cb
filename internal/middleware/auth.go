package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"taskboard/internal/policy"
)

const identityKey = "identity"

// Claims carried by every access token. Role is "user" or "admin".
type Claims struct {
	UserID uint64 `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// ParseToken verifies an HS256 token and returns the identity it carries.
// Shared with the websocket gateway, which authenticates via query token.
func ParseToken(tokenString, secret string) (policy.Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return policy.Identity{}, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return policy.Identity{}, errors.New("invalid token")
	}
	if claims.UserID == 0 {
		return policy.Identity{}, errors.New("user_id claim missing")
	}
	role := claims.Role
	if role == "" {
		role = policy.RoleUser
	}
	return policy.Identity{UserID: claims.UserID, Role: role}, nil
}

// AuthMiddleware extracts the bearer token and stores the caller identity in
// the gin context. Requests without a valid token are rejected.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header missing"})
			return
		}
		identity, err := ParseToken(strings.TrimPrefix(header, "Bearer "), secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

// Identity returns the authenticated caller stored by AuthMiddleware.
func Identity(c *gin.Context) (policy.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return policy.Identity{}, false
	}
	id, ok := v.(policy.Identity)
	return id, ok
}
