// Package httpkit provides HTTP utilities including identity abstraction.
package httpkit

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Identity represents the authenticated caller.
// Handlers read it without depending on how the token was validated.
type Identity interface {
	// UserID returns the token subject.
	UserID() string
	// IsAuthenticated returns true if the caller presented a valid token.
	IsAuthenticated() bool
}

type identity struct {
	userID        string
	authenticated bool
}

func (i *identity) UserID() string {
	return i.userID
}

func (i *identity) IsAuthenticated() bool {
	return i.authenticated
}

// GetIdentity extracts the Identity from a Gin context.
// Returns an unauthenticated identity if the subject is not present.
func GetIdentity(c *gin.Context) Identity {
	userID, ok := c.Get(ContextUserIDKey)
	if !ok {
		return &identity{authenticated: false}
	}

	subject, ok := userID.(string)
	if !ok || subject == "" {
		return &identity{authenticated: false}
	}

	return &identity{userID: subject, authenticated: true}
}

// MustGetIdentity extracts the Identity from a Gin context.
// If the caller is not authenticated, it aborts with 401 Unauthorized and returns nil.
func MustGetIdentity(c *gin.Context) Identity {
	id := GetIdentity(c)
	if !id.IsAuthenticated() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return nil
	}
	return id
}
