package ginserver

import (
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"
)

const principalContextKey = "shortify.principal"

type principal struct {
	ID string
}

// IdentityMiddleware resolves the calling user from the X-User-ID
// header. Authentication proper sits in front of this service, the
// header carries the already verified identity.
type IdentityMiddleware struct{}

func (IdentityMiddleware) Handle(c *gin.Context) {
	id := strings.TrimSpace(c.GetHeader("X-User-ID"))
	if id != "" {
		c.Set(principalContextKey, principal{ID: id})
	}
	c.Next()
}

func currentPrincipal(c *gin.Context) (principal, bool) {
	val, exists := c.Get(principalContextKey)
	if !exists {
		return principal{}, false
	}
	p, ok := val.(principal)
	return p, ok
}

func requireUser(c *gin.Context) (principal, bool) {
	p, ok := currentPrincipal(c)
	if !ok || p.ID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user identity required"})
		return principal{}, false
	}
	return p, true
}
