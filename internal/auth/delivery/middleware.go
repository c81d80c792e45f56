package delivery

import (
	"github.com/gin-gonic/gin"

	"rec-webapp-backend/internal/auth/domain"
	"rec-webapp-backend/internal/auth/usecase"
	"rec-webapp-backend/internal/httperr"
)

const identityKey = "identity"

// AuthMiddleware resolves the caller identity from the JWT the reverse-proxy
// forwards in headerName. The token is already signature-checked upstream;
// here it is only decoded.
func AuthMiddleware(headerName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(headerName)
		if token == "" {
			httperr.Abort(c, httperr.ErrUnauthenticated)
			return
		}

		identity, err := usecase.ParseIdentity(token)
		if err != nil {
			httperr.Abort(c, err)
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// IdentityFromContext returns the identity set by AuthMiddleware.
func IdentityFromContext(c *gin.Context) *domain.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	identity, _ := v.(*domain.Identity)
	return identity
}
