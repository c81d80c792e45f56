// Package httperr defines the service error taxonomy and its mapping to
// HTTP status codes, so handlers never hand-pick status codes themselves.
package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

var (
	// ErrUnauthenticated means no token was supplied at all.
	ErrUnauthenticated = errors.New("missing authentication token")
	// ErrMalformedToken means the supplied token is not a JWT.
	ErrMalformedToken = errors.New("malformed token")
	// ErrInvalidClaims means the JWT payload lacks required claims.
	ErrInvalidClaims = errors.New("invalid token claims")
	// ErrValidation means the request input failed validation.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound means no matching resource exists.
	ErrNotFound = errors.New("not found")
	// ErrUnavailable means a required upstream integration is not configured.
	ErrUnavailable = errors.New("service unavailable")
)

// Status maps a service error to its HTTP status code.
// Anything outside the taxonomy is a 500.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrUnauthenticated),
		errors.Is(err, ErrMalformedToken),
		errors.Is(err, ErrInvalidClaims):
		return http.StatusUnauthorized
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// JSON writes the error as the standard {"error": ...} body.
func JSON(c *gin.Context, err error) {
	c.JSON(Status(err), gin.H{"error": err.Error()})
}

// Abort writes the error and stops the handler chain.
func Abort(c *gin.Context, err error) {
	c.AbortWithStatusJSON(Status(err), gin.H{"error": err.Error()})
}
