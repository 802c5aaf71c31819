package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sujalbistaa/blogicum/internal/blog"
)

// fail writes the JSON error for err. Anything that is not a known
// domain outcome is logged and reported as a 500.
func (e *Env) fail(c *gin.Context, err error) {
	var verr *blog.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "field": verr.Field})
	case errors.Is(err, blog.ErrUnauthenticated):
		e.unauthenticated(c)
	case errors.Is(err, blog.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, blog.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, blog.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Already exists"})
	default:
		log.Printf("Error handling %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// unauthenticated points the client at the login page.
func (e *Env) unauthenticated(c *gin.Context) {
	c.Header("Location", e.LoginURL)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required", "login": e.LoginURL})
}
