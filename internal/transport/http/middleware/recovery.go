package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"tcg-backend/internal/transport/http/response"
)

// Recovery turns a panic into a JSON 500.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("panic %s %s: %v", c.Request.Method, c.Request.URL.Path, r)
				response.Abort(c, http.StatusInternalServerError, "server error")
			}
		}()
		c.Next()
	}
}
