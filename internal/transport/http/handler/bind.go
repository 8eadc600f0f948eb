package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"tcg-backend/internal/transport/http/response"
)

// bindJSON decodes the body into req. An empty body leaves req zeroed so the
// service reports the missing fields; malformed JSON is a 400.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return false
	}
	return true
}
