package ui

import (
	"net/http"

	"samplewms/internal/errors"
	"samplewms/internal/exchange"

	"github.com/gin-gonic/gin"
)

// statusFor maps error codes onto HTTP statuses
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.CodeNoValidData:
		return http.StatusUnprocessableEntity
	case errors.CodeMalformedDocument, errors.CodeInvalidInput:
		return http.StatusBadRequest
	case errors.CodeNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// respondError writes {code, error, message}. message is the user-facing
// text for exchange operations.
func (s *Server) respondError(c *gin.Context, op exchange.Operation, err error, extra gin.H) {
	body := gin.H{
		"code":  errors.GetCode(err),
		"error": err.Error(),
	}
	if op != "" {
		body["message"] = exchange.UserMessage(op, err)
	}
	for k, v := range extra {
		body[k] = v
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(statusFor(err), body)
}
