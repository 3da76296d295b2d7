package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/relationgraph-backend/internal/apperr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondError maps a pipeline error onto the wire envelope, keeping the
// HTTP-equivalent status the error already carries.
func RespondError(c *gin.Context, err error) {
	msg := "unknown error"
	code := ""
	if err != nil {
		msg = err.Error()
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		code = string(ae.Code)
	}
	if apperr.IsNotFound(err) {
		msg = "not found"
	}
	c.JSON(apperr.HTTPStatus(err), ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
