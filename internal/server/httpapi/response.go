package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Muhammad-Tayyab-Bhutto/GoTube-Backend/internal/common"
)

// ApiResponse is the success envelope every handler returns.
type ApiResponse struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// ApiError is the error envelope.
type ApiError struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors"`
}

func respond(c *gin.Context, status int, data any, message string) {
	c.JSON(status, ApiResponse{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    true,
	})
}

// respondError maps a service error onto a status code and writes the error
// envelope. Unrecognized errors become opaque 500s.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, common.ErrorValidation),
		errors.Is(err, common.ErrorConflict),
		errors.Is(err, common.ErrorInvalidCredentials):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, common.ErrorNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenReuse):
		status = http.StatusUnauthorized
		message = err.Error()
	case errors.Is(err, common.ErrorDependency):
		status = http.StatusBadGateway
		message = err.Error()
	}

	c.AbortWithStatusJSON(status, ApiError{
		StatusCode: status,
		Message:    message,
		Success:    false,
		Errors:     []string{message},
	})
}
