package utils

import (
	"errors"
	"net/http"

	"learning-service/internal/apperr"

	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func SuccessResponse(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func CreatedResponse(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, statusCode int, message string, err error) {
	response := APIResponse{
		Success: false,
		Message: message,
	}
	if err != nil {
		response.Error = err.Error()
	}
	c.JSON(statusCode, response)
}

func BadRequestResponse(c *gin.Context, message string, err error) {
	ErrorResponse(c, http.StatusBadRequest, message, err)
}

// FailureResponse maps the service error taxonomy onto HTTP statuses.
func FailureResponse(c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, apperr.ErrUnauthorized):
		ErrorResponse(c, http.StatusUnauthorized, message, err)
	case errors.Is(err, apperr.ErrNotFound):
		ErrorResponse(c, http.StatusNotFound, message, err)
	case errors.Is(err, apperr.ErrInvalidTransition):
		ErrorResponse(c, http.StatusConflict, message, err)
	default:
		ErrorResponse(c, http.StatusInternalServerError, message, err)
	}
}
