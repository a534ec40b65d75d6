package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Envelope is the shape of every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// OK writes a success envelope.
func OK(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

// Err writes a failure envelope.
func Err(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{Success: false, Message: message})
}

// Error is an error carrying the HTTP status it should surface with.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// NewError builds a status-carrying error.
func NewError(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

// HandleError maps an error onto the envelope: a *Error keeps its declared
// status, a gorm record miss becomes 404, anything else is a logged 500.
func HandleError(c *gin.Context, log *zap.Logger, err error) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		Err(c, apiErr.Status, apiErr.Message)
		return
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		Err(c, http.StatusNotFound, "Resource not found")
		return
	}
	log.Error("unhandled error", zap.String("path", c.FullPath()), zap.Error(err))
	Err(c, http.StatusInternalServerError, "Server Error")
}
