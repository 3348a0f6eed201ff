package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	StateSuccess = "Success"
	StateFailed  = "Failed"
)

type APIResponse[T any] struct {
	Status    int         `json:"status"`
	State     string      `json:"state"`
	Message   string      `json:"message"`
	Data      T           `json:"data"`
	Error     interface{} `json:"error,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// Success writes a "Success" envelope. Data is always present, null included.
func Success[T any](ctx *gin.Context, status int, data T, message string) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	resp := APIResponse[T]{
		Status:    status,
		State:     StateSuccess,
		Message:   message,
		Data:      data,
		RequestID: ctx.GetString("request_id"),
	}
	ctx.JSON(status, resp)
	return resp
}

// Error writes a "Failed" envelope; err carries optional details such as field errors.
func Error[T any](ctx *gin.Context, status int, message string, err interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	resp := APIResponse[T]{
		Status:    status,
		State:     StateFailed,
		Message:   message,
		Error:     err,
		RequestID: ctx.GetString("request_id"),
	}
	ctx.JSON(status, resp)
	return resp
}

// Abort writes a "Failed" envelope and stops the handler chain.
func Abort(ctx *gin.Context, status int, message string, err interface{}) {
	Error[any](ctx, status, message, err)
	ctx.Abort()
}
