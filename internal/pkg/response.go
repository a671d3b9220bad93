package pkg

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope 所有接口统一的响应结构
type Envelope struct {
	Status     string              `json:"status"`
	Message    string              `json:"message"`
	Data       any                 `json:"data,omitempty"`
	Pagination *Pagination         `json:"pagination,omitempty"`
	Errors     map[string][]string `json:"errors,omitempty"`
}

// Success status 传 0 时使用 200
func Success(c *gin.Context, status int, message string, data gin.H, pagination *Pagination) {
	if status == 0 {
		status = http.StatusOK
	}
	if data == nil {
		data = gin.H{}
	}
	c.JSON(status, Envelope{
		Status:     StatusSuccess,
		Message:    message,
		Data:       data,
		Pagination: pagination,
	})
}

// Fail status 传 0 时使用 400
func Fail(c *gin.Context, status int, message string, errs map[string][]string) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	c.JSON(status, Envelope{
		Status:  StatusError,
		Message: message,
		Errors:  errs,
	})
}

// AbortFail 中间件中使用：写入错误响应并终止后续处理
func AbortFail(c *gin.Context, status int, message string) {
	Fail(c, status, message, nil)
	c.Abort()
}
