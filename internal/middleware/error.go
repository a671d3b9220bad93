package middleware

import (
	"errors"
	"log"
	"net/http"

	"Office_Hub/internal/pkg"

	"github.com/gin-gonic/gin"
)

const serverErrorMessage = "Server error"

// ErrorHandler 统一把 c.Error 收集的错误渲染成响应信封；未知错误只记录日志，对外返回通用信息
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err

		var appErr *pkg.AppError
		if errors.As(err, &appErr) {
			pkg.Fail(c, pkg.StatusOf(appErr.Kind), appErr.Message, appErr.Fields)
			return
		}
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		pkg.Fail(c, http.StatusInternalServerError, serverErrorMessage, nil)
	}
}

// Recovery panic 同样返回统一的 500 信封
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Printf("panic recovered %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
		pkg.AbortFail(c, http.StatusInternalServerError, serverErrorMessage)
	})
}

// NoRoute 未知路由
func NoRoute(c *gin.Context) {
	pkg.Fail(c, http.StatusNotFound, "route not found", nil)
}
