// Package response 统一 JSON 错误输出。
package response

import (
	"socialhub/internal/apperr"
	"socialhub/internal/constants"
	"socialhub/internal/logger"

	"github.com/gin-gonic/gin"
)

// Error 按错误分类写出 {"error": message}，内部错误只记录日志
func Error(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status >= 500 {
		logger.Error("请求处理失败",
			"request_id", c.GetString(constants.ContextRequestID),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", err,
		)
	}
	c.JSON(status, gin.H{"error": apperr.PublicMessage(err)})
}
