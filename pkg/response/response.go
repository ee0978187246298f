// Package response 提供统一的 HTTP JSON 响应封装：{success, data} 或 {success, message}
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/linjx/gomall/pkg/apperr"
)

// Success 返回成功响应
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// SuccessWithStatus 返回指定状态码的成功响应
func SuccessWithStatus(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

// ErrorWithStatus 返回指定状态码的失败响应
func ErrorWithStatus(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// Error 按错误类别映射状态码并返回失败响应，内部错误不向外泄露细节
func Error(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}
	c.JSON(status, gin.H{"success": false, "message": message})
}
