package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Code int    `json:"code"` // 0:成功, -1:失败
	Msg  string `json:"msg"`
	Data any    `json:"data,omitempty"`
}

func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{
		Code: 0,
		Msg:  "success",
		Data: data,
	})
}

// FailStatus 失败响应不带任何数据
func FailStatus(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, Response{
		Code: -1,
		Msg:  msg,
	})
}
