package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lexassist/api/response"
	"lexassist/service"
)

// DebugHandler 开发者查看外部服务调用记录
type DebugHandler struct {
	calls service.CallLog
}

func NewDebugHandler(calls service.CallLog) *DebugHandler {
	return &DebugHandler{calls: calls}
}

// LastCall 最近一次外部调用，可按 service 过滤
func (h *DebugHandler) LastCall(c *gin.Context) {
	rec, err := h.calls.Last(c.Request.Context(), c.Query("service"))
	if err != nil {
		fail(c, err)
		return
	}
	if rec == nil {
		response.FailStatus(c, http.StatusNotFound, "No calls recorded yet.")
		return
	}
	response.Success(c, rec)
}

// Calls 最近的调用列表
func (h *DebugHandler) Calls(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		response.FailStatus(c, http.StatusBadRequest, "limit must be a positive integer.")
		return
	}

	list, err := h.calls.List(c.Request.Context(), c.Query("service"), limit)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, list)
}
