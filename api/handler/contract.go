package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"lexassist/api/response"
	"lexassist/service"
)

type ContractHandler struct {
	generationSvc  *service.GenerationService
	translationSvc *service.TranslationService
}

func NewContractHandler(generationSvc *service.GenerationService, translationSvc *service.TranslationService) *ContractHandler {
	return &ContractHandler{
		generationSvc:  generationSvc,
		translationSvc: translationSvc,
	}
}

func fail(c *gin.Context, err error) {
	status, msg := userMessage(err)
	response.FailStatus(c, status, msg)
}

// ListTypes 全部合同类型
func (h *ContractHandler) ListTypes(c *gin.Context) {
	response.Success(c, h.generationSvc.Schemas())
}

// GetType 单个合同类型的字段定义
func (h *ContractHandler) GetType(c *gin.Context) {
	sc, err := h.generationSvc.Schema(c.Param("type"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, sc)
}

// Seed 合同类型的初始表单值
func (h *ContractHandler) Seed(c *gin.Context) {
	values, err := h.generationSvc.Seed(c.Param("type"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, values)
}

// Generate 生成合同
func (h *ContractHandler) Generate(c *gin.Context) {
	var req service.GenerateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FailStatus(c, http.StatusBadRequest, "Invalid request body.")
		return
	}
	log.Printf(">>> [DEBUG] 收到生成请求: type=%s parties=%d clauses=%d", req.Type, len(req.Parties), len(req.Clauses))

	result, err := h.generationSvc.Generate(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, result)
}

// Translate 翻译文本
func (h *ContractHandler) Translate(c *gin.Context) {
	var req service.TranslateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FailStatus(c, http.StatusBadRequest, "Invalid request body.")
		return
	}

	out, err := h.translationSvc.Translate(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"translatedText": out})
}
