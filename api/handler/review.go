package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"lexassist/api/response"
	"lexassist/logic/ingestion/extract"
	"lexassist/service"
)

type ReviewHandler struct {
	reviewSvc     *service.ReviewService
	maxUploadSize int64
}

func NewReviewHandler(reviewSvc *service.ReviewService, maxUploadSize int64) *ReviewHandler {
	return &ReviewHandler{reviewSvc: reviewSvc, maxUploadSize: maxUploadSize}
}

type reviewTextRequest struct {
	Text         string `json:"text"`
	FileName     string `json:"fileName"`
	Jurisdiction string `json:"jurisdiction"`
}

// Upload 上传文档并审查，表单字段 file 为文档，jurisdiction 可选
func (h *ReviewHandler) Upload(c *gin.Context) {
	if h.maxUploadSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			fail(c, extract.ErrDocumentTooLarge)
			return
		}
		log.Println(">>> [DEBUG] error: 表单解析失败", err)
		response.FailStatus(c, http.StatusBadRequest, "No file received. Upload the document in the 'file' field.")
		return
	}
	log.Printf(">>> [DEBUG] 收到文件: %s, 大小: %d", fileHeader.Filename, fileHeader.Size)

	src, err := fileHeader.Open()
	if err != nil {
		fail(c, err)
		return
	}
	defer src.Close()

	report, err := h.reviewSvc.ReviewUpload(c.Request.Context(), fileHeader.Filename, fileHeader.Header.Get("Content-Type"), c.PostForm("jurisdiction"), src)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, report)
}

// Text 直接审查纯文本
func (h *ReviewHandler) Text(c *gin.Context) {
	var req reviewTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FailStatus(c, http.StatusBadRequest, "Invalid request body.")
		return
	}

	report, err := h.reviewSvc.ReviewText(c.Request.Context(), req.FileName, req.Jurisdiction, req.Text)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, report)
}
