package service

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// 外部服务错误信息的最大长度（按字符）
const maxErrorMessage = 200

// ExternalServiceError 生成 / 翻译服务返回非 2xx 或调用失败
type ExternalServiceError struct {
	Service    string
	StatusCode int
	Message    string
}

func NewExternalServiceError(service string, statusCode int, message string) *ExternalServiceError {
	return &ExternalServiceError{
		Service:    service,
		StatusCode: statusCode,
		Message:    truncate(strings.TrimSpace(message), maxErrorMessage),
	}
}

func (e *ExternalServiceError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s service error (status %d): %s", e.Service, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s service error: %s", e.Service, e.Message)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
