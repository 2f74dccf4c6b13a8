package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"

	"lexassist/logic/chat"
	"lexassist/vars"
)

var ErrTranslationDisabled = errors.New("translation is not configured")

// Translator 翻译服务
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// HTTPTranslator LibreTranslate 兼容接口
type HTTPTranslator struct {
	endpoint string
	apiKey   string
	client   *http.Client
	observer CallObserver
}

func NewHTTPTranslator(endpoint, apiKey string, timeout time.Duration, observer CallObserver) *HTTPTranslator {
	if observer == nil {
		observer = NopObserver{}
	}
	return &HTTPTranslator{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
		observer: observer,
	}
}

func (t *HTTPTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	if source == "" {
		source = "auto"
	}
	payload, err := json.Marshal(map[string]string{
		"q":       text,
		"source":  source,
		"target":  target,
		"format":  "text",
		"api_key": t.apiKey,
	})
	if err != nil {
		return "", err
	}

	body, err := postJSON(ctx, t.client, t.observer, vars.SERVICE_TRANSLATOR, t.endpoint, payload, nil)
	if err != nil {
		return "", err
	}

	var resp struct {
		TranslatedText string `json:"translatedText"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", NewExternalServiceError(vars.SERVICE_TRANSLATOR, http.StatusOK, fmt.Sprintf("invalid response: %v", err))
	}
	return resp.TranslatedText, nil
}

// LLMTranslator 用对话模型翻译
type LLMTranslator struct {
	model    model.BaseChatModel
	observer CallObserver
}

func NewLLMTranslator(m model.BaseChatModel, observer CallObserver) *LLMTranslator {
	if observer == nil {
		observer = NopObserver{}
	}
	return &LLMTranslator{model: m, observer: observer}
}

func (t *LLMTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	if source == "" {
		source = "the detected source language"
	}
	prompt := chat.Render(vars.TRANSLATE, map[string]string{
		"Source": source,
		"Target": target,
		"Text":   text,
	})

	rec := newRecord(vars.SERVICE_TRANSLATOR, "llm", text)
	out, err := chat.Complete(ctx, t.model, prompt)
	finish(ctx, t.observer, &rec, out, 0, err)
	if err != nil {
		return "", NewExternalServiceError(vars.SERVICE_TRANSLATOR, 0, err.Error())
	}
	return out, nil
}

// DisabledTranslator 未配置翻译服务时使用
type DisabledTranslator struct{}

func (DisabledTranslator) Translate(context.Context, string, string, string) (string, error) {
	return "", ErrTranslationDisabled
}

// TranslateInput 翻译请求
type TranslateInput struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	Target string `json:"target"`
}

var ErrEmptyTranslation = errors.New("text and target language are required")

// TranslationService 校验输入后委托给 Translator
type TranslationService struct {
	translator Translator
}

func NewTranslationService(t Translator) *TranslationService {
	if t == nil {
		t = DisabledTranslator{}
	}
	return &TranslationService{translator: t}
}

func (s *TranslationService) Translate(ctx context.Context, in TranslateInput) (string, error) {
	text := strings.TrimSpace(in.Text)
	target := strings.TrimSpace(in.Target)
	if text == "" || target == "" {
		return "", ErrEmptyTranslation
	}
	return s.translator.Translate(ctx, text, strings.TrimSpace(in.Source), target)
}
