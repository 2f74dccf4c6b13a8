package router

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexassist/api/handler"
	"lexassist/logic/ingestion/extract"
	"lexassist/logic/reference"
	"lexassist/logic/schema"
	"lexassist/service"
	"lexassist/types"
)

type stubGenerator struct {
	raw []byte
	err error
}

func (s stubGenerator) Generate(ctx context.Context, req types.GenerationRequest) ([]byte, error) {
	return s.raw, s.err
}

type stubTranslator struct{}

func (stubTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	return "[" + target + "] " + text, nil
}

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func newEngine(t *testing.T, gen service.Generator, calls *service.MemoryObserver) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ext, err := extract.NewExtractor(context.Background())
	require.NoError(t, err)
	catalog, err := reference.DefaultCatalog()
	require.NoError(t, err)

	contractH := handler.NewContractHandler(
		service.NewGenerationService(schema.Default(), gen),
		service.NewTranslationService(stubTranslator{}),
	)
	reviewH := handler.NewReviewHandler(service.NewReviewService(ext, catalog, 1), 1<<20)
	debugH := handler.NewDebugHandler(calls)

	r := gin.New()
	RegisterRoutes(r, contractH, reviewH, debugH)
	return r
}

func do(t *testing.T, r *gin.Engine, req *http.Request) (int, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func jsonRequest(method, path string, body any) *http.Request {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestContractTypes(t *testing.T) {
	r := newEngine(t, stubGenerator{}, service.NewMemoryObserver(1))

	status, env := do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/contract/types", nil))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 0, env.Code)
	var list []types.ContractTypeSchema
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 11)

	status, env = do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/contract/types/lease", nil))
	assert.Equal(t, http.StatusOK, status)
	var sc types.ContractTypeSchema
	require.NoError(t, json.Unmarshal(env.Data, &sc))
	assert.Equal(t, "LEASE", sc.Type)

	status, env = do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/contract/types/NDA/seed", nil))
	assert.Equal(t, http.StatusOK, status)
	var seed map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &seed))
	assert.Equal(t, []any{""}, seed["parties"])
	assert.Equal(t, false, seed["returnOfMaterials"])

	status, env = do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/contract/types/WILL", nil))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, -1, env.Code)
	assert.Equal(t, "Unknown contract type.", env.Msg)
}

func TestGenerate(t *testing.T) {
	gen := stubGenerator{raw: []byte(`{"html":"<p onclick=\"x()\">Agreement</p>","references":[{"citation":"UCC 2-719"}]}`)}
	r := newEngine(t, gen, service.NewMemoryObserver(1))

	body := map[string]any{
		"type":    "NDA",
		"values":  map[string]any{"jurisdiction": "Delaware"},
		"parties": []string{"Acme", "Globex"},
		"clauses": []map[string]any{{"id": nil, "text": "Keep it secret."}},
	}
	status, env := do(t, r, jsonRequest(http.MethodPost, "/api/v1/contract/generate", body))
	require.Equal(t, http.StatusOK, status, env.Msg)

	var res types.GenerationResult
	require.NoError(t, json.Unmarshal(env.Data, &res))
	require.NotNil(t, res.HTML)
	assert.Equal(t, "<p>Agreement</p>", *res.HTML)
	assert.Equal(t, []types.Reference{{Citation: "UCC 2-719"}}, res.References)
}

func TestGenerateValidationFailure(t *testing.T) {
	r := newEngine(t, stubGenerator{}, service.NewMemoryObserver(1))

	body := map[string]any{
		"type":    "NDA",
		"parties": []string{"Acme"},
		"clauses": []map[string]any{{"text": "x"}},
	}
	status, env := do(t, r, jsonRequest(http.MethodPost, "/api/v1/contract/generate", body))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Please enter at least 2 parties.", env.Msg)
	assert.Empty(t, env.Data)
}

func TestGenerateExternalError(t *testing.T) {
	gen := stubGenerator{err: service.NewExternalServiceError("generator", 500, "quota exceeded")}
	r := newEngine(t, gen, service.NewMemoryObserver(1))

	body := map[string]any{
		"type":    "SERVICE",
		"values":  map[string]any{"deliverables": []string{"Report"}},
		"parties": []string{"Acme", "Globex"},
		"clauses": []map[string]any{{"text": "x"}},
	}
	status, env := do(t, r, jsonRequest(http.MethodPost, "/api/v1/contract/generate", body))
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, "The generator service returned an error: quota exceeded", env.Msg)
}

func TestGenerateInvalidBody(t *testing.T) {
	r := newEngine(t, stubGenerator{}, service.NewMemoryObserver(1))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/contract/generate", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	status, env := do(t, r, req)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, -1, env.Code)
}

func multipartRequest(t *testing.T, path, fileName string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestReviewUpload(t *testing.T) {
	r := newEngine(t, stubGenerator{}, service.NewMemoryObserver(1))

	req := multipartRequest(t, "/api/v1/review/upload", "msa.txt",
		[]byte("Supplier shall provide an indemnification to Customer for third-party claims."))
	status, env := do(t, r, req)
	require.Equal(t, http.StatusOK, status, env.Msg)

	var report types.ReviewReport
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, "msa.txt", report.FileName)
	assert.Equal(t, 30, report.Result.ComplianceScore)
	assert.Equal(t, []string{
		"Missing governing law clause",
		"Indemnification clause without liability cap",
		"No termination clause found",
	}, report.Result.Issues)
	assert.Len(t, report.Citations, 3)
	assert.True(t, report.Result.Clauses["indemnification"])
}

func TestReviewUploadErrors(t *testing.T) {
	r := newEngine(t, stubGenerator{}, service.NewMemoryObserver(1))

	status, env := do(t, r, multipartRequest(t, "/api/v1/review/upload", "sheet.xlsx", []byte("a,b")))
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, env.Msg, "Unsupported file type")

	status, env = do(t, r, multipartRequest(t, "/api/v1/review/upload", "blank.txt", []byte("  \n ")))
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "Unable to extract text from the document.", env.Msg)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/review/upload", strings.NewReader("x"))
	req.Header.Set("Content-Type", "text/plain")
	status, _ = do(t, r, req)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestReviewText(t *testing.T) {
	r := newEngine(t, stubGenerator{}, service.NewMemoryObserver(1))

	status, env := do(t, r, jsonRequest(http.MethodPost, "/api/v1/review/text", map[string]string{
		"text": "Either party may seek termination on notice. Force majeure events excuse delay.",
	}))
	require.Equal(t, http.StatusOK, status)
	var report types.ReviewReport
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, 50, report.Result.ComplianceScore)
	assert.Equal(t, []string{"Missing governing law clause"}, report.Result.Issues)

	status, env = do(t, r, jsonRequest(http.MethodPost, "/api/v1/review/text", map[string]string{
		"text":         "Governing law: England. Either party may cancel. Vendor shall indemnify Buyer.",
		"jurisdiction": "UK",
	}))
	require.Equal(t, http.StatusOK, status)
	report = types.ReviewReport{}
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, "UK", report.Jurisdiction)
	require.Len(t, report.Authorities, 1)
	assert.Equal(t, "hadley-v-baxendale", report.Authorities[0].ID)

	status, env = do(t, r, jsonRequest(http.MethodPost, "/api/v1/review/text", map[string]string{"text": "   "}))
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "Unable to extract text from the document.", env.Msg)
}

func TestTranslate(t *testing.T) {
	r := newEngine(t, stubGenerator{}, service.NewMemoryObserver(1))

	status, env := do(t, r, jsonRequest(http.MethodPost, "/api/v1/translate", map[string]string{"text": "Agreement", "target": "fr"}))
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"translatedText":"[fr] Agreement"}`, string(env.Data))

	status, _ = do(t, r, jsonRequest(http.MethodPost, "/api/v1/translate", map[string]string{"text": "Agreement"}))
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestDebugCalls(t *testing.T) {
	calls := service.NewMemoryObserver(5)
	r := newEngine(t, stubGenerator{}, calls)

	status, env := do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/debug/last-call", nil))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "No calls recorded yet.", env.Msg)

	calls.Observe(context.Background(), types.CallRecord{ID: "1", Service: "generator", StatusCode: 200, StartedAt: time.Now()})
	calls.Observe(context.Background(), types.CallRecord{ID: "2", Service: "translator", StatusCode: 200, StartedAt: time.Now()})

	status, env = do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/debug/last-call?service=generator", nil))
	require.Equal(t, http.StatusOK, status)
	var rec types.CallRecord
	require.NoError(t, json.Unmarshal(env.Data, &rec))
	assert.Equal(t, "1", rec.ID)

	status, env = do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/debug/calls?limit=1", nil))
	require.Equal(t, http.StatusOK, status)
	var list []types.CallRecord
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "2", list[0].ID)

	status, _ = do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/debug/calls?limit=zero", nil))
	assert.Equal(t, http.StatusBadRequest, status)
}
