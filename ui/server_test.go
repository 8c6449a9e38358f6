package ui

import (
	"bytes"
	"context"
	"encoding/json"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"samplewms/adapters/excel"
	"samplewms/domain/sample"
	"samplewms/internal/exchange"
	"samplewms/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *store.MemoryStore) {
	gin.SetMode(gin.TestMode)
	repo := store.NewMemoryStore()
	cfg := excel.DefaultExcelConfig()
	svc := exchange.NewService(repo,
		excel.NewWorkbookWriter(cfg.Export, nil, nil),
		excel.NewTemplateGenerator(cfg.Template, nil),
		excel.NewDataReader(cfg.Import, nil),
		exchange.Config{ExportBaseName: "LiveWMS_Export"}, nil)
	return NewServer(repo, svc, Config{MaxUploadBytes: 1 << 20}, nil), repo
}

func do(t *testing.T, s *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func uploadRequest(t *testing.T, fileName string, data []byte) *http.Request {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/exchange/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestServer_Health(t *testing.T) {
	s, _ := newTestServer(t)
	w := do(t, s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServer_SampleCRUD(t *testing.T) {
	s, _ := newTestServer(t)

	body := `{"name":"面霜","location_code":"A-01-01","category":"美妆护肤","platform":["抖音"],
		"entry_date":"2024-03-01","stock_quantity":5,"selection_count":12,"price":99,
		"remarks":"详情 https://example.com/x"}`
	w := do(t, s, httptest.NewRequest(http.MethodPost, "/api/samples", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decode(t, w)["id"].(string)
	require.NotEmpty(t, id)

	w = do(t, s, httptest.NewRequest(http.MethodGet, "/api/samples/"+id, nil))
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode(t, w)
	assert.Equal(t, "面霜", detail["name"])
	assert.Contains(t, detail["remarks_html"], `href="https://example.com/x"`)

	w = do(t, s, httptest.NewRequest(http.MethodPut, "/api/samples/"+id,
		strings.NewReader(`{"name":"新面霜","location_code":"B-01-01"}`)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, s, httptest.NewRequest(http.MethodGet, "/api/samples?search="+url.QueryEscape("新"), nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, decode(t, w)["count"])

	w = do(t, s, httptest.NewRequest(http.MethodGet, "/api/samples/stats", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, decode(t, w)["total_samples"])

	w = do(t, s, httptest.NewRequest(http.MethodGet, "/api/samples/shelves", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["shelves"], 1)

	w = do(t, s, httptest.NewRequest(http.MethodDelete, "/api/samples/"+id, nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, s, httptest.NewRequest(http.MethodGet, "/api/samples/"+id, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decode(t, w)["code"])
}

func TestServer_CreateRejectsMissingLocation(t *testing.T) {
	s, _ := newTestServer(t)
	w := do(t, s, httptest.NewRequest(http.MethodPost, "/api/samples", strings.NewReader(`{"name":"x"}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_INPUT", decode(t, w)["code"])
}

func TestServer_TemplateAndImport(t *testing.T) {
	s, repo := newTestServer(t)

	w := do(t, s, httptest.NewRequest(http.MethodGet, "/api/exchange/template", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, excel.ContentType, w.Header().Get("Content-Type"))
	_, params, err := mime.ParseMediaType(w.Header().Get("Content-Disposition"))
	require.NoError(t, err)
	assert.Equal(t, "样品导入模板.xlsx", params["filename"])

	w = do(t, s, uploadRequest(t, "样品导入模板.xlsx", w.Body.Bytes()))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, 1.0, body["imported"])
	assert.Equal(t, 1, repo.Len())
}

func TestServer_Export(t *testing.T) {
	s, repo := newTestServer(t)
	require.NoError(t, repo.Create(context.Background(), &sample.Sample{Name: "面霜", LocationCode: "A-01"}))
	require.NoError(t, repo.Create(context.Background(), &sample.Sample{Name: "口红", LocationCode: "B-01"}))

	w := do(t, s, httptest.NewRequest(http.MethodGet, "/api/exchange/export?name=mine&search="+url.QueryEscape("口红"), nil))
	require.Equal(t, http.StatusOK, w.Code)
	_, params, err := mime.ParseMediaType(w.Header().Get("Content-Disposition"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(params["filename"], "mine_"))

	f, err := excelizeOpen(w.Body.Bytes())
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("样品清单")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "口红", rows[1][2])
}

func TestServer_ImportErrors(t *testing.T) {
	s, repo := newTestServer(t)

	tests := []struct {
		name    string
		req     *http.Request
		status  int
		code    string
		message string
	}{
		{"legacy xls", uploadRequest(t, "old.xls", []byte("x")), http.StatusBadRequest, "INVALID_INPUT", "请上传有效的 Excel 文件 (.xlsx) 或 CSV 文件"},
		{"garbage xlsx", uploadRequest(t, "bad.xlsx", []byte("not a zip")), http.StatusBadRequest, "MALFORMED_DOCUMENT", "文件解析失败，请检查文件格式是否正确。"},
		{"no valid rows", uploadRequest(t, "a.csv", []byte("产品名称,品牌\n面霜,牌子\n")), http.StatusUnprocessableEntity, "NO_VALID_DATA",
			"未在文件中找到有效数据，请确保包含“产品名称”和“货架位置”列。"},
		{"too large", uploadRequest(t, "big.csv", bytes.Repeat([]byte("a"), 1<<20+1)), http.StatusBadRequest, "INVALID_INPUT", ""},
		{"missing field", httptest.NewRequest(http.MethodPost, "/api/exchange/import", nil), http.StatusBadRequest, "INVALID_INPUT", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, tt.req)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			body := decode(t, w)
			assert.Equal(t, tt.code, body["code"])
			if tt.message != "" {
				assert.Equal(t, tt.message, body["message"])
			}
		})
	}
	assert.Zero(t, repo.Len())
}
