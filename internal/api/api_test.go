package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/iranzi17/ibc-15kv-reporting/internal/cache"
	"github.com/iranzi17/ibc-15kv-reporting/internal/config"
	"github.com/iranzi17/ibc-15kv-reporting/internal/model"
	"github.com/iranzi17/ibc-15kv-reporting/internal/render"
	"github.com/iranzi17/ibc-15kv-reporting/internal/sheets"
	"github.com/iranzi17/ibc-15kv-reporting/internal/summarizer"
)

type fakeFetcher struct {
	rows     [][]string
	err      error
	appended [][]string
}

func (f *fakeFetcher) Values(context.Context, string) ([][]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

func (f *fakeFetcher) Append(_ context.Context, _ string, rows [][]string) error {
	if f.err != nil {
		return f.err
	}
	f.appended = append(f.appended, rows...)
	return nil
}

type fakeProvider struct {
	summary string
	err     error
}

func (p *fakeProvider) Summarize(context.Context, string) (string, error) {
	return p.summary, p.err
}

func (p *fakeProvider) Structure(context.Context, string) ([]*model.Record, error) {
	return nil, errors.New("not implemented")
}

func newTestRouter(t *testing.T, f sheets.Fetcher, provider summarizer.Provider) (*gin.Engine, *Handler) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	settings := &config.Settings{
		SheetName:         "Reports",
		DataDir:           t.TempDir(),
		DisciplineCol:     11,
		DefaultDiscipline: "Electrical",
		SummaryProvider:   "hf",
		TemplatePath:      filepath.Join(t.TempDir(), "missing-template.docx"),
	}
	schema := model.SchemaCurrent
	source := sheets.NewSource(f, cache.New(filepath.Join(settings.DataDir, "offline_cache.json")),
		schema, settings.SheetName, zap.NewNop().Sugar())
	renderer := render.NewRenderer(settings.TemplatePath, settings.DisciplineCol, settings.DefaultDiscipline)

	h := NewHandler(settings, schema, source, renderer, provider, zap.NewNop().Sugar())
	router := gin.New()
	h.RegisterRoutes(router.Group("/api"))
	return router, h
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func TestListReports(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, &fakeFetcher{rows: [][]string{
		{"01.02.2024", "SiteA", "DistrictX"},
		{"02.02.2024", "SiteB"},
	}}, nil)

	w := doJSON(t, router, http.MethodGet, "/api/reports", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	out := decode(t, w)
	if out["offline"] != false {
		t.Fatalf("offline = %v", out["offline"])
	}
	if n := out["total"].(float64); n != 2 {
		t.Fatalf("total = %v", n)
	}
	records := out["records"].([]any)
	first := records[0].(map[string]any)
	if first["Date"] != "2024-02-01" || first["Site_Name"] != "SiteA" {
		t.Fatalf("first record = %v", first)
	}
}

func TestListReports_OfflineFallback(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, &fakeFetcher{err: errors.New("unreachable")}, nil)
	out := decode(t, doJSON(t, router, http.MethodGet, "/api/reports", nil))
	if out["offline"] != true {
		t.Fatalf("offline = %v, want true", out["offline"])
	}
}

func TestListReports_Filter(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, &fakeFetcher{rows: [][]string{
		{"01.02.2024", "SiteA"},
		{"01.02.2024", "SiteB"},
	}}, nil)

	out := decode(t, doJSON(t, router, http.MethodGet, "/api/reports?sites=SiteB", nil))
	records := out["records"].([]any)
	if len(records) != 1 {
		t.Fatalf("filtered records = %d", len(records))
	}
}

func TestSummary(t *testing.T) {
	t.Parallel()

	rows := [][]string{{"01.02.2024", "SiteA", "", "", "", "", "stringing"}}

	// No provider configured.
	router, _ := newTestRouter(t, &fakeFetcher{rows: rows}, nil)
	w := doJSON(t, router, http.MethodPost, "/api/summary", selection{})
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", w.Code)
	}
	if msg := decode(t, w)["error"]; msg != summarizer.FallbackMessage {
		t.Fatalf("error = %v", msg)
	}

	// Working provider.
	router, _ = newTestRouter(t, &fakeFetcher{rows: rows}, &fakeProvider{summary: "a solid week"})
	w = doJSON(t, router, http.MethodPost, "/api/summary", selection{})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if got := decode(t, w)["summary"]; got != "a solid week" {
		t.Fatalf("summary = %v", got)
	}

	// Failing provider surfaces the fixed message.
	router, _ = newTestRouter(t, &fakeFetcher{rows: rows}, &fakeProvider{err: errors.New("boom")})
	w = doJSON(t, router, http.MethodPost, "/api/summary", selection{})
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", w.Code)
	}
	if msg := decode(t, w)["error"]; msg != summarizer.FallbackMessage {
		t.Fatalf("error = %v", msg)
	}
}

func TestSummary_NoRecords(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, &fakeFetcher{}, &fakeProvider{summary: "x"})
	w := doJSON(t, router, http.MethodPost, "/api/summary", selection{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestStructure_LocalAppend(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{}
	router, _ := newTestRouter(t, f, nil)

	w := doJSON(t, router, http.MethodPost, "/api/structure", structureRequest{
		Text:   "Date: 01.02.2024\nSite: Gahanga\nWork Executed: pole erection",
		Append: true,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	out := decode(t, w)
	if out["appended"].(float64) != 1 {
		t.Fatalf("appended = %v", out["appended"])
	}
	if len(f.appended) != 1 {
		t.Fatalf("rows not pushed to sheet")
	}
	rec := out["records"].([]any)[0].(map[string]any)
	if rec["Site_Name"] != "Gahanga" {
		t.Fatalf("record = %v", rec)
	}
}

func TestStructure_EmptyText(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, &fakeFetcher{}, nil)
	w := doJSON(t, router, http.MethodPost, "/api/structure", structureRequest{Text: "  "})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestGenerate_NoSelection(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, &fakeFetcher{}, nil)
	w := doJSON(t, router, http.MethodPost, "/api/generate", selection{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestDownload_UnknownToken(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, &fakeFetcher{}, nil)
	w := doJSON(t, router, http.MethodGet, "/api/download/nope", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestStatus(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, &fakeFetcher{rows: [][]string{{"01.02.2024", "SiteA"}}}, nil)
	out := decode(t, doJSON(t, router, http.MethodGet, "/api/status", nil))
	if out["schema"] != "current" {
		t.Fatalf("schema = %v", out["schema"])
	}
	if out["summaryProvider"] != "local" {
		t.Fatalf("summaryProvider = %v", out["summaryProvider"])
	}
	cols := out["columns"].([]any)
	if len(cols) != 14 || !strings.HasPrefix(cols[0].(string), "Date") {
		t.Fatalf("columns = %v", cols)
	}
}
