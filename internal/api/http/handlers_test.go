package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bayanihan-edu/tosforge/internal/history"
	"github.com/bayanihan-edu/tosforge/internal/melc"
	"github.com/bayanihan-edu/tosforge/internal/quiz"
	"github.com/bayanihan-edu/tosforge/internal/storage"
	"github.com/bayanihan-edu/tosforge/internal/tos"
)

type fakeProvider struct {
	name   string
	drafts []quiz.Draft
	err    error
	calls  int
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Draft(ctx context.Context, req quiz.Request) ([]quiz.Draft, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.drafts, nil
}

func seededBank(t *testing.T) melc.Bank {
	t.Helper()
	records, err := melc.SeedRecords()
	if err != nil {
		t.Fatalf("SeedRecords: %v", err)
	}
	bank, err := melc.NewMemoryBank(records)
	if err != nil {
		t.Fatalf("NewMemoryBank: %v", err)
	}
	return bank
}

func testRouter(deps GenerateDeps) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/api/subjects", ListSubjectsHandler(deps.Bank))
	r.Get("/api/subjects/{subject}/grades", ListGradesHandler(deps.Bank))
	r.Get("/api/subjects/{subject}/grades/{grade}/quarters", ListQuartersHandler(deps.Bank))
	r.Get("/api/competencies", ListCompetenciesHandler(deps.Bank))
	r.Post("/api/competencies", AddCompetencyHandler(deps.Bank))
	r.Post("/api/tos", PreviewTOSHandler(deps.Bank))
	r.Post("/api/generate", GenerateHandler(deps))
	r.Get("/api/exports", ListExportsHandler(deps.History))
	r.Get("/api/exports/{exportID}/download", DownloadExportHandler(deps.History, deps.Blobs))
	return r
}

func defaultDeps(t *testing.T) GenerateDeps {
	return GenerateDeps{
		Bank:      seededBank(t),
		Generator: quiz.NewGenerator(),
		AITimeout: time.Second,
		Blobs:     storage.NewMemStore(),
		History:   history.NewMemoryStore(),
		Now:       func() time.Time { return time.Unix(1756500000, 0) },
	}
}

func postJSON(t *testing.T, r http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func scienceInput() AllocationInput {
	return AllocationInput{
		Subject:         "Science",
		Grade:           8,
		Quarter:         3,
		CompetencyCodes: []string{"S8FE-IIIa-15", "S8FE-IIIb-16", "S8FE-IIIc-17"},
		TotalItems:      30,
	}
}

func TestListEndpoints(t *testing.T) {
	r := testRouter(defaultDeps(t))

	rec := get(r, "/api/subjects")
	if rec.Code != http.StatusOK {
		t.Fatalf("subjects status = %d", rec.Code)
	}
	var subjects struct {
		Subjects []string `json:"subjects"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &subjects); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(subjects.Subjects) != 3 {
		t.Errorf("subjects = %v", subjects.Subjects)
	}

	rec = get(r, "/api/subjects/Science/grades")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "8") {
		t.Errorf("grades: %d %s", rec.Code, rec.Body.String())
	}

	rec = get(r, "/api/subjects/Science/grades/8/quarters")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "3") {
		t.Errorf("quarters: %d %s", rec.Code, rec.Body.String())
	}

	rec = get(r, "/api/competencies?subject=Science&grade=8&quarter=3")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "S8FE-IIIa-15") {
		t.Errorf("competencies: %d %s", rec.Code, rec.Body.String())
	}

	rec = get(r, "/api/competencies?subject=Science")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing params status = %d", rec.Code)
	}
}

func TestAddCompetency(t *testing.T) {
	deps := defaultDeps(t)
	r := testRouter(deps)

	c := melc.Competency{
		Subject: "Science", Grade: 8, Quarter: 3,
		Code: "S8FE-IIId-18", Description: "Custom entry.", Sessions: 2,
	}
	rec := postJSON(t, r, "/api/competencies", c)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	// Duplicate and invalid entries are rejected inline.
	if rec := postJSON(t, r, "/api/competencies", c); rec.Code != http.StatusBadRequest {
		t.Errorf("duplicate status = %d", rec.Code)
	}
	c.Code = "S8FE-IIId-19"
	c.Grade = 3
	if rec := postJSON(t, r, "/api/competencies", c); rec.Code != http.StatusBadRequest {
		t.Errorf("bad grade status = %d", rec.Code)
	}
}

func TestPreviewTOS(t *testing.T) {
	r := testRouter(defaultDeps(t))

	rec := postJSON(t, r, "/api/tos", scienceInput())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Rows        []tos.Row `json:"rows"`
		TotalItems  int       `json:"total_items"`
		TotalPoints int       `json:"total_points"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	sum := 0
	for _, row := range resp.Rows {
		sum += row.Count
	}
	if sum != 30 {
		t.Errorf("row counts sum to %d, want 30", sum)
	}
	if resp.TotalPoints == 0 {
		t.Error("total_points missing")
	}
}

func TestPreviewTOSInvalid(t *testing.T) {
	r := testRouter(defaultDeps(t))

	in := scienceInput()
	in.TotalItems = 0
	if rec := postJSON(t, r, "/api/tos", in); rec.Code != http.StatusBadRequest {
		t.Errorf("zero items status = %d", rec.Code)
	}

	in = scienceInput()
	in.CompetencyCodes = []string{"NOPE-404"}
	if rec := postJSON(t, r, "/api/tos", in); rec.Code != http.StatusNotFound {
		t.Errorf("unknown code status = %d", rec.Code)
	}

	in = scienceInput()
	in.LevelWeights = []float64{0.5, 0.5}
	if rec := postJSON(t, r, "/api/tos", in); rec.Code != http.StatusBadRequest {
		t.Errorf("short weights status = %d", rec.Code)
	}
}

func TestGenerateTemplateOnly(t *testing.T) {
	deps := defaultDeps(t)
	r := testRouter(deps)

	rec := postJSON(t, r, "/api/generate", GenerateRequest{
		AllocationInput: scienceInput(),
		School:          "Tiring National High School",
		Teacher:         "Juan Dela Cruz",
		Date:            "2026-08-30",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != docxContentType {
		t.Errorf("content type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "TOS_Quiz_Grade8_Science_Q3.docx") {
		t.Errorf("disposition = %q", cd)
	}
	id := rec.Header().Get("X-Export-Id")
	if id == "" {
		t.Fatal("missing export id")
	}

	// History and the blob copy are written.
	recs, err := deps.History.List(context.Background(), 0)
	if err != nil || len(recs) != 1 {
		t.Fatalf("history = %v, %v", recs, err)
	}
	if recs[0].Provider != "" {
		t.Errorf("provider = %q, want empty for template drafts", recs[0].Provider)
	}
	dl := get(r, "/api/exports/"+id+"/download")
	if dl.Code != http.StatusOK {
		t.Errorf("download status = %d", dl.Code)
	}
}

func TestGenerateWithProvider(t *testing.T) {
	deps := defaultDeps(t)
	deps.Provider = &fakeProvider{
		name: "openai",
		drafts: []quiz.Draft{
			{Number: 1, Prompt: "AI item one", Answer: "A", Points: 1},
		},
	}
	r := testRouter(deps)

	rec := postJSON(t, r, "/api/generate", GenerateRequest{
		AllocationInput: scienceInput(),
		School:          "THS",
		Teacher:         "J",
		Date:            "2026-08-30",
		UseAI:           true,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if warn := rec.Header().Get("X-Provider-Warning"); warn != "" {
		t.Errorf("unexpected warning %q", warn)
	}
	recs, _ := deps.History.List(context.Background(), 0)
	if len(recs) != 1 || recs[0].Provider != "openai" {
		t.Errorf("history = %+v", recs)
	}
}

func TestGenerateProviderFailureFallsBack(t *testing.T) {
	deps := defaultDeps(t)
	fp := &fakeProvider{name: "anthropic", err: errors.New("connection refused")}
	deps.Provider = fp
	r := testRouter(deps)

	rec := postJSON(t, r, "/api/generate", GenerateRequest{
		AllocationInput: scienceInput(),
		School:          "THS",
		Teacher:         "J",
		Date:            "2026-08-30",
		UseAI:           true,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, provider failure must not abort export", rec.Code)
	}
	if fp.calls != 1 {
		t.Errorf("provider calls = %d", fp.calls)
	}
	if warn := rec.Header().Get("X-Provider-Warning"); !strings.Contains(warn, "template items") {
		t.Errorf("warning = %q", warn)
	}
	recs, _ := deps.History.List(context.Background(), 0)
	if len(recs) != 1 || recs[0].Provider != "" {
		t.Errorf("history after fallback = %+v", recs)
	}
}

func TestGenerateSkipsProviderWhenNotRequested(t *testing.T) {
	deps := defaultDeps(t)
	fp := &fakeProvider{name: "openai"}
	deps.Provider = fp
	r := testRouter(deps)

	rec := postJSON(t, r, "/api/generate", GenerateRequest{
		AllocationInput: scienceInput(),
		School:          "THS",
		Teacher:         "J",
		Date:            "2026-08-30",
		UseAI:           false,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if fp.calls != 0 {
		t.Errorf("provider called %d times with use_ai=false", fp.calls)
	}
}

func TestListExports(t *testing.T) {
	deps := defaultDeps(t)
	r := testRouter(deps)

	for i := 0; i < 3; i++ {
		rec := postJSON(t, r, "/api/generate", GenerateRequest{
			AllocationInput: scienceInput(),
			School:          "THS",
			Teacher:         "J",
			Date:            "2026-08-30",
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("generate %d status = %d", i, rec.Code)
		}
	}
	rec := get(r, "/api/exports?limit=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Exports []history.Record `json:"exports"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Exports) != 2 {
		t.Errorf("exports = %d, want 2", len(resp.Exports))
	}
}

func TestDownloadUnknownExport(t *testing.T) {
	r := testRouter(defaultDeps(t))
	if rec := get(r, "/api/exports/nope/download"); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d", rec.Code)
	}
}
