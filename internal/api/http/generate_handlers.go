package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/bayanihan-edu/tosforge/internal/export"
	"github.com/bayanihan-edu/tosforge/internal/history"
	"github.com/bayanihan-edu/tosforge/internal/melc"
	"github.com/bayanihan-edu/tosforge/internal/metrics"
	"github.com/bayanihan-edu/tosforge/internal/quiz"
	"github.com/bayanihan-edu/tosforge/internal/storage"
	"github.com/bayanihan-edu/tosforge/internal/tos"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// GenerateDeps bundles what the one real pipeline endpoint needs.
type GenerateDeps struct {
	Bank      melc.Bank
	Generator *quiz.Generator
	Provider  quiz.Provider // nil when AI drafting is not configured
	AITimeout time.Duration
	Blobs     storage.BlobStore
	History   history.Store
	Now       func() time.Time
}

// GenerateRequest is the full form submission.
type GenerateRequest struct {
	AllocationInput
	School  string `json:"school"`
	Teacher string `json:"teacher"`
	Date    string `json:"date"`
	UseAI   bool   `json:"use_ai"`
}

// GenerateHandler runs the whole pipeline: allocate, draft, render, record.
// A provider failure is non-fatal; the document is produced from template
// drafts and the warning is surfaced in the X-Provider-Warning header.
func GenerateHandler(deps GenerateDeps) http.HandlerFunc {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in GenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}

		req, err := resolve(r.Context(), deps.Bank, in.AllocationInput)
		if err != nil {
			metrics.RecordGenerate("invalid")
			writeError(w, err)
			return
		}
		rows, err := tos.Allocate(req)
		if err != nil {
			metrics.RecordAllocation("invalid")
			metrics.RecordGenerate("invalid")
			writeError(w, err)
			return
		}
		metrics.RecordAllocation("ok")
		items := tos.Items(rows)

		fallback := deps.Generator.Draft(items)
		drafts := fallback
		providerUsed := ""
		if in.UseAI && deps.Provider != nil {
			aiDrafts, warn := draftWithProvider(r.Context(), deps, quiz.Request{
				Subject: in.Subject,
				Grade:   in.Grade,
				Quarter: in.Quarter,
				Items:   items,
			})
			if warn != "" {
				w.Header().Set("X-Provider-Warning", warn)
			} else {
				drafts = quiz.Merge(items, aiDrafts, fallback)
				providerUsed = deps.Provider.Name()
			}
		}

		meta := export.Metadata{
			School:  in.School,
			Teacher: in.Teacher,
			Date:    in.Date,
			Subject: in.Subject,
			Grade:   in.Grade,
			Quarter: in.Quarter,
		}
		var buf bytes.Buffer
		if err := export.Write(&buf, meta, items, drafts); err != nil {
			metrics.RecordGenerate("export_error")
			writeError(w, err)
			return
		}

		id := uuid.NewString()
		filename := export.Filename(meta)
		if _, err := deps.Blobs.Put("exports/"+id+".docx", bytes.NewReader(buf.Bytes())); err != nil {
			// The teacher still gets their download; only re-download is lost.
			log.Printf("generate id=%s blob store failed: %v", id, err)
		}
		rec := history.Record{
			ID:         id,
			School:     in.School,
			Teacher:    in.Teacher,
			Subject:    in.Subject,
			Grade:      in.Grade,
			Quarter:    in.Quarter,
			TotalItems: in.TotalItems,
			Provider:   providerUsed,
			Filename:   filename,
			CreatedAt:  now().UTC(),
		}
		if err := deps.History.Append(r.Context(), rec); err != nil {
			log.Printf("generate id=%s history append failed: %v", id, err)
		}

		metrics.RecordGenerate("ok")
		log.Printf("generate id=%s subject=%s grade=%d quarter=%d items=%d provider=%q",
			id, in.Subject, in.Grade, in.Quarter, in.TotalItems, providerUsed)

		w.Header().Set("Content-Type", docxContentType)
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		w.Header().Set("X-Export-Id", id)
		_, _ = w.Write(buf.Bytes())
	}
}

func draftWithProvider(ctx context.Context, deps GenerateDeps, req quiz.Request) ([]quiz.Draft, string) {
	timeout := deps.AITimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	drafts, err := deps.Provider.Draft(ctx, req)
	if err != nil {
		metrics.RecordAIDraft(deps.Provider.Name(), "error")
		log.Printf("ai draft failed, using template items: %v", err)
		return nil, "AI drafting failed; template items were used: " + err.Error()
	}
	metrics.RecordAIDraft(deps.Provider.Name(), "ok")
	return drafts, ""
}
