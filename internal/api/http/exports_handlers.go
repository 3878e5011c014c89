package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bayanihan-edu/tosforge/internal/history"
	"github.com/bayanihan-edu/tosforge/internal/storage"
)

// GET /api/exports?limit=20
func ListExportsHandler(hist history.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		records, err := hist.List(r.Context(), limit)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"exports": records})
	}
}

// GET /api/exports/{exportID}/download re-serves a previously generated doc.
func DownloadExportHandler(hist history.Store, blobs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "exportID")
		rec, err := hist.Get(r.Context(), id)
		if errors.Is(err, history.ErrNotFound) {
			http.Error(w, "export not found", http.StatusNotFound)
			return
		}
		if err != nil {
			writeError(w, err)
			return
		}
		rc, err := blobs.Get("exports/" + id + ".docx")
		if err != nil {
			http.Error(w, "document no longer available", http.StatusNotFound)
			return
		}
		defer rc.Close()
		w.Header().Set("Content-Type", docxContentType)
		w.Header().Set("Content-Disposition", `attachment; filename="`+rec.Filename+`"`)
		_, _ = io.Copy(w, rc)
	}
}
