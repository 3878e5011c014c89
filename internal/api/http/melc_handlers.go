package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bayanihan-edu/tosforge/internal/melc"
)

func ListSubjectsHandler(bank melc.Bank) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subjects, err := bank.Subjects(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"subjects": subjects})
	}
}

func ListGradesHandler(bank melc.Bank) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subject := chi.URLParam(r, "subject")
		grades, err := bank.Grades(r.Context(), subject)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"subject": subject, "grades": grades})
	}
}

func ListQuartersHandler(bank melc.Bank) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subject := chi.URLParam(r, "subject")
		grade, err := strconv.Atoi(chi.URLParam(r, "grade"))
		if err != nil {
			http.Error(w, "bad grade", http.StatusBadRequest)
			return
		}
		quarters, err := bank.Quarters(r.Context(), subject, grade)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"subject": subject, "grade": grade, "quarters": quarters})
	}
}

// GET /api/competencies?subject=Science&grade=8&quarter=3
func ListCompetenciesHandler(bank melc.Bank) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		subject := q.Get("subject")
		grade, gerr := strconv.Atoi(q.Get("grade"))
		quarter, qerr := strconv.Atoi(q.Get("quarter"))
		if subject == "" || gerr != nil || qerr != nil {
			http.Error(w, "subject, grade and quarter are required", http.StatusBadRequest)
			return
		}
		records, err := bank.Filter(r.Context(), subject, grade, quarter)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"competencies": records})
	}
}

// POST /api/competencies adds a teacher-entered custom MELC.
func AddCompetencyHandler(bank melc.Bank) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var c melc.Competency
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := bank.Add(r.Context(), c); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"status": "ok", "code": c.Code})
	}
}
