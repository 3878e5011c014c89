package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/bayanihan-edu/tosforge/internal/melc"
	"github.com/bayanihan-edu/tosforge/internal/metrics"
	"github.com/bayanihan-edu/tosforge/internal/tos"
)

// AllocationInput is the part of the form that drives the allocator.
type AllocationInput struct {
	Subject         string         `json:"subject"`
	Grade           int            `json:"grade"`
	Quarter         int            `json:"quarter"`
	CompetencyCodes []string       `json:"competency_codes"`
	TotalItems      int            `json:"total_items"`
	LevelWeights    []float64      `json:"level_weights,omitempty"`    // six values; omit for the default profile
	SessionOverride map[string]int `json:"session_override,omitempty"` // code -> sessions, overrides bank values
}

// resolve turns submitted codes into an AllocationRequest using the bank's
// records for descriptions and session weights.
func resolve(ctx context.Context, bank melc.Bank, in AllocationInput) (tos.AllocationRequest, error) {
	req := tos.AllocationRequest{TotalItems: in.TotalItems, Profile: tos.DefaultProfile()}

	if len(in.LevelWeights) > 0 {
		if len(in.LevelWeights) != tos.NumLevels {
			return req, &tos.InvalidRequestError{
				Reason: fmt.Sprintf("level_weights needs %d values, got %d", tos.NumLevels, len(in.LevelWeights)),
			}
		}
		copy(req.Profile[:], in.LevelWeights)
	}

	for _, code := range in.CompetencyCodes {
		rec, err := bank.Get(ctx, code)
		if err != nil {
			return req, fmt.Errorf("competency %s: %w", code, err)
		}
		sessions := rec.Sessions
		if n, ok := in.SessionOverride[code]; ok {
			sessions = n
		}
		req.Competencies = append(req.Competencies, tos.Competency{
			Code:        rec.Code,
			Description: rec.Description,
			Sessions:    sessions,
		})
	}
	return req, nil
}

// POST /api/tos previews the allocation without producing a document.
func PreviewTOSHandler(bank melc.Bank) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in AllocationInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		req, err := resolve(r.Context(), bank, in)
		if err != nil {
			writeError(w, err)
			return
		}
		rows, err := tos.Allocate(req)
		if err != nil {
			metrics.RecordAllocation("invalid")
			writeError(w, err)
			return
		}
		metrics.RecordAllocation("ok")
		items := tos.Items(rows)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"rows":         rows,
			"items":        items,
			"total_items":  in.TotalItems,
			"total_points": tos.TotalPoints(items),
		})
	}
}
