package quiz

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/bayanihan-edu/tosforge/internal/tos"
)

const draftSystemPrompt = `You are an experienced Filipino public-school teacher writing classroom assessment items aligned with DepEd Most Essential Learning Competencies (MELCs).

Write one item per slot in the plan you are given. Respect each slot's cognitive level, item type, and point value:
- multiple_choice: one stem plus four options labeled A-D, exactly one correct; answer is the correct letter.
- short_answer: a 2-3 sentence constructed response; answer is a sample full-credit response.
- essay: an extended task; answer is a short scoring rubric totaling the point value.

Respond with a JSON array only, no prose, one object per slot:
[{"number": 1, "prompt": "...", "choices": ["A. ...","B. ...","C. ...","D. ..."], "answer": "...", "points": 1}]
Omit "choices" for non-multiple-choice items. Use the same "number" and "points" as the plan.`

func buildDraftPrompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Subject: %s\nGrade Level: Grade %d\nQuarter: %d\n\n", req.Subject, req.Grade, req.Quarter)

	b.WriteString("Competencies covered:\n")
	for _, c := range uniqueCompetencies(req.Items) {
		fmt.Fprintf(&b, "- %s: %s\n", c.Code, c.Description)
	}

	b.WriteString("\nItem plan:\n")
	for _, it := range req.Items {
		fmt.Fprintf(&b, "%d. level=%s type=%s points=%d competency=%s\n",
			it.Number, strings.ToLower(it.Level.String()), it.Type, it.Points, it.Competency.Code)
	}
	return b.String()
}

func uniqueCompetencies(items []tos.Item) []tos.Competency {
	seen := map[string]bool{}
	var out []tos.Competency
	for _, it := range items {
		if !seen[it.Competency.Code] {
			seen[it.Competency.Code] = true
			out = append(out, it.Competency)
		}
	}
	return out
}

// parseDrafts decodes a model response into drafts. Models often wrap JSON in
// a markdown code fence; strip it before decoding.
func parseDrafts(text string) ([]Draft, error) {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
		cleaned = strings.TrimSpace(cleaned)
	}

	var drafts []Draft
	if err := json.Unmarshal([]byte(cleaned), &drafts); err != nil {
		return nil, fmt.Errorf("parsing draft response: %w", err)
	}
	if len(drafts) == 0 {
		return nil, fmt.Errorf("draft response contained no items")
	}
	sort.SliceStable(drafts, func(a, b int) bool { return drafts[a].Number < drafts[b].Number })
	return drafts, nil
}

// Merge lines provider drafts up against the item plan. Every planned item
// gets exactly one draft: the provider's when present and numbered, the
// template fallback otherwise. Point values always come from the plan.
func Merge(items []tos.Item, provider []Draft, fallback []Draft) []Draft {
	byNumber := make(map[int]Draft, len(provider))
	for _, d := range provider {
		if _, dup := byNumber[d.Number]; !dup {
			byNumber[d.Number] = d
		}
	}
	out := make([]Draft, len(items))
	for i, it := range items {
		d, ok := byNumber[it.Number]
		if !ok || strings.TrimSpace(d.Prompt) == "" {
			d = fallback[i]
		}
		d.Number = it.Number
		d.Points = it.Points
		out[i] = d
	}
	return out
}
