package quiz

import (
	"reflect"
	"strings"
	"testing"

	"github.com/bayanihan-edu/tosforge/internal/tos"
)

func planFor(t *testing.T, total int, weights ...int) []tos.Item {
	t.Helper()
	comps := make([]tos.Competency, len(weights))
	for i, w := range weights {
		comps[i] = tos.Competency{
			Code:        "S8FE-IIIa-1" + string(rune('5'+i)),
			Description: "Explain how different types of waves form and behave.",
			Sessions:    w,
		}
	}
	rows, err := tos.Allocate(tos.AllocationRequest{
		TotalItems:   total,
		Competencies: comps,
		Profile:      tos.DefaultProfile(),
	})
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	return tos.Items(rows)
}

func TestGeneratorCoversPlan(t *testing.T) {
	items := planFor(t, 30, 5, 3, 2)
	drafts := NewGenerator().Draft(items)
	if len(drafts) != len(items) {
		t.Fatalf("len(drafts) = %d, want %d", len(drafts), len(items))
	}
	for i, d := range drafts {
		it := items[i]
		if d.Number != it.Number {
			t.Errorf("draft %d numbered %d", i, d.Number)
		}
		if d.Points != it.Points {
			t.Errorf("draft %d points %d, want %d", d.Number, d.Points, it.Points)
		}
		if strings.TrimSpace(d.Prompt) == "" || strings.TrimSpace(d.Answer) == "" {
			t.Errorf("draft %d has empty prompt or answer", d.Number)
		}
		switch it.Type {
		case tos.MultipleChoice:
			if len(d.Choices) != 4 {
				t.Errorf("draft %d: %d choices, want 4", d.Number, len(d.Choices))
			}
			if d.Answer != "A" {
				t.Errorf("draft %d: answer %q", d.Number, d.Answer)
			}
		default:
			if len(d.Choices) != 0 {
				t.Errorf("draft %d: unexpected choices for %s", d.Number, it.Type)
			}
		}
	}
}

func TestGeneratorDeterministic(t *testing.T) {
	items := planFor(t, 20, 4, 4)
	first := NewGenerator().Draft(items)
	second := NewGenerator().Draft(items)
	if !reflect.DeepEqual(first, second) {
		t.Error("template drafts differ across runs")
	}
}

func TestGeneratorVariesVerbs(t *testing.T) {
	// Ten remembering items on one competency should not all share a stem.
	items := planFor(t, 10, 1)
	var remembering []tos.Item
	for _, it := range items {
		if it.Level == tos.Remembering {
			remembering = append(remembering, it)
		}
	}
	if len(remembering) < 2 {
		t.Skip("plan produced fewer than two remembering items")
	}
	drafts := NewGenerator().Draft(remembering)
	if drafts[0].Prompt == drafts[1].Prompt {
		t.Errorf("consecutive prompts identical: %q", drafts[0].Prompt)
	}
}

func TestVerbForCycles(t *testing.T) {
	if VerbFor(tos.Remembering, 0) != "define" {
		t.Errorf("first remembering verb = %q", VerbFor(tos.Remembering, 0))
	}
	if VerbFor(tos.Remembering, 5) != "define" {
		t.Errorf("verb table does not cycle: %q", VerbFor(tos.Remembering, 5))
	}
}
