package export

import (
	"bytes"
	"testing"

	"github.com/bayanihan-edu/tosforge/internal/quiz"
	"github.com/bayanihan-edu/tosforge/internal/tos"
)

func sampleMeta() Metadata {
	return Metadata{
		School:  "Tiring National High School",
		Teacher: "Juan Dela Cruz",
		Date:    "2026-08-30",
		Subject: "Science",
		Grade:   8,
		Quarter: 3,
	}
}

func samplePlan(t *testing.T) ([]tos.Item, []quiz.Draft) {
	t.Helper()
	rows, err := tos.Allocate(tos.AllocationRequest{
		TotalItems: 10,
		Competencies: []tos.Competency{
			{Code: "S8FE-IIIa-15", Description: "Explain how different types of waves form and behave.", Sessions: 5},
			{Code: "S8FE-IIIb-16", Description: "Describe how waves carry energy.", Sessions: 3},
		},
		Profile: tos.DefaultProfile(),
	})
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	items := tos.Items(rows)
	return items, quiz.NewGenerator().Draft(items)
}

func TestFilename(t *testing.T) {
	cases := []struct {
		meta Metadata
		want string
	}{
		{sampleMeta(), "TOS_Quiz_Grade8_Science_Q3.docx"},
		{Metadata{Subject: "Araling Panlipunan", Grade: 10, Quarter: 1}, "TOS_Quiz_Grade10_Araling_Panlipunan_Q1.docx"},
	}
	for _, tc := range cases {
		if got := Filename(tc.meta); got != tc.want {
			t.Errorf("Filename(%+v) = %q, want %q", tc.meta, got, tc.want)
		}
	}
}

func TestWriteProducesDocx(t *testing.T) {
	items, drafts := samplePlan(t)
	var buf bytes.Buffer
	if err := Write(&buf, sampleMeta(), items, drafts); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("empty document")
	}
	// A .docx is a zip archive; check the magic bytes.
	if got := buf.Bytes()[:2]; got[0] != 'P' || got[1] != 'K' {
		t.Errorf("output does not look like a zip: % x", got)
	}
}

func TestWriteRejectsMismatchedDrafts(t *testing.T) {
	items, drafts := samplePlan(t)
	var buf bytes.Buffer
	err := Write(&buf, sampleMeta(), items, drafts[:len(drafts)-1])
	if err == nil {
		t.Fatal("Write succeeded with mismatched drafts")
	}
	if _, ok := err.(*ExportError); !ok {
		t.Errorf("err = %T, want *ExportError", err)
	}
}
