package melc

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func testBank(t *testing.T) Bank {
	t.Helper()
	records, err := SeedRecords()
	if err != nil {
		t.Fatalf("SeedRecords: %v", err)
	}
	b, err := NewMemoryBank(records)
	if err != nil {
		t.Fatalf("NewMemoryBank: %v", err)
	}
	return b
}

func TestSeedRecordsValid(t *testing.T) {
	records, err := SeedRecords()
	if err != nil {
		t.Fatalf("SeedRecords: %v", err)
	}
	if len(records) == 0 {
		t.Fatal("seed is empty")
	}
	seen := map[string]bool{}
	for _, c := range records {
		if seen[c.Code] {
			t.Errorf("duplicate code %s", c.Code)
		}
		seen[c.Code] = true
	}
}

func TestBankNavigation(t *testing.T) {
	ctx := context.Background()
	b := testBank(t)

	subjects, err := b.Subjects(ctx)
	if err != nil {
		t.Fatalf("Subjects: %v", err)
	}
	if want := []string{"English", "Mathematics", "Science"}; !reflect.DeepEqual(subjects, want) {
		t.Errorf("Subjects = %v, want %v", subjects, want)
	}

	grades, err := b.Grades(ctx, "Mathematics")
	if err != nil {
		t.Fatalf("Grades: %v", err)
	}
	if want := []int{7, 8}; !reflect.DeepEqual(grades, want) {
		t.Errorf("Grades = %v, want %v", grades, want)
	}

	quarters, err := b.Quarters(ctx, "Mathematics", 7)
	if err != nil {
		t.Fatalf("Quarters: %v", err)
	}
	if want := []int{1, 2}; !reflect.DeepEqual(quarters, want) {
		t.Errorf("Quarters = %v, want %v", quarters, want)
	}
}

func TestBankFilterPreservesOrder(t *testing.T) {
	ctx := context.Background()
	b := testBank(t)

	got, err := b.Filter(ctx, "Science", 8, 3)
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	codes := make([]string, len(got))
	for i, c := range got {
		codes[i] = c.Code
	}
	want := []string{"S8FE-IIIa-15", "S8FE-IIIb-16", "S8FE-IIIc-17"}
	if !reflect.DeepEqual(codes, want) {
		t.Errorf("Filter codes = %v, want %v", codes, want)
	}

	empty, err := b.Filter(ctx, "Science", 7, 1)
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("Filter on unseeded slot = %v, want empty", empty)
	}
}

func TestBankGet(t *testing.T) {
	ctx := context.Background()
	b := testBank(t)

	c, err := b.Get(ctx, "M7NS-Ia-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if c.Subject != "Mathematics" || c.Grade != 7 || c.Sessions <= 0 {
		t.Errorf("unexpected record %+v", c)
	}

	if _, err := b.Get(ctx, "NOPE-404"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get missing = %v, want ErrNotFound", err)
	}
}

func TestBankAdd(t *testing.T) {
	ctx := context.Background()
	b := testBank(t)

	custom := Competency{
		Subject:     "Mathematics",
		Grade:       7,
		Quarter:     1,
		Code:        "M7NS-Id-X",
		Description: "Teacher-entered competency.",
		Sessions:    2,
	}
	if err := b.Add(ctx, custom); err != nil {
		t.Fatalf("Add: %v", err)
	}
	got, err := b.Get(ctx, custom.Code)
	if err != nil {
		t.Fatalf("Get after Add: %v", err)
	}
	if !got.Custom {
		t.Error("added competency not flagged custom")
	}

	if err := b.Add(ctx, custom); !IsFieldError(err) {
		t.Errorf("duplicate Add = %v, want field error", err)
	}

	bad := custom
	bad.Code = "M7NS-Id-Y"
	bad.Grade = 12
	if err := b.Add(ctx, bad); !IsFieldError(err) {
		t.Errorf("out-of-range grade Add = %v, want field error", err)
	}
}
