package melc

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

var ErrNotFound = errors.New("competency not found")

type fieldError struct{ msg string }

func (e *fieldError) Error() string { return e.msg }

func errField(msg string) error { return &fieldError{msg: msg} }

// IsFieldError reports whether err describes invalid competency input rather
// than a storage failure.
func IsFieldError(err error) bool {
	var fe *fieldError
	return errors.As(err, &fe)
}

// Bank is the read-mostly MELC lookup. Seeded rows never change; Add only
// accepts teacher-entered custom entries.
type Bank interface {
	Subjects(ctx context.Context) ([]string, error)
	Grades(ctx context.Context, subject string) ([]int, error)
	Quarters(ctx context.Context, subject string, grade int) ([]int, error)
	Filter(ctx context.Context, subject string, grade, quarter int) ([]Competency, error)
	Get(ctx context.Context, code string) (Competency, error)
	Add(ctx context.Context, c Competency) error
}

type memoryBank struct {
	mu     sync.RWMutex
	byCode map[string]Competency
	order  []string
}

// NewMemoryBank builds an in-memory bank from the given records, preserving
// their order. Useful for tests and for running without a database.
func NewMemoryBank(records []Competency) (Bank, error) {
	b := &memoryBank{byCode: make(map[string]Competency, len(records))}
	for _, c := range records {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("competency %s: %w", c.Code, err)
		}
		if _, dup := b.byCode[c.Code]; dup {
			return nil, fmt.Errorf("duplicate competency code %s", c.Code)
		}
		b.byCode[c.Code] = c
		b.order = append(b.order, c.Code)
	}
	return b, nil
}

func (b *memoryBank) Subjects(ctx context.Context) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	seen := map[string]bool{}
	var out []string
	for _, code := range b.order {
		s := b.byCode[code].Subject
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (b *memoryBank) Grades(ctx context.Context, subject string) ([]int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	seen := map[int]bool{}
	var out []int
	for _, code := range b.order {
		c := b.byCode[code]
		if c.Subject == subject && !seen[c.Grade] {
			seen[c.Grade] = true
			out = append(out, c.Grade)
		}
	}
	sort.Ints(out)
	return out, nil
}

func (b *memoryBank) Quarters(ctx context.Context, subject string, grade int) ([]int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	seen := map[int]bool{}
	var out []int
	for _, code := range b.order {
		c := b.byCode[code]
		if c.Subject == subject && c.Grade == grade && !seen[c.Quarter] {
			seen[c.Quarter] = true
			out = append(out, c.Quarter)
		}
	}
	sort.Ints(out)
	return out, nil
}

func (b *memoryBank) Filter(ctx context.Context, subject string, grade, quarter int) ([]Competency, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []Competency
	for _, code := range b.order {
		c := b.byCode[code]
		if c.Subject == subject && c.Grade == grade && c.Quarter == quarter {
			out = append(out, c)
		}
	}
	return out, nil
}

func (b *memoryBank) Get(ctx context.Context, code string) (Competency, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	c, ok := b.byCode[code]
	if !ok {
		return Competency{}, ErrNotFound
	}
	return c, nil
}

func (b *memoryBank) Add(ctx context.Context, c Competency) error {
	if err := c.Validate(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, dup := b.byCode[c.Code]; dup {
		return errField("code already exists")
	}
	c.Custom = true
	b.byCode[c.Code] = c
	b.order = append(b.order, c.Code)
	return nil
}
