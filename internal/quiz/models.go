package quiz

import (
	"context"
	"fmt"

	"github.com/bayanihan-edu/tosforge/internal/tos"
)

// Draft is one written-out test item: the stem shown to students and the
// answer-key entry (sample answer or rubric) shown to the teacher.
type Draft struct {
	Number  int      `json:"number"`
	Prompt  string   `json:"prompt"`
	Choices []string `json:"choices,omitempty"` // multiple choice only
	Answer  string   `json:"answer"`
	Points  int      `json:"points"`
}

// Request carries everything a provider needs to draft items.
type Request struct {
	Subject string
	Grade   int
	Quarter int
	Items   []tos.Item
}

// Provider drafts quiz items from an item plan, typically over the network.
// Implementations must honor ctx cancellation and deadlines.
type Provider interface {
	Name() string
	Draft(ctx context.Context, req Request) ([]Draft, error)
}

// ProviderError wraps any failure on the AI path: network, auth, or a
// response that could not be parsed. It is non-fatal; callers fall back to
// template drafts.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

func providerErr(name string, err error) error {
	return &ProviderError{Provider: name, Err: err}
}
