package quiz

import (
	"fmt"
	"strings"

	"github.com/bayanihan-edu/tosforge/internal/tos"
)

// Verb tables for item writing, by cognitive level.
var bloomVerbs = map[tos.Level][]string{
	tos.Remembering:   {"define", "list", "name", "recall", "identify"},
	tos.Understanding: {"explain", "describe", "summarize", "paraphrase", "classify"},
	tos.Applying:      {"solve", "use", "apply", "demonstrate", "calculate"},
	tos.Analyzing:     {"compare", "contrast", "categorize", "differentiate", "infer"},
	tos.Evaluating:    {"justify", "assess", "critique", "defend", "recommend"},
	tos.Creating:      {"design", "construct", "develop", "propose", "formulate"},
}

// VerbFor returns the nth writing verb for a level, cycling through the
// table so repeated items on the same competency vary their stems.
func VerbFor(l tos.Level, n int) string {
	verbs := bloomVerbs[l]
	if len(verbs) == 0 {
		return "explain"
	}
	return verbs[n%len(verbs)]
}

// strategy writes one draft for a single planned item.
type strategy interface {
	Draft(item tos.Item, verb string) Draft
}

// Generator produces offline template drafts. It routes each planned item to
// a strategy by item type; no network involved, output is deterministic.
type Generator struct {
	strategies map[tos.ItemType]strategy
}

func NewGenerator() *Generator {
	return &Generator{
		strategies: map[tos.ItemType]strategy{
			tos.MultipleChoice: multipleChoiceStrategy{},
			tos.ShortAnswer:    shortAnswerStrategy{},
			tos.Essay:          essayStrategy{},
		},
	}
}

// Draft writes a template draft for every planned item.
func (g *Generator) Draft(items []tos.Item) []Draft {
	perLevel := map[string]map[tos.Level]int{}
	out := make([]Draft, 0, len(items))
	for _, it := range items {
		if perLevel[it.Competency.Code] == nil {
			perLevel[it.Competency.Code] = map[tos.Level]int{}
		}
		nth := perLevel[it.Competency.Code][it.Level]
		perLevel[it.Competency.Code][it.Level] = nth + 1

		s, ok := g.strategies[it.Type]
		if !ok {
			s = shortAnswerStrategy{}
		}
		out = append(out, s.Draft(it, VerbFor(it.Level, nth)))
	}
	return out
}

func topic(c tos.Competency) string {
	t := strings.TrimSuffix(strings.TrimSpace(c.Description), ".")
	if t == "" {
		return c.Code
	}
	return strings.ToLower(t[:1]) + t[1:]
}

type multipleChoiceStrategy struct{}

func (multipleChoiceStrategy) Draft(it tos.Item, verb string) Draft {
	return Draft{
		Number: it.Number,
		Prompt: fmt.Sprintf("%s the concept targeted by %s: which statement best shows that a learner can %s?",
			capitalize(verb), it.Competency.Code, topic(it.Competency)),
		Choices: []string{
			"A. " + capitalize(topic(it.Competency)),
			"B. A partially correct restatement of the competency.",
			"C. A common misconception about the topic.",
			"D. An unrelated statement.",
		},
		Answer: "A",
		Points: it.Points,
	}
}

type shortAnswerStrategy struct{}

func (shortAnswerStrategy) Draft(it tos.Item, verb string) Draft {
	return Draft{
		Number: it.Number,
		Prompt: fmt.Sprintf("%s, in 2-3 sentences, how you would %s. (%s)",
			capitalize(verb), topic(it.Competency), it.Competency.Code),
		Answer: fmt.Sprintf("[Sample] A complete answer shows the learner can %s, with correct terms and a worked step or example.",
			topic(it.Competency)),
		Points: it.Points,
	}
}

type essayStrategy struct{}

func (essayStrategy) Draft(it tos.Item, verb string) Draft {
	return Draft{
		Number: it.Number,
		Prompt: fmt.Sprintf("%s an original response that shows you can %s. Justify your reasoning. (%s)",
			capitalize(verb), topic(it.Competency), it.Competency.Code),
		Answer: fmt.Sprintf("[Rubric: %d pts] Content %d pts (accurate, complete), Organization 1 pt (logical flow), Mechanics 1 pt (grammar, spelling).",
			it.Points, it.Points-2),
		Points: it.Points,
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
