package tos

// Level is one of the six Bloom cognitive levels, in canonical order.
type Level int

const (
	Remembering Level = iota
	Understanding
	Applying
	Analyzing
	Evaluating
	Creating

	NumLevels = 6
)

var levelNames = [NumLevels]string{
	"Remembering", "Understanding", "Applying", "Analyzing", "Evaluating", "Creating",
}

func (l Level) String() string {
	if l < 0 || int(l) >= NumLevels {
		return "Unknown"
	}
	return levelNames[l]
}

// Levels returns the six cognitive levels in canonical order.
func Levels() [NumLevels]Level {
	return [NumLevels]Level{Remembering, Understanding, Applying, Analyzing, Evaluating, Creating}
}

// Profile is the fractional weight assigned to each cognitive level.
// A valid profile is non-negative and sums to 1.0 within ProfileTolerance.
type Profile [NumLevels]float64

// ProfileTolerance is how far the six level weights may drift from 1.0.
const ProfileTolerance = 1e-6

// DefaultProfile is the standard DepEd exam distribution.
func DefaultProfile() Profile {
	return Profile{0.20, 0.20, 0.25, 0.15, 0.10, 0.10}
}

// ItemType classifies a test item by answer format.
type ItemType string

const (
	MultipleChoice ItemType = "multiple_choice"
	ShortAnswer    ItemType = "short_answer"
	Essay          ItemType = "essay"
)

// Label returns the human-readable item type name used in the document.
func (t ItemType) Label() string {
	switch t {
	case MultipleChoice:
		return "Multiple Choice"
	case ShortAnswer:
		return "Short Answer"
	case Essay:
		return "Essay"
	}
	return string(t)
}

// TypeForLevel maps a cognitive level to its answer format.
func TypeForLevel(l Level) ItemType {
	switch l {
	case Remembering, Understanding:
		return MultipleChoice
	case Applying, Analyzing:
		return ShortAnswer
	default:
		return Essay
	}
}

// PointsFor returns the point value of an item type.
func PointsFor(t ItemType) int {
	switch t {
	case MultipleChoice:
		return 1
	case ShortAnswer:
		return 2
	case Essay:
		return 5
	}
	return 1
}

// Competency is the slice of a MELC the allocator needs: an identity and a
// relative weight (number of class sessions spent on it).
type Competency struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Sessions    int    `json:"sessions"`
}

// AllocationRequest asks for a TOS covering the given competencies.
type AllocationRequest struct {
	TotalItems   int          `json:"total_items"`
	Competencies []Competency `json:"competencies"`
	Profile      Profile      `json:"profile"`
}

// Row is one line of the Table of Specifications: a competency, how many
// items it gets, and how those items break down across cognitive levels.
type Row struct {
	Competency Competency     `json:"competency"`
	Count      int            `json:"count"`
	ByLevel    [NumLevels]int `json:"by_level"`
}

// Item is a single numbered slot in the assessment plan.
type Item struct {
	Number     int        `json:"number"`
	Level      Level      `json:"level"`
	Competency Competency `json:"competency"`
	Type       ItemType   `json:"type"`
	Points     int        `json:"points"`
}
