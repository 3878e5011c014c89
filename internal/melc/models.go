package melc

// Competency is one Most Essential Learning Competency (MELC) entry in the
// bank. Records are immutable once loaded; teacher-entered entries are
// flagged Custom.
type Competency struct {
	Subject     string `json:"subject"`
	Grade       int    `json:"grade"`   // 7..10
	Quarter     int    `json:"quarter"` // 1..4
	Code        string `json:"code"`
	Description string `json:"description"`
	Sessions    int    `json:"sessions"` // relative weight: class sessions taught
	Custom      bool   `json:"custom,omitempty"`
}

const (
	MinGrade   = 7
	MaxGrade   = 10
	MinQuarter = 1
	MaxQuarter = 4
)

// Validate checks a competency before it enters the bank.
func (c Competency) Validate() error {
	switch {
	case c.Subject == "":
		return errField("subject is required")
	case c.Grade < MinGrade || c.Grade > MaxGrade:
		return errField("grade must be between 7 and 10")
	case c.Quarter < MinQuarter || c.Quarter > MaxQuarter:
		return errField("quarter must be between 1 and 4")
	case c.Code == "":
		return errField("code is required")
	case c.Description == "":
		return errField("description is required")
	case c.Sessions <= 0:
		return errField("sessions must be positive")
	}
	return nil
}
