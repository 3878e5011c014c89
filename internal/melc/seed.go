package melc

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed seed.json
var seedJSON []byte

// SeedRecords parses the bundled MELC bank. Codes come from the published
// DepEd MELC lists; session weights are typical pacing-guide values and can
// be overridden per request.
func SeedRecords() ([]Competency, error) {
	var out []Competency
	if err := json.Unmarshal(seedJSON, &out); err != nil {
		return nil, fmt.Errorf("parse melc seed: %w", err)
	}
	for _, c := range out {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("melc seed %s: %w", c.Code, err)
		}
	}
	return out, nil
}
