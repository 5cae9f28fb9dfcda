package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// countText decodes a count given either as a JSON string or a JSON number,
// keeping the text as written.
type countText string

func (c *countText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = countText(s)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("count must be a number or string: %s", b)
		}
		*c = countText(n.String())
	}
	return nil
}

// UnmarshalJSON accepts numeric or string counts.
func (t *TestCounts) UnmarshalJSON(b []byte) error {
	var aux struct {
		Total    countText `json:"totalTests"`
		Executed countText `json:"testsExecuted"`
		Passed   countText `json:"testsPassed"`
		Failed   countText `json:"testsFailed"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*t = TestCounts{
		Total:    string(aux.Total),
		Executed: string(aux.Executed),
		Passed:   string(aux.Passed),
		Failed:   string(aux.Failed),
	}
	return nil
}

// UnmarshalJSON accepts numeric or string counts.
func (p *PriorityCounts) UnmarshalJSON(b []byte) error {
	var aux struct {
		P0 countText `json:"p0"`
		P1 countText `json:"p1"`
		P2 countText `json:"p2"`
		P3 countText `json:"p3"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*p = PriorityCounts{P0: string(aux.P0), P1: string(aux.P1), P2: string(aux.P2), P3: string(aux.P3)}
	return nil
}

// UnmarshalJSON accepts numeric or string counts.
func (s *SeverityCounts) UnmarshalJSON(b []byte) error {
	var aux struct {
		S0 countText `json:"s0"`
		S1 countText `json:"s1"`
		S2 countText `json:"s2"`
		S3 countText `json:"s3"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*s = SeverityCounts{S0: string(aux.S0), S1: string(aux.S1), S2: string(aux.S2), S3: string(aux.S3)}
	return nil
}
