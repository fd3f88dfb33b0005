package types

import (
	"encoding/json"
	"fmt"
)

// ScoringResult is the output of the (external) rubric engine: per-pillar
// category scores with per-subfactor scores from 0 to 100. This core only
// reads it.
type ScoringResult struct {
	Categories map[string]CategoryScore `json:"categories"`
}

// CategoryScore holds one pillar's aggregate score and its subfactors.
type CategoryScore struct {
	Score      float64                   `json:"score"`
	Subfactors map[string]SubfactorScore `json:"subfactors"`
}

// SubfactorScore accepts the three historical wire shapes of a subfactor
// value: a bare number, an object {"score": n, "state": "..."}, or null.
// Null and state "unmeasured" both mean the subfactor was not measured;
// unmeasured subfactors never produce recommendations.
type SubfactorScore struct {
	Score    float64
	Measured bool
	State    string
}

// UnmarshalJSON implements the three-shape contract.
func (s *SubfactorScore) UnmarshalJSON(data []byte) error {
	*s = SubfactorScore{}

	// null ⇒ unmeasured
	if string(data) == "null" {
		return nil
	}

	// Bare number
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		s.Score = n
		s.Measured = true
		return nil
	}

	// Object shape
	var obj struct {
		Score *float64 `json:"score"`
		State string   `json:"state"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("subfactor score must be a number, object, or null: %w", err)
	}
	s.State = obj.State
	if obj.Score == nil || obj.State == "unmeasured" || obj.State == "not_applicable" {
		return nil
	}
	s.Score = *obj.Score
	s.Measured = true
	return nil
}

// MarshalJSON writes the object shape, preserving unmeasured as null.
func (s SubfactorScore) MarshalJSON() ([]byte, error) {
	if !s.Measured {
		return []byte("null"), nil
	}
	if s.State == "" {
		return json.Marshal(s.Score)
	}
	return json.Marshal(struct {
		Score float64 `json:"score"`
		State string  `json:"state"`
	}{s.Score, s.State})
}
