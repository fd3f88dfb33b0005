package types

import (
	"encoding/json"
	"testing"
)

// The three historical wire shapes of a subfactor value must all parse.
func TestSubfactorScoreUnmarshal(t *testing.T) {
	tests := []struct {
		name         string
		in           string
		wantScore    float64
		wantMeasured bool
	}{
		{"bare number", `62.5`, 62.5, true},
		{"object", `{"score": 40, "state": "weak"}`, 40, true},
		{"null", `null`, 0, false},
		{"object unmeasured", `{"score": 0, "state": "unmeasured"}`, 0, false},
		{"object not applicable", `{"score": 55, "state": "not_applicable"}`, 0, false},
		{"object without score", `{"state": "weak"}`, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s SubfactorScore
			if err := json.Unmarshal([]byte(tt.in), &s); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if s.Score != tt.wantScore || s.Measured != tt.wantMeasured {
				t.Errorf("got score=%v measured=%v, want score=%v measured=%v",
					s.Score, s.Measured, tt.wantScore, tt.wantMeasured)
			}
		})
	}

	var s SubfactorScore
	if err := json.Unmarshal([]byte(`"sixty"`), &s); err == nil {
		t.Error("string shape should be rejected")
	}
}

func TestSubfactorScoreMarshal(t *testing.T) {
	unmeasured, err := json.Marshal(SubfactorScore{})
	if err != nil {
		t.Fatal(err)
	}
	if string(unmeasured) != "null" {
		t.Errorf("unmeasured marshals as %s, want null", unmeasured)
	}

	bare, err := json.Marshal(SubfactorScore{Score: 62.5, Measured: true})
	if err != nil {
		t.Fatal(err)
	}
	if string(bare) != "62.5" {
		t.Errorf("stateless score marshals as %s, want 62.5", bare)
	}
}

func TestScoringResultParsesMixedShapes(t *testing.T) {
	doc := `{
		"categories": {
			"ai_search_readiness": {
				"score": 48,
				"subfactors": {
					"icp_faqs": 30,
					"llms_txt": {"score": 60, "state": "weak"},
					"answer_blocks": null
				}
			}
		}
	}`
	var result ScoringResult
	if err := json.Unmarshal([]byte(doc), &result); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	cat, ok := result.Categories["ai_search_readiness"]
	if !ok {
		t.Fatal("category missing")
	}
	if cat.Score != 48 {
		t.Errorf("category score = %v", cat.Score)
	}
	if sf := cat.Subfactors["icp_faqs"]; !sf.Measured || sf.Score != 30 {
		t.Errorf("icp_faqs = %+v", sf)
	}
	if sf := cat.Subfactors["llms_txt"]; !sf.Measured || sf.Score != 60 || sf.State != "weak" {
		t.Errorf("llms_txt = %+v", sf)
	}
	if sf := cat.Subfactors["answer_blocks"]; sf.Measured {
		t.Errorf("null subfactor should be unmeasured, got %+v", sf)
	}
}
