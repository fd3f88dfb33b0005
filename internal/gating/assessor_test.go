package gating

import (
	"testing"

	"github.com/sitewell/beacon/internal/evidence"
	"github.com/sitewell/beacon/internal/fill"
	"github.com/sitewell/beacon/internal/playbook"
	"github.com/sitewell/beacon/internal/types"
)

func faqEntry() *playbook.Entry {
	return &playbook.Entry{
		Key:        "ai_search_readiness.icp_faqs",
		Category:   "AI Search Readiness",
		Gap:        "Missing FAQ coverage",
		Priority:   types.PriorityP0,
		Impact:     types.ImpactHigh,
		Automation: types.AutomationGenerate,
		EvidenceSelectors: []string{
			"content.faqs", "schema.hasFAQPage", "content.faqPageLink", "url",
		},
		MinEvidence:    []string{"content.faqs", "schema.hasFAQPage"},
		Finding:        fill.Plain("f"),
		WhyItMatters:   fill.Plain("w"),
		Recommendation: fill.Plain("r"),
		WhatToInclude:  fill.Plain("i"),
		ActionItems:    []fill.Template{fill.Plain("a")},
	}
}

func TestAssessCoverageTiers(t *testing.T) {
	entry := faqEntry()
	rctx := &types.RenderContext{}

	tests := []struct {
		name string
		doc  string
		want types.EvidenceQuality
	}{
		{
			"all min paths present",
			`{"content": {"faqs": [{"question": "What is pricing?", "answer": "See plans."}], "faqPageLink": "/faq"}, "schema": {"hasFAQPage": true}}`,
			types.QualityStrong,
		},
		{
			"half of min paths present",
			`{"schema": {"hasFAQPage": false}}`,
			types.QualityMedium,
		},
		{
			"no paths present",
			`{}`,
			types.QualityWeak,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Assess(evidence.FromString(tt.doc), entry, rctx)
			if got.Quality != tt.want {
				t.Errorf("quality = %s, want %s (summary: %s)", got.Quality, tt.want, got.Summary)
			}
			if got.Confidence < 0 || got.Confidence > 1 {
				t.Errorf("confidence %v out of range", got.Confidence)
			}
		})
	}
}

func TestAssessDisqualifierWins(t *testing.T) {
	entry := faqEntry()
	entry.Disqualifiers = []playbook.Rule{
		{Path: "schema.parseErrors", Op: "present", Reason: "schema block failed to parse"},
	}

	doc := `{"schema": {"parseErrors": ["bad json-ld"], "hasFAQPage": true}, "content": {"faqs": [{"question": "What is pricing?", "answer": "x"}], "faqPageLink": "/faq"}}`
	got := Assess(evidence.FromString(doc), entry, &types.RenderContext{})
	if got.Quality != types.QualityAmbiguous {
		t.Errorf("quality = %s, want ambiguous", got.Quality)
	}
	if got.Summary != "schema block failed to parse" {
		t.Errorf("summary = %q", got.Summary)
	}
}

func TestAssessFAQNavToggleSuspicion(t *testing.T) {
	// Half or more of the candidate questions reading like UI chrome
	// forces ambiguity regardless of coverage.
	doc := `{
		"schema": {"hasFAQPage": true},
		"content": {"faqs": [
			{"question": "Open Mobile Menu", "answer": ""},
			{"question": "Show More", "answer": ""},
			{"question": "What integrations do you support?", "answer": "Many."}
		]}
	}`
	got := Assess(evidence.FromString(doc), faqEntry(), &types.RenderContext{})
	if got.Quality != types.QualityAmbiguous {
		t.Errorf("quality = %s, want ambiguous (summary: %s)", got.Quality, got.Summary)
	}
}

func TestAssessFAQUncorroborated(t *testing.T) {
	// Real-looking questions, but no FAQ page link and no FAQ schema.
	doc := `{"content": {"faqs": [
		{"question": "What does onboarding look like?", "answer": "Two weeks."},
		{"question": "Can I export my data at any time?", "answer": "Yes."}
	]}}`
	got := Assess(evidence.FromString(doc), faqEntry(), &types.RenderContext{})
	if got.Quality != types.QualityAmbiguous {
		t.Errorf("quality = %s, want ambiguous (summary: %s)", got.Quality, got.Summary)
	}
}

func TestAssessContextPromotesBorderline(t *testing.T) {
	entry := faqEntry()
	entry.MinEvidence = []string{"content.faqs", "schema.hasFAQPage", "content.faqPageLink", "url", "meta.title"}
	// Two of five paths: ratio 0.4, weak without context.
	doc := `{"url": "https://example.com", "meta": {"title": "Home"}}`

	plain := Assess(evidence.FromString(doc), entry, &types.RenderContext{})
	if plain.Quality != types.QualityWeak {
		t.Fatalf("without context: quality = %s, want weak", plain.Quality)
	}

	withAudience := Assess(evidence.FromString(doc), entry, &types.RenderContext{
		TargetRoles: []string{"platform engineers"},
	})
	if withAudience.Quality != types.QualityMedium {
		t.Errorf("with audience context: quality = %s, want medium", withAudience.Quality)
	}
	if withAudience.Confidence <= plain.Confidence {
		t.Errorf("context should raise confidence: %v <= %v", withAudience.Confidence, plain.Confidence)
	}
}

func TestDowngradeAutomation(t *testing.T) {
	tests := []struct {
		level   types.AutomationLevel
		quality types.EvidenceQuality
		want    types.AutomationLevel
	}{
		{types.AutomationGenerate, types.QualityStrong, types.AutomationGenerate},
		{types.AutomationGenerate, types.QualityMedium, types.AutomationGenerate},
		{types.AutomationGenerate, types.QualityWeak, types.AutomationDraft},
		{types.AutomationGenerate, types.QualityAmbiguous, types.AutomationGuide},
		{types.AutomationDraft, types.QualityAmbiguous, types.AutomationManual},
		{types.AutomationGuide, types.QualityWeak, types.AutomationManual},
		{types.AutomationManual, types.QualityAmbiguous, types.AutomationManual},
	}
	for _, tt := range tests {
		if got := DowngradeAutomation(tt.level, tt.quality); got != tt.want {
			t.Errorf("DowngradeAutomation(%s, %s) = %s, want %s", tt.level, tt.quality, got, tt.want)
		}
	}
}

// Strong evidence must never raise the authored level.
func TestDowngradeNeverUpgrades(t *testing.T) {
	for _, level := range []types.AutomationLevel{
		types.AutomationGenerate, types.AutomationDraft, types.AutomationGuide, types.AutomationManual,
	} {
		for _, quality := range []types.EvidenceQuality{
			types.QualityStrong, types.QualityMedium, types.QualityWeak, types.QualityAmbiguous,
		} {
			got := DowngradeAutomation(level, quality)
			if got.Rank() > level.Rank() {
				t.Errorf("(%s, %s) upgraded to %s", level, quality, got)
			}
		}
	}
}
