package playbook

import (
	"strings"
	"testing"

	"github.com/sitewell/beacon/internal/fill"
	"github.com/sitewell/beacon/internal/types"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedRegistry(t *testing.T) {
	registry, err := Load()
	require.NoError(t, err, "embedded registry data must pass every self-check")
	require.NotEmpty(t, registry.Entries())

	// The core playbook keys the rest of the pipeline depends on.
	for _, key := range []string{
		"ai_search_readiness.icp_faqs",
		"trust_authority.organization_schema",
		"media_accessibility.image_alt_text",
		"technical_setup.meta_descriptions",
	} {
		require.NotNil(t, registry.Get(key), "missing entry %s", key)
	}
}

func TestRegistryCoversAllPillars(t *testing.T) {
	registry, err := Load()
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, e := range registry.Entries() {
		seen[e.Pillar()] = true
	}
	for _, pillar := range types.Pillars {
		if !seen[pillar] {
			t.Errorf("no playbook entry for pillar %s", pillar)
		}
	}
}

func TestLookupLooseSpellings(t *testing.T) {
	registry, err := Load()
	require.NoError(t, err)

	tests := []struct {
		loose   string
		hint    string
		wantKey string
	}{
		{"ai_search_readiness.icp_faqs", "", "ai_search_readiness.icp_faqs"},
		{"faqCoverageScore", "", "ai_search_readiness.icp_faqs"},
		{"imageAltText", "media_accessibility", "media_accessibility.image_alt_text"},
		{"no_such_subfactor_at_all", "", ""},
	}
	for _, tt := range tests {
		entry := registry.Lookup(tt.loose, tt.hint)
		switch {
		case tt.wantKey == "" && entry != nil:
			t.Errorf("Lookup(%q) = %s, want nil", tt.loose, entry.Key)
		case tt.wantKey != "" && entry == nil:
			t.Errorf("Lookup(%q) = nil, want %s", tt.loose, tt.wantKey)
		case tt.wantKey != "" && entry.Key != tt.wantKey:
			t.Errorf("Lookup(%q) = %s, want %s", tt.loose, entry.Key, tt.wantKey)
		}
	}
}

func TestTargetLevelDefaultsToSite(t *testing.T) {
	registry, err := Load()
	require.NoError(t, err)

	if got := registry.TargetLevel("no_such.key"); got != types.TargetSite {
		t.Errorf("unknown key target level = %s, want site", got)
	}
	// Organization schema is a site-wide concern.
	if got := registry.TargetLevel("trust_authority.organization_schema"); got != types.TargetSite {
		t.Errorf("organization_schema target level = %s", got)
	}
}

// Resolving every entry's templates in every state against an empty
// context must never leak template syntax. This is the same scan the
// lint command runs in CI.
func TestTemplatesNeverLeak(t *testing.T) {
	registry, err := Load()
	require.NoError(t, err)

	states := []types.DetectionState{
		types.StateNotFound, types.StatePartial, types.StateContentNoSchema,
		types.StateSchemaInvalid, types.StateWeak, types.StateBlocking,
	}
	empty := &fill.Context{}
	for _, entry := range registry.Entries() {
		for _, state := range states {
			fields := []string{
				fill.Resolve(entry.Finding, state, empty),
				fill.Resolve(entry.WhyItMatters, state, empty),
				fill.Resolve(entry.Recommendation, state, empty),
				fill.Resolve(entry.WhatToInclude, state, empty),
			}
			fields = append(fields, fill.ResolveList(entry.ActionItems, state, empty)...)
			for _, v := range fill.CheckAll(fields...) {
				t.Errorf("%s [%s]: %s", entry.Key, state, v)
			}
		}
	}
}

func TestGenerateEntriesDeclareHooks(t *testing.T) {
	registry, err := Load()
	require.NoError(t, err)

	for _, entry := range registry.Entries() {
		if entry.Automation == types.AutomationGenerate && entry.GeneratorHook == "" {
			t.Errorf("%s: generate automation without generator_hook", entry.Key)
		}
		for _, sel := range entry.EvidenceSelectors {
			if strings.TrimSpace(sel) == "" {
				t.Errorf("%s: blank evidence selector", entry.Key)
			}
		}
	}
}

func TestEntryValidate(t *testing.T) {
	valid := func() *Entry {
		return &Entry{
			Key:               "technical_setup.meta_descriptions",
			Category:          "Technical Setup",
			Gap:               "Missing meta descriptions",
			Priority:          types.PriorityP1,
			Effort:            "low",
			Impact:            types.ImpactMedium,
			Automation:        types.AutomationDraft,
			EvidenceSelectors: []string{"meta.description"},
			Finding:           fill.Plain("finding"),
			WhyItMatters:      fill.Plain("why"),
			Recommendation:    fill.Plain("rec"),
			WhatToInclude:     fill.Plain("include"),
			ActionItems:       []fill.Template{fill.Plain("step")},
		}
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("valid entry rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Entry)
	}{
		{"undotted key", func(e *Entry) { e.Key = "meta_descriptions" }},
		{"unknown pillar", func(e *Entry) { e.Key = "made_up_pillar.thing" }},
		{"bad priority", func(e *Entry) { e.Priority = "P9" }},
		{"generate without hook", func(e *Entry) { e.Automation = types.AutomationGenerate }},
		{"no selectors", func(e *Entry) { e.EvidenceSelectors = nil }},
		{"missing finding", func(e *Entry) { e.Finding = fill.Template{} }},
		{"no action items", func(e *Entry) { e.ActionItems = nil }},
		{"bad rule op", func(e *Entry) { e.Disqualifiers = []Rule{{Path: "x", Op: "wat"}} }},
		{"eq rule without value", func(e *Entry) { e.AmbiguityRules = []Rule{{Path: "x", Op: "eq"}} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid()
			tt.mutate(e)
			if err := e.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
