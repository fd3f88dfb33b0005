// Package playbook holds the static registry behind recommendation
// rendering: one entry per canonical subfactor key, bundling templates,
// ranking metadata, evidence selectors, and gating rules. The registry
// is parsed from embedded YAML once at load, validated, and read-only
// afterward, so unsynchronized concurrent reads are safe.
package playbook

import (
	"fmt"

	"github.com/sitewell/beacon/internal/fill"
	"github.com/sitewell/beacon/internal/keys"
	"github.com/sitewell/beacon/internal/types"
)

// Rule is a declarative evidence predicate used for disqualifiers and
// ambiguity rules. Ops:
//
//	present  path exists with a non-null value
//	absent   path missing or null
//	eq/neq   value comparison (string or number)
//	lt/gte   numeric comparison
//	empty    path missing, null, "", or zero-length array
type Rule struct {
	Path   string `yaml:"path"`
	Op     string `yaml:"op"`
	Value  any    `yaml:"value,omitempty"`
	Reason string `yaml:"reason,omitempty"`
}

// Validate checks the rule's op is known and value-requiring ops have one.
func (r *Rule) Validate() error {
	switch r.Op {
	case "present", "absent", "empty":
		return nil
	case "eq", "neq", "lt", "gte":
		if r.Value == nil {
			return fmt.Errorf("rule %s %s requires a value", r.Path, r.Op)
		}
		return nil
	default:
		return fmt.Errorf("unknown rule op %q", r.Op)
	}
}

// Entry is the static template+metadata bundle behind one canonical key.
type Entry struct {
	Key               string                `yaml:"key"`
	Category          string                `yaml:"category"` // Pillar display name
	Gap               string                `yaml:"gap"`
	Priority          types.Priority        `yaml:"priority"`
	Effort            string                `yaml:"effort"`
	Impact            types.Impact          `yaml:"impact"`
	Automation        types.AutomationLevel `yaml:"automation"`
	GeneratorHook     string                `yaml:"generator_hook,omitempty"`
	EvidenceSelectors []string              `yaml:"evidence_selectors"`
	MinEvidence       []string              `yaml:"min_evidence,omitempty"`
	Disqualifiers     []Rule                `yaml:"disqualifiers,omitempty"`
	AmbiguityRules    []Rule                `yaml:"ambiguity_rules,omitempty"`

	// The five template sections of a rendered recommendation
	Finding        fill.Template   `yaml:"finding"`
	WhyItMatters   fill.Template   `yaml:"why_it_matters"`
	Recommendation fill.Template   `yaml:"recommendation"`
	WhatToInclude  fill.Template   `yaml:"what_to_include"`
	ActionItems    []fill.Template `yaml:"action_items"`
}

// Pillar returns the entry's pillar segment.
func (e *Entry) Pillar() string {
	pillar, _ := keys.SplitKey(e.Key)
	return pillar
}

// Subfactor returns the entry's subfactor segment.
func (e *Entry) Subfactor() string {
	_, sub := keys.SplitKey(e.Key)
	return sub
}

// Validate runs the per-entry registry self-checks.
func (e *Entry) Validate() error {
	pillar, sub := keys.SplitKey(e.Key)
	if sub == "" {
		return fmt.Errorf("key %q is not of pillar.subfactor form", e.Key)
	}
	if !types.IsValidPillar(pillar) {
		return fmt.Errorf("key %q uses unknown pillar %q", e.Key, pillar)
	}
	if e.Category == "" {
		return fmt.Errorf("%s: category is required", e.Key)
	}
	if e.Gap == "" {
		return fmt.Errorf("%s: gap is required", e.Key)
	}
	if !e.Priority.IsValid() {
		return fmt.Errorf("%s: invalid priority %q", e.Key, e.Priority)
	}
	if !e.Impact.IsValid() {
		return fmt.Errorf("%s: invalid impact %q", e.Key, e.Impact)
	}
	if !e.Automation.IsValid() {
		return fmt.Errorf("%s: invalid automation level %q", e.Key, e.Automation)
	}
	if e.Automation == types.AutomationGenerate && e.GeneratorHook == "" {
		return fmt.Errorf("%s: generate-level entry has no generator_hook", e.Key)
	}
	if len(e.EvidenceSelectors) == 0 {
		return fmt.Errorf("%s: evidence_selectors must not be empty", e.Key)
	}
	for i := range e.Disqualifiers {
		if err := e.Disqualifiers[i].Validate(); err != nil {
			return fmt.Errorf("%s: disqualifier: %w", e.Key, err)
		}
	}
	for i := range e.AmbiguityRules {
		if err := e.AmbiguityRules[i].Validate(); err != nil {
			return fmt.Errorf("%s: ambiguity rule: %w", e.Key, err)
		}
	}
	if e.Finding.IsZero() {
		return fmt.Errorf("%s: finding template is required", e.Key)
	}
	if e.WhyItMatters.IsZero() {
		return fmt.Errorf("%s: why_it_matters template is required", e.Key)
	}
	if e.Recommendation.IsZero() {
		return fmt.Errorf("%s: recommendation template is required", e.Key)
	}
	if e.WhatToInclude.IsZero() {
		return fmt.Errorf("%s: what_to_include template is required", e.Key)
	}
	if len(e.ActionItems) == 0 {
		return fmt.Errorf("%s: action_items must not be empty", e.Key)
	}
	return nil
}
