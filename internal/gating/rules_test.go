package gating

import (
	"testing"

	"github.com/sitewell/beacon/internal/evidence"
	"github.com/sitewell/beacon/internal/playbook"
)

func TestEvalRule(t *testing.T) {
	ev := evidence.FromString(`{
		"schema": {"types": [], "hasOrganization": true},
		"media": {"imageCount": 0},
		"meta": {"description": ""}
	}`)

	tests := []struct {
		name string
		rule playbook.Rule
		want bool
	}{
		{"present hit", playbook.Rule{Path: "schema.hasOrganization", Op: "present"}, true},
		{"present miss", playbook.Rule{Path: "schema.hasFAQPage", Op: "present"}, false},
		{"absent hit", playbook.Rule{Path: "robots.hasLlmsTxt", Op: "absent"}, true},
		{"empty array", playbook.Rule{Path: "schema.types", Op: "empty"}, true},
		{"empty string", playbook.Rule{Path: "meta.description", Op: "empty"}, true},
		{"empty missing path", playbook.Rule{Path: "content.faqs", Op: "empty"}, true},
		{"eq number", playbook.Rule{Path: "media.imageCount", Op: "eq", Value: 0}, true},
		{"eq bool", playbook.Rule{Path: "schema.hasOrganization", Op: "eq", Value: true}, true},
		{"neq", playbook.Rule{Path: "media.imageCount", Op: "neq", Value: 3}, true},
		{"lt hit", playbook.Rule{Path: "media.imageCount", Op: "lt", Value: 1}, true},
		{"gte miss", playbook.Rule{Path: "media.imageCount", Op: "gte", Value: 1}, false},
		// Comparison ops must not trigger on paths that do not exist.
		{"lt on missing path", playbook.Rule{Path: "content.wordCount", Op: "lt", Value: 100}, false},
		{"eq on missing path", playbook.Rule{Path: "content.wordCount", Op: "eq", Value: 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := evalRule(ev, &tt.rule); got != tt.want {
				t.Errorf("evalRule(%+v) = %v, want %v", tt.rule, got, tt.want)
			}
		})
	}
}

func TestFirstTriggeredOrder(t *testing.T) {
	ev := evidence.FromString(`{"a": 1, "b": 2}`)
	rules := []playbook.Rule{
		{Path: "missing", Op: "present"},
		{Path: "a", Op: "present", Reason: "first hit"},
		{Path: "b", Op: "present", Reason: "second hit"},
	}
	got := firstTriggered(ev, rules)
	if got == nil || got.Reason != "first hit" {
		t.Errorf("firstTriggered = %+v, want the first matching rule", got)
	}
	if firstTriggered(ev, nil) != nil {
		t.Error("nil rules should never trigger")
	}
}
