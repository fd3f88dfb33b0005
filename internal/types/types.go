package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Pillar names the eight top-level scoring categories. The set is closed:
// a canonical key whose pillar segment is not listed here never validates.
const (
	PillarTechnicalSetup     = "technical_setup"
	PillarContentStructure   = "content_structure"
	PillarAISearchReadiness  = "ai_search_readiness"
	PillarTrustAuthority     = "trust_authority"
	PillarMediaAccessibility = "media_accessibility"
	PillarSiteNavigation     = "site_navigation"
	PillarContentFreshness   = "content_freshness"
	PillarBrandVisibility    = "brand_visibility"
)

// Pillars lists the closed pillar set in display order.
var Pillars = []string{
	PillarTechnicalSetup,
	PillarContentStructure,
	PillarAISearchReadiness,
	PillarTrustAuthority,
	PillarMediaAccessibility,
	PillarSiteNavigation,
	PillarContentFreshness,
	PillarBrandVisibility,
}

// IsValidPillar reports whether p is one of the eight known pillars.
func IsValidPillar(p string) bool {
	for _, known := range Pillars {
		if p == known {
			return true
		}
	}
	return false
}

// Priority ranks how urgent a playbook entry is
type Priority string

const (
	PriorityP0 Priority = "P0"
	PriorityP1 Priority = "P1"
	PriorityP2 Priority = "P2"
)

// IsValid checks if the priority value is valid
func (p Priority) IsValid() bool {
	switch p {
	case PriorityP0, PriorityP1, PriorityP2:
		return true
	}
	return false
}

// Weight returns the sort weight for ranking (higher sorts first).
func (p Priority) Weight() int {
	switch p {
	case PriorityP0:
		return 3
	case PriorityP1:
		return 2
	case PriorityP2:
		return 1
	}
	return 0
}

// Impact describes the expected payoff of acting on a recommendation
type Impact string

const (
	ImpactHigh       Impact = "High"
	ImpactMediumHigh Impact = "Medium-High"
	ImpactMedium     Impact = "Medium"
	ImpactLowMedium  Impact = "Low-Medium"
)

// IsValid checks if the impact value is valid
func (i Impact) IsValid() bool {
	switch i {
	case ImpactHigh, ImpactMediumHigh, ImpactMedium, ImpactLowMedium:
		return true
	}
	return false
}

// Weight returns the sort weight for ranking (higher sorts first).
func (i Impact) Weight() int {
	switch i {
	case ImpactHigh:
		return 4
	case ImpactMediumHigh:
		return 3
	case ImpactMedium:
		return 2
	case ImpactLowMedium:
		return 1
	}
	return 0
}

// AutomationLevel describes how hands-off remediation can be.
//
// The scale is ordered: generate > draft > guide > manual. Evidence
// gating may move a recommendation down this scale but never up.
type AutomationLevel string

const (
	AutomationGenerate AutomationLevel = "generate" // Ready-to-paste asset produced for the user
	AutomationDraft    AutomationLevel = "draft"    // Partial asset plus instructions
	AutomationGuide    AutomationLevel = "guide"    // Step-by-step walkthrough only
	AutomationManual   AutomationLevel = "manual"   // Problem statement only
)

// IsValid checks if the automation level value is valid
func (a AutomationLevel) IsValid() bool {
	switch a {
	case AutomationGenerate, AutomationDraft, AutomationGuide, AutomationManual:
		return true
	}
	return false
}

// Rank returns the position on the automation scale (generate=3 .. manual=0).
func (a AutomationLevel) Rank() int {
	switch a {
	case AutomationGenerate:
		return 3
	case AutomationDraft:
		return 2
	case AutomationGuide:
		return 1
	}
	return 0
}

// FromRank maps a clamped rank back to an automation level.
func FromRank(rank int) AutomationLevel {
	switch {
	case rank >= 3:
		return AutomationGenerate
	case rank == 2:
		return AutomationDraft
	case rank == 1:
		return AutomationGuide
	}
	return AutomationManual
}

// EvidenceQuality is the gating tier attached to a recommendation's
// supporting evidence.
type EvidenceQuality string

const (
	QualityStrong    EvidenceQuality = "strong"
	QualityMedium    EvidenceQuality = "medium"
	QualityWeak      EvidenceQuality = "weak"
	QualityAmbiguous EvidenceQuality = "ambiguous"
)

// IsValid checks if the quality value is valid
func (q EvidenceQuality) IsValid() bool {
	switch q {
	case QualityStrong, QualityMedium, QualityWeak, QualityAmbiguous:
		return true
	}
	return false
}

// BaseConfidence returns the starting confidence for a quality tier,
// before context adjustments.
func (q EvidenceQuality) BaseConfidence() float64 {
	switch q {
	case QualityStrong:
		return 0.9
	case QualityMedium:
		return 0.65
	case QualityWeak:
		return 0.4
	case QualityAmbiguous:
		return 0.25
	}
	return 0
}

// DetectionState is a finite-state assessment of how resolved an issue
// already is, computed fresh from evidence on every render. It is never
// persisted as authoritative truth.
type DetectionState string

const (
	StateNotFound        DetectionState = "not_found"         // No completion signal available
	StatePartial         DetectionState = "partial"           // Some of the work exists
	StateContentNoSchema DetectionState = "content_no_schema" // Content present but unmarked
	StateSchemaInvalid   DetectionState = "schema_invalid"    // Markup present but flagged invalid
	StateWeak            DetectionState = "weak"              // Token effort, well under the bar
	StateBlocking        DetectionState = "blocking"          // Something actively prevents resolution
	StateComplete        DetectionState = "complete"          // Issue is resolved
)

// IsValid checks if the detection state value is valid
func (s DetectionState) IsValid() bool {
	switch s {
	case StateNotFound, StatePartial, StateContentNoSchema, StateSchemaInvalid,
		StateWeak, StateBlocking, StateComplete:
		return true
	}
	return false
}

// TargetLevel scopes a recommendation to the whole site, one page, or either
type TargetLevel string

const (
	TargetSite TargetLevel = "site"
	TargetPage TargetLevel = "page"
	TargetBoth TargetLevel = "both"
)

// IsValid checks if the target level value is valid
func (t TargetLevel) IsValid() bool {
	switch t {
	case TargetSite, TargetPage, TargetBoth:
		return true
	}
	return false
}

// Asset is a concrete ready-to-use artifact produced by a generation hook
// (e.g. a JSON-LD snippet). Hooks are external collaborators; this core
// only carries their output.
type Asset struct {
	AssetType           string `json:"asset_type"`
	Content             string `json:"content"`
	ImplementationNotes string `json:"implementation_notes,omitempty"`
}

// Recommendation is the externally visible artifact of one render pass.
// A render produces at most one Recommendation per canonical subfactor key.
type Recommendation struct {
	RecKey          string          `json:"rec_key"`
	Pillar          string          `json:"pillar"`
	SubfactorKey    string          `json:"subfactor_key"`
	Gap             string          `json:"gap"`
	Finding         string          `json:"finding"`
	WhyItMatters    string          `json:"why_it_matters"`
	Recommendation  string          `json:"recommendation"`
	WhatToInclude   string          `json:"what_to_include"`
	HowToImplement  []string        `json:"how_to_implement"`
	AutomationLevel AutomationLevel `json:"automation_level"`
	Confidence      float64         `json:"confidence"`
	EvidenceQuality EvidenceQuality `json:"evidence_quality"`
	EvidenceSummary string          `json:"evidence_summary"`
	TargetLevel     TargetLevel     `json:"target_level"`
	TargetURL       string          `json:"target_url,omitempty"`
	EvidenceJSON    json.RawMessage `json:"evidence_json,omitempty"`
	GeneratedAssets []Asset         `json:"generated_assets,omitempty"`
}

// Validate checks the output contract for a rendered recommendation
func (r *Recommendation) Validate() error {
	if r.SubfactorKey == "" {
		return fmt.Errorf("subfactor_key is required")
	}
	if !IsValidPillar(r.Pillar) {
		return fmt.Errorf("unknown pillar: %s", r.Pillar)
	}
	if !r.AutomationLevel.IsValid() {
		return fmt.Errorf("invalid automation level: %s", r.AutomationLevel)
	}
	if !r.EvidenceQuality.IsValid() {
		return fmt.Errorf("invalid evidence quality: %s", r.EvidenceQuality)
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return fmt.Errorf("confidence must be between 0 and 1 (got %.3f)", r.Confidence)
	}
	if !r.TargetLevel.IsValid() {
		return fmt.Errorf("invalid target level: %s", r.TargetLevel)
	}
	// The renderer downgrades page-scoped entries with no derivable URL
	// to site scope before they escape, so this should never fire.
	if r.TargetLevel == TargetPage && strings.TrimSpace(r.TargetURL) == "" {
		return fmt.Errorf("page-scoped recommendation %s has no target_url", r.SubfactorKey)
	}
	return nil
}

// LegacyRow lifecycle states
const (
	LegacyStatusOpen        = "open"
	LegacyStatusImplemented = "implemented"
)

// LegacyRow is a previously persisted recommendation, possibly created
// before canonical keys existed. It frequently carries only a free-text
// title in RecommendationText. The adapter never mutates an input row;
// it returns enriched shallow copies.
type LegacyRow struct {
	ID                 string     `json:"id"`
	RecKey             string     `json:"rec_key,omitempty"`
	SubfactorKey       string     `json:"subfactor_key,omitempty"`
	Category           string     `json:"category,omitempty"`
	RecommendationText string     `json:"recommendation_text"`
	Status             string     `json:"status,omitempty"`
	ImplementedAt      *time.Time `json:"implemented_at,omitempty"`

	// Legacy 3-field content shape
	Findings          string `json:"findings,omitempty"`
	ImpactDescription string `json:"impact_description,omitempty"`
	ActionSteps       string `json:"action_steps,omitempty"`

	// Newer 5-field content shape
	Finding        string   `json:"finding,omitempty"`
	WhyItMatters   string   `json:"why_it_matters,omitempty"`
	Recommendation string   `json:"recommendation,omitempty"`
	WhatToInclude  string   `json:"what_to_include,omitempty"`
	HowToImplement []string `json:"how_to_implement,omitempty"`

	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// RenderContext carries the caller-supplied facts for one render pass.
// It is owned by the caller; nothing in this core keeps module-level
// mutable state between calls.
type RenderContext struct {
	ScanID      string         `json:"scan_id"`
	CompanyName string         `json:"company_name,omitempty"`
	Domain      string         `json:"domain,omitempty"`
	SiteURL     string         `json:"site_url,omitempty"`
	Industry    string         `json:"industry,omitempty"`
	TargetRoles []string       `json:"target_roles,omitempty"`
	Extra       map[string]any `json:"extra,omitempty"` // Opaque caller state (e.g. extractor render budgets)
}

// HasAudienceContext reports whether the caller supplied industry or
// target-audience facts. Gating uses this to nudge confidence.
func (c *RenderContext) HasAudienceContext() bool {
	if c == nil {
		return false
	}
	return strings.TrimSpace(c.Industry) != "" || len(c.TargetRoles) > 0
}
