package gating

import (
	"fmt"
	"strings"

	"github.com/sitewell/beacon/internal/evidence"
	"github.com/sitewell/beacon/internal/playbook"
	"github.com/sitewell/beacon/internal/types"
)

// Assessment is the gating verdict for one (evidence, entry, context)
// triple. Transient; recomputed on every render.
type Assessment struct {
	Quality    types.EvidenceQuality `json:"quality"`
	Confidence float64               `json:"confidence"`
	Summary    string                `json:"summary"`
	Details    map[string]any        `json:"details,omitempty"`
}

// Coverage thresholds mapping the found-selector ratio to a quality tier.
const (
	strongCoverage = 0.8
	mediumCoverage = 0.5

	// borderlineCoverage is the floor at which audience context can
	// promote a weak result to medium.
	borderlineCoverage = 0.4

	// contextNudge is the fixed confidence bump for callers that supply
	// industry or target-audience facts.
	contextNudge = 0.05
)

// Assess computes the evidence quality tier and confidence for one
// playbook entry. Order matters: hard disqualifiers, then soft ambiguity
// rules, then subfactor heuristics, and only if none trigger does
// coverage-based tiering run.
func Assess(ev evidence.Evidence, entry *playbook.Entry, rctx *types.RenderContext) Assessment {
	details := map[string]any{}

	// Step 1: hard negative signals
	if rule := firstTriggered(ev, entry.Disqualifiers); rule != nil {
		return ambiguous(rctx, ruleReason(rule, "disqualifier"), details)
	}

	// Step 2: soft negative signals
	if rule := firstTriggered(ev, entry.AmbiguityRules); rule != nil {
		return ambiguous(rctx, ruleReason(rule, "ambiguity rule"), details)
	}

	// Step 3: subfactor-specific heuristics
	if isFAQKey(entry.Key) {
		if reason := faqSuspicion(ev); reason != "" {
			return ambiguous(rctx, reason, details)
		}
	}

	// Step 4: coverage ratio over min_evidence (preferred) or the full
	// selector list
	paths := entry.MinEvidence
	if len(paths) == 0 {
		paths = entry.EvidenceSelectors
	}
	found := 0
	for _, p := range paths {
		if ev.Has(p) {
			found++
		}
	}
	var ratio float64
	if len(paths) > 0 {
		ratio = float64(found) / float64(len(paths))
	}
	details["paths_checked"] = len(paths)
	details["paths_found"] = found

	var quality types.EvidenceQuality
	switch {
	case len(paths) == 0:
		quality = types.QualityWeak
	case ratio >= strongCoverage:
		quality = types.QualityStrong
	case ratio >= mediumCoverage:
		quality = types.QualityMedium
	default:
		quality = types.QualityWeak
	}

	// Step 5: context nudges. Borderline weak results get promoted when
	// the caller told us who the audience is.
	confidence := quality.BaseConfidence() + (ratio-mediumCoverage)*0.2
	if rctx.HasAudienceContext() {
		confidence += contextNudge
		if quality == types.QualityWeak && ratio >= borderlineCoverage {
			quality = types.QualityMedium
			confidence = types.QualityMedium.BaseConfidence()
		}
	}

	return Assessment{
		Quality:    quality,
		Confidence: clamp01(confidence),
		Summary:    fmt.Sprintf("evidence coverage %d/%d paths (%s)", found, len(paths), quality),
		Details:    details,
	}
}

func ambiguous(rctx *types.RenderContext, reason string, details map[string]any) Assessment {
	details["reason"] = reason
	confidence := types.QualityAmbiguous.BaseConfidence()
	if rctx.HasAudienceContext() {
		confidence += contextNudge
	}
	return Assessment{
		Quality:    types.QualityAmbiguous,
		Confidence: clamp01(confidence),
		Summary:    reason,
		Details:    details,
	}
}

func ruleReason(rule *playbook.Rule, kind string) string {
	if rule.Reason != "" {
		return rule.Reason
	}
	return fmt.Sprintf("%s triggered on %s %s", kind, rule.Path, rule.Op)
}

func isFAQKey(key string) bool {
	return strings.Contains(key, "faq")
}

// navTogglePhrases are known navigation-widget strings that page
// scrapers routinely misread as FAQ questions.
var navTogglePhrases = []string{
	"show more",
	"view more",
	"read more",
	"see all",
	"toggle",
	"expand",
}

// faqSuspicion flags FAQ evidence that is probably scraped navigation
// rather than real Q&A. Two independent signals force ambiguity: half or
// more of the candidate questions look like nav toggles, or FAQ content
// exists with neither a dedicated FAQ page link nor FAQ schema to
// corroborate it.
func faqSuspicion(ev evidence.Evidence) string {
	items := ev.FAQItems()
	if len(items) == 0 {
		return ""
	}

	suspicious := 0
	for _, item := range items {
		if isNavToggleQuestion(item.Question) {
			suspicious++
		}
	}
	if suspicious*2 >= len(items) {
		return fmt.Sprintf("%d of %d candidate FAQ questions look like navigation toggles", suspicious, len(items))
	}

	if ev.FAQPageLink() == "" && !ev.HasFAQSchema() {
		return "FAQ-like content found with neither a dedicated FAQ page link nor FAQ schema"
	}
	return ""
}

// isNavToggleQuestion flags strings that read like UI chrome: "Open
// Mobile Menu" phrasing, known toggle labels, and very short non-question
// strings.
func isNavToggleQuestion(q string) bool {
	s := strings.ToLower(strings.TrimSpace(q))
	if s == "" {
		return true
	}
	if strings.HasPrefix(s, "open ") && strings.Contains(s, "menu") {
		return true
	}
	for _, phrase := range navTogglePhrases {
		if strings.HasPrefix(s, phrase) {
			return true
		}
	}
	if len(s) < 10 && !strings.Contains(s, "?") {
		return true
	}
	return false
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
