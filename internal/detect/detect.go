// Package detect computes per-subfactor detection states: how resolved
// an issue already is, judged from the current scan's evidence.
//
// Only a curated set of high-priority keys has a detector; everything
// else reads as not_found, which means "no completion signal available"
// and never suppresses a recommendation. Detectors are pure functions of
// evidence and are re-run on every render; their output is never
// persisted as authoritative truth.
package detect

import (
	"fmt"
	"os"

	"github.com/sitewell/beacon/internal/evidence"
	"github.com/sitewell/beacon/internal/types"
)

// Func judges one subfactor's resolution state from evidence.
type Func func(ev evidence.Evidence) types.DetectionState

// detectors maps canonical keys to their detection functions.
var detectors = map[string]Func{
	"trust_authority.organization_schema": detectOrganizationSchema,
	"ai_search_readiness.icp_faqs":        detectICPFAQs,
	"media_accessibility.image_alt_text":  detectImageAltText,
	"technical_setup.meta_descriptions":   detectMetaDescriptions,
	"technical_setup.xml_sitemap":         detectXMLSitemap,
	"content_structure.heading_hierarchy": detectHeadingHierarchy,
	"ai_search_readiness.llms_txt":        detectLLMsTxt,
	"trust_authority.author_bios":         detectAuthorBios,
	"site_navigation.breadcrumb_schema":   detectBreadcrumbSchema,
}

// HasDetector reports whether a canonical key has a detection function.
func HasDetector(key string) bool {
	_, ok := detectors[key]
	return ok
}

// Keys returns the canonical keys that have detectors. Used by lint tooling.
func Keys() []string {
	out := make([]string, 0, len(detectors))
	for k := range detectors {
		out = append(out, k)
	}
	return out
}

// State computes the detection state for a canonical key. Keys without a
// detector read as not_found. A panicking detector also reads as
// not_found: failing open shows a possibly-redundant recommendation,
// failing closed would silently hide a real issue.
func State(key string, ev evidence.Evidence) (state types.DetectionState) {
	fn, ok := detectors[key]
	if !ok {
		return types.StateNotFound
	}
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "warning: detector for %s panicked: %v\n", key, r)
			state = types.StateNotFound
		}
	}()
	return fn(ev)
}

// ShouldSuppress reports whether a detection state suppresses the
// recommendation. Complete is the only state with suppression semantics.
func ShouldSuppress(state types.DetectionState) bool {
	return state == types.StateComplete
}

// detectOrganizationSchema: complete when an Organization object exists
// with no recorded validation errors; schema_invalid when it exists but
// the validator flagged it.
func detectOrganizationSchema(ev evidence.Evidence) types.DetectionState {
	if !ev.HasOrganizationSchema() {
		return types.StateNotFound
	}
	if len(ev.OrganizationSchemaErrors()) > 0 {
		return types.StateSchemaInvalid
	}
	return types.StateComplete
}

// detectICPFAQs applies the five-item bar: complete needs at least five
// FAQ items plus FAQPage schema; content without schema is its own
// state because the fix differs (markup, not writing).
func detectICPFAQs(ev evidence.Evidence) types.DetectionState {
	count := ev.FAQCount()
	hasSchema := ev.HasFAQSchema()
	switch {
	case count >= 5 && hasSchema:
		return types.StateComplete
	case count >= 1 && !hasSchema:
		return types.StateContentNoSchema
	case count >= 1 && hasSchema:
		return types.StatePartial
	default:
		return types.StateNotFound
	}
}

// detectImageAltText: a page with no images has nothing to fix. The 0.9
// bar tolerates a stray decorative image the extractor miscounted.
func detectImageAltText(ev evidence.Evidence) types.DetectionState {
	stats := ev.ImageAltStats()
	if stats.ImageCount == 0 {
		return types.StateComplete
	}
	cov := stats.Coverage()
	switch {
	case cov >= 0.9:
		return types.StateComplete
	case cov >= 0.5:
		return types.StatePartial
	case stats.ImagesWithAlt > 0:
		return types.StateWeak
	default:
		return types.StateNotFound
	}
}

// detectMetaDescriptions: a description under 50 characters is a stub,
// not a summary.
func detectMetaDescriptions(ev evidence.Evidence) types.DetectionState {
	desc := ev.Meta().Description
	switch {
	case len(desc) >= 50:
		return types.StateComplete
	case len(desc) > 0:
		return types.StateWeak
	default:
		return types.StateNotFound
	}
}

func detectXMLSitemap(ev evidence.Evidence) types.DetectionState {
	if ev.SitemapURL() != "" {
		return types.StateComplete
	}
	return types.StateNotFound
}

// detectHeadingHierarchy: exactly one h1 and no skipped levels is done;
// headings that exist but break the outline are partial.
func detectHeadingHierarchy(ev evidence.Evidence) types.DetectionState {
	h := ev.HeadingInfo()
	switch {
	case h.H1Count == 1 && h.HierarchyValid:
		return types.StateComplete
	case h.H1Count >= 1:
		return types.StatePartial
	default:
		return types.StateNotFound
	}
}

func detectLLMsTxt(ev evidence.Evidence) types.DetectionState {
	if ev.HasLLMsTxt() {
		return types.StateComplete
	}
	return types.StateNotFound
}

// detectAuthorBios: bylines without bio pages are a token effort.
func detectAuthorBios(ev evidence.Evidence) types.DetectionState {
	stats := ev.AuthorBioStats()
	switch {
	case stats.AuthorCount == 0:
		return types.StateNotFound
	case stats.WithBio == stats.AuthorCount:
		return types.StateComplete
	case stats.WithBio > 0:
		return types.StatePartial
	default:
		return types.StateWeak
	}
}

func detectBreadcrumbSchema(ev evidence.Evidence) types.DetectionState {
	if ev.HasBreadcrumbSchema() {
		return types.StateComplete
	}
	return types.StateNotFound
}
