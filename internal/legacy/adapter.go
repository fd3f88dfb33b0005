// Package legacy re-derives canonical keys for previously persisted
// recommendation rows and brings their content up to date against the
// current scan's evidence.
//
// Rows persisted before canonical keys existed carry only a free-text
// title in recommendation_text, and rows from intermediate eras carry
// key spellings the current scoring model no longer emits. The adapter
// resolves each row, suppresses (marks implemented) the ones the
// current evidence shows as resolved, and re-renders the rest into both
// the legacy 3-field and the newer 5-field content shapes. Input rows
// are never mutated; every transformation happens on a shallow copy.
package legacy

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sitewell/beacon/internal/detect"
	"github.com/sitewell/beacon/internal/evidence"
	"github.com/sitewell/beacon/internal/fill"
	"github.com/sitewell/beacon/internal/keys"
	"github.com/sitewell/beacon/internal/playbook"
	"github.com/sitewell/beacon/internal/render"
	"github.com/sitewell/beacon/internal/types"
)

// Summary reports what one enrichment pass did, for debugging and audit
// logs. It never alters row content.
type Summary struct {
	Total           int            `json:"total"`
	MatchedByMethod map[string]int `json:"matched_by_method"`
	UnmatchedTitles []string       `json:"unmatched_titles"`
	Implemented     int            `json:"implemented"`
	Rerendered      int            `json:"rerendered"`
	Errors          []string       `json:"errors,omitempty"`
}

// Adapter enriches legacy rows against current evidence. Read-only
// after New; safe for concurrent use.
type Adapter struct {
	registry *playbook.Registry
	now      func() time.Time
}

// New creates a legacy adapter over a loaded registry.
func New(registry *playbook.Registry) (*Adapter, error) {
	if registry == nil {
		return nil, fmt.Errorf("registry is required")
	}
	return &Adapter{registry: registry, now: time.Now}, nil
}

// WithClock overrides the implemented-at clock. Tests only.
func (a *Adapter) WithClock(now func() time.Time) *Adapter {
	a.now = now
	return a
}

// EnrichRows processes a batch of persisted rows against the current
// scan's evidence. Each row is handled independently: a failure on one
// row is recorded in the summary and leaves that row's copy unenriched,
// never failing the batch. The returned slice holds enriched shallow
// copies in input order.
func (a *Adapter) EnrichRows(rows []types.LegacyRow, ev evidence.Evidence, rctx *types.RenderContext, debug bool) ([]types.LegacyRow, *Summary) {
	summary := &Summary{
		Total:           len(rows),
		MatchedByMethod: make(map[string]int),
	}

	out := make([]types.LegacyRow, len(rows))
	for i := range rows {
		out[i] = rows[i] // Shallow copy; the adapter works on this only

		key, strategy := a.resolveRow(&rows[i])
		if key == "" {
			summary.UnmatchedTitles = append(summary.UnmatchedTitles, rows[i].RecommendationText)
			continue
		}
		summary.MatchedByMethod[strategy]++

		if err := a.enrichRow(&out[i], key, ev, rctx, summary); err != nil {
			// Leave the copy as it arrived rather than half-enriched
			out[i] = rows[i]
			summary.Errors = append(summary.Errors, fmt.Sprintf("row %s: %v", rows[i].ID, err))
			fmt.Fprintf(os.Stderr, "warning: legacy enrichment failed for row %s: %v\n", rows[i].ID, err)
		}
	}

	if debug {
		fmt.Printf("Legacy enrichment: %d rows, matched=%v, implemented=%d, rerendered=%d, unmatched=%d\n",
			summary.Total, summary.MatchedByMethod, summary.Implemented, summary.Rerendered, len(summary.UnmatchedTitles))
		for _, title := range summary.UnmatchedTitles {
			fmt.Printf("  unmatched title: %q\n", title)
		}
	}
	return out, summary
}

// resolveRow finds the canonical key for one row. Order: title
// dictionary, then any key fields the row already carries, then the
// conservative keyword fallback. The fallback runs last because it is
// the least precise and a wrong match rewrites the wrong row.
func (a *Adapter) resolveRow(row *types.LegacyRow) (key, strategy string) {
	resolver := a.registry.Resolver()

	titleKey, titleStrategy := resolver.ResolveTitle(row.RecommendationText)
	if titleStrategy == keys.StrategyTitleDictionary {
		return titleKey, titleStrategy
	}

	for _, candidate := range []string{row.SubfactorKey, row.RecKey} {
		if candidate == "" {
			continue
		}
		if resolved := resolver.Resolve(candidate, row.Category); resolved != "" {
			return resolved, keys.StrategyExistingKey
		}
	}

	if titleStrategy == keys.StrategyKeywordFallback {
		return titleKey, titleStrategy
	}
	return "", ""
}

// enrichRow applies the implemented-or-rerender transition to one row
// copy. Panics inside detection or template code are converted to
// errors so one bad row cannot take down the batch.
func (a *Adapter) enrichRow(row *types.LegacyRow, key string, ev evidence.Evidence, rctx *types.RenderContext, summary *Summary) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	entry := a.registry.Get(key)
	if entry == nil {
		return fmt.Errorf("resolved key %s has no playbook entry", key)
	}
	row.SubfactorKey = key

	state := detect.State(key, ev)
	if detect.ShouldSuppress(state) {
		a.markImplemented(row, entry)
		summary.Implemented++
		return nil
	}

	a.rerender(row, entry, state, ev, rctx)
	summary.Rerendered++
	return nil
}

// markImplemented transitions a row copy to the implemented lifecycle.
// Idempotent: an already-implemented row keeps its original
// implemented_at, and repeated application produces identical output.
func (a *Adapter) markImplemented(row *types.LegacyRow, entry *playbook.Entry) {
	if row.Status != types.LegacyStatusImplemented {
		row.Status = types.LegacyStatusImplemented
		if row.ImplementedAt == nil {
			ts := a.now().UTC()
			row.ImplementedAt = &ts
		}
	}

	resolved := fmt.Sprintf("Resolved: %s is no longer detected on the latest scan.", strings.ToLower(entry.Gap))

	// v2 content empties out but stays typed: "", [], never null
	row.Finding = ""
	row.WhyItMatters = ""
	row.Recommendation = ""
	row.WhatToInclude = ""
	row.HowToImplement = []string{}

	// Legacy shape gets the human-readable resolution note
	row.Findings = resolved
	row.ImpactDescription = ""
	row.ActionSteps = "No further action needed."
}

// rerender fills the five sections fresh from current evidence and
// writes them into both content shapes, leaving unrelated fields alone.
func (a *Adapter) rerender(row *types.LegacyRow, entry *playbook.Entry, state types.DetectionState, ev evidence.Evidence, rctx *types.RenderContext) {
	pctx := render.PlaceholderContext(ev, rctx)

	row.Finding = fill.Resolve(entry.Finding, state, pctx)
	row.WhyItMatters = fill.Resolve(entry.WhyItMatters, state, pctx)
	row.Recommendation = fill.Resolve(entry.Recommendation, state, pctx)
	row.WhatToInclude = fill.Resolve(entry.WhatToInclude, state, pctx)
	row.HowToImplement = fill.ResolveList(entry.ActionItems, state, pctx)

	row.Findings = row.Finding
	row.ImpactDescription = row.WhyItMatters
	row.ActionSteps = strings.Join(row.HowToImplement, "\n")
}
