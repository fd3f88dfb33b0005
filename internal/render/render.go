// Package render orchestrates the recommendation pipeline: it walks a
// scoring result, resolves failing subfactors to playbook entries, gates
// them on evidence quality, suppresses already-resolved issues, fills
// the templates, invokes generation hooks, and emits a ranked, capped,
// target-scoped recommendation list.
//
// A render call is deterministic: the same (scan id, scoring result,
// evidence, context) inputs produce a byte-identical recommendation set.
// All per-call state lives on the stack; the renderer itself only holds
// read-only configuration and is safe for concurrent use.
package render

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sitewell/beacon/internal/detect"
	"github.com/sitewell/beacon/internal/evidence"
	"github.com/sitewell/beacon/internal/fill"
	"github.com/sitewell/beacon/internal/gating"
	"github.com/sitewell/beacon/internal/keys"
	"github.com/sitewell/beacon/internal/playbook"
	"github.com/sitewell/beacon/internal/types"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Defaults for renderer configuration.
const (
	DefaultThreshold          = 70.0
	DefaultMaxRecommendations = 12
	DefaultNoiseGap           = 10.0
	DefaultMaxConcurrentHooks = 4
	DefaultHookTimeout        = 30 * time.Second
)

// Config holds renderer configuration.
type Config struct {
	Registry           *playbook.Registry  // Required
	Hooks              map[string]HookFunc // Generation hooks by hook key; may be nil
	Threshold          float64             // Failing-score threshold (default 70)
	MaxRecommendations int                 // Output cap (default 12)
	NoiseGap           float64             // Weak-quality gap floor (default 10)
	MaxConcurrentHooks int64               // Concurrent hook invocations (default 4)
	HookLimiter        *rate.Limiter       // Optional rate limit ahead of hook I/O
	HookTimeout        time.Duration       // Per-hook timeout (default 30s)
}

// Renderer produces recommendation lists from scoring results and
// evidence. Read-only after New; safe for concurrent Render calls.
type Renderer struct {
	registry    *playbook.Registry
	hooks       map[string]HookFunc
	threshold   float64
	maxRecs     int
	noiseGap    float64
	hookSem     *semaphore.Weighted
	hookLimiter *rate.Limiter
	hookTimeout time.Duration
}

// New creates a renderer.
func New(cfg *Config) (*Renderer, error) {
	if cfg.Registry == nil {
		return nil, fmt.Errorf("registry is required")
	}
	threshold := cfg.Threshold
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	maxRecs := cfg.MaxRecommendations
	if maxRecs == 0 {
		maxRecs = DefaultMaxRecommendations
	}
	noiseGap := cfg.NoiseGap
	if noiseGap == 0 {
		noiseGap = DefaultNoiseGap
	}
	maxHooks := cfg.MaxConcurrentHooks
	if maxHooks == 0 {
		maxHooks = DefaultMaxConcurrentHooks
	}
	timeout := cfg.HookTimeout
	if timeout == 0 {
		timeout = DefaultHookTimeout
	}
	return &Renderer{
		registry:    cfg.Registry,
		hooks:       cfg.Hooks,
		threshold:   threshold,
		maxRecs:     maxRecs,
		noiseGap:    noiseGap,
		hookSem:     semaphore.NewWeighted(maxHooks),
		hookLimiter: cfg.HookLimiter,
		hookTimeout: timeout,
	}, nil
}

// failing is one subfactor that scored under the threshold.
type failing struct {
	pillar string // scoring category key
	rawKey string // subfactor key as spelled in the scoring result
	key    string // canonical key, "" when unresolvable
	entry  *playbook.Entry
	score  float64
}

func (f *failing) priorityWeight() int {
	if f.entry == nil {
		return types.PriorityP2.Weight()
	}
	return f.entry.Priority.Weight()
}

func (f *failing) impactWeight() int {
	if f.entry == nil {
		return types.ImpactLowMedium.Weight()
	}
	return f.entry.Impact.Weight()
}

// Render produces the recommendation list for one scan.
func (r *Renderer) Render(ctx context.Context, scoring *types.ScoringResult, ev evidence.Evidence, rctx *types.RenderContext) ([]*types.Recommendation, error) {
	if scoring == nil {
		return nil, fmt.Errorf("scoring result is required")
	}
	if rctx == nil {
		rctx = &types.RenderContext{}
	}

	// Step 1+2: collect failing subfactors and resolve each to a
	// playbook entry. Map walks are sorted so output order never depends
	// on map iteration.
	candidates := r.collectFailing(scoring)

	// Step 3: rank and cap
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.priorityWeight() != b.priorityWeight() {
			return a.priorityWeight() > b.priorityWeight()
		}
		if a.impactWeight() != b.impactWeight() {
			return a.impactWeight() > b.impactWeight()
		}
		if a.score != b.score {
			return a.score < b.score
		}
		return a.rawKey < b.rawKey
	})
	if len(candidates) > r.maxRecs {
		candidates = candidates[:r.maxRecs]
	}

	// Step 4: detection, gating, template resolution
	var recs []*types.Recommendation
	var hookJobs []hookJob
	for _, f := range candidates {
		if f.entry == nil {
			recs = append(recs, r.fallbackRecommendation(f, rctx))
			continue
		}

		state := detect.State(f.key, ev)
		if detect.ShouldSuppress(state) {
			continue
		}

		assess := gating.Assess(ev, f.entry, rctx)
		level := gating.DowngradeAutomation(f.entry.Automation, assess.Quality)
		pctx := buildPlaceholderContext(ev, rctx, f.score, r.threshold)

		rec := &types.Recommendation{
			RecKey:          RecKey(rctx.ScanID, f.key),
			Pillar:          f.entry.Pillar(),
			SubfactorKey:    f.key,
			Gap:             f.entry.Gap,
			Finding:         fill.Resolve(f.entry.Finding, state, pctx),
			WhyItMatters:    fill.Resolve(f.entry.WhyItMatters, state, pctx),
			Recommendation:  fill.Resolve(f.entry.Recommendation, state, pctx),
			WhatToInclude:   fill.Resolve(f.entry.WhatToInclude, state, pctx),
			HowToImplement:  fill.ResolveList(f.entry.ActionItems, state, pctx),
			AutomationLevel: level,
			Confidence:      assess.Confidence,
			EvidenceQuality: assess.Quality,
			EvidenceSummary: assess.Summary,
			EvidenceJSON:    evidenceExcerpt(ev, f.entry),
		}

		// Step 5: queue generation hooks for later concurrent invocation
		if level == types.AutomationGenerate {
			hook, ok := r.hooks[f.entry.GeneratorHook]
			if !ok || hook == nil {
				fmt.Fprintf(os.Stderr, "warning: no generation hook registered for %s (%s), downgrading to draft\n",
					f.key, f.entry.GeneratorHook)
				rec.AutomationLevel = types.AutomationDraft
			} else {
				hookJobs = append(hookJobs, hookJob{
					rec:     rec,
					hookKey: f.entry.GeneratorHook,
					hook:    hook,
					pctx:    flatten(pctx),
				})
			}
		}

		recs = append(recs, rec)
	}

	// Step 5 (cont.): run the queued hooks, bounded by the semaphore.
	// Results land on the recommendation each job already owns, so
	// output order is unaffected by completion order.
	r.runHooks(ctx, hookJobs, ev)

	// Step 6: weak evidence on a near-threshold score is measurement
	// noise, not an actionable finding
	filtered := recs[:0]
	for _, rec := range recs {
		if rec.EvidenceQuality == types.QualityWeak && r.scoreGap(rec, candidates) < r.noiseGap {
			continue
		}
		filtered = append(filtered, rec)
	}
	recs = filtered

	// Step 7: target-scope normalization
	for _, rec := range recs {
		r.normalizeTarget(rec, ev, rctx)
	}

	return recs, nil
}

// collectFailing walks the scoring result in sorted order and resolves
// each failing subfactor against the registry.
func (r *Renderer) collectFailing(scoring *types.ScoringResult) []*failing {
	pillars := make([]string, 0, len(scoring.Categories))
	for p := range scoring.Categories {
		pillars = append(pillars, p)
	}
	sort.Strings(pillars)

	// At most one candidate per canonical key: when a scoring result
	// carries both an old and a new spelling of the same subfactor, the
	// lower score wins so the gap is not understated.
	var out []*failing
	byKey := make(map[string]*failing)
	for _, pillar := range pillars {
		cat := scoring.Categories[pillar]
		subs := make([]string, 0, len(cat.Subfactors))
		for s := range cat.Subfactors {
			subs = append(subs, s)
		}
		sort.Strings(subs)

		for _, sub := range subs {
			sc := cat.Subfactors[sub]
			if !sc.Measured || sc.Score >= r.threshold {
				continue
			}
			f := &failing{pillar: pillar, rawKey: sub, score: sc.Score}
			if entry := r.registry.Lookup(sub, pillar); entry != nil {
				f.key = entry.Key
				f.entry = entry
				if prev, ok := byKey[f.key]; ok {
					if f.score < prev.score {
						prev.score = f.score
						prev.rawKey = f.rawKey
						prev.pillar = f.pillar
					}
					continue
				}
				byKey[f.key] = f
			}
			out = append(out, f)
		}
	}
	return out
}

// fallbackRecommendation covers subfactors the resolver cannot map to a
// playbook entry: category plus generic gap text, never dropped silently.
func (r *Renderer) fallbackRecommendation(f *failing, rctx *types.RenderContext) *types.Recommendation {
	pillar := f.pillar
	if !types.IsValidPillar(pillar) {
		pillar = types.PillarTechnicalSetup
	}
	display := strings.ReplaceAll(f.rawKey, "_", " ")
	return &types.Recommendation{
		RecKey:          RecKey(rctx.ScanID, f.pillar+"."+f.rawKey),
		Pillar:          pillar,
		SubfactorKey:    keys.NormalizeKey(f.pillar + "." + f.rawKey),
		Gap:             fmt.Sprintf("Low score on %s", display),
		Finding:         fmt.Sprintf("The %s measurement in your %s category scored %.0f, below the %.0f bar.", display, strings.ReplaceAll(f.pillar, "_", " "), f.score, r.threshold),
		WhyItMatters:    "This dimension contributes to how readable your site is for search and AI engines.",
		Recommendation:  fmt.Sprintf("Review the %s findings in your full report and address the flagged items.", display),
		WhatToInclude:   "",
		HowToImplement:  []string{},
		AutomationLevel: types.AutomationManual,
		Confidence:      types.QualityWeak.BaseConfidence(),
		EvidenceQuality: types.QualityWeak,
		EvidenceSummary: "no playbook entry for this subfactor",
		TargetLevel:     types.TargetSite,
	}
}

// scoreGap finds the threshold gap for a rendered recommendation.
func (r *Renderer) scoreGap(rec *types.Recommendation, candidates []*failing) float64 {
	for _, f := range candidates {
		if f.key == rec.SubfactorKey || keys.NormalizeKey(f.pillar+"."+f.rawKey) == rec.SubfactorKey {
			return r.threshold - f.score
		}
	}
	return r.noiseGap // Unknown: err on the side of keeping it
}

// normalizeTarget applies the static scope for the key and enforces the
// page-needs-URL contract: a page-scoped entry with no derivable URL is
// downgraded to site scope rather than shipped broken.
func (r *Renderer) normalizeTarget(rec *types.Recommendation, ev evidence.Evidence, rctx *types.RenderContext) {
	if rec.TargetLevel == "" {
		rec.TargetLevel = r.registry.TargetLevel(rec.SubfactorKey)
	}

	url := ev.PageURL()
	if strings.TrimSpace(url) == "" {
		url = rctx.SiteURL
	}
	url = strings.TrimSpace(url)

	switch rec.TargetLevel {
	case types.TargetPage:
		if url == "" {
			rec.TargetLevel = types.TargetSite
			rec.TargetURL = ""
			return
		}
		rec.TargetURL = url
	case types.TargetBoth:
		rec.TargetURL = url
	default:
		rec.TargetURL = ""
	}
}

type hookJob struct {
	rec     *types.Recommendation
	hookKey string
	hook    HookFunc
	pctx    map[string]any
}

// runHooks invokes generation hooks concurrently under the weighted
// semaphore. A hook that fails, returns nil, or panics downgrades its
// recommendation to draft; it never aborts the render.
func (r *Renderer) runHooks(ctx context.Context, jobs []hookJob, ev evidence.Evidence) {
	if len(jobs) == 0 {
		return
	}
	var wg sync.WaitGroup
	for i := range jobs {
		job := &jobs[i]
		if err := r.hookSem.Acquire(ctx, 1); err != nil {
			// Context cancelled: remaining hooks degrade to draft
			job.rec.AutomationLevel = types.AutomationDraft
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer r.hookSem.Release(1)
			asset := r.invokeHook(ctx, job.hookKey, job.hook, ev, job.pctx)
			if asset == nil {
				job.rec.AutomationLevel = types.AutomationDraft
				return
			}
			job.rec.GeneratedAssets = append(job.rec.GeneratedAssets, *asset)
		}()
	}
	wg.Wait()
}

// RecKey derives the stable identifier for one (scan, canonical key)
// pair. SHA1-namespaced UUIDs keep it deterministic across repeated
// renders of the same scan.
func RecKey(scanID, canonicalKey string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("beacon://"+scanID+"/"+canonicalKey)).String()
}
