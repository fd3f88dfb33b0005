package keys

import (
	"fmt"
	"sort"
	"strings"
)

// Resolution strategies reported by ResolveTitle, used by the legacy
// adapter's debug summary.
const (
	StrategyExact           = "exact"
	StrategyAlias           = "alias"
	StrategyNormalized      = "normalized"
	StrategyFuzzyPillar     = "fuzzy_pillar"
	StrategyFuzzyGlobal     = "fuzzy_global"
	StrategyTitleDictionary = "title_dictionary"
	StrategyExistingKey     = "existing_key"
	StrategyKeywordFallback = "keyword_fallback"
)

// pillarAliases maps loose pillar spellings (display names, old category
// keys) onto canonical pillar keys.
var pillarAliases = map[string]string{
	"technical":           "technical_setup",
	"tech_setup":          "technical_setup",
	"content":             "content_structure",
	"ai_readiness":        "ai_search_readiness",
	"ai_search":           "ai_search_readiness",
	"trust":               "trust_authority",
	"trust_and_authority": "trust_authority",
	"authority":           "trust_authority",
	"media":               "media_accessibility",
	"accessibility":       "media_accessibility",
	"navigation":          "site_navigation",
	"nav":                 "site_navigation",
	"freshness":           "content_freshness",
	"brand":               "brand_visibility",
}

// keywordRule is one conservative co-occurrence rule for matching legacy
// free-text titles. Every term in the rule must appear in the normalized
// title; a single-term hit never matches. The rules are deliberately
// narrow: a false positive here rewrites the wrong persisted row.
type keywordRule struct {
	terms []string
	key   string
}

var keywordRules = []keywordRule{
	{[]string{"faq", "schema"}, "ai_search_readiness.icp_faqs"},
	{[]string{"faq", "page"}, "ai_search_readiness.icp_faqs"},
	{[]string{"organization", "schema"}, "trust_authority.organization_schema"},
	{[]string{"alt", "text"}, "media_accessibility.image_alt_text"},
	{[]string{"alt", "image"}, "media_accessibility.image_alt_text"},
	{[]string{"meta", "description"}, "technical_setup.meta_descriptions"},
	{[]string{"heading", "hierarchy"}, "content_structure.heading_hierarchy"},
	{[]string{"heading", "structure"}, "content_structure.heading_hierarchy"},
	{[]string{"llms", "txt"}, "ai_search_readiness.llms_txt"},
	{[]string{"author", "bio"}, "trust_authority.author_bios"},
	{[]string{"breadcrumb", "schema"}, "site_navigation.breadcrumb_schema"},
	{[]string{"sitemap", "xml"}, "technical_setup.xml_sitemap"},
	{[]string{"structured", "data"}, "technical_setup.structured_data"},
}

// Resolver maps any historical subfactor spelling to one canonical
// "pillar.subfactor" key. It is immutable after construction and safe
// for unsynchronized concurrent use.
type Resolver struct {
	known    map[string]bool
	byPillar map[string][]string // pillar -> sorted subfactor keys
	aliases  map[string]string   // old loose key -> canonical key
	titles   map[string]string   // normalized free-text title -> canonical key
}

// NewResolver builds a resolver over the registry's canonical key set.
// aliases and titles are the versioned rename/dictionary tables; both may
// be nil.
func NewResolver(canonical []string, aliases, titles map[string]string) *Resolver {
	r := &Resolver{
		known:    make(map[string]bool, len(canonical)),
		byPillar: make(map[string][]string),
		aliases:  make(map[string]string, len(aliases)),
		titles:   make(map[string]string, len(titles)),
	}
	for _, k := range canonical {
		r.known[k] = true
		pillar, sub := SplitKey(k)
		if sub != "" {
			r.byPillar[pillar] = append(r.byPillar[pillar], sub)
		}
	}
	// Deterministic fuzzy-match order
	for _, subs := range r.byPillar {
		sort.Strings(subs)
	}
	for k, v := range aliases {
		r.aliases[NormalizeKey(k)] = v
	}
	for k, v := range titles {
		r.titles[NormalizeTitle(k)] = v
	}
	return r
}

// Resolve maps a key in any format to its canonical form, optionally
// using a pillar hint. It returns "" when nothing matches; an unknown
// subfactor is not an error.
//
// Resolution order (first match wins): exact dotted match, alias table,
// normalized retry of both, fuzzy match within the hinted pillar, global
// fuzzy match.
func (r *Resolver) Resolve(raw, pillarHint string) string {
	key, _ := r.ResolveWithStrategy(raw, pillarHint)
	return key
}

// ResolveWithStrategy is Resolve plus the name of the strategy that
// matched, for diagnostics.
func (r *Resolver) ResolveWithStrategy(raw, pillarHint string) (string, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ""
	}
	hint := r.normalizePillar(pillarHint)

	// Step 1: exact dotted match
	if r.known[raw] {
		return raw, StrategyExact
	}
	// Step 2: alias table
	if k, ok := r.aliases[raw]; ok {
		return k, StrategyAlias
	}

	// Step 3: normalize and retry steps 1-2
	norm := NormalizeKey(raw)
	candidates := []string{norm}
	if hint != "" && !strings.Contains(norm, ".") {
		candidates = append(candidates, BuildKey(hint, norm))
	}
	for _, c := range candidates {
		if r.known[c] {
			return c, StrategyNormalized
		}
		if k, ok := r.aliases[c]; ok {
			return k, StrategyNormalized
		}
	}

	// Fuzzy matching works on the bare subfactor segment.
	_, sub := SplitKey(norm)
	if sub == "" {
		sub = norm
	}

	// Step 4: fuzzy match within the hinted pillar
	if hint != "" {
		if match := fuzzyMatch(sub, r.byPillar[hint]); match != "" {
			return BuildKey(hint, match), StrategyFuzzyPillar
		}
	}

	// Step 5: global fuzzy match, pillar order fixed for determinism
	pillars := make([]string, 0, len(r.byPillar))
	for p := range r.byPillar {
		pillars = append(pillars, p)
	}
	sort.Strings(pillars)
	for _, p := range pillars {
		if match := fuzzyMatch(sub, r.byPillar[p]); match != "" {
			return BuildKey(p, match), StrategyFuzzyGlobal
		}
	}

	return "", ""
}

// ResolveTitle maps a legacy free-text recommendation title to a
// canonical key, reporting which strategy matched. Dictionary lookup
// runs first; the keyword fallback only fires when at least two
// distinctive terms co-occur.
func (r *Resolver) ResolveTitle(title string) (key, strategy string) {
	norm := NormalizeTitle(title)
	if norm == "" {
		return "", ""
	}
	if k, ok := r.titles[norm]; ok {
		return k, StrategyTitleDictionary
	}

	words := make(map[string]bool)
	for _, w := range strings.Fields(norm) {
		words[strings.Trim(w, ".,:;()[]\"'")] = true
	}
	for _, rule := range keywordRules {
		all := true
		for _, term := range rule.terms {
			if !words[term] {
				all = false
				break
			}
		}
		if all && r.known[rule.key] {
			return rule.key, StrategyKeywordFallback
		}
	}
	return "", ""
}

// Known reports whether key is a canonical registry key.
func (r *Resolver) Known(key string) bool {
	return r.known[key]
}

// SelfCheck validates the resolver's data tables: every alias value,
// title-dictionary value, and keyword-rule target must itself be a
// canonical key. Run once at registry load.
func (r *Resolver) SelfCheck() error {
	for alias, target := range r.aliases {
		if !r.known[target] {
			return fmt.Errorf("alias %q points at unknown key %q", alias, target)
		}
	}
	for title, target := range r.titles {
		if !r.known[target] {
			return fmt.Errorf("title dictionary entry %q points at unknown key %q", title, target)
		}
	}
	for _, rule := range keywordRules {
		if !r.known[rule.key] {
			return fmt.Errorf("keyword rule %v points at unknown key %q", rule.terms, rule.key)
		}
	}
	return nil
}

// normalizePillar maps a loose pillar spelling (display name, camelCase,
// old category key) onto a canonical pillar key, or "" when unknown.
func (r *Resolver) normalizePillar(hint string) string {
	hint = strings.Trim(ToSnake(strings.ReplaceAll(hint, "&", " ")), "_")
	hint = strings.ReplaceAll(hint, "__", "_")
	if hint == "" {
		return ""
	}
	if _, ok := r.byPillar[hint]; ok {
		return hint
	}
	if mapped, ok := pillarAliases[hint]; ok {
		if _, known := r.byPillar[mapped]; known {
			return mapped
		}
	}
	return ""
}

// fuzzyMatch finds a registry subfactor that extends sub or that sub
// extends ("faq" matches "faq_coverage"; "faq_coverage_score" normalized
// to "faq_coverage" matches "faq_coverage"). Candidates must be sorted;
// the first hit wins so results are deterministic. Matches shorter than
// four characters are rejected to keep prefix matching honest.
func fuzzyMatch(sub string, candidates []string) string {
	if len(sub) < 4 {
		return ""
	}
	for _, c := range candidates {
		if strings.HasPrefix(c, sub) || strings.HasPrefix(sub, c) {
			return c
		}
	}
	return ""
}
