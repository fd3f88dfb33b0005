package playbook

import (
	_ "embed"
	"fmt"
	"sort"

	"github.com/sitewell/beacon/internal/keys"
	"github.com/sitewell/beacon/internal/types"
	"gopkg.in/yaml.v3"
)

//go:embed data/playbooks.yaml
var playbooksYAML []byte

//go:embed data/aliases.yaml
var aliasesYAML []byte

//go:embed data/titles.yaml
var titlesYAML []byte

//go:embed data/targeting.yaml
var targetingYAML []byte

// Registry is the loaded, validated playbook table. Read-only after Load.
type Registry struct {
	entries   map[string]*Entry
	ordered   []*Entry // registry declaration order
	targeting map[string]types.TargetLevel
	resolver  *keys.Resolver
}

// Load parses the embedded registry data and runs every self-check:
// entry field validation, duplicate key detection, alias/title
// resolution, and targeting-table coverage. It is called once at process
// start; a failure here is a data bug, not a runtime condition.
func Load() (*Registry, error) {
	var entryList []*Entry
	if err := yaml.Unmarshal(playbooksYAML, &entryList); err != nil {
		return nil, fmt.Errorf("failed to parse playbooks.yaml: %w", err)
	}
	if len(entryList) == 0 {
		return nil, fmt.Errorf("playbooks.yaml contains no entries")
	}

	entries := make(map[string]*Entry, len(entryList))
	canonical := make([]string, 0, len(entryList))
	for _, e := range entryList {
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("invalid playbook entry: %w", err)
		}
		if _, dup := entries[e.Key]; dup {
			return nil, fmt.Errorf("duplicate playbook key %q", e.Key)
		}
		entries[e.Key] = e
		canonical = append(canonical, e.Key)
	}

	var aliases map[string]string
	if err := yaml.Unmarshal(aliasesYAML, &aliases); err != nil {
		return nil, fmt.Errorf("failed to parse aliases.yaml: %w", err)
	}
	var titles map[string]string
	if err := yaml.Unmarshal(titlesYAML, &titles); err != nil {
		return nil, fmt.Errorf("failed to parse titles.yaml: %w", err)
	}
	var targetingRaw map[string]string
	if err := yaml.Unmarshal(targetingYAML, &targetingRaw); err != nil {
		return nil, fmt.Errorf("failed to parse targeting.yaml: %w", err)
	}

	targeting := make(map[string]types.TargetLevel, len(targetingRaw))
	for key, level := range targetingRaw {
		if _, ok := entries[key]; !ok {
			return nil, fmt.Errorf("targeting table references unknown key %q", key)
		}
		tl := types.TargetLevel(level)
		if !tl.IsValid() {
			return nil, fmt.Errorf("targeting table: invalid level %q for %s", level, key)
		}
		targeting[key] = tl
	}

	resolver := keys.NewResolver(canonical, aliases, titles)
	if err := resolver.SelfCheck(); err != nil {
		return nil, fmt.Errorf("resolver self-check failed: %w", err)
	}

	return &Registry{
		entries:   entries,
		ordered:   entryList,
		targeting: targeting,
		resolver:  resolver,
	}, nil
}

// Get returns the entry for a canonical key, or nil when unknown.
func (r *Registry) Get(key string) *Entry {
	return r.entries[key]
}

// Lookup resolves a loose key spelling (optionally with a pillar hint)
// and returns its entry. Nil means "unknown subfactor" — never an error.
func (r *Registry) Lookup(loose, pillarHint string) *Entry {
	key := r.resolver.Resolve(loose, pillarHint)
	if key == "" {
		return nil
	}
	return r.entries[key]
}

// Resolver exposes the canonical key resolver built over this registry.
func (r *Registry) Resolver() *keys.Resolver {
	return r.resolver
}

// Entries returns the entries in registry declaration order.
func (r *Registry) Entries() []*Entry {
	return r.ordered
}

// Keys returns all canonical keys sorted.
func (r *Registry) Keys() []string {
	out := make([]string, 0, len(r.entries))
	for k := range r.entries {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// TargetLevel returns the static scope for a canonical key. Keys missing
// from the targeting table are site-scoped.
func (r *Registry) TargetLevel(key string) types.TargetLevel {
	if tl, ok := r.targeting[key]; ok {
		return tl
	}
	return types.TargetSite
}
