// Package fill resolves natural-language templates against a merged
// placeholder context without ever leaking template syntax.
//
// A template is either a plain string or a set of detection-state
// variants plus a default. Placeholders use {{key}} form; every key
// resolves to something (per-call resolver, context lookup, global
// fallback, or empty string) so no {{...}} can survive into output.
package fill

import (
	"fmt"

	"github.com/sitewell/beacon/internal/types"
	"gopkg.in/yaml.v3"
)

// DefaultVariant is the pseudo-state key for a template's fallback variant.
const DefaultVariant = "default"

// Template is a tagged variant: either one plain string, or a mapping of
// detection states to strings with an optional default. In YAML a plain
// scalar and a state-keyed mapping are both accepted.
type Template struct {
	plain    string
	isPlain  bool
	variants map[string]string
	order    []string // declaration order, for last-resort variant pick
}

// Plain constructs a single-variant template. Used by tests and by the
// minimal-fallback path in the renderer.
func Plain(s string) Template {
	return Template{plain: s, isPlain: true}
}

// Variants constructs a state-keyed template. The iteration order of the
// map is not preserved; callers that care about the last-resort variant
// should include a default.
func Variants(m map[string]string) Template {
	t := Template{variants: make(map[string]string, len(m))}
	for k, v := range m {
		t.variants[k] = v
		t.order = append(t.order, k)
	}
	return t
}

// IsZero reports whether the template has no content at all.
func (t Template) IsZero() bool {
	return !t.isPlain && len(t.variants) == 0
}

// Pick selects the variant for a detection state: exact state match,
// then the default variant, then the first declared variant.
func (t Template) Pick(state types.DetectionState) string {
	if t.isPlain {
		return t.plain
	}
	if v, ok := t.variants[string(state)]; ok {
		return v
	}
	if v, ok := t.variants[DefaultVariant]; ok {
		return v
	}
	if len(t.order) > 0 {
		return t.variants[t.order[0]]
	}
	return ""
}

// UnmarshalYAML accepts a scalar or a state-keyed mapping.
func (t *Template) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		t.plain = node.Value
		t.isPlain = true
		return nil
	case yaml.MappingNode:
		t.variants = make(map[string]string, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i].Value
			if key != DefaultVariant && !types.DetectionState(key).IsValid() {
				return fmt.Errorf("template variant %q is not a detection state", key)
			}
			t.variants[key] = node.Content[i+1].Value
			t.order = append(t.order, key)
		}
		if len(t.variants) == 0 {
			return fmt.Errorf("template mapping has no variants")
		}
		return nil
	default:
		return fmt.Errorf("template must be a string or a state-keyed mapping")
	}
}
