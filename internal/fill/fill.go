package fill

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sitewell/beacon/internal/types"
)

// Context is the merged placeholder context for one template resolution
// pass: scan/company facts, evidence-derived facts, and caller context,
// flattened by the renderer into one tree.
type Context struct {
	// Values is addressable by dotted path ("company.name") through
	// nested map[string]any levels.
	Values map[string]any

	// Resolvers supply per-call overrides for exact placeholder keys.
	// A resolver wins over Values and over the global fallback table.
	Resolvers map[string]func() string
}

var placeholderRe = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_.]+)\s*\}\}`)

// Resolve picks the template variant for state and substitutes every
// placeholder. The resolution chain per key: per-call resolver, dotted
// lookup in ctx.Values, the global fallback table, empty string. No
// {{...}} survives into the output.
func Resolve(t Template, state types.DetectionState, ctx *Context) string {
	return Fill(t.Pick(state), ctx)
}

// ResolveList resolves an array-valued template element-wise, dropping
// entries that come out blank.
func ResolveList(ts []Template, state types.DetectionState, ctx *Context) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		if s := Resolve(t, state, ctx); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Fill substitutes placeholders in one already-picked template string.
func Fill(text string, ctx *Context) string {
	filled := placeholderRe.ReplaceAllStringFunc(text, func(m string) string {
		key := strings.Trim(m, "{} \t")
		return lookupKey(key, ctx)
	})
	return Cleanup(filled)
}

func lookupKey(key string, ctx *Context) string {
	if ctx != nil {
		if fn, ok := ctx.Resolvers[key]; ok && fn != nil {
			return fn()
		}
		if v, ok := lookupPath(ctx.Values, key); ok {
			return formatValue(v)
		}
	}
	if def, ok := globalFallbacks[key]; ok {
		return def
	}
	return ""
}

// lookupPath walks a dotted path through nested map[string]any levels.
func lookupPath(values map[string]any, path string) (any, bool) {
	if values == nil {
		return nil, false
	}
	cur := any(values)
	for _, seg := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// formatValue renders a context value as display text. Nil and empty
// values format as "" so the fallback chain's cleanup pass can erase the
// hole they leave. The literal strings "undefined" and "null" are trash
// values from upstream JS-era persistence and are treated as empty.
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		if val == "undefined" || val == "null" {
			return ""
		}
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		// Whole numbers print without a decimal point
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', 1, 64)
	case []string:
		return strings.Join(val, ", ")
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := formatValue(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprintf("%v", val)
	}
}

var (
	emptyBracketsRe  = regexp.MustCompile(`\(\s*\)|\[\s*\]`)
	multiSpaceRe     = regexp.MustCompile(`[ \t]{2,}`)
	spaceBeforePunct = regexp.MustCompile(`\s+([.,;:!?])`)
	doubledPunctRe   = regexp.MustCompile(`(\.)\.+|(,),+|(;);+|(:):+`)
)

// Cleanup repairs the artifacts empty substitutions leave behind:
// doubled spaces, space-before-punctuation, doubled punctuation, and
// now-empty () / [] pairs.
func Cleanup(s string) string {
	s = emptyBracketsRe.ReplaceAllString(s, "")
	s = multiSpaceRe.ReplaceAllString(s, " ")
	s = spaceBeforePunct.ReplaceAllString(s, "$1")
	s = doubledPunctRe.ReplaceAllString(s, "$1$2$3$4")
	return strings.TrimSpace(s)
}
