// Package keys resolves heterogeneous subfactor key spellings to one
// canonical "pillar.subfactor" form.
//
// Years of scoring-model revisions left subfactor names in camelCase,
// snake_case, dotted, suffixed ("faqCoverageScore"), and free-text title
// forms, all referring to the same dimensions. Everything that needs a
// canonical key goes through a Resolver rather than munging strings at
// the call site.
package keys

import (
	"strings"
	"unicode"
)

// ToSnake converts camelCase, kebab-case, or space-separated words to
// snake_case. Dots are preserved so dotted keys keep their structure.
func ToSnake(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)

	prevLower := false
	for _, r := range s {
		switch {
		case r == '-' || r == ' ' || r == '_':
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "_") {
				b.WriteByte('_')
			}
			prevLower = false
		case unicode.IsUpper(r):
			if prevLower {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			prevLower = false
		default:
			b.WriteRune(r)
			prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
		}
	}
	return strings.Trim(b.String(), "_")
}

// StripScoreSuffix removes a trailing "_score" segment left over from
// scoring-model key names ("faq_coverage_score" -> "faq_coverage").
// Input is expected to already be snake_case.
func StripScoreSuffix(s string) string {
	if s == "score" {
		return s
	}
	return strings.TrimSuffix(s, "_score")
}

// NormalizeKey applies the full loose-key normalization: snake_case each
// dotted segment, then strip a trailing score suffix from the last one.
func NormalizeKey(s string) string {
	parts := strings.Split(s, ".")
	for i, p := range parts {
		parts[i] = ToSnake(p)
	}
	parts[len(parts)-1] = StripScoreSuffix(parts[len(parts)-1])
	return strings.Join(parts, ".")
}

// NormalizeTitle canonicalizes a free-text recommendation title for
// dictionary lookup: trim, lowercase, collapse internal whitespace, and
// strip trailing periods.
func NormalizeTitle(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.TrimRight(s, ".")
	return strings.Join(strings.Fields(s), " ")
}

// BuildKey constructs a canonical key from its two segments.
func BuildKey(pillar, subfactor string) string {
	return pillar + "." + subfactor
}

// SplitKey splits a canonical key into pillar and subfactor. The second
// return is empty when the key is not dotted.
func SplitKey(key string) (pillar, subfactor string) {
	i := strings.IndexByte(key, '.')
	if i < 0 {
		return key, ""
	}
	return key[:i], key[i+1:]
}
