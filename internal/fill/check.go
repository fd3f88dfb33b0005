package fill

import (
	"fmt"
	"regexp"
)

// Leak detection patterns. A hit in production output is a correctness
// bug; the lint tooling runs these over every template in the registry
// resolved against an empty context.
var (
	braceLeakRe = regexp.MustCompile(`\{\{|\}\}`)

	// A lowercase bare identifier wrapped in square brackets is almost
	// always an unresolved placeholder from a pre-braces template era.
	// Safe bracket uses (citations like [1], acronyms like [SEO]) don't
	// match.
	bracketIdentRe = regexp.MustCompile(`\[[a-z][a-z0-9_]{2,}\]`)

	// "undefined"/"null" used as a standalone value, the classic
	// symptom of a missing upstream fact leaking into prose.
	literalJunkRe = regexp.MustCompile(`(?i)\b(undefined|null)\b`)
)

// Check scans resolved output for template leaks and returns one message
// per violation. Empty result means the text is clean.
func Check(output string) []string {
	var violations []string
	if braceLeakRe.MatchString(output) {
		violations = append(violations, fmt.Sprintf("unresolved placeholder braces in %q", truncate(output, 80)))
	}
	if m := bracketIdentRe.FindString(output); m != "" {
		violations = append(violations, fmt.Sprintf("bracket-wrapped identifier %s in %q", m, truncate(output, 80)))
	}
	if m := literalJunkRe.FindString(output); m != "" {
		violations = append(violations, fmt.Sprintf("literal %q used as a value in %q", m, truncate(output, 80)))
	}
	return violations
}

// CheckAll runs Check over several resolved fields and flattens the results.
func CheckAll(fields ...string) []string {
	var violations []string
	for _, f := range fields {
		violations = append(violations, Check(f)...)
	}
	return violations
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
