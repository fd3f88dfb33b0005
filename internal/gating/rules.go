// Package gating decides how trustworthy a recommendation's supporting
// evidence is. It turns evidence coverage and domain heuristics into a
// quality tier plus a confidence score, and downgrades automation levels
// when trust is low. Everything here is a pure function of its inputs.
package gating

import (
	"fmt"

	"github.com/sitewell/beacon/internal/evidence"
	"github.com/sitewell/beacon/internal/playbook"
	"github.com/tidwall/gjson"
)

// evalRule evaluates one declarative evidence predicate. Rules that
// compare values do not trigger on missing paths: absence is expressed
// with the absent/empty ops, not as an implicit zero.
func evalRule(ev evidence.Evidence, r *playbook.Rule) bool {
	res := ev.Get(r.Path)
	exists := res.Exists() && res.Type != gjson.Null

	switch r.Op {
	case "present":
		return exists
	case "absent":
		return !exists
	case "empty":
		if !exists {
			return true
		}
		if res.IsArray() {
			return len(res.Array()) == 0
		}
		return res.String() == ""
	case "eq":
		return exists && compareEq(res, r.Value)
	case "neq":
		return exists && !compareEq(res, r.Value)
	case "lt":
		f, ok := toFloat(r.Value)
		return exists && ok && res.Type == gjson.Number && res.Float() < f
	case "gte":
		f, ok := toFloat(r.Value)
		return exists && ok && res.Type == gjson.Number && res.Float() >= f
	default:
		// Unknown ops are rejected at registry load; never trigger here.
		return false
	}
}

// firstTriggered returns the first rule in rules that matches the
// evidence, or nil.
func firstTriggered(ev evidence.Evidence, rules []playbook.Rule) *playbook.Rule {
	for i := range rules {
		if evalRule(ev, &rules[i]) {
			return &rules[i]
		}
	}
	return nil
}

func compareEq(res gjson.Result, want any) bool {
	switch v := want.(type) {
	case string:
		return res.String() == v
	case bool:
		return res.IsBool() && res.Bool() == v
	default:
		if f, ok := toFloat(want); ok {
			return res.Type == gjson.Number && res.Float() == f
		}
		return res.String() == fmt.Sprintf("%v", want)
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	default:
		return 0, false
	}
}
