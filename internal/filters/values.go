package filters

import (
	"regexp"
	"strings"
)

const minWordMatchLen = 4

// resolveValues scans the query for literal categorical values from the
// bound category, area, status, severity and limit type columns. The
// first matching value claims each role.
func (r *Resolver) resolveValues(set *Set, query string) {
	lower := strings.ToLower(query)
	tokens := tokenSet(lower)

	roles := [][2]string{
		{"category", r.keys.Category},
		{"area", r.keys.Area},
		{"status", r.keys.Status},
		{"severity", r.keys.Severity},
		{"limit_type", r.keys.LimitType},
	}
	for _, role := range roles {
		name, column := role[0], role[1]
		if column == "" {
			continue
		}
		if v, ok := r.matchValue(lower, tokens, column); ok {
			set.Values = append(set.Values, ValueFilter{Role: name, Column: column, Value: v})
		}
	}
}

// matchValue finds the first column value mentioned in the query. Short
// values must appear as standalone tokens; longer ones match on word
// boundaries, either whole or by their significant words.
func (r *Resolver) matchValue(lower string, tokens map[string]bool, column string) (string, bool) {
	values := r.table.DistinctValues(column)

	for _, v := range values {
		lv := strings.ToLower(v)
		if len(lv) < minWordMatchLen {
			if tokens[lv] {
				return v, true
			}
			continue
		}
		if wordBoundaryMatch(lower, lv) {
			return v, true
		}
	}

	// Second pass: a significant word of a multi-word value is enough.
	for _, v := range values {
		lv := strings.ToLower(v)
		if !strings.Contains(lv, " ") {
			continue
		}
		for _, w := range strings.Fields(lv) {
			if len(w) >= minWordMatchLen && wordBoundaryMatch(lower, w) {
				return v, true
			}
		}
	}
	return "", false
}

// wordBoundaryMatch reports whether needle appears in text bounded by
// non-word characters.
func wordBoundaryMatch(text, needle string) bool {
	re, err := regexp.Compile(`\b` + regexp.QuoteMeta(needle) + `\b`)
	if err != nil {
		return false
	}
	return re.MatchString(text)
}

// tokenSet splits a lowercased query into punctuation-trimmed tokens.
func tokenSet(lower string) map[string]bool {
	out := make(map[string]bool)
	for _, tok := range strings.Fields(lower) {
		out[strings.Trim(tok, ".,?!;:\"'()")] = true
	}
	return out
}
