package lexical

import (
	"regexp"
	"sort"
	"strings"
)

// Equipment code shapes: hyphenated (GB-651, CV-012A) and compact
// (GB651, EA119B). The hyphenated form is tried first; results keep
// their order of appearance in the query.
var (
	hyphenatedCode = regexp.MustCompile(`\b([A-Z]{2,}-\d+[A-Z]*)\b`)
	compactCode    = regexp.MustCompile(`\b([A-Z]{2,}\d+[A-Z]*)\b`)
)

// ExtractEquipmentCodes scans the uppercased query for equipment codes,
// de-duplicated in first-occurrence order.
func ExtractEquipmentCodes(query string) []string {
	upper := strings.ToUpper(query)

	type hit struct {
		code string
		pos  int
	}
	var hits []hit
	seen := make(map[string]bool)
	for _, re := range []*regexp.Regexp{hyphenatedCode, compactCode} {
		for _, loc := range re.FindAllStringSubmatchIndex(upper, -1) {
			code := upper[loc[2]:loc[3]]
			if seen[code] {
				continue
			}
			seen[code] = true
			hits = append(hits, hit{code: code, pos: loc[2]})
		}
	}

	if len(hits) == 0 {
		return nil
	}

	// Both patterns ran independently; restore query order.
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.code
	}
	return out
}
