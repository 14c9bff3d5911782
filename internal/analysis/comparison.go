package analysis

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/plantops/eventlens/internal/dataset"
	"github.com/plantops/eventlens/internal/filters"
	"github.com/plantops/eventlens/internal/i18n"
	"github.com/plantops/eventlens/internal/lexical"
)

// Comparison modes, in decision priority order.
const (
	CompareEquipment       = "equipment"
	CompareEquipmentMonths = "equipment_months"
	CompareMonths          = "months"
	CompareTopN            = "top_n"
	CompareAreas           = "areas"
	CompareCategories      = "categories"
)

const (
	defaultTopN           = 5
	concentrationPct      = 60.0
	comparisonMaxEntities = 12
)

// Entity is one compared side with its scoped view.
type Entity struct {
	Name  string
	Count int
	View  *dataset.Table
}

// ComparisonResult is the resolved comparison. Entities keep their
// extraction order; Highest and Lowest point into that slice.
type ComparisonResult struct {
	Mode     string
	Entities []Entity
	Highest  *Entity
	Lowest   *Entity
	Total    int
}

// Comparator resolves comparison queries against the event table.
type Comparator struct {
	table *dataset.Table
	keys  dataset.KeyColumns
}

// NewComparator creates a comparator over the full table.
func NewComparator(table *dataset.Table, keys dataset.KeyColumns) *Comparator {
	return &Comparator{table: table, keys: keys}
}

var topNRe = regexp.MustCompile(`\btop\s+(\d{1,2})\b`)

// Compare picks the comparison mode for a query and builds the entity
// views. Mode choice walks a fixed priority: explicit top-N, named
// equipment, one equipment across months, month versus month, then areas
// or categories named in the query text. Returns nil when the query names
// nothing comparable, so the caller can hand the query to a later stage.
func (c *Comparator) Compare(ex filters.Extraction, set *filters.Set) *ComparisonResult {
	scoped := filters.ApplyTimeFilters(c.table, set, c.keys.Date)
	lower := strings.ToLower(ex.Query)

	codes := set.ComparisonIdentifiers
	if len(codes) == 0 {
		codes = ex.Codes
	}

	switch {
	case topNRe.MatchString(lower):
		n, _ := strconv.Atoi(topNRe.FindStringSubmatch(lower)[1])
		return c.compareTop(scoped, n, CompareTopN)
	case len(codes) >= 2:
		return c.compareEquipment(scoped, codes)
	case len(codes) == 1 && len(ex.Months) >= 2:
		return c.compareEquipmentMonths(codes[0], ex.Months, ex.Lang)
	case len(ex.Months) >= 2:
		return c.compareMonths(ex.Months, ex.Lang)
	}

	if areas := c.matchedValues(c.keys.Area, lower); len(areas) >= 2 {
		return c.compareValues(scoped, c.keys.Area, CompareAreas, areas)
	}
	if cats := c.matchedValues(c.keys.Category, lower); len(cats) >= 2 {
		return c.compareValues(scoped, c.keys.Category, CompareCategories, cats)
	}
	return nil
}

// matchedValues returns the column's distinct values that appear verbatim
// in the lowercased query, ordered by their position in the query.
func (c *Comparator) matchedValues(column, lower string) []string {
	if column == "" {
		return nil
	}
	type hit struct {
		value string
		pos   int
	}
	var hits []hit
	for _, v := range c.table.DistinctValues(column) {
		lv := strings.ToLower(v)
		if lv == "" {
			continue
		}
		if pos := strings.Index(lower, lv); pos >= 0 {
			hits = append(hits, hit{value: v, pos: pos})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })
	out := make([]string, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.value)
	}
	return out
}

// compareEquipment builds one entity per named code within the scoped
// time window.
func (c *Comparator) compareEquipment(scoped *dataset.Table, codes []string) *ComparisonResult {
	res := &ComparisonResult{Mode: CompareEquipment}
	for _, code := range codes {
		view := filters.FilterIdentifier(scoped, c.keys.Identifier, code)
		res.Entities = append(res.Entities, Entity{Name: code, Count: view.Len(), View: view})
	}
	finish(res)
	return res
}

// compareEquipmentMonths tracks a single equipment across months.
func (c *Comparator) compareEquipmentMonths(code string, months []time.Month, lang string) *ComparisonResult {
	base := filters.FilterIdentifier(c.table, c.keys.Identifier, code)
	res := &ComparisonResult{Mode: CompareEquipmentMonths}
	for _, m := range months {
		month := m
		view := base.Filter(func(i int) bool {
			ts := base.Time(i, c.keys.Date)
			return !ts.IsZero() && ts.Month() == month
		})
		name := fmt.Sprintf("%s (%s)", code, lexical.MonthName(m, lang))
		res.Entities = append(res.Entities, Entity{Name: name, Count: view.Len(), View: view})
	}
	finish(res)
	return res
}

// compareMonths builds one entity per named month.
func (c *Comparator) compareMonths(months []time.Month, lang string) *ComparisonResult {
	res := &ComparisonResult{Mode: CompareMonths}
	for _, m := range months {
		month := m
		view := c.table.Filter(func(i int) bool {
			ts := c.table.Time(i, c.keys.Date)
			return !ts.IsZero() && ts.Month() == month
		})
		res.Entities = append(res.Entities, Entity{Name: lexical.MonthName(m, lang), Count: view.Len(), View: view})
	}
	finish(res)
	return res
}

// compareTop compares the n busiest equipment in the scoped window.
func (c *Comparator) compareTop(scoped *dataset.Table, n int, mode string) *ComparisonResult {
	if n <= 0 || n > comparisonMaxEntities {
		n = defaultTopN
	}
	res := &ComparisonResult{Mode: mode}
	if c.keys.Identifier == "" {
		return res
	}
	counts := scoped.ValueCounts(c.keys.Identifier)
	if len(counts) > n {
		counts = counts[:n]
	}
	for _, vc := range counts {
		value := vc.Value
		view := scoped.Filter(func(i int) bool {
			return scoped.Value(i, c.keys.Identifier) == value
		})
		res.Entities = append(res.Entities, Entity{Name: value, Count: vc.Count, View: view})
	}
	finish(res)
	return res
}

// compareValues compares the named values of one categorical column.
func (c *Comparator) compareValues(scoped *dataset.Table, column, mode string, values []string) *ComparisonResult {
	if len(values) > comparisonMaxEntities {
		values = values[:comparisonMaxEntities]
	}
	res := &ComparisonResult{Mode: mode}
	for _, value := range values {
		value := value
		view := scoped.Filter(func(i int) bool {
			return scoped.Value(i, column) == value
		})
		res.Entities = append(res.Entities, Entity{Name: value, Count: view.Len(), View: view})
	}
	finish(res)
	return res
}

// finish totals the entities and tags the extremes. The first-seen
// maximum wins ties; the minimum never reuses the highest entity.
func finish(res *ComparisonResult) {
	if len(res.Entities) == 0 {
		return
	}
	hi, lo := 0, -1
	for i := range res.Entities {
		res.Total += res.Entities[i].Count
		if res.Entities[i].Count > res.Entities[hi].Count {
			hi = i
		}
	}
	for i := range res.Entities {
		if i == hi {
			continue
		}
		if lo < 0 || res.Entities[i].Count < res.Entities[lo].Count {
			lo = i
		}
	}
	res.Highest = &res.Entities[hi]
	if lo >= 0 {
		res.Lowest = &res.Entities[lo]
	}
}

// ComparisonReport renders the comparison as a bilingual answer:
// executive summary, ranked table, per-entity breakdown and insights.
func (c *Comparator) ComparisonReport(res *ComparisonResult, lang string) string {
	if len(res.Entities) == 0 {
		return i18n.T("no_data", lang)
	}
	var b strings.Builder

	fmt.Fprintf(&b, "## %s\n\n", i18n.T("comparison_header", lang))
	fmt.Fprintf(&b, "%s: %d %s, %d entities\n\n",
		i18n.T("total_events", lang), res.Total, i18n.T("events", lang), len(res.Entities))

	ranked := make([]Entity, len(res.Entities))
	copy(ranked, res.Entities)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Count > ranked[j].Count })

	for i, e := range ranked {
		marker := "⚪ " + i18n.T("normal", lang)
		switch {
		case res.Highest != nil && e.Name == res.Highest.Name:
			marker = "🔴 " + i18n.T("highest", lang)
		case res.Lowest != nil && e.Name == res.Lowest.Name:
			marker = "🟢 " + i18n.T("lowest", lang)
		}
		pct := 0.0
		if res.Total > 0 {
			pct = float64(e.Count) / float64(res.Total) * 100
		}
		fmt.Fprintf(&b, "%d. %s: %d %s (%.1f%%) %s\n",
			i+1, e.Name, e.Count, i18n.T("events", lang), pct, marker)
	}
	b.WriteByte('\n')

	c.writeBreakdown(&b, res, lang)
	writeInsights(&b, res, lang)
	return b.String()
}

// writeBreakdown emits per-entity categorical tallies.
func (c *Comparator) writeBreakdown(b *strings.Builder, res *ComparisonResult, lang string) {
	fmt.Fprintf(b, "### %s\n", i18n.T("breakdown", lang))
	for _, e := range res.Entities {
		fmt.Fprintf(b, "**%s** (%d %s)\n", e.Name, e.Count, i18n.T("events", lang))
		for _, pair := range c.keys.Categorical() {
			role, column := pair[0], pair[1]
			if role == "identifier" && res.Mode != CompareMonths {
				continue
			}
			counts := e.View.ValueCounts(column)
			if len(counts) == 0 {
				continue
			}
			fmt.Fprintf(b, "- %s:", role)
			for i, vc := range counts {
				if i > 0 {
					b.WriteByte(',')
				}
				fmt.Fprintf(b, " %s=%d", vc.Value, vc.Count)
			}
			b.WriteByte('\n')
		}
	}
	b.WriteByte('\n')
}

// writeInsights emits the highest/lowest spread and concentration flags.
func writeInsights(b *strings.Builder, res *ComparisonResult, lang string) {
	if res.Highest == nil {
		return
	}
	fmt.Fprintf(b, "### %s\n", i18n.T("insights", lang))

	if res.Lowest != nil && res.Lowest.Count > 0 {
		diff := float64(res.Highest.Count-res.Lowest.Count) / float64(res.Lowest.Count) * 100
		fmt.Fprintf(b, "- %s %s: %d vs %d (+%.1f%%)\n",
			res.Highest.Name, strings.ToLower(i18n.T("highest", lang)),
			res.Highest.Count, res.Lowest.Count, diff)
	}

	if res.Total > 0 {
		share := float64(res.Highest.Count) / float64(res.Total) * 100
		if share > concentrationPct {
			if lang == "id" {
				fmt.Fprintf(b, "- %s menyumbang %.1f%% dari seluruh kejadian, periksa lebih lanjut.\n",
					res.Highest.Name, share)
			} else {
				fmt.Fprintf(b, "- %s accounts for %.1f%% of all events in this comparison, worth a closer look.\n",
					res.Highest.Name, share)
			}
		}
	}
}
