package filters

import (
	"fmt"
	"strings"

	"github.com/plantops/eventlens/internal/dataset"
)

// Breakdown limits for the LLM context. "Show all" queries lift the
// primary limit.
const (
	contextTopPrimary   = 20
	contextTopSecondary = 10
	contextShowAllLimit = 200
)

var showAllKeywords = []string{
	"semua", "seluruh", "lengkap", "daftar", "list", "show all", "tampilkan semua",
}

// BuildContext renders a filtered view into the textual context block fed
// to the language model: dataset scale, applied filters and a hierarchical
// equipment breakdown.
func (r *Resolver) BuildContext(query string, set *Set, view *dataset.Table) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Dataset: %d events total, %d match the current question.\n",
		r.table.Len(), view.Len())

	if len(set.Applied) > 0 {
		fmt.Fprintf(&b, "Active filters: %s.\n", strings.Join(set.Applied, "; "))
	}

	limit := contextTopPrimary
	if wantsAll(query) {
		limit = contextShowAllLimit
	}

	r.writeHierarchy(&b, view, limit)

	for _, pair := range [][2]string{
		{"category", r.keys.Category},
		{"area", r.keys.Area},
		{"status", r.keys.Status},
		{"severity", r.keys.Severity},
	} {
		writeCounts(&b, view, pair[0], pair[1], contextTopSecondary)
	}

	return b.String()
}

// writeHierarchy emits equipment -> name -> PI tag counts.
func (r *Resolver) writeHierarchy(b *strings.Builder, view *dataset.Table, limit int) {
	if r.keys.Identifier == "" {
		return
	}
	counts := view.ValueCounts(r.keys.Identifier)
	if len(counts) == 0 {
		return
	}
	if len(counts) > limit {
		counts = counts[:limit]
	}
	fmt.Fprintf(b, "Events per equipment (top %d):\n", len(counts))
	for _, vc := range counts {
		fmt.Fprintf(b, "- %s: %d", vc.Value, vc.Count)
		if name := firstValueFor(view, r.keys.Identifier, vc.Value, r.keys.EquipmentName); name != "" {
			fmt.Fprintf(b, " (%s)", name)
		}
		if tag := firstValueFor(view, r.keys.Identifier, vc.Value, r.keys.PITag); tag != "" {
			fmt.Fprintf(b, " [tag %s]", tag)
		}
		b.WriteByte('\n')
	}
}

// firstValueFor returns the first non-empty related value for an
// identifier, e.g. its equipment name or PI tag.
func firstValueFor(view *dataset.Table, idColumn, id, column string) string {
	if column == "" {
		return ""
	}
	for i := 0; i < view.Len(); i++ {
		if view.Value(i, idColumn) != id {
			continue
		}
		if v := view.Value(i, column); v != "" {
			return v
		}
	}
	return ""
}

// writeCounts emits a per-role value tally.
func writeCounts(b *strings.Builder, view *dataset.Table, role, column string, limit int) {
	if column == "" {
		return
	}
	counts := view.ValueCounts(column)
	if len(counts) == 0 {
		return
	}
	if len(counts) > limit {
		counts = counts[:limit]
	}
	fmt.Fprintf(b, "By %s:", role)
	for i, vc := range counts {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(b, " %s=%d", vc.Value, vc.Count)
	}
	b.WriteByte('\n')
}

// wantsAll reports whether the query asks for an unabridged listing.
func wantsAll(query string) bool {
	lower := strings.ToLower(query)
	for _, kw := range showAllKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
