package lexical

import (
	"sort"
	"strings"
	"time"
)

// monthVariants maps English and Indonesian month spellings to their
// month number. Forms of three letters or fewer are skipped at match time
// because they collide with ordinary words ("may", "mar", "jan").
var monthVariants = map[string]time.Month{
	"januari": time.January, "january": time.January, "jan": time.January,
	"februari": time.February, "february": time.February, "pebruari": time.February, "feb": time.February,
	"maret": time.March, "march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"mei": time.May, "may": time.May,
	"juni": time.June, "june": time.June, "jun": time.June,
	"juli": time.July, "july": time.July, "jul": time.July,
	"agustus": time.August, "august": time.August, "agst": time.August, "aug": time.August,
	"september": time.September, "sept": time.September, "sep": time.September,
	"oktober": time.October, "october": time.October, "okt": time.October, "oct": time.October,
	"november": time.November, "nopember": time.November, "nov": time.November,
	"desember": time.December, "december": time.December, "des": time.December, "dec": time.December,
}

const minMonthNameLen = 4

// ExtractMonths returns the months named in the query, ordered by first
// occurrence and de-duplicated.
func ExtractMonths(query string) []time.Month {
	lower := strings.ToLower(query)

	type hit struct {
		month time.Month
		pos   int
	}
	best := make(map[time.Month]int)
	for name, month := range monthVariants {
		if len(name) < minMonthNameLen {
			continue
		}
		pos := strings.Index(lower, name)
		if pos < 0 {
			continue
		}
		if prev, ok := best[month]; !ok || pos < prev {
			best[month] = pos
		}
	}

	hits := make([]hit, 0, len(best))
	for month, pos := range best {
		hits = append(hits, hit{month: month, pos: pos})
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	out := make([]time.Month, len(hits))
	for i, h := range hits {
		out[i] = h.month
	}
	return out
}

// MonthName returns the localized month name.
func MonthName(m time.Month, lang string) string {
	if lang == "id" {
		return indonesianMonths[m]
	}
	return m.String()
}

var indonesianMonths = map[time.Month]string{
	time.January:   "Januari",
	time.February:  "Februari",
	time.March:     "Maret",
	time.April:     "April",
	time.May:       "Mei",
	time.June:      "Juni",
	time.July:      "Juli",
	time.August:    "Agustus",
	time.September: "September",
	time.October:   "Oktober",
	time.November:  "November",
	time.December:  "Desember",
}
