package lexical

import (
	"strings"
	"sync"

	ahocorasick "github.com/cloudflare/ahocorasick"
)

// Intent names, in detection priority order.
const (
	IntentPITag      = "pi_tag"
	IntentAnomaly    = "anomaly"
	IntentCount      = "count"
	IntentComparison = "comparison"
	IntentTrend      = "trend"
	IntentList       = "list"
	IntentTop        = "top"
	IntentLeast      = "least"
	IntentAverage    = "average"
	IntentWhen       = "when"
	IntentWhere      = "where"
	IntentWhy        = "why"
	IntentGeneral    = "general"
)

// intentOrder fixes the output order of detected intents.
var intentOrder = []string{
	IntentPITag, IntentAnomaly, IntentCount, IntentComparison, IntentTrend,
	IntentList, IntentTop, IntentLeast, IntentAverage, IntentWhen,
	IntentWhere, IntentWhy,
}

// intentKeywords holds the bilingual trigger phrases per intent. Phrases
// match as substrings of the lowercased query.
var intentKeywords = map[string][]string{
	IntentPITag: {
		"pi tag", "tag pi", "tagname", "tag name", "pitag",
	},
	IntentAnomaly: {
		"anomali", "anomaly", "anomalies", "aneh", "tidak normal",
		"unusual", "abnormal", "outlier", "lonjakan", "spike",
		"menyimpang", "irregular",
	},
	IntentCount: {
		"berapa", "jumlah", "total", "banyaknya", "count", "how many",
		"how much",
	},
	IntentComparison: {
		"bandingkan", "compare", "perbandingan", "comparison", "versus",
		" vs ", "dibanding", "dibandingkan", "daripada",
	},
	IntentTrend: {
		"trend", "tren", "pola", "pattern", "grafik", "chart", "graph",
		"perkembangan", "timeline",
	},
	IntentList: {
		"daftar", "list", "tampilkan", "show", "sebutkan", "tunjukkan",
		"display",
	},
	IntentTop: {
		"paling banyak", "terbanyak", "tertinggi", "most", "highest",
		"top", "maksimum", "maximum", "paling sering", "tersering",
	},
	IntentLeast: {
		"paling sedikit", "tersedikit", "terendah", "least", "lowest",
		"fewest", "minimum", "paling jarang", "terjarang",
	},
	IntentAverage: {
		"rata-rata", "rata rata", "average", "mean", "rerata",
	},
	IntentWhen: {
		"kapan", "when", "jam berapa", "tanggal berapa",
	},
	IntentWhere: {
		"dimana", "di mana", "where", "lokasi", "area mana",
	},
	IntentWhy: {
		"mengapa", "kenapa", "why", "penyebab", "alasan",
	},
}

// intentMatcher is the Aho-Corasick automaton over all trigger phrases,
// built once. patternIntents maps the automaton's pattern index back to
// its intent name.
var (
	buildOnce      sync.Once
	intentMatcher  *ahocorasick.Matcher
	patternIntents []string
)

func buildMatcher() {
	var patterns []string
	for _, intent := range intentOrder {
		for _, kw := range intentKeywords[intent] {
			patterns = append(patterns, kw)
			patternIntents = append(patternIntents, intent)
		}
	}
	intentMatcher = ahocorasick.NewStringMatcher(patterns)
}

// DetectIntents returns the intents triggered by the query in priority
// order, or [general] when nothing matches.
func DetectIntents(query string) []string {
	buildOnce.Do(buildMatcher)

	text := strings.ToLower(query)
	hits := intentMatcher.Match([]byte(text))

	found := make(map[string]bool, len(hits))
	for _, hit := range hits {
		if hit < len(patternIntents) {
			found[patternIntents[hit]] = true
		}
	}

	out := make([]string, 0, len(found))
	for _, intent := range intentOrder {
		if found[intent] {
			out = append(out, intent)
		}
	}
	if len(out) == 0 {
		out = append(out, IntentGeneral)
	}
	return out
}

// HasIntent reports whether the named intent is among the detected ones.
func HasIntent(intents []string, name string) bool {
	for _, i := range intents {
		if i == name {
			return true
		}
	}
	return false
}
