package filters

import "strings"

// Methods a confidence score can be computed for.
const (
	MethodTemporal    = "temporal_analysis"
	MethodAnomaly     = "anomaly_detection"
	MethodComparison  = "comparison"
	MethodIdentifier  = "identifier_search"
	MethodLLMAnalysis = "llm_analysis"
	MethodGeneralLLM  = "general_llm"
)

// ambiguousTerms are deictic words that make a query hard to pin down
// without conversation history.
var ambiguousTerms = []string{
	"itu", "ini", "nya", "tersebut", "yang tadi", "that", "this",
}

const (
	confidenceBase     = 100.0
	nullRatioThreshold = 0.3
)

// ScoreInput carries everything the confidence heuristic looks at.
type ScoreInput struct {
	Query     string
	Method    string
	Rows      int
	Filters   *Set
	NullRatio float64
}

// Score computes the answer confidence. Zero matched rows is terminal;
// every other signal adjusts the base score, clamped to [0, 100]. The
// adjustments apply in a fixed order so identical inputs always score
// identically.
func Score(in ScoreInput) float64 {
	if in.Rows == 0 {
		return 0
	}
	score := confidenceBase

	switch {
	case in.Rows < 3:
		score -= 20
	case in.Rows < 10:
		score -= 10
	}

	if in.Filters == nil || in.Filters.Empty() {
		score -= 15
	}

	lower := strings.ToLower(in.Query)
	for _, term := range ambiguousTerms {
		if strings.Contains(lower, term) {
			score -= 10
			break
		}
	}

	if in.Method == MethodIdentifier {
		score = min(100, score+10)
	}
	if in.Method == MethodLLMAnalysis {
		score -= 5
	}

	if in.NullRatio > nullRatioThreshold {
		score -= 15
	}

	if in.Filters != nil && (len(in.Filters.Months) > 0 || in.Filters.Day != 0) {
		score = min(100, score+5)
	}

	return max(0, score)
}
