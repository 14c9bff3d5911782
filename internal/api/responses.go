package api

import (
	"math"

	"github.com/plantops/eventlens/internal/dataset"
	"github.com/plantops/eventlens/internal/router"
)

// AskRequest is the query payload for POST /ask.
type AskRequest struct {
	Query string `json:"query" binding:"required"`
}

// AskResponse is the answer envelope for POST /ask.
type AskResponse struct {
	Success    bool    `json:"success"`
	Answer     string  `json:"answer"`
	Method     string  `json:"method"`
	Confidence float64 `json:"confidence"`
	Query      string  `json:"query"`
	Cached     bool    `json:"cached"`
	Count      int     `json:"count,omitempty"`
	GraphData  any     `json:"graph_data,omitempty"`
}

// QuickStatsResponse is a compact dataset snapshot for dashboards.
type QuickStatsResponse struct {
	TotalEvents  int                    `json:"total_events"`
	Columns      int                    `json:"columns"`
	DateRange    *dataset.DateRangeInfo `json:"date_range,omitempty"`
	DailyStats   *dataset.DailyStats    `json:"daily_stats,omitempty"`
	TopEquipment []NamedCount           `json:"top_equipment,omitempty"`
	TopAreas     []NamedCount           `json:"top_areas,omitempty"`
}

// NamedCount is one label with its event count.
type NamedCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// toAskResponse wraps a routed answer in the API envelope. Confidence is
// rounded to one decimal for the wire.
func toAskResponse(query string, ans *router.Answer, cached bool) AskResponse {
	return AskResponse{
		Success:    true,
		Answer:     ans.Answer,
		Method:     ans.Method,
		Confidence: math.Round(ans.Confidence*10) / 10,
		Query:      query,
		Cached:     cached,
		Count:      ans.Count,
		GraphData:  ans.GraphData,
	}
}
