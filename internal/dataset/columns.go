package dataset

import "strings"

// KeyColumns maps semantic roles to concrete column names. An empty field
// means the role is unbound for this dataset. The map is computed once at
// load time and never changes afterwards.
type KeyColumns struct {
	Identifier    string `json:"identifier,omitempty"`
	EquipmentName string `json:"equipment_name,omitempty"`
	PITag         string `json:"pi_tag,omitempty"`
	Category      string `json:"category,omitempty"`
	Area          string `json:"area,omitempty"`
	Status        string `json:"status,omitempty"`
	Severity      string `json:"severity,omitempty"`
	LimitType     string `json:"limit_type,omitempty"`
	Date          string `json:"date,omitempty"`
	Description   string `json:"description,omitempty"`
}

// Categorical returns the bound categorical roles as (role, column) pairs
// in breakdown order.
func (k KeyColumns) Categorical() [][2]string {
	pairs := [][2]string{
		{"identifier", k.Identifier},
		{"equipment_name", k.EquipmentName},
		{"pi_tag", k.PITag},
		{"category", k.Category},
		{"area", k.Area},
		{"status", k.Status},
		{"severity", k.Severity},
		{"limit_type", k.LimitType},
	}
	out := pairs[:0]
	for _, p := range pairs {
		if p[1] != "" {
			out = append(out, p)
		}
	}
	return out
}

// BindKeyColumns resolves each semantic role against the table headers.
// Candidate lists are tried in priority order with case-insensitive exact
// matches; a column claimed by an earlier role stays available to later
// ones only when no better candidate exists.
func BindKeyColumns(t *Table) KeyColumns {
	k := KeyColumns{
		Identifier:    findColumn(t, "Equipment", "Asset", "Equipment Code", "Asset Code"),
		EquipmentName: findColumn(t, "Equipment Name", "Asset Name", "Name"),
		PITag:         findColumn(t, "TagNamePI", "PI Tag", "Tag Name", "Tag"),
		Category:      findColumn(t, "Asset Category", "Type", "Category", "Event Type", "Alarm Type"),
		Area:          findColumn(t, "Plant Area", "Area Authority", "Area", "Location"),
		Status:        findColumn(t, "Status", "State"),
		Severity:      findColumn(t, "Severity"),
		Description:   findColumn(t, "Description", "Message", "Event Description", "Alarm Description"),
	}
	k.LimitType = findLimitColumn(t)
	k.Date = findDateColumn(t)
	return k
}

// findColumn returns the first header matching any candidate,
// case-insensitively; candidates take priority over header order.
func findColumn(t *Table, candidates ...string) string {
	for _, cand := range candidates {
		for _, h := range t.headers {
			if strings.EqualFold(h, cand) {
				return h
			}
		}
	}
	return ""
}

// findLimitColumn locates the alarm limit type column: a header containing
// "limit" or "alarm" whose values include a high or low marker.
func findLimitColumn(t *Table) string {
	for _, h := range t.headers {
		lower := strings.ToLower(h)
		if !strings.Contains(lower, "limit") && !strings.Contains(lower, "alarm") {
			continue
		}
		for _, v := range t.DistinctValues(h) {
			switch strings.ToLower(v) {
			case "high", "hi", "hh", "low", "lo", "ll":
				return h
			}
		}
	}
	return ""
}

// findDateColumn returns the first column recognized as holding timestamps.
func findDateColumn(t *Table) string {
	for _, h := range t.headers {
		if t.IsDateColumn(h) {
			return h
		}
	}
	return ""
}
