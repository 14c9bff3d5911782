// Package i18n holds the bilingual phrase table used by report builders.
// Answers follow the language detected from the query, falling back to
// English for unknown keys or languages.
package i18n

import "time"

// translations maps key -> language -> phrase.
var translations = map[string]map[string]string{
	"total_events":        {"en": "Total events", "id": "Total kejadian"},
	"period":              {"en": "Period", "id": "Periode"},
	"date_range":          {"en": "Date range", "id": "Rentang tanggal"},
	"daily_average":       {"en": "Daily average", "id": "Rata-rata harian"},
	"events":              {"en": "events", "id": "kejadian"},
	"event_count":         {"en": "Event count", "id": "Jumlah kejadian"},
	"no_data":             {"en": "No events match your query.", "id": "Tidak ada kejadian yang cocok dengan pertanyaan Anda."},
	"most_active":         {"en": "Most events", "id": "Kejadian terbanyak"},
	"least_active":        {"en": "Fewest events", "id": "Kejadian paling sedikit"},
	"highest":             {"en": "Highest", "id": "Tertinggi"},
	"lowest":              {"en": "Lowest", "id": "Terendah"},
	"normal":              {"en": "Normal", "id": "Normal"},
	"anomaly_header":      {"en": "Anomaly Analysis", "id": "Analisis Anomali"},
	"no_anomalies":        {"en": "No anomalous days detected in this period.", "id": "Tidak ada hari anomali yang terdeteksi pada periode ini."},
	"too_few_days":        {"en": "Not enough daily history for anomaly detection (at least 7 days required).", "id": "Riwayat harian belum cukup untuk deteksi anomali (minimal 7 hari)."},
	"baseline":            {"en": "Baseline", "id": "Garis dasar"},
	"expected_range":      {"en": "Expected range", "id": "Rentang normal"},
	"severity":            {"en": "Severity", "id": "Tingkat keparahan"},
	"deviation":           {"en": "Deviation", "id": "Penyimpangan"},
	"peak_hour":           {"en": "Peak hour", "id": "Jam puncak"},
	"pattern_summary":     {"en": "Pattern summary", "id": "Ringkasan pola"},
	"recommended_actions": {"en": "Recommended actions", "id": "Tindakan yang disarankan"},
	"comparison_header":   {"en": "Comparison", "id": "Perbandingan"},
	"breakdown":           {"en": "Breakdown", "id": "Rincian"},
	"insights":            {"en": "Insights", "id": "Wawasan"},
	"timeline":            {"en": "Timeline", "id": "Linimasa"},
	"trend_increasing":    {"en": "increasing", "id": "meningkat"},
	"trend_decreasing":    {"en": "decreasing", "id": "menurun"},
	"trend_stable":        {"en": "stable", "id": "stabil"},
	"busiest_days":        {"en": "Busiest days", "id": "Hari tersibuk"},
	"day_of_month":        {"en": "day", "id": "tanggal"},
	"llm_failed":          {"en": "The analysis service is unavailable right now. Please try again later.", "id": "Layanan analisis sedang tidak tersedia. Silakan coba lagi nanti."},
}

// T returns the phrase for key in the given language, falling back to
// English, then to the key itself.
func T(key, lang string) string {
	entry, ok := translations[key]
	if !ok {
		return key
	}
	if phrase, ok := entry[lang]; ok {
		return phrase
	}
	return entry["en"]
}

var indonesianDays = map[time.Weekday]string{
	time.Monday:    "Senin",
	time.Tuesday:   "Selasa",
	time.Wednesday: "Rabu",
	time.Thursday:  "Kamis",
	time.Friday:    "Jumat",
	time.Saturday:  "Sabtu",
	time.Sunday:    "Minggu",
}

// DayName returns the localized weekday name.
func DayName(d time.Weekday, lang string) string {
	if lang == "id" {
		return indonesianDays[d]
	}
	return d.String()
}
