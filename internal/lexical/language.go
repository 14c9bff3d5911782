// Package lexical provides the pure text extractors that turn a raw query
// into structured signals: language, intents, equipment codes, months and
// date ranges. Extractors hold no state beyond tables built at init.
package lexical

import "strings"

// indonesianTokens are common Indonesian function and question words. Two
// or more token hits classify a query as Indonesian.
var indonesianTokens = map[string]struct{}{
	"apa": {}, "yang": {}, "berapa": {}, "bagaimana": {}, "kapan": {},
	"dimana": {}, "mengapa": {}, "kenapa": {}, "adalah": {}, "dari": {},
	"di": {}, "ke": {}, "dengan": {}, "untuk": {}, "pada": {}, "dan": {},
	"atau": {}, "ini": {}, "itu": {}, "paling": {}, "banyak": {},
	"jumlah": {}, "tanggal": {}, "bulan": {}, "hari": {}, "minggu": {},
	"tahun": {}, "data": {}, "tampilkan": {}, "tunjukkan": {},
	"bandingkan": {}, "sering": {}, "terjadi": {}, "sebutkan": {},
	"semua": {}, "mana": {},
}

const indonesianThreshold = 2

// DetectLanguage returns "id" when the query contains at least two
// Indonesian tokens, otherwise "en".
func DetectLanguage(query string) string {
	hits := 0
	for _, tok := range strings.Fields(strings.ToLower(query)) {
		tok = strings.Trim(tok, ".,?!;:\"'()")
		if _, ok := indonesianTokens[tok]; ok {
			hits++
			if hits >= indonesianThreshold {
				return "id"
			}
		}
	}
	return "en"
}
