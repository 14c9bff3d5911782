package lexical

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectLanguage(t *testing.T) {
	testCases := []struct {
		name     string
		query    string
		expected string
	}{
		{"indonesian question", "berapa jumlah alarm bulan agustus?", "id"},
		{"english question", "how many alarms in august?", "en"},
		{"single indonesian token", "show data for GB-651", "en"},
		{"mixed leaning indonesian", "tampilkan semua event GB-651", "id"},
		{"empty", "", "en"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, DetectLanguage(tc.query))
		})
	}
}

func TestDetectIntents(t *testing.T) {
	testCases := []struct {
		name     string
		query    string
		expected []string
	}{
		{"comparison via vs", "GB-651 vs EA-119 in august", []string{IntentComparison}},
		{"count english", "how many events occurred?", []string{IntentCount}},
		{"anomaly indonesian", "ada anomali di bulan juli?", []string{IntentAnomaly}},
		{"top and count", "berapa hari dengan event paling banyak", []string{IntentCount, IntentTop}},
		{"nothing", "GB-651", []string{IntentGeneral}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, DetectIntents(tc.query))
		})
	}
}

func TestExtractEquipmentCodes(t *testing.T) {
	testCases := []struct {
		name     string
		query    string
		expected []string
	}{
		{"two hyphenated", "Compare GB-651 vs EA-119 in August", []string{"GB-651", "EA-119"}},
		{"compact form", "events for GB651 today", []string{"GB651"}},
		{"suffix letter", "status of CV-012A", []string{"CV-012A"}},
		{"duplicates collapse", "GB-651 and GB-651 again", []string{"GB-651"}},
		{"none", "how many events in august", nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ExtractEquipmentCodes(tc.query))
		})
	}
}

func TestExtractMonths(t *testing.T) {
	months := ExtractMonths("bandingkan agustus dengan september")
	assert.Equal(t, []time.Month{time.August, time.September}, months)

	assert.Empty(t, ExtractMonths("may I see the data"), "three-letter forms must not match")
	assert.Equal(t, []time.Month{time.July}, ExtractMonths("kejadian bulan juli"))
}

func TestExtractDateRanges(t *testing.T) {
	t.Run("same month with name", func(t *testing.T) {
		ranges := ExtractDateRanges("show events 10-17 september")
		require.NotEmpty(t, ranges)
		r := ranges[0]
		assert.Equal(t, RangeSameMonth, r.Kind)
		assert.Equal(t, 10, r.StartDay)
		assert.Equal(t, 17, r.EndDay)
		assert.Equal(t, time.September, r.StartMonth)
	})

	t.Run("cross month", func(t *testing.T) {
		ranges := ExtractDateRanges("alarms from 28 august - 16 september")
		require.NotEmpty(t, ranges)
		r := ranges[0]
		assert.Equal(t, RangeCrossMonth, r.Kind)
		assert.Equal(t, 28, r.StartDay)
		assert.Equal(t, time.August, r.StartMonth)
		assert.Equal(t, 16, r.EndDay)
		assert.Equal(t, time.September, r.EndMonth)
	})

	t.Run("tanggal range without month", func(t *testing.T) {
		ranges := ExtractDateRanges("event tanggal 15-18")
		require.NotEmpty(t, ranges)
		r := ranges[0]
		assert.Equal(t, RangeSameMonth, r.Kind)
		assert.Equal(t, 15, r.StartDay)
		assert.Equal(t, 18, r.EndDay)
		assert.Equal(t, time.Month(0), r.StartMonth)
	})

	t.Run("single day", func(t *testing.T) {
		ranges := ExtractDateRanges("kejadian tanggal 15 agustus")
		require.NotEmpty(t, ranges)
		r := ranges[0]
		assert.Equal(t, RangeSingleDay, r.Kind)
		assert.Equal(t, 15, r.StartDay)
		assert.Equal(t, 15, r.EndDay)
	})

	t.Run("single day not split from range", func(t *testing.T) {
		ranges := ExtractDateRanges("event tanggal 15-18")
		for _, r := range ranges {
			assert.NotEqual(t, RangeSingleDay, r.Kind)
		}
	})

	t.Run("no dates", func(t *testing.T) {
		assert.Empty(t, ExtractDateRanges("how many events for GB-651"))
	})
}
