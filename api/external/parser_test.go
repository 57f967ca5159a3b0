/* parser_test.go
 * Contains unit tests for parser.go
 * Authors: Jamie Barkway
 */

package external

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// region ExtractScore tests

func TestExtractScore_FullTimeFields(t *testing.T) {
	raw := RawMatch{
		"homeFullTimeScore": float64(2),
		"awayFullTimeScore": float64(1),
		"eventId":           "abc123",
	}

	got := ExtractScore(raw)
	require.NotNil(t, got.Home)
	require.NotNil(t, got.Away)
	assert.Equal(t, 2, *got.Home)
	assert.Equal(t, 1, *got.Away)
	assert.Equal(t, "abc123", got.EventID)
}

func TestExtractScore_FullTimeFieldsBeatGenericOnes(t *testing.T) {
	// live feeds carry an in-play homeScore alongside the full-time one
	raw := RawMatch{
		"homeFullTimeScore": float64(3),
		"awayFullTimeScore": float64(0),
		"homeScore":         float64(1),
		"awayScore":         float64(0),
	}

	got := ExtractScore(raw)
	require.NotNil(t, got.Home)
	assert.Equal(t, 3, *got.Home)
}

func TestExtractScore_SnakeCaseFields(t *testing.T) {
	raw := RawMatch{"home_score": "0", "away_score": "2"}

	got := ExtractScore(raw)
	require.NotNil(t, got.Home)
	require.NotNil(t, got.Away)
	assert.Equal(t, 0, *got.Home)
	assert.Equal(t, 2, *got.Away)
}

func TestExtractScore_CombinedStringFallback(t *testing.T) {
	tests := []struct {
		name  string
		score string
		home  int
		away  int
	}{
		{"dash", "2-1", 2, 1},
		{"colon", "0:3", 0, 3},
		{"spaced", "1 - 1", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractScore(RawMatch{"score": tt.score})
			require.NotNil(t, got.Home)
			require.NotNil(t, got.Away)
			assert.Equal(t, tt.home, *got.Home)
			assert.Equal(t, tt.away, *got.Away)
		})
	}
}

func TestExtractScore_NoScoreStaysNil(t *testing.T) {
	got := ExtractScore(RawMatch{"eventId": "abc", "score": "postponed"})
	assert.Nil(t, got.Home)
	assert.Nil(t, got.Away)
}

func TestExtractScore_PartialPairStaysNil(t *testing.T) {
	// never treat one missing side as 0
	got := ExtractScore(RawMatch{"homeScore": float64(2)})
	assert.Nil(t, got.Home)
	assert.Nil(t, got.Away)
}

func TestExtractScore_NumericEventID(t *testing.T) {
	got := ExtractScore(RawMatch{"id": float64(98765)})
	assert.Equal(t, "98765", got.EventID)
}

func TestExtractScore_EventIDFieldPriority(t *testing.T) {
	got := ExtractScore(RawMatch{"eventId": "first", "id": "second"})
	assert.Equal(t, "first", got.EventID)
}

// endregion

// region parseScoreInt tests

func TestParseScoreInt_SupportedTypes(t *testing.T) {
	require.NotNil(t, parseScoreInt(float64(4)))
	assert.Equal(t, 4, *parseScoreInt(float64(4)))
	require.NotNil(t, parseScoreInt(" 2 "))
	assert.Equal(t, 2, *parseScoreInt(" 2 "))
	assert.Nil(t, parseScoreInt("two"))
	assert.Nil(t, parseScoreInt(nil))
	assert.Nil(t, parseScoreInt(true))
}

// endregion

// region parseFixture tests

func TestParseFixture_Valid(t *testing.T) {
	raw := RawMatch{
		"homeName":         "Arsenal",
		"awayName":         "Chelsea",
		"eventId":          "ev1",
		"startDateTimeUtc": "2026-09-05T15:00:00Z",
	}

	f, err := parseFixture(raw, "Premier League")
	require.NoError(t, err)
	assert.Equal(t, "Arsenal", f.HomeName)
	assert.Equal(t, "Chelsea", f.AwayName)
	assert.Equal(t, "ev1", f.EventID)
	assert.Equal(t, "Premier League", f.League)
	assert.Equal(t, 2026, f.StartTimeUTC.Year())
}

func TestParseFixture_AlternateTimeField(t *testing.T) {
	raw := RawMatch{
		"homeName":     "Leeds",
		"awayName":     "Derby",
		"id":           float64(42),
		"startTimeUtc": "2026-09-06T12:30:00Z",
	}

	f, err := parseFixture(raw, "Championship")
	require.NoError(t, err)
	assert.Equal(t, "42", f.EventID)
}

func TestParseFixture_MissingFields(t *testing.T) {
	_, err := parseFixture(RawMatch{"homeName": "Leeds"}, "Championship")
	assert.Error(t, err)

	_, err = parseFixture(RawMatch{"homeName": "Leeds", "awayName": "Derby"}, "Championship")
	assert.Error(t, err)

	_, err = parseFixture(RawMatch{"homeName": "Leeds", "awayName": "Derby", "id": "x"}, "Championship")
	assert.Error(t, err)
}

func TestParseFixture_BadKickoffTime(t *testing.T) {
	raw := RawMatch{
		"homeName":         "Leeds",
		"awayName":         "Derby",
		"id":               "x",
		"startDateTimeUtc": "Saturday 3pm",
	}

	_, err := parseFixture(raw, "Championship")
	assert.Error(t, err)
}

// endregion
