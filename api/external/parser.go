/* parser.go
 * Contains the score extractor that normalizes a raw upstream match record into a
 * score pair and event id, tolerant of the several field-naming conventions the
 * results feeds use
 * Authors: Jamie Barkway
 */

package external

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ExtractedScore is the normalized form of a raw match record. Nil scores mean
// the record is not yet settleable; they must never be read as 0-0.
type ExtractedScore struct {
	Home    *int
	Away    *int
	EventID string
}

// scoreFieldPairs are tried in priority order: full-time score fields first,
// then the generic variants seen across feeds.
var scoreFieldPairs = [][2]string{
	{"homeFullTimeScore", "awayFullTimeScore"},
	{"homeScoreFt", "awayScoreFt"},
	{"homeScore", "awayScore"},
	{"home_score", "away_score"},
	{"home", "away"},
}

var eventIDFields = []string{"eventId", "id", "event_id"}

var combinedScoreRe = regexp.MustCompile(`(\d+)\s*[-:]\s*(\d+)`)

// ExtractScore normalizes a raw match record.
// Preconditions: Receives a decoded upstream record of any supported shape
// Postconditions: Returns the first score pair where both fields parse as integers,
// falling back to a combined "2-1" style score string, and the first identifier-like
// field found. Fields that do not parse are left nil.
func ExtractScore(raw RawMatch) ExtractedScore {
	var out ExtractedScore

	for _, pair := range scoreFieldPairs {
		home := parseScoreInt(raw[pair[0]])
		away := parseScoreInt(raw[pair[1]])
		if home != nil && away != nil {
			out.Home = home
			out.Away = away
			break
		}
	}

	if out.Home == nil || out.Away == nil {
		if s, ok := raw["score"].(string); ok {
			if m := combinedScoreRe.FindStringSubmatch(s); m != nil {
				// The regexp only matches digit runs, so these always parse
				h, _ := strconv.Atoi(m[1])
				a, _ := strconv.Atoi(m[2])
				out.Home = &h
				out.Away = &a
			}
		}
	}

	for _, field := range eventIDFields {
		if id := stringifyID(raw[field]); id != "" {
			out.EventID = id
			break
		}
	}

	return out
}

// parseScoreInt parses a score value that may arrive as a JSON number or a
// numeric string. Returns nil for anything else.
func parseScoreInt(v any) *int {
	switch val := v.(type) {
	case float64:
		n := int(val)
		return &n
	case int:
		n := val
		return &n
	case json.Number:
		n, err := strconv.Atoi(val.String())
		if err != nil {
			return nil
		}
		return &n
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return nil
		}
		return &n
	default:
		return nil
	}
}

// stringifyID renders an identifier-like field as a string. Numeric ids are
// formatted without a decimal point.
func stringifyID(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatInt(int64(val), 10)
	case int:
		return strconv.Itoa(val)
	case json.Number:
		return val.String()
	default:
		return ""
	}
}

// parseFixture builds a typed Fixture from a raw upcoming-match record.
// Records missing a name, kickoff time or event id are skipped by the caller.
func parseFixture(raw RawMatch, league string) (Fixture, error) {
	f := Fixture{League: league}

	home, _ := raw["homeName"].(string)
	away, _ := raw["awayName"].(string)
	if home == "" || away == "" {
		return Fixture{}, fmt.Errorf("fixture record missing team names")
	}
	f.HomeName = home
	f.AwayName = away

	f.EventID = stringifyID(raw["eventId"])
	if f.EventID == "" {
		f.EventID = stringifyID(raw["id"])
	}
	if f.EventID == "" {
		return Fixture{}, fmt.Errorf("fixture record missing event id")
	}

	start, _ := raw["startDateTimeUtc"].(string)
	if start == "" {
		start, _ = raw["startTimeUtc"].(string)
	}
	if start == "" {
		return Fixture{}, fmt.Errorf("fixture record missing kickoff time")
	}
	t, err := time.Parse(time.RFC3339, start)
	if err != nil {
		return Fixture{}, fmt.Errorf("bad kickoff time %q: %w", start, err)
	}
	f.StartTimeUTC = t.UTC()

	return f, nil
}
