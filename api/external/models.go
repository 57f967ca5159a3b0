/* models.go
 * Contains the types returned by the sportdb client
 * Authors: Jamie Barkway
 */

package external

import "time"

// RawMatch is one match record as returned by the upstream api. The field
// naming varies by feed, so records stay untyped until the score extractor
// normalizes them.
type RawMatch map[string]any

// League is one competition the pool bets on
type League struct {
	Name     string
	Endpoint string
}

// LeagueStatus is the per-league outcome of an aggregate fetch. A failing
// league contributes an empty result set and an inline error marker instead of
// aborting the whole fetch.
type LeagueStatus struct {
	League string `json:"league"`
	Count  int    `json:"count"`
	Error  string `json:"error,omitempty"`
}

// Fixture is an upcoming match available for prediction
type Fixture struct {
	HomeName     string    `json:"homeName"`
	AwayName     string    `json:"awayName"`
	StartTimeUTC time.Time `json:"startDateTimeUtc"`
	EventID      string    `json:"eventId"`
	League       string    `json:"league"`
}
