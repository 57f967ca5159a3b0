/* models.go
 * Contains the domain types shared between the api sub packages: players, results,
 * predictions and the leaderboard row. These are the structs persisted to the db and
 * served over the web api, so bson and json tags both live here.
 * Authors: Jamie Barkway
 */

package shared

import "time"

// Outcome is the tri-state result of one round for one player. An empty
// Outcome means "undetermined" and is only ever produced by the outcome
// decider; it is never stored.
type Outcome string

const (
	OutcomeWin          Outcome = "W"
	OutcomeLoss         Outcome = "L"
	OutcomePending      Outcome = "P"
	OutcomeUndetermined Outcome = ""
)

// PickType is the kind of bet a player can place on a fixture
type PickType string

const (
	PickHome PickType = "Home"
	PickAway PickType = "Away"
	PickBTTS PickType = "BTTS"
	PickOver PickType = "O2.5"
)

// ValidPickType reports whether t is one of the four supported pick types
func ValidPickType(t PickType) bool {
	switch t {
	case PickHome, PickAway, PickBTTS, PickOver:
		return true
	}
	return false
}

// Description returns the human readable form of a pick type, used in
// notification messages
func (t PickType) Description() string {
	switch t {
	case PickBTTS:
		return "Both Teams To Score"
	case PickOver:
		return "Over 2.5 Goals"
	case PickHome, PickAway:
		return string(t) + " Win"
	}
	return string(t)
}

// Match is the fixture snapshot captured when a prediction is submitted
type Match struct {
	HomeName     string    `bson:"home_name" json:"homeName"`
	AwayName     string    `bson:"away_name" json:"awayName"`
	StartTimeUTC time.Time `bson:"start_time_utc" json:"startDateTimeUtc"`
	EventID      string    `bson:"event_id" json:"eventId"`
	League       string    `bson:"league,omitempty" json:"league,omitempty"`
}

// Score is a final score pair. A missing score is represented by a nil
// *Score, never by 0-0.
type Score struct {
	Home int `bson:"home" json:"home"`
	Away int `bson:"away" json:"away"`
}

type Prediction struct {
	Type       PickType `bson:"type" json:"type"`
	Match      Match    `bson:"match" json:"match"`
	FinalScore *Score   `bson:"final_score,omitempty" json:"finalScore,omitempty"`
	Odds       float64  `bson:"odds,omitempty" json:"odds,omitempty"`
}

// Result is one round's entry for one player. Round is an explicit 1-based
// round number; per-round lookups join on this field, never on slice position.
type Result struct {
	Round      int         `bson:"round" json:"round"`
	Outcome    Outcome     `bson:"outcome" json:"outcome"`
	Emoji      string      `bson:"emoji,omitempty" json:"emoji,omitempty"`
	Prediction *Prediction `bson:"prediction,omitempty" json:"prediction,omitempty"`
}

// Player is one member of the fixed roster. Seat is the player's position in
// the turn-order rotation, assigned at setup.
type Player struct {
	Username string   `bson:"username" json:"username"`
	Seat     int      `bson:"seat" json:"seat"`
	Results  []Result `bson:"results" json:"results"`
}

// ResultAt returns a pointer to the player's result for the given round, or
// nil if the player has no entry for that round
func (p *Player) ResultAt(round int) *Result {
	for i := range p.Results {
		if p.Results[i].Round == round {
			return &p.Results[i]
		}
	}
	return nil
}

// PendingResult returns the player's pending entry, or nil. The submission
// path guarantees there is at most one.
func (p *Player) PendingResult() *Result {
	for i := range p.Results {
		if p.Results[i].Outcome == OutcomePending {
			return &p.Results[i]
		}
	}
	return nil
}

// LastRound returns the round number of the player's most recent entry, or 0
// if they have none
func (p *Player) LastRound() int {
	if len(p.Results) == 0 {
		return 0
	}
	return p.Results[len(p.Results)-1].Round
}

// NextRound returns the round number a new entry for this player would get
func (p *Player) NextRound() int {
	return p.LastRound() + 1
}

// BetStatus records who placed the real-money bet for a round. One record per
// round, overwritten if the bet is re-marked.
type BetStatus struct {
	Round     int       `bson:"round" json:"round"`
	PlacedBy  string    `bson:"placed_by" json:"placedBy"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// PlayerStats is one leaderboard row, derived from a player's full result
// history by the statistics aggregator. Percentages are pre-formatted to one
// decimal place to match what the table renders.
type PlayerStats struct {
	Username          string `json:"user"`
	Total             int    `json:"total"`
	Wins              int    `json:"wins"`
	Losses            int    `json:"losses"`
	WinPct            string `json:"winPct"`
	Form              string `json:"form"`
	CurrentStreak     int    `json:"currentStreak"`
	LongestWinStreak  int    `json:"longestWinStreak"`
	LongestLossStreak int    `json:"longestLossStreak"`
	FineCount         int    `json:"fineCount"`
	FineTotal         int    `json:"fineTotal"`
	BTTSPct           string `json:"bttsPct"`
	HomeWinPct        string `json:"homeWinPct"`
	AwayWinPct        string `json:"awayWinPct"`
	OverPct           string `json:"o2GoalsPct"`
}
