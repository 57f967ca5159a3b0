/* models.go
 * Contains the request/response types and sentinel errors for the api package
 * Authors: Jamie Barkway
 */

package api

import (
	"errors"

	"github.com/JamieBarkway/group-bet/api/shared"
)

// PickRequest is a prediction submission: the pick type plus the fixture
// snapshot it applies to
type PickRequest struct {
	Type  shared.PickType
	Match shared.Match
}

// SettleReport is the structured outcome of a settlement invocation. Expected
// flow states ("too early", "nothing to settle") are reported here with a nil
// error.
type SettleReport struct {
	Settled int    `json:"settled"`
	Message string `json:"message"`
}

// BetStatusInfo pairs the current round number with that round's bet status,
// which is nil when nobody has marked the bet placed yet
type BetStatusInfo struct {
	CurrentRound int               `json:"currentWeek"`
	Status       *shared.BetStatus `json:"status"`
}

// Validation and conflict errors surfaced to callers. The web layer maps these
// onto status codes.
var (
	ErrUnknownPlayer   = errors.New("unknown player")
	ErrInvalidPickType = errors.New("invalid prediction type")
	ErrMissingFixture  = errors.New("prediction is missing its fixture details")
	ErrPendingExists   = errors.New("player already has a pending prediction")
	ErrFixtureTaken    = errors.New("someone already picked this fixture")
	ErrUnknownRound    = errors.New("no result for that round")
	ErrNotPending      = errors.New("only pending predictions can be removed")
	ErrNoFixtureMatch  = errors.New("no upcoming fixture matches that name")
	ErrInvalidOdds     = errors.New("odds must be greater than zero")
)
