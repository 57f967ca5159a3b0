/* api.go
 * This file contains the public methods for interacting with this package:
 * prediction submission and removal, the leaderboard read path, bet status and
 * fixture lookups. Settlement lives in settlement.go and the notification message
 * builders in notify.go.
 * Authors: Jamie Barkway
 */

package api

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"go.uber.org/zap"

	"github.com/JamieBarkway/group-bet/api/external"
	"github.com/JamieBarkway/group-bet/api/logic"
	"github.com/JamieBarkway/group-bet/api/shared"
	"github.com/JamieBarkway/group-bet/api/store"
)

// ResultsFetcher is the upstream sports-data collaborator
type ResultsFetcher interface {
	FetchResults(ctx context.Context) ([]external.RawMatch, []external.LeagueStatus, error)
	FetchFixtures(ctx context.Context) ([]external.Fixture, []external.LeagueStatus, error)
}

// Notifier is the fire-and-forget notification sink. Delivery failures are
// logged and never fail the parent operation.
type Notifier interface {
	Send(text string) error
}

// API provides the operations the web server and the bot are built on
type API struct {
	Store    store.Interface
	Fetcher  ResultsFetcher
	Notifier Notifier
	// Now is the clock used by the settlement gate; injectable for tests
	Now func() time.Time
	log *zap.SugaredLogger
}

// NewAPI wires an API from its collaborators. The notifier may be nil, in
// which case notifications are skipped.
func NewAPI(s store.Interface, fetcher ResultsFetcher, notifier Notifier, logger *zap.SugaredLogger) (*API, error) {
	if s == nil || fetcher == nil {
		return nil, fmt.Errorf("store and fetcher are required")
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &API{
		Store:    s,
		Fetcher:  fetcher,
		Notifier: notifier,
		Now:      time.Now,
		log:      logger,
	}, nil
}

// SubmitPrediction records a new pending prediction for a player.
// Preconditions: Receives the player's username and the pick (type plus fixture snapshot)
// Postconditions: Appends a pending result for the player's next round and persists the
// roster, or returns a validation/conflict error with no mutation. When the submission
// completes the pool is notified, and if every player now has a pending pick a round
// summary with streak warnings goes out too.
func (a *API) SubmitPrediction(ctx context.Context, username string, pick PickRequest) error {
	if !shared.ValidPickType(pick.Type) {
		return ErrInvalidPickType
	}
	if pick.Match.EventID == "" || pick.Match.StartTimeUTC.IsZero() {
		return ErrMissingFixture
	}

	players, err := a.Store.GetPlayers(ctx)
	if err != nil {
		return err
	}

	player := findPlayer(players, username)
	if player == nil {
		return ErrUnknownPlayer
	}
	if player.PendingResult() != nil {
		return ErrPendingExists
	}

	// Advisory duplicate-fixture check across the whole roster
	for i := range players {
		if pending := players[i].PendingResult(); pending != nil &&
			pending.Prediction != nil &&
			pending.Prediction.Match.EventID == pick.Match.EventID {
			return ErrFixtureTaken
		}
	}

	player.Results = append(player.Results, shared.Result{
		Round:   player.NextRound(),
		Outcome: shared.OutcomePending,
		Prediction: &shared.Prediction{
			Type:  pick.Type,
			Match: pick.Match,
		},
	})

	if err := a.Store.ReplaceAllPlayers(ctx, players); err != nil {
		return err
	}

	a.notify(newPickMessage(username, pick))

	if everyPlayerPending(players) {
		a.notify(allPicksMessage(players))
	}
	return nil
}

// RemovePrediction deletes a player's prediction. A round of 0 means "the
// pending one". Only pending entries can be removed.
func (a *API) RemovePrediction(ctx context.Context, username string, round int) error {
	players, err := a.Store.GetPlayers(ctx)
	if err != nil {
		return err
	}

	player := findPlayer(players, username)
	if player == nil {
		return ErrUnknownPlayer
	}

	var target *shared.Result
	if round <= 0 {
		target = player.PendingResult()
		if target == nil {
			return ErrNotPending
		}
	} else {
		target = player.ResultAt(round)
		if target == nil {
			return ErrUnknownRound
		}
	}
	if target.Outcome != shared.OutcomePending {
		return ErrNotPending
	}

	removed := *target
	kept := player.Results[:0]
	for _, r := range player.Results {
		if r.Round != removed.Round {
			kept = append(kept, r)
		}
	}
	player.Results = kept

	if err := a.Store.ReplaceAllPlayers(ctx, players); err != nil {
		return err
	}

	taunt := logic.DeletionTaunt(username)
	if removed.Prediction != nil {
		m := removed.Prediction.Match
		taunt += fmt.Sprintf("\n\n❌ *%s vs %s*", m.HomeName, m.AwayName)
	}
	a.notify(taunt)
	return nil
}

// Leaderboard computes the leaderboard rows for the whole roster, ordered by
// win percentage descending
func (a *API) Leaderboard(ctx context.Context) ([]shared.PlayerStats, error) {
	players, err := a.Store.GetPlayers(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]shared.PlayerStats, 0, len(players))
	for _, p := range players {
		rows = append(rows, logic.AggregateStats(p))
	}

	sort.SliceStable(rows, func(i, j int) bool {
		wi, _ := strconv.ParseFloat(rows[i].WinPct, 64)
		wj, _ := strconv.ParseFloat(rows[j].WinPct, 64)
		return wi > wj
	})
	return rows, nil
}

// SetOdds records bookmaker odds against players' predictions for a round.
// Preconditions: Receives the 1-based round number and a username → odds map
// Postconditions: Updates every named player's prediction for that round and
// persists the roster, or returns a validation error with no mutation
func (a *API) SetOdds(ctx context.Context, round int, odds map[string]float64) error {
	if len(odds) == 0 {
		return nil
	}
	for _, o := range odds {
		if o <= 0 {
			return ErrInvalidOdds
		}
	}

	players, err := a.Store.GetPlayers(ctx)
	if err != nil {
		return err
	}
	for username, o := range odds {
		player := findPlayer(players, username)
		if player == nil {
			return ErrUnknownPlayer
		}
		result := player.ResultAt(round)
		if result == nil || result.Prediction == nil {
			return ErrUnknownRound
		}
		result.Prediction.Odds = o
	}
	return a.Store.ReplaceAllPlayers(ctx, players)
}

// PlayerStats returns a single player's aggregated record.
// Preconditions: Receives the player's username
// Postconditions: Returns the derived stats, or ErrUnknownPlayer when the
// username is not in the pool
func (a *API) PlayerStats(ctx context.Context, username string) (shared.PlayerStats, error) {
	players, err := a.Store.GetPlayers(ctx)
	if err != nil {
		return shared.PlayerStats{}, err
	}
	player := findPlayer(players, username)
	if player == nil {
		return shared.PlayerStats{}, ErrUnknownPlayer
	}
	return logic.AggregateStats(*player), nil
}

// Players returns the raw roster with full result histories
func (a *API) Players(ctx context.Context) ([]shared.Player, error) {
	return a.Store.GetPlayers(ctx)
}

// UpcomingFixtures returns future fixtures across the configured leagues,
// soonest first
func (a *API) UpcomingFixtures(ctx context.Context) ([]external.Fixture, error) {
	fixtures, _, err := a.Fetcher.FetchFixtures(ctx)
	if err != nil {
		return nil, err
	}

	now := a.Now()
	upcoming := fixtures[:0]
	for _, f := range fixtures {
		if f.StartTimeUTC.After(now) {
			upcoming = append(upcoming, f)
		}
	}
	return upcoming, nil
}

// FindFixture fuzzy-matches a team name against the upcoming fixtures, so bot
// users can pick without typing the exact name. The best-ranked match wins.
func (a *API) FindFixture(ctx context.Context, query string) (external.Fixture, error) {
	fixtures, err := a.UpcomingFixtures(ctx)
	if err != nil {
		return external.Fixture{}, err
	}

	targets := make([]string, 0, len(fixtures)*2)
	index := make(map[string]int)
	for i, f := range fixtures {
		for _, name := range []string{f.HomeName, f.AwayName} {
			lower := strings.ToLower(name)
			if _, seen := index[lower]; !seen {
				index[lower] = i
				targets = append(targets, lower)
			}
		}
	}

	ranks := fuzzy.RankFind(strings.ToLower(query), targets)
	if len(ranks) == 0 {
		return external.Fixture{}, ErrNoFixtureMatch
	}
	sort.Sort(ranks)
	return fixtures[index[ranks[0].Target]], nil
}

// CurrentRound returns the highest round any player has an entry for
func CurrentRound(players []shared.Player) int {
	round := 0
	for i := range players {
		if last := players[i].LastRound(); last > round {
			round = last
		}
	}
	return round
}

// NextPickRound returns the round the pool is currently picking: the open
// round while any pick is pending, otherwise the round after the last settled
// one.
func NextPickRound(players []shared.Player) int {
	for i := range players {
		if pending := players[i].PendingResult(); pending != nil {
			return pending.Round
		}
	}
	return CurrentRound(players) + 1
}

// BetStatus reports the current round and who, if anyone, has placed the
// real-money bet for it
func (a *API) BetStatus(ctx context.Context) (BetStatusInfo, error) {
	players, err := a.Store.GetPlayers(ctx)
	if err != nil {
		return BetStatusInfo{}, err
	}

	info := BetStatusInfo{CurrentRound: CurrentRound(players)}
	status, err := a.Store.GetBetStatus(ctx, info.CurrentRound)
	if err != nil {
		// No record for the round is a normal state, not a failure
		return info, nil
	}
	info.Status = &status
	return info, nil
}

// MarkBetPlaced records that username placed the real-money bet for the
// current round, overwriting any earlier record for it
func (a *API) MarkBetPlaced(ctx context.Context, username string) error {
	players, err := a.Store.GetPlayers(ctx)
	if err != nil {
		return err
	}
	if findPlayer(players, username) == nil {
		return ErrUnknownPlayer
	}

	status := shared.BetStatus{
		Round:     CurrentRound(players),
		PlacedBy:  username,
		Timestamp: a.Now().UTC(),
	}
	if err := a.Store.UpsertBetStatus(ctx, status); err != nil {
		return err
	}

	a.notify(fmt.Sprintf("💰 **%s** has placed the bet for round %d", username, status.Round))
	return nil
}

// WhoseTurn returns the player due to place the bet for the round currently
// being picked, together with that round number
func (a *API) WhoseTurn(ctx context.Context) (string, int, error) {
	players, err := a.Store.GetPlayers(ctx)
	if err != nil {
		return "", 0, err
	}

	roster := make([]string, len(players))
	for i, p := range players {
		roster[i] = p.Username
	}
	round := NextPickRound(players)
	return logic.TurnForRound(roster, round), round, nil
}

// notify sends text to the notification sink, swallowing and logging any
// delivery failure
func (a *API) notify(text string) {
	if a.Notifier == nil || text == "" {
		return
	}
	if err := a.Notifier.Send(text); err != nil {
		a.log.Warnw("notification failed", "error", err)
	}
}

func findPlayer(players []shared.Player, username string) *shared.Player {
	for i := range players {
		if players[i].Username == username {
			return &players[i]
		}
	}
	return nil
}

func everyPlayerPending(players []shared.Player) bool {
	for i := range players {
		if players[i].PendingResult() == nil {
			return false
		}
	}
	return len(players) > 0
}
