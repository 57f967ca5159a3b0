/* settlement_test.go
 * Contains unit tests for settlement.go - the round settlement orchestrator
 * Authors: Jamie Barkway
 */

package api

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/JamieBarkway/group-bet/api/external"
	"github.com/JamieBarkway/group-bet/api/logic"
	"github.com/JamieBarkway/group-bet/api/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var kickoff = time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC)

func pendingPlayer(username string, seat int, round int, pickType shared.PickType, eventID string) shared.Player {
	p := shared.Player{Username: username, Seat: seat}
	for r := 1; r < round; r++ {
		p.Results = append(p.Results, shared.Result{Round: r, Outcome: shared.OutcomeWin,
			Prediction: &shared.Prediction{Type: shared.PickHome}})
	}
	p.Results = append(p.Results, shared.Result{
		Round:   round,
		Outcome: shared.OutcomePending,
		Prediction: &shared.Prediction{
			Type: pickType,
			Match: shared.Match{
				HomeName:     "Arsenal",
				AwayName:     "Chelsea",
				StartTimeUTC: kickoff,
				EventID:      eventID,
			},
		},
	})
	return p
}

func resultRecord(eventID string, home, away int) external.RawMatch {
	return external.RawMatch{
		"eventId":           eventID,
		"homeFullTimeScore": float64(home),
		"awayFullTimeScore": float64(away),
	}
}

func settleAPI(t *testing.T, store *MockStore, fetcher *MockFetcher, notifier *MockNotifier, now time.Time) *API {
	t.Helper()
	// Forward a true nil when no notifier is wanted, so the unconfigured-sink
	// path is exercised rather than a typed-nil interface value
	var sink Notifier
	if notifier != nil {
		sink = notifier
	}
	a, err := NewAPI(store, fetcher, sink, nil)
	require.NoError(t, err)
	a.Now = func() time.Time { return now }
	return a
}

// region SettleRound tests

func TestSettleRound_NothingPending(t *testing.T) {
	store := NewMockStore([]shared.Player{settledPlayer("alice", 1, shared.OutcomeWin)})
	fetcher := &MockFetcher{}
	a := settleAPI(t, store, fetcher, nil, kickoff.Add(3*time.Hour))

	report, err := a.SettleRound(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Settled)
	assert.Equal(t, "no pending predictions to settle", report.Message)
	assert.Equal(t, 0, fetcher.FetchResultsCalls)
	assert.Empty(t, store.ReplacedPlayers)
}

func TestSettleRound_GateClosedBeforeTwoHours(t *testing.T) {
	store := NewMockStore([]shared.Player{pendingPlayer("alice", 1, 1, shared.PickHome, "e1")})
	fetcher := &MockFetcher{Results: []external.RawMatch{resultRecord("e1", 2, 0)}}
	a := settleAPI(t, store, fetcher, nil, kickoff.Add(119*time.Minute))

	report, err := a.SettleRound(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Settled)
	assert.Contains(t, report.Message, "too early")
	assert.Equal(t, 0, fetcher.FetchResultsCalls)
	assert.Empty(t, store.ReplacedPlayers)
}

func TestSettleRound_GateOpensAfterTwoHours(t *testing.T) {
	store := NewMockStore([]shared.Player{pendingPlayer("alice", 1, 1, shared.PickHome, "e1")})
	fetcher := &MockFetcher{Results: []external.RawMatch{resultRecord("e1", 2, 0)}}
	a := settleAPI(t, store, fetcher, nil, kickoff.Add(121*time.Minute))

	report, err := a.SettleRound(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Settled)
}

func TestSettleRound_GateUsesLatestKickoff(t *testing.T) {
	alice := pendingPlayer("alice", 1, 1, shared.PickHome, "e1")
	bob := pendingPlayer("bob", 2, 1, shared.PickAway, "e2")
	// bob's game kicks off three hours after alice's
	bob.Results[0].Prediction.Match.StartTimeUTC = kickoff.Add(3 * time.Hour)
	store := NewMockStore([]shared.Player{alice, bob})
	fetcher := &MockFetcher{Results: []external.RawMatch{resultRecord("e1", 2, 0), resultRecord("e2", 0, 1)}}
	a := settleAPI(t, store, fetcher, nil, kickoff.Add(4*time.Hour))

	report, err := a.SettleRound(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Settled)
	assert.Contains(t, report.Message, "too early")
}

func TestSettleRound_ResolvesOutcomesAndPersists(t *testing.T) {
	store := NewMockStore([]shared.Player{
		pendingPlayer("alice", 1, 1, shared.PickHome, "e1"),
		pendingPlayer("bob", 2, 1, shared.PickOver, "e2"),
	})
	fetcher := &MockFetcher{Results: []external.RawMatch{
		resultRecord("e1", 2, 0),
		resultRecord("e2", 1, 1),
	}}
	a := settleAPI(t, store, fetcher, nil, kickoff.Add(3*time.Hour))

	report, err := a.SettleRound(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Settled)
	assert.Contains(t, report.Message, "settled 2 predictions")
	require.Len(t, store.ReplacedPlayers, 1)

	alice := store.Players[0].ResultAt(1)
	require.NotNil(t, alice)
	assert.Equal(t, shared.OutcomeWin, alice.Outcome)
	require.NotNil(t, alice.Prediction.FinalScore)
	assert.Equal(t, shared.Score{Home: 2, Away: 0}, *alice.Prediction.FinalScore)

	bob := store.Players[1].ResultAt(1)
	require.NotNil(t, bob)
	assert.Equal(t, shared.OutcomeLoss, bob.Outcome)
}

func TestSettleRound_MissingResultStaysPending(t *testing.T) {
	store := NewMockStore([]shared.Player{
		pendingPlayer("alice", 1, 1, shared.PickHome, "e1"),
		pendingPlayer("bob", 2, 1, shared.PickAway, "postponed"),
	})
	fetcher := &MockFetcher{Results: []external.RawMatch{resultRecord("e1", 2, 0)}}
	a := settleAPI(t, store, fetcher, nil, kickoff.Add(3*time.Hour))

	report, err := a.SettleRound(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Settled)

	bob := store.Players[1].ResultAt(1)
	require.NotNil(t, bob)
	assert.Equal(t, shared.OutcomePending, bob.Outcome)
	assert.Nil(t, bob.Prediction.FinalScore)
}

func TestSettleRound_UndeterminedScoreNotConsumed(t *testing.T) {
	store := NewMockStore([]shared.Player{pendingPlayer("alice", 1, 1, shared.PickHome, "e1")})
	// record exists but carries no readable score yet
	fetcher := &MockFetcher{Results: []external.RawMatch{{"eventId": "e1", "score": "postponed"}}}
	a := settleAPI(t, store, fetcher, nil, kickoff.Add(3*time.Hour))

	report, err := a.SettleRound(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Settled)
	assert.Equal(t, "recalculated emojis", report.Message)
	assert.Equal(t, shared.OutcomePending, store.Players[0].ResultAt(1).Outcome)
}

func TestSettleRound_FetchFailureAbortsWithoutMutation(t *testing.T) {
	store := NewMockStore([]shared.Player{pendingPlayer("alice", 1, 1, shared.PickHome, "e1")})
	fetcher := &MockFetcher{FetchResultsError: fmt.Errorf("all 5 result feeds failed")}
	a := settleAPI(t, store, fetcher, nil, kickoff.Add(3*time.Hour))

	_, err := a.SettleRound(context.Background())
	assert.Error(t, err)
	assert.Empty(t, store.ReplacedPlayers)
	assert.Equal(t, shared.OutcomePending, store.Players[0].ResultAt(1).Outcome)
}

func TestSettleRound_PersistFailureSurfaces(t *testing.T) {
	store := NewMockStore([]shared.Player{pendingPlayer("alice", 1, 1, shared.PickHome, "e1")})
	store.ReplaceAllPlayersError = fmt.Errorf("write concern failed")
	fetcher := &MockFetcher{Results: []external.RawMatch{resultRecord("e1", 2, 0)}}
	a := settleAPI(t, store, fetcher, nil, kickoff.Add(3*time.Hour))

	_, err := a.SettleRound(context.Background())
	assert.Error(t, err)
}

func TestSettleRound_ThirdWinEarnsFireGlyph(t *testing.T) {
	alice := pendingPlayer("alice", 1, 3, shared.PickHome, "e1")
	store := NewMockStore([]shared.Player{alice})
	fetcher := &MockFetcher{Results: []external.RawMatch{resultRecord("e1", 3, 1)}}
	a := settleAPI(t, store, fetcher, nil, kickoff.Add(3*time.Hour))

	report, err := a.SettleRound(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Settled)

	r := store.Players[0].ResultAt(3)
	require.NotNil(t, r)
	assert.Equal(t, shared.OutcomeWin, r.Outcome)
	assert.Equal(t, logic.EmojiFire, r.Emoji)
}

func TestSettleRound_OnlyLoserGetsNauseated(t *testing.T) {
	store := NewMockStore([]shared.Player{
		pendingPlayer("alice", 1, 1, shared.PickHome, "e1"),
		pendingPlayer("bob", 2, 1, shared.PickAway, "e2"),
	})
	fetcher := &MockFetcher{Results: []external.RawMatch{
		resultRecord("e1", 0, 1), // alice loses
		resultRecord("e2", 0, 1), // bob wins
	}}
	a := settleAPI(t, store, fetcher, nil, kickoff.Add(3*time.Hour))

	_, err := a.SettleRound(context.Background())
	require.NoError(t, err)

	assert.Equal(t, logic.EmojiNauseated, store.Players[0].ResultAt(1).Emoji)
	assert.Empty(t, store.Players[1].ResultAt(1).Emoji)
}

func TestSettleRound_GoallessOverPickGetsSleepy(t *testing.T) {
	store := NewMockStore([]shared.Player{
		pendingPlayer("alice", 1, 1, shared.PickOver, "e1"),
		pendingPlayer("bob", 2, 1, shared.PickHome, "e2"),
	})
	fetcher := &MockFetcher{Results: []external.RawMatch{
		resultRecord("e1", 0, 0),
		resultRecord("e2", 0, 2),
	}}
	a := settleAPI(t, store, fetcher, nil, kickoff.Add(3*time.Hour))

	_, err := a.SettleRound(context.Background())
	require.NoError(t, err)

	// both lost, so no only-loser glyph; alice still earns sleepy
	assert.Equal(t, logic.EmojiSleepy, store.Players[0].ResultAt(1).Emoji)
	assert.Empty(t, store.Players[1].ResultAt(1).Emoji)
}

func TestSettleRound_RoundSummarySentWhenFullyResolved(t *testing.T) {
	store := NewMockStore([]shared.Player{
		pendingPlayer("alice", 1, 1, shared.PickHome, "e1"),
		pendingPlayer("bob", 2, 1, shared.PickAway, "e2"),
	})
	fetcher := &MockFetcher{Results: []external.RawMatch{
		resultRecord("e1", 2, 0),
		resultRecord("e2", 0, 1),
	}}
	notifier := &MockNotifier{}
	a := settleAPI(t, store, fetcher, notifier, kickoff.Add(3*time.Hour))

	_, err := a.SettleRound(context.Background())
	require.NoError(t, err)

	require.Len(t, notifier.Messages, 1)
	assert.Contains(t, notifier.Messages[0], "Round 1 Results")
	assert.Contains(t, notifier.Messages[0], "✅ Win")
}

func TestSettleRound_SummaryShowsOddsOnWins(t *testing.T) {
	alice := pendingPlayer("alice", 1, 1, shared.PickHome, "e1")
	alice.ResultAt(1).Prediction.Odds = 2.1
	store := NewMockStore([]shared.Player{alice})
	fetcher := &MockFetcher{Results: []external.RawMatch{resultRecord("e1", 2, 0)}}
	notifier := &MockNotifier{}
	a := settleAPI(t, store, fetcher, notifier, kickoff.Add(3*time.Hour))

	_, err := a.SettleRound(context.Background())
	require.NoError(t, err)

	require.Len(t, notifier.Messages, 1)
	assert.Contains(t, notifier.Messages[0], "✅ Win @ 2.10")
}

func TestSettleRound_NoSummaryWhilePartiallyResolved(t *testing.T) {
	store := NewMockStore([]shared.Player{
		pendingPlayer("alice", 1, 1, shared.PickHome, "e1"),
		pendingPlayer("bob", 2, 1, shared.PickAway, "missing"),
	})
	fetcher := &MockFetcher{Results: []external.RawMatch{resultRecord("e1", 2, 0)}}
	notifier := &MockNotifier{}
	a := settleAPI(t, store, fetcher, notifier, kickoff.Add(3*time.Hour))

	_, err := a.SettleRound(context.Background())
	require.NoError(t, err)
	assert.Empty(t, notifier.Messages)
}

func TestSettleRound_NoNotifierConfigured(t *testing.T) {
	store := NewMockStore([]shared.Player{
		pendingPlayer("alice", 1, 1, shared.PickHome, "e1"),
		pendingPlayer("bob", 2, 1, shared.PickAway, "e2"),
	})
	fetcher := &MockFetcher{Results: []external.RawMatch{
		resultRecord("e1", 2, 0),
		resultRecord("e2", 0, 1),
	}}
	a := settleAPI(t, store, fetcher, nil, kickoff.Add(3*time.Hour))

	report, err := a.SettleRound(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Settled)
	require.Len(t, store.ReplacedPlayers, 1)
	assert.Equal(t, shared.OutcomeWin, store.Players[0].ResultAt(1).Outcome)
}

// endregion

// region nextSettleWait tests

func TestNextSettleWait_NothingPending(t *testing.T) {
	store := NewMockStore([]shared.Player{settledPlayer("alice", 1, shared.OutcomeWin)})
	a := settleAPI(t, store, &MockFetcher{}, nil, kickoff)

	assert.Equal(t, pollInterval, a.nextSettleWait(context.Background()))
}

func TestNextSettleWait_CountsDownToAutoSettle(t *testing.T) {
	store := NewMockStore([]shared.Player{pendingPlayer("alice", 1, 1, shared.PickHome, "e1")})
	a := settleAPI(t, store, &MockFetcher{}, nil, kickoff.Add(30*time.Minute))

	wait := a.nextSettleWait(context.Background())
	assert.Equal(t, autoSettleDelay-30*time.Minute, wait)
}

func TestNextSettleWait_DueNow(t *testing.T) {
	store := NewMockStore([]shared.Player{pendingPlayer("alice", 1, 1, shared.PickHome, "e1")})
	a := settleAPI(t, store, &MockFetcher{}, nil, kickoff.Add(3*time.Hour))

	assert.LessOrEqual(t, a.nextSettleWait(context.Background()), time.Duration(0))
}

func TestNextSettleWait_StoreErrorFallsBackToPolling(t *testing.T) {
	store := NewMockStore(nil)
	store.GetPlayersError = fmt.Errorf("connection reset")
	a := settleAPI(t, store, &MockFetcher{}, nil, kickoff)

	assert.Equal(t, pollInterval, a.nextSettleWait(context.Background()))
}

// endregion
