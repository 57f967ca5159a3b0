/* settlement.go
 * Contains the round settlement orchestrator: collect pending predictions, check
 * the timing gate, fetch results, resolve outcomes, apply special conditions,
 * re-annotate every player's history and persist the lot.
 * Authors: Jamie Barkway
 */

package api

import (
	"context"
	"fmt"
	"time"

	"github.com/JamieBarkway/group-bet/api/external"
	"github.com/JamieBarkway/group-bet/api/logic"
	"github.com/JamieBarkway/group-bet/api/shared"
)

// settleDelay is the floor the orchestrator enforces: no settlement until the
// latest pending kickoff is this old. The auto-settle scheduler aims earlier
// (135 minutes) and simply finds the gate closed if a game ran long.
const settleDelay = 2 * time.Hour

type pendingRef struct {
	playerIdx int
	result    *shared.Result
}

// SettleRound runs one settlement pass over the whole roster.
// Preconditions: Receives a context; the store and fetcher must be reachable
// Postconditions: Pending predictions with a definitive upstream result transition to
// win/loss with their final score attached, special-condition emojis are applied,
// every player's history is re-annotated and the full player set is persisted.
// Expected flow states return a report with a nil error and no mutation. Any store
// or total fetch failure surfaces as an error with zero settlements.
func (a *API) SettleRound(ctx context.Context) (SettleReport, error) {
	players, err := a.Store.GetPlayers(ctx)
	if err != nil {
		return SettleReport{}, fmt.Errorf("failed to load players: %w", err)
	}

	// Collect pending entries that are actually settleable
	var pending []pendingRef
	for pi := range players {
		for ri := range players[pi].Results {
			r := &players[pi].Results[ri]
			if r.Outcome == shared.OutcomePending && r.Prediction != nil &&
				r.Prediction.Match.EventID != "" && !r.Prediction.Match.StartTimeUTC.IsZero() {
				pending = append(pending, pendingRef{playerIdx: pi, result: r})
			}
		}
	}
	if len(pending) == 0 {
		return SettleReport{Settled: 0, Message: "no pending predictions to settle"}, nil
	}

	// Timing gate: hold off until the latest game has had time to finish
	latestKickoff := pending[0].result.Prediction.Match.StartTimeUTC
	for _, p := range pending[1:] {
		if start := p.result.Prediction.Match.StartTimeUTC; start.After(latestKickoff) {
			latestKickoff = start
		}
	}
	if a.Now().Sub(latestKickoff) < settleDelay {
		return SettleReport{Settled: 0, Message: "too early to settle; latest game not 2h old"}, nil
	}

	raw, statuses, err := a.Fetcher.FetchResults(ctx)
	if err != nil {
		return SettleReport{}, fmt.Errorf("results fetch failed: %w", err)
	}
	for _, st := range statuses {
		if st.Error != "" {
			a.log.Warnw("league degraded during settlement", "league", st.League, "error", st.Error)
		}
	}

	byID := make(map[string]external.ExtractedScore, len(raw))
	for _, record := range raw {
		if es := external.ExtractScore(record); es.EventID != "" {
			byID[es.EventID] = es
		}
	}

	// All pending picks belong to the same round once the pool is in sync;
	// the special-condition detector is scoped to it.
	round := pending[0].result.Round

	settled := 0
	var settledPicks []logic.SettledPick
	for _, p := range pending {
		scores, ok := byID[p.result.Prediction.Match.EventID]
		if !ok {
			continue
		}
		outcome := logic.Decide(p.result.Prediction.Type, scores.Home, scores.Away)
		if outcome == shared.OutcomeUndetermined {
			// Not consumed; stays pending for the next pass
			continue
		}
		p.result.Outcome = outcome
		p.result.Prediction.FinalScore = &shared.Score{Home: *scores.Home, Away: *scores.Away}
		settled++
		settledPicks = append(settledPicks, logic.SettledPick{
			Username: players[p.playerIdx].Username,
			Type:     p.result.Prediction.Type,
			Round:    p.result.Round,
			Score:    *p.result.Prediction.FinalScore,
			Outcome:  outcome,
		})
	}

	specials := logic.DetectSpecialConditions(players, round, settledPicks)

	for pi := range players {
		overrides := make(map[int]string)
		if emoji, ok := specials[players[pi].Username]; ok {
			for ri := range players[pi].Results {
				if players[pi].Results[ri].Round == round {
					overrides[ri] = emoji
					break
				}
			}
		}
		logic.Annotate(players[pi].Results, overrides)
	}

	if err := a.Store.ReplaceAllPlayers(ctx, players); err != nil {
		return SettleReport{}, fmt.Errorf("failed to persist settled players: %w", err)
	}

	if settled > 0 && roundFullyResolved(players, round) {
		a.notify(roundSummaryMessage(players, round))
	}

	message := "recalculated emojis"
	if settled > 0 {
		message = fmt.Sprintf("settled %d predictions and recalculated emojis", settled)
	}
	a.log.Infow("settlement pass complete", "round", round, "settled", settled, "pending", len(pending)-settled)
	return SettleReport{Settled: settled, Message: message}, nil
}

// roundFullyResolved reports whether every player has a definitive outcome at
// the given round
func roundFullyResolved(players []shared.Player, round int) bool {
	for i := range players {
		r := players[i].ResultAt(round)
		if r == nil || (r.Outcome != shared.OutcomeWin && r.Outcome != shared.OutcomeLoss) {
			return false
		}
	}
	return len(players) > 0
}
