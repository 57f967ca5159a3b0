/* scheduler.go
 * Contains the background loop that settles a round automatically once enough
 * time has passed after the latest pending kickoff. Cancel via the context.
 * Authors: Jamie Barkway
 */

package api

import (
	"context"
	"time"
)

// autoSettleDelay is how long after the latest pending kickoff the round is
// settled automatically. Longer than the manual gate so extra time and late
// feed updates have landed.
const autoSettleDelay = 135 * time.Minute

// pollInterval is how often the loop re-checks the store when nothing is
// pending or no kickoff time is known yet
const pollInterval = 30 * time.Minute

// StartAutoSettle runs the auto-settlement loop until ctx is cancelled.
// Preconditions: Receives a cancellable context
// Postconditions: Blocks until ctx is done. Settlement errors are logged and
// the loop continues; they never terminate it.
func (a *API) StartAutoSettle(ctx context.Context) {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		wait := a.nextSettleWait(ctx)
		if wait <= 0 {
			report, err := a.SettleRound(ctx)
			if err != nil {
				a.log.Warnw("auto-settle failed", "error", err)
			} else {
				a.log.Infow("auto-settle ran", "settled", report.Settled)
			}
			wait = pollInterval
		}
		timer.Reset(wait)
	}
}

// nextSettleWait returns how long to sleep before the next settlement attempt.
// Zero or negative means settle now; pollInterval means nothing is scheduled.
func (a *API) nextSettleWait(ctx context.Context) time.Duration {
	players, err := a.Store.GetPlayers(ctx)
	if err != nil {
		a.log.Warnw("auto-settle could not load players", "error", err)
		return pollInterval
	}

	var latest time.Time
	for i := range players {
		pending := players[i].PendingResult()
		if pending == nil || pending.Prediction == nil {
			continue
		}
		kickoff := pending.Prediction.Match.StartTimeUTC
		if kickoff.IsZero() {
			continue
		}
		if kickoff.After(latest) {
			latest = kickoff
		}
	}
	if latest.IsZero() {
		return pollInterval
	}

	return latest.Add(autoSettleDelay).Sub(a.Now())
}
