/* outcome.go
 * Contains the outcome decider: the pure function that turns a pick type and a
 * final score into a win or a loss
 * Authors: Jamie Barkway
 */

package logic

import "github.com/JamieBarkway/group-bet/api/shared"

// Decide resolves a pick against a final score.
// Preconditions: Receives a pick type and the home/away scores, either of which may be nil
// Postconditions: Returns OutcomeWin or OutcomeLoss, or OutcomeUndetermined when either
// score is unknown or the pick type is not recognised. A draw is a loss for Home and
// Away picks.
func Decide(pickType shared.PickType, home, away *int) shared.Outcome {
	if home == nil || away == nil {
		return shared.OutcomeUndetermined
	}

	switch pickType {
	case shared.PickHome:
		if *home > *away {
			return shared.OutcomeWin
		}
		return shared.OutcomeLoss
	case shared.PickAway:
		if *away > *home {
			return shared.OutcomeWin
		}
		return shared.OutcomeLoss
	case shared.PickBTTS:
		if *home > 0 && *away > 0 {
			return shared.OutcomeWin
		}
		return shared.OutcomeLoss
	case shared.PickOver:
		if *home+*away >= 3 {
			return shared.OutcomeWin
		}
		return shared.OutcomeLoss
	default:
		return shared.OutcomeUndetermined
	}
}
