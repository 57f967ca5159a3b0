/* specials.go
 * Contains the special-condition detector: the cross-player checks run once per
 * settlement over the round that was just settled, producing the per-player special
 * emoji handed to the annotator.
 * Authors: Jamie Barkway
 */

package logic

import "github.com/JamieBarkway/group-bet/api/shared"

// SettledPick describes one prediction resolved in the current settlement
// pass, with its final score attached.
type SettledPick struct {
	Username string
	Type     shared.PickType
	Round    int
	Score    shared.Score
	Outcome  shared.Outcome
}

// DetectSpecialConditions computes the special emoji for each player at the
// given round. It receives the full roster, the round just settled, and the picks
// resolved in this pass.
//
// Rules, in precedence order (first assigned wins):
//   - sleepy: a BTTS or O2.5 pick lost to a 0-0
//   - loud-laugh: a Home or Away pick lost by three or more goals
//   - nauseated: exactly one player across the whole roster has a loss at this
//     round, counting entries settled in earlier passes too
//
// Returns a map of username to emoji; players with no special condition are absent.
func DetectSpecialConditions(players []shared.Player, round int, settled []SettledPick) map[string]string {
	specials := make(map[string]string)

	for _, pick := range settled {
		if pick.Outcome != shared.OutcomeLoss || pick.Round != round {
			continue
		}

		if (pick.Type == shared.PickBTTS || pick.Type == shared.PickOver) &&
			pick.Score.Home == 0 && pick.Score.Away == 0 {
			specials[pick.Username] = EmojiSleepy
			continue
		}

		margin := pick.Score.Home - pick.Score.Away
		if margin < 0 {
			margin = -margin
		}
		if (pick.Type == shared.PickHome || pick.Type == shared.PickAway) && margin >= 3 {
			specials[pick.Username] = EmojiLoudLaugh
		}
	}

	// Only-loser check spans every player's entry at this round, not just the
	// ones settled in this pass.
	var losers []string
	for i := range players {
		r := players[i].ResultAt(round)
		if r == nil {
			continue
		}
		if r.Outcome == shared.OutcomeLoss {
			losers = append(losers, players[i].Username)
		}
	}
	if len(losers) == 1 {
		if _, taken := specials[losers[0]]; !taken {
			specials[losers[0]] = EmojiNauseated
		}
	}

	return specials
}
