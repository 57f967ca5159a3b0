/* stats.go
 * Contains the statistics aggregator that turns one player's result history into
 * their leaderboard row. Pure function, no mutation.
 * Authors: Jamie Barkway
 */

package logic

import (
	"fmt"
	"strings"

	"github.com/JamieBarkway/group-bet/api/shared"
)

// FineAmount is the currency units charged per fine glyph
const FineAmount = 5

// formLength is how many recent settled results make up the form string
const formLength = 5

// AggregateStats computes the leaderboard row for a player.
// Preconditions: Receives a player with their full ordered result history
// Postconditions: Returns the derived PlayerStats; the player is not modified.
// Pending entries are excluded from every count. Pick-type percentages divide by the
// number of settled entries that still carry a prediction, which guards against
// entries whose prediction was lost to an old data migration.
func AggregateStats(p shared.Player) shared.PlayerStats {
	stats := shared.PlayerStats{Username: p.Username, Form: "-"}

	var settled []shared.Result
	for _, r := range p.Results {
		if r.Outcome != shared.OutcomePending {
			settled = append(settled, r)
		}
	}

	stats.Total = len(settled)

	withPrediction := 0
	typeCounts := make(map[shared.PickType]int)
	for _, r := range settled {
		if r.Outcome == shared.OutcomeWin {
			stats.Wins++
		}
		if r.Prediction != nil {
			withPrediction++
			typeCounts[r.Prediction.Type]++
		}
	}
	stats.Losses = stats.Total - stats.Wins
	stats.WinPct = pct(stats.Wins, stats.Total)
	stats.BTTSPct = pct(typeCounts[shared.PickBTTS], withPrediction)
	stats.HomeWinPct = pct(typeCounts[shared.PickHome], withPrediction)
	stats.AwayWinPct = pct(typeCounts[shared.PickAway], withPrediction)
	stats.OverPct = pct(typeCounts[shared.PickOver], withPrediction)

	// Fines count every glyph occurrence across the whole history, pending
	// rows included (they never carry emoji anyway).
	for _, r := range p.Results {
		stats.FineCount += CountFines(r.Emoji)
	}
	stats.FineTotal = stats.FineCount * FineAmount

	stats.LongestWinStreak, stats.LongestLossStreak = longestStreaks(settled)

	if len(settled) > 0 {
		var form strings.Builder
		start := len(settled) - formLength
		if start < 0 {
			start = 0
		}
		for _, r := range settled[start:] {
			form.WriteString(string(r.Outcome))
		}
		stats.Form = form.String()
		stats.CurrentStreak = currentStreak(settled)
	}

	return stats
}

// longestStreaks returns the longest consecutive run of wins and of losses
// over the settled history, each independent of the other
func longestStreaks(settled []shared.Result) (longestWin, longestLoss int) {
	winRun, lossRun := 0, 0
	for _, r := range settled {
		if r.Outcome == shared.OutcomeWin {
			winRun++
			lossRun = 0
			if winRun > longestWin {
				longestWin = winRun
			}
		} else {
			lossRun++
			winRun = 0
			if lossRun > longestLoss {
				longestLoss = lossRun
			}
		}
	}
	return longestWin, longestLoss
}

// currentStreak returns the length of the trailing run of identical outcomes,
// negated when that outcome is a loss
func currentStreak(settled []shared.Result) int {
	last := settled[len(settled)-1].Outcome
	streak := 0
	for i := len(settled) - 1; i >= 0 && settled[i].Outcome == last; i-- {
		streak++
	}
	if last == shared.OutcomeLoss {
		return -streak
	}
	return streak
}

// pct formats n out of total as a percentage with one decimal place, "0.0"
// when total is zero
func pct(n, total int) string {
	if total == 0 {
		return "0.0"
	}
	return fmt.Sprintf("%.1f", float64(n)/float64(total)*100)
}
