/* notify.go
 * Contains the message builders for the notification sink: new pick alerts, the
 * all-picks-in summary with streak warnings, and the end-of-round results summary.
 * Formatting only; delivery lives behind the Notifier interface.
 * Authors: Jamie Barkway
 */

package api

import (
	"fmt"
	"strings"

	"github.com/JamieBarkway/group-bet/api/logic"
	"github.com/JamieBarkway/group-bet/api/shared"
)

func newPickMessage(username string, pick PickRequest) string {
	return fmt.Sprintf("🎯 **New Pick!**\n\n**%s** picked:\n%s\n\n*%s vs %s*",
		username, pick.Type.Description(), pick.Match.HomeName, pick.Match.AwayName)
}

// allPicksMessage lists every player's pending pick and warns anyone whose
// loss streak puts them at fine risk this round
func allPicksMessage(players []shared.Player) string {
	var msg strings.Builder
	msg.WriteString("🔥 **ALL PICKS ARE IN!** 🔥\n\n")

	for i := range players {
		pending := players[i].PendingResult()
		if pending == nil || pending.Prediction == nil {
			continue
		}
		msg.WriteString(fmt.Sprintf("**%s**: %s\n*%s vs %s*\n\n",
			players[i].Username,
			pending.Prediction.Type.Description(),
			pending.Prediction.Match.HomeName,
			pending.Prediction.Match.AwayName))
	}

	var warnings []string
	for i := range players {
		stats := logic.AggregateStats(players[i])
		// A two-loss run means one more loss completes a fined streak
		if stats.CurrentStreak <= -2 {
			streak := -stats.CurrentStreak
			risk := logic.FineAmount
			if streak > 2 {
				risk = streak * logic.FineAmount
			}
			warnings = append(warnings, fmt.Sprintf(
				"⚠️ **%s** is on %d losses in a row - risk of £%d fine with another loss this week",
				players[i].Username, streak, risk))
		}
	}
	if len(warnings) > 0 {
		msg.WriteString("\n📊 **Streak Alert:**\n")
		msg.WriteString(strings.Join(warnings, "\n"))
	}

	msg.WriteString("\n\nGood luck everyone! 🍀")
	return msg.String()
}

// roundSummaryMessage reports every player's pick and outcome for a fully
// resolved round
func roundSummaryMessage(players []shared.Player, round int) string {
	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("📊 **Round %d Results**\n\n", round))

	for i := range players {
		r := players[i].ResultAt(round)
		if r == nil || r.Prediction == nil {
			continue
		}

		score := ""
		if r.Prediction.FinalScore != nil {
			score = fmt.Sprintf(" (%d-%d)", r.Prediction.FinalScore.Home, r.Prediction.FinalScore.Away)
		}
		outcome := "❌ Loss"
		if r.Outcome == shared.OutcomeWin {
			outcome = "✅ Win"
			if r.Prediction.Odds > 0 {
				outcome = fmt.Sprintf("✅ Win @ %.2f", r.Prediction.Odds)
			}
		}
		msg.WriteString(fmt.Sprintf("**%s**: %s - *%s vs %s%s*\n%s\n\n",
			players[i].Username,
			r.Prediction.Type.Description(),
			r.Prediction.Match.HomeName,
			r.Prediction.Match.AwayName,
			score,
			outcome))
	}

	msg.WriteString("Well played! 🏁")
	return msg.String()
}
