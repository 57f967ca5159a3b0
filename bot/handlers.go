/* handlers.go
 * Contains testable handler methods that accept DiscordSession interface
 * Authors: Jamie Barkway
 */

package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/JamieBarkway/group-bet/api/api"
	"github.com/JamieBarkway/group-bet/api/shared"

	"github.com/bwmarrin/discordgo"
	"github.com/go-andiamo/splitter"
)

// newMessageHandler routes messages to appropriate handlers with a DiscordSession interface
// botUserID is the bot's user ID to prevent self-responses
func (b *Bot) newMessageHandler(session DiscordSession, message *discordgo.MessageCreate, botUserID string) {
	// Prevent bot from responding to its own messages
	if message.Author.ID == botUserID {
		return
	}

	// Route to appropriate handler
	switch {
	case startsWith(message.Content, "$help"):
		b.helpMessageHandler(session, message)

	case startsWith(message.Content, "$pick"):
		b.pickHandler(session, message)

	case startsWith(message.Content, "$remove"):
		b.removeHandler(session, message)

	case startsWith(message.Content, "$leaderboard"):
		b.leaderboardHandler(session, message)

	case startsWith(message.Content, "$form"):
		b.formHandler(session, message)

	case startsWith(message.Content, "$upcoming"):
		b.upcomingHandler(session, message)

	case startsWith(message.Content, "$settle"):
		b.settleHandler(session, message)

	case startsWith(message.Content, "$turn"):
		b.turnHandler(session, message)

	case startsWith(message.Content, "$betplaced"):
		b.betPlacedHandler(session, message)
	}
}

// helpMessageHandler handles the $help command with a DiscordSession interface
func (b *Bot) helpMessageHandler(session DiscordSession, message *discordgo.MessageCreate) {
	var res strings.Builder
	res.WriteString("Group Bet Bot v1.0\n")
	res.WriteString("`$pick <type> <team>`: Sets your pick for the open round. Type is one of Home, Away, BTTS, O2.5. The team query is fuzzy matched against upcoming fixtures; names with spaces need to be encased in \" (e.g. \"Aston Villa\")\n")
	res.WriteString("`$remove [round]`: Removes your pending pick, or the pick for the given round number\n")
	res.WriteString("`$leaderboard`: Shows the standings sorted by win percentage, with streaks and fines\n")
	res.WriteString("`$form [user]`: Shows a player's recent form, streaks and pick-type record. Defaults to you\n")
	res.WriteString("`$upcoming`: Shows the upcoming fixtures across the tracked leagues\n")
	res.WriteString("`$settle`: Settles the open round against full-time results. Only works once the latest game has been finished long enough\n")
	res.WriteString("`$turn`: Shows whose turn it is to place the real bet this round\n")
	res.WriteString("`$betplaced`: Records that you placed the real bet for the current round\n")
	session.ChannelMessageSend(message.ChannelID, res.String())
}

// pickHandler handles the $pick command with a DiscordSession interface
func (b *Bot) pickHandler(session DiscordSession, message *discordgo.MessageCreate) {
	username := message.Author.Username

	// splitter keeps quoted team names like "West Ham" as a single token
	spaceSplitter, _ := splitter.NewSplitter(' ', splitter.DoubleQuotes, splitter.LeftRightDoubleDoubleQuotes)
	args, _ := spaceSplitter.Split(message.Content)
	if len(args) < 3 {
		session.ChannelMessageSend(message.ChannelID, "Usage: `$pick <type> <team>` where type is Home, Away, BTTS or O2.5")
		return
	}

	pickType := shared.PickType(args[1])
	if !shared.ValidPickType(pickType) {
		session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("Unknown pick type %q. Use Home, Away, BTTS or O2.5", args[1]))
		return
	}

	query := strings.Trim(strings.Join(args[2:], " "), "\"")
	fixture, err := b.APIPtr.FindFixture(context.Background(), query)
	if err != nil {
		if errors.Is(err, api.ErrNoFixtureMatch) {
			session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("No upcoming fixture matched %q. Try `$upcoming` for the list", query))
		} else {
			b.log.Errorw("fixture lookup failed", "error", err)
			session.ChannelMessageSend(message.ChannelID, "An error occurred looking up fixtures")
		}
		return
	}

	pick := api.PickRequest{
		Type: pickType,
		Match: shared.Match{
			HomeName:     fixture.HomeName,
			AwayName:     fixture.AwayName,
			StartTimeUTC: fixture.StartTimeUTC,
			EventID:      fixture.EventID,
			League:       fixture.League,
		},
	}

	err = b.APIPtr.SubmitPrediction(context.Background(), username, pick)
	switch {
	case err == nil:
		// the API announces the pick itself
	case errors.Is(err, api.ErrUnknownPlayer):
		session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("%s is not in the pool", username))
	case errors.Is(err, api.ErrPendingExists):
		session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("%s already has a pending pick. Use `$remove` first to change it", username))
	case errors.Is(err, api.ErrFixtureTaken):
		session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("Someone already picked *%s vs %s* this round", fixture.HomeName, fixture.AwayName))
	default:
		b.log.Errorw("pick submission failed", "user", username, "error", err)
		session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("An error occurred setting %s's pick", username))
	}
}

// removeHandler handles the $remove command with a DiscordSession interface
func (b *Bot) removeHandler(session DiscordSession, message *discordgo.MessageCreate) {
	username := message.Author.Username

	round := 0
	fields := strings.Fields(message.Content)
	if len(fields) > 1 {
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			session.ChannelMessageSend(message.ChannelID, "Usage: `$remove [round]` where round is a number")
			return
		}
		round = n
	}

	err := b.APIPtr.RemovePrediction(context.Background(), username, round)
	switch {
	case err == nil:
		// the API taunts the remover itself
	case errors.Is(err, api.ErrUnknownPlayer):
		session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("%s is not in the pool", username))
	case errors.Is(err, api.ErrNotPending):
		session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("%s has no pending pick to remove", username))
	case errors.Is(err, api.ErrUnknownRound):
		session.ChannelMessageSend(message.ChannelID, "No pick found for that round")
	default:
		b.log.Errorw("pick removal failed", "user", username, "error", err)
		session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("An error occurred removing %s's pick", username))
	}
}

// leaderboardHandler handles the $leaderboard command with a DiscordSession interface
func (b *Bot) leaderboardHandler(session DiscordSession, message *discordgo.MessageCreate) {
	rows, err := b.APIPtr.Leaderboard(context.Background())
	if err != nil {
		b.log.Errorw("leaderboard failed", "error", err)
		session.ChannelMessageSend(message.ChannelID, "An error occurred getting the leaderboard")
		return
	}

	var res strings.Builder
	res.WriteString("🏆 **Leaderboard**\n\n")
	for i, row := range rows {
		res.WriteString(fmt.Sprintf("%d. **%s** - %s%% (%dW %dL)", i+1, row.Username, row.WinPct, row.Wins, row.Losses))
		if row.CurrentStreak >= 2 {
			res.WriteString(fmt.Sprintf(" 🔥%d", row.CurrentStreak))
		} else if row.CurrentStreak <= -2 {
			res.WriteString(fmt.Sprintf(" 😡%d", -row.CurrentStreak))
		}
		if row.FineTotal > 0 {
			res.WriteString(fmt.Sprintf(" | fines £%d", row.FineTotal))
		}
		res.WriteString(fmt.Sprintf(" | form %s\n", row.Form))
	}
	session.ChannelMessageSend(message.ChannelID, res.String())
}

// formHandler handles the $form command with a DiscordSession interface
func (b *Bot) formHandler(session DiscordSession, message *discordgo.MessageCreate) {
	username := message.Author.Username
	fields := strings.Fields(message.Content)
	if len(fields) > 1 {
		username = fields[1]
	}

	stats, err := b.APIPtr.PlayerStats(context.Background(), username)
	switch {
	case err == nil:
	case errors.Is(err, api.ErrUnknownPlayer):
		session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("%s is not in the pool", username))
		return
	default:
		b.log.Errorw("form lookup failed", "user", username, "error", err)
		session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("An error occurred getting %s's form", username))
		return
	}

	var res strings.Builder
	res.WriteString(fmt.Sprintf("📈 **%s's form**\n\n", stats.Username))
	res.WriteString(fmt.Sprintf("Record: %dW %dL (%s%%) | form %s\n", stats.Wins, stats.Losses, stats.WinPct, stats.Form))
	if stats.CurrentStreak >= 2 {
		res.WriteString(fmt.Sprintf("Current streak: 🔥%d wins\n", stats.CurrentStreak))
	} else if stats.CurrentStreak <= -2 {
		res.WriteString(fmt.Sprintf("Current streak: 😡%d losses\n", -stats.CurrentStreak))
	}
	res.WriteString(fmt.Sprintf("Best run: %dW | worst run: %dL\n", stats.LongestWinStreak, stats.LongestLossStreak))
	if stats.FineTotal > 0 {
		res.WriteString(fmt.Sprintf("Fines: %d for £%d\n", stats.FineCount, stats.FineTotal))
	}
	res.WriteString(fmt.Sprintf("Pick mix: Home %s%% | Away %s%% | BTTS %s%% | O2.5 %s%%\n",
		stats.HomeWinPct, stats.AwayWinPct, stats.BTTSPct, stats.OverPct))
	session.ChannelMessageSend(message.ChannelID, res.String())
}

// upcomingHandler handles the $upcoming command with a DiscordSession interface
func (b *Bot) upcomingHandler(session DiscordSession, message *discordgo.MessageCreate) {
	fixtures, err := b.APIPtr.UpcomingFixtures(context.Background())
	if err != nil {
		b.log.Errorw("fixture fetch failed", "error", err)
		session.ChannelMessageSend(message.ChannelID, "An error occurred getting upcoming fixtures")
		return
	}

	var res strings.Builder
	if len(fixtures) == 0 {
		res.WriteString("No upcoming fixtures")
	} else {
		res.WriteString("Upcoming fixtures:\n")
		for _, f := range fixtures {
			res.WriteString(fmt.Sprintf("- %s vs %s (%s, %s)\n",
				f.HomeName, f.AwayName, f.League, f.StartTimeUTC.Format("Mon 02 Jan 15:04")))
		}
	}
	session.ChannelMessageSend(message.ChannelID, res.String())
}

// settleHandler handles the $settle command with a DiscordSession interface
func (b *Bot) settleHandler(session DiscordSession, message *discordgo.MessageCreate) {
	report, err := b.APIPtr.SettleRound(context.Background())
	if err != nil {
		b.log.Errorw("settlement failed", "error", err)
		session.ChannelMessageSend(message.ChannelID, "An error occurred settling the round")
		return
	}
	session.ChannelMessageSend(message.ChannelID, report.Message)
}

// turnHandler handles the $turn command with a DiscordSession interface
func (b *Bot) turnHandler(session DiscordSession, message *discordgo.MessageCreate) {
	username, round, err := b.APIPtr.WhoseTurn(context.Background())
	if err != nil {
		b.log.Errorw("turn lookup failed", "error", err)
		session.ChannelMessageSend(message.ChannelID, "An error occurred working out whose turn it is")
		return
	}
	session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("💰 It's **%s**'s turn to place the bet for round %d", username, round))
}

// betPlacedHandler handles the $betplaced command with a DiscordSession interface
func (b *Bot) betPlacedHandler(session DiscordSession, message *discordgo.MessageCreate) {
	username := message.Author.Username

	err := b.APIPtr.MarkBetPlaced(context.Background(), username)
	switch {
	case err == nil:
		// the API announces the placement itself
	case errors.Is(err, api.ErrUnknownPlayer):
		session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("%s is not in the pool", username))
	default:
		b.log.Errorw("bet placement failed", "user", username, "error", err)
		session.ChannelMessageSend(message.ChannelID, "An error occurred recording the bet")
	}
}
