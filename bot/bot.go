/* bot.go
 * Contains the Bot struct and its notification sink. The bot holds a session
 * reference once Run has opened one, which also lets it push unprompted
 * announcements into the group channel. Requires a discord bot token and
 * channel id, both passed in from main.go
 * Authors: Jamie Barkway
 */

package bot

import (
	"fmt"
	"strings"

	"github.com/JamieBarkway/group-bet/api/api"

	"go.uber.org/zap"
)

type Bot struct {
	BotToken  string
	ChannelID string
	APIPtr    *api.API

	log     *zap.SugaredLogger
	session DiscordSession
}

func NewBot(botToken string, channelID string, apiPtr *api.API, logger *zap.SugaredLogger) (*Bot, error) {
	if botToken == "" {
		return nil, fmt.Errorf("botToken is required but none was provided")
	}
	if channelID == "" {
		return nil, fmt.Errorf("channelID is required but none was provided")
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return &Bot{
		BotToken:  botToken,
		ChannelID: channelID,
		APIPtr:    apiPtr,
		log:       logger,
	}, nil
}

// Send posts an announcement to the configured group channel. It satisfies
// the API's notification sink.
// Preconditions: Run (or a test) has set the session
// Postconditions: Returns an error when no session is open or delivery fails
func (b *Bot) Send(text string) error {
	if b.session == nil {
		return fmt.Errorf("no discord session is open")
	}
	_, err := b.session.ChannelMessageSend(b.ChannelID, text)
	return err
}

var _ api.Notifier = (*Bot)(nil)

// Helper function to check if a string starts with a given substring
// Preconditions: Receives an input string and a substring
// Postconditions: Returns true if the substring is at the start of the string, else returns false
func startsWith(inputString string, substring string) bool {
	return strings.HasPrefix(inputString, substring)
}
