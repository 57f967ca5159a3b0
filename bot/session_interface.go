/* session_interface.go
 * Contains the slice of the Discord session the command handlers depend on.
 * Handlers take this instead of *discordgo.Session so replies can be captured
 * in tests.
 * Authors: Jamie Barkway
 */

package bot

import "github.com/bwmarrin/discordgo"

// DiscordSession is the outgoing-message surface the handlers use. The bot
// only ever posts to channels; the rest of the session stays behind Run.
type DiscordSession interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

var _ DiscordSession = (*discordgo.Session)(nil)
