/* mock_session.go
 * Contains an in-memory DiscordSession that records outgoing channel messages,
 * so command handlers can be tested without a live gateway connection
 * Authors: Jamie Barkway
 */

package bot

import "github.com/bwmarrin/discordgo"

// MockDiscordSession records every message the handlers attempt to send
type MockDiscordSession struct {
	Sent []SentMessage
	// SendError makes every send fail, for testing delivery-failure paths
	SendError error
}

// SentMessage is one recorded ChannelMessageSend call
type SentMessage struct {
	ChannelID string
	Content   string
}

func NewMockDiscordSession() *MockDiscordSession {
	return &MockDiscordSession{}
}

// ChannelMessageSend implements DiscordSession by recording the message
func (m *MockDiscordSession) ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	if m.SendError != nil {
		return nil, m.SendError
	}

	m.Sent = append(m.Sent, SentMessage{ChannelID: channelID, Content: content})
	return &discordgo.Message{ChannelID: channelID, Content: content}, nil
}

// LastContent returns the content of the most recent message, or "" when
// nothing has been sent
func (m *MockDiscordSession) LastContent() string {
	if len(m.Sent) == 0 {
		return ""
	}
	return m.Sent[len(m.Sent)-1].Content
}

// MessagesTo returns the contents delivered to one channel, in send order
func (m *MockDiscordSession) MessagesTo(channelID string) []string {
	var contents []string
	for _, s := range m.Sent {
		if s.ChannelID == channelID {
			contents = append(contents, s.Content)
		}
	}
	return contents
}
