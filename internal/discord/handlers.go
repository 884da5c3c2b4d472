package discord

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
)

const (
	maxMessageLen  = 2000
	handlerTimeout = 2 * time.Minute
)

func (b *Bot) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	content, ok := incoming(m.Message, s.State.User.ID)
	if !ok {
		return
	}
	if err := s.ChannelTyping(m.ChannelID); err != nil {
		b.logger.Debug("typing indicator failed", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()
	reply := b.handler.Handle(ctx, content, m.Author.ID)
	if reply == "" {
		return
	}
	for _, chunk := range splitMessage(reply, maxMessageLen) {
		if _, err := s.ChannelMessageSend(m.ChannelID, chunk); err != nil {
			b.logger.Error("sending reply", "channel", m.ChannelID, "error", err)
			return
		}
	}
}

// incoming returns the text to handle, or false when the bot should stay
// quiet: its own or other bots' messages, and guild messages that don't
// mention it.
func incoming(m *discordgo.Message, botID string) (string, bool) {
	if m.Author == nil || m.Author.ID == botID || m.Author.Bot {
		return "", false
	}
	if m.GuildID != "" && !mentions(m, botID) {
		return "", false
	}
	content := strings.TrimSpace(stripMention(m.Content, botID))
	return content, content != ""
}

func mentions(m *discordgo.Message, botID string) bool {
	for _, u := range m.Mentions {
		if u != nil && u.ID == botID {
			return true
		}
	}
	return false
}

func stripMention(s, userID string) string {
	s = strings.ReplaceAll(s, "<@"+userID+">", "")
	return strings.ReplaceAll(s, "<@!"+userID+">", "")
}

// splitMessage cuts s into chunks of at most maxLen characters, preferring
// newline boundaries and never splitting a rune.
func splitMessage(s string, maxLen int) []string {
	if utf8.RuneCountInString(s) <= maxLen {
		return []string{s}
	}
	var chunks []string
	for s != "" {
		end := byteOffset(s, maxLen)
		if end < len(s) {
			if idx := strings.LastIndex(s[:end], "\n"); idx > 0 {
				end = idx + 1
			}
		}
		chunks = append(chunks, s[:end])
		s = s[end:]
	}
	return chunks
}

// byteOffset returns the byte index just past the first n runes of s.
func byteOffset(s string, n int) int {
	for i := range s {
		if n == 0 {
			return i
		}
		n--
	}
	return len(s)
}
