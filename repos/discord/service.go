// Package discord is the chat-platform client: it owns every message the bot
// posts or edits in the announcement channel, plus DMs and role checks. The
// services decide what happens, this package decides what it looks like.
package discord

import (
	"golang.org/x/xerrors"

	"github.com/bwmarrin/discordgo"

	"github.com/lalega/match-bot/repos/sheets"
)

const coverButtonLabel = "Cover This Match"

// CustomIDPrefix tags the cover button so the interaction dispatcher can
// route component clicks; the rest of the custom ID is the request token.
const CustomIDPrefix = "cover:"

// Brand is the league name and logo stamped on every embed.
type Brand struct {
	Name    string
	LogoURL string
}

// Service wraps the discordgo session for the announcement channel.
type Service struct {
	session       *discordgo.Session
	channelID     string
	refereeRoleID string
	brand         Brand
}

// NewService creates the client. The session is shared with the bot's
// dispatch layer; this service never opens or closes it.
func NewService(session *discordgo.Session, channelID, refereeRoleID string, brand Brand) *Service {
	return &Service{
		session:       session,
		channelID:     channelID,
		refereeRoleID: refereeRoleID,
		brand:         brand,
	}
}

// PostAnnouncement posts the match embed and returns its message ID, which
// becomes the record's announcement reference.
func (s *Service) PostAnnouncement(m sheets.Match) (string, error) {
	msg, err := s.session.ChannelMessageSendEmbed(s.channelID, s.announcementEmbed(m))
	if err != nil {
		return "", xerrors.Errorf("post announcement for match %s: %w", m.ID, err)
	}
	return msg.ID, nil
}

// EditAnnouncement rebuilds the announcement embed from the record and
// replaces the message content wholesale.
func (s *Service) EditAnnouncement(m sheets.Match) error {
	if m.AnnouncementID == "" {
		return sheets.ErrNoAnnouncement
	}
	embeds := []*discordgo.MessageEmbed{s.announcementEmbed(m)}
	_, err := s.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel: s.channelID,
		ID:      m.AnnouncementID,
		Embeds:  &embeds,
	})
	if err != nil {
		return xerrors.Errorf("edit announcement for match %s: %w", m.ID, err)
	}
	return nil
}

// PostCoverCallout pings the referee role with the cover embed and an accept
// button carrying the request token. Returns the callout's message ID.
func (s *Service) PostCoverCallout(m sheets.Match, token string) (string, error) {
	row := discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    coverButtonLabel,
				Style:    discordgo.PrimaryButton,
				CustomID: CustomIDPrefix + token,
			},
		},
	}
	msg, err := s.session.ChannelMessageSendComplex(s.channelID, &discordgo.MessageSend{
		Content:    "<@&" + s.refereeRoleID + ">",
		Embeds:     []*discordgo.MessageEmbed{s.coverEmbed(m)},
		Components: []discordgo.MessageComponent{row},
	})
	if err != nil {
		return "", xerrors.Errorf("post cover callout for match %s: %w", m.ID, err)
	}
	return msg.ID, nil
}

// DisableCoverButton greys out the accept button once the request is filled.
func (s *Service) DisableCoverButton(messageID, token string) error {
	row := discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    coverButtonLabel,
				Style:    discordgo.PrimaryButton,
				CustomID: CustomIDPrefix + token,
				Disabled: true,
			},
		},
	}
	components := []discordgo.MessageComponent{row}
	_, err := s.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    s.channelID,
		ID:         messageID,
		Components: &components,
	})
	if err != nil {
		return xerrors.Errorf("disable cover button on %s: %w", messageID, err)
	}
	return nil
}

// ExpireCoverCallout strips the button and marks the callout as expired.
func (s *Service) ExpireCoverCallout(messageID, matchID string) error {
	content := "❌ Cover request for match `" + matchID + "` expired."
	components := []discordgo.MessageComponent{}
	_, err := s.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    s.channelID,
		ID:         messageID,
		Content:    &content,
		Components: &components,
	})
	if err != nil {
		return xerrors.Errorf("expire cover callout %s: %w", messageID, err)
	}
	return nil
}

// DirectMessage sends a private message. Callers treat failures as soft: a
// user with DMs closed keeps their claim either way.
func (s *Service) DirectMessage(userID, content string) error {
	ch, err := s.session.UserChannelCreate(userID)
	if err != nil {
		return xerrors.Errorf("open DM channel to %s: %w", userID, err)
	}
	if _, err := s.session.ChannelMessageSend(ch.ID, content); err != nil {
		return xerrors.Errorf("DM %s: %w", userID, err)
	}
	return nil
}

// MemberHasRole reports whether the member carries any role on the allowlist.
func MemberHasRole(member *discordgo.Member, allowlist []string) bool {
	if member == nil {
		return false
	}
	for _, have := range member.Roles {
		for _, want := range allowlist {
			if have == want {
				return true
			}
		}
	}
	return false
}
