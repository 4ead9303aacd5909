package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/lalega/match-bot/repos/sheets"
)

const (
	colorAnnouncement = 0x00AE86
	colorCoverRequest = 0xFFA500
	colorUpdated      = 0xFFA500
	colorDeleted      = 0xFF0000
	colorSchedule     = 0x00BFFF
)

// Discord renders a field named with a zero-width space as an untitled
// section; the assignment block lives in one of those under the fixed fields.
const blankFieldName = "​"

func mentionOrTBD(userID string) string {
	if strings.TrimSpace(userID) == "" {
		return "TBD"
	}
	return fmt.Sprintf("<@%s>", userID)
}

// assignmentBlock renders the four role lines in fixed order. Always built
// from the match record: the previously rendered text is never read back, so
// a mangled embed heals itself on the next claim.
func assignmentBlock(m sheets.Match) string {
	lines := make([]string, 0, len(sheets.Roles))
	for _, role := range sheets.Roles {
		lines = append(lines, fmt.Sprintf("%s: %s", role, mentionOrTBD(m.Assignee(role))))
	}
	return strings.Join(lines, "\n")
}

func fixedFieldSet(m sheets.Match) []*discordgo.MessageEmbedField {
	return []*discordgo.MessageEmbedField{
		{Name: "Competition", Value: m.Competition, Inline: true},
		{Name: "Round", Value: m.Round, Inline: true},
		{Name: "Time", Value: m.Time},
		{Name: "Team 1", Value: m.Team1, Inline: true},
		{Name: "Team 2", Value: m.Team2, Inline: true},
	}
}

// announcementEmbed is the full announcement: fixed fields plus the
// assignment block. Edits regenerate the whole thing.
func (s *Service) announcementEmbed(m sheets.Match) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Author: &discordgo.MessageEmbedAuthor{
			Name:    s.brand.Name + " - Match Alert",
			IconURL: s.brand.LogoURL,
		},
		Fields: append(fixedFieldSet(m), &discordgo.MessageEmbedField{
			Name:  blankFieldName,
			Value: assignmentBlock(m),
		}),
		Color:     colorAnnouncement,
		Footer:    &discordgo.MessageEmbedFooter{Text: m.ID},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

func (s *Service) coverEmbed(m sheets.Match) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Author: &discordgo.MessageEmbedAuthor{
			Name:    s.brand.Name + " - Cover Request",
			IconURL: s.brand.LogoURL,
		},
		Title: fmt.Sprintf("🆘 Match Cover Request: %s", m.ID),
		Fields: append(fixedFieldSet(m), &discordgo.MessageEmbedField{
			Name:  blankFieldName,
			Value: assignmentBlock(m),
		}),
		Color:     colorCoverRequest,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// ScheduleEmbed renders the upcoming-matches reply, capped to the first ten
// rows to stay under the embed field limit.
func (s *Service) ScheduleEmbed(matches []sheets.Match) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Author: &discordgo.MessageEmbedAuthor{
			Name:    s.brand.Name + " - Matches",
			IconURL: s.brand.LogoURL,
		},
		Color:     colorSchedule,
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if len(matches) > 10 {
		matches = matches[:10]
	}
	for _, m := range matches {
		embed.Fields = append(embed.Fields,
			&discordgo.MessageEmbedField{Name: "Competition", Value: m.Competition, Inline: true},
			&discordgo.MessageEmbedField{Name: "Round", Value: "Round " + m.Round, Inline: true},
			&discordgo.MessageEmbedField{Name: "Team 1", Value: m.Team1},
			&discordgo.MessageEmbedField{Name: "Team 2", Value: m.Team2},
			&discordgo.MessageEmbedField{Name: "Time", Value: m.Time},
		)
	}
	return embed
}

// UpdatedEmbed confirms an admin update publicly.
func (s *Service) UpdatedEmbed(m sheets.Match) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Author: &discordgo.MessageEmbedAuthor{
			Name:    s.brand.Name + " - Matchmaking",
			IconURL: s.brand.LogoURL,
		},
		Title:     fmt.Sprintf("🔄 Match Updated: %s", m.ID),
		Fields:    fixedFieldSet(m),
		Color:     colorUpdated,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// DeletedEmbed confirms an admin delete publicly.
func (s *Service) DeletedEmbed(matchID string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🗑️ Match Deleted: %s", matchID),
		Description: fmt.Sprintf("Match `%s` has been removed from the schedule.", matchID),
		Color:       colorDeleted,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
}

// PreviewEmbed is the ephemeral confirmation shown to the admin who created
// the match.
func (s *Service) PreviewEmbed(m sheets.Match) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Author: &discordgo.MessageEmbedAuthor{
			Name:    s.brand.Name + " - Matchmaking",
			IconURL: s.brand.LogoURL,
		},
		Fields:    fixedFieldSet(m),
		Color:     colorAnnouncement,
		Footer:    &discordgo.MessageEmbedFooter{Text: m.ID},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}
