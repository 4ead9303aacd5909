package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lalega/match-bot/repos/sheets"
)

func testService() *Service {
	return NewService(nil, "chan", "refrole", Brand{Name: "LA LEGA", LogoURL: "https://example.com/logo.png"})
}

func TestAssignmentBlockAllUnclaimed(t *testing.T) {
	block := assignmentBlock(sheets.Match{})
	assert.Equal(t, "Main Referee: TBD\nCover Referee: TBD\nMedia: TBD\nStats: TBD", block)
}

func TestAssignmentBlockPartial(t *testing.T) {
	m := sheets.Match{MainReferee: "111", Media: "333"}
	block := assignmentBlock(m)
	assert.Equal(t, "Main Referee: <@111>\nCover Referee: TBD\nMedia: <@333>\nStats: TBD", block)
}

func TestMentionOrTBD(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", "TBD"},
		{"  ", "TBD"},
		{"42", "<@42>"},
	}
	for _, c := range cases {
		if got := mentionOrTBD(c.in); got != c.want {
			t.Errorf("mentionOrTBD(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestAnnouncementEmbedRegenerates(t *testing.T) {
	s := testService()
	m := sheets.Match{
		ID:          "M1",
		Competition: "Legacy Cup",
		Round:       "3",
		Team1:       "A",
		Team2:       "B",
		Time:        "18:00 UTC",
		CoverReferee: "222",
	}
	embed := s.announcementEmbed(m)

	require.Len(t, embed.Fields, 6)
	assert.Equal(t, "Competition", embed.Fields[0].Name)
	assert.Equal(t, "Legacy Cup", embed.Fields[0].Value)
	assert.Equal(t, "Round", embed.Fields[1].Name)
	assert.Equal(t, "Time", embed.Fields[2].Name)
	assert.Equal(t, "Team 1", embed.Fields[3].Name)
	assert.Equal(t, "Team 2", embed.Fields[4].Name)

	// Last field is the untitled assignment block, rebuilt from the record.
	assert.Equal(t, blankFieldName, embed.Fields[5].Name)
	assert.Contains(t, embed.Fields[5].Value, "Cover Referee: <@222>")
	assert.Contains(t, embed.Fields[5].Value, "Main Referee: TBD")

	assert.Equal(t, "M1", embed.Footer.Text)
	assert.Equal(t, "LA LEGA - Match Alert", embed.Author.Name)
}

func TestScheduleEmbedCap(t *testing.T) {
	s := testService()
	var matches []sheets.Match
	for i := 0; i < 12; i++ {
		matches = append(matches, sheets.Match{ID: "M", Competition: "Regular Season", Round: "1", Team1: "A", Team2: "B", Time: "t"})
	}
	embed := s.ScheduleEmbed(matches)
	// 5 fields per match, first 10 matches only.
	assert.Len(t, embed.Fields, 50)
	assert.Equal(t, "Round 1", embed.Fields[1].Value)
}

func TestMemberHasRole(t *testing.T) {
	assert.False(t, MemberHasRole(nil, []string{"a"}))

	member := &discordgo.Member{Roles: []string{"x", "y"}}
	assert.True(t, MemberHasRole(member, []string{"y", "z"}))
	assert.False(t, MemberHasRole(member, []string{"z"}))
	assert.False(t, MemberHasRole(member, nil))
}
