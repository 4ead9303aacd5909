package bot

import (
	"github.com/bwmarrin/discordgo"

	"github.com/lalega/match-bot/repos/sheets"
)

func matchIDOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "match_id",
		Description: "Match ID",
		Required:    true,
	}
}

func serverLinkOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "server_link",
		Description: "Private match server invite (hidden)",
		Required:    true,
	}
}

// fixedFieldOptions are shared by creatematch and updatematch.
func fixedFieldOptions() []*discordgo.ApplicationCommandOption {
	return []*discordgo.ApplicationCommandOption{
		matchIDOption(),
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "competition",
			Description: "Competition",
			Required:    true,
			Choices: []*discordgo.ApplicationCommandOptionChoice{
				{Name: sheets.CompetitionContinentalCup, Value: sheets.CompetitionContinentalCup},
				{Name: sheets.CompetitionLegacyCup, Value: sheets.CompetitionLegacyCup},
				{Name: sheets.CompetitionRegularSeason, Value: sheets.CompetitionRegularSeason},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "round",
			Description: "Round number",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "team1",
			Description: "Team 1",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "team2",
			Description: "Team 2",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "time",
			Description: "Match time",
			Required:    true,
		},
	}
}

func commandDefinitions() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "creatematch",
			Description: "(ADMIN) Create a new match",
			Options:     fixedFieldOptions(),
		},
		{
			Name:        "updatematch",
			Description: "(ADMIN) Update an existing match",
			Options:     fixedFieldOptions(),
		},
		{
			Name:        "deletematch",
			Description: "(ADMIN) Delete a match by Match ID",
			Options:     []*discordgo.ApplicationCommandOption{matchIDOption()},
		},
		{
			Name:        "matches",
			Description: "View upcoming matches",
		},
		{
			Name:        "claim",
			Description: "(REFEREE) Claim a match to officiate",
			Options:     []*discordgo.ApplicationCommandOption{matchIDOption(), serverLinkOption()},
		},
		{
			Name:        "requestcover",
			Description: "(REFEREE) Request a cover for your match",
			Options:     []*discordgo.ApplicationCommandOption{matchIDOption(), serverLinkOption()},
		},
		{
			Name:        "claim_media",
			Description: "(MEDIA) Claim media responsibilities for a match",
			Options:     []*discordgo.ApplicationCommandOption{matchIDOption()},
		},
		{
			Name:        "claim_stats",
			Description: "(STATS) Claim stats responsibilities for a match",
			Options:     []*discordgo.ApplicationCommandOption{matchIDOption()},
		},
	}
}
