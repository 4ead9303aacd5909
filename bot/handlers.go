package bot

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/lalega/match-bot/repos/sheets"
	"github.com/lalega/match-bot/services/cover"
)

const noPermissionMsg = "❌ You do not have permission to use this command."

func (b *Bot) handleCreateMatch(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.isAdmin(i) {
		replyEphemeral(s, i, noPermissionMsg)
		return
	}
	opts := stringOptions(i)
	m := sheets.Match{
		ID:          opts["match_id"],
		Competition: opts["competition"],
		Round:       opts["round"],
		Team1:       opts["team1"],
		Team2:       opts["team2"],
		Time:        opts["time"],
	}

	res, err := b.opts.Matches.Create(ctx, m)
	if err != nil {
		log.Printf("Failed to create match %s: %v\n", m.ID, err)
		replyEphemeral(s, i, "❌ Could not post the match announcement.")
		return
	}

	replyEmbed(s, i, b.opts.Discord.PreviewEmbed(res.Match), true)
	if res.StoreFailed {
		followUpEphemeral(s, i, "✅ Match created, but failed to log to the schedule sheet.")
	}
}

func (b *Bot) handleUpdateMatch(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.isAdmin(i) {
		replyEphemeral(s, i, noPermissionMsg)
		return
	}
	opts := stringOptions(i)
	matchID := opts["match_id"]

	updated, err := b.opts.Matches.Update(ctx, matchID, sheets.FixedFields{
		Competition: opts["competition"],
		Round:       opts["round"],
		Team1:       opts["team1"],
		Team2:       opts["team2"],
		Time:        opts["time"],
	})
	if err != nil {
		if errors.Is(err, sheets.ErrMatchNotFound) {
			replyEphemeral(s, i, fmt.Sprintf("❌ Match with ID `%s` not found.", matchID))
			return
		}
		log.Printf("Failed to update match %s: %v\n", matchID, err)
		replyEphemeral(s, i, "❌ Failed to update match.")
		return
	}

	replyEmbed(s, i, b.opts.Discord.UpdatedEmbed(updated), false)
}

func (b *Bot) handleDeleteMatch(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.isAdmin(i) {
		replyEphemeral(s, i, noPermissionMsg)
		return
	}
	matchID := stringOptions(i)["match_id"]

	if err := b.opts.Matches.Delete(ctx, matchID); err != nil {
		if errors.Is(err, sheets.ErrMatchNotFound) {
			replyEphemeral(s, i, fmt.Sprintf("❌ Match with ID `%s` not found.", matchID))
			return
		}
		log.Printf("Failed to delete match %s: %v\n", matchID, err)
		replyEphemeral(s, i, "❌ Failed to delete match.")
		return
	}

	replyEmbed(s, i, b.opts.Discord.DeletedEmbed(matchID), false)
}

func (b *Bot) handleListMatches(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	matches, err := b.opts.Matches.List(ctx)
	if err != nil {
		log.Printf("Failed to list matches: %v\n", err)
		replyEphemeral(s, i, "❌ Failed to fetch matches.")
		return
	}
	if len(matches) == 0 {
		replyEphemeral(s, i, "No upcoming matches found.")
		return
	}
	replyEmbed(s, i, b.opts.Discord.ScheduleEmbed(matches), false)
}

func (b *Bot) handleClaimMainReferee(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := stringOptions(i)
	b.runClaim(ctx, s, i, opts["match_id"], sheets.RoleMainReferee, opts["server_link"],
		fmt.Sprintf("✅ Match `%s` claimed successfully.", opts["match_id"]))
}

func (b *Bot) handleClaimMedia(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	matchID := stringOptions(i)["match_id"]
	b.runClaim(ctx, s, i, matchID, sheets.RoleMedia, "",
		fmt.Sprintf("✅ You are now handling media for match `%s`.", matchID))
}

func (b *Bot) handleClaimStats(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	matchID := stringOptions(i)["match_id"]
	b.runClaim(ctx, s, i, matchID, sheets.RoleStats, "",
		fmt.Sprintf("✅ You are now handling stats for match `%s`.", matchID))
}

// runClaim is the shared tail of the three direct claim commands.
func (b *Bot) runClaim(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, matchID string, role sheets.Role, privateLink, successMsg string) {
	user := interactionUser(i)

	res, err := b.opts.Claims.Claim(ctx, matchID, role, user.ID, privateLink)
	if err != nil {
		replyEphemeral(s, i, claimErrorMessage(matchID, role, err))
		return
	}

	switch {
	case res.DMFailed:
		replyEphemeral(s, i, "✅ Claimed. Unable to DM you the server link.")
	case res.AnnouncementStale:
		replyEphemeral(s, i, successMsg+" ⚠️ The announcement message could not be updated.")
	default:
		replyEphemeral(s, i, successMsg)
	}
}

func (b *Bot) handleRequestCover(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := stringOptions(i)
	matchID := opts["match_id"]
	user := interactionUser(i)

	_, err := b.opts.Cover.Request(ctx, matchID, user.ID, opts["server_link"])
	if err != nil {
		switch {
		case errors.Is(err, sheets.ErrMatchNotFound), errors.Is(err, sheets.ErrNoAnnouncement):
			replyEphemeral(s, i, fmt.Sprintf("❌ Match ID `%s` not found or missing its announcement.", matchID))
		default:
			log.Printf("Failed to post cover request for %s: %v\n", matchID, err)
			replyEphemeral(s, i, "❌ Could not post the cover request.")
		}
		return
	}

	replyEphemeral(s, i, "✅ Cover request posted.")
}

func (b *Bot) handleCoverAccept(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, token string) {
	user := interactionUser(i)

	res, err := b.opts.Cover.Accept(ctx, token, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, cover.ErrOwnRequest):
			replyEphemeral(s, i, "❌ You can't cover your own match.")
		case errors.Is(err, cover.ErrRequestClosed):
			replyEphemeral(s, i, "❌ This cover request is no longer open.")
		case errors.Is(err, sheets.ErrRoleTaken):
			replyEphemeral(s, i, "❌ This match already has a cover referee assigned.")
		case errors.Is(err, sheets.ErrMatchNotFound):
			replyEphemeral(s, i, "❌ Match not found in the schedule.")
		default:
			log.Printf("Failed to accept cover request: %v\n", err)
			replyEphemeral(s, i, "❌ Failed to process the cover claim.")
		}
		return
	}

	msg := fmt.Sprintf("✅ You are now covering match `%s`.", res.Match.ID)
	if res.DMFailed {
		msg = "⚠️ Could not DM you the server link. " + msg
	}
	replyEphemeral(s, i, msg)
}

func claimErrorMessage(matchID string, role sheets.Role, err error) string {
	switch {
	case errors.Is(err, sheets.ErrMatchNotFound):
		return fmt.Sprintf("❌ Match ID `%s` not found.", matchID)
	case errors.Is(err, sheets.ErrNoAnnouncement):
		return fmt.Sprintf("❌ No announcement message logged for match `%s`.", matchID)
	case errors.Is(err, sheets.ErrRoleTaken):
		return fmt.Sprintf("❌ This match already has a %s assigned.", role)
	default:
		log.Printf("Claim on match %s failed: %v\n", matchID, err)
		return "❌ Failed to update claim data."
	}
}
