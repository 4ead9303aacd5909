// Package bot wires the discordgo session to the services: it registers the
// slash commands, dispatches interactions and turns service errors into
// private replies. Every handler catches its own failures; nothing in here
// takes the process down.
package bot

import (
	"context"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/lalega/match-bot/repos/discord"
	"github.com/lalega/match-bot/services/claims"
	"github.com/lalega/match-bot/services/cover"
	"github.com/lalega/match-bot/services/matches"
)

// Options are the bot's collaborators, injected at startup.
type Options struct {
	Matches      *matches.MatchesService
	Claims       *claims.ClaimService
	Cover        *cover.CoverService
	Discord      *discord.Service
	AdminRoleIDs []string
}

// Bot owns the gateway session and the interaction dispatch.
type Bot struct {
	session *discordgo.Session
	opts    Options
}

// New attaches the bot's handlers to the session. The session is not opened
// here; Run does that.
func New(session *discordgo.Session, opts Options) *Bot {
	b := &Bot{session: session, opts: opts}
	session.Identify.Intents = discordgo.IntentsGuilds
	session.AddHandler(b.onReady)
	session.AddHandler(b.onInteraction)
	return b
}

// Run opens the gateway connection and blocks until the context is
// cancelled.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.session.Open(); err != nil {
		return err
	}
	defer b.session.Close()
	<-ctx.Done()
	return nil
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	log.Printf("Logged in as %s\n", r.User.String())
	if _, err := s.ApplicationCommandBulkOverwrite(s.State.User.ID, "", commandDefinitions()); err != nil {
		log.Printf("Failed to register slash commands: %v\n", err)
		return
	}
	log.Println("Slash commands registered")
}

func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.dispatchCommand(s, i)
	case discordgo.InteractionMessageComponent:
		b.dispatchComponent(s, i)
	}
}

func (b *Bot) dispatchCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	name := i.ApplicationCommandData().Name
	ctx := context.Background()

	switch name {
	case "creatematch":
		b.handleCreateMatch(ctx, s, i)
	case "updatematch":
		b.handleUpdateMatch(ctx, s, i)
	case "deletematch":
		b.handleDeleteMatch(ctx, s, i)
	case "matches":
		b.handleListMatches(ctx, s, i)
	case "claim":
		b.handleClaimMainReferee(ctx, s, i)
	case "requestcover":
		b.handleRequestCover(ctx, s, i)
	case "claim_media":
		b.handleClaimMedia(ctx, s, i)
	case "claim_stats":
		b.handleClaimStats(ctx, s, i)
	default:
		log.Printf("Unknown command %q\n", name)
	}
}

func (b *Bot) dispatchComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID
	if token, ok := strings.CutPrefix(customID, discord.CustomIDPrefix); ok {
		b.handleCoverAccept(context.Background(), s, i, token)
	}
}

// isAdmin checks the invoker's guild roles against the configured allowlist.
func (b *Bot) isAdmin(i *discordgo.InteractionCreate) bool {
	return discord.MemberHasRole(i.Member, b.opts.AdminRoleIDs)
}

// interactionUser resolves the invoking user in guilds and DMs alike.
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil {
		return i.Member.User
	}
	return i.User
}

// stringOptions flattens the command options by name.
func stringOptions(i *discordgo.InteractionCreate) map[string]string {
	out := make(map[string]string)
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Type == discordgo.ApplicationCommandOptionString {
			out[opt.Name] = opt.StringValue()
		}
	}
	return out
}

func replyEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("Failed to reply to interaction: %v\n", err)
	}
}

func replyEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, ephemeral bool) {
	data := &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{embed},
	}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		log.Printf("Failed to reply to interaction: %v\n", err)
	}
}

func followUpEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	_, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		log.Printf("Failed to follow up on interaction: %v\n", err)
	}
}
