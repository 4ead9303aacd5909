package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/bwmarrin/discordgo"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"google.golang.org/api/option"

	discordrepo "github.com/lalega/match-bot/repos/discord"
	"github.com/lalega/match-bot/repos/resend"
	"github.com/lalega/match-bot/repos/sheets"

	auth "github.com/lalega/match-bot/pkg/auth"

	"github.com/lalega/match-bot/bot"
	"github.com/lalega/match-bot/services/claims"
	"github.com/lalega/match-bot/services/cover"
	"github.com/lalega/match-bot/services/matches"
)

func main() {
	ctx := context.Background()

	discordToken := os.Getenv("DISCORD_TOKEN")
	credentialsJSON := os.Getenv("GOOGLE_CREDENTIALS_JSON")
	spreadsheetID := os.Getenv("SPREADSHEET_ID")
	channelID := os.Getenv("ANNOUNCE_CHANNEL_ID")
	if discordToken == "" || credentialsJSON == "" || spreadsheetID == "" || channelID == "" {
		log.Fatalf("DISCORD_TOKEN, GOOGLE_CREDENTIALS_JSON, SPREADSHEET_ID and ANNOUNCE_CHANNEL_ID are required")
	}

	sheetName := envOr("SHEET_NAME", "MATCHES")
	port := envOr("PORT", "8080")
	allowOrigins := os.Getenv("CORS_HOSTS")
	refereeRoleID := os.Getenv("REFEREE_ROLE_ID")
	adminRoleIDs := splitList(os.Getenv("ADMIN_ROLE_IDS"))
	opsEmail := os.Getenv("OPS_EMAIL")
	brand := discordrepo.Brand{
		Name:    envOr("LEAGUE_NAME", "LA LEGA"),
		LogoURL: os.Getenv("LEAGUE_LOGO_URL"),
	}

	coverWindow := cover.DefaultWindow
	if v := os.Getenv("COVER_WINDOW_MINUTES"); v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil || minutes <= 0 {
			log.Fatalf("Invalid COVER_WINDOW_MINUTES %q", v)
		}
		coverWindow = time.Duration(minutes) * time.Minute
	}

	sheetsService, err := sheets.NewService(ctx, []byte(credentialsJSON), spreadsheetID, sheetName)
	if err != nil {
		log.Fatalf("Failed to create sheets client: %v", err)
	}

	credentialsOption := option.WithCredentialsJSON([]byte(credentialsJSON))
	firebaseApp, err := firebase.NewApp(ctx, nil, credentialsOption)
	if err != nil {
		log.Fatalf("error initializing app: %v\n", err)
	}

	session, err := discordgo.New("Bot " + discordToken)
	if err != nil {
		log.Fatalf("Failed to create Discord session: %v", err)
	}

	discordService := discordrepo.NewService(session, channelID, refereeRoleID, brand)
	resendService := resend.NewService(opsEmail)

	matchesService := matches.NewMatchesService(sheetsService, discordService, resendService)
	claimService := claims.NewClaimService(sheetsService, discordService)
	coverService := cover.NewCoverService(sheetsService, claimService, discordService, coverWindow)

	config := cors.DefaultConfig()
	config.AllowOrigins = strings.Split(allowOrigins, ",")
	config.AllowCredentials = true
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Access-Control-Allow-Origin"}

	router := gin.Default()
	if allowOrigins != "" {
		router.Use(cors.New(config))
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	matchesRouter := router.Group("/matches/v1")
	matchesRouter.Use(auth.AuthMiddleware(firebaseApp))

	matches.NewHTTPHandler(matches.HTTPOptions{
		Service: matchesService,
		Router:  matchesRouter,
	})

	go func() {
		log.Fatal(router.Run(":" + port))
	}()

	discordBot := bot.New(session, bot.Options{
		Matches:      matchesService,
		Claims:       claimService,
		Cover:        coverService,
		Discord:      discordService,
		AdminRoleIDs: adminRoleIDs,
	})

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := discordBot.Run(runCtx); err != nil {
		log.Fatalf("Failed to run bot: %v", err)
	}
	log.Println("Shutting down")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
