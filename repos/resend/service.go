// Package resend emails the league ops mailbox when the schedule changes.
// Notifications are best-effort: a failed mail never fails the command that
// triggered it.
package resend

import (
	"context"
	"fmt"
	"log"
	"os"

	resend "github.com/resend/resend-go/v2"

	"github.com/lalega/match-bot/repos/sheets"
)

// Service sends schedule-change notifications.
type Service struct {
	client   *resend.Client
	from     string
	opsEmail string
}

// NewService creates a new service. The API key comes from the environment
// like the rest of the third-party credentials.
func NewService(opsEmail string) *Service {
	resendKey := os.Getenv("RESEND_KEY")
	return &Service{
		client:   resend.NewClient(resendKey),
		from:     "schedule@resend.dev",
		opsEmail: opsEmail,
	}
}

// MatchCreated notifies ops that a match was added to the schedule.
func (s *Service) MatchCreated(ctx context.Context, m sheets.Match) error {
	subject := fmt.Sprintf("Match created: %s", m.ID)
	return s.send(subject, matchTemplate("A new match was added to the schedule.", m))
}

// MatchDeleted notifies ops that a match was removed. The announcement
// message is not torn down by the bot, so the mail carries its ID for manual
// cleanup.
func (s *Service) MatchDeleted(ctx context.Context, m sheets.Match) error {
	subject := fmt.Sprintf("Match deleted: %s", m.ID)
	return s.send(subject, matchTemplate("A match was removed from the schedule. Its announcement message was left in place.", m))
}

func (s *Service) send(subject, html string) error {
	if s.opsEmail == "" {
		return nil
	}
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{s.opsEmail},
		Subject: subject,
		Html:    html,
	}
	_, err := s.client.Emails.Send(params)
	if err != nil {
		log.Printf("Failed to send ops mail %q: %v\n", subject, err)
		return err
	}
	return nil
}
