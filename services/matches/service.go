// Package matches holds the admin schedule operations: create, update,
// delete, list. Claims live in services/claims, cover solicitations in
// services/cover.
package matches

import (
	"context"
	"log"

	"github.com/lalega/match-bot/repos/sheets"
)

// MatchStore is the sheet surface the schedule operations need.
type MatchStore interface {
	Append(ctx context.Context, m sheets.Match) (int, error)
	SetAnnouncementRef(ctx context.Context, row int, messageID string) error
	FindByID(ctx context.Context, matchID string) (sheets.Match, int, error)
	List(ctx context.Context) ([]sheets.Match, error)
	UpdateFixedFields(ctx context.Context, matchID string, f sheets.FixedFields) (sheets.Match, error)
	Delete(ctx context.Context, matchID string) (sheets.Match, error)
}

// Announcer posts the announcement embed for a new match.
type Announcer interface {
	PostAnnouncement(m sheets.Match) (string, error)
}

// Mailer notifies the ops mailbox about schedule changes. Optional; a nil
// mailer disables notifications.
type Mailer interface {
	MatchCreated(ctx context.Context, m sheets.Match) error
	MatchDeleted(ctx context.Context, m sheets.Match) error
}

// MatchesService implements the admin schedule commands.
type MatchesService struct {
	store     MatchStore
	announcer Announcer
	mailer    Mailer
}

// NewMatchesService creates a new matches service.
func NewMatchesService(store MatchStore, announcer Announcer, mailer Mailer) *MatchesService {
	return &MatchesService{
		store:     store,
		announcer: announcer,
		mailer:    mailer,
	}
}

// CreateResult reports a creation. StoreFailed flags the partial-success
// case: the announcement is up, the sheet write failed, and the two now
// diverge until an admin fixes the sheet by hand.
type CreateResult struct {
	Match       sheets.Match
	StoreFailed bool
}

// Create posts the announcement first, then appends the row and back-fills
// the message reference. Duplicate match IDs are not rejected; the sheet is
// append-only on this path and a duplicate shadows the older row in lookups.
func (s *MatchesService) Create(ctx context.Context, m sheets.Match) (CreateResult, error) {
	messageID, err := s.announcer.PostAnnouncement(m)
	if err != nil {
		return CreateResult{}, err
	}
	m.AnnouncementID = messageID

	res := CreateResult{Match: m}

	// Append without the message reference, then back-fill it, mirroring
	// the sheet's append-then-update contract. Either failure leaves the
	// announcement standing and is reported as a soft warning.
	stored := m
	stored.AnnouncementID = ""
	row, err := s.store.Append(ctx, stored)
	if err != nil {
		log.Printf("Failed to log match %s to the sheet: %v\n", m.ID, err)
		res.StoreFailed = true
		return res, nil
	}
	if err := s.store.SetAnnouncementRef(ctx, row, messageID); err != nil {
		log.Printf("Failed to back-fill announcement ref for match %s: %v\n", m.ID, err)
		res.StoreFailed = true
		return res, nil
	}

	s.notifyCreated(ctx, m)
	return res, nil
}

// Update rewrites the fixed fields only. Assignments and the announcement
// reference survive untouched.
func (s *MatchesService) Update(ctx context.Context, matchID string, f sheets.FixedFields) (sheets.Match, error) {
	return s.store.UpdateFixedFields(ctx, matchID, f)
}

// Delete removes the match's row. The announcement message stays up,
// orphaned; the ops mail carries its ID for manual cleanup.
func (s *MatchesService) Delete(ctx context.Context, matchID string) error {
	m, err := s.store.Delete(ctx, matchID)
	if err != nil {
		return err
	}
	s.notifyDeleted(ctx, m)
	return nil
}

// List returns the schedule in sheet order.
func (s *MatchesService) List(ctx context.Context) ([]sheets.Match, error) {
	return s.store.List(ctx)
}

func (s *MatchesService) notifyCreated(ctx context.Context, m sheets.Match) {
	if s.mailer == nil {
		return
	}
	if err := s.mailer.MatchCreated(ctx, m); err != nil {
		log.Printf("Ops mail for created match %s failed: %v\n", m.ID, err)
	}
}

func (s *MatchesService) notifyDeleted(ctx context.Context, m sheets.Match) {
	if s.mailer == nil {
		return
	}
	if err := s.mailer.MatchDeleted(ctx, m); err != nil {
		log.Printf("Ops mail for deleted match %s failed: %v\n", m.ID, err)
	}
}
