// Package claims implements the write-once role assignment workflow. A role
// on a match goes from unclaimed to claimed exactly once; there is no
// un-claim and no reassignment.
package claims

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/lalega/match-bot/repos/sheets"
)

// MatchStore is the slice of the sheet store the claim workflow needs. The
// store performs the unclaimed-at-write-time guard itself.
type MatchStore interface {
	UpdateAssignment(ctx context.Context, matchID string, role sheets.Role, userID string) (sheets.Match, error)
}

// Announcer mirrors a claim into the announcement message and DMs the
// claimant.
type Announcer interface {
	EditAnnouncement(m sheets.Match) error
	DirectMessage(userID, content string) error
}

// Result reports a successful claim plus any soft failures. The claim itself
// is durable once the store write went through; a stale announcement or a
// failed DM is reported, never rolled back.
type Result struct {
	Match             sheets.Match
	AnnouncementStale bool
	DMFailed          bool
}

// ClaimService serializes claim writes per match and keeps the announcement
// in step with the record.
type ClaimService struct {
	store     MatchStore
	announcer Announcer

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewClaimService creates a new claim service.
func NewClaimService(store MatchStore, announcer Announcer) *ClaimService {
	return &ClaimService{
		store:     store,
		announcer: announcer,
		locks:     make(map[string]*sync.Mutex),
	}
}

// matchLock returns the mutex owning all claim writes for one match. Entries
// are never evicted; the schedule holds tens of rows, not millions.
func (s *ClaimService) matchLock(matchID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[matchID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[matchID] = l
	}
	return l
}

// Claim assigns the role to the user. Store first, then the announcement
// edit, then a best-effort DM with the private link when one was supplied.
// Claims for the same match are serialized through a per-match lock, so two
// in-process claims of the same role cannot both read the cell as empty; the
// loser gets sheets.ErrRoleTaken. Claims across separate bot processes stay
// racy, the sheet has no conditional write.
func (s *ClaimService) Claim(ctx context.Context, matchID string, role sheets.Role, userID, privateLink string) (Result, error) {
	l := s.matchLock(matchID)
	l.Lock()
	defer l.Unlock()

	m, err := s.store.UpdateAssignment(ctx, matchID, role, userID)
	if err != nil {
		return Result{}, err
	}

	res := Result{Match: m}

	if err := s.announcer.EditAnnouncement(m); err != nil {
		// The record and the message now diverge until the next claim
		// re-renders it. Reported to the caller as a soft warning.
		log.Printf("Failed to update announcement for match %s: %v\n", matchID, err)
		res.AnnouncementStale = true
	}

	if privateLink != "" {
		if err := s.announcer.DirectMessage(userID, dmText(matchID, role, privateLink)); err != nil {
			log.Printf("Failed to DM claimant %s: %v\n", userID, err)
			res.DMFailed = true
		}
	}

	return res, nil
}

func dmText(matchID string, role sheets.Role, privateLink string) string {
	if role == sheets.RoleCoverReferee {
		return fmt.Sprintf("✅ You are covering match `%s`. Server link: %s", matchID, privateLink)
	}
	return fmt.Sprintf("🔒 You claimed match `%s`. Here's your server link: %s", matchID, privateLink)
}
