package claims

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lalega/match-bot/repos/sheets"
)

// fakeStore mimics the sheet's non-atomic get-then-put: it reads the role
// cell, yields, then writes. Without the service's per-match lock two
// concurrent claims would both see the cell empty.
type fakeStore struct {
	mu      sync.Mutex
	matches map[string]*sheets.Match
	delay   time.Duration
}

func newFakeStore(matches ...sheets.Match) *fakeStore {
	s := &fakeStore{matches: make(map[string]*sheets.Match)}
	for i := range matches {
		m := matches[i]
		s.matches[m.ID] = &m
	}
	return s
}

func (s *fakeStore) UpdateAssignment(ctx context.Context, matchID string, role sheets.Role, userID string) (sheets.Match, error) {
	s.mu.Lock()
	m, ok := s.matches[matchID]
	if !ok {
		s.mu.Unlock()
		return sheets.Match{}, sheets.ErrMatchNotFound
	}
	if m.AnnouncementID == "" {
		s.mu.Unlock()
		return sheets.Match{}, sheets.ErrNoAnnouncement
	}
	taken := m.Assignee(role) != ""
	s.mu.Unlock()

	if taken {
		return sheets.Match{}, sheets.ErrRoleTaken
	}

	// get-then-put window
	time.Sleep(s.delay)

	s.mu.Lock()
	defer s.mu.Unlock()
	m.SetAssignee(role, userID)
	return *m, nil
}

type fakeAnnouncer struct {
	mu      sync.Mutex
	edits   []sheets.Match
	dms     map[string]string
	editErr error
	dmErr   error
}

func newFakeAnnouncer() *fakeAnnouncer {
	return &fakeAnnouncer{dms: make(map[string]string)}
}

func (a *fakeAnnouncer) EditAnnouncement(m sheets.Match) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.editErr != nil {
		return a.editErr
	}
	a.edits = append(a.edits, m)
	return nil
}

func (a *fakeAnnouncer) DirectMessage(userID, content string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.dmErr != nil {
		return a.dmErr
	}
	a.dms[userID] = content
	return nil
}

func announcedMatch(id string) sheets.Match {
	return sheets.Match{
		ID:             id,
		Competition:    sheets.CompetitionLegacyCup,
		Round:          "3",
		Team1:          "A",
		Team2:          "B",
		Time:           "18:00 UTC",
		AnnouncementID: "msg-" + id,
	}
}

func TestClaimSuccess(t *testing.T) {
	store := newFakeStore(announcedMatch("M1"))
	ann := newFakeAnnouncer()
	svc := NewClaimService(store, ann)

	res, err := svc.Claim(context.Background(), "M1", sheets.RoleMainReferee, "u1", "https://srv")
	require.NoError(t, err)
	assert.Equal(t, "u1", res.Match.MainReferee)
	assert.False(t, res.AnnouncementStale)
	assert.False(t, res.DMFailed)

	require.Len(t, ann.edits, 1)
	assert.Equal(t, "u1", ann.edits[0].MainReferee)
	assert.Contains(t, ann.dms["u1"], "https://srv")
}

func TestSecondClaimRejected(t *testing.T) {
	store := newFakeStore(announcedMatch("M1"))
	svc := NewClaimService(store, newFakeAnnouncer())

	_, err := svc.Claim(context.Background(), "M1", sheets.RoleMedia, "u1", "")
	require.NoError(t, err)

	_, err = svc.Claim(context.Background(), "M1", sheets.RoleMedia, "u2", "")
	assert.ErrorIs(t, err, sheets.ErrRoleTaken)

	// First claimant unchanged.
	assert.Equal(t, "u1", store.matches["M1"].Media)
}

func TestClaimUnknownMatch(t *testing.T) {
	svc := NewClaimService(newFakeStore(), newFakeAnnouncer())
	_, err := svc.Claim(context.Background(), "nope", sheets.RoleStats, "u1", "")
	assert.ErrorIs(t, err, sheets.ErrMatchNotFound)
}

func TestClaimWithoutAnnouncement(t *testing.T) {
	m := announcedMatch("M1")
	m.AnnouncementID = ""
	svc := NewClaimService(newFakeStore(m), newFakeAnnouncer())

	_, err := svc.Claim(context.Background(), "M1", sheets.RoleStats, "u1", "")
	assert.ErrorIs(t, err, sheets.ErrNoAnnouncement)
}

func TestConcurrentClaimsExactlyOneWins(t *testing.T) {
	store := newFakeStore(announcedMatch("M1"))
	store.delay = 2 * time.Millisecond
	svc := NewClaimService(store, newFakeAnnouncer())

	const claimants = 8
	var wg sync.WaitGroup
	errs := make([]error, claimants)
	for i := 0; i < claimants; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Claim(context.Background(), "M1", sheets.RoleCoverReferee, "u"+string(rune('a'+i)), "")
		}(i)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		if err == nil {
			won++
		} else {
			assert.ErrorIs(t, err, sheets.ErrRoleTaken)
		}
	}
	assert.Equal(t, 1, won, "exactly one concurrent claim should win")
}

func TestClaimsOnDifferentMatchesDoNotBlock(t *testing.T) {
	store := newFakeStore(announcedMatch("M1"), announcedMatch("M2"))
	svc := NewClaimService(store, newFakeAnnouncer())

	var wg sync.WaitGroup
	for _, id := range []string{"M1", "M2"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := svc.Claim(context.Background(), id, sheets.RoleMainReferee, "u-"+id, "")
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	assert.Equal(t, "u-M1", store.matches["M1"].MainReferee)
	assert.Equal(t, "u-M2", store.matches["M2"].MainReferee)
}

func TestDMFailureDoesNotRollBack(t *testing.T) {
	store := newFakeStore(announcedMatch("M1"))
	ann := newFakeAnnouncer()
	ann.dmErr = errors.New("DMs closed")
	svc := NewClaimService(store, ann)

	res, err := svc.Claim(context.Background(), "M1", sheets.RoleMainReferee, "u1", "link")
	require.NoError(t, err)
	assert.True(t, res.DMFailed)
	assert.Equal(t, "u1", store.matches["M1"].MainReferee)
}

func TestAnnouncementEditFailureIsSoft(t *testing.T) {
	store := newFakeStore(announcedMatch("M1"))
	ann := newFakeAnnouncer()
	ann.editErr = errors.New("message deleted")
	svc := NewClaimService(store, ann)

	res, err := svc.Claim(context.Background(), "M1", sheets.RoleStats, "u1", "")
	require.NoError(t, err)
	assert.True(t, res.AnnouncementStale)
	assert.Equal(t, "u1", store.matches["M1"].Stats)
}
