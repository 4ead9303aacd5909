// Package cover implements the time-boxed cover solicitation: a callout with
// an accept button, open for one window, filled by at most one responder.
package cover

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/samborkent/uuidv7"

	"github.com/lalega/match-bot/repos/sheets"
	"github.com/lalega/match-bot/services/claims"
)

// DefaultWindow matches the five minutes a callout used to stay open.
const DefaultWindow = 5 * time.Minute

var (
	// ErrOwnRequest rejects a requester accepting their own callout. The
	// request stays open for everyone else.
	ErrOwnRequest = errors.New("cannot cover your own match")
	// ErrRequestClosed covers unknown tokens, expired windows and
	// already-accepted requests alike.
	ErrRequestClosed = errors.New("cover request is closed")
)

// MatchStore is the read side the request path needs.
type MatchStore interface {
	FindByID(ctx context.Context, matchID string) (sheets.Match, int, error)
}

// Claimer runs the actual cover-referee claim transition.
type Claimer interface {
	Claim(ctx context.Context, matchID string, role sheets.Role, userID, privateLink string) (claims.Result, error)
}

// Callouts is the chat side of a cover request.
type Callouts interface {
	PostCoverCallout(m sheets.Match, token string) (string, error)
	DisableCoverButton(messageID, token string) error
	ExpireCoverCallout(messageID, matchID string) error
}

// request is one open window. Tokens are uuidv7, carried in the button's
// custom ID, so the interaction dispatcher can find its way back here.
type request struct {
	token       string
	matchID     string
	requesterID string
	privateLink string
	messageID   string
	timer       *time.Timer
}

// CoverService tracks open cover requests. A request leaves the table on
// acceptance or expiry, whichever comes first; nothing else cancels it.
type CoverService struct {
	store    MatchStore
	claimer  Claimer
	callouts Callouts
	window   time.Duration

	mu   sync.Mutex
	open map[string]*request
}

// NewCoverService creates a new cover service. A zero window falls back to
// DefaultWindow.
func NewCoverService(store MatchStore, claimer Claimer, callouts Callouts, window time.Duration) *CoverService {
	if window <= 0 {
		window = DefaultWindow
	}
	return &CoverService{
		store:    store,
		claimer:  claimer,
		callouts: callouts,
		window:   window,
		open:     make(map[string]*request),
	}
}

// Request posts the callout and opens its window. Returns the request token.
func (s *CoverService) Request(ctx context.Context, matchID, requesterID, privateLink string) (string, error) {
	m, _, err := s.store.FindByID(ctx, matchID)
	if err != nil {
		return "", err
	}
	if m.AnnouncementID == "" {
		return "", sheets.ErrNoAnnouncement
	}

	token := uuidv7.New().String()
	messageID, err := s.callouts.PostCoverCallout(m, token)
	if err != nil {
		return "", err
	}

	req := &request{
		token:       token,
		matchID:     matchID,
		requesterID: requesterID,
		privateLink: privateLink,
		messageID:   messageID,
	}
	req.timer = time.AfterFunc(s.window, func() { s.expire(token) })

	s.mu.Lock()
	s.open[token] = req
	s.mu.Unlock()

	return token, nil
}

// Accept handles a button click. The first eligible responder inside the
// window takes the cover role; everyone after that sees a closed request.
// The requester is always rejected and does not consume the window.
func (s *CoverService) Accept(ctx context.Context, token, responderID string) (claims.Result, error) {
	s.mu.Lock()
	req, ok := s.open[token]
	if !ok {
		s.mu.Unlock()
		return claims.Result{}, ErrRequestClosed
	}
	if responderID == req.requesterID {
		s.mu.Unlock()
		return claims.Result{}, ErrOwnRequest
	}
	// Single-acceptance latch: the request leaves the table before the
	// claim runs, so a second click cannot reach the store.
	delete(s.open, token)
	s.mu.Unlock()

	req.timer.Stop()

	res, err := s.claimer.Claim(ctx, req.matchID, sheets.RoleCoverReferee, responderID, req.privateLink)
	if err != nil {
		if errors.Is(err, sheets.ErrRoleTaken) {
			// Someone filled the role outside this window; the callout is
			// pointless now.
			if calloutErr := s.callouts.ExpireCoverCallout(req.messageID, req.matchID); calloutErr != nil {
				log.Printf("Failed to close stale cover callout %s: %v\n", req.messageID, calloutErr)
			}
		}
		return claims.Result{}, err
	}

	if err := s.callouts.DisableCoverButton(req.messageID, token); err != nil {
		log.Printf("Failed to disable cover button on %s: %v\n", req.messageID, err)
	}
	return res, nil
}

// expire fires from the window timer. A request already accepted is gone
// from the table and there is nothing to do.
func (s *CoverService) expire(token string) {
	s.mu.Lock()
	req, ok := s.open[token]
	if ok {
		delete(s.open, token)
	}
	s.mu.Unlock()
	if !ok {
		return
	}
	if err := s.callouts.ExpireCoverCallout(req.messageID, req.matchID); err != nil {
		log.Printf("Failed to expire cover callout %s: %v\n", req.messageID, err)
	}
}

// OpenRequests reports how many windows are currently open.
func (s *CoverService) OpenRequests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.open)
}
