package client

import (
	"context"
	"strings"
	"sync"

	"github.com/validately/startup-validator-backend/internal/logger"
)

// MinIdeaLength is the local submission guard; text shorter than this never
// reaches the network.
const MinIdeaLength = 10

type SessionState int

const (
	StateUnauthenticated SessionState = iota
	StateIdle
	StateSubmitting
	StateViewing
)

func (s SessionState) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateViewing:
		return "viewing"
	}
	return "unknown"
}

// Session owns the client-side state for one authenticated context: identity,
// bearer token, the in-memory analyses list, and the current analysis. It is
// an explicit injected object, not a shared singleton. All methods are safe
// for concurrent use; at most one submission is in flight at a time.
type Session struct {
	mu  sync.Mutex
	api *Client
	log *logger.Logger

	state    SessionState
	user     *UserView
	analyses []*Analysis
	current  *Analysis
}

func NewSession(api *Client, log *logger.Logger) *Session {
	return &Session{
		api:   api,
		log:   log.With("component", "Session"),
		state: StateUnauthenticated,
	}
}

func (s *Session) Register(ctx context.Context, username, email, password string) (*UserView, error) {
	token, user, err := s.api.Register(ctx, username, email, password)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticate(token, user)
	return user, nil
}

func (s *Session) Login(ctx context.Context, email, password string) (*UserView, error) {
	token, user, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticate(token, user)
	return user, nil
}

func (s *Session) authenticate(token string, user *UserView) {
	s.api.SetToken(token)
	s.user = user
	s.analyses = nil
	s.current = nil
	s.state = StateIdle
}

// SubmitIdea validates locally, then runs the synchronous submit. On success
// the new analysis is prepended and becomes current; on failure nothing
// changes and the caller keeps their draft.
func (s *Session) SubmitIdea(ctx context.Context, title string) (*Analysis, error) {
	title = strings.TrimSpace(title)

	s.mu.Lock()
	if s.state == StateUnauthenticated || s.user == nil {
		s.mu.Unlock()
		return nil, ErrNotAuthenticated
	}
	if s.state == StateSubmitting {
		s.mu.Unlock()
		return nil, ErrSubmissionInFlight
	}
	if len(title) < MinIdeaLength {
		s.mu.Unlock()
		return nil, ErrTitleTooShort
	}
	prevState := s.state
	s.state = StateSubmitting
	userID := s.user.ID
	s.mu.Unlock()

	record, err := s.api.ValidateIdea(ctx, userID, title)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = prevState
		return nil, err
	}
	analysis, decErr := record.ToAnalysis()
	if decErr != nil {
		s.state = prevState
		return nil, decErr
	}
	s.analyses = append([]*Analysis{analysis}, s.analyses...)
	s.current = analysis
	s.state = StateIdle
	return analysis, nil
}

// FetchAnalyses replaces the in-memory list with the server's current order.
// A replace, not a merge: stale local state must not drift.
func (s *Session) FetchAnalyses(ctx context.Context) ([]*Analysis, error) {
	s.mu.Lock()
	if s.state == StateUnauthenticated || s.user == nil {
		s.mu.Unlock()
		return nil, ErrNotAuthenticated
	}
	userID := s.user.ID
	s.mu.Unlock()

	records, err := s.api.ListIdeas(ctx, userID)
	if err != nil {
		return nil, err
	}
	analyses := make([]*Analysis, 0, len(records))
	for i := range records {
		analysis, decErr := records[i].ToAnalysis()
		if decErr != nil {
			s.log.Warn("Skipping malformed analysis record", "idea_id", records[i].ID, "error", decErr)
			continue
		}
		analyses = append(analyses, analysis)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyses = analyses
	return analyses, nil
}

// SelectAnalysis makes an already-fetched analysis current.
func (s *Session) SelectAnalysis(id string) (*Analysis, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.analyses {
		if a.ID == id {
			s.current = a
			s.state = StateViewing
			return a, true
		}
	}
	return nil, false
}

// FetchAnalysisByID loads a single analysis from the server and makes it
// current.
func (s *Session) FetchAnalysisByID(ctx context.Context, id string) (*Analysis, error) {
	s.mu.Lock()
	if s.state == StateUnauthenticated {
		s.mu.Unlock()
		return nil, ErrNotAuthenticated
	}
	s.mu.Unlock()

	record, err := s.api.GetAnalysis(ctx, id)
	if err != nil {
		return nil, err
	}
	analysis, decErr := record.ToAnalysis()
	if decErr != nil {
		return nil, decErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = analysis
	s.state = StateViewing
	return analysis, nil
}

// Logout clears identity, token, and analyses, returning to Unauthenticated.
// The server-side revocation is best effort; local state clears regardless.
func (s *Session) Logout(ctx context.Context) {
	if err := s.api.Logout(ctx); err != nil {
		s.log.Warn("Server logout failed, clearing local session anyway", "error", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.api.ClearToken()
	s.user = nil
	s.analyses = nil
	s.current = nil
	s.state = StateUnauthenticated
}

func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) User() *UserView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

func (s *Session) Current() *Analysis {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Session) Analyses() []*Analysis {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Analysis, len(s.analyses))
	copy(out, s.analyses)
	return out
}
