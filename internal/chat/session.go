package chat

import (
	"slices"
	"sync"
	"time"

	"github.com/Rrens/quackbot/internal/catalog"
	"github.com/Rrens/quackbot/internal/domain"
	"github.com/google/uuid"
)

// Session is one client's chat state: topic, phase, transcript and catalog browse state.
//
// All mutations take mu, including reply appends arriving from relay goroutines,
// so a session behaves as a single writer.
type Session struct {
	mu         sync.Mutex
	id         uuid.UUID
	topic      string
	phase      domain.Phase
	transcript []domain.Message
	browse     domain.BrowseState
	// generation changes whenever the transcript is replaced; replies
	// carrying an older generation are dropped
	generation uint64
	createdAt  time.Time
	updatedAt  time.Time
}

// turn identifies an in-flight relay request
type turn struct {
	phase      domain.Phase
	topic      string
	generation uint64
}

// NewSession creates a session on the General topic with its greeting
func NewSession() *Session {
	now := time.Now()
	s := &Session{
		id:        uuid.New(),
		phase:     domain.Phase1,
		browse:    catalog.InitialBrowseState(),
		createdAt: now,
	}
	s.replaceTopic(domain.TopicGeneral)
	return s
}

// ID returns the session identifier
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Topic returns the active topic
func (s *Session) Topic() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.topic
}

// Phase returns the active phase
func (s *Session) Phase() domain.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Transcript returns a copy of the messages so far
func (s *Session) Transcript() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.transcript)
}

// SelectCompany switches the topic to name. Selecting the current topic
// changes nothing; it reports whether the transcript was replaced.
func (s *Session) SelectCompany(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if name == s.topic {
		return false
	}
	s.replaceTopic(name)
	return true
}

// ResetToGeneral returns to the General topic with a fresh transcript
func (s *Session) ResetToGeneral() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaceTopic(domain.TopicGeneral)
}

// SetPhase sets the phase. Topic and transcript are untouched.
func (s *Session) SetPhase(p domain.Phase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = p
	s.updatedAt = time.Now()
}

// TogglePhase flips between phase1 and phase2 and returns the new phase
func (s *Session) TogglePhase() domain.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = s.phase.Toggle()
	s.updatedAt = time.Now()
	return s.phase
}

// BrowseState returns the catalog browse state
func (s *Session) BrowseState() domain.BrowseState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.browse
}

// UpdateBrowse applies fn to the browse state under the session lock
func (s *Session) UpdateBrowse(fn func(domain.BrowseState) (domain.BrowseState, error)) (domain.BrowseState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(s.browse)
	if err != nil {
		return s.browse, err
	}
	s.browse = next
	s.updatedAt = time.Now()
	return next, nil
}

// Snapshot returns a copy of the whole session state
func (s *Session) Snapshot() domain.ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	return domain.ChatSession{
		ID:         s.id,
		Topic:      s.topic,
		Phase:      s.phase,
		Transcript: slices.Clone(s.transcript),
		Browse:     s.browse,
		CreatedAt:  s.createdAt,
		UpdatedAt:  s.updatedAt,
	}
}

// beginTurn appends the user's message and captures what the request needs
func (s *Session) beginTurn(text string) (domain.Message, turn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := s.appendLocked(domain.SenderUser, text)
	return msg, turn{phase: s.phase, topic: s.topic, generation: s.generation}
}

// completeTurn appends the bot reply unless the topic changed since the turn began
func (s *Session) completeTurn(t turn, text string) (domain.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.generation != s.generation {
		return domain.Message{}, false
	}
	return s.appendLocked(domain.SenderBot, text), true
}

func (s *Session) replaceTopic(topic string) {
	s.topic = topic
	s.generation++
	s.transcript = nil
	s.appendLocked(domain.SenderBot, domain.Greeting(topic))
}

func (s *Session) appendLocked(sender domain.Sender, text string) domain.Message {
	msg := domain.NewMessage(sender, text)
	s.transcript = append(s.transcript, msg)
	s.updatedAt = msg.CreatedAt
	return msg
}
