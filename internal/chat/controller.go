package chat

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Rrens/quackbot/internal/catalog"
	"github.com/Rrens/quackbot/internal/domain"
	"github.com/google/uuid"
)

var (
	// ErrSessionNotFound is returned for an unknown session ID
	ErrSessionNotFound = errors.New("session not found")
	// ErrUnknownCompany is returned when selecting a name that is not in the catalog
	ErrUnknownCompany = errors.New("company not in catalog")
)

// Controller owns every live session and routes UI actions to them
type Controller struct {
	catalog *catalog.Service
	relay   *Relay

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// NewController creates a session controller
func NewController(catalogService *catalog.Service, relay *Relay) *Controller {
	return &Controller{
		catalog:  catalogService,
		relay:    relay,
		sessions: make(map[uuid.UUID]*Session),
	}
}

// Create starts a new General session
func (c *Controller) Create() *Session {
	s := NewSession()

	c.mu.Lock()
	c.sessions[s.ID()] = s
	c.mu.Unlock()

	return s
}

// Get returns a live session
func (c *Controller) Get(id uuid.UUID) (*Session, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, ok := c.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Delete drops a session. Replies still in flight for it are discarded with it.
func (c *Controller) Delete(id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(c.sessions, id)
	return nil
}

// Len returns the number of live sessions
func (c *Controller) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sessions)
}

// SelectCompany makes a catalog company the session topic
func (c *Controller) SelectCompany(id uuid.UUID, name string) (domain.ChatSession, error) {
	s, err := c.Get(id)
	if err != nil {
		return domain.ChatSession{}, err
	}
	if !c.catalog.Store().Contains(name) {
		return domain.ChatSession{}, fmt.Errorf("%w: %q", ErrUnknownCompany, name)
	}

	s.SelectCompany(name)
	return s.Snapshot(), nil
}

// ResetToGeneral returns the session to the General topic
func (c *Controller) ResetToGeneral(id uuid.UUID) (domain.ChatSession, error) {
	s, err := c.Get(id)
	if err != nil {
		return domain.ChatSession{}, err
	}

	s.ResetToGeneral()
	return s.Snapshot(), nil
}

// SetPhase sets the session phase
func (c *Controller) SetPhase(id uuid.UUID, phase string) (domain.ChatSession, error) {
	p, err := domain.ParsePhase(phase)
	if err != nil {
		return domain.ChatSession{}, err
	}

	s, err := c.Get(id)
	if err != nil {
		return domain.ChatSession{}, err
	}

	s.SetPhase(p)
	return s.Snapshot(), nil
}

// TogglePhase flips the session phase
func (c *Controller) TogglePhase(id uuid.UUID) (domain.ChatSession, error) {
	s, err := c.Get(id)
	if err != nil {
		return domain.ChatSession{}, err
	}

	s.TogglePhase()
	return s.Snapshot(), nil
}

// Send relays a user message. ok is false when the message was blank and ignored.
func (c *Controller) Send(id uuid.UUID, text string) (*Pending, bool, error) {
	s, err := c.Get(id)
	if err != nil {
		return nil, false, err
	}

	p, ok := c.relay.Send(s, text)
	return p, ok, nil
}

// View renders the session's current catalog page
func (c *Controller) View(id uuid.UUID) (domain.BrowseState, domain.PageView, error) {
	s, err := c.Get(id)
	if err != nil {
		return domain.BrowseState{}, domain.PageView{}, err
	}

	state := s.BrowseState()
	return state, c.catalog.View(state), nil
}

// Browse applies a browse action to the session and renders the resulting page
func (c *Controller) Browse(id uuid.UUID, action catalog.Action) (domain.BrowseState, domain.PageView, error) {
	s, err := c.Get(id)
	if err != nil {
		return domain.BrowseState{}, domain.PageView{}, err
	}

	var view domain.PageView
	state, err := s.UpdateBrowse(func(current domain.BrowseState) (domain.BrowseState, error) {
		next, v, err := c.catalog.Browse(current, action)
		view = v
		return next, err
	})
	return state, view, err
}
