package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TopicGeneral is the topic of a session with no company selected
const TopicGeneral = "General"

// Phase selects which responder pipeline handles a chat request
type Phase string

const (
	Phase1 Phase = "phase1"
	Phase2 Phase = "phase2"
)

// ErrInvalidPhase is returned when a phase name is not recognised
var ErrInvalidPhase = errors.New("invalid phase")

// ParsePhase validates a phase name
func ParsePhase(s string) (Phase, error) {
	switch Phase(s) {
	case Phase1, Phase2:
		return Phase(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPhase, s)
}

// Toggle returns the other phase
func (p Phase) Toggle() Phase {
	if p == Phase2 {
		return Phase1
	}
	return Phase2
}

// ChatSession is a point-in-time snapshot of a chat session
type ChatSession struct {
	ID         uuid.UUID   `json:"id"`
	Topic      string      `json:"topic"`
	Phase      Phase       `json:"phase"`
	Transcript []Message   `json:"transcript"`
	Browse     BrowseState `json:"browse"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// Greeting returns the bot message that opens every transcript
func Greeting(topic string) string {
	return fmt.Sprintf("Quack! how can i help u with %s.", topic)
}
