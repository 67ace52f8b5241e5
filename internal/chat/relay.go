package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Rrens/quackbot/internal/domain"
	"github.com/rs/zerolog/log"
)

// Responder produces a bot reply for an utterance
type Responder interface {
	Respond(ctx context.Context, phase domain.Phase, topic, utterance string) (string, error)
}

// Pending tracks the asynchronous half of a Send
type Pending struct {
	// UserMessage is the message appended synchronously by Send
	UserMessage domain.Message

	done  chan struct{}
	reply domain.Message
	ok    bool
}

// Done is closed once the reply was appended or dropped
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Reply returns the appended bot message. ok is false while the request is in
// flight and when the reply was dropped because the topic changed.
func (p *Pending) Reply() (domain.Message, bool) {
	select {
	case <-p.done:
		return p.reply, p.ok
	default:
		return domain.Message{}, false
	}
}

// Relay forwards user messages to a Responder and appends replies to the session transcript
type Relay struct {
	responder Responder
	timeout   time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRelay creates a relay. timeout bounds each responder call; zero means no bound.
func NewRelay(responder Responder, timeout time.Duration) *Relay {
	ctx, cancel := context.WithCancel(context.Background())
	return &Relay{
		responder: responder,
		timeout:   timeout,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Send appends utterance to the transcript and requests a reply in the background.
// Whitespace-only input is ignored and reported with ok == false.
func (r *Relay) Send(s *Session, utterance string) (*Pending, bool) {
	if strings.TrimSpace(utterance) == "" {
		return nil, false
	}

	msg, t := s.beginTurn(utterance)
	p := &Pending{UserMessage: msg, done: make(chan struct{})}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer close(p.done)
		p.reply, p.ok = r.exchange(s, t, utterance)
	}()

	return p, true
}

func (r *Relay) exchange(s *Session, t turn, utterance string) (domain.Message, bool) {
	ctx := r.ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := r.responder.Respond(ctx, t.phase, t.topic, utterance)
	if err != nil {
		log.Warn().
			Err(err).
			Str("session_id", s.ID().String()).
			Str("phase", string(t.phase)).
			Str("topic", t.topic).
			Msg("chat responder failed")
		text = fmt.Sprintf("Error Fetching chat : %v", err)
	} else {
		log.Debug().
			Str("session_id", s.ID().String()).
			Int64("latency_ms", time.Since(start).Milliseconds()).
			Msg("chat reply received")
	}

	reply, ok := s.completeTurn(t, text)
	if !ok {
		log.Debug().
			Str("session_id", s.ID().String()).
			Str("topic", t.topic).
			Msg("dropping reply for a replaced topic")
	}
	return reply, ok
}

// Shutdown waits for in-flight requests, cancelling them if ctx expires first
func (r *Relay) Shutdown(ctx context.Context) error {
	drained := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		r.cancel()
		return nil
	case <-ctx.Done():
		r.cancel()
		<-drained
		return ctx.Err()
	}
}
