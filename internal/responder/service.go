package responder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Rrens/quackbot/internal/catalog"
	"github.com/Rrens/quackbot/internal/domain"
	"github.com/Rrens/quackbot/internal/llm"
)

// ErrNoContext means retrieval found no company to ground an answer on
var ErrNoContext = errors.New("no relevant company data found")

// DefaultTopK bounds how many companies are put into one prompt
const DefaultTopK = 5

// ReplyCache stores finished replies; implemented by the redis reply cache
type ReplyCache interface {
	Get(ctx context.Context, phase, topic, utterance string) (string, bool, error)
	Set(ctx context.Context, phase, topic, utterance, reply string) error
}

// Options configures a Service
type Options struct {
	// Provider names the llm.Router provider; empty selects the router default
	Provider string
	Model    string
	TopK     int
	// Cache is optional
	Cache ReplyCache
}

// Service answers chat utterances from the catalog with an LLM
type Service struct {
	catalog  *catalog.Service
	llm      *llm.Router
	provider string
	model    string
	topK     int
	cache    ReplyCache
}

// NewService creates a responder service
func NewService(catalogService *catalog.Service, router *llm.Router, opts Options) *Service {
	if opts.TopK <= 0 {
		opts.TopK = DefaultTopK
	}
	return &Service{
		catalog:  catalogService,
		llm:      router,
		provider: opts.Provider,
		model:    opts.Model,
		topK:     opts.TopK,
		cache:    opts.Cache,
	}
}

// Respond retrieves context for the topic, asks the LLM and returns its answer
func (s *Service) Respond(ctx context.Context, phase domain.Phase, topic, utterance string) (string, error) {
	utterance = strings.TrimSpace(utterance)

	if s.cache != nil {
		reply, ok, err := s.cache.Get(ctx, string(phase), topic, utterance)
		if err != nil {
			log.Warn().Err(err).Msg("Reply cache read failed")
		} else if ok {
			log.Debug().Str("topic", topic).Msg("Reply cache hit")
			return reply, nil
		}
	}

	provider, err := s.llm.GetProvider(s.provider)
	if err != nil {
		return "", err
	}

	records, err := s.Retrieve(ctx, provider, phase, topic, utterance)
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		return "", ErrNoContext
	}

	resp, err := provider.Complete(ctx, llm.Request{Prompt: llm.BuildAnswerPrompt(topic, utterance, records)}, s.model)
	if err != nil {
		return "", fmt.Errorf("failed to generate answer: %w", err)
	}

	log.Info().
		Str("phase", string(phase)).
		Str("topic", topic).
		Int("records", len(records)).
		Str("model", resp.Model).
		Int("tokens", resp.TokensUsed).
		Int64("latency_ms", resp.LatencyMs).
		Msg("Answer generated")

	if s.cache != nil {
		if err := s.cache.Set(ctx, string(phase), topic, utterance, resp.Text); err != nil {
			log.Warn().Err(err).Msg("Reply cache write failed")
		}
	}

	return resp.Text, nil
}

// Retrieve picks the companies an answer is grounded on.
// A company topic resolves by exact name. The General topic first asks the
// LLM for a single field match; phase1 maps it onto the filter engine and
// phase2 (or a phase1 miss) falls back to whole-word keyword matching.
func (s *Service) Retrieve(ctx context.Context, provider llm.Provider, phase domain.Phase, topic, utterance string) ([]domain.Company, error) {
	all := s.catalog.Store().All()

	if topic != domain.TopicGeneral {
		if hits := s.catalog.Store().Lookup(topic); len(hits) > 0 {
			return head(hits, s.topK), nil
		}
		return catalog.MatchKeywords(all, topic, s.topK), nil
	}

	field, value, err := s.searchQuery(ctx, provider, utterance)
	if err != nil {
		return nil, err
	}

	if phase == domain.Phase1 {
		if criteria, ok := CriteriaForMatch(field, value); ok {
			if hits := s.catalog.Filter(criteria); len(hits) > 0 {
				return head(hits, s.topK), nil
			}
		}
	}

	return catalog.MatchKeywords(all, value, s.topK), nil
}

func (s *Service) searchQuery(ctx context.Context, provider llm.Provider, utterance string) (string, string, error) {
	resp, err := provider.Complete(ctx, llm.Request{Prompt: llm.BuildSearchPrompt(utterance)}, s.model)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate search query: %w", err)
	}

	field, value, ok := llm.ExtractMatch(resp.Text)
	if !ok {
		log.Debug().Str("reply", resp.Text).Msg("No match query in LLM reply, searching the utterance")
		return "", utterance, nil
	}
	return field, value, nil
}

// CriteriaForMatch maps a {"match": {field: value}} query onto filter criteria
func CriteriaForMatch(field, value string) (domain.FilterCriteria, bool) {
	var c domain.FilterCriteria
	switch strings.ToLower(field) {
	case "company_name", "name":
		c.Search = value
	case "status":
		c.Status = value
	case "batch":
		c.Batch = value
	case "location":
		c.Location = value
	case "tags", "tag", "category":
		c.Category = value
	default:
		return c, false
	}
	return c, true
}

func head(companies []domain.Company, n int) []domain.Company {
	if n > 0 && len(companies) > n {
		return companies[:n]
	}
	return companies
}
