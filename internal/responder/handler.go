package responder

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	customMiddleware "github.com/Rrens/quackbot/internal/api/middleware"
	"github.com/Rrens/quackbot/internal/api/request"
	"github.com/Rrens/quackbot/internal/api/response"
	"github.com/Rrens/quackbot/internal/catalog"
	"github.com/Rrens/quackbot/internal/domain"
	"github.com/Rrens/quackbot/internal/llm"
)

// Answerer produces a reply for one utterance
type Answerer interface {
	Respond(ctx context.Context, phase domain.Phase, topic, utterance string) (string, error)
}

// Handler serves the responder HTTP API
type Handler struct {
	answerer Answerer
	catalog  *catalog.Store
	llm      *llm.Router
}

// NewHandler creates a responder handler
func NewHandler(answerer Answerer, store *catalog.Store, router *llm.Router) *Handler {
	return &Handler{answerer: answerer, catalog: store, llm: router}
}

// NewRouter mounts the responder routes. Replies are bare JSON values, not the API envelope.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", h.Home)
	r.Get("/company_data", h.CompanyData)
	r.Get("/providers", h.Providers)
	r.Get("/response/{phase}/{topic}/{utterance}", h.Respond)

	return r
}

// Home returns the welcome message
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	response.Raw(w, http.StatusOK, map[string]string{"message": "Welcome to the Quak bot"})
}

// CompanyData returns the whole catalog
func (h *Handler) CompanyData(w http.ResponseWriter, r *http.Request) {
	response.Raw(w, http.StatusOK, h.catalog.All())
}

// Providers lists the registered LLM providers with their models
func (h *Handler) Providers(w http.ResponseWriter, r *http.Request) {
	response.Raw(w, http.StatusOK, map[string]any{
		"default":   h.llm.DefaultProvider(),
		"providers": h.llm.GetProvidersInfo(),
	})
}

// Respond answers one utterance
func (h *Handler) Respond(w http.ResponseWriter, r *http.Request) {
	phase, err := domain.ParsePhase(request.PathParam(r, "phase"))
	if err != nil {
		response.Raw(w, http.StatusNotFound, map[string]string{"detail": "Not Found"})
		return
	}
	topic := request.PathParam(r, "topic")
	utterance := request.PathParam(r, "utterance")

	reply, err := h.answerer.Respond(r.Context(), phase, topic, utterance)
	if errors.Is(err, ErrNoContext) {
		response.Raw(w, http.StatusOK, map[string]string{"error": "No relevant company data found."})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("phase", string(phase)).Str("topic", topic).Msg("Failed to answer")
		response.Raw(w, http.StatusInternalServerError, map[string]string{"error": "failed to generate answer"})
		return
	}

	response.Raw(w, http.StatusOK, reply)
}
