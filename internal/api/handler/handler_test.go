package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/quackbot/internal/api/handler"
	"github.com/Rrens/quackbot/internal/catalog"
	"github.com/Rrens/quackbot/internal/chat"
	"github.com/Rrens/quackbot/internal/domain"
)

type responderFunc func(ctx context.Context, phase domain.Phase, topic, utterance string) (string, error)

func (f responderFunc) Respond(ctx context.Context, phase domain.Phase, topic, utterance string) (string, error) {
	return f(ctx, phase, topic, utterance)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

func strPtr(s string) *string { return &s }

func newTestServer(t *testing.T, responder chat.Responder) (http.Handler, *catalog.Service) {
	t.Helper()
	store, err := catalog.NewStore([]domain.Company{
		{CompanyName: "Acme", Status: strPtr("Active"), Location: strPtr("Berlin"), Batch: strPtr("W21"), Tags: []string{"B2B"}},
		{CompanyName: "Beta", Status: strPtr("Inactive"), Location: strPtr("Paris"), Batch: strPtr("S20")},
		{CompanyName: "AC/DC Labs", Status: strPtr("Active"), Location: strPtr("Berlin")},
	})
	require.NoError(t, err)

	svc := catalog.NewService(store, nil, 2, domain.Facets{})
	relay := chat.NewRelay(responder, time.Second)
	t.Cleanup(func() { relay.Shutdown(context.Background()) })

	catalogHandler := handler.NewCatalogHandler(svc)
	sessionHandler := handler.NewSessionHandler(chat.NewController(svc, relay))

	r := chi.NewRouter()
	r.Get("/health", handler.HealthCheck)
	r.Get("/facets", catalogHandler.Facets)
	r.Get("/companies", catalogHandler.List)
	r.Get("/companies/{name}", catalogHandler.Get)
	r.Post("/sessions", sessionHandler.Create)
	r.Route("/sessions/{sessionID}", func(r chi.Router) {
		r.Get("/", sessionHandler.Get)
		r.Delete("/", sessionHandler.Delete)
		r.Post("/select", sessionHandler.Select)
		r.Post("/reset", sessionHandler.Reset)
		r.Put("/phase", sessionHandler.SetPhase)
		r.Post("/phase/toggle", sessionHandler.TogglePhase)
		r.Get("/messages", sessionHandler.Messages)
		r.Post("/messages", sessionHandler.Send)
		r.Get("/browse", sessionHandler.View)
		r.Post("/browse", sessionHandler.Browse)
	})
	return r, svc
}

func do(t *testing.T, h http.Handler, method, target string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func createSession(t *testing.T, h http.Handler) domain.ChatSession {
	t.Helper()
	rec, env := do(t, h, http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var s domain.ChatSession
	require.NoError(t, json.Unmarshal(env.Data, &s))
	return s
}

func TestHealthCheck(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()

	handler.HealthCheck(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, true, response["success"])

	data, ok := response["data"].(map[string]any)
	require.True(t, ok, "expected data to be a map")
	assert.Equal(t, "ok", data["status"])
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestReadyCheck(t *testing.T) {
	store, err := catalog.NewStore([]domain.Company{{CompanyName: "Acme"}})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ReadyCheck(store, nil)(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"companies":1`)

	rec = httptest.NewRecorder()
	handler.ReadyCheck(nil, nil)(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	down := map[string]handler.Pinger{"redis": pingerFunc(func(context.Context) error { return assert.AnError })}
	rec = httptest.NewRecorder()
	handler.ReadyCheck(store, down)(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "redis not ready")
}

func TestCatalog_List(t *testing.T) {
	h, _ := newTestServer(t, nil)

	rec, env := do(t, h, http.MethodGet, "/companies?status=Active&location=Berlin", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var view domain.PageView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, 2, view.Total)
	assert.Equal(t, 1, view.TotalPages)
	require.Len(t, view.Items, 2)
	assert.Equal(t, "Acme", view.Items[0].CompanyName)

	rec, env = do(t, h, http.MethodGet, "/companies?page=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, 2, view.Page)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "AC/DC Labs", view.Items[0].CompanyName)
}

func TestCatalog_ListBadPaging(t *testing.T) {
	h, _ := newTestServer(t, nil)

	for _, q := range []string{"page=0", "page=x", "page_size=0", "page_size=1000"} {
		rec, _ := do(t, h, http.MethodGet, "/companies?"+q, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestCatalog_Get(t *testing.T) {
	h, _ := newTestServer(t, nil)

	rec, env := do(t, h, http.MethodGet, "/companies/AC%2FDC%20Labs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var companies []domain.Company
	require.NoError(t, json.Unmarshal(env.Data, &companies))
	require.Len(t, companies, 1)
	assert.Equal(t, "AC/DC Labs", companies[0].CompanyName)

	rec, _ = do(t, h, http.MethodGet, "/companies/Nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCatalog_Facets(t *testing.T) {
	h, _ := newTestServer(t, nil)

	rec, env := do(t, h, http.MethodGet, "/facets", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var facets domain.Facets
	require.NoError(t, json.Unmarshal(env.Data, &facets))
	assert.Equal(t, []string{"Active", "Inactive"}, facets.Statuses)
	assert.Equal(t, []string{"Berlin", "Paris"}, facets.Locations)
}

func TestSession_Lifecycle(t *testing.T) {
	h, _ := newTestServer(t, nil)
	s := createSession(t, h)
	assert.Equal(t, domain.TopicGeneral, s.Topic)
	require.Len(t, s.Transcript, 1)

	rec, _ := do(t, h, http.MethodGet, "/sessions/"+s.ID.String(), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, h, http.MethodDelete, "/sessions/"+s.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, _ = do(t, h, http.MethodGet, "/sessions/"+s.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, h, http.MethodGet, "/sessions/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSession_SelectAndPhase(t *testing.T) {
	h, _ := newTestServer(t, nil)
	s := createSession(t, h)
	base := "/sessions/" + s.ID.String()

	rec, env := do(t, h, http.MethodPost, base+"/select", map[string]string{"company_name": "Acme"})
	require.Equal(t, http.StatusOK, rec.Code)
	var snap domain.ChatSession
	require.NoError(t, json.Unmarshal(env.Data, &snap))
	assert.Equal(t, "Acme", snap.Topic)

	rec, _ = do(t, h, http.MethodPost, base+"/select", map[string]string{"company_name": "Nope"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, env = do(t, h, http.MethodPost, base+"/select", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, string(env.Error), "CompanyName")

	rec, env = do(t, h, http.MethodPut, base+"/phase", map[string]string{"phase": "phase2"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &snap))
	assert.Equal(t, domain.Phase2, snap.Phase)

	rec, _ = do(t, h, http.MethodPut, base+"/phase", map[string]string{"phase": "phase3"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = do(t, h, http.MethodPost, base+"/phase/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &snap))
	assert.Equal(t, domain.Phase1, snap.Phase)

	rec, env = do(t, h, http.MethodPost, base+"/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &snap))
	assert.Equal(t, domain.TopicGeneral, snap.Topic)
}

func TestSession_SendWait(t *testing.T) {
	h, _ := newTestServer(t, responderFunc(func(ctx context.Context, phase domain.Phase, topic, utterance string) (string, error) {
		return "echo: " + utterance, nil
	}))
	s := createSession(t, h)
	base := "/sessions/" + s.ID.String()

	rec, env := do(t, h, http.MethodPost, base+"/messages", map[string]any{"text": "hello", "wait": true})
	require.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		UserMessage domain.Message  `json:"user_message"`
		Reply       *domain.Message `json:"reply"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, "hello", result.UserMessage.Text)
	require.NotNil(t, result.Reply)
	assert.Equal(t, "echo: hello", result.Reply.Text)

	rec, env = do(t, h, http.MethodGet, base+"/messages", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var transcript []domain.Message
	require.NoError(t, json.Unmarshal(env.Data, &transcript))
	require.Len(t, transcript, 3)
	assert.Equal(t, domain.SenderBot, transcript[2].Sender)
}

func TestSession_SendAsync(t *testing.T) {
	release := make(chan struct{})
	h, _ := newTestServer(t, responderFunc(func(ctx context.Context, phase domain.Phase, topic, utterance string) (string, error) {
		select {
		case <-release:
		case <-ctx.Done():
		}
		return "late", nil
	}))
	defer close(release)
	s := createSession(t, h)
	base := "/sessions/" + s.ID.String()

	rec, _ := do(t, h, http.MethodPost, base+"/messages", map[string]any{"text": "hi"})
	assert.Equal(t, http.StatusAccepted, rec.Code)

	rec, _ = do(t, h, http.MethodPost, base+"/messages", map[string]any{"text": "   "})
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestSession_Browse(t *testing.T) {
	h, _ := newTestServer(t, nil)
	s := createSession(t, h)
	base := "/sessions/" + s.ID.String()

	type result struct {
		State domain.BrowseState `json:"state"`
		Page  domain.PageView    `json:"page"`
	}

	rec, env := do(t, h, http.MethodPost, base+"/browse", map[string]string{"action": "set_location", "value": "Paris"})
	require.Equal(t, http.StatusOK, rec.Code)
	var got result
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "Paris", got.State.Criteria.Location)
	require.Len(t, got.Page.Items, 1)
	assert.Equal(t, "Beta", got.Page.Items[0].CompanyName)

	rec, env = do(t, h, http.MethodGet, base+"/browse", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "Paris", got.State.Criteria.Location)

	rec, _ = do(t, h, http.MethodPost, base+"/browse", map[string]string{"action": "explode"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = do(t, h, http.MethodPost, base+"/browse", map[string]string{"action": "go_to_page", "value": "two"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, string(env.Error), "invalid page")

	rec, env = do(t, h, http.MethodGet, base+"/browse", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, 1, got.State.Page)

	rec, _ = do(t, h, http.MethodPost, base+"/browse", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
