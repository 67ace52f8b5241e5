package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/quackbot/internal/llm"
)

func TestProvider_Complete(t *testing.T) {
	var got ollamaRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"response":"Quack!\n","done":true,"eval_count":7}`))
	}))
	defer srv.Close()

	p := NewProvider(srv.URL+"/", "")
	resp, err := p.Complete(context.Background(), llm.Request{Prompt: "hello"}, "mistral")
	require.NoError(t, err)

	assert.Equal(t, "Quack!", resp.Text)
	assert.Equal(t, "mistral", resp.Model)
	assert.Equal(t, 7, resp.TokensUsed)
	assert.Equal(t, "mistral", got.Model)
	assert.False(t, got.Stream)
}

func TestProvider_Status(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewProvider(srv.URL, "llama3").Complete(context.Background(), llm.Request{Prompt: "hello"}, "")
	assert.ErrorContains(t, err, "ollama returned status 404")
}
