package llm_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/quackbot/internal/llm"
)

type stubProvider struct {
	name       string
	configured bool
}

func (s stubProvider) Name() string              { return s.name }
func (s stubProvider) AvailableModels() []string { return []string{s.name + "-1"} }
func (s stubProvider) DefaultModel() string      { return s.name + "-1" }
func (s stubProvider) IsConfigured() bool        { return s.configured }

func (s stubProvider) Complete(ctx context.Context, req llm.Request, model string) (*llm.Response, error) {
	return &llm.Response{Text: req.Prompt, Model: model}, nil
}

func TestRouter_GetProvider(t *testing.T) {
	r := llm.NewRouter("openai")
	r.RegisterProvider(stubProvider{name: "openai", configured: true})
	r.RegisterProvider(stubProvider{name: "anthropic", configured: false})

	p, err := r.GetProvider("")
	require.NoError(t, err)
	assert.Equal(t, "openai", p.Name())

	_, err = r.GetProvider("anthropic")
	assert.ErrorContains(t, err, "provider not configured: anthropic")

	_, err = r.GetProvider("gemini")
	assert.ErrorContains(t, err, "provider not found: gemini")
}

func TestRouter_Info(t *testing.T) {
	r := llm.NewRouter("ollama")
	r.RegisterProvider(stubProvider{name: "openai", configured: true})
	r.RegisterProvider(stubProvider{name: "ollama", configured: true})
	r.RegisterProvider(stubProvider{name: "gemini", configured: false})

	assert.Equal(t, []string{"ollama", "openai"}, r.ListProviders())
	assert.Equal(t, "ollama", r.DefaultProvider())

	infos := r.GetProvidersInfo()
	require.Len(t, infos, 3)
	assert.Equal(t, "gemini", infos[0].Name)
	assert.False(t, infos[0].Configured)
	assert.True(t, infos[1].Default)
	assert.Equal(t, []string{"openai-1"}, infos[2].Models)
}
