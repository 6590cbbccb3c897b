package content

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/site-generator/internal/llm"
)

// fakeLLM is a canned llm.Client
type fakeLLM struct {
	response string
	err      error
	tiers    []llm.ModelTier
}

func (f *fakeLLM) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return f.GenerateJSON(ctx, prompt, tier)
}

func (f *fakeLLM) GenerateJSON(_ context.Context, _ string, tier llm.ModelTier) (string, error) {
	f.tiers = append(f.tiers, tier)
	return f.response, f.err
}

func (f *fakeLLM) GetModel(tier llm.ModelTier) string { return string(tier) }

func (f *fakeLLM) Close() error { return nil }

func TestLLMSource_Generate(t *testing.T) {
	client := &fakeLLM{response: "Sure!\n```json\n{\"title\": \"AI\", \"subtitle\": \"Made by a model\", \"ctaText\": \"Go\"}\n```"}

	frag, err := NewLLMSource(client).Generate(context.Background(), heroRequest())
	require.NoError(t, err)
	assert.Equal(t, OriginLLM, frag.Origin)
	assert.Equal(t, "AI", frag.Hero.Title)
	assert.Equal(t, []llm.ModelTier{llm.TierLite}, client.tiers)
}

func TestLLMSource_Errors(t *testing.T) {
	_, err := NewLLMSource(&fakeLLM{err: errors.New("quota exceeded")}).Generate(context.Background(), heroRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")

	_, err = NewLLMSource(&fakeLLM{response: "no json here"}).Generate(context.Background(), heroRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed model output")

	req := heroRequest()
	req.Prompt = ""
	_, err = NewLLMSource(&fakeLLM{}).Generate(context.Background(), req)
	assert.Error(t, err)
}

func TestNewPrimarySource(t *testing.T) {
	ctx := context.Background()

	source, closeFn, err := NewPrimarySource(ctx, PrimaryOptions{Provider: ProviderStatic, APIKey: "k"})
	require.NoError(t, err)
	assert.Nil(t, source)
	assert.NoError(t, closeFn())

	source, _, err = NewPrimarySource(ctx, PrimaryOptions{Provider: ProviderEndpoint})
	require.NoError(t, err)
	assert.Nil(t, source)

	source, _, err = NewPrimarySource(ctx, PrimaryOptions{Provider: ProviderEndpoint, APIKey: "k", Endpoint: "http://localhost:1"})
	require.NoError(t, err)
	assert.IsType(t, &RemoteSource{}, source)

	source, _, err = NewPrimarySource(ctx, PrimaryOptions{
		Provider: ProviderEndpoint, APIKey: "k", Endpoint: "http://localhost:1", Cache: openTestCache(t),
	})
	require.NoError(t, err)
	assert.IsType(t, &CachedSource{}, source)

	_, _, err = NewPrimarySource(ctx, PrimaryOptions{Provider: ProviderEndpoint, APIKey: "k"})
	assert.Error(t, err)

	_, _, err = NewPrimarySource(ctx, PrimaryOptions{Provider: "carrier-pigeon", APIKey: "k"})
	assert.Error(t, err)
}
