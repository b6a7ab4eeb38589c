package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testResolver(t *testing.T, env map[string]string) (*Resolver, *FileStore) {
	t.Helper()
	store := NewFileStoreAt(filepath.Join(t.TempDir(), "config.json"))
	resolver := NewResolver(store, zap.NewNop(), WithGetenv(func(key string) string {
		return env[key]
	}))
	return resolver, store
}

func TestResolvePriorityChain(t *testing.T) {
	env := map[string]string{"VOICEORB_CHAT_AGENT_ID": "A"}
	resolver, store := testResolver(t, env)
	require.NoError(t, store.Set(ChatAgentID, "B"))

	eff := resolver.Resolve(ChatAgentID)
	assert.Equal(t, "A", eff.Value)
	assert.Equal(t, SourceEnv, eff.Source)
	assert.False(t, eff.IsDefault)

	delete(env, "VOICEORB_CHAT_AGENT_ID")
	eff = resolver.Resolve(ChatAgentID)
	assert.Equal(t, "B", eff.Value)
	assert.Equal(t, SourceOverride, eff.Source)
	assert.False(t, eff.IsDefault)

	require.NoError(t, store.Delete(ChatAgentID))
	eff = resolver.Resolve(ChatAgentID)
	assert.Equal(t, "demo-chat-agent", eff.Value)
	assert.Equal(t, SourceDefault, eff.Source)
	assert.True(t, eff.IsDefault)
}

func TestResolveTrimsWhitespace(t *testing.T) {
	env := map[string]string{"VOICEORB_OPENAI_API_KEY": "   "}
	resolver, store := testResolver(t, env)
	require.NoError(t, store.Set(OpenAIAPIKey, "  sk-123  "))

	// A whitespace-only env value is not present; the override wins.
	eff := resolver.Resolve(OpenAIAPIKey)
	assert.Equal(t, "sk-123", eff.Value)
	assert.Equal(t, SourceOverride, eff.Source)
}

func TestIsDefaultRecomputedAfterOverride(t *testing.T) {
	resolver, _ := testResolver(t, nil)

	assert.True(t, resolver.Resolve(MeetingAgentID).IsDefault)

	require.NoError(t, resolver.SetOverride(MeetingAgentID, "agent-42"))
	eff := resolver.Resolve(MeetingAgentID)
	assert.False(t, eff.IsDefault)
	assert.Equal(t, "agent-42", eff.Value)

	require.NoError(t, resolver.ClearOverride(MeetingAgentID))
	assert.True(t, resolver.Resolve(MeetingAgentID).IsDefault)
}

func TestResolveIdempotent(t *testing.T) {
	resolver, _ := testResolver(t, map[string]string{"VOICEORB_WEBHOOK_URL": "https://example.com/hook"})

	first := resolver.Resolve(WebhookURL)
	second := resolver.Resolve(WebhookURL)
	assert.Equal(t, first, second)
}

type failingStore struct{}

func (failingStore) Get(Kind) (string, bool, error) { return "", false, errors.New("storage disabled") }
func (failingStore) Set(Kind, string) error         { return errors.New("storage disabled") }
func (failingStore) Delete(Kind) error              { return errors.New("storage disabled") }

func TestStoreFailureDegradesToDefault(t *testing.T) {
	resolver := NewResolver(failingStore{}, zap.NewNop(), WithGetenv(func(string) string { return "" }))

	eff := resolver.Resolve(ChatAgentID)
	assert.Equal(t, "demo-chat-agent", eff.Value)
	assert.True(t, eff.IsDefault)
}

func TestResolveWithoutStore(t *testing.T) {
	resolver := NewResolver(nil, nil, WithGetenv(func(string) string { return "" }))

	eff := resolver.Resolve(ElevenLabsAPIKey)
	assert.Equal(t, "", eff.Value)
	assert.True(t, eff.IsDefault)
}

func TestHasValidVoiceConfig(t *testing.T) {
	resolver, store := testResolver(t, nil)
	assert.False(t, resolver.HasValidVoiceConfig())

	require.NoError(t, store.Set(ElevenLabsAPIKey, "xi-key"))
	require.NoError(t, store.Set(ChatAgentID, "agent-chat"))
	assert.False(t, resolver.HasValidVoiceConfig(), "meeting agent still default")

	require.NoError(t, store.Set(MeetingAgentID, "agent-meeting"))
	assert.True(t, resolver.HasValidVoiceConfig())
}

func TestHasValidTextConfig(t *testing.T) {
	resolver, store := testResolver(t, nil)
	assert.False(t, resolver.HasValidTextConfig())

	require.NoError(t, store.Set(WebhookURL, "https://example.com/hook"))
	assert.True(t, resolver.HasValidTextConfig())

	require.NoError(t, store.Delete(WebhookURL))
	require.NoError(t, store.Set(OpenAIAPIKey, "sk-abc"))
	assert.True(t, resolver.HasValidTextConfig())
}

func TestParseKind(t *testing.T) {
	kind, ok := ParseKind("  Chat_Agent_ID ")
	assert.True(t, ok)
	assert.Equal(t, ChatAgentID, kind)

	_, ok = ParseKind("bogus")
	assert.False(t, ok)
}
