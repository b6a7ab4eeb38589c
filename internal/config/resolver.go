// Package config resolves agent identifiers and API credentials from an
// ordered chain of sources: environment variable, persisted override,
// compiled-in default. Resolution never fails; an unset value falls through
// to the default so the widget always has a usable configuration, and
// callers that need a real credential check IsDefault before proceeding.
package config

import (
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
)

type Kind string

const (
	ChatAgentID      Kind = "chat_agent_id"
	MeetingAgentID   Kind = "meeting_agent_id"
	ElevenLabsAPIKey Kind = "elevenlabs_api_key"
	OpenAIAPIKey     Kind = "openai_api_key"
	WebhookURL       Kind = "webhook_url"
)

// Kinds returns every configuration kind in stable order.
func Kinds() []Kind {
	ks := []Kind{ChatAgentID, MeetingAgentID, ElevenLabsAPIKey, OpenAIAPIKey, WebhookURL}
	sort.Slice(ks, func(i, j int) bool { return ks[i] < ks[j] })
	return ks
}

func ParseKind(s string) (Kind, bool) {
	k := Kind(strings.TrimSpace(strings.ToLower(s)))
	switch k {
	case ChatAgentID, MeetingAgentID, ElevenLabsAPIKey, OpenAIAPIKey, WebhookURL:
		return k, true
	}
	return "", false
}

type Source int

const (
	SourceDefault Source = iota
	SourceOverride
	SourceEnv
)

func (s Source) String() string {
	switch s {
	case SourceEnv:
		return "env"
	case SourceOverride:
		return "override"
	}
	return "default"
}

// EffectiveConfig is the resolved view of one kind. IsDefault is derived on
// every resolution, never stored, so it cannot go stale after an override is
// written.
type EffectiveConfig struct {
	Value     string
	Source    Source
	IsDefault bool
}

var envVars = map[Kind]string{
	ChatAgentID:      "VOICEORB_CHAT_AGENT_ID",
	MeetingAgentID:   "VOICEORB_MEETING_AGENT_ID",
	ElevenLabsAPIKey: "VOICEORB_ELEVENLABS_API_KEY",
	OpenAIAPIKey:     "VOICEORB_OPENAI_API_KEY",
	WebhookURL:       "VOICEORB_WEBHOOK_URL",
}

var defaults = map[Kind]string{
	ChatAgentID:      "demo-chat-agent",
	MeetingAgentID:   "demo-meeting-agent",
	ElevenLabsAPIKey: "",
	OpenAIAPIKey:     "",
	WebhookURL:       "",
}

// EnvVar returns the environment variable name backing a kind.
func EnvVar(kind Kind) string {
	return envVars[kind]
}

type Resolver struct {
	store  Store
	getenv func(string) string
	log    *zap.Logger
}

type Option func(*Resolver)

// WithGetenv replaces the environment lookup, for tests.
func WithGetenv(getenv func(string) string) Option {
	return func(r *Resolver) { r.getenv = getenv }
}

func NewResolver(store Store, log *zap.Logger, opts ...Option) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Resolver{
		store:  store,
		getenv: os.Getenv,
		log:    log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve walks the source chain for one kind. Priority is strictly
// env > stored override > default; the first non-empty trimmed value wins.
func (r *Resolver) Resolve(kind Kind) EffectiveConfig {
	if env := strings.TrimSpace(r.getenv(envVars[kind])); env != "" {
		return EffectiveConfig{Value: env, Source: SourceEnv}
	}

	if r.store != nil {
		v, ok, err := r.store.Get(kind)
		if err != nil {
			// Storage failures degrade to "no stored value present".
			r.log.Warn("config store read failed",
				zap.String("kind", string(kind)),
				zap.Error(err))
		} else if ok {
			if v = strings.TrimSpace(v); v != "" {
				return EffectiveConfig{Value: v, Source: SourceOverride}
			}
		}
	}

	return EffectiveConfig{Value: defaults[kind], Source: SourceDefault, IsDefault: true}
}

// SetOverride persists an override. Callers holding a resolved snapshot must
// re-resolve before the new value takes effect; an active provider session
// keeps its old credentials until restarted.
func (r *Resolver) SetOverride(kind Kind, value string) error {
	return r.store.Set(kind, value)
}

func (r *Resolver) ClearOverride(kind Kind) error {
	return r.store.Delete(kind)
}

// HasValidVoiceConfig reports whether a real voice-provider session can be
// started: API key and both agent ids must all be user-supplied and
// non-empty.
func (r *Resolver) HasValidVoiceConfig() bool {
	for _, kind := range []Kind{ElevenLabsAPIKey, ChatAgentID, MeetingAgentID} {
		eff := r.Resolve(kind)
		if eff.IsDefault || eff.Value == "" {
			return false
		}
	}
	return true
}

// HasValidTextConfig reports whether text mode can reach a real backend:
// either an OpenAI key or a webhook URL must resolve non-empty.
func (r *Resolver) HasValidTextConfig() bool {
	return r.Resolve(OpenAIAPIKey).Value != "" || r.Resolve(WebhookURL).Value != ""
}
