package text

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kiaan-ai/voiceorb/internal/config"
	"github.com/kiaan-ai/voiceorb/internal/models"
)

func testClient(t *testing.T, webhookURL string) *Client {
	t.Helper()
	store := config.NewFileStoreAt(filepath.Join(t.TempDir(), "config.json"))
	if webhookURL != "" {
		require.NoError(t, store.Set(config.WebhookURL, webhookURL))
	}
	resolver := config.NewResolver(store, zap.NewNop(),
		config.WithGetenv(func(string) string { return "" }))
	return NewClient(resolver, zap.NewNop())
}

func TestWebhookJSONRequest(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]string{"message": "webhook says hi"})
	}))
	defer srv.Close()

	reply, demo := testClient(t, srv.URL).Send(context.Background(), "hello", nil, nil)
	assert.False(t, demo)
	assert.Equal(t, "webhook says hi", reply)
	assert.Equal(t, "hello", got["message"])
	assert.NotEmpty(t, got["timestamp"])
}

func TestWebhookResponseFieldAccepted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"response": "alternate field"})
	}))
	defer srv.Close()

	reply, demo := testClient(t, srv.URL).Send(context.Background(), "hello", nil, nil)
	assert.False(t, demo)
	assert.Equal(t, "alternate field", reply)
}

func TestWebhookMultipartWithFiles(t *testing.T) {
	attachment := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(attachment, []byte("quarterly numbers"), 0644))

	var gotMessage, gotFile string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotMessage = r.FormValue("message")
		f, header, err := r.FormFile("files")
		require.NoError(t, err)
		defer f.Close()
		gotFile = header.Filename
		json.NewEncoder(w).Encode(map[string]string{"message": "received"})
	}))
	defer srv.Close()

	reply, demo := testClient(t, srv.URL).Send(context.Background(), "see attached", []string{attachment}, nil)
	assert.False(t, demo)
	assert.Equal(t, "received", reply)
	assert.Equal(t, "see attached", gotMessage)
	assert.Equal(t, "notes.txt", gotFile)
}

func TestWebhookFailureFallsBackToDemo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	reply, demo := testClient(t, srv.URL).Send(context.Background(), "hello", nil, nil)
	assert.True(t, demo)
	assert.Equal(t, DemoReply("hello"), reply)
}

func TestWebhookEmptyReplyFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer srv.Close()

	_, demo := testClient(t, srv.URL).Send(context.Background(), "hello", nil, nil)
	assert.True(t, demo)
}

func TestNoBackendConfiguredIsDemo(t *testing.T) {
	reply, demo := testClient(t, "").Send(context.Background(), "ping", nil, nil)
	assert.True(t, demo)
	assert.Contains(t, reply, "demo response")
	assert.Contains(t, reply, `"ping"`)
}

func TestWithFileDescriptions(t *testing.T) {
	assert.Equal(t, "plain", WithFileDescriptions("plain", nil))

	path := filepath.Join(t.TempDir(), "report.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", 2048)), 0644))

	out := WithFileDescriptions("see files", []string{path, "/nonexistent/other.bin"})
	assert.Contains(t, out, "see files")
	assert.Contains(t, out, "[File: report.csv (2.0KB)]")
	assert.Contains(t, out, "[File: other.bin]")
}

func TestHistoryIsForwardedToCompletion(t *testing.T) {
	// The history mapping itself is exercised through sendCompletion's message
	// assembly; without a live API the observable contract is that Send still
	// degrades to a demo reply rather than erroring.
	history := []models.Message{
		{Content: "earlier question", Type: models.User},
		{Content: "earlier answer", Type: models.Assistant},
	}
	reply, demo := testClient(t, "").Send(context.Background(), "follow-up", nil, history)
	assert.True(t, demo)
	assert.NotEmpty(t, reply)
}
