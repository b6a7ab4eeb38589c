// Package text answers text-mode messages. A configured webhook takes
// priority, then the OpenAI chat-completion API; when neither is configured
// or the request fails, the reply degrades to a locally synthesized demo
// response. This path never surfaces a hard error to the UI.
package text

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kiaan-ai/voiceorb/internal/config"
	"github.com/kiaan-ai/voiceorb/internal/models"
)

const systemPrompt = "You are Kiaan, a helpful AI assistant. Provide clear, concise, and helpful responses."

type Client struct {
	resolver *config.Resolver
	http     *http.Client
	log      *zap.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the webhook transport, for tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func NewClient(resolver *config.Resolver, log *zap.Logger, opts ...Option) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Client{
		resolver: resolver,
		http:     &http.Client{Timeout: 30 * time.Second},
		log:      log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send produces a reply for message. demo reports whether the reply was
// synthesized locally instead of coming from a real backend.
func (c *Client) Send(ctx context.Context, message string, files []string, history []models.Message) (reply string, demo bool) {
	if webhookURL := c.resolver.Resolve(config.WebhookURL).Value; webhookURL != "" {
		reply, err := c.sendWebhook(ctx, webhookURL, message, files)
		if err == nil {
			return reply, false
		}
		c.log.Warn("webhook request failed, falling back", zap.Error(err))
	}

	if apiKey := c.resolver.Resolve(config.OpenAIAPIKey).Value; apiKey != "" {
		reply, err := c.sendCompletion(ctx, apiKey, message, files, history)
		if err == nil {
			return reply, false
		}
		c.log.Warn("chat completion failed, falling back", zap.Error(err))
	}

	return DemoReply(message), true
}

// sendWebhook posts the message to the user-configured endpoint: JSON for a
// plain message, multipart when files are attached. The reply body must carry
// a "message" or "response" string field.
func (c *Client) sendWebhook(ctx context.Context, webhookURL, message string, files []string) (string, error) {
	var body io.Reader
	contentType := "application/json"

	if len(files) > 0 {
		buf := &bytes.Buffer{}
		w := multipart.NewWriter(buf)
		if err := w.WriteField("message", message); err != nil {
			return "", err
		}
		if err := w.WriteField("timestamp", time.Now().Format(time.RFC3339)); err != nil {
			return "", err
		}
		for _, path := range files {
			if err := attachFile(w, path); err != nil {
				return "", err
			}
		}
		if err := w.Close(); err != nil {
			return "", err
		}
		body = buf
		contentType = w.FormDataContentType()
	} else {
		payload, err := json.Marshal(map[string]string{
			"message":   message,
			"timestamp": time.Now().Format(time.RFC3339),
		})
		if err != nil {
			return "", err
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	var parsed struct {
		Message  string `json:"message"`
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode webhook response: %w", err)
	}

	switch {
	case parsed.Message != "":
		return parsed.Message, nil
	case parsed.Response != "":
		return parsed.Response, nil
	}
	return "", fmt.Errorf("webhook response carried no message")
}

func attachFile(w *multipart.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open attachment: %w", err)
	}
	defer f.Close()

	part, err := w.CreateFormFile("files", filepath.Base(path))
	if err != nil {
		return err
	}
	_, err = io.Copy(part, f)
	return err
}

// sendCompletion asks the OpenAI API with the rolling conversation history.
func (c *Client) sendCompletion(ctx context.Context, apiKey, message string, files []string, history []models.Message) (string, error) {
	client := openai.NewClient(apiKey)

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
	}
	for _, msg := range history {
		switch msg.Type {
		case models.User:
			messages = append(messages, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleUser,
				Content: msg.Content,
			})
		case models.Assistant:
			messages = append(messages, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleAssistant,
				Content: msg.Content,
			})
		}
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: WithFileDescriptions(message, files),
	})

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       openai.GPT4,
		Messages:    messages,
		MaxTokens:   1000,
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "Sorry, I could not generate a response.", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// WithFileDescriptions appends a one-line description of each attachment to
// the outgoing message.
func WithFileDescriptions(message string, files []string) string {
	if len(files) == 0 {
		return message
	}
	descriptions := make([]string, 0, len(files))
	for _, path := range files {
		name := filepath.Base(path)
		if info, err := os.Stat(path); err == nil {
			descriptions = append(descriptions,
				fmt.Sprintf("[File: %s (%.1fKB)]", name, float64(info.Size())/1024))
		} else {
			descriptions = append(descriptions, fmt.Sprintf("[File: %s]", name))
		}
	}
	return message + "\n\nAttached files: " + strings.Join(descriptions, ", ")
}

// DemoReply synthesizes the placeholder answer used when no backend is
// configured or reachable.
func DemoReply(message string) string {
	return fmt.Sprintf("Thank you for your message: %q. This is a demo response. "+
		"Configure an OpenAI API key or a webhook URL to get real answers.", message)
}
