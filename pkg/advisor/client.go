// Package advisor calls an OpenAI-compatible chat-completion endpoint to
// score bookmarks for importance. The service is advisory only: scores feed
// the ratings overlay and never gate any bookmark operation, and a response
// that cannot be parsed degrades to neutral defaults instead of failing.
package advisor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/bookdeck/pkg/debug"
	"github.com/vanderheijden86/bookdeck/pkg/settings"
)

// Step is a coarse progress milestone reported during a batch analysis.
type Step int

const (
	StepPreparing Step = iota
	StepSending
	StepParsing
	StepDone
	StepFailed
)

func (s Step) String() string {
	switch s {
	case StepPreparing:
		return "preparing analysis request"
	case StepSending:
		return "waiting for the scoring service"
	case StepParsing:
		return "parsing analysis results"
	case StepDone:
		return "analysis complete"
	case StepFailed:
		return "analysis failed"
	default:
		return "unknown"
	}
}

// ErrIncompleteCredentials is returned before any network call when the API
// URL, key or model name is missing.
var ErrIncompleteCredentials = fmt.Errorf("advisory service credentials incomplete")

// Client issues chat-completion requests against the configured endpoint.
type Client struct {
	creds settings.AICredentials
	http  *http.Client
}

// NewClient builds a client for creds. Credentials are validated lazily, per
// call, so an unconfigured client can still be constructed at startup.
func NewClient(creds settings.AICredentials) *Client {
	return &Client{
		creds: creds,
		http:  &http.Client{Timeout: 120 * time.Second},
	}
}

// Ready reports whether the client has everything it needs to issue a call.
func (c *Client) Ready() bool {
	return c.creds.Complete()
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// complete sends one user prompt and returns the assistant's reply text.
func (c *Client) complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if !c.creds.Complete() {
		return "", ErrIncompleteCredentials
	}

	body, err := json.Marshal(chatRequest{
		Model:       c.creds.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.7,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.creds.APIURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.creds.APIKey)

	debug.Log("advisor: POST %s model=%s promptLen=%d", c.creds.APIURL, c.creds.Model, len(prompt))
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("chat request failed (%d): %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("chat response carried no content")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

// TestConnection sends a short fixed prompt and returns the reply along with
// the round-trip time, so the settings form can verify credentials.
func (c *Client) TestConnection(ctx context.Context) (reply string, elapsed time.Duration, err error) {
	start := time.Now()
	reply, err = c.complete(ctx, "Reply with 'connection test successful'.", 100)
	elapsed = time.Since(start)
	if err != nil {
		return "", elapsed, err
	}
	debug.Log("advisor: connection test ok in %v", elapsed)
	return reply, elapsed, nil
}
