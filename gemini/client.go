// Package gemini talks to the Google Gemini API. Plain and attachment requests
// go through the generative-ai-go client; URL requests use the genai SDK so the
// model can ground its answer with the Google Search tool.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"juspatria-backend/logger"
	"juspatria-backend/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	genaisdk "google.golang.org/genai"
)

const (
	DefaultModel      = "gemini-2.5-flash"
	defaultMaxRetries = 3
	initialBackoff    = time.Second
)

var (
	// ErrEmptyResponse means the model answered without any usable text
	ErrEmptyResponse = errors.New("gemini returned an empty response")
	// ErrMissingAPIKey is returned by New when no key is configured
	ErrMissingAPIKey = errors.New("GEMINI_API_KEY not set")
)

// Client generates text with Gemini
type Client struct {
	text       *genai.Client
	grounded   *genaisdk.Client
	model      string
	maxRetries int
	backoff    time.Duration
	log        *logger.Logger
}

// Option configures a Client
type Option func(*Client)

// WithModel overrides the model name
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithMaxRetries sets how many attempts a request gets before failing
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxRetries = n
		}
	}
}

// WithLogger sets the logger used for retry warnings
func WithLogger(log *logger.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates both SDK clients for apiKey
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}

	text, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	grounded, err := genaisdk.NewClient(ctx, &genaisdk.ClientConfig{
		APIKey:  apiKey,
		Backend: genaisdk.BackendGeminiAPI,
	})
	if err != nil {
		text.Close()
		return nil, fmt.Errorf("failed to create grounded gemini client: %w", err)
	}

	c := &Client{
		text:       text,
		grounded:   grounded,
		model:      DefaultModel,
		maxRetries: defaultMaxRetries,
		backoff:    initialBackoff,
		log:        logger.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Close releases the underlying connections
func (c *Client) Close() error {
	return c.text.Close()
}

// Model returns the configured model name
func (c *Client) Model() string { return c.model }

// Generate sends one request and returns the model's text
func (c *Client) Generate(ctx context.Context, req models.GenerationRequest) (string, error) {
	call := c.generateText
	if req.GroundingURL != "" {
		call = c.generateGrounded
	}

	var out string
	err := withRetry(ctx, c.maxRetries, c.backoff, func(attempt int) error {
		text, err := call(ctx, req)
		if err != nil {
			if attempt < c.maxRetries && retryable(err) {
				c.log.Warn("gemini request failed, retrying",
					"attempt", attempt,
					"model", c.model,
					"error", err,
				)
			}
			return err
		}
		out = text
		return nil
	})
	return out, err
}

func (c *Client) generateText(ctx context.Context, req models.GenerationRequest) (string, error) {
	model := c.text.GenerativeModel(c.model)
	model.SetTemperature(req.Temperature)
	if req.SystemInstruction != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.SystemInstruction)},
		}
	}

	parts := make([]genai.Part, 0, 2)
	if req.Attachment != nil {
		parts = append(parts, genai.Blob{
			MIMEType: req.Attachment.MimeType,
			Data:     req.Attachment.Data,
		})
	}
	parts = append(parts, genai.Text(req.Prompt))

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		var blocked *genai.BlockedError
		if errors.As(err, &blocked) {
			return "", fmt.Errorf("%w: %v", ErrEmptyResponse, blocked)
		}
		return "", err
	}

	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func (c *Client) generateGrounded(ctx context.Context, req models.GenerationRequest) (string, error) {
	cfg := &genaisdk.GenerateContentConfig{
		Temperature: genaisdk.Ptr(req.Temperature),
		Tools:       []*genaisdk.Tool{{GoogleSearch: &genaisdk.GoogleSearch{}}},
	}
	if req.SystemInstruction != "" {
		cfg.SystemInstruction = genaisdk.NewContentFromText(req.SystemInstruction, genaisdk.RoleUser)
	}

	resp, err := c.grounded.Models.GenerateContent(ctx, c.model,
		genaisdk.Text(req.Prompt),
		cfg,
	)
	if err != nil {
		return "", err
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// responseText joins the text parts of the first candidate
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range cand.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return sb.String()
}

// withRetry runs fn up to attempts times, doubling the wait between tries.
// Errors that retrying cannot fix are returned immediately.
func withRetry(ctx context.Context, attempts int, backoff time.Duration, fn func(attempt int) error) error {
	if attempts <= 0 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		err = fn(attempt)
		if err == nil || !retryable(err) {
			return err
		}
	}
	return fmt.Errorf("gemini request failed after %d attempts: %w", attempts, err)
}

// retryable reports whether another attempt could succeed.
// Bad requests and auth failures never will.
func retryable(err error) bool {
	if errors.Is(err, ErrEmptyResponse) || errors.Is(err, context.Canceled) {
		return false
	}

	code := 0
	var gerr *googleapi.Error
	var aerr genaisdk.APIError
	switch {
	case errors.As(err, &gerr):
		code = gerr.Code
	case errors.As(err, &aerr):
		code = aerr.Code
	}

	switch code {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return false
	}
	return true
}
