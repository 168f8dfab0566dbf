package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	genaisdk "google.golang.org/genai"
)

func TestResponseText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{
				genai.Text("> 🏛️ **ARTIGO"),
				genai.Blob{MIMEType: "image/png"},
				genai.Text(" EM QUESTÃO:**"),
			}},
		}},
	}
	assert.Equal(t, "> 🏛️ **ARTIGO EM QUESTÃO:**", responseText(resp))

	assert.Empty(t, responseText(nil))
	assert.Empty(t, responseText(&genai.GenerateContentResponse{}))
	assert.Empty(t, responseText(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{}},
	}))
}

func TestRetryable(t *testing.T) {
	assert.True(t, retryable(errors.New("connection reset")))
	assert.True(t, retryable(&googleapi.Error{Code: http.StatusTooManyRequests}))
	assert.True(t, retryable(genaisdk.APIError{Code: http.StatusServiceUnavailable}))

	assert.False(t, retryable(ErrEmptyResponse))
	assert.False(t, retryable(fmt.Errorf("wrapped: %w", ErrEmptyResponse)))
	assert.False(t, retryable(&googleapi.Error{Code: http.StatusBadRequest}))
	assert.False(t, retryable(genaisdk.APIError{Code: http.StatusUnauthorized}))
	assert.False(t, retryable(context.Canceled))
}

func TestWithRetry_SucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), 3, time.Millisecond, func(attempt int) error {
		calls++
		if attempt < 3 {
			return &googleapi.Error{Code: http.StatusServiceUnavailable}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_GivesUp(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), 2, time.Millisecond, func(int) error {
		calls++
		return errors.New("timeout")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")
	assert.Equal(t, 2, calls)
}

func TestWithRetry_StopsOnPermanentError(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), 5, time.Millisecond, func(int) error {
		calls++
		return ErrEmptyResponse
	})
	assert.ErrorIs(t, err, ErrEmptyResponse)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_HonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := withRetry(ctx, 3, time.Hour, func(int) error {
		calls++
		cancel()
		return errors.New("unavailable")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}
