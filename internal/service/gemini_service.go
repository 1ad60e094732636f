package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync/atomic"
	"time"

	"google.golang.org/genai"

	"github.com/hiredeck/hiredeck/internal/apperror"
	"github.com/hiredeck/hiredeck/internal/config"
	"github.com/hiredeck/hiredeck/internal/util"
)

// GeminiService talks to the Gemini API for both classification and
// embeddings. Transient failures are retried through the shared RetryPolicy;
// a run of consecutive failures opens a circuit breaker.
type GeminiService struct {
	Client         *genai.Client
	Model          string
	RequestTimeout time.Duration
	retry          util.RetryPolicy

	// Batch scoring calls Classify from multiple goroutines, so the breaker
	// counter must be atomic.
	consecutiveErrors atomic.Int32
	circuitBreakerMax int32
}

func NewGeminiService(ctx context.Context) (*GeminiService, error) {
	cfg := config.LoadClassifierConfig()
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiService{
		Client:            client,
		Model:             cfg.GeminiModel,
		RequestTimeout:    90 * time.Second,
		retry:             util.DefaultRetryPolicy(isRetryableGeminiError),
		circuitBreakerMax: 5,
	}, nil
}

func (s *GeminiService) breakerOpen() bool {
	return s.consecutiveErrors.Load() >= s.circuitBreakerMax
}

func (s *GeminiService) recordFailure() {
	s.consecutiveErrors.Add(1)
}

func (s *GeminiService) recordSuccess() {
	s.consecutiveErrors.Store(0)
}

// Classify sends the scoring prompt and returns the raw model text. The
// caller is responsible for schema validation.
func (s *GeminiService) Classify(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}
	if s.breakerOpen() {
		return "", fmt.Errorf("circuit breaker open: too many consecutive errors (%d)", s.consecutiveErrors.Load())
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.RequestTimeout)
	defer cancel()

	genConfig := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0.1)),
	}

	var text string
	err := s.retry.Do(timeoutCtx, "gemini.classify", func() error {
		result, err := s.Client.Models.GenerateContent(
			timeoutCtx,
			s.Model,
			genai.Text(prompt),
			genConfig,
		)
		if err != nil {
			return err
		}
		if err := validateGenerateResponse(result); err != nil {
			return err
		}
		text = result.Text()
		if strings.TrimSpace(text) == "" {
			return apperror.ErrEmptyResponse
		}
		return nil
	})
	if err != nil {
		s.recordFailure()
		return "", err
	}

	s.recordSuccess()
	return text, nil
}

// GenerateEmbedding returns the embedding vector for the given text.
func (s *GeminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, fmt.Errorf("text for embedding cannot be empty")
	}
	if len(trimmed) > 10000 {
		slog.Warn("embedding text exceeds recommended length, truncating", "length", len(trimmed))
		trimmed = trimmed[:10000]
	}
	if s.breakerOpen() {
		return nil, fmt.Errorf("circuit breaker open: too many consecutive errors (%d)", s.consecutiveErrors.Load())
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.RequestTimeout)
	defer cancel()

	content := []*genai.Content{genai.NewContentFromText(trimmed, genai.RoleUser)}

	var embedding []float32
	err := s.retry.Do(timeoutCtx, "gemini.embed", func() error {
		result, err := s.Client.Models.EmbedContent(
			timeoutCtx,
			"gemini-embedding-001",
			content,
			nil,
		)
		if err != nil {
			return err
		}
		embedding, err = validateEmbeddingResponse(result)
		return err
	})
	if err != nil {
		s.recordFailure()
		return nil, err
	}

	s.recordSuccess()
	return embedding, nil
}

func isRetryableGeminiError(err error) bool {
	if err == nil {
		return false
	}

	errMsg := err.Error()

	if strings.Contains(errMsg, "context canceled") ||
		strings.Contains(errMsg, "context deadline exceeded") {
		return false
	}
	if apiErr, ok := err.(*genai.APIError); ok {
		switch apiErr.Code {
		case 429: // Rate limit
			return true
		case 500, 502, 503, 504: // Server errors
			return true
		case 400, 401, 403, 404: // Client errors
			return false
		}
	}
	if errors.Is(err, apperror.ErrEmptyResponse) {
		return true
	}

	if strings.Contains(errMsg, "connection refused") ||
		strings.Contains(errMsg, "connection reset") ||
		strings.Contains(errMsg, "timeout") ||
		strings.Contains(errMsg, "temporary failure") ||
		strings.Contains(errMsg, "EOF") {
		return true
	}

	return false
}

func validateGenerateResponse(resp *genai.GenerateContentResponse) error {
	if resp == nil {
		return fmt.Errorf("response is nil: %w", apperror.ErrEmptyResponse)
	}
	if len(resp.Candidates) == 0 {
		return fmt.Errorf("no candidates in response: %w", apperror.ErrEmptyResponse)
	}
	if resp.Candidates[0].Content == nil {
		return fmt.Errorf("candidate content is nil: %w", apperror.ErrEmptyResponse)
	}
	if len(resp.Candidates[0].Content.Parts) == 0 {
		return fmt.Errorf("no parts in content: %w", apperror.ErrEmptyResponse)
	}
	return nil
}

func validateEmbeddingResponse(resp *genai.EmbedContentResponse) ([]float32, error) {
	if resp == nil {
		return nil, fmt.Errorf("response is nil: %w", apperror.ErrEmptyResponse)
	}
	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("no embeddings returned: %w", apperror.ErrEmptyResponse)
	}

	embedding := resp.Embeddings[0].Values
	if len(embedding) == 0 {
		return nil, fmt.Errorf("embedding vector is empty: %w", apperror.ErrEmptyResponse)
	}

	for i, val := range embedding {
		if math.IsNaN(float64(val)) || math.IsInf(float64(val), 0) {
			return nil, fmt.Errorf("invalid embedding value at index %d: %v", i, val)
		}
	}
	return embedding, nil
}

// ResetCircuitBreaker clears the consecutive error count.
func (s *GeminiService) ResetCircuitBreaker() {
	s.consecutiveErrors.Store(0)
	slog.Info("circuit breaker reset")
}

// CircuitBreakerStatus reports the consecutive error count and whether the
// breaker is open.
func (s *GeminiService) CircuitBreakerStatus() (int, bool) {
	n := s.consecutiveErrors.Load()
	return int(n), n >= s.circuitBreakerMax
}
