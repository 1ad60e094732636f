package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"github.com/hiredeck/hiredeck/internal/apperror"
	"github.com/hiredeck/hiredeck/internal/config"
	"github.com/hiredeck/hiredeck/internal/util"
)

// OpenRouterService is the alternate classifier provider, talking to any
// OpenRouter-compatible chat completions API.
type OpenRouterService struct {
	APIKey string
	Model  string
	URL    string
	client *resty.Client
	retry  util.RetryPolicy
}

func NewOpenRouterService() *OpenRouterService {
	cfg := config.LoadClassifierConfig()
	return &OpenRouterService{
		APIKey: cfg.OpenRouterAPIKey,
		Model:  cfg.OpenRouterModel,
		URL:    cfg.OpenRouterURL,
		client: resty.New(),
		retry:  util.DefaultRetryPolicy(isRetryableHTTPError),
	}
}

// Classify sends the scoring prompt and returns the raw completion text.
func (s *OpenRouterService) Classify(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}

	var text string
	err := s.retry.Do(ctx, "openrouter.classify", func() error {
		resp, err := s.client.R().
			SetContext(ctx).
			SetHeader("Authorization", "Bearer "+s.APIKey).
			SetHeader("Content-Type", "application/json").
			SetBody(map[string]interface{}{
				"model": s.Model,
				"messages": []map[string]string{
					{"role": "system", "content": "You are an AI screening candidate resumes for a hiring pipeline."},
					{"role": "user", "content": prompt},
				},
			}).
			Post(s.URL)
		if err != nil {
			return err
		}
		if resp.StatusCode() >= 400 {
			return &httpStatusError{status: resp.StatusCode(), body: resp.String()}
		}

		text = gjson.Get(resp.String(), "choices.0.message.content").String()
		if strings.TrimSpace(text) == "" {
			return apperror.ErrEmptyResponse
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

type httpStatusError struct {
	status int
	body   string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("classifier API returned %d: %s", e.status, e.body)
}

func isRetryableHTTPError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, apperror.ErrEmptyResponse) {
		return true
	}

	var se *httpStatusError
	if errors.As(err, &se) {
		switch se.status {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
		return false
	}

	errMsg := err.Error()
	if strings.Contains(errMsg, "context canceled") ||
		strings.Contains(errMsg, "context deadline exceeded") {
		return false
	}
	return strings.Contains(errMsg, "connection refused") ||
		strings.Contains(errMsg, "connection reset") ||
		strings.Contains(errMsg, "timeout") ||
		strings.Contains(errMsg, "EOF")
}
