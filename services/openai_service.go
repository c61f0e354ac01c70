package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Completer sends one prompt to a text-generation backend and returns the
// raw reply text. Any failure wraps ErrNoResponse.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type OpenAIConfig struct {
	APIKey          string
	Organization    string
	Project         string
	BaseURL         string
	Model           string
	ModerationModel string
}

// OpenAIClient implements Completer and Moderator against the OpenAI REST API.
type OpenAIClient struct {
	cfg    OpenAIConfig
	client *http.Client
	log    *zap.Logger
}

func NewOpenAIClient(cfg OpenAIConfig, log *zap.Logger) *OpenAIClient {
	return &OpenAIClient{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
		log:    log,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type moderationResponse struct {
	Results []struct {
		Flagged    bool            `json:"flagged"`
		Categories map[string]bool `json:"categories"`
	} `json:"results"`
}

type apiErrorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (o *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	body := map[string]any{
		"model":    o.cfg.Model,
		"messages": []chatMessage{{Role: "system", Content: prompt}},
	}

	var out chatCompletionResponse
	if err := o.post(ctx, "/chat/completions", body, &out); err != nil {
		o.log.Warn("completion request failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrNoResponse, err)
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("%w: no choices returned", ErrNoResponse)
	}
	return out.Choices[0].Message.Content, nil
}

func (o *OpenAIClient) Moderate(ctx context.Context, text string) (bool, error) {
	body := map[string]any{
		"model": o.cfg.ModerationModel,
		"input": text,
	}

	var out moderationResponse
	if err := o.post(ctx, "/moderations", body, &out); err != nil {
		o.log.Warn("moderation request failed", zap.Error(err))
		return false, fmt.Errorf("%w: %v", ErrModerationService, err)
	}
	if len(out.Results) == 0 {
		return false, fmt.Errorf("%w: empty moderation result", ErrModerationService)
	}
	if r := out.Results[0]; r.Flagged {
		o.log.Info("content flagged", zap.Any("categories", r.Categories))
		return true, nil
	}
	return false, nil
}

func (o *OpenAIClient) post(ctx context.Context, path string, payload, out any) error {
	if o.cfg.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY not set")
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(o.cfg.BaseURL, "/")+path, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+o.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	if o.cfg.Organization != "" {
		req.Header.Set("OpenAI-Organization", o.cfg.Organization)
	}
	if o.cfg.Project != "" {
		req.Header.Set("OpenAI-Project", o.cfg.Project)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return fmt.Errorf("openai request error: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read openai response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiErrorBody
		if json.Unmarshal(respBytes, &apiErr) == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("openai api error (%d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		return fmt.Errorf("openai api error (%d): %s", resp.StatusCode, string(respBytes))
	}

	if err := json.Unmarshal(respBytes, out); err != nil {
		preview := string(respBytes)
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		return fmt.Errorf("decode openai response: %v | body: %s", err, preview)
	}
	return nil
}
