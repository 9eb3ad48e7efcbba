package questiongen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

// SDKCompletionClient ходит в Gemini через официальный SDK.
// Ответ SDK сериализуется обратно в JSON, чтобы дальше работал общий ExtractText.
type SDKCompletionClient struct {
	client *genai.Client
	cfg    Config
}

// NewSDKCompletionClient создаёт клиента SDK для Gemini API
func NewSDKCompletionClient(ctx context.Context, cfg Config) (*SDKCompletionClient, error) {
	cfg = cfg.withDefaults()
	return newSDKCompletionClient(ctx, cfg, genai.HTTPOptions{}, &http.Client{Timeout: cfg.Timeout})
}

func newSDKCompletionClient(ctx context.Context, cfg Config, opts genai.HTTPOptions, httpClient *http.Client) (*SDKCompletionClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  httpClient,
		HTTPOptions: opts,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}
	return &SDKCompletionClient{client: client, cfg: cfg}, nil
}

func (c *SDKCompletionClient) Complete(ctx context.Context, prompt string) ([]byte, error) {
	result, err := c.client.Models.GenerateContent(ctx, c.cfg.Model, genai.Text(prompt), c.contentConfig())
	if err != nil {
		return nil, mapSDKError(err)
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("marshal sdk response: %w", err)}
	}
	return raw, nil
}

func (c *SDKCompletionClient) contentConfig() *genai.GenerateContentConfig {
	temperature := c.cfg.Temperature
	topK := c.cfg.TopK
	topP := c.cfg.TopP

	settings := make([]*genai.SafetySetting, 0, len(c.cfg.SafetySettings))
	for _, s := range c.cfg.SafetySettings {
		settings = append(settings, &genai.SafetySetting{Category: s.Category, Threshold: s.Threshold})
	}

	return &genai.GenerateContentConfig{
		Temperature:      &temperature,
		TopK:             &topK,
		TopP:             &topP,
		MaxOutputTokens:  c.cfg.MaxOutputTokens,
		ResponseMIMEType: c.cfg.ResponseMIMEType,
		SafetySettings:   settings,
	}
}

// mapSDKError приводит ошибку SDK к TransportError. SDK отдаёт APIError по значению.
func mapSDKError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &TransportError{StatusCode: apiErr.Code, Body: truncate(apiErr.Message, maxSnippetLen), Err: err}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return &TransportError{StatusCode: apiErrPtr.Code, Body: truncate(apiErrPtr.Message, maxSnippetLen), Err: err}
	}
	return &TransportError{Err: err}
}
