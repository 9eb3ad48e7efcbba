package questiongen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// CompletionClient отправляет промпт модели и возвращает сырое тело ответа
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) ([]byte, error)
}

// maxResponseBytes ограничивает чтение тела ответа
const maxResponseBytes = 1 << 20

// HTTPCompletionClient обращается к REST-эндпоинту generateContent напрямую
type HTTPCompletionClient struct {
	cfg        Config
	httpClient *http.Client
}

// NewHTTPCompletionClient создаёт клиента. Если httpClient == nil, используется клиент с таймаутом из конфига.
func NewHTTPCompletionClient(cfg Config, httpClient *http.Client) *HTTPCompletionClient {
	cfg = cfg.withDefaults()
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &HTTPCompletionClient{cfg: cfg, httpClient: httpClient}
}

// Complete выполняет одну попытку POST-запроса без ретраев
func (c *HTTPCompletionClient) Complete(ctx context.Context, prompt string) ([]byte, error) {
	endpoint, err := c.endpoint()
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	body, err := json.Marshal(newGenerateContentRequest(c.cfg, prompt))
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{
			StatusCode: resp.StatusCode,
			Body:       truncate(string(raw), maxSnippetLen),
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}
	return raw, nil
}

// endpoint добавляет ключ API в query-параметр key
func (c *HTTPCompletionClient) endpoint() (string, error) {
	u, err := url.Parse(c.cfg.APIURL)
	if err != nil {
		return "", fmt.Errorf("invalid api url %q: %w", c.cfg.APIURL, err)
	}
	q := u.Query()
	q.Set("key", c.cfg.APIKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
