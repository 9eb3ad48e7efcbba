package questiongen

import (
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/yourusername/streak-quiz-api/internal/config"
)

// Значения по умолчанию для подключения к Gemini
const (
	DefaultAPIURL      = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"
	DefaultModel       = "gemini-2.0-flash"
	DefaultTimeout     = 20 * time.Second
	PlaceholderAPIKey  = "YOUR_GEMINI_API_KEY"
	TransportHTTP      = "http"
	TransportSDK       = "sdk"
	defaultMaxTokens   = 2048
	defaultTemperature = 1.5
	defaultTopK        = 100
	defaultTopP        = 0.98
)

// SafetySetting задаёт порог блокировки для одной категории вреда
type SafetySetting struct {
	Category  genai.HarmCategory
	Threshold genai.HarmBlockThreshold
}

// Config хранит неизменяемые настройки генератора вопросов.
// Заполняется один раз при старте и передаётся в NewGenerator по значению.
type Config struct {
	APIKey    string
	APIURL    string
	Model     string
	Transport string // "http" или "sdk"
	Timeout   time.Duration

	Temperature      float32
	TopK             float32
	TopP             float32
	MaxOutputTokens  int32
	ResponseMIMEType string
	SafetySettings   []SafetySetting
}

// DefaultConfig возвращает конфигурацию с параметрами генерации, как их ожидает фронтенд
func DefaultConfig() Config {
	return Config{
		APIURL:           DefaultAPIURL,
		Model:            DefaultModel,
		Transport:        TransportHTTP,
		Timeout:          DefaultTimeout,
		Temperature:      defaultTemperature,
		TopK:             defaultTopK,
		TopP:             defaultTopP,
		MaxOutputTokens:  defaultMaxTokens,
		ResponseMIMEType: "application/json",
		SafetySettings: []SafetySetting{
			{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockOnlyHigh},
			{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockOnlyHigh},
			{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdBlockOnlyHigh},
			{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdBlockOnlyHigh},
		},
	}
}

// FromAppConfig переносит секцию gemini конфигурации приложения поверх DefaultConfig
func FromAppConfig(g config.GeminiConfig) Config {
	cfg := DefaultConfig()
	cfg.APIKey = g.APIKey
	if g.APIURL != "" {
		cfg.APIURL = g.APIURL
	}
	if g.Model != "" {
		cfg.Model = g.Model
	}
	if g.Transport != "" {
		cfg.Transport = g.Transport
	}
	if g.TimeoutSec > 0 {
		cfg.Timeout = g.Timeout()
	}
	return cfg
}

// withDefaults дозаполняет пустые поля значениями из DefaultConfig
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.APIURL == "" {
		c.APIURL = d.APIURL
	}
	if c.Model == "" {
		c.Model = d.Model
	}
	if c.Transport == "" {
		c.Transport = d.Transport
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.Temperature == 0 {
		c.Temperature = d.Temperature
	}
	if c.TopK == 0 {
		c.TopK = d.TopK
	}
	if c.TopP == 0 {
		c.TopP = d.TopP
	}
	if c.MaxOutputTokens == 0 {
		c.MaxOutputTokens = d.MaxOutputTokens
	}
	if c.ResponseMIMEType == "" {
		c.ResponseMIMEType = d.ResponseMIMEType
	}
	if len(c.SafetySettings) == 0 {
		c.SafetySettings = d.SafetySettings
	}
	return c
}

// IsPlaceholderKey сообщает, что ключ не настроен и генератор должен работать в mock-режиме
func IsPlaceholderKey(apiKey string) bool {
	key := strings.TrimSpace(apiKey)
	return key == "" || key == PlaceholderAPIKey
}
