package questiongen

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/yourusername/streak-quiz-api/internal/domain/entity"
)

// Generator - оркестратор конвейера: промпт, вызов модели, извлечение, очистка, валидация.
// Любой сбой заменяется вопросом из запасного банка, поэтому Generate никогда не возвращает ошибку.
type Generator struct {
	cfg    Config
	client CompletionClient
}

// NewGenerator создаёт генератор. При пустом или шаблонном ключе клиент не используется.
func NewGenerator(cfg Config, client CompletionClient) *Generator {
	return &Generator{cfg: cfg.withDefaults(), client: client}
}

// NewGeneratorFromConfig выбирает транспорт по cfg.Transport
func NewGeneratorFromConfig(ctx context.Context, cfg Config) (*Generator, error) {
	cfg = cfg.withDefaults()
	if IsPlaceholderKey(cfg.APIKey) {
		log.Printf("[QuestionGenerator] API ключ Gemini не задан, используется банк тестовых вопросов")
		return NewGenerator(cfg, nil), nil
	}

	switch strings.ToLower(cfg.Transport) {
	case TransportSDK:
		client, err := NewSDKCompletionClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return NewGenerator(cfg, client), nil
	case TransportHTTP:
		return NewGenerator(cfg, NewHTTPCompletionClient(cfg, nil)), nil
	default:
		return nil, fmt.Errorf("unsupported gemini transport: %s", cfg.Transport)
	}
}

// LiveMode сообщает, обращается ли генератор к модели
func (g *Generator) LiveMode() bool {
	return g.client != nil && !IsPlaceholderKey(g.cfg.APIKey)
}

// Generate возвращает вопрос для категории
func (g *Generator) Generate(ctx context.Context, category string) *entity.Question {
	if !g.LiveMode() {
		return MockQuestion(category)
	}

	q, err := g.generate(ctx, category)
	if err != nil {
		log.Printf("[QuestionGenerator] Сбой генерации (kind=%s, category=%q): %v; raw=%q",
			Classify(err), category, err, rawSnippet(err))
		return MockQuestion(category)
	}
	return q
}

func (g *Generator) generate(ctx context.Context, category string) (*entity.Question, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	raw, err := g.client.Complete(ctx, BuildPrompt(category))
	if err != nil {
		return nil, err
	}

	text, err := ExtractText(raw)
	if err != nil {
		return nil, err
	}

	candidate, err := SanitizePayload(text)
	if err != nil {
		return nil, err
	}

	return ValidateQuestion(candidate, category)
}
