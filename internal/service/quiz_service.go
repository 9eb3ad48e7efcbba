package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/yourusername/streak-quiz-api/internal/domain/entity"
	apperrors "github.com/yourusername/streak-quiz-api/internal/pkg/errors"
)

const (
	// MaxBatchSize - максимальное число вопросов в одном пакетном запросе
	MaxBatchSize        = 10
	batchConcurrency    = 4
	maxCategoryInputLen = 100
)

// QuestionGenerator возвращает вопрос для категории и никогда не падает
type QuestionGenerator interface {
	Generate(ctx context.Context, category string) *entity.Question
	LiveMode() bool
}

// QuizService выдаёт вопросы викторины
type QuizService struct {
	generator QuestionGenerator
}

// NewQuizService создает сервис вопросов
func NewQuizService(generator QuestionGenerator) *QuizService {
	return &QuizService{generator: generator}
}

// GenerateQuestion возвращает один вопрос
func (s *QuizService) GenerateQuestion(ctx context.Context, category string) (*entity.Question, error) {
	if err := validateCategory(category); err != nil {
		return nil, err
	}
	return s.generator.Generate(ctx, category), nil
}

// GenerateBatch генерирует count вопросов параллельно, порядок результата соответствует порядку запуска
func (s *QuizService) GenerateBatch(ctx context.Context, category string, count int) ([]*entity.Question, error) {
	if err := validateCategory(category); err != nil {
		return nil, err
	}
	if count < 1 || count > MaxBatchSize {
		return nil, fmt.Errorf("%w: count must be between 1 and %d", apperrors.ErrValidation, MaxBatchSize)
	}

	questions := make([]*entity.Question, count)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)
	for i := 0; i < count; i++ {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			questions[i] = s.generator.Generate(gctx, category)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return questions, nil
}

// Mode возвращает "live" или "mock"
func (s *QuizService) Mode() string {
	if s.generator.LiveMode() {
		return "live"
	}
	return "mock"
}

func validateCategory(category string) error {
	if strings.TrimSpace(category) == "" {
		return fmt.Errorf("%w: category is required", apperrors.ErrValidation)
	}
	if len([]rune(category)) > maxCategoryInputLen {
		return fmt.Errorf("%w: category must be at most %d characters", apperrors.ErrValidation, maxCategoryInputLen)
	}
	return nil
}
