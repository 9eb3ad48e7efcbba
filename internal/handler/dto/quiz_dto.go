package dto

import "github.com/yourusername/streak-quiz-api/internal/domain/entity"

// BatchQuestionsResponse - результат пакетной генерации
type BatchQuestionsResponse struct {
	Category  string             `json:"category"`
	Questions []*entity.Question `json:"questions"`
}

// GeneratorStatusResponse сообщает, работает ли генератор с моделью или с банком вопросов
type GeneratorStatusResponse struct {
	Mode string `json:"mode"` // "live" или "mock"
}
