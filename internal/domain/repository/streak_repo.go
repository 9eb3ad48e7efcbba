package repository

import (
	"github.com/yourusername/streak-quiz-api/internal/domain/entity"
)

// StreakRepository определяет методы для работы с историей серий
type StreakRepository interface {
	Create(streak *entity.Streak) error
	// GetByUserID возвращает серии пользователя, новые первыми
	GetByUserID(userID uint, limit, offset int) ([]entity.Streak, error)
	// GetTopByUserID возвращает лучшие серии пользователя
	GetTopByUserID(userID uint, limit int) ([]entity.Streak, error)
	CountByUserID(userID uint) (int64, error)
}
