package repository

import (
	"github.com/yourusername/streak-quiz-api/internal/domain/entity"
)

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id uint) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
	ExistsByUsername(username string) (bool, error)
	// UpdateHighestStreak поднимает рекорд, только если streak строго больше текущего.
	// Возвращает true, если рекорд обновлён.
	UpdateHighestStreak(userID uint, streak int) (bool, error)
	IncrementGamesPlayed(userID uint) error
	// GetTopByHighestStreak возвращает пользователей для лидерборда с пагинацией и общим количеством
	GetTopByHighestStreak(limit, offset int) ([]entity.User, int64, error)
}
