package postgres

import (
	"gorm.io/gorm"

	"github.com/yourusername/streak-quiz-api/internal/domain/entity"
)

// StreakRepo реализует repository.StreakRepository
type StreakRepo struct {
	db *gorm.DB
}

// NewStreakRepo создает новый репозиторий серий
func NewStreakRepo(db *gorm.DB) *StreakRepo {
	return &StreakRepo{db: db}
}

// Create сохраняет сыгранную серию
func (r *StreakRepo) Create(streak *entity.Streak) error {
	return r.db.Create(streak).Error
}

// GetByUserID возвращает историю пользователя, новые серии первыми
func (r *StreakRepo) GetByUserID(userID uint, limit, offset int) ([]entity.Streak, error) {
	var streaks []entity.Streak
	err := r.db.Where("user_id = ?", userID).
		Order("played_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&streaks).Error
	return streaks, err
}

// GetTopByUserID возвращает лучшие серии пользователя
func (r *StreakRepo) GetTopByUserID(userID uint, limit int) ([]entity.Streak, error) {
	var streaks []entity.Streak
	err := r.db.Where("user_id = ?", userID).
		Order("streak_count DESC, played_at DESC").
		Limit(limit).
		Find(&streaks).Error
	return streaks, err
}

// CountByUserID возвращает количество сыгранных серий
func (r *StreakRepo) CountByUserID(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entity.Streak{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
