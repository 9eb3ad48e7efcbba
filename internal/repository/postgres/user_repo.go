package postgres

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/streak-quiz-api/internal/domain/entity"
	apperrors "github.com/yourusername/streak-quiz-api/internal/pkg/errors"
)

// UserRepo реализует repository.UserRepository
type UserRepo struct {
	db *gorm.DB
}

// NewUserRepo создает новый репозиторий пользователей
func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create создает нового пользователя. Занятое имя возвращается как ErrConflict.
func (r *UserRepo) Create(user *entity.User) error {
	if err := r.db.Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: username %s already taken", apperrors.ErrConflict, user.Username)
		}
		return err
	}
	return nil
}

// GetByID возвращает пользователя по ID
func (r *UserRepo) GetByID(id uint) (*entity.User, error) {
	var user entity.User
	err := r.db.First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByUsername возвращает пользователя по имени пользователя
func (r *UserRepo) GetByUsername(username string) (*entity.User, error) {
	var user entity.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ExistsByUsername проверяет, занято ли имя пользователя
func (r *UserRepo) ExistsByUsername(username string) (bool, error) {
	var count int64
	err := r.db.Model(&entity.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// UpdateHighestStreak условно поднимает рекорд одним UPDATE, чтобы параллельные сохранения не затирали друг друга
func (r *UserRepo) UpdateHighestStreak(userID uint, streak int) (bool, error) {
	result := r.db.Model(&entity.User{}).
		Where("id = ? AND highest_streak < ?", userID, streak).
		UpdateColumns(map[string]interface{}{
			"highest_streak": streak,
			"updated_at":     time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// IncrementGamesPlayed увеличивает счетчик сыгранных игр
func (r *UserRepo) IncrementGamesPlayed(userID uint) error {
	return r.db.Model(&entity.User{}).
		Where("id = ?", userID).
		UpdateColumn("games_played", gorm.Expr("games_played + ?", 1)).
		Error
}

// GetTopByHighestStreak возвращает страницу лидерборда и общее количество пользователей
func (r *UserRepo) GetTopByHighestStreak(limit, offset int) ([]entity.User, int64, error) {
	var users []entity.User
	var total int64

	// Количество и страницу читаем в одной транзакции для согласованности
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.User{}).Count(&total).Error; err != nil {
			return err
		}
		return tx.Order("highest_streak DESC, id ASC").
			Limit(limit).
			Offset(offset).
			Select("id", "username", "highest_streak", "games_played").
			Find(&users).Error
	})
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
