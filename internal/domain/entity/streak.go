package entity

import (
	"time"

	"gorm.io/gorm"
)

// PlayedAtLayout - формат времени игры в ответах API
const PlayedAtLayout = "2006-01-02T15:04:05"

// Streak - одна сыгранная серия пользователя
type Streak struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index:idx_streaks_user_played,priority:1" json:"userId"`
	StreakCount int       `gorm:"not null;default:0" json:"streakCount"`
	Category    string    `gorm:"size:50;not null;default:''" json:"category"`
	PlayedAt    time.Time `gorm:"not null;index:idx_streaks_user_played,priority:2" json:"playedAt"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TableName определяет имя таблицы для GORM
func (Streak) TableName() string {
	return "streaks"
}

// BeforeCreate проставляет время игры, если оно не задано
func (s *Streak) BeforeCreate(tx *gorm.DB) error {
	if s.PlayedAt.IsZero() {
		s.PlayedAt = time.Now()
	}
	return nil
}
