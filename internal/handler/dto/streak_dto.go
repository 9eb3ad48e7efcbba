package dto

import "github.com/yourusername/streak-quiz-api/internal/domain/entity"

// StreakSavedMessage - сообщение об успешном сохранении серии
const StreakSavedMessage = "Streak saved successfully!"

// StreakResult - ответ на сохранение серии
type StreakResult struct {
	Message       string `json:"message"`
	IsNewRecord   bool   `json:"isNewRecord"`
	CurrentStreak int    `json:"currentStreak"`
	HighestStreak int    `json:"highestStreak"`
}

// StreakHistoryDTO - одна запись истории
type StreakHistoryDTO struct {
	ID          uint   `json:"id"`
	StreakCount int    `json:"streakCount"`
	Category    string `json:"category"`
	PlayedAt    string `json:"playedAt"`
}

// NewStreakHistoryDTO форматирует время игры без часового пояса
func NewStreakHistoryDTO(s *entity.Streak) StreakHistoryDTO {
	return StreakHistoryDTO{
		ID:          s.ID,
		StreakCount: s.StreakCount,
		Category:    s.Category,
		PlayedAt:    s.PlayedAt.Format(entity.PlayedAtLayout),
	}
}

// PaginatedStreakHistoryResponse - страница истории пользователя
type PaginatedStreakHistoryResponse struct {
	Streaks []StreakHistoryDTO `json:"streaks"`
	Total   int64              `json:"total"`
	Page    int                `json:"page"`
	PerPage int                `json:"perPage"`
}
