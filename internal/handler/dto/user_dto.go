package dto

import "github.com/yourusername/streak-quiz-api/internal/domain/entity"

// UserDTO - публичное представление пользователя
type UserDTO struct {
	ID            uint   `json:"id"`
	Username      string `json:"username"`
	HighestStreak int    `json:"highestStreak"`
	GamesPlayed   int64  `json:"gamesPlayed"`
}

// NewUserDTO собирает UserDTO из сущности
func NewUserDTO(u *entity.User) UserDTO {
	return UserDTO{
		ID:            u.ID,
		Username:      u.Username,
		HighestStreak: u.HighestStreak,
		GamesPlayed:   u.GamesPlayed,
	}
}

// AuthResponse возвращается после регистрации и входа
type AuthResponse struct {
	User        UserDTO `json:"user"`
	AccessToken string  `json:"accessToken"`
	TokenType   string  `json:"tokenType"`
	ExpiresIn   int64   `json:"expiresIn"` // секунды
}

// LeaderboardEntryDTO представляет одного пользователя в лидерборде
type LeaderboardEntryDTO struct {
	Rank          int    `json:"rank"`
	UserID        uint   `json:"userId"`
	Username      string `json:"username"`
	HighestStreak int    `json:"highestStreak"`
}

// PaginatedLeaderboardResponse представляет страницу лидерборда
type PaginatedLeaderboardResponse struct {
	Entries []LeaderboardEntryDTO `json:"entries"`
	Total   int64                 `json:"total"`
	Limit   int                   `json:"limit"`
	Offset  int                   `json:"offset"`
}
