package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/yourusername/streak-quiz-api/internal/domain/entity"
	"github.com/yourusername/streak-quiz-api/internal/domain/repository"
	"github.com/yourusername/streak-quiz-api/internal/handler/dto"
	apperrors "github.com/yourusername/streak-quiz-api/internal/pkg/errors"
)

const (
	leaderboardVersionKey = "leaderboard:version"
	maxCategoryLength     = 50
	defaultHistoryPerPage = 20
	maxHistoryPerPage     = 100
	defaultBestStreaks    = 5
	maxBestStreaks        = 50
	maxExportRows         = 10000
	recordAnnounceTTL     = 10 * time.Minute
)

// EventNewRecord - тип события о новом рекорде
const EventNewRecord = "NEW_RECORD"

// EventBroadcaster рассылает события подключённым клиентам
type EventBroadcaster interface {
	BroadcastEvent(eventType string, data interface{}) error
}

// NewRecordEvent - полезная нагрузка события NEW_RECORD
type NewRecordEvent struct {
	UserID        uint   `json:"userId"`
	Username      string `json:"username"`
	HighestStreak int    `json:"highestStreak"`
	Category      string `json:"category"`
}

// LeaderboardSettings задаёт лимиты и TTL кеша лидерборда
type LeaderboardSettings struct {
	DefaultLimit int
	MaxLimit     int
	CacheTTL     time.Duration
}

// StreakService ведёт историю серий, рекорды и лидерборд
type StreakService struct {
	userRepo    repository.UserRepository
	streakRepo  repository.StreakRepository
	cacheRepo   repository.CacheRepository // может быть nil
	broadcaster EventBroadcaster           // может быть nil
	settings    LeaderboardSettings
}

// NewStreakService создает сервис серий
func NewStreakService(
	userRepo repository.UserRepository,
	streakRepo repository.StreakRepository,
	cacheRepo repository.CacheRepository,
	broadcaster EventBroadcaster,
	settings LeaderboardSettings,
) *StreakService {
	if settings.DefaultLimit <= 0 {
		settings.DefaultLimit = 10
	}
	if settings.MaxLimit <= 0 {
		settings.MaxLimit = 100
	}
	return &StreakService{
		userRepo:    userRepo,
		streakRepo:  streakRepo,
		cacheRepo:   cacheRepo,
		broadcaster: broadcaster,
		settings:    settings,
	}
}

// SaveStreak сохраняет сыгранную серию и при необходимости обновляет рекорд пользователя
func (s *StreakService) SaveStreak(userID uint, streakCount int, category string) (*dto.StreakResult, error) {
	if streakCount < 0 {
		return nil, fmt.Errorf("%w: streak count must not be negative", apperrors.ErrValidation)
	}
	category = strings.TrimSpace(category)
	if len([]rune(category)) > maxCategoryLength {
		return nil, fmt.Errorf("%w: category must be at most %d characters", apperrors.ErrValidation, maxCategoryLength)
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	streak := &entity.Streak{
		UserID:      userID,
		StreakCount: streakCount,
		Category:    category,
	}
	if err := s.streakRepo.Create(streak); err != nil {
		log.Printf("[StreakService] Ошибка сохранения серии для пользователя ID=%d: %v", userID, err)
		return nil, err
	}

	if err := s.userRepo.IncrementGamesPlayed(userID); err != nil {
		log.Printf("[StreakService] Не удалось увеличить счётчик игр пользователя ID=%d: %v", userID, err)
	}

	result := &dto.StreakResult{
		Message:       dto.StreakSavedMessage,
		CurrentStreak: streakCount,
		HighestStreak: user.HighestStreak,
	}

	if !user.IsNewRecord(streakCount) {
		return result, nil
	}

	updated, err := s.userRepo.UpdateHighestStreak(userID, streakCount)
	if err != nil {
		log.Printf("[StreakService] Ошибка обновления рекорда пользователя ID=%d: %v", userID, err)
		return nil, err
	}
	if !updated {
		// Параллельное сохранение уже записало рекорд не меньше этого
		return result, nil
	}

	result.IsNewRecord = true
	result.HighestStreak = streakCount
	log.Printf("[StreakService] Новый рекорд пользователя ID=%d: %d", userID, streakCount)

	s.invalidateLeaderboard()
	s.broadcastNewRecord(NewRecordEvent{
		UserID:        user.ID,
		Username:      user.Username,
		HighestStreak: streakCount,
		Category:      category,
	})
	return result, nil
}

// GetUserStreakHistory возвращает историю пользователя, новые серии первыми
func (s *StreakService) GetUserStreakHistory(userID uint, page, pageSize int) (*dto.PaginatedStreakHistoryResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultHistoryPerPage
	} else if pageSize > maxHistoryPerPage {
		pageSize = maxHistoryPerPage
	}
	offset := (page - 1) * pageSize

	streaks, err := s.streakRepo.GetByUserID(userID, pageSize, offset)
	if err != nil {
		log.Printf("[StreakService] Ошибка получения истории пользователя ID=%d: %v", userID, err)
		return nil, err
	}
	total, err := s.streakRepo.CountByUserID(userID)
	if err != nil {
		return nil, err
	}

	items := make([]dto.StreakHistoryDTO, len(streaks))
	for i := range streaks {
		items[i] = dto.NewStreakHistoryDTO(&streaks[i])
	}
	return &dto.PaginatedStreakHistoryResponse{
		Streaks: items,
		Total:   total,
		Page:    page,
		PerPage: pageSize,
	}, nil
}

// GetUserBestStreaks возвращает лучшие серии пользователя
func (s *StreakService) GetUserBestStreaks(userID uint, limit int) ([]dto.StreakHistoryDTO, error) {
	if limit < 1 {
		limit = defaultBestStreaks
	} else if limit > maxBestStreaks {
		limit = maxBestStreaks
	}

	streaks, err := s.streakRepo.GetTopByUserID(userID, limit)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StreakHistoryDTO, len(streaks))
	for i := range streaks {
		items[i] = dto.NewStreakHistoryDTO(&streaks[i])
	}
	return items, nil
}

// GetLeaderboard возвращает страницу лидерборда по рекордным сериям
func (s *StreakService) GetLeaderboard(limit, offset int) (*dto.PaginatedLeaderboardResponse, error) {
	limit, offset = s.normalizePage(limit, offset)

	cacheKey := ""
	if s.cacheRepo != nil {
		if version, ok := s.leaderboardVersion(); ok {
			cacheKey = fmt.Sprintf("leaderboard:v%s:%d:%d", version, limit, offset)
		}
	}
	if cacheKey != "" {
		var cached dto.PaginatedLeaderboardResponse
		if err := s.cacheRepo.GetJSON(cacheKey, &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("[StreakService] Ошибка чтения лидерборда из кеша: %v", err)
		}
	}

	users, total, err := s.userRepo.GetTopByHighestStreak(limit, offset)
	if err != nil {
		log.Printf("[StreakService] Ошибка при получении лидерборда из репозитория: %v", err)
		return nil, err
	}

	entries := make([]dto.LeaderboardEntryDTO, len(users))
	for i, user := range users {
		entries[i] = dto.LeaderboardEntryDTO{
			Rank:          offset + i + 1,
			UserID:        user.ID,
			Username:      user.Username,
			HighestStreak: user.HighestStreak,
		}
	}
	response := &dto.PaginatedLeaderboardResponse{
		Entries: entries,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	}

	if cacheKey != "" {
		if err := s.cacheRepo.SetJSON(cacheKey, response, s.settings.CacheTTL); err != nil {
			log.Printf("[StreakService] Не удалось сохранить лидерборд в кеш: %v", err)
		}
	}
	return response, nil
}

// ExportLeaderboard выгружает лидерборд целиком, не более maxRows строк, минуя кеш
func (s *StreakService) ExportLeaderboard(maxRows int) ([]dto.LeaderboardEntryDTO, error) {
	if maxRows < 1 {
		maxRows = maxExportRows
	}
	pageSize := s.settings.MaxLimit

	entries := make([]dto.LeaderboardEntryDTO, 0, pageSize)
	for offset := 0; offset < maxRows; offset += pageSize {
		users, _, err := s.userRepo.GetTopByHighestStreak(pageSize, offset)
		if err != nil {
			log.Printf("[StreakService] Ошибка выгрузки лидерборда (offset=%d): %v", offset, err)
			return nil, err
		}
		for i, user := range users {
			if len(entries) >= maxRows {
				break
			}
			entries = append(entries, dto.LeaderboardEntryDTO{
				Rank:          offset + i + 1,
				UserID:        user.ID,
				Username:      user.Username,
				HighestStreak: user.HighestStreak,
			})
		}
		if len(users) < pageSize {
			break
		}
	}
	return entries, nil
}

// GetHighestStreak возвращает рекорд пользователя, 0 для неизвестного пользователя
func (s *StreakService) GetHighestStreak(userID uint) (int, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return user.HighestStreak, nil
}

func (s *StreakService) normalizePage(limit, offset int) (int, int) {
	if limit < 1 {
		limit = s.settings.DefaultLimit
	} else if limit > s.settings.MaxLimit {
		limit = s.settings.MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// leaderboardVersion читает текущую версию кеша. ok=false означает, что кешем пользоваться нельзя.
func (s *StreakService) leaderboardVersion() (string, bool) {
	version, err := s.cacheRepo.Get(leaderboardVersionKey)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "0", true
		}
		log.Printf("[StreakService] Ошибка чтения версии лидерборда, кеш пропущен: %v", err)
		return "", false
	}
	return version, true
}

// invalidateLeaderboard увеличивает версию, старые страницы истекают сами по TTL
func (s *StreakService) invalidateLeaderboard() {
	if s.cacheRepo == nil {
		return
	}
	if _, err := s.cacheRepo.Increment(leaderboardVersionKey); err != nil {
		log.Printf("[StreakService] Не удалось сбросить кеш лидерборда: %v", err)
	}
}

// broadcastNewRecord рассылает NEW_RECORD один раз на пару (пользователь, серия) для всех инстансов
func (s *StreakService) broadcastNewRecord(event NewRecordEvent) {
	if s.broadcaster == nil {
		return
	}
	if s.cacheRepo != nil {
		key := fmt.Sprintf("record:announced:%d:%d", event.UserID, event.HighestStreak)
		first, err := s.cacheRepo.SetNX(key, "1", recordAnnounceTTL)
		if err != nil {
			log.Printf("[StreakService] Не удалось отметить рассылку рекорда %s: %v", key, err)
		} else if !first {
			log.Printf("[StreakService] Рекорд %s уже разослан, пропуск", key)
			return
		}
	}
	if err := s.broadcaster.BroadcastEvent(EventNewRecord, event); err != nil {
		log.Printf("[StreakService] Ошибка рассылки события %s: %v", EventNewRecord, err)
	}
}
