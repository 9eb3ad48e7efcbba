package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/streak-quiz-api/internal/domain/entity"
	"github.com/yourusername/streak-quiz-api/internal/handler/dto"
	apperrors "github.com/yourusername/streak-quiz-api/internal/pkg/errors"
)

// newTestStreakService подставляет моки кеша и рассылки, только если они заданы, чтобы не получить typed nil
func newTestStreakService(userRepo *MockUserRepository, streakRepo *MockStreakRepository, cache *MockCacheRepository, broadcaster *MockBroadcaster) *StreakService {
	settings := LeaderboardSettings{DefaultLimit: 10, MaxLimit: 100, CacheTTL: time.Minute}
	svc := NewStreakService(userRepo, streakRepo, nil, nil, settings)
	if cache != nil {
		svc.cacheRepo = cache
	}
	if broadcaster != nil {
		svc.broadcaster = broadcaster
	}
	return svc
}

func createTestUser(id uint, highest int) *entity.User {
	return &entity.User{ID: id, Username: "player", HighestStreak: highest}
}

func TestStreakService_SaveStreak_NewRecord(t *testing.T) {
	// Arrange
	userRepo := new(MockUserRepository)
	streakRepo := new(MockStreakRepository)
	cache := new(MockCacheRepository)
	broadcaster := new(MockBroadcaster)
	svc := newTestStreakService(userRepo, streakRepo, cache, broadcaster)

	userRepo.On("GetByID", uint(1)).Return(createTestUser(1, 5), nil)
	streakRepo.On("Create", mock.MatchedBy(func(s *entity.Streak) bool {
		return s.UserID == 1 && s.StreakCount == 8 && s.Category == "science"
	})).Return(nil)
	userRepo.On("IncrementGamesPlayed", uint(1)).Return(nil)
	userRepo.On("UpdateHighestStreak", uint(1), 8).Return(true, nil)
	cache.On("Increment", leaderboardVersionKey).Return(int64(2), nil)
	cache.On("SetNX", "record:announced:1:8", "1", recordAnnounceTTL).Return(true, nil)
	broadcaster.On("BroadcastEvent", EventNewRecord, mock.AnythingOfType("service.NewRecordEvent")).Return(nil)

	// Act
	result, err := svc.SaveStreak(1, 8, "  science ")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, dto.StreakSavedMessage, result.Message)
	assert.True(t, result.IsNewRecord, "Серия больше рекорда должна стать новым рекордом")
	assert.Equal(t, 8, result.CurrentStreak)
	assert.Equal(t, 8, result.HighestStreak)
	userRepo.AssertExpectations(t)
	streakRepo.AssertExpectations(t)
	cache.AssertExpectations(t)
	broadcaster.AssertExpectations(t)
}

func TestStreakService_SaveStreak_RecordAnnouncedOnce(t *testing.T) {
	// Arrange
	userRepo := new(MockUserRepository)
	streakRepo := new(MockStreakRepository)
	cache := new(MockCacheRepository)
	broadcaster := new(MockBroadcaster)
	svc := newTestStreakService(userRepo, streakRepo, cache, broadcaster)

	userRepo.On("GetByID", uint(1)).Return(createTestUser(1, 5), nil)
	streakRepo.On("Create", mock.Anything).Return(nil)
	userRepo.On("IncrementGamesPlayed", uint(1)).Return(nil)
	userRepo.On("UpdateHighestStreak", uint(1), 8).Return(true, nil)
	cache.On("Increment", leaderboardVersionKey).Return(int64(2), nil)
	cache.On("SetNX", "record:announced:1:8", "1", recordAnnounceTTL).Return(false, nil)

	// Act
	result, err := svc.SaveStreak(1, 8, "science")

	// Assert
	require.NoError(t, err)
	assert.True(t, result.IsNewRecord, "Рекорд сохраняется, даже если событие уже разослано")
	broadcaster.AssertNotCalled(t, "BroadcastEvent", mock.Anything, mock.Anything)
}

func TestStreakService_SaveStreak_AnnounceMarkFailureStillBroadcasts(t *testing.T) {
	// Arrange
	userRepo := new(MockUserRepository)
	streakRepo := new(MockStreakRepository)
	cache := new(MockCacheRepository)
	broadcaster := new(MockBroadcaster)
	svc := newTestStreakService(userRepo, streakRepo, cache, broadcaster)

	userRepo.On("GetByID", uint(1)).Return(createTestUser(1, 5), nil)
	streakRepo.On("Create", mock.Anything).Return(nil)
	userRepo.On("IncrementGamesPlayed", uint(1)).Return(nil)
	userRepo.On("UpdateHighestStreak", uint(1), 8).Return(true, nil)
	cache.On("Increment", leaderboardVersionKey).Return(int64(0), errors.New("redis down"))
	cache.On("SetNX", "record:announced:1:8", "1", recordAnnounceTTL).Return(false, errors.New("redis down"))
	broadcaster.On("BroadcastEvent", EventNewRecord, mock.AnythingOfType("service.NewRecordEvent")).Return(nil)

	// Act
	_, err := svc.SaveStreak(1, 8, "science")

	// Assert
	require.NoError(t, err)
	broadcaster.AssertExpectations(t)
}

func TestStreakService_SaveStreak_EqualIsNotRecord(t *testing.T) {
	// Arrange
	userRepo := new(MockUserRepository)
	streakRepo := new(MockStreakRepository)
	broadcaster := new(MockBroadcaster)
	svc := newTestStreakService(userRepo, streakRepo, nil, broadcaster)

	userRepo.On("GetByID", uint(1)).Return(createTestUser(1, 5), nil)
	streakRepo.On("Create", mock.Anything).Return(nil)
	userRepo.On("IncrementGamesPlayed", uint(1)).Return(nil)

	// Act
	result, err := svc.SaveStreak(1, 5, "history")

	// Assert
	require.NoError(t, err)
	assert.False(t, result.IsNewRecord, "Равная серия не является рекордом")
	assert.Equal(t, 5, result.HighestStreak)
	userRepo.AssertNotCalled(t, "UpdateHighestStreak", mock.Anything, mock.Anything)
	broadcaster.AssertNotCalled(t, "BroadcastEvent", mock.Anything, mock.Anything)
}

func TestStreakService_SaveStreak_LostRace(t *testing.T) {
	userRepo := new(MockUserRepository)
	streakRepo := new(MockStreakRepository)
	svc := newTestStreakService(userRepo, streakRepo, nil, nil)

	userRepo.On("GetByID", uint(1)).Return(createTestUser(1, 5), nil)
	streakRepo.On("Create", mock.Anything).Return(nil)
	userRepo.On("IncrementGamesPlayed", uint(1)).Return(nil)
	userRepo.On("UpdateHighestStreak", uint(1), 7).Return(false, nil)

	result, err := svc.SaveStreak(1, 7, "")

	require.NoError(t, err)
	assert.False(t, result.IsNewRecord, "Если условный UPDATE ничего не изменил, рекорда нет")
}

func TestStreakService_SaveStreak_Validation(t *testing.T) {
	svc := newTestStreakService(new(MockUserRepository), new(MockStreakRepository), nil, nil)

	_, err := svc.SaveStreak(1, -1, "x")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	long := make([]byte, 51)
	for i := range long {
		long[i] = 'a'
	}
	_, err = svc.SaveStreak(1, 1, string(long))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestStreakService_SaveStreak_UnknownUser(t *testing.T) {
	userRepo := new(MockUserRepository)
	streakRepo := new(MockStreakRepository)
	svc := newTestStreakService(userRepo, streakRepo, nil, nil)
	userRepo.On("GetByID", uint(99)).Return(nil, apperrors.ErrNotFound)

	_, err := svc.SaveStreak(99, 3, "x")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	streakRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestStreakService_GetUserStreakHistory(t *testing.T) {
	// Arrange
	userRepo := new(MockUserRepository)
	streakRepo := new(MockStreakRepository)
	svc := newTestStreakService(userRepo, streakRepo, nil, nil)

	playedAt := time.Date(2024, 3, 9, 18, 30, 5, 0, time.UTC)
	streakRepo.On("GetByUserID", uint(3), 20, 20).Return([]entity.Streak{
		{ID: 10, UserID: 3, StreakCount: 4, Category: "sports", PlayedAt: playedAt},
	}, nil)
	streakRepo.On("CountByUserID", uint(3)).Return(int64(21), nil)

	// Act
	resp, err := svc.GetUserStreakHistory(3, 2, 0)

	// Assert
	require.NoError(t, err)
	require.Len(t, resp.Streaks, 1)
	assert.Equal(t, "2024-03-09T18:30:05", resp.Streaks[0].PlayedAt)
	assert.Equal(t, int64(21), resp.Total)
	assert.Equal(t, 2, resp.Page)
	assert.Equal(t, 20, resp.PerPage)
}

func TestStreakService_GetLeaderboard_RanksAndClamps(t *testing.T) {
	// Arrange
	userRepo := new(MockUserRepository)
	svc := newTestStreakService(userRepo, new(MockStreakRepository), nil, nil)
	userRepo.On("GetTopByHighestStreak", 100, 20).Return([]entity.User{
		{ID: 7, Username: "alice", HighestStreak: 30},
		{ID: 2, Username: "bob", HighestStreak: 25},
	}, int64(22), nil)

	// Act
	resp, err := svc.GetLeaderboard(500, 20)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 100, resp.Limit, "Лимит должен ограничиваться сверху")
	require.Len(t, resp.Entries, 2)
	assert.Equal(t, 21, resp.Entries[0].Rank)
	assert.Equal(t, "alice", resp.Entries[0].Username)
	assert.Equal(t, 22, resp.Entries[1].Rank)
}

func TestStreakService_GetLeaderboard_DefaultLimit(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newTestStreakService(userRepo, new(MockStreakRepository), nil, nil)
	userRepo.On("GetTopByHighestStreak", 10, 0).Return([]entity.User{}, int64(0), nil)

	resp, err := svc.GetLeaderboard(0, -5)

	require.NoError(t, err)
	assert.Equal(t, 10, resp.Limit)
	assert.Equal(t, 0, resp.Offset)
}

func TestStreakService_GetLeaderboard_CacheHit(t *testing.T) {
	// Arrange
	userRepo := new(MockUserRepository)
	cache := new(MockCacheRepository)
	svc := newTestStreakService(userRepo, new(MockStreakRepository), cache, nil)

	cache.On("Get", leaderboardVersionKey).Return("3", nil)
	cache.On("GetJSON", "leaderboard:v3:10:0", mock.Anything).Run(func(args mock.Arguments) {
		dest := args.Get(1).(*dto.PaginatedLeaderboardResponse)
		dest.Total = 1
		dest.Limit = 10
		dest.Entries = []dto.LeaderboardEntryDTO{{Rank: 1, UserID: 1, Username: "cached", HighestStreak: 9}}
	}).Return(nil)

	// Act
	resp, err := svc.GetLeaderboard(10, 0)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "cached", resp.Entries[0].Username)
	userRepo.AssertNotCalled(t, "GetTopByHighestStreak", mock.Anything, mock.Anything)
}

func TestStreakService_GetLeaderboard_CacheFailureFallsThrough(t *testing.T) {
	// Arrange
	userRepo := new(MockUserRepository)
	cache := new(MockCacheRepository)
	svc := newTestStreakService(userRepo, new(MockStreakRepository), cache, nil)

	cache.On("Get", leaderboardVersionKey).Return("", errors.New("redis down"))
	userRepo.On("GetTopByHighestStreak", 10, 0).Return([]entity.User{{ID: 1, Username: "db", HighestStreak: 4}}, int64(1), nil)

	// Act
	resp, err := svc.GetLeaderboard(10, 0)

	// Assert
	require.NoError(t, err, "Сбой кеша не должен ломать лидерборд")
	assert.Equal(t, "db", resp.Entries[0].Username)
	cache.AssertNotCalled(t, "GetJSON", mock.Anything, mock.Anything)
	cache.AssertNotCalled(t, "SetJSON", mock.Anything, mock.Anything, mock.Anything)
}

func TestStreakService_GetLeaderboard_MissingVersionUsesZero(t *testing.T) {
	// Arrange
	userRepo := new(MockUserRepository)
	cache := new(MockCacheRepository)
	svc := newTestStreakService(userRepo, new(MockStreakRepository), cache, nil)

	cache.On("Get", leaderboardVersionKey).Return("", apperrors.ErrNotFound)
	cache.On("GetJSON", "leaderboard:v0:10:0", mock.Anything).Return(apperrors.ErrNotFound)
	cache.On("SetJSON", "leaderboard:v0:10:0", mock.Anything, time.Minute).Return(nil)
	userRepo.On("GetTopByHighestStreak", 10, 0).Return([]entity.User{{ID: 1, Username: "db", HighestStreak: 4}}, int64(1), nil)

	// Act
	resp, err := svc.GetLeaderboard(10, 0)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "db", resp.Entries[0].Username)
	cache.AssertExpectations(t)
}

func TestStreakService_GetHighestStreak(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newTestStreakService(userRepo, new(MockStreakRepository), nil, nil)
	userRepo.On("GetByID", uint(1)).Return(createTestUser(1, 12), nil)
	userRepo.On("GetByID", uint(2)).Return(nil, apperrors.ErrNotFound)

	highest, err := svc.GetHighestStreak(1)
	require.NoError(t, err)
	assert.Equal(t, 12, highest)

	highest, err = svc.GetHighestStreak(2)
	require.NoError(t, err, "Неизвестный пользователь даёт 0, а не ошибку")
	assert.Equal(t, 0, highest)
}

func TestStreakService_GetUserBestStreaks(t *testing.T) {
	streakRepo := new(MockStreakRepository)
	svc := newTestStreakService(new(MockUserRepository), streakRepo, nil, nil)
	streakRepo.On("GetTopByUserID", uint(1), 5).Return([]entity.Streak{
		{ID: 1, StreakCount: 9}, {ID: 2, StreakCount: 6},
	}, nil)

	best, err := svc.GetUserBestStreaks(1, 0)

	require.NoError(t, err)
	require.Len(t, best, 2)
	assert.Equal(t, 9, best[0].StreakCount)
}

func TestStreakService_ExportLeaderboard_PagesUntilShortPage(t *testing.T) {
	// Arrange
	userRepo := new(MockUserRepository)
	svc := NewStreakService(userRepo, new(MockStreakRepository), nil, nil, LeaderboardSettings{DefaultLimit: 2, MaxLimit: 2})
	userRepo.On("GetTopByHighestStreak", 2, 0).Return([]entity.User{
		{ID: 1, Username: "a", HighestStreak: 9},
		{ID: 2, Username: "b", HighestStreak: 8},
	}, int64(3), nil)
	userRepo.On("GetTopByHighestStreak", 2, 2).Return([]entity.User{
		{ID: 3, Username: "c", HighestStreak: 1},
	}, int64(3), nil)

	// Act
	entries, err := svc.ExportLeaderboard(0)

	// Assert
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, 3, entries[2].Rank, "Ранг должен продолжаться между страницами")
	userRepo.AssertExpectations(t)
}

func TestStreakService_ExportLeaderboard_RespectsMaxRows(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewStreakService(userRepo, new(MockStreakRepository), nil, nil, LeaderboardSettings{DefaultLimit: 2, MaxLimit: 2})
	userRepo.On("GetTopByHighestStreak", 2, 0).Return([]entity.User{
		{ID: 1, Username: "a", HighestStreak: 9},
		{ID: 2, Username: "b", HighestStreak: 8},
	}, int64(10), nil)

	entries, err := svc.ExportLeaderboard(1)

	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
