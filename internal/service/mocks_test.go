package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/yourusername/streak-quiz-api/internal/domain/entity"
)

// ============================================================================
// Моки репозиториев и зависимостей сервисов
// ============================================================================

// MockUserRepository реализует repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id uint) (*entity.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(username string) (*entity.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(username string) (bool, error) {
	args := m.Called(username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) UpdateHighestStreak(userID uint, streak int) (bool, error) {
	args := m.Called(userID, streak)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) IncrementGamesPlayed(userID uint) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockUserRepository) GetTopByHighestStreak(limit, offset int) ([]entity.User, int64, error) {
	args := m.Called(limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]entity.User), args.Get(1).(int64), args.Error(2)
}

// MockStreakRepository реализует repository.StreakRepository
type MockStreakRepository struct {
	mock.Mock
}

func (m *MockStreakRepository) Create(streak *entity.Streak) error {
	args := m.Called(streak)
	return args.Error(0)
}

func (m *MockStreakRepository) GetByUserID(userID uint, limit, offset int) ([]entity.Streak, error) {
	args := m.Called(userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Streak), args.Error(1)
}

func (m *MockStreakRepository) GetTopByUserID(userID uint, limit int) ([]entity.Streak, error) {
	args := m.Called(userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Streak), args.Error(1)
}

func (m *MockStreakRepository) CountByUserID(userID uint) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

// MockCacheRepository реализует repository.CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(key string) (string, error) {
	args := m.Called(key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheRepository) Increment(key string) (int64, error) {
	args := m.Called(key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCacheRepository) SetJSON(key string, value interface{}, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}

func (m *MockCacheRepository) GetJSON(key string, dest interface{}) error {
	return m.Called(key, dest).Error(0)
}

func (m *MockCacheRepository) SetNX(key string, value interface{}, expiration time.Duration) (bool, error) {
	args := m.Called(key, value, expiration)
	return args.Bool(0), args.Error(1)
}

// MockBroadcaster реализует EventBroadcaster
type MockBroadcaster struct {
	mock.Mock
}

func (m *MockBroadcaster) BroadcastEvent(eventType string, data interface{}) error {
	return m.Called(eventType, data).Error(0)
}

// MockTokenIssuer реализует TokenIssuer
type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) GenerateToken(user *entity.User) (string, error) {
	args := m.Called(user)
	return args.String(0), args.Error(1)
}

// MockGenerator реализует QuestionGenerator
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, category string) *entity.Question {
	args := m.Called(ctx, category)
	return args.Get(0).(*entity.Question)
}

func (m *MockGenerator) LiveMode() bool {
	return m.Called().Bool(0)
}
