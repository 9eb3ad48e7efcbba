package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/streak-quiz-api/internal/domain/entity"
	"github.com/yourusername/streak-quiz-api/internal/middleware"
	apperrors "github.com/yourusername/streak-quiz-api/internal/pkg/errors"
	"github.com/yourusername/streak-quiz-api/internal/service"
	"github.com/yourusername/streak-quiz-api/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// memUserRepo - репозиторий пользователей в памяти
type memUserRepo struct {
	mu    sync.Mutex
	users map[uint]*entity.User
	next  uint
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[uint]*entity.User{}, next: 1}
}

func (r *memUserRepo) Create(user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := user.BeforeSave(nil); err != nil {
		return err
	}
	user.ID = r.next
	r.next++
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *memUserRepo) GetByID(id uint) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *memUserRepo) GetByUsername(username string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *memUserRepo) ExistsByUsername(username string) (bool, error) {
	_, err := r.GetByUsername(username)
	return err == nil, nil
}

func (r *memUserRepo) UpdateHighestStreak(userID uint, streak int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok || u.HighestStreak >= streak {
		return false, nil
	}
	u.HighestStreak = streak
	return true, nil
}

func (r *memUserRepo) IncrementGamesPlayed(userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userID]; ok {
		u.GamesPlayed++
	}
	return nil
}

func (r *memUserRepo) GetTopByHighestStreak(limit, offset int) ([]entity.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]entity.User, 0, len(r.users))
	for _, u := range r.users {
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].HighestStreak != all[j].HighestStreak {
			return all[i].HighestStreak > all[j].HighestStreak
		}
		return all[i].ID < all[j].ID
	})
	total := int64(len(all))
	if offset >= len(all) {
		return []entity.User{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

// memStreakRepo - история серий в памяти
type memStreakRepo struct {
	mu      sync.Mutex
	streaks []entity.Streak
}

func (r *memStreakRepo) Create(streak *entity.Streak) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	streak.ID = uint(len(r.streaks) + 1)
	streak.BeforeCreate(nil)
	r.streaks = append(r.streaks, *streak)
	return nil
}

func (r *memStreakRepo) byUser(userID uint) []entity.Streak {
	var out []entity.Streak
	for _, s := range r.streaks {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out
}

func (r *memStreakRepo) GetByUserID(userID uint, limit, offset int) ([]entity.Streak, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.byUser(userID)
	// новые первыми: ID растёт вместе со временем вставки
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	return page(list, limit, offset), nil
}

func (r *memStreakRepo) GetTopByUserID(userID uint, limit int) ([]entity.Streak, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.byUser(userID)
	sort.Slice(list, func(i, j int) bool { return list[i].StreakCount > list[j].StreakCount })
	return page(list, limit, 0), nil
}

func (r *memStreakRepo) CountByUserID(userID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.byUser(userID))), nil
}

func page(list []entity.Streak, limit, offset int) []entity.Streak {
	if offset >= len(list) {
		return []entity.Streak{}
	}
	end := offset + limit
	if end > len(list) {
		end = len(list)
	}
	return list[offset:end]
}

// stubGenerator всегда отдаёт один и тот же вопрос
type stubGenerator struct{}

func (stubGenerator) Generate(ctx context.Context, category string) *entity.Question {
	return &entity.Question{
		Text:         "What is 2+2?",
		Options:      []string{"3", "4", "5", "6"},
		CorrectIndex: 1,
		Category:     category,
	}
}

func (stubGenerator) LiveMode() bool { return false }

type testEnv struct {
	router *gin.Engine
	users  *memUserRepo
	jwt    *auth.JWTService
}

// newTestEnv собирает маршруты так же, как cmd/api, но без Postgres и Redis
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	users := newMemUserRepo()
	streaks := &memStreakRepo{}
	jwtService, err := auth.NewJWTService("test-secret", 1)
	require.NoError(t, err)

	authService := service.NewAuthService(users, jwtService, 3600)
	streakService := service.NewStreakService(users, streaks, nil, nil, service.LeaderboardSettings{DefaultLimit: 10, MaxLimit: 100})
	quizService := service.NewQuizService(stubGenerator{})

	authHandler := NewAuthHandler(authService)
	userHandler := NewUserHandler(authService)
	quizHandler := NewQuizHandler(quizService)
	streakHandler := NewStreakHandler(streakService)
	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/users/me", authMiddleware.RequireAuth(), userHandler.GetMe)
	api.POST("/quiz/generate", quizHandler.GenerateQuestion)
	api.POST("/quiz/generate/batch", quizHandler.GenerateBatch)
	api.GET("/quiz/status", quizHandler.GetStatus)

	userIDParam := middleware.ExtractUintParam("userId", "userID")
	api.POST("/streaks/save", authMiddleware.RequireAuth(), streakHandler.SaveStreak)
	api.GET("/streaks/leaderboard", streakHandler.GetLeaderboard)
	api.GET("/streaks/leaderboard/export", streakHandler.ExportLeaderboard)
	api.GET("/streaks/user/:userId", userIDParam, streakHandler.GetUserHistory)
	api.GET("/streaks/user/:userId/best", userIDParam, streakHandler.GetUserBest)
	api.GET("/streaks/highest/:userId", userIDParam, streakHandler.GetHighestStreak)

	return &testEnv{router: r, users: users, jwt: jwtService}
}

func (e *testEnv) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// register создаёт пользователя и возвращает его ID и токен
func (e *testEnv) register(t *testing.T, username string) (uint, string) {
	t.Helper()
	w := e.do(http.MethodPost, "/api/auth/register", map[string]string{"username": username, "password": "secret123"}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		User struct {
			ID uint `json:"id"`
		} `json:"user"`
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.User.ID, resp.AccessToken
}

// parseJSONResponse парсит JSON ответ из *httptest.ResponseRecorder
func parseJSONResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "Response body should be valid JSON: %s", w.Body.String())
	return resp
}
