package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/streak-quiz-api/internal/config"
	"github.com/yourusername/streak-quiz-api/internal/handler"
	"github.com/yourusername/streak-quiz-api/internal/middleware"
	pgRepo "github.com/yourusername/streak-quiz-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/streak-quiz-api/internal/repository/redis"
	"github.com/yourusername/streak-quiz-api/internal/service"
	"github.com/yourusername/streak-quiz-api/internal/service/questiongen"
	ws "github.com/yourusername/streak-quiz-api/internal/websocket"
	"github.com/yourusername/streak-quiz-api/pkg/auth"
	"github.com/yourusername/streak-quiz-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db, cfg.Database.MigrationsPath); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	userRepo := pgRepo.NewUserRepo(db)
	streakRepo := pgRepo.NewStreakRepo(db)
	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs)
	if err != nil {
		log.Printf("Failed to initialize JWT service: %v", err)
		os.Exit(1)
	}

	// Лента рекордов: локальный хаб и ретранслятор между инстансами через Redis
	wsHub := ws.NewHub()
	go wsHub.Run(ctx)

	relay := ws.NewRedisRelay(redisClient, wsHub, "")
	if err := relay.Start(ctx); err != nil {
		log.Printf("Warning: Redis relay unavailable, live feed is local only: %v", err)
		relay = nil
	}
	wsManager := ws.NewManager(wsHub, relay)

	generator, err := questiongen.NewGeneratorFromConfig(ctx, questiongen.FromAppConfig(cfg.Gemini))
	if err != nil {
		log.Printf("Failed to initialize question generator: %v", err)
		os.Exit(1)
	}

	// Инициализируем сервисы
	authService := service.NewAuthService(userRepo, jwtService, int64(jwtService.Expiration().Seconds()))
	quizService := service.NewQuizService(generator)
	streakService := service.NewStreakService(userRepo, streakRepo, cacheRepo, wsManager, service.LeaderboardSettings{
		DefaultLimit: cfg.Leaderboard.DefaultLimit,
		MaxLimit:     cfg.Leaderboard.MaxLimit,
		CacheTTL:     cfg.Leaderboard.CacheTTL(),
	})
	log.Printf("Question generator mode: %s", quizService.Mode())

	allowedOrigins := mergeOrigins([]string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)

	// Инициализируем обработчики
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(authService)
	quizHandler := handler.NewQuizHandler(quizService)
	streakHandler := handler.NewStreakHandler(streakService)
	wsHandler := handler.NewWSHandler(wsHub, allowedOrigins)

	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	router := gin.Default()

	if gin.Mode() == gin.ReleaseMode {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "generator": quizService.Mode(), "ws_clients": wsHub.ClientCount()})
	})

	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		authGroup.Use(rateLimiter.Limit(middleware.AuthRateLimitConfig()))
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		users := api.Group("/users")
		{
			users.GET("/me", authMiddleware.RequireAuth(), userHandler.GetMe)
		}

		quiz := api.Group("/quiz")
		{
			generateLimit := rateLimiter.Limit(middleware.GenerateRateLimitConfig(cfg.RateLimit.GeneratePerMinute))
			quiz.POST("/generate", generateLimit, quizHandler.GenerateQuestion)
			quiz.POST("/generate/batch", generateLimit, quizHandler.GenerateBatch)
			quiz.GET("/status", quizHandler.GetStatus)
		}

		streaks := api.Group("/streaks")
		{
			streaks.POST("/save", authMiddleware.RequireAuth(), streakHandler.SaveStreak)
			streaks.GET("/leaderboard", streakHandler.GetLeaderboard)
			streaks.GET("/leaderboard/export", streakHandler.ExportLeaderboard)

			userIDParam := middleware.ExtractUintParam("userId", "userID")
			streaks.GET("/user/:userId", userIDParam, streakHandler.GetUserHistory)
			streaks.GET("/user/:userId/best", userIDParam, streakHandler.GetUserBest)
			streaks.GET("/highest/:userId", userIDParam, streakHandler.GetHighestStreak)
		}
	}

	router.GET("/ws/leaderboard", wsHandler.HandleLeaderboard)

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	// Останавливаем хаб и ретранслятор после HTTP сервера
	cancel()
	if relay != nil {
		relay.Stop()
	}
	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}

	log.Println("Server exited properly")
}

// mergeOrigins объединяет списки origin без дубликатов
func mergeOrigins(base, extra []string) []string {
	seen := make(map[string]struct{}, len(base)+len(extra))
	out := make([]string, 0, len(base)+len(extra))
	for _, list := range [][]string{base, extra} {
		for _, o := range list {
			if o == "" {
				continue
			}
			if _, ok := seen[o]; ok {
				continue
			}
			seen[o] = struct{}{}
			out = append(out, o)
		}
	}
	return out
}
