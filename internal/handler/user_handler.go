package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/streak-quiz-api/internal/handler/dto"
	"github.com/yourusername/streak-quiz-api/internal/middleware"
	"github.com/yourusername/streak-quiz-api/internal/service"
)

// UserHandler обрабатывает запросы, связанные с пользователями
type UserHandler struct {
	authService *service.AuthService
}

// NewUserHandler создает новый обработчик пользователей
func NewUserHandler(authService *service.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

// GetMe возвращает профиль текущего пользователя
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user, err := h.authService.GetUserByID(userID)
	if err != nil {
		handleServiceError(c, "UserHandler", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserDTO(user))
}
