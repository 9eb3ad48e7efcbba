package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/streak-quiz-api/internal/handler/dto"
	"github.com/yourusername/streak-quiz-api/internal/service"
)

// QuizHandler выдаёт сгенерированные вопросы
type QuizHandler struct {
	quizService *service.QuizService
}

// NewQuizHandler создает новый обработчик вопросов
func NewQuizHandler(quizService *service.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

// GenerateQuestionRequest - запрос одного вопроса
type GenerateQuestionRequest struct {
	Category string `json:"category" binding:"required,max=100"`
}

// GenerateBatchRequest - запрос пакета вопросов
type GenerateBatchRequest struct {
	Category string `json:"category" binding:"required,max=100"`
	Count    int    `json:"count" binding:"required,min=1,max=10"`
}

// GenerateQuestion возвращает один вопрос по категории.
// Сбой модели не превращается в ошибку: клиент получает вопрос из банка.
func (h *QuizHandler) GenerateQuestion(c *gin.Context) {
	var req GenerateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	question, err := h.quizService.GenerateQuestion(c.Request.Context(), req.Category)
	if err != nil {
		handleServiceError(c, "QuizHandler", err)
		return
	}
	c.JSON(http.StatusOK, question)
}

// GenerateBatch возвращает несколько вопросов одной категории
func (h *QuizHandler) GenerateBatch(c *gin.Context) {
	var req GenerateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	questions, err := h.quizService.GenerateBatch(c.Request.Context(), req.Category, req.Count)
	if err != nil {
		if c.Request.Context().Err() != nil {
			log.Printf("[QuizHandler] Клиент отменил пакетную генерацию: %v", err)
		}
		handleServiceError(c, "QuizHandler", err)
		return
	}
	c.JSON(http.StatusOK, dto.BatchQuestionsResponse{Category: req.Category, Questions: questions})
}

// GetStatus сообщает режим генератора
func (h *QuizHandler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, dto.GeneratorStatusResponse{Mode: h.quizService.Mode()})
}
