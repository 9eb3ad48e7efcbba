package handler

import (
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/streak-quiz-api/internal/handler/dto"
	"github.com/yourusername/streak-quiz-api/internal/middleware"
	"github.com/yourusername/streak-quiz-api/internal/service"
)

// StreakHandler обрабатывает запросы серий и лидерборда
type StreakHandler struct {
	streakService *service.StreakService
}

// NewStreakHandler создает новый обработчик серий
func NewStreakHandler(streakService *service.StreakService) *StreakHandler {
	return &StreakHandler{streakService: streakService}
}

// SaveStreakRequest - результат сыгранной серии
type SaveStreakRequest struct {
	UserID      uint   `json:"userId" binding:"required"`
	StreakCount *int   `json:"streakCount" binding:"required,min=0"`
	Category    string `json:"category" binding:"max=50"`
}

// SaveStreak сохраняет серию. Игрок может записать серию только себе.
func (h *StreakHandler) SaveStreak(c *gin.Context) {
	var req SaveStreakRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	authUserID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	if authUserID != req.UserID {
		log.Printf("[StreakHandler] Пользователь ID=%d пытался сохранить серию за ID=%d", authUserID, req.UserID)
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot save a streak for another user"})
		return
	}

	result, err := h.streakService.SaveStreak(req.UserID, *req.StreakCount, req.Category)
	if err != nil {
		handleServiceError(c, "StreakHandler", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetUserHistory возвращает историю серий пользователя
func (h *StreakHandler) GetUserHistory(c *gin.Context) {
	userID := c.MustGet("userID").(uint)
	page := middleware.QueryInt(c, "page", 1)
	pageSize := middleware.QueryInt(c, "page_size", 0)

	resp, err := h.streakService.GetUserStreakHistory(userID, page, pageSize)
	if err != nil {
		handleServiceError(c, "StreakHandler", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetUserBest возвращает лучшие серии пользователя
func (h *StreakHandler) GetUserBest(c *gin.Context) {
	userID := c.MustGet("userID").(uint)
	limit := middleware.QueryInt(c, "limit", 0)

	items, err := h.streakService.GetUserBestStreaks(userID, limit)
	if err != nil {
		handleServiceError(c, "StreakHandler", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetLeaderboard возвращает страницу лидерборда
func (h *StreakHandler) GetLeaderboard(c *gin.Context) {
	limit := middleware.QueryInt(c, "limit", 0)
	offset := middleware.QueryInt(c, "offset", 0)

	resp, err := h.streakService.GetLeaderboard(limit, offset)
	if err != nil {
		handleServiceError(c, "StreakHandler", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetHighestStreak возвращает рекорд пользователя голым числом
func (h *StreakHandler) GetHighestStreak(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	highest, err := h.streakService.GetHighestStreak(userID)
	if err != nil {
		handleServiceError(c, "StreakHandler", err)
		return
	}
	c.JSON(http.StatusOK, highest)
}

// ExportLeaderboard выгружает лидерборд в CSV или Excel
// GET /api/streaks/leaderboard/export?format=csv|xlsx
func (h *StreakHandler) ExportLeaderboard(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "xlsx" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv or xlsx"})
		return
	}

	entries, err := h.streakService.ExportLeaderboard(0)
	if err != nil {
		handleServiceError(c, "StreakHandler", err)
		return
	}

	filename := fmt.Sprintf("leaderboard_%s", time.Now().Format("2006-01-02"))
	if format == "xlsx" {
		h.exportXLSX(c, entries, filename)
		return
	}
	h.exportCSV(c, entries, filename)
}

var leaderboardHeaders = []string{"Место", "ID", "Игрок", "Рекорд"}

func (h *StreakHandler) exportCSV(c *gin.Context, entries []dto.LeaderboardEntryDTO, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	// BOM для корректного отображения UTF-8 в Excel
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(leaderboardHeaders)
	for _, e := range entries {
		writer.Write([]string{
			strconv.Itoa(e.Rank),
			strconv.FormatUint(uint64(e.UserID), 10),
			sanitizeForExcel(e.Username),
			strconv.Itoa(e.HighestStreak),
		})
	}
}

// exportXLSX пишет файл через StreamWriter, чтобы не держать всю таблицу в памяти
func (h *StreakHandler) exportXLSX(c *gin.Context, entries []dto.LeaderboardEntryDTO, filename string) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Лидерборд"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[StreakHandler] Ошибка создания StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	headers := make([]interface{}, len(leaderboardHeaders))
	for i, v := range leaderboardHeaders {
		headers[i] = v
	}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[StreakHandler] Ошибка записи заголовков: %v", err)
	}

	for i, e := range entries {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{e.Rank, e.UserID, sanitizeForExcel(e.Username), e.HighestStreak}
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[StreakHandler] Ошибка записи строки %d: %v", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[StreakHandler] Ошибка при Flush: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))
	if err := f.Write(c.Writer); err != nil {
		log.Printf("[StreakHandler] Ошибка записи Excel в response: %v", err)
	}
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}
