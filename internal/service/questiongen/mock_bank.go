package questiongen

import (
	"strings"

	"github.com/yourusername/streak-quiz-api/internal/domain/entity"
)

// mockQuestions - запасные вопросы по ключу категории в нижнем регистре
var mockQuestions = map[string]entity.Question{
	"science": {
		Text:    "What is the chemical symbol for water?",
		Options: []string{"H2O", "CO2", "O2", "N2"},
	},
	"history": {
		Text:         "In which year did World War II end?",
		Options:      []string{"1944", "1945", "1946", "1947"},
		CorrectIndex: 1,
	},
	"sports": {
		Text:         "How many players are on a basketball team?",
		Options:      []string{"4", "5", "6", "7"},
		CorrectIndex: 1,
	},
	"geography": {
		Text:         "What is the capital of France?",
		Options:      []string{"London", "Berlin", "Paris", "Madrid"},
		CorrectIndex: 2,
	},
	"mathematics": {
		Text:         "What is 15 + 27?",
		Options:      []string{"40", "41", "42", "43"},
		CorrectIndex: 2,
	},
	"entertainment": {
		Text:         "Who directed the movie 'Inception'?",
		Options:      []string{"Steven Spielberg", "Christopher Nolan", "Martin Scorsese", "Quentin Tarantino"},
		CorrectIndex: 1,
	},
	"literature": {
		Text:         "Who wrote 'To Kill a Mockingbird'?",
		Options:      []string{"Mark Twain", "Harper Lee", "Ernest Hemingway", "F. Scott Fitzgerald"},
		CorrectIndex: 1,
	},
	"technology": technologyQuestion,
	"technical":  technologyQuestion,
}

var technologyQuestion = entity.Question{
	Text:    "What does CPU stand for?",
	Options: []string{"Central Processing Unit", "Computer Processing Unit", "Central Program Unit", "Computer Program Unit"},
}

var defaultMockQuestion = entity.Question{
	Text:    "What is the answer to this test question?",
	Options: []string{"Option A", "Option B", "Option C", "Option D"},
}

// MockQuestion возвращает детерминированный вопрос для категории.
// Каждый вызов отдаёт новую копию, Category совпадает с переданной строкой.
func MockQuestion(category string) *entity.Question {
	template, ok := mockQuestions[strings.ToLower(category)]
	if !ok {
		template = defaultMockQuestion
	}
	q := template.Clone()
	q.Category = category
	return q
}
