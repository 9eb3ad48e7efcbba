package entity

// Question представляет вопрос викторины, сгенерированный моделью или взятый из запасного банка.
// Вопросы не сохраняются в БД: они живут только в рамках одного ответа API.
type Question struct {
	Text         string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Category     string   `json:"category"`
}

// OptionsCount возвращает количество вариантов ответа
func (q *Question) OptionsCount() int {
	return len(q.Options)
}

// IsValidOption проверяет, является ли индекс допустимым для списка вариантов
func (q *Question) IsValidOption(selectedOption int) bool {
	return selectedOption >= 0 && selectedOption < len(q.Options)
}

// Clone возвращает глубокую копию вопроса
func (q *Question) Clone() *Question {
	options := make([]string, len(q.Options))
	copy(options, q.Options)
	return &Question{
		Text:         q.Text,
		Options:      options,
		CorrectIndex: q.CorrectIndex,
		Category:     q.Category,
	}
}
