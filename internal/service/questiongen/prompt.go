package questiongen

import "fmt"

const promptTemplate = `Generate a single multiple-choice trivia question about the category: %s.

Rules:
- The question must be at most 15 words.
- Provide exactly 4 answer options.
- Exactly one option is correct.
- Respond with JSON only, no markdown, no commentary.

Required JSON format:
{"question": "<question text>", "options": ["<option 1>", "<option 2>", "<option 3>", "<option 4>"], "correctIndex": <index of the correct option, 0-3>}

Example:
{"question": "What is the largest planet in our solar system?", "options": ["Earth", "Jupiter", "Saturn", "Mars"], "correctIndex": 1}`

// BuildPrompt формирует инструкцию для модели. Категория подставляется как есть, без проверки.
func BuildPrompt(category string) string {
	return fmt.Sprintf(promptTemplate, category)
}
