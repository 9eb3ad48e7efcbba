package questiongen

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/yourusername/streak-quiz-api/internal/domain/entity"
)

const questionSchemaURL = "schema://question.json"

// questionSchema описывает форму ответа модели. correctIndex проверяется как number,
// выход за границы исправляется, а не отклоняется.
const questionSchema = `{
	"type": "object",
	"required": ["question", "options", "correctIndex"],
	"properties": {
		"question": {"type": "string", "minLength": 1, "pattern": "\\S"},
		"options": {"type": "array", "minItems": 2},
		"correctIndex": {"type": "number"}
	}
}`

var (
	compiledSchemaOnce sync.Once
	compiledSchema     *jsonschema.Schema
	compiledSchemaErr  error
)

func getQuestionSchema() (*jsonschema.Schema, error) {
	compiledSchemaOnce.Do(func() {
		var doc any
		if err := json.Unmarshal([]byte(questionSchema), &doc); err != nil {
			compiledSchemaErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(questionSchemaURL, doc); err != nil {
			compiledSchemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compiledSchemaErr = c.Compile(questionSchemaURL)
	})
	return compiledSchema, compiledSchemaErr
}

// ValidateQuestion разбирает JSON-кандидат и собирает из него Question.
// Единственное исправление: дробный correctIndex усекается, индекс вне диапазона заменяется на 0.
func ValidateQuestion(candidate string, category string) (*entity.Question, error) {
	payload := truncate(candidate, maxSnippetLen)

	var parsed any
	if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
		return nil, &SchemaError{Reason: "payload is not valid JSON", Payload: payload, Err: err}
	}
	obj, ok := parsed.(map[string]any)
	if !ok {
		return nil, &SchemaError{Reason: "payload is not a JSON object", Payload: payload}
	}

	schema, err := getQuestionSchema()
	if err != nil {
		return nil, &SchemaError{Reason: "schema unavailable", Payload: payload, Err: err}
	}
	if err := schema.Validate(parsed); err != nil {
		// Схема говорит "что-то не так", describeViolation называет конкретное поле
		field, reason := describeViolation(obj)
		if reason == "" {
			reason = "does not match question schema"
		}
		return nil, &SchemaError{Field: field, Reason: reason, Payload: payload, Err: err}
	}

	text := obj["question"].(string)
	rawOptions := obj["options"].([]any)
	options := make([]string, len(rawOptions))
	for i, opt := range rawOptions {
		options[i] = optionString(opt)
	}

	q := &entity.Question{
		Text:     text,
		Options:  options,
		Category: category,
	}
	q.CorrectIndex = repairIndex(q, obj["correctIndex"].(float64))
	return q, nil
}

// describeViolation возвращает первое нарушенное правило в порядке полей
func describeViolation(obj map[string]any) (string, string) {
	questionVal, ok := obj["question"]
	if !ok {
		return "question", "is missing"
	}
	text, ok := questionVal.(string)
	if !ok {
		return "question", "must be a string"
	}
	if text == "" {
		return "question", "must not be empty"
	}
	if strings.TrimSpace(text) == "" {
		return "question", "must not be blank"
	}

	optionsVal, ok := obj["options"]
	if !ok {
		return "options", "is missing"
	}

	indexVal, ok := obj["correctIndex"]
	if !ok {
		return "correctIndex", "is missing"
	}
	if _, ok := indexVal.(float64); !ok {
		return "correctIndex", "must be a number"
	}

	options, ok := optionsVal.([]any)
	if !ok {
		return "options", "must be an array"
	}
	if len(options) < 2 {
		return "options", fmt.Sprintf("must contain at least 2 elements, got %d", len(options))
	}
	return "", ""
}

// repairIndex отбрасывает дробную часть индекса, вне диапазона вариантов возвращает 0
func repairIndex(q *entity.Question, raw float64) int {
	index := math.Trunc(raw)
	if index >= float64(q.OptionsCount()) {
		return 0
	}
	if i := int(index); q.IsValidOption(i) {
		return i
	}
	return 0
}

// optionString приводит элемент массива options к строке: строки как есть, остальное в виде JSON-текста
func optionString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case nil:
		return "null"
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}
