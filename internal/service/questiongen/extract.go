package questiongen

import (
	"encoding/json"
	"strings"

	"google.golang.org/genai"
)

// blockedFinishReasons - причины завершения, при которых текст модели не выдаётся
var blockedFinishReasons = map[genai.FinishReason]bool{
	genai.FinishReasonSafety:            true,
	genai.FinishReasonRecitation:        true,
	genai.FinishReasonOther:             true,
	genai.FinishReasonProhibitedContent: true,
}

// ExtractText достаёт текст первого кандидата из конверта ответа.
// Заблокированный ответ возвращается как *ContentFilteredError, прочие проблемы как *MalformedEnvelopeError.
func ExtractText(raw []byte) (string, error) {
	snippet := truncate(string(raw), maxSnippetLen)

	var envelope generateContentResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return "", &MalformedEnvelopeError{MissingField: "envelope", Raw: snippet, Err: err}
	}
	if len(envelope.Candidates) == 0 {
		return "", &MalformedEnvelopeError{MissingField: "candidates", Raw: snippet}
	}

	first := envelope.Candidates[0]
	if blockedFinishReasons[first.FinishReason] {
		return "", &ContentFilteredError{Reason: string(first.FinishReason)}
	}
	if first.Content == nil {
		return "", &MalformedEnvelopeError{MissingField: "content", Raw: snippet}
	}
	if len(first.Content.Parts) == 0 {
		return "", &MalformedEnvelopeError{MissingField: "content.parts", Raw: snippet}
	}

	text := first.Content.Parts[0].Text
	if text == nil || strings.TrimSpace(*text) == "" {
		return "", &MalformedEnvelopeError{MissingField: "content.parts[0].text", Raw: snippet}
	}
	return *text, nil
}
