package questiongen

import (
	"errors"
	"fmt"
)

// ErrNoJSONObject возвращается, когда в ответе модели нет фигурных скобок объекта
var ErrNoJSONObject = errors.New("no JSON object found in model output")

// TransportError описывает сбой обращения к API модели: сеть, таймаут или не-2xx статус
type TransportError struct {
	StatusCode int // 0, если ответа не было
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("completion request failed with status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("completion request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ContentFilteredError означает, что модель отказалась отвечать по соображениям безопасности
type ContentFilteredError struct {
	Reason string
}

func (e *ContentFilteredError) Error() string {
	return fmt.Sprintf("model output blocked, finish reason %s", e.Reason)
}

// MalformedEnvelopeError означает, что конверт ответа не содержит ожидаемого поля
type MalformedEnvelopeError struct {
	MissingField string
	Raw          string
	Err          error
}

func (e *MalformedEnvelopeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed response envelope (%s): %v", e.MissingField, e.Err)
	}
	return fmt.Sprintf("malformed response envelope: missing %s", e.MissingField)
}

func (e *MalformedEnvelopeError) Unwrap() error { return e.Err }

// NoJSONObjectError хранит исходный текст, в котором не нашлось объекта
type NoJSONObjectError struct {
	Text string
}

func (e *NoJSONObjectError) Error() string { return ErrNoJSONObject.Error() }

func (e *NoJSONObjectError) Unwrap() error { return ErrNoJSONObject }

// SchemaError описывает несоответствие кандидата форме вопроса
type SchemaError struct {
	Field   string
	Reason  string
	Payload string
	Err     error
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid question payload: %s", e.Reason)
	}
	return fmt.Sprintf("invalid question payload: %s %s", e.Field, e.Reason)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// ErrorKind перечисляет виды сбоев конвейера генерации
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindTransport
	KindContentFiltered
	KindMalformedEnvelope
	KindNoJSONObject
	KindSchema
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindContentFiltered:
		return "content_filtered"
	case KindMalformedEnvelope:
		return "malformed_envelope"
	case KindNoJSONObject:
		return "no_json_object"
	case KindSchema:
		return "schema"
	default:
		return "unknown"
	}
}

// Classify определяет вид ошибки конвейера
func Classify(err error) ErrorKind {
	var (
		transportErr *TransportError
		filteredErr  *ContentFilteredError
		envelopeErr  *MalformedEnvelopeError
		noJSONErr    *NoJSONObjectError
		schemaErr    *SchemaError
	)
	switch {
	case err == nil:
		return KindUnknown
	case errors.As(err, &filteredErr):
		return KindContentFiltered
	case errors.As(err, &envelopeErr):
		return KindMalformedEnvelope
	case errors.As(err, &noJSONErr), errors.Is(err, ErrNoJSONObject):
		return KindNoJSONObject
	case errors.As(err, &schemaErr):
		return KindSchema
	case errors.As(err, &transportErr):
		return KindTransport
	default:
		return KindUnknown
	}
}

// rawSnippet достаёт сырой фрагмент ответа из ошибки для лога
func rawSnippet(err error) string {
	var (
		transportErr *TransportError
		envelopeErr  *MalformedEnvelopeError
		noJSONErr    *NoJSONObjectError
		schemaErr    *SchemaError
	)
	var raw string
	switch {
	case errors.As(err, &envelopeErr):
		raw = envelopeErr.Raw
	case errors.As(err, &noJSONErr):
		raw = noJSONErr.Text
	case errors.As(err, &schemaErr):
		raw = schemaErr.Payload
	case errors.As(err, &transportErr):
		raw = transportErr.Body
	}
	return truncate(raw, maxSnippetLen)
}

const maxSnippetLen = 200

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
