package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется для ошибок авторизации (неверный токен, неверные учётные данные).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden используется, когда пользователь пытается действовать от чужого имени.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation используется для ошибок валидации входных данных.
	ErrValidation = errors.New("validation failed")

	// ErrConflict используется для конфликтов состояния, например занятого имени пользователя.
	ErrConflict = errors.New("resource state conflict")
)
