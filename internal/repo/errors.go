package repo

import "errors"

// Общие ошибки репозитория.
var (
	// ErrNotFound: запись не найдена в БД.
	ErrNotFound = errors.New("not found")

	// ErrNotConfigured: не задан адрес БД.
	ErrNotConfigured = errors.New("database not configured")

	// ErrInvalidState: run ещё не завершён, а операция требует терминального статуса.
	ErrInvalidState = errors.New("invalid state")
)
