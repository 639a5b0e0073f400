package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a command references an unknown session.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionEnded is returned when a command arrives after the session reached its terminal state.
	ErrSessionEnded = errors.New("session already ended")
	// ErrEmptyQuestionPool indicates a session cannot start because no questions are available.
	ErrEmptyQuestionPool = errors.New("question pool is empty")
	// ErrInvalidConfig indicates the session setup failed validation.
	ErrInvalidConfig = errors.New("invalid session configuration")
	// ErrQuestionBankNotFound indicates the backing store has no bank for the requested key.
	ErrQuestionBankNotFound = errors.New("question bank not found")
)
