package usecase

import "errors"

// ErrPersistence indicates an infrastructure/repository failure inside a use case
var ErrPersistence = errors.New("chat use case persistence error")

// ErrInvalidInput marks requests rejected before touching storage.
var ErrInvalidInput = errors.New("chat use case invalid input")
