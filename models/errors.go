package models

import "errors"

// Sentinel errors for the models package.
var (
	ErrModelNotFound  = errors.New("model not found")
	ErrModelExists    = errors.New("model already registered")
	ErrEmptyModelName = errors.New("model name is empty")
	ErrNilModel       = errors.New("model is nil")
	ErrBadInput       = errors.New("chat input must be a string, message, or message list")
	ErrBadFieldValue  = errors.New("bad field value")
	ErrUnknownField   = errors.New("unknown field")
)
