package models

import (
	"errors"
)

var (
	ErrNoRecord           = errors.New("models: no matching record found")
	ErrInvalidCredentials = errors.New("models: invalid credentials")
	ErrDuplicateEmail     = errors.New("models: duplicate email")
	ErrUserNotFound       = errors.New("models: user not found")
	ErrSectionNotFound    = errors.New("section not found")
	ErrKnowledgeNotFound  = errors.New("knowledge not found")
	ErrSessionNotFound    = errors.New("search session not found")
	ErrInvalidLocation    = errors.New("invalid coordinates")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidInput       = errors.New("invalid input")
)
