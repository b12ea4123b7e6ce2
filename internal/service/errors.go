package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrForbidden    = errors.New("forbidden: insufficient permissions")
	ErrUserNotFound = errors.New("user not found")
)

type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

type AuditEntry struct {
	UserID       uuid.UUID
	Action       string
	ResourceType string
	ResourceID   string
	IPAddress    string
	RequestID    string
	StatusCode   int
}
