package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/pinmark/pinmark-backend/internal/apperr"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeInvalidText         = "22P02"
	codeCheckViolation      = "23514"
)

func pqCode(err error) string {
	var pgErr *pq.Error
	if errors.As(err, &pgErr) {
		return string(pgErr.Code)
	}
	return ""
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	return pqCode(err) == codeUniqueViolation
}

// Translate maps driver errors to apperr kinds. Unknown errors pass through unchanged.
// Malformed ids (invalid uuid text) are reported as not found.
func Translate(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, apperr.ErrNotFound)
	}
	switch pqCode(err) {
	case codeInvalidText:
		return fmt.Errorf("%s: %w", what, apperr.ErrNotFound)
	case codeUniqueViolation:
		return fmt.Errorf("%s already exists: %w", what, apperr.ErrConflict)
	case codeForeignKeyViolation:
		return fmt.Errorf("%s references a missing row: %w", what, apperr.ErrInvalidInput)
	case codeCheckViolation:
		return fmt.Errorf("%s violates a constraint: %w", what, apperr.ErrInvalidInput)
	}
	return err
}
