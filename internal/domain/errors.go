package domain

import "errors"

// Domain errors
var (
	ErrInvalidTransaction   = errors.New("invalid transaction")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrDescriptionRequired  = errors.New("description is required")
	ErrDescriptionTooLong   = errors.New("description exceeds maximum length")
	ErrCategoryTooLong      = errors.New("category exceeds maximum length")
	ErrNoTransactions       = errors.New("no transactions recorded")
	ErrArtifactNotAvailable = errors.New("report artifact storage not configured")
)

// Validation constants
const (
	MaxDescriptionLength = 255
	MaxCategoryLength    = 100
)
