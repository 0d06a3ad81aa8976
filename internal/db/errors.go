package db

import "errors"

// Domain-level database error sentinels.
var (
	ErrEmptyBlobName = errors.New("blob name is required")
)
