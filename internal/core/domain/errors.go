package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMalformedEntry indicates a dimension, metric or property entry that
	// is neither a bare name nor an object carrying a string name.
	ErrMalformedEntry = errors.New("malformed entry")

	// ErrUnsupportedType indicates an unknown source, backend or tagging scheme.
	ErrUnsupportedType = errors.New("unsupported type")

	// Index Errors.

	// ErrIndexNotFound indicates the named index does not exist.
	ErrIndexNotFound = errors.New("index not found")

	// ErrIndexAlreadyExists indicates an index with that name already exists.
	ErrIndexAlreadyExists = errors.New("index already exists")

	// ErrFieldLimitExceeded indicates a document would push an index past
	// its configured total field limit.
	ErrFieldLimitExceeded = errors.New("total fields limit exceeded")

	// ErrRebuildInProgress indicates a rebuild is already running.
	ErrRebuildInProgress = errors.New("rebuild in progress")

	// ErrSearchUnavailable indicates no index reader is configured.
	ErrSearchUnavailable = errors.New("search unavailable")
)
