package merge

import "errors"

var (
	// ErrRecordInvalid indicates a record failed envelope validation and
	// was skipped. Per-record, recoverable.
	ErrRecordInvalid = errors.New("record failed validation")

	// ErrNoResults indicates a generate run produced no storable jobs.
	ErrNoResults = errors.New("no merge results generated")

	// ErrAborted indicates the operator declined the dispatch confirmation.
	ErrAborted = errors.New("dispatch aborted by operator")

	// ErrBackendRef indicates a Result was passed back to a storage backend
	// without the opaque reference set at load time.
	ErrBackendRef = errors.New("merge result has no storage backend reference")
)
