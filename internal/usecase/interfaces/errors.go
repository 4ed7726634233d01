package interfaces

import "errors"

// Store level conflicts. Repositories return these so use cases can tell a uniqueness or
// concurrency conflict apart from an unreachable store.
var (
	ErrDuplicateNumber      = errors.New("document number already exists")
	ErrQuoteAlreadyInvoiced = errors.New("quote is already referenced by an invoice")
	ErrVersionConflict      = errors.New("document was modified concurrently")
	ErrReferenced           = errors.New("record is still referenced")
)
