package interfaces

import "context"

//go:generate mockgen -source=sequence_repository_interface.go -destination=mocks/sequence_repository_mock.go

// ISequenceRepository reserves counter values for document numbering. Next increments the
// counter of scope atomically and returns the new value, starting at 1.
type ISequenceRepository interface {
	Next(ctx context.Context, scope string) (int64, error)
}
