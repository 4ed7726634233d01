package interfaces

import (
	"context"

	"invoice_management/internal/domain/entities"
)

//go:generate mockgen -source=event_publisher_interface.go -destination=mocks/event_publisher_mock.go

// IEventPublisher delivers domain events after a successful commit.
type IEventPublisher interface {
	Publish(ctx context.Context, event entities.DomainEvent) error
}
