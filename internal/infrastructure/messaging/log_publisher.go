package messaging

import (
	"context"

	"invoice_management/internal/domain/entities"
	"invoice_management/internal/logger"
	"invoice_management/internal/usecase/interfaces"

	"github.com/rs/zerolog"
)

// LogPublisher records events in the application log. It is used when no brokers are configured.
type LogPublisher struct {
	log zerolog.Logger
}

var _ interfaces.IEventPublisher = (*LogPublisher)(nil)

func NewLogPublisher() *LogPublisher {
	return &LogPublisher{log: logger.WithComponent("event_publisher")}
}

func (p *LogPublisher) Publish(_ context.Context, event entities.DomainEvent) error {
	p.log.Info().
		Str("event_id", event.ID).
		Str("event_type", event.Type).
		Str("owner_id", event.OwnerID).
		Str("aggregate_id", event.AggregateID).
		Int("data_fields", len(event.Data)).
		Msg("event published")
	return nil
}
