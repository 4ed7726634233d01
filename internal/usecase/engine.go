package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"invoice_management/internal/domain/entities"
	"invoice_management/internal/domain/numbering"
	"invoice_management/internal/domain/pricing"
	"invoice_management/internal/usecase/interfaces"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// maxNumberAttempts bounds how often a unit of work is replayed after losing a document
// number race to a concurrent insert.
const maxNumberAttempts = 3

// engine carries what every use case shares: the unit of work, the clock and id source,
// event publishing and a component logger.
type engine struct {
	uow    interfaces.IUnitOfWork
	events interfaces.IEventPublisher
	log    zerolog.Logger
	now    func() time.Time
	newID  func() string
}

func newEngine(uow interfaces.IUnitOfWork, events interfaces.IEventPublisher, log zerolog.Logger) engine {
	return engine{
		uow:    uow,
		events: events,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
}

// inTx runs fn in one unit of work. Only a duplicate document number is retried; every
// other failure is returned after classification.
func (e *engine) inTx(ctx context.Context, fn func(ctx context.Context, repos interfaces.Repositories) error) error {
	var err error
	for attempt := 1; attempt <= maxNumberAttempts; attempt++ {
		err = e.uow.Do(ctx, fn)
		if err == nil || !errors.Is(err, interfaces.ErrDuplicateNumber) {
			break
		}
		e.log.Warn().Err(err).Int("attempt", attempt).Msg("document number taken concurrently, retrying")
	}
	return classify(err)
}

// publish emits event after commit. Delivery failures are logged and never undo the
// committed change.
func (e *engine) publish(ctx context.Context, eventType, ownerID, aggregateID string, data map[string]any) {
	if e.events == nil {
		return
	}
	evt := entities.DomainEvent{
		ID:          e.newID(),
		Type:        eventType,
		OwnerID:     ownerID,
		AggregateID: aggregateID,
		OccurredAt:  e.now(),
		Data:        data,
	}
	if err := e.events.Publish(ctx, evt); err != nil {
		e.log.Warn().Err(err).Str("event_type", eventType).Str("aggregate_id", aggregateID).Msg("publish event failed")
	}
}

func requireOwner(ownerID string) (string, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return "", ErrMissingOwner
	}
	return ownerID, nil
}

func requireID(kind, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", invalid("%s id is required", kind)
	}
	return id, nil
}

// priceItems builds ordered line items and their totals.
func priceItems(calc *pricing.Calculator, in []LineItemInput, newID func() string) ([]entities.LineItem, pricing.Totals, error) {
	lines := make([]pricing.Line, len(in))
	for i, it := range in {
		lines[i] = pricing.Line{Quantity: it.Quantity, UnitPrice: it.UnitPrice}
	}
	totals, err := calc.Compute(lines)
	if err != nil {
		return nil, pricing.Totals{}, invalid("%v", err)
	}

	items := make([]entities.LineItem, len(in))
	for i, it := range in {
		// Compute already validated the line, so LineAmount cannot fail here.
		amount, _ := pricing.LineAmount(lines[i])
		items[i] = entities.LineItem{
			ID:          newID(),
			Position:    i,
			Name:        it.Name,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Amount:      amount,
		}
	}
	return items, totals, nil
}

func ensureCustomer(ctx context.Context, repos interfaces.Repositories, ownerID, customerID string) error {
	c, err := repos.Customers.GetByID(ctx, ownerID, customerID)
	if err != nil {
		return err
	}
	if c.ID == "" {
		return ErrCustomerNotFound
	}
	return nil
}

// allocateNumber reserves the next free number of kind inside the current unit of work.
func allocateNumber(ctx context.Context, repos interfaces.Repositories, alloc *numbering.Allocator, kind numbering.Kind, ownerID string, when time.Time) (string, error) {
	taken := numbering.TakenFunc(repos.Quotes.NumberExists)
	if kind == numbering.KindInvoice {
		taken = repos.Invoices.NumberExists
	}
	return alloc.Allocate(ctx, repos.Sequences, taken, kind, ownerID, when)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
