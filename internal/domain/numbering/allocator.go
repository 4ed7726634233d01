// Package numbering allocates human readable document numbers.
//
// Numbers are built from a sequence reserved atomically per scope:
//
//	invoice: INV-{YYYYMMDD}-{seq:03d}  scope invoice:{owner}:{YYYYMMDD}
//	quote:   QT-{YYYY}-{seq:04d}       scope quote:{YYYY} (or quote:{owner}:{YYYY})
//
// The document store still enforces uniqueness of the number itself; the allocator only
// skips values it can see are taken, so a losing concurrent insert surfaces as a conflict.
package numbering

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Kind selects the numbering scheme.
type Kind string

const (
	KindQuote   Kind = "quote"
	KindInvoice Kind = "invoice"
)

// QuoteScope controls whether quote counters are shared by all owners or kept per owner.
type QuoteScope string

const (
	QuoteScopeGlobal QuoteScope = "global"
	QuoteScopeOwner  QuoteScope = "owner"
)

// maxProbes bounds how many already-taken numbers are skipped in one allocation.
const maxProbes = 50

var (
	ErrUnknownKind    = errors.New("unknown document kind")
	ErrMissingOwner   = errors.New("owner scope is required")
	ErrNoFreeNumber   = errors.New("no free document number in scope")
	ErrInvalidSeqRead = errors.New("sequence store returned a non-positive value")
)

// Sequencer reserves the next value of a named counter. Implementations must make the
// increment atomic; the first value of a new scope is 1.
type Sequencer interface {
	Next(ctx context.Context, scope string) (int64, error)
}

// TakenFunc reports whether number is already used by a stored document.
type TakenFunc func(ctx context.Context, number string) (bool, error)

// Allocator turns reserved sequence values into document numbers.
type Allocator struct {
	quoteScope QuoteScope
}

func NewAllocator(quoteScope QuoteScope) *Allocator {
	if quoteScope != QuoteScopeOwner {
		quoteScope = QuoteScopeGlobal
	}
	return &Allocator{quoteScope: quoteScope}
}

// ParseQuoteScope maps a configuration value to a QuoteScope, defaulting to global.
func ParseQuoteScope(raw string) QuoteScope {
	if strings.EqualFold(strings.TrimSpace(raw), string(QuoteScopeOwner)) {
		return QuoteScopeOwner
	}
	return QuoteScopeGlobal
}

// Scope returns the counter key for kind, owner and date.
func (a *Allocator) Scope(kind Kind, ownerID string, when time.Time) (string, error) {
	when = when.UTC()
	switch kind {
	case KindInvoice:
		if ownerID == "" {
			return "", ErrMissingOwner
		}
		return fmt.Sprintf("invoice:%s:%s", ownerID, when.Format("20060102")), nil
	case KindQuote:
		if a.quoteScope == QuoteScopeOwner {
			if ownerID == "" {
				return "", ErrMissingOwner
			}
			return fmt.Sprintf("quote:%s:%04d", ownerID, when.Year()), nil
		}
		return fmt.Sprintf("quote:%04d", when.Year()), nil
	}
	return "", ErrUnknownKind
}

// Format renders the number for kind at when with sequence value seq.
func Format(kind Kind, when time.Time, seq int64) (string, error) {
	when = when.UTC()
	switch kind {
	case KindInvoice:
		return fmt.Sprintf("INV-%s-%03d", when.Format("20060102"), seq), nil
	case KindQuote:
		return fmt.Sprintf("QT-%04d-%04d", when.Year(), seq), nil
	}
	return "", ErrUnknownKind
}

// Allocate reserves the next free number for kind. taken may be nil when the caller
// relies solely on the store's uniqueness constraint.
func (a *Allocator) Allocate(ctx context.Context, seq Sequencer, taken TakenFunc, kind Kind, ownerID string, when time.Time) (string, error) {
	scope, err := a.Scope(kind, ownerID, when)
	if err != nil {
		return "", err
	}

	for range maxProbes {
		n, err := seq.Next(ctx, scope)
		if err != nil {
			return "", fmt.Errorf("reserve sequence %s: %w", scope, err)
		}
		if n <= 0 {
			return "", ErrInvalidSeqRead
		}
		number, err := Format(kind, when, n)
		if err != nil {
			return "", err
		}
		if taken == nil {
			return number, nil
		}
		used, err := taken(ctx, number)
		if err != nil {
			return "", fmt.Errorf("check number %s: %w", number, err)
		}
		if !used {
			return number, nil
		}
	}
	return "", ErrNoFreeNumber
}
