package numbering

import (
	"context"
	"errors"
	"testing"
	"time"
)

type memorySequencer struct {
	values map[string]int64
	err    error
}

func newMemorySequencer() *memorySequencer {
	return &memorySequencer{values: map[string]int64{}}
}

func (m *memorySequencer) Next(_ context.Context, scope string) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.values[scope]++
	return m.values[scope], nil
}

var day = time.Date(2026, 10, 18, 23, 30, 0, 0, time.UTC)

func TestAllocator_InvoiceNumbersAreSequentialPerOwnerAndDay(t *testing.T) {
	a := NewAllocator(QuoteScopeGlobal)
	seq := newMemorySequencer()
	ctx := context.Background()

	first, err := a.Allocate(ctx, seq, nil, KindInvoice, "owner-1", day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := a.Allocate(ctx, seq, nil, KindInvoice, "owner-1", day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != "INV-20261018-001" || second != "INV-20261018-002" {
		t.Fatalf("unexpected numbers: %s %s", first, second)
	}

	other, err := a.Allocate(ctx, seq, nil, KindInvoice, "owner-1", day.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if other != "INV-20261019-001" {
		t.Fatalf("expected counter reset on a new day, got %s", other)
	}
}

func TestAllocator_QuoteNumbersShareYearlyCounterByDefault(t *testing.T) {
	a := NewAllocator(QuoteScopeGlobal)
	seq := newMemorySequencer()
	ctx := context.Background()

	q1, _ := a.Allocate(ctx, seq, nil, KindQuote, "owner-1", day)
	q2, _ := a.Allocate(ctx, seq, nil, KindQuote, "owner-2", day)
	if q1 != "QT-2026-0001" || q2 != "QT-2026-0002" {
		t.Fatalf("unexpected numbers: %s %s", q1, q2)
	}
}

func TestAllocator_QuoteNumbersPerOwner(t *testing.T) {
	a := NewAllocator(ParseQuoteScope("Owner"))
	seq := newMemorySequencer()
	ctx := context.Background()

	q1, _ := a.Allocate(ctx, seq, nil, KindQuote, "owner-1", day)
	q2, _ := a.Allocate(ctx, seq, nil, KindQuote, "owner-2", day)
	if q1 != "QT-2026-0001" || q2 != "QT-2026-0001" {
		t.Fatalf("unexpected numbers: %s %s", q1, q2)
	}
}

func TestAllocator_SkipsNumbersTakenByOtherOwners(t *testing.T) {
	a := NewAllocator(QuoteScopeGlobal)
	seq := newMemorySequencer()
	used := map[string]bool{"INV-20261018-001": true, "INV-20261018-002": true}
	taken := func(_ context.Context, n string) (bool, error) { return used[n], nil }

	got, err := a.Allocate(context.Background(), seq, taken, KindInvoice, "owner-2", day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "INV-20261018-003" {
		t.Fatalf("expected INV-20261018-003, got %s", got)
	}
}

func TestAllocator_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("sequence failure propagates without a number", func(t *testing.T) {
		seq := newMemorySequencer()
		seq.err = errors.New("db down")
		got, err := NewAllocator(QuoteScopeGlobal).Allocate(ctx, seq, nil, KindInvoice, "owner-1", day)
		if err == nil || got != "" {
			t.Fatalf("expected error and empty number, got %q %v", got, err)
		}
	})

	t.Run("missing owner", func(t *testing.T) {
		_, err := NewAllocator(QuoteScopeGlobal).Allocate(ctx, newMemorySequencer(), nil, KindInvoice, "", day)
		if !errors.Is(err, ErrMissingOwner) {
			t.Fatalf("expected ErrMissingOwner, got %v", err)
		}
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := NewAllocator(QuoteScopeGlobal).Allocate(ctx, newMemorySequencer(), nil, Kind("receipt"), "owner-1", day)
		if !errors.Is(err, ErrUnknownKind) {
			t.Fatalf("expected ErrUnknownKind, got %v", err)
		}
	})

	t.Run("every candidate taken", func(t *testing.T) {
		always := func(context.Context, string) (bool, error) { return true, nil }
		_, err := NewAllocator(QuoteScopeGlobal).Allocate(ctx, newMemorySequencer(), always, KindInvoice, "owner-1", day)
		if !errors.Is(err, ErrNoFreeNumber) {
			t.Fatalf("expected ErrNoFreeNumber, got %v", err)
		}
	})
}
