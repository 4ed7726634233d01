package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"invoice_management/internal/domain/entities"
	"invoice_management/internal/usecase/interfaces"

	"go.uber.org/mock/gomock"
)

func newTestCustomerUseCase(s *stores) *CustomerUseCase {
	uc := NewCustomerUseCase(s.uow)
	fixEngine(&uc.engine)
	return uc
}

func TestCustomerUseCase_CreateCustomer(t *testing.T) {
	invalidCases := map[string]CustomerInput{
		"blank name":   {Name: "   "},
		"long name":    {Name: strings.Repeat("あ", 101)},
		"bad email":    {Name: "Acme", Email: "not-an-email"},
		"long phone":   {Name: "Acme", Phone: strings.Repeat("0", 21)},
		"long address": {Name: "Acme", Address: strings.Repeat("x", 201)},
	}
	for name, in := range invalidCases {
		t.Run(name, func(t *testing.T) {
			uc := newTestCustomerUseCase(newStores(t))
			if _, err := uc.CreateCustomer(context.Background(), "owner-1", in); !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}

	t.Run("create success", func(t *testing.T) {
		s := newStores(t)
		uc := newTestCustomerUseCase(s)
		s.expectTx(1)
		s.customers.EXPECT().Create(gomock.Any(), gomock.AssignableToTypeOf(entities.Customer{})).DoAndReturn(
			func(_ context.Context, c entities.Customer) (entities.Customer, error) {
				if c.ID == "" || c.OwnerID != "owner-1" || c.Name != "Acme" || c.Email != "billing@acme.test" {
					t.Fatalf("unexpected customer: %+v", c)
				}
				if c.CreatedAt.IsZero() || c.UpdatedAt.IsZero() {
					t.Fatalf("expected timestamps")
				}
				return c, nil
			},
		)

		if _, err := uc.CreateCustomer(context.Background(), "owner-1", CustomerInput{Name: " Acme ", Email: "billing@acme.test"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestCustomerUseCase_UpdateCustomer(t *testing.T) {
	s := newStores(t)
	uc := newTestCustomerUseCase(s)
	s.expectTx(1)
	s.customers.EXPECT().GetByID(gomock.Any(), "owner-1", "cust-1").Return(entities.Customer{ID: "cust-1", OwnerID: "owner-1", Name: "Old"}, nil)
	s.customers.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, c entities.Customer) (entities.Customer, error) { return c, nil },
	)

	c, err := uc.UpdateCustomer(context.Background(), "owner-1", "cust-1", CustomerInput{Name: "New", Phone: "03-1234-5678"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Name != "New" || c.Phone != "03-1234-5678" || !c.UpdatedAt.Equal(fixedNow) {
		t.Fatalf("unexpected customer: %+v", c)
	}
}

func TestCustomerUseCase_DeleteCustomer(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		s := newStores(t)
		uc := newTestCustomerUseCase(s)
		s.expectTx(1)
		s.customers.EXPECT().GetByID(gomock.Any(), "owner-1", "cust-1").Return(entities.Customer{}, nil)

		if err := uc.DeleteCustomer(context.Background(), "owner-1", "cust-1"); !errors.Is(err, ErrCustomerNotFound) {
			t.Fatalf("expected ErrCustomerNotFound, got %v", err)
		}
	})

	t.Run("still referenced", func(t *testing.T) {
		s := newStores(t)
		uc := newTestCustomerUseCase(s)
		s.expectTx(1)
		s.customers.EXPECT().GetByID(gomock.Any(), "owner-1", "cust-1").Return(entities.Customer{ID: "cust-1"}, nil)
		s.customers.EXPECT().Delete(gomock.Any(), "owner-1", "cust-1").Return(interfaces.ErrReferenced)

		err := uc.DeleteCustomer(context.Background(), "owner-1", "cust-1")
		if !errors.Is(err, ErrCustomerInUse) || !errors.Is(err, ErrConflict) {
			t.Fatalf("expected ErrCustomerInUse, got %v", err)
		}
	})
}

func TestCustomerUseCase_GetCustomer_MissingOwner(t *testing.T) {
	uc := newTestCustomerUseCase(newStores(t))
	if _, err := uc.GetCustomer(context.Background(), "", "cust-1"); !errors.Is(err, ErrMissingOwner) {
		t.Fatalf("expected ErrMissingOwner, got %v", err)
	}
}
