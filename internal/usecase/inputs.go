package usecase

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"invoice_management/internal/domain/entities"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type LineItemInput struct {
	Name        string `validate:"required,max=100"`
	Description string `validate:"max=500"`
	Quantity    int64  `validate:"gt=0"`
	UnitPrice   int64  `validate:"gte=0"`
}

type QuoteInput struct {
	CustomerID string `validate:"required"`
	IssuedAt   *time.Time
	ValidUntil *time.Time
	Notes      string          `validate:"max=1000"`
	Items      []LineItemInput `validate:"required,min=1,dive"`
}

type InvoiceInput struct {
	CustomerID string `validate:"required"`
	IssuedAt   *time.Time
	// DueDate defaults to IssuedAt plus the configured payment term.
	DueDate *time.Time
	Notes   string          `validate:"max=1000"`
	Items   []LineItemInput `validate:"required,min=1,dive"`
}

type CustomerInput struct {
	Name    string `validate:"required,max=100"`
	Email   string `validate:"omitempty,email"`
	Phone   string `validate:"max=20"`
	Address string `validate:"max=200"`
}

type PaymentInput struct {
	InvoiceID string `validate:"required"`
	Amount    int64  `validate:"gt=0"`
	PaidAt    *time.Time
	Method    entities.PaymentMethod `validate:"required"`
	// Status defaults to RECORDED.
	Status entities.PaymentStatus
	Notes  string `validate:"max=1000"`
}

// PaymentUpdate changes only the fields that are set. The invoice of a payment is fixed.
type PaymentUpdate struct {
	Amount *int64 `validate:"omitempty,gt=0"`
	PaidAt *time.Time
	Method *entities.PaymentMethod
	Status *entities.PaymentStatus
	Notes  *string `validate:"omitempty,max=1000"`
}

func (in *LineItemInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
}

func (in *QuoteInput) normalize() {
	in.CustomerID = strings.TrimSpace(in.CustomerID)
	in.Notes = strings.TrimSpace(in.Notes)
	for i := range in.Items {
		in.Items[i].normalize()
	}
}

func (in *InvoiceInput) normalize() {
	in.CustomerID = strings.TrimSpace(in.CustomerID)
	in.Notes = strings.TrimSpace(in.Notes)
	for i := range in.Items {
		in.Items[i].normalize()
	}
}

func (in *CustomerInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
}

func (in *PaymentInput) normalize() {
	in.InvoiceID = strings.TrimSpace(in.InvoiceID)
	in.Notes = strings.TrimSpace(in.Notes)
	if in.Status == "" {
		in.Status = entities.PaymentStatusRecorded
	}
}

func (in PaymentInput) check() error {
	if err := validateStruct(in); err != nil {
		return err
	}
	if !in.Method.Valid() {
		return invalid("unknown payment method %q", in.Method)
	}
	if !in.Status.Valid() {
		return invalid("unknown payment status %q", in.Status)
	}
	return nil
}

func (in PaymentUpdate) check() error {
	if err := validateStruct(in); err != nil {
		return err
	}
	if in.Method != nil && !in.Method.Valid() {
		return invalid("unknown payment method %q", *in.Method)
	}
	if in.Status != nil && !in.Status.Valid() {
		return invalid("unknown payment status %q", *in.Status)
	}
	return nil
}

// validateStruct runs the struct tags and reports every failing field.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	msgs := make([]string, 0, len(fields))
	for _, fe := range fields {
		name := fe.Namespace()
		if i := strings.Index(name, "."); i >= 0 {
			name = name[i+1:]
		}
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", name, fe.Tag(), fe.Param()))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s failed %s", name, fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
}
