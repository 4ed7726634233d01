package usecase

import (
	"context"

	"invoice_management/internal/domain/entities"
	"invoice_management/internal/logger"
	"invoice_management/internal/usecase/interfaces"
)

//go:generate mockgen -source=customer_usecase.go -destination=../adapter/http/handlers/mocks/customer_usecase_mock.go -package=mocks

// ICustomerUseCase manages the customers quotes and invoices are addressed to.
type ICustomerUseCase interface {
	CreateCustomer(ctx context.Context, ownerID string, in CustomerInput) (entities.Customer, error)
	GetCustomer(ctx context.Context, ownerID, id string) (entities.Customer, error)
	ListCustomers(ctx context.Context, ownerID string, filter interfaces.CustomerFilter) ([]entities.Customer, error)
	UpdateCustomer(ctx context.Context, ownerID, id string, in CustomerInput) (entities.Customer, error)
	DeleteCustomer(ctx context.Context, ownerID, id string) error
}

type CustomerUseCase struct {
	engine
}

var _ ICustomerUseCase = (*CustomerUseCase)(nil)

func NewCustomerUseCase(uow interfaces.IUnitOfWork) *CustomerUseCase {
	return &CustomerUseCase{engine: newEngine(uow, nil, logger.WithComponent("customer_usecase"))}
}

func (u *CustomerUseCase) CreateCustomer(ctx context.Context, ownerID string, in CustomerInput) (entities.Customer, error) {
	ownerID, err := requireOwner(ownerID)
	if err != nil {
		return entities.Customer{}, err
	}
	in.normalize()
	if err := validateStruct(in); err != nil {
		return entities.Customer{}, err
	}

	now := u.now()
	c := entities.Customer{
		ID:        u.newID(),
		OwnerID:   ownerID,
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	var created entities.Customer
	err = u.inTx(ctx, func(ctx context.Context, repos interfaces.Repositories) error {
		created, err = repos.Customers.Create(ctx, c)
		return err
	})
	if err != nil {
		return entities.Customer{}, err
	}
	u.log.Info().Str("owner_id", ownerID).Str("customer_id", created.ID).Msg("customer created")
	return created, nil
}

func (u *CustomerUseCase) GetCustomer(ctx context.Context, ownerID, id string) (entities.Customer, error) {
	ownerID, err := requireOwner(ownerID)
	if err != nil {
		return entities.Customer{}, err
	}
	if id, err = requireID("customer", id); err != nil {
		return entities.Customer{}, err
	}

	var c entities.Customer
	err = u.inTx(ctx, func(ctx context.Context, repos interfaces.Repositories) error {
		c, err = repos.Customers.GetByID(ctx, ownerID, id)
		if err != nil {
			return err
		}
		if c.ID == "" {
			return ErrCustomerNotFound
		}
		return nil
	})
	if err != nil {
		return entities.Customer{}, err
	}
	return c, nil
}

func (u *CustomerUseCase) ListCustomers(ctx context.Context, ownerID string, filter interfaces.CustomerFilter) ([]entities.Customer, error) {
	ownerID, err := requireOwner(ownerID)
	if err != nil {
		return nil, err
	}

	var out []entities.Customer
	err = u.inTx(ctx, func(ctx context.Context, repos interfaces.Repositories) error {
		out, err = repos.Customers.List(ctx, ownerID, filter)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (u *CustomerUseCase) UpdateCustomer(ctx context.Context, ownerID, id string, in CustomerInput) (entities.Customer, error) {
	ownerID, err := requireOwner(ownerID)
	if err != nil {
		return entities.Customer{}, err
	}
	if id, err = requireID("customer", id); err != nil {
		return entities.Customer{}, err
	}
	in.normalize()
	if err := validateStruct(in); err != nil {
		return entities.Customer{}, err
	}

	var updated entities.Customer
	err = u.inTx(ctx, func(ctx context.Context, repos interfaces.Repositories) error {
		c, err := repos.Customers.GetByID(ctx, ownerID, id)
		if err != nil {
			return err
		}
		if c.ID == "" {
			return ErrCustomerNotFound
		}
		c.Name, c.Email, c.Phone, c.Address = in.Name, in.Email, in.Phone, in.Address
		c.UpdatedAt = u.now()
		updated, err = repos.Customers.Update(ctx, c)
		return err
	})
	if err != nil {
		return entities.Customer{}, err
	}
	return updated, nil
}

func (u *CustomerUseCase) DeleteCustomer(ctx context.Context, ownerID, id string) error {
	ownerID, err := requireOwner(ownerID)
	if err != nil {
		return err
	}
	if id, err = requireID("customer", id); err != nil {
		return err
	}

	err = u.inTx(ctx, func(ctx context.Context, repos interfaces.Repositories) error {
		c, err := repos.Customers.GetByID(ctx, ownerID, id)
		if err != nil {
			return err
		}
		if c.ID == "" {
			return ErrCustomerNotFound
		}
		return repos.Customers.Delete(ctx, ownerID, id)
	})
	if err != nil {
		return err
	}
	u.log.Info().Str("owner_id", ownerID).Str("customer_id", id).Msg("customer deleted")
	return nil
}
