package customer

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"parqueo-service/internal/domain/customer"
	xerrors "parqueo-service/internal/pkg/errors"
	"parqueo-service/internal/repository/postgres"
)

type CustomerService struct {
	customerRepo *postgres.CustomerRepository
	logger       *zap.Logger
}

func NewCustomerService(customerRepo *postgres.CustomerRepository, logger *zap.Logger) *CustomerService {
	return &CustomerService{customerRepo: customerRepo, logger: logger}
}

func (s *CustomerService) Register(ctx context.Context, req *customer.RegisterRequest) (*customer.Customer, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name is required", xerrors.ErrValidation)
	}
	now := time.Now().UTC()
	c := &customer.Customer{
		ID:        customer.NewID(now),
		Name:      req.Name,
		Email:     sql.NullString{String: req.Email, Valid: req.Email != ""},
		Phone:     sql.NullString{String: req.Phone, Valid: req.Phone != ""},
		Plates:    req.Plates,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.customerRepo.Create(ctx, c); err != nil {
		s.logger.Error("failed to register customer", zap.Error(err))
		return nil, err
	}
	s.logger.Info("customer registered", zap.String("customer_id", c.ID))
	return c, nil
}

func (s *CustomerService) GetCustomer(ctx context.Context, id string) (*customer.Customer, error) {
	return s.customerRepo.GetByID(ctx, id)
}

func (s *CustomerService) UpdateCustomer(ctx context.Context, id string, req *customer.UpdateRequest) (*customer.Customer, error) {
	c, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != "" {
		c.Name = req.Name
	}
	if req.Email != "" {
		c.Email = sql.NullString{String: req.Email, Valid: true}
	}
	if req.Phone != "" {
		c.Phone = sql.NullString{String: req.Phone, Valid: true}
	}
	if req.Plates != nil {
		c.Plates = req.Plates
	}
	if err := s.customerRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// FindByPlate resolves the owner of a plate, used by staff at the gate.
func (s *CustomerService) FindByPlate(ctx context.Context, plate string) (*customer.Customer, error) {
	return s.customerRepo.FindByPlate(ctx, plate)
}
