package employee

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"parqueo-service/internal/domain/employee"
	xerrors "parqueo-service/internal/pkg/errors"
	"parqueo-service/internal/repository/postgres"
)

type EmployeeService struct {
	employeeRepo *postgres.EmployeeRepository
	logger       *zap.Logger
}

func NewEmployeeService(employeeRepo *postgres.EmployeeRepository, logger *zap.Logger) *EmployeeService {
	return &EmployeeService{employeeRepo: employeeRepo, logger: logger}
}

func (s *EmployeeService) Create(ctx context.Context, lotID string, req *employee.CreateRequest) (*employee.Employee, error) {
	if !req.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", xerrors.ErrValidation, req.Role)
	}
	now := time.Now().UTC()
	e := &employee.Employee{
		ID:        employee.NewID(now),
		LotID:     lotID,
		Name:      req.Name,
		Role:      req.Role,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.employeeRepo.Create(ctx, e); err != nil {
		s.logger.Error("failed to create employee", zap.Error(err))
		return nil, err
	}
	s.logger.Info("employee created",
		zap.String("employee_id", e.ID),
		zap.String("lot_id", lotID))
	return e, nil
}

func (s *EmployeeService) ListByLot(ctx context.Context, lotID string) ([]*employee.Employee, error) {
	return s.employeeRepo.ListByLot(ctx, lotID)
}

func (s *EmployeeService) Update(ctx context.Context, id string, req *employee.UpdateRequest) (*employee.Employee, error) {
	e, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != "" {
		e.Name = req.Name
	}
	if req.Role != "" {
		if !req.Role.Valid() {
			return nil, fmt.Errorf("%w: unknown role %q", xerrors.ErrValidation, req.Role)
		}
		e.Role = req.Role
	}
	if req.Active != nil {
		e.Active = *req.Active
	}
	if err := s.employeeRepo.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}
