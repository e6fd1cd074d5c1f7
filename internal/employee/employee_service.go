package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-ems/internal/domain"
	employeeerrors "go-ems/internal/employee/errors"
	"go-ems/internal/events"
	"go-ems/internal/messaging/kafka"
	"go-ems/internal/shared/apperror"
	"go-ems/internal/shared/contextutil"
	"go-ems/internal/shared/counter"
	"go-ems/internal/user"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	EmployeeOptionsKey = "employees:options"
	optionsCacheTTL    = time.Hour
)

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context, search string) ([]EmployeeResponse, error)
	GetOptions(ctx context.Context) ([]EmployeeOptionResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db              *sql.DB
	repo            Repository
	userRepo        user.Repository
	counter         counter.Repository
	outbox          kafka.OutboxRepository
	rdb             *redis.Client
	sf              *singleflight.Group
	defaultPassword string
	logger          *zap.Logger
}

type Deps struct {
	DB              *sql.DB
	Repo            Repository
	UserRepo        user.Repository
	Counter         counter.Repository
	Outbox          kafka.OutboxRepository
	Redis           *redis.Client
	DefaultPassword string
}

func NewService(deps Deps, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:              deps.DB,
		repo:            deps.Repo,
		userRepo:        deps.UserRepo,
		counter:         deps.Counter,
		outbox:          deps.Outbox,
		rdb:             deps.Redis,
		sf:              &singleflight.Group{},
		defaultPassword: deps.DefaultPassword,
		logger:          l,
	}
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)
	rid := contextutil.GetRequestID(ctx)
	email := strings.TrimSpace(req.Email)
	l.Debug("create employee requested", zap.String("email", email))

	joiningDate, err := parseDate(req.JoiningDate)
	if err != nil || joiningDate == nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidDate
	}
	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidDate
	}
	lastDay, err := parseDate(req.LastWorkingDate)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidDate
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		l.Error("create employee begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	utx := s.userRepo.WithTx(tx)

	departmentID, err := s.resolveDepartment(ctx, qtx, req.DepartmentID)
	if err != nil {
		return EmployeeResponse{}, err
	}

	taken, err := utx.EmailTaken(ctx, email, "")
	if err != nil {
		l.Error("create employee email check failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	if taken {
		return EmployeeResponse{}, employeeerrors.ErrEmployeeAlreadyExists
	}

	nextVal, err := s.counter.WithTx(tx).GetNextValue(ctx, counter.TypeEmployeeNumber)
	if err != nil {
		l.Error("create employee generate number failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	hashed, err := user.HashPassword(s.defaultPassword)
	if err != nil {
		return EmployeeResponse{}, err
	}
	account := &user.User{
		ID:       uuid.New(),
		Email:    email,
		Password: hashed,
		Role:     domain.RoleEmployee,
		IsActive: true,
	}
	if err := utx.Create(ctx, account); err != nil {
		l.Error("create employee user persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	empl := &Employee{
		ID:              uuid.New(),
		EmployeeNumber:  fmt.Sprintf("EMP-%06d", nextVal),
		Name:            strings.TrimSpace(req.Name),
		Email:           email,
		Phone:           req.Phone,
		JobTitle:        req.JobTitle,
		DepartmentID:    departmentID,
		Gender:          req.Gender,
		JoiningDate:     *joiningDate,
		LastWorkingDate: lastDay,
		DateOfBirth:     dob,
		UserID:          &account.ID,
	}
	if err := qtx.Create(ctx, empl); err != nil {
		l.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if s.outbox != nil {
		evt := events.EmployeeCreatedEvent{
			EventType:      events.EventEmployeeCreated,
			EmployeeID:     empl.ID.String(),
			UserID:         account.ID.String(),
			EmployeeNumber: empl.EmployeeNumber,
			Email:          empl.Email,
			DepartmentID:   uuidToStringPtr(empl.DepartmentID),
			OccurredAt:     time.Now().UTC(),
		}
		outboxEvent, err := kafka.NewOutboxEvent(rid, "employee", empl.ID.String(), evt.EventType, events.EmployeeLifecycleTopic, evt)
		if err != nil {
			return EmployeeResponse{}, err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, outboxEvent); err != nil {
			l.Error("create employee outbox persist failed",
				zap.String("employee_id", empl.ID.String()),
				zap.Error(err),
			)
			return EmployeeResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		l.Error("create employee commit failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateOptions(ctx)
	l.Info("create employee success",
		zap.String("employee_id", empl.ID.String()),
		zap.String("employee_number", empl.EmployeeNumber),
	)

	return s.GetByID(ctx, empl.ID.String())
}

func (s *service) GetAll(ctx context.Context, search string) ([]EmployeeResponse, error) {
	employees, err := s.repo.FindAll(ctx, search)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("get all employees failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(employees), nil
}

func (s *service) GetOptions(ctx context.Context) ([]EmployeeOptionResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, EmployeeOptionsKey).Result(); err == nil {
			var resp []EmployeeOptionResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	// concurrent misses share a single query
	v, err, _ := s.sf.Do(EmployeeOptionsKey, func() (interface{}, error) {
		employees, err := s.repo.FindOptions(ctx)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := make([]EmployeeOptionResponse, len(employees))
		for i, e := range employees {
			resp[i] = EmployeeOptionResponse{
				ID:             e.ID.String(),
				EmployeeNumber: e.EmployeeNumber,
				Name:           e.Name,
			}
		}

		if s.rdb != nil {
			if data, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(ctx, EmployeeOptionsKey, data, optionsCacheTTL).Err(); err != nil {
					s.logger.Warn("cache employee options failed", zap.Error(err))
				}
			}
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]EmployeeOptionResponse), nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	empl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*empl), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}
	lastDay, err := parseDate(req.LastWorkingDate)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidDate
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		l.Error("update employee begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	utx := s.userRepo.WithTx(tx)

	empl, err := qtx.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	departmentID, err := s.resolveDepartment(ctx, qtx, req.DepartmentID)
	if err != nil {
		return EmployeeResponse{}, err
	}

	email := strings.TrimSpace(req.Email)
	if !strings.EqualFold(email, empl.Email) && empl.UserID != nil {
		taken, err := utx.EmailTaken(ctx, email, empl.UserID.String())
		if err != nil {
			return EmployeeResponse{}, err
		}
		if taken {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeAlreadyExists
		}

		account, err := utx.FindByID(ctx, empl.UserID.String())
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, err
		}
		if account != nil {
			account.Email = email
			if err := utx.Update(ctx, account); err != nil {
				l.Error("update employee user email failed", zap.Error(err))
				return EmployeeResponse{}, mapRepositoryError(err)
			}
		}
	}

	empl.Name = strings.TrimSpace(req.Name)
	empl.Email = email
	empl.Phone = req.Phone
	empl.JobTitle = req.JobTitle
	empl.DepartmentID = departmentID
	empl.LastWorkingDate = lastDay

	if err := qtx.Update(ctx, empl); err != nil {
		l.Error("update employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		l.Error("update employee commit failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateOptions(ctx)
	l.Info("update employee success", zap.String("employee_id", id))

	return s.GetByID(ctx, id)
}

// Delete soft-deletes the employee and deactivates its login account.
func (s *service) Delete(ctx context.Context, id string) error {
	l := contextutil.GetLogger(ctx, s.logger)
	if _, err := uuid.Parse(id); err != nil {
		return employeeerrors.ErrInvalidEmployeeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		l.Error("delete employee begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	empl, err := qtx.FindByID(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}

	if err := qtx.Delete(ctx, id); err != nil {
		l.Error("delete employee failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	if empl.UserID != nil {
		utx := s.userRepo.WithTx(tx)
		account, err := utx.FindByID(ctx, empl.UserID.String())
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
		case err != nil:
			return err
		default:
			account.IsActive = false
			if err := utx.Update(ctx, account); err != nil {
				l.Error("delete employee deactivate user failed", zap.Error(err))
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		l.Error("delete employee commit failed", zap.Error(err))
		return err
	}

	s.invalidateOptions(ctx)
	l.Info("delete employee success", zap.String("employee_id", id))
	return nil
}

func (s *service) resolveDepartment(ctx context.Context, repo Repository, raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperror.InvalidField("Department Id")
	}

	exists, err := repo.DepartmentExists(ctx, raw)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, employeeerrors.ErrDepartmentNotFound
	}
	return &id, nil
}

func (s *service) invalidateOptions(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, EmployeeOptionsKey).Err(); err != nil {
		s.logger.Error("failed to invalidate employee options cache",
			zap.Error(err),
			zap.String("key", EmployeeOptionsKey),
		)
	}
}

func parseDate(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(apperror.DateLayout, v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(apperror.DateLayout)
	return &s
}

func mapToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:              e.ID.String(),
		EmployeeNumber:  e.EmployeeNumber,
		Name:            e.Name,
		Email:           e.Email,
		Phone:           e.Phone,
		JobTitle:        e.JobTitle,
		Gender:          e.Gender,
		JoiningDate:     e.JoiningDate.Format(apperror.DateLayout),
		LastWorkingDate: formatDatePtr(e.LastWorkingDate),
		DateOfBirth:     formatDatePtr(e.DateOfBirth),
		DepartmentID:    uuidToString(e.DepartmentID),
		UserID:          uuidToString(e.UserID),
	}
	if e.Department != nil {
		resp.Department = &EmployeeDepartmentResponse{
			ID:   e.Department.ID.String(),
			Name: e.Department.Name,
		}
	}
	return resp
}

func mapToListResponse(employees []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(employees))
	for i, e := range employees {
		res[i] = mapToResponse(e)
	}
	return res
}

func uuidToString(v *uuid.UUID) string {
	if v == nil {
		return ""
	}
	return v.String()
}

func uuidToStringPtr(v *uuid.UUID) *string {
	if v == nil {
		return nil
	}
	s := v.String()
	return &s
}
