package leave

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go-ems/internal/employee"
	"go-ems/internal/events"
	leaveerrors "go-ems/internal/leave/errors"
	"go-ems/internal/messaging/kafka"
	"go-ems/internal/shared/apperror"
	"go-ems/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	fallbackNameAll  = "Unknown"
	fallbackNameMine = "Me"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	ListAll(ctx context.Context, caller Caller) ([]LeaveResponse, error)
	ListMine(ctx context.Context, caller Caller) ([]LeaveResponse, error)
	GetByID(ctx context.Context, caller Caller, id string) (LeaveResponse, error)
	Create(ctx context.Context, caller Caller, req CreateLeaveRequest) (LeaveResponse, error)
	SetStatus(ctx context.Context, caller Caller, id string, req UpdateLeaveStatusRequest) error
	ListLeaveTypes() []string
}

type Deps struct {
	DB            *sql.DB
	Repo          Repository
	EmployeeRepo  employee.Repository
	Outbox        kafka.OutboxRepository
	RejectOverlap bool
}

type service struct {
	db            *sql.DB
	repo          Repository
	employeeRepo  employee.Repository
	outbox        kafka.OutboxRepository
	rejectOverlap bool
	now           func() time.Time
	logger        *zap.Logger
}

func NewService(deps Deps, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:            deps.DB,
		repo:          deps.Repo,
		employeeRepo:  deps.EmployeeRepo,
		outbox:        deps.Outbox,
		rejectOverlap: deps.RejectOverlap,
		now:           func() time.Time { return time.Now().UTC() },
		logger:        l,
	}
}

func (s *service) ListAll(ctx context.Context, caller Caller) ([]LeaveResponse, error) {
	if !caller.IsAdmin() {
		return nil, leaveerrors.ErrAdminOnly
	}

	leaves, err := s.repo.FindAll(ctx)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("list leave requests failed", zap.Error(err))
		return nil, err
	}
	return mapToListResponse(leaves, fallbackNameAll), nil
}

func (s *service) ListMine(ctx context.Context, caller Caller) ([]LeaveResponse, error) {
	if _, err := uuid.Parse(caller.UserID); err != nil {
		return nil, apperror.ErrUnauthorized
	}

	leaves, err := s.repo.FindAllByRequester(ctx, caller.UserID)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("list own leave requests failed",
			zap.String("user_id", caller.UserID),
			zap.Error(err),
		)
		return nil, err
	}
	return mapToListResponse(leaves, ownFallbackName(caller)), nil
}

func (s *service) GetByID(ctx context.Context, caller Caller, id string) (LeaveResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}

	if caller.IsAdmin() {
		return mapToResponse(*l, fallbackNameAll), nil
	}
	// someone else's record looks exactly like a missing one
	if l.RequesterID.String() != caller.UserID {
		return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
	}
	return mapToResponse(*l, ownFallbackName(caller)), nil
}

func (s *service) Create(ctx context.Context, caller Caller, req CreateLeaveRequest) (LeaveResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	rid := contextutil.GetRequestID(ctx)

	callerID, err := uuid.Parse(caller.UserID)
	if err != nil {
		return LeaveResponse{}, apperror.ErrUnauthorized
	}

	leaveType := strings.TrimSpace(req.LeaveType)
	if !IsValidLeaveType(leaveType) {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveType
	}
	start, err := time.Parse(apperror.DateLayout, req.StartDate)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateFormat
	}
	end, err := time.Parse(apperror.DateLayout, req.EndDate)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateFormat
	}
	if end.Before(start) {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return LeaveResponse{}, leaveerrors.ErrReasonRequired
	}

	requesterID := callerID
	var target *employee.Employee
	if caller.IsAdmin() && req.EmployeeID != "" {
		target, err = s.resolveOverrideTarget(ctx, req.EmployeeID)
		if err != nil {
			return LeaveResponse{}, err
		}
		requesterID = *target.UserID
	} else {
		target, err = s.employeeRepo.FindByUserID(ctx, caller.UserID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("create leave employee lookup failed", zap.Error(err))
			return LeaveResponse{}, err
		}
	}

	record := &LeaveRequest{
		ID:          uuid.New(),
		RequesterID: requesterID,
		LeaveType:   leaveType,
		StartDate:   start,
		EndDate:     end,
		Reason:      reason,
		Status:      StatusPending,
		AppliedOn:   s.now(),
		Version:     1,
	}
	if target != nil {
		record.EmployeeID = &target.ID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("create leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if s.rejectOverlap {
		overlap, err := qtx.HasOverlappingPeriod(ctx, requesterID, start, end)
		if err != nil {
			log.Error("create leave overlap check failed", zap.Error(err))
			return LeaveResponse{}, err
		}
		if overlap {
			return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
		}
	}

	if err := qtx.Create(ctx, record); err != nil {
		log.Error("create leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if s.outbox != nil {
		evt := events.LeaveRequestedEvent{
			EventType:   events.EventLeaveRequested,
			LeaveID:     record.ID.String(),
			RequesterID: record.RequesterID.String(),
			EmployeeID:  uuidToStringPtr(record.EmployeeID),
			LeaveType:   record.LeaveType,
			StartDate:   req.StartDate,
			EndDate:     req.EndDate,
			OccurredAt:  record.AppliedOn,
		}
		outboxEvent, err := kafka.NewOutboxEvent(rid, "leave", record.ID.String(), evt.EventType, events.LeaveLifecycleTopic, evt)
		if err != nil {
			return LeaveResponse{}, err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, outboxEvent); err != nil {
			log.Error("create leave outbox persist failed",
				zap.String("leave_id", record.ID.String()),
				zap.Error(err),
			)
			return LeaveResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("create leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	log.Info("create leave success",
		zap.String("leave_id", record.ID.String()),
		zap.String("requester_id", record.RequesterID.String()),
	)

	fallback := ownFallbackName(caller)
	if target != nil {
		record.Employee = &LeaveEmployee{ID: target.ID, Name: target.Name}
		fallback = target.Email
	}
	return mapToResponse(*record, fallback), nil
}

func (s *service) resolveOverrideTarget(ctx context.Context, employeeID string) (*employee.Employee, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, leaveerrors.ErrInvalidEmployeeID
	}
	target, err := s.employeeRepo.FindByID(ctx, employeeID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, leaveerrors.ErrEmployeeNotFound
	}
	if err != nil {
		return nil, err
	}
	if target.UserID == nil {
		return nil, leaveerrors.ErrEmployeeWithoutAccount
	}
	return target, nil
}

func (s *service) SetStatus(ctx context.Context, caller Caller, id string, req UpdateLeaveStatusRequest) error {
	log := contextutil.GetLogger(ctx, s.logger)
	rid := contextutil.GetRequestID(ctx)

	if !caller.IsAdmin() {
		return leaveerrors.ErrAdminOnly
	}
	actorID, err := uuid.Parse(caller.UserID)
	if err != nil {
		return apperror.ErrUnauthorized
	}
	status := strings.TrimSpace(req.Status)
	if status != StatusApproved && status != StatusRejected {
		return leaveerrors.ErrInvalidStatus
	}
	if _, err := uuid.Parse(id); err != nil {
		return leaveerrors.ErrInvalidLeaveID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("set leave status begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	record, err := qtx.FindByID(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if !record.IsPending() {
		return leaveerrors.ErrLeaveNotPending
	}

	now := s.now()
	fromVersion := record.Version
	record.Status = status
	record.ProcessedBy = &actorID
	record.ProcessedOn = &now
	record.Comments = nil
	if c := strings.TrimSpace(req.Comments); c != "" {
		record.Comments = &c
	}

	updated, err := qtx.Transition(ctx, record, fromVersion)
	if err != nil {
		log.Error("set leave status persist failed", zap.String("leave_id", id), zap.Error(err))
		return err
	}
	if !updated {
		log.Warn("set leave status lost race", zap.String("leave_id", id))
		return leaveerrors.ErrConcurrentTransition
	}

	if s.outbox != nil {
		evt := events.LeaveStatusChangedEvent{
			EventType:     events.EventLeaveStatusChanged,
			LeaveID:       record.ID.String(),
			RequesterID:   record.RequesterID.String(),
			Status:        status,
			ProcessedByID: actorID.String(),
			OccurredAt:    now,
		}
		if record.Comments != nil {
			evt.Comments = *record.Comments
		}
		outboxEvent, err := kafka.NewOutboxEvent(rid, "leave", record.ID.String(), evt.EventType, events.LeaveLifecycleTopic, evt)
		if err != nil {
			return err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, outboxEvent); err != nil {
			log.Error("set leave status outbox persist failed", zap.String("leave_id", id), zap.Error(err))
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("set leave status commit failed", zap.Error(err))
		return err
	}

	log.Info("set leave status success",
		zap.String("leave_id", id),
		zap.String("status", status),
		zap.String("processed_by", actorID.String()),
	)
	return nil
}

func (s *service) ListLeaveTypes() []string {
	return LeaveTypes()
}

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leaveerrors.ErrLeaveNotFound
	}
	return err
}

func ownFallbackName(caller Caller) string {
	if caller.Email != "" {
		return caller.Email
	}
	return fallbackNameMine
}

func mapToResponse(l LeaveRequest, fallbackName string) LeaveResponse {
	resp := LeaveResponse{
		ID:           l.ID.String(),
		RequesterID:  l.RequesterID.String(),
		EmployeeID:   uuidToStringPtr(l.EmployeeID),
		EmployeeName: fallbackName,
		LeaveType:    l.LeaveType,
		StartDate:    l.StartDate.Format(apperror.DateLayout),
		EndDate:      l.EndDate.Format(apperror.DateLayout),
		Reason:       l.Reason,
		Status:       l.Status,
		AppliedOn:    l.AppliedOn.UTC().Format(time.RFC3339),
		Comments:     l.Comments,
	}

	switch {
	case l.Employee != nil && l.Employee.Name != "":
		resp.EmployeeName = l.Employee.Name
	case fallbackName == fallbackNameAll && l.Requester != nil && l.Requester.Email != "":
		resp.EmployeeName = l.Requester.Email
	}

	if l.Processor != nil {
		name := l.Processor.Email
		resp.ProcessedByName = &name
	}
	if l.ProcessedOn != nil {
		on := l.ProcessedOn.UTC().Format(time.RFC3339)
		resp.ProcessedOn = &on
	}
	return resp
}

func mapToListResponse(leaves []LeaveRequest, fallbackName string) []LeaveResponse {
	res := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		res[i] = mapToResponse(l, fallbackName)
	}
	return res
}

func uuidToStringPtr(v *uuid.UUID) *string {
	if v == nil {
		return nil
	}
	s := v.String()
	return &s
}
