package employee_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-ems/internal/domain"
	"go-ems/internal/employee"
	employeeerrors "go-ems/internal/employee/errors"
	"go-ems/internal/events"
	"go-ems/internal/messaging/kafka"
	"go-ems/internal/shared/contextutil"
	"go-ems/internal/user"

	employeeMock "go-ems/internal/employee/mock"
	kafkaMock "go-ems/internal/messaging/kafka/mock"
	counterMock "go-ems/internal/shared/counter/mock"
	userMock "go-ems/internal/user/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type serviceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   employee.Service
	repo      *employeeMock.MockRepository
	userRepo  *userMock.MockRepository
	counter   *counterMock.MockRepository
	redismock redismock.ClientMock
	outbox    *kafkaMock.MockOutboxRepository
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock, _ := sqlmock.New()
	t.Cleanup(func() { db.Close() })
	dbRedis, redisMock := redismock.NewClientMock()

	repo := employeeMock.NewMockRepository(ctrl)
	userRepo := userMock.NewMockRepository(ctrl)
	counterRepo := counterMock.NewMockRepository(ctrl)
	outboxRepo := kafkaMock.NewMockOutboxRepository(ctrl)

	repo.EXPECT().WithTx(gomock.Any()).Return(repo).AnyTimes()
	userRepo.EXPECT().WithTx(gomock.Any()).Return(userRepo).AnyTimes()
	counterRepo.EXPECT().WithTx(gomock.Any()).Return(counterRepo).AnyTimes()
	outboxRepo.EXPECT().WithTx(gomock.Any()).Return(outboxRepo).AnyTimes()

	svc := employee.NewService(employee.Deps{
		DB:              db,
		Repo:            repo,
		UserRepo:        userRepo,
		Counter:         counterRepo,
		Outbox:          outboxRepo,
		Redis:           dbRedis,
		DefaultPassword: "abc@123",
	})

	return &serviceDeps{
		db:        db,
		sqlMock:   sqlMock,
		service:   svc,
		repo:      repo,
		userRepo:  userRepo,
		counter:   counterRepo,
		outbox:    outboxRepo,
		redismock: redisMock,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestEmployeeService_Create(t *testing.T) {
	req := employee.CreateEmployeeRequest{
		Name:        "John Doe",
		Email:       "john@example.com",
		Phone:       "0812",
		JobTitle:    "Engineer",
		JoiningDate: "2026-01-05",
	}

	t.Run("success provisions user and queues event", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := contextutil.WithRequestID(context.Background(), "REQ-1")
		var created *employee.Employee

		expectTx(t, deps.sqlMock, true)
		deps.userRepo.EXPECT().EmailTaken(gomock.Any(), req.Email, "").Return(false, nil)
		deps.counter.EXPECT().GetNextValue(gomock.Any(), "employee_number").Return(int64(123), nil)
		deps.userRepo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, u *user.User) error {
				assert.Equal(t, req.Email, u.Email)
				assert.Equal(t, domain.RoleEmployee, u.Role)
				assert.True(t, u.IsActive)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("abc@123")))
				return nil
			})
		deps.repo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, e *employee.Employee) error {
				assert.Equal(t, "EMP-000123", e.EmployeeNumber)
				assert.NotNil(t, e.UserID)
				created = e
				return nil
			})
		deps.outbox.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, evt kafka.OutboxEvent) error {
				assert.Equal(t, "REQ-1", evt.RequestID)
				assert.Equal(t, events.EmployeeLifecycleTopic, evt.Topic)
				assert.Equal(t, events.EventEmployeeCreated, evt.EventType)

				var payload events.EmployeeCreatedEvent
				assert.NoError(t, json.Unmarshal(evt.Payload, &payload))
				assert.Equal(t, "EMP-000123", payload.EmployeeNumber)
				return nil
			})
		deps.redismock.ExpectDel(employee.EmployeeOptionsKey).SetVal(1)
		deps.repo.EXPECT().
			FindByID(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, id string) (*employee.Employee, error) {
				return created, nil
			})

		resp, err := deps.service.Create(ctx, req)

		assert.NoError(t, err)
		assert.Equal(t, "EMP-000123", resp.EmployeeNumber)
		assert.Equal(t, "2026-01-05", resp.JoiningDate)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("duplicate email -> conflict and rollback", func(t *testing.T) {
		deps := setupServiceTest(t)

		expectTx(t, deps.sqlMock, false)
		deps.userRepo.EXPECT().EmailTaken(gomock.Any(), req.Email, "").Return(true, nil)

		_, err := deps.service.Create(context.Background(), req)

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeAlreadyExists)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("unknown department", func(t *testing.T) {
		deps := setupServiceTest(t)
		withDept := req
		withDept.DepartmentID = uuid.NewString()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().DepartmentExists(gomock.Any(), withDept.DepartmentID).Return(false, nil)

		_, err := deps.service.Create(context.Background(), withDept)

		assert.ErrorIs(t, err, employeeerrors.ErrDepartmentNotFound)
	})

	t.Run("invalid joining date never opens a tx", func(t *testing.T) {
		deps := setupServiceTest(t)
		bad := req
		bad.JoiningDate = "05-01-2026"

		_, err := deps.service.Create(context.Background(), bad)

		assert.ErrorIs(t, err, employeeerrors.ErrInvalidDate)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("outbox failure -> rollback", func(t *testing.T) {
		deps := setupServiceTest(t)

		expectTx(t, deps.sqlMock, false)
		deps.userRepo.EXPECT().EmailTaken(gomock.Any(), gomock.Any(), "").Return(false, nil)
		deps.counter.EXPECT().GetNextValue(gomock.Any(), gomock.Any()).Return(int64(1), nil)
		deps.userRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		deps.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		deps.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("outbox down"))

		_, err := deps.service.Create(context.Background(), req)

		assert.EqualError(t, err, "outbox down")
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestEmployeeService_GetOptions(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit skips the database", func(t *testing.T) {
		deps := setupServiceTest(t)
		cached, _ := json.Marshal([]employee.EmployeeOptionResponse{
			{ID: uuid.NewString(), EmployeeNumber: "EMP-000001", Name: "Caca"},
		})
		deps.redismock.ExpectGet(employee.EmployeeOptionsKey).SetVal(string(cached))

		resp, err := deps.service.GetOptions(ctx)

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, "Caca", resp[0].Name)
	})

	t.Run("cache miss loads and stores", func(t *testing.T) {
		deps := setupServiceTest(t)
		id := uuid.New()
		expected := []employee.EmployeeOptionResponse{
			{ID: id.String(), EmployeeNumber: "EMP-000002", Name: "Deni"},
		}
		data, _ := json.Marshal(expected)

		deps.redismock.ExpectGet(employee.EmployeeOptionsKey).RedisNil()
		deps.repo.EXPECT().
			FindOptions(gomock.Any()).
			Return([]employee.Employee{{ID: id, EmployeeNumber: "EMP-000002", Name: "Deni"}}, nil)
		deps.redismock.ExpectSet(employee.EmployeeOptionsKey, data, time.Hour).SetVal("OK")

		resp, err := deps.service.GetOptions(ctx)

		assert.NoError(t, err)
		assert.Equal(t, expected, resp)
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.redismock.ExpectGet(employee.EmployeeOptionsKey).RedisNil()
		deps.repo.EXPECT().FindOptions(gomock.Any()).Return(nil, errors.New("database connection lost"))

		resp, err := deps.service.GetOptions(ctx)

		assert.Error(t, err)
		assert.Nil(t, resp)
	})
}

func TestEmployeeService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		id := uuid.New()
		deptID := uuid.New()
		deps.repo.EXPECT().FindByID(ctx, id.String()).Return(&employee.Employee{
			ID:           id,
			Name:         "HR",
			DepartmentID: &deptID,
			Department:   &employee.EmployeeDepartment{ID: deptID, Name: "People"},
		}, nil)

		resp, err := deps.service.GetByID(ctx, id.String())

		assert.NoError(t, err)
		assert.Equal(t, id.String(), resp.ID)
		assert.Equal(t, "People", resp.Department.Name)
	})

	t.Run("not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		id := uuid.NewString()
		deps.repo.EXPECT().FindByID(ctx, id).Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.GetByID(ctx, id)

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})

	t.Run("invalid id", func(t *testing.T) {
		deps := setupServiceTest(t)

		_, err := deps.service.GetByID(ctx, "abc")

		assert.ErrorIs(t, err, employeeerrors.ErrInvalidEmployeeID)
	})
}

func TestEmployeeService_Update(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	userID := uuid.New()

	existing := func() *employee.Employee {
		return &employee.Employee{ID: id, Name: "Old", Email: "old@example.com", UserID: &userID}
	}

	t.Run("email change syncs login account", func(t *testing.T) {
		deps := setupServiceTest(t)
		req := employee.UpdateEmployeeRequest{Name: "New", Email: "new@example.com", Phone: "0899"}

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().FindByID(gomock.Any(), id.String()).Return(existing(), nil)
		deps.userRepo.EXPECT().EmailTaken(gomock.Any(), req.Email, userID.String()).Return(false, nil)
		deps.userRepo.EXPECT().FindByID(gomock.Any(), userID.String()).
			Return(&user.User{ID: userID, Email: "old@example.com"}, nil)
		deps.userRepo.EXPECT().
			Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, u *user.User) error {
				assert.Equal(t, req.Email, u.Email)
				return nil
			})
		deps.repo.EXPECT().
			Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, e *employee.Employee) error {
				assert.Equal(t, "New", e.Name)
				assert.Equal(t, "0899", e.Phone)
				return nil
			})
		deps.redismock.ExpectDel(employee.EmployeeOptionsKey).SetVal(1)
		deps.repo.EXPECT().FindByID(gomock.Any(), id.String()).
			Return(&employee.Employee{ID: id, Name: "New", Email: req.Email}, nil)

		resp, err := deps.service.Update(ctx, id.String(), req)

		assert.NoError(t, err)
		assert.Equal(t, "New", resp.Name)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("email owned by another account", func(t *testing.T) {
		deps := setupServiceTest(t)
		req := employee.UpdateEmployeeRequest{Name: "New", Email: "taken@example.com"}

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().FindByID(gomock.Any(), id.String()).Return(existing(), nil)
		deps.userRepo.EXPECT().EmailTaken(gomock.Any(), req.Email, userID.String()).Return(true, nil)

		_, err := deps.service.Update(ctx, id.String(), req)

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeAlreadyExists)
	})

	t.Run("not found", func(t *testing.T) {
		deps := setupServiceTest(t)

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().FindByID(gomock.Any(), id.String()).Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.Update(ctx, id.String(), employee.UpdateEmployeeRequest{Name: "x", Email: "x@example.com"})

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}

func TestEmployeeService_Delete(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	userID := uuid.New()

	t.Run("soft delete deactivates login account", func(t *testing.T) {
		deps := setupServiceTest(t)

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().FindByID(gomock.Any(), id.String()).
			Return(&employee.Employee{ID: id, UserID: &userID}, nil)
		deps.repo.EXPECT().Delete(gomock.Any(), id.String()).Return(nil)
		deps.userRepo.EXPECT().FindByID(gomock.Any(), userID.String()).
			Return(&user.User{ID: userID, IsActive: true}, nil)
		deps.userRepo.EXPECT().
			Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, u *user.User) error {
				assert.False(t, u.IsActive)
				return nil
			})
		deps.redismock.ExpectDel(employee.EmployeeOptionsKey).SetVal(1)

		err := deps.service.Delete(ctx, id.String())

		assert.NoError(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		deps := setupServiceTest(t)

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().FindByID(gomock.Any(), id.String()).Return(nil, gorm.ErrRecordNotFound)

		err := deps.service.Delete(ctx, id.String())

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}
