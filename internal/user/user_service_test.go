package user_test

import (
	"context"
	"errors"
	"testing"

	"go-ems/internal/domain"
	"go-ems/internal/user"
	usererrors "go-ems/internal/user/errors"
	mock_user "go-ems/internal/user/mock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*mock_user.MockRepository, user.Service) {
	ctrl := gomock.NewController(t)
	mockRepo := mock_user.NewMockRepository(ctrl)
	return mockRepo, user.NewService(mockRepo)
}

func TestUserService_GetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mockRepo, svc := setup(t)
		employeeID := uuid.New()
		mockRepo.EXPECT().FindAll(gomock.Any()).Return([]user.User{
			{ID: uuid.New(), Email: "john@mail.com", Role: domain.RoleEmployee, IsActive: true,
				Employee: &user.UserEmployee{ID: employeeID, Name: "John"}},
			{ID: uuid.New(), Email: "admin@mail.com", Role: domain.RoleAdmin, IsActive: true},
		}, nil)

		res, err := svc.GetAll(ctx)

		assert.NoError(t, err)
		assert.Len(t, res, 2)
		assert.Equal(t, "John", res[0].EmployeeName)
		assert.Equal(t, employeeID.String(), *res[0].EmployeeID)
		assert.Nil(t, res[1].EmployeeID)
	})

	t.Run("repository error", func(t *testing.T) {
		mockRepo, svc := setup(t)
		mockRepo.EXPECT().FindAll(gomock.Any()).Return(nil, errors.New("db error"))

		res, err := svc.GetAll(ctx)

		assert.Error(t, err)
		assert.Nil(t, res)
	})
}

func TestUserService_GetByID(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		mockRepo, svc := setup(t)
		mockRepo.EXPECT().FindByID(gomock.Any(), userID).
			Return(&user.User{ID: uuid.MustParse(userID), Email: "john@mail.com"}, nil)

		res, err := svc.GetByID(ctx, userID)

		assert.NoError(t, err)
		assert.Equal(t, userID, res.ID)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo, svc := setup(t)
		mockRepo.EXPECT().FindByID(gomock.Any(), userID).Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.GetByID(ctx, userID)

		assert.ErrorIs(t, err, usererrors.ErrUserNotFound)
	})

	t.Run("invalid id", func(t *testing.T) {
		_, svc := setup(t)

		_, err := svc.GetByID(ctx, "nope")

		assert.ErrorIs(t, err, usererrors.ErrInvalidUserID)
	})
}

func TestUserService_SetActive(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()
	targetID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		mockRepo, svc := setup(t)
		u := &user.User{ID: uuid.MustParse(targetID), IsActive: true}
		mockRepo.EXPECT().FindByID(gomock.Any(), targetID).Return(u, nil)
		mockRepo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, got *user.User) error {
			assert.False(t, got.IsActive)
			return nil
		})

		err := svc.SetActive(ctx, actorID, targetID, false)

		assert.NoError(t, err)
	})

	t.Run("cannot deactivate self", func(t *testing.T) {
		_, svc := setup(t)

		err := svc.SetActive(ctx, actorID, actorID, false)

		assert.ErrorIs(t, err, usererrors.ErrCannotDeactivateSelf)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo, svc := setup(t)
		mockRepo.EXPECT().FindByID(gomock.Any(), targetID).Return(nil, gorm.ErrRecordNotFound)

		err := svc.SetActive(ctx, actorID, targetID, true)

		assert.ErrorIs(t, err, usererrors.ErrUserNotFound)
	})
}

func TestUserService_SeedAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("creates admin when table is empty", func(t *testing.T) {
		mockRepo, svc := setup(t)
		mockRepo.EXPECT().Count(gomock.Any()).Return(int64(0), nil)
		mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u *user.User) error {
			assert.Equal(t, "admin@test.com", u.Email)
			assert.Equal(t, domain.RoleAdmin, u.Role)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("Admin@123")))
			return nil
		})

		assert.NoError(t, svc.SeedAdmin(ctx, "admin@test.com", "Admin@123"))
	})

	t.Run("skips when users exist", func(t *testing.T) {
		mockRepo, svc := setup(t)
		mockRepo.EXPECT().Count(gomock.Any()).Return(int64(3), nil)

		assert.NoError(t, svc.SeedAdmin(ctx, "admin@test.com", "Admin@123"))
	})

	t.Run("skips without credentials", func(t *testing.T) {
		_, svc := setup(t)

		assert.NoError(t, svc.SeedAdmin(ctx, "", ""))
	})
}
