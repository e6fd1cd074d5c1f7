package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	autherrors "go-ems/internal/auth/errors"
	"go-ems/internal/employee"
	"go-ems/internal/shared/contextutil"
	"go-ems/internal/shared/jwtutil"
	"go-ems/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, email, password string) (LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (LoginResult, error)
	GetMe(ctx context.Context, userID string) (AuthResponse, error)
	UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (AuthResponse, error)
}

type TokenConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type service struct {
	db           *sql.DB
	userRepo     user.Repository
	employeeRepo employee.Repository
	tokens       TokenConfig
	now          func() time.Time
	logger       *zap.Logger
}

func NewService(
	db *sql.DB,
	userRepo user.Repository,
	employeeRepo employee.Repository,
	tokens TokenConfig,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{
		db:           db,
		userRepo:     userRepo,
		employeeRepo: employeeRepo,
		tokens:       tokens,
		now:          time.Now,
		logger:       l,
	}
}

func (s *service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	u, err := s.userRepo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			l.Error("login lookup failed", zap.Error(err))
		}
		return LoginResult{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		l.Info("login rejected", zap.String("user_id", u.ID.String()), zap.String("reason", "password"))
		return LoginResult{}, autherrors.ErrInvalidCredentials
	}
	if !u.IsActive {
		l.Info("login rejected", zap.String("user_id", u.ID.String()), zap.String("reason", "inactive"))
		return LoginResult{}, autherrors.ErrInvalidCredentials
	}

	return s.issue(u)
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (LoginResult, error) {
	claims, err := jwtutil.Parse(s.tokens.Secret, refreshToken, jwtutil.TokenTypeRefresh)
	if err != nil {
		return LoginResult{}, autherrors.ErrInvalidRefreshToken
	}

	u, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LoginResult{}, autherrors.ErrInvalidRefreshToken
		}
		return LoginResult{}, err
	}
	if !u.IsActive {
		return LoginResult{}, autherrors.ErrInvalidRefreshToken
	}

	return s.issue(u)
}

func (s *service) GetMe(ctx context.Context, userID string) (AuthResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return AuthResponse{}, autherrors.ErrInvalidUserID
	}

	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AuthResponse{}, autherrors.ErrUserNotFound
		}
		return AuthResponse{}, err
	}
	return toAuthResponse(u), nil
}

func (s *service) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (AuthResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)
	if _, err := uuid.Parse(userID); err != nil {
		return AuthResponse{}, autherrors.ErrInvalidUserID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		l.Error("update profile begin tx failed", zap.Error(err))
		return AuthResponse{}, err
	}
	defer tx.Rollback()

	utx := s.userRepo.WithTx(tx)
	u, err := utx.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AuthResponse{}, autherrors.ErrUserNotFound
		}
		return AuthResponse{}, err
	}

	if req.Password != "" {
		if req.CurrentPassword == "" {
			return AuthResponse{}, autherrors.ErrCurrentPasswordRequired
		}
		if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.CurrentPassword)); err != nil {
			return AuthResponse{}, autherrors.ErrCurrentPasswordMismatch
		}
		hashed, err := user.HashPassword(req.Password)
		if err != nil {
			return AuthResponse{}, err
		}
		u.Password = hashed
	}

	if email := strings.TrimSpace(req.Email); email != "" && !strings.EqualFold(email, u.Email) {
		taken, err := utx.EmailTaken(ctx, email, userID)
		if err != nil {
			return AuthResponse{}, err
		}
		if taken {
			return AuthResponse{}, autherrors.ErrEmailAlreadyRegistered
		}
		u.Email = email
	}
	if req.Avatar != "" {
		u.Avatar = req.Avatar
	}

	if err := utx.Update(ctx, u); err != nil {
		l.Error("update profile persist failed", zap.Error(err))
		return AuthResponse{}, err
	}

	if u.Employee != nil && (req.Name != "" || req.Phone != "") {
		name, phone := u.Employee.Name, u.Employee.Phone
		if req.Name != "" {
			name = strings.TrimSpace(req.Name)
		}
		if req.Phone != "" {
			phone = req.Phone
		}
		if err := s.employeeRepo.WithTx(tx).UpdateContact(ctx, u.Employee.ID, name, phone); err != nil {
			l.Error("update profile employee contact failed", zap.Error(err))
			return AuthResponse{}, err
		}
		u.Employee.Name = name
		u.Employee.Phone = phone
	}

	if err := tx.Commit(); err != nil {
		l.Error("update profile commit failed", zap.Error(err))
		return AuthResponse{}, err
	}

	l.Info("profile updated", zap.String("user_id", userID))
	return toAuthResponse(u), nil
}

func (s *service) issue(u *user.User) (LoginResult, error) {
	now := s.now()
	id := u.ID.String()

	access, err := jwtutil.Issue(s.tokens.Secret, id, u.Email, u.Role, jwtutil.TokenTypeAccess, s.tokens.AccessTTL, now)
	if err != nil {
		s.logger.Error("sign access token failed", zap.Error(err))
		return LoginResult{}, autherrors.ErrTokenGenerationFailed
	}
	refresh, err := jwtutil.Issue(s.tokens.Secret, id, u.Email, u.Role, jwtutil.TokenTypeRefresh, s.tokens.RefreshTTL, now)
	if err != nil {
		s.logger.Error("sign refresh token failed", zap.Error(err))
		return LoginResult{}, autherrors.ErrTokenGenerationFailed
	}

	return LoginResult{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         toAuthResponse(u),
	}, nil
}

func toAuthResponse(u *user.User) AuthResponse {
	resp := AuthResponse{
		ID:     u.ID.String(),
		Email:  u.Email,
		Name:   u.DisplayName(),
		Role:   u.Role,
		Avatar: u.Avatar,
	}
	if u.Employee != nil {
		resp.EmployeeID = u.Employee.ID.String()
	}
	return resp
}
