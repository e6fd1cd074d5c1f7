package autherrors

import (
	"net/http"

	"go-ems/internal/shared/apperror"
)

const CodeAuthFailed = "AUTH_FAILED"

var (
	// Unknown email, wrong password and inactive accounts all look the same.
	ErrInvalidCredentials = apperror.New(
		CodeAuthFailed,
		"Invalid email or password",
		http.StatusUnauthorized,
	)
	ErrInvalidRefreshToken = apperror.New(
		apperror.CodeInvalidToken,
		"Invalid or expired refresh token",
		http.StatusUnauthorized,
	)
	ErrMissingRefreshToken = apperror.New(
		apperror.CodeUnauthorized,
		"Missing refresh token",
		http.StatusUnauthorized,
	)
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"User not found",
		http.StatusNotFound,
	)
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid user ID",
		http.StatusBadRequest,
	)
	ErrTokenGenerationFailed = apperror.New(
		apperror.CodeInternalError,
		"Failed to generate token",
		http.StatusInternalServerError,
	)
	ErrCurrentPasswordRequired = apperror.New(
		apperror.CodeInvalidInput,
		"Current password is required to set a new password",
		http.StatusBadRequest,
	)
	ErrCurrentPasswordMismatch = apperror.New(
		apperror.CodeInvalidInput,
		"Current password is incorrect",
		http.StatusBadRequest,
	)
	ErrEmailAlreadyRegistered = apperror.New(
		apperror.CodeConflict,
		"Email already registered",
		http.StatusConflict,
	)
)
