package apperror

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// formatFieldName turns a json field name into a label: start_date -> Start Date.
func formatFieldName(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	caser := cases.Title(language.English)
	return caser.String(s)
}

// MapValidationError converts binding/validator failures into a
// VALIDATION_ERROR whose message names the first offending field and whose
// details list every field.
func MapValidationError(err error) error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		details := make(map[string]string, len(errs))
		for _, fe := range errs {
			details[fe.Field()] = fe.Tag()
		}

		// e.Field() sudah berupa nama json karena RegisterTagNameFunc di Init()
		e := errs[0]
		label := formatFieldName(e.Field())

		var appErr *AppError
		switch e.Tag() {
		case "required":
			appErr = RequiredField(label)
		default:
			appErr = InvalidField(label)
		}
		appErr.Code = CodeValidation
		appErr.Details = details
		return appErr
	}

	return New(
		CodeValidation,
		"Invalid input",
		http.StatusBadRequest,
	).WithDetails(errString(err))
}

func errString(err error) any {
	if err == nil {
		return nil
	}
	return err.Error()
}
