package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	apierrors "github.com/krykon00/krk-budget-app/internal/errors"
)

// maxPeriodLength bounds a period label; real labels are at most "01.01.2024"
const maxPeriodLength = 32

// NewValidator returns a validator that knows the dashboard's custom rules
// and reports fields by their JSON names.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("period", isValidPeriod)
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidationMiddleware validates decoded request parameters against struct tags
type ValidationMiddleware struct {
	validator *validator.Validate
	logger    *slog.Logger
}

// NewValidationMiddleware creates a new validation middleware
func NewValidationMiddleware(logger *slog.Logger) *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: NewValidator(),
		logger:    logger.With(slog.String("component", "validation_middleware")),
	}
}

// ValidateStruct validates a struct and returns an APIError listing every
// rejected field.
func (m *ValidationMiddleware) ValidateStruct(v interface{}) error {
	err := m.validator.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := make([]apierrors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: formatValidationError(fe),
		})
	}
	m.logger.Debug("request rejected", slog.Int("fields", len(out)))
	return apierrors.NewValidationErrors(out)
}

func formatValidationError(err validator.FieldError) string {
	field := err.Field()
	param := err.Param()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "period":
		return fmt.Sprintf("%s must be a plain period label", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, err.Tag())
	}
}

// isValidPeriod accepts labels such as "2021" or "01.01.2021" and rejects
// anything that could escape the data directory.
func isValidPeriod(fl validator.FieldLevel) bool {
	period := fl.Field().String()
	if period == "" || utf8.RuneCountInString(period) > maxPeriodLength {
		return false
	}
	if strings.Contains(period, "..") || strings.ContainsAny(period, `/\`) {
		return false
	}
	for _, r := range period {
		if r < 0x20 {
			return false
		}
	}
	return true
}
