package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	bodydomain "github.com/nutrilog/nutrilog/internal/bodyrecord/domain"
	"github.com/nutrilog/nutrilog/internal/cascade"
	catalogdomain "github.com/nutrilog/nutrilog/internal/catalog/domain"
	dailylogdomain "github.com/nutrilog/nutrilog/internal/dailylog/domain"
	exercisedomain "github.com/nutrilog/nutrilog/internal/exercise/domain"
	intakedomain "github.com/nutrilog/nutrilog/internal/foodintake/domain"
	goaldomain "github.com/nutrilog/nutrilog/internal/goal/domain"
	"github.com/nutrilog/nutrilog/internal/metabolism"
	"github.com/nutrilog/nutrilog/internal/nutrition"
	profiledomain "github.com/nutrilog/nutrilog/internal/profile/domain"
	sleepdomain "github.com/nutrilog/nutrilog/internal/sleep/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Step    string            `json:"step,omitempty"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrInternal       = errors.New("internal_error")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	// Domain sentinels surface through cascade wrappers, so classify by
	// errors.Is before deciding a failed cascade is a server fault.
	if isValidationError(err) {
		code := err.Error()
		var cErr *cascade.Error
		if errors.As(err, &cErr) {
			code = cErr.Unwrap().Error()
		}
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: "invalid value",
				},
			},
		}
	}

	if isNotFoundError(err) {
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	}

	var cErr *cascade.Error
	if errors.As(err, &cErr) {
		return http.StatusInternalServerError, errorPayload{
			Type:    "cascade_failed",
			Message: "cascade failed",
			Step:    cErr.Step,
		}
	}

	return http.StatusInternalServerError, errorPayload{
		Type:    "internal_error",
		Message: "internal server error",
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, metabolism.ErrInvalidWeight),
		errors.Is(err, metabolism.ErrMissingHeight),
		errors.Is(err, metabolism.ErrMissingAge),
		errors.Is(err, metabolism.ErrMissingGender),
		errors.Is(err, metabolism.ErrInvalidActivityLevel),
		errors.Is(err, nutrition.ErrInvalidQuantity),
		errors.Is(err, nutrition.ErrInvalidServingSize),
		errors.Is(err, nutrition.ErrInvalidUnit),
		errors.Is(err, profiledomain.ErrInvalidHeight),
		errors.Is(err, profiledomain.ErrInvalidBirthDate),
		errors.Is(err, profiledomain.ErrInvalidGender),
		errors.Is(err, profiledomain.ErrInvalidActivityLevel),
		errors.Is(err, catalogdomain.ErrInvalidID),
		errors.Is(err, catalogdomain.ErrInvalidName),
		errors.Is(err, catalogdomain.ErrInvalidServingSize),
		errors.Is(err, catalogdomain.ErrInvalidNutrient),
		errors.Is(err, bodydomain.ErrInvalidWeight),
		errors.Is(err, bodydomain.ErrInvalidBodyFat),
		errors.Is(err, bodydomain.ErrInvalidID),
		errors.Is(err, bodydomain.ErrInvalidUser),
		errors.Is(err, bodydomain.ErrProfileRequired),
		errors.Is(err, intakedomain.ErrInvalidID),
		errors.Is(err, intakedomain.ErrInvalidUser),
		errors.Is(err, intakedomain.ErrFoodMissing),
		errors.Is(err, exercisedomain.ErrInvalidID),
		errors.Is(err, exercisedomain.ErrInvalidUser),
		errors.Is(err, exercisedomain.ErrInvalidType),
		errors.Is(err, exercisedomain.ErrInvalidIntensity),
		errors.Is(err, exercisedomain.ErrInvalidDuration),
		errors.Is(err, sleepdomain.ErrInvalidID),
		errors.Is(err, sleepdomain.ErrInvalidUser),
		errors.Is(err, sleepdomain.ErrInvalidDuration),
		errors.Is(err, sleepdomain.ErrInvalidStatus),
		errors.Is(err, goaldomain.ErrInvalidUser),
		errors.Is(err, goaldomain.ErrInvalidTarget),
		errors.Is(err, goaldomain.ErrLeanBelowMuscle),
		errors.Is(err, goaldomain.ErrProfileIncomplete),
		errors.Is(err, dailylogdomain.ErrInvalidUser),
		errors.Is(err, dailylogdomain.ErrInvalidDate):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, profiledomain.ErrNotFound),
		errors.Is(err, catalogdomain.ErrNotFound),
		errors.Is(err, bodydomain.ErrNotFound),
		errors.Is(err, intakedomain.ErrNotFound),
		errors.Is(err, exercisedomain.ErrNotFound),
		errors.Is(err, sleepdomain.ErrNotFound),
		errors.Is(err, goaldomain.ErrNotFound),
		errors.Is(err, dailylogdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorField(code string) string {
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}
