// Package security provides request validation and per-client rate limiting for the HTTP adapters
package security

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/meadcraft/meadery/internal/domain/inventory"
	apperrors "github.com/meadcraft/meadery/pkg/errors"
	"go.uber.org/zap"
)

const maxRequestBytes = 1 << 20

// ValidationService validates inbound commands and screens raw requests
type ValidationService struct {
	logger    *zap.Logger
	validator *validator.Validate
}

// NewValidationService creates a new validation service
func NewValidationService(logger *zap.Logger) *ValidationService {
	validate := validator.New()

	// Report JSON field names rather than Go field names.
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation("inventory_category", validateInventoryCategory)
	_ = validate.RegisterValidation("ingredient", validateIngredient)

	return &ValidationService{
		logger:    logger.Named("validation"),
		validator: validate,
	}
}

// ValidateStruct validates a struct and returns a VALIDATION_FAILED AppError on failure
func (v *ValidationService) ValidateStruct(s interface{}) error {
	err := v.validator.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.NewValidationError(err.Error())
	}

	details := make([]apperrors.ValidationError, 0, len(validationErrors))
	for _, e := range validationErrors {
		details = append(details, apperrors.ValidationError{
			Field:   e.Field(),
			Value:   e.Value(),
			Tag:     e.Tag(),
			Message: validationMessage(e),
		})
	}

	return apperrors.NewValidationErrors(details)
}

func validationMessage(e validator.FieldError) string {
	field := e.Field()
	switch e.Tag() {
	case "required", "required_without":
		return field + " is required"
	case "max":
		if e.Kind() == reflect.String || e.Kind() == reflect.Slice {
			return field + " must be at most " + e.Param() + " long"
		}
		return field + " must be at most " + e.Param()
	case "gt":
		return field + " must be greater than " + e.Param()
	case "gte":
		return field + " must be at least " + e.Param()
	case "lte":
		return field + " must be at most " + e.Param()
	case "oneof":
		return field + " must be one of: " + e.Param()
	case "uuid":
		return field + " must be a valid UUID"
	case "inventory_category":
		return field + " must be a known inventory category"
	case "ingredient":
		return "Invalid ingredient name"
	default:
		return field + " is invalid"
	}
}

// RequestGuard rejects oversized bodies, unexpected content types and
// suspicious paths before they reach a handler.
func (v *ValidationService) RequestGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut {
			if r.ContentLength != 0 && !strings.Contains(r.Header.Get("Content-Type"), "application/json") {
				http.Error(w, `{"success":false,"error":"Content-Type must be application/json"}`, http.StatusUnsupportedMediaType)
				return
			}
		}

		if r.ContentLength > maxRequestBytes {
			http.Error(w, `{"success":false,"error":"Request too large"}`, http.StatusRequestEntityTooLarge)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)

		if containsSuspiciousPatterns(r.URL.Path) {
			v.logger.Warn("Suspicious URL pattern detected",
				zap.String("path", r.URL.Path),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
			)
			http.Error(w, `{"success":false,"error":"Invalid request"}`, http.StatusBadRequest)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// containsSuspiciousPatterns checks for common attack patterns in URLs
func containsSuspiciousPatterns(path string) bool {
	suspiciousPatterns := []string{
		"../", "..\\", "%2e%2e", "%252e%252e",
		"<script", "javascript:", "vbscript:",
		"/etc/passwd", "/proc/", "cmd.exe",
	}

	pathLower := strings.ToLower(path)
	for _, pattern := range suspiciousPatterns {
		if strings.Contains(pathLower, pattern) {
			return true
		}
	}

	return false
}

func validateInventoryCategory(fl validator.FieldLevel) bool {
	_, err := inventory.ParseCategory(fl.Field().String())
	return err == nil
}

// validateIngredient validates ingredient names
func validateIngredient(fl validator.FieldLevel) bool {
	ingredient := fl.Field().String()

	if len(ingredient) < 1 || len(ingredient) > 100 {
		return false
	}

	// A pipe would break the ingredient table the generator is asked to produce.
	dangerous := []string{"<", ">", "|", "javascript:"}
	ingredientLower := strings.ToLower(ingredient)
	for _, danger := range dangerous {
		if strings.Contains(ingredientLower, danger) {
			return false
		}
	}

	return true
}
