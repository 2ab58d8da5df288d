package core

import (
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"eventpulse/internal/types"
)

// Validator wraps go-playground/validator so handlers can validate request
// payloads and surface field-level failures as structured AppErrors.
type Validator struct {
	validate *validator.Validate
	logger   *slog.Logger
}

// NewValidator creates a Validator with struct-tag validation enabled.
func NewValidator(logger *slog.Logger) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	return &Validator{
		validate: v,
		logger:   logger,
	}
}

// ValidateStruct validates a struct's `validate` tags. On failure it returns
// a validation AppError whose Details map field names to the failed rule,
// suitable for passing directly to Error.
func (v *Validator) ValidateStruct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		// validator.InvalidValidationError: the caller passed a non-struct.
		return types.NewAppError(types.ErrCodeInternalUnexpected, "validation could not be performed", err)
	}

	details := make(map[string]any, len(verrs))
	for _, fe := range verrs {
		details[strings.ToLower(fe.Field())] = fe.Tag()
	}

	return types.NewAppErrorWithDetails(
		types.ErrCodeValidationMissingField,
		"request failed validation",
		nil,
		details,
	)
}
