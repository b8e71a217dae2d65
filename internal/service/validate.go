package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"portal-backend/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// check validates the struct tags of entity and reports the first failing field
// as domain.ErrInvalid. Length limits count characters, not bytes.
func check(entity any) error {
	err := validate.Struct(entity)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) || len(fields) == 0 {
		return fmt.Errorf("%v: %w", err, domain.ErrInvalid)
	}

	fe := fields[0]
	name := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Errorf("%s is required: %w", name, domain.ErrInvalid)
	case "max":
		return fmt.Errorf("%s must be at most %s characters: %w", name, fe.Param(), domain.ErrInvalid)
	case "email":
		return fmt.Errorf("%s is malformed: %w", name, domain.ErrInvalid)
	}
	return fmt.Errorf("%s failed %q validation: %w", name, fe.Tag(), domain.ErrInvalid)
}
