package console

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Console inputs checked before they reach the managers.
type (
	signupInput struct {
		Username string `validate:"required,alphanum,min=3,max=32"`
		Password string `validate:"required,min=4"`
		Email    string `validate:"required,email"`
	}
	usernameInput struct {
		Username string `validate:"required,alphanum,min=3,max=32"`
	}
	passwordInput struct {
		Password string `validate:"required,min=4"`
	}
	emailInput struct {
		Email string `validate:"required,email"`
	}
	eventInput struct {
		Capacity int    `validate:"gte=0"`
		Title    string `validate:"required,max=120"`
	}
)

// inputValidator wraps go-playground/validator and turns its errors into
// one user-facing message.
type inputValidator struct {
	v *validator.Validate
}

func newInputValidator() *inputValidator {
	return &inputValidator{v: validator.New()}
}

func (iv *inputValidator) Validate(i any) error {
	if err := iv.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fieldError(fe))
			}
			return &invalidInputError{msg: strings.Join(msgs, "; ")}
		}
		return err
	}
	return nil
}

// fieldError converts a single FieldError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "alphanum":
		return field + " may only contain letters and digits"
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
