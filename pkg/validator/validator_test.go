package validator_test

import (
	"errors"
	"fmt"
	"testing"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phatnt99/shelfwise/pkg/validator"
)

type color string

func (c color) Validate() error {
	switch c {
	case "red", "blue":
		return nil
	default:
		return fmt.Errorf("unknown color: %s", c)
	}
}

func TestDefaultValidator(t *testing.T) {
	v, err := validator.NewDefaultValidator()
	require.NoError(t, err)

	t.Run("Should accept a valid struct", func(t *testing.T) {
		type req struct {
			Name  string `validate:"required,alphanumspace"`
			Email string `validate:"required,email"`
			Color color  `validate:"required,enum"`
		}

		assert.NoError(t, v.Validate(req{Name: "Milk 1L", Email: "anna@example.com", Color: "red"}))
	})

	t.Run("Should reject missing required fields", func(t *testing.T) {
		type req struct {
			Name string `validate:"required"`
		}

		err := v.Validate(req{})
		require.Error(t, err)
		assert.True(t, validator.IsValidationError(err))
	})

	t.Run("Should reject special characters with alphanumspace", func(t *testing.T) {
		type req struct {
			Name string `validate:"alphanumspace"`
		}

		assert.Error(t, v.Validate(req{Name: "Milk; DROP TABLE"}))
	})

	t.Run("Should reject invalid enum values", func(t *testing.T) {
		type req struct {
			Color color `validate:"enum"`
		}

		assert.Error(t, v.Validate(req{Color: "green"}))
		assert.NoError(t, v.Validate(req{Color: "blue"}))
	})
}

func TestValidationErrorMessage(t *testing.T) {
	v, err := validator.NewDefaultValidator()
	require.NoError(t, err)

	type req struct {
		Name  string `validate:"required"`
		Email string `validate:"omitempty,email"`
		Stock int    `validate:"gte=0"`
	}

	err = v.Validate(req{Email: "nope", Stock: -1})
	require.Error(t, err)

	var validationErrs govalidator.ValidationErrors
	require.True(t, errors.As(err, &validationErrs))

	messages := map[string]string{}
	for _, fe := range validationErrs {
		messages[fe.Field()] = validator.ValidationErrorMessage(fe)
	}

	assert.Equal(t, "field is required", messages["Name"])
	assert.Equal(t, "must be a valid email address", messages["Email"])
	assert.Equal(t, "must be greater than or equal to 0", messages["Stock"])
}
