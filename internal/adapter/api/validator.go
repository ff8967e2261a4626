package api

import (
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterValidation("notblank", validators.NotBlank)
	return &CustomValidator{validator: v}
}

// Validate returns validator.ValidationErrors untouched so response.Error can
// report each failed field.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
