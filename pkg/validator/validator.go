package validator

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
}

var validate = validator.New()

func init() {
	// notblank: string must contain something other than whitespace
	validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errors []*ErrorResponse
	err := validate.Struct(data)
	if err != nil {
		for _, err := range err.(validator.ValidationErrors) {
			var element ErrorResponse
			element.FailedField = err.Field()
			element.Tag = err.Tag()
			element.Value = err.Param()
			errors = append(errors, &element)
		}
	}
	return errors
}

// Message renders a failed rule the way it is shown to users.
func (e *ErrorResponse) Message() string {
	switch e.Tag {
	case "required", "notblank":
		return e.FailedField + " cannot be empty"
	case "gte":
		return e.FailedField + " must be greater than or equal to " + e.Value
	case "gt":
		return e.FailedField + " must be greater than " + e.Value
	case "oneof":
		return e.FailedField + " must be one of: " + e.Value
	default:
		return e.FailedField + " is invalid"
	}
}
