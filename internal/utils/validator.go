package utils

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/studysphere/study-service/internal/models"
)

// Validator wraps go-playground struct validation with the custom rules
// used by request payloads.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	validate := validator.New()
	registerCustomValidators(validate)
	return &Validator{validate: validate}
}

// Validate checks struct tags and returns the first set of violations.
func (v *Validator) Validate(s interface{}) error {
	return v.validate.Struct(s)
}

func ValidateCognitiveLevel(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	for _, level := range models.ValidCognitiveLevels() {
		if string(level) == value {
			return true
		}
	}
	return false
}

func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("cognitive_level", ValidateCognitiveLevel)

	// Report json field names in violation messages.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}
