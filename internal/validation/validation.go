package validation

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

// Public identifiers look like tl_<base36 timestamp>_<base36 suffix>.
var publicIDPattern = regexp.MustCompile(`^tl_[0-9a-z]+_[0-9a-z]{4}$`)

func init() {
	validate = validator.New()

	if err := validate.RegisterValidation("publicid", validatePublicID); err != nil {
		panic(fmt.Sprintf("failed to register publicid validation: %v", err))
	}
}

// Validate validates a struct using tags
func Validate(s interface{}) error {
	return validate.Struct(s)
}

// ValidatePublicID validates a public identifier separately
func ValidatePublicID(id string) error {
	return validate.Var(id, "required,publicid")
}

func validatePublicID(fl validator.FieldLevel) bool {
	return publicIDPattern.MatchString(fl.Field().String())
}
