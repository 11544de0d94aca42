package internal

import (
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator with the "target" tag registered.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		if err := validate.RegisterValidation("target", validateTarget); err != nil {
			panic(err)
		}
	})

	return validate
}

// a target is an inventory pattern: anything ansible accepts, as long as it
// cannot be mistaken for a flag or split by the shell
func validateTarget(fl validator.FieldLevel) bool {
	return isValidTarget(fl.Field().String())
}

func isValidTarget(s string) bool {
	if s == "" || strings.HasPrefix(s, "-") {
		return false
	}
	return strings.IndexFunc(s, unicode.IsSpace) == -1
}
