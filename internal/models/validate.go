package models

import (
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator with the domain tags registered:
// tripduration (anything ParseDuration accepts) and clock ("HH:MM").
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("tripduration", func(fl validator.FieldLevel) bool {
			_, _, err := ParseDuration(fl.Field().String())
			return err == nil
		})
		_ = validate.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
			return clockPattern.MatchString(fl.Field().String())
		})
	})
	return validate
}

func Validate(v any) error {
	return Validator().Struct(v)
}
