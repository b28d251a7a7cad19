package utils

import (
	"html"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/truemail-rb/truemail-go"
)

type Validator struct {
	Validate    *validator.Validate
	VerifyEmail func(email string) bool

	policy *bluemonday.Policy
}

var instance *Validator
var once sync.Once
var configuration *truemail.Configuration

func GetValidator() *Validator {
	once.Do(func() {
		configuration, _ = truemail.NewConfiguration(truemail.ConfigurationAttr{
			VerifierEmail:         "team@lovelog.app",
			ValidationTypeDefault: "mx",
			SmtpFailFast:          true,
		})

		instance = &Validator{
			Validate:    validator.New(validator.WithRequiredStructEnabled()),
			VerifyEmail: validateEmail,
			policy:      bluemonday.StrictPolicy(),
		}

		registerCustomValidators(instance.Validate)
	})

	return instance
}

func validateEmail(email string) bool {
	return truemail.IsValid(email, configuration)
}

// SanitizeData strips markup from every string field of the given struct and
// trims surrounding whitespace, so that "non-empty" constraints see the
// effective value. Nested structs, pointers and string slices are walked too.
func (v *Validator) SanitizeData(target interface{}) {
	value := reflect.ValueOf(target)
	if value.Kind() == reflect.Ptr {
		value = value.Elem()
	}
	v.sanitizeValue(value)
}

func (v *Validator) sanitizeValue(value reflect.Value) {
	switch value.Kind() {
	case reflect.String:
		if value.CanSet() {
			value.SetString(v.sanitizeString(value.String()))
		}
	case reflect.Ptr:
		if !value.IsNil() {
			v.sanitizeValue(value.Elem())
		}
	case reflect.Slice:
		for i := 0; i < value.Len(); i++ {
			v.sanitizeValue(value.Index(i))
		}
	case reflect.Struct:
		for i := 0; i < value.NumField(); i++ {
			v.sanitizeValue(value.Field(i))
		}
	}
}

func (v *Validator) sanitizeString(s string) string {
	// bluemonday escapes entities while stripping tags; unescape to keep the
	// stored value plain text.
	return strings.TrimSpace(html.UnescapeString(v.policy.Sanitize(s)))
}

func registerCustomValidators(v *validator.Validate) {
	err := v.RegisterValidation("username_validation", usernameValidation)
	if err != nil {
		return
	}

	err = v.RegisterValidation("notblank", notBlankValidation)
	if err != nil {
		return
	}
}

func usernameValidation(fl validator.FieldLevel) bool {
	username := fl.Field().String()
	// The pattern allows a-z, A-Z, 0-9, ., -, and _
	pattern := `^[a-zA-Z0-9.\-_]+$`
	match, err := regexp.MatchString(pattern, username)
	if err != nil {
		return false
	}

	return match
}

func notBlankValidation(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
