// Package validation checks command options with go-playground/validator.
//
// Struct fields are reported by their `flag` tag so messages read like the
// command line, e.g. "--top must be at least 1". Config structs use a
// `config` tag with the dotted key instead, e.g. "top.pie must be at least 1".
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/verte-zerg/watchlog/internal/logging"
	"github.com/verte-zerg/watchlog/internal/model"
	"github.com/verte-zerg/watchlog/internal/store"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError describes one failed constraint.
type FieldError struct {
	Field   string
	Tag     string
	Param   string
	Value   any
	message string
}

func (e FieldError) Error() string {
	return e.message
}

// Error collects every failed constraint of a struct.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	messages := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		messages = append(messages, f.Error())
	}
	return strings.Join(messages, "; ")
}

// Validator returns the shared validator with watchlog's custom tags registered.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(flagName)
		mustRegister("scoremode", func(fl validator.FieldLevel) bool {
			_, err := model.ParseScoreMode(fl.Field().String())
			return err == nil
		})
		mustRegister("dateorder", func(fl validator.FieldLevel) bool {
			_, err := store.ParseDateOrder(fl.Field().String())
			return err == nil
		})
		mustRegister("loglevel", func(fl validator.FieldLevel) bool {
			return logging.ValidLevel(fl.Field().String())
		})
	})
	return validate
}

func mustRegister(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validator: %v", tag, err))
	}
}

func flagName(field reflect.StructField) string {
	if key := field.Tag.Get("config"); key != "" {
		return key
	}
	name := strings.SplitN(field.Tag.Get("flag"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return "--" + name
}

// ValidateStruct validates s and returns nil or an *Error.
func ValidateStruct(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to validate options: %w", err)
	}
	out := &Error{Fields: make([]FieldError, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Value:   fe.Value(),
			message: translate(fe),
		})
	}
	return out
}

var messageTemplates = map[string]string{
	"required":  "%s is required",
	"scoremode": "%s must be episodes or views",
	"dateorder": "%s must be month-first or day-first",
	"loglevel":  "%s must be one of: trace, debug, info, warn, error, disabled",
}

var paramTemplates = map[string]string{
	"oneof": "%s must be one of: %s",
	"min":   "%s must be at least %s",
	"max":   "%s must be at most %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
}

func translate(fe validator.FieldError) string {
	if tmpl, ok := messageTemplates[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, fe.Field())
	}
	if tmpl, ok := paramTemplates[fe.Tag()]; ok {
		param := fe.Param()
		if fe.Tag() == "oneof" {
			param = strings.Join(strings.Fields(param), ", ")
		}
		return fmt.Sprintf(tmpl, fe.Field(), param)
	}
	return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
}
