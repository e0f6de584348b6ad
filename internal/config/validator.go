package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/valyala/fasttemplate"

	"github.com/tungetti/starter/internal/errors"
	"github.com/tungetti/starter/internal/logging"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation: %s: %s", e.Field, e.Message)
}

var validate *validator.Validate

func init() {
	validate = validator.New()

	if err := validate.RegisterValidation("file_pattern", validateFilePattern); err != nil {
		panic(err)
	}

	// Report fields by their config key.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// validateFilePattern accepts a fasttemplate pattern that parses and
// renders the message.
func validateFilePattern(fl validator.FieldLevel) bool {
	pattern := fl.Field().String()
	if _, err := fasttemplate.NewTemplate(pattern, "{", "}"); err != nil {
		return false
	}
	return strings.Contains(pattern, "{"+logging.TagMessage+"}")
}

// getValidationMessage returns a human-readable message for a validation error.
func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "field is required"
	case "gte":
		return fmt.Sprintf("must be >= %s", e.Param())
	case "lte":
		return fmt.Sprintf("must be <= %s", e.Param())
	case "oneof":
		return fmt.Sprintf("invalid value %q: must be one of: %s", e.Value(), e.Param())
	case "file_pattern":
		return fmt.Sprintf("invalid pattern %q: placeholders must be closed and {message} is required", e.Value())
	default:
		return fmt.Sprintf("validation failed: %s", e.Tag())
	}
}

// Validator validates configuration.
type Validator struct {
	v *validator.Validate
}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{v: validate}
}

// Validate validates the configuration and returns all errors.
// This allows collecting all validation errors at once rather than
// failing on the first error.
func (v *Validator) Validate(cfg *Config) []error {
	var errs []error

	if err := v.v.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if stderrors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				errs = append(errs, &ValidationError{
					Field:   fe.Field(),
					Message: getValidationMessage(fe),
				})
			}
		} else {
			errs = append(errs, &ValidationError{Field: "config", Message: err.Error()})
		}
	}

	// The log-level file and log file must not be directories.
	for field, path := range map[string]string{
		"log_conf": cfg.LogConfPath(),
		"log_file": cfg.LogFilePath(),
	} {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			errs = append(errs, &ValidationError{
				Field:   field,
				Message: fmt.Sprintf("%s is a directory", path),
			})
		}
	}

	return errs
}

// ValidateOrError validates and returns a single wrapped error.
// If there are no validation errors, nil is returned.
func (v *Validator) ValidateOrError(cfg *Config) error {
	errs := v.Validate(cfg)
	if len(errs) == 0 {
		return nil
	}

	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}

	return errors.New(errors.Validation, strings.Join(msgs, "; ")).
		WithOp("config.Validate")
}

// IsValid returns true if the configuration is valid.
func (v *Validator) IsValid(cfg *Config) bool {
	return len(v.Validate(cfg)) == 0
}

// ValidateField validates a single config value by key before it is set.
// Keys without rules are accepted.
func ValidateField(field, value string) error {
	var tag string
	switch field {
	case "console_format":
		tag = "oneof=text json logfmt"
	case "file_pattern":
		tag = "required,file_pattern"
	default:
		return nil
	}

	if err := validate.Var(value, tag); err != nil {
		var fieldErrs validator.ValidationErrors
		if stderrors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return &ValidationError{Field: field, Message: getValidationMessage(fieldErrs[0])}
		}
		return &ValidationError{Field: field, Message: err.Error()}
	}
	return nil
}
