package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var validate = validator.New()

// ValidateConfig checks the struct-level requirements and the
// environment-specific rules on top of them.
func ValidateConfig(cfg *Config) error {
	var problems []string

	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			problems = append(problems, ValidationError{
				Field:   fe.Field(),
				Message: describe(fe),
			}.Error())
		}
	}

	if cfg.DBDriver == "postgres" && cfg.DatabaseURL == "" && cfg.DBHost == "" {
		problems = append(problems, ValidationError{Field: "DBHost", Message: "DB_HOST or DATABASE_URL is required for postgres"}.Error())
	}

	if cfg.IsProduction() {
		if cfg.DBDriver == "sqlite" {
			problems = append(problems, ValidationError{Field: "DBDriver", Message: "sqlite is not allowed in production"}.Error())
		}
		if cfg.JWTSecret == "" {
			problems = append(problems, ValidationError{Field: "JWTSecret", Message: "jwt_secret secret is required in production"}.Error())
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "\n"))
	}
	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if", "required_with", "required_without":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
