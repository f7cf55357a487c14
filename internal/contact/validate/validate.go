// Package validate checks contact-form input and normalizes it.
package validate

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/RinkiBai/portfolio-backend/internal/contact/domain"
	"github.com/go-playground/validator/v10"
)

const (
	NameMin    = 2
	NameMax    = 50
	MessageMin = 10
	MessageMax = 1000
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type form struct {
	Name    string `json:"name" validate:"required,min=2,max=50"`
	Email   string `json:"email" validate:"required,max=254,contactemail"`
	Message string `json:"message" validate:"required,min=10,max=1000"`
}

// Validator is safe for concurrent use.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("contactemail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	return &Validator{v: v}
}

// Validate trims and normalizes the raw fields and checks every rule,
// returning all violations together as a *domain.ValidationError.
func (val *Validator) Validate(name, email, message string) (domain.Fields, error) {
	f := form{
		Name:    strings.TrimSpace(name),
		Email:   NormalizeEmail(email),
		Message: strings.TrimSpace(message),
	}

	err := val.v.Struct(f)
	if err == nil {
		return domain.Fields{Name: f.Name, Email: f.Email, Message: f.Message}, nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return domain.Fields{}, fmt.Errorf("validate submission: %w", err)
	}

	out := &domain.ValidationError{}
	for _, fe := range verrs {
		out.Add(fe.Field(), describe(fe))
	}
	return domain.Fields{}, out
}

// NormalizeEmail trims surrounding whitespace and lower-cases the address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "contactemail":
		return "please provide a valid email address"
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
