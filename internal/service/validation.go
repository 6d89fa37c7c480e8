package service

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RegisterInput son los datos del formulario de registro.
type RegisterInput struct {
	Username        string `form:"username" json:"username" validate:"required,min=4"`
	Email           string `form:"email" json:"email" validate:"required,email"`
	Password        string `form:"password" json:"password" validate:"required,min=6,maxbytes=72"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password" validate:"required,min=6,maxbytes=72"`
}

func (in RegisterInput) normalized() RegisterInput {
	return RegisterInput{
		Username:        strings.TrimSpace(in.Username),
		Email:           normalizeEmail(in.Email),
		Password:        strings.TrimSpace(in.Password),
		ConfirmPassword: strings.TrimSpace(in.ConfirmPassword),
	}
}

// MaxPasswordBytes es el limite de bcrypt; los bytes siguientes no se pueden hashear.
const MaxPasswordBytes = 72

// FieldRule describe una regla de campo para clientes del formulario.
type FieldRule struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	MinLength int    `json:"min_length,omitempty"`
	MaxBytes  int    `json:"max_bytes,omitempty"`
}

// RegisterFormRules devuelve las reglas que aplica el registro, en orden de formulario.
func RegisterFormRules() []FieldRule {
	return []FieldRule{
		{Name: "username", Type: "text", MinLength: 4},
		{Name: "email", Type: "email"},
		{Name: "password", Type: "password", MinLength: 6, MaxBytes: MaxPasswordBytes},
		{Name: "confirm_password", Type: "password", MinLength: 6, MaxBytes: MaxPasswordBytes},
	}
}

var formValidator = newFormValidator()

func newFormValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	// maxbytes cuenta bytes y no runas, a diferencia de max.
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len(fl.Field().String()) <= limit
	})
	return v
}

// validateFields revisa cada campo de forma independiente y devuelve todos los errores.
func validateFields(in RegisterInput) []FieldError {
	err := formValidator.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "__all__", Reason: ReasonInvalid}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Reason: reasonFor(fe.Tag())})
	}
	return out
}

func reasonFor(tag string) string {
	switch tag {
	case "required":
		return ReasonRequired
	case "min":
		return ReasonMinLength
	case "max", "maxbytes":
		return ReasonMaxLength
	case "email":
		return ReasonInvalidEmail
	default:
		return ReasonInvalid
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
