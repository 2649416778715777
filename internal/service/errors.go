package service

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNoSession  = errors.New("no session")
)

// ValidationError несёт текст для клиента; errors.Is(err, ErrValidation) истинно.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return ErrValidation.Error() + ": " + e.Msg
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// десятичная строка больше нуля: "12.50"
	_ = v.RegisterValidation("positive_amount", func(fl validator.FieldLevel) bool {
		f, err := strconv.ParseFloat(fl.Field().String(), 64)
		return err == nil && f > 0
	})
	return v
}

// validateStruct проверяет теги validate и оборачивает ошибку в ValidationError.
func validateStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		return &ValidationError{Msg: err.Error()}
	}
	return nil
}
