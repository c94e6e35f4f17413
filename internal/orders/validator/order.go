package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"grafik/pkg/logger"
	"grafik/pkg/model"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type OrderValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewOrderValidator(log *logger.Logger) *OrderValidator {
	v := validator.New()

	if err := v.RegisterValidation("valid_date", validateDate); err != nil {
		log.Fatal("Failed to register 'valid_date' validator", "error", err)
	}
	if err := v.RegisterValidation("valid_clock", validateClock); err != nil {
		log.Fatal("Failed to register 'valid_clock' validator", "error", err)
	}

	log.Info("Order validator initialized successfully")

	return &OrderValidator{
		validate: v,
		logger:   log,
	}
}

func validateDate(fl validator.FieldLevel) bool {
	value := strings.TrimSpace(fl.Field().String())
	if value == "" {
		return true
	}
	_, err := time.Parse(model.DateLayout, value)
	return err == nil
}

func validateClock(fl validator.FieldLevel) bool {
	value := strings.TrimSpace(fl.Field().String())
	if value == "" {
		return true
	}
	_, err := time.Parse(model.ClockLayout, value)
	return err == nil
}

func (v *OrderValidator) Validate(o *model.Order) error {
	if err := v.validate.Struct(o); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

// ValidateCreate runs the shared rules plus the ones that only make sense
// for a brand-new order. Stored orders keep their historical dates; a new
// order cannot ask for a day that has already passed.
func (v *OrderValidator) ValidateCreate(o *model.Order) error {
	if err := v.Validate(o); err != nil {
		return err
	}

	if o.PreferredDate < model.DateString(time.Now()) {
		return ValidationErrors{{
			Field:   "PreferredDate",
			Message: "preferred_date must not be in the past",
		}}
	}
	return nil
}

func (v *OrderValidator) ValidateUpdate(updates *model.OrderUpdate) error {
	if err := v.validate.Struct(updates); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *OrderValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid object ID", err.Field())
		case "e164":
			message = fmt.Sprintf("%s must be a phone number in E.164 format", err.Field())
		case "valid_date":
			message = fmt.Sprintf("%s must be a valid date in YYYY-MM-DD format", err.Field())
		case "valid_clock":
			message = fmt.Sprintf("%s must be a valid time in HH:MM 24-hour format", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
