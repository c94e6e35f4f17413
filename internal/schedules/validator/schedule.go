package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"grafik/internal/availability"
	"grafik/pkg/config"
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

type WorkScheduleValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewWorkScheduleValidator(log *logger.Logger) *WorkScheduleValidator {
	v := validator.New()

	if err := v.RegisterValidation("valid_date", validateDate); err != nil {
		log.Fatal("Failed to register 'valid_date' validator", "error", err)
	}
	if err := v.RegisterValidation("valid_clock", validateClock); err != nil {
		log.Fatal("Failed to register 'valid_clock' validator", "error", err)
	}

	log.Info("Work schedule validator initialized successfully")

	return &WorkScheduleValidator{
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

// Validate checks field formats via struct tags and then the cross-field
// rules a tag cannot express. All findings are collected into one error.
func (v *WorkScheduleValidator) Validate(ws *model.WorkSchedule) error {
	if err := v.validate.Struct(ws); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if errs := v.businessRules(ws); len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateCreate runs the shared rules plus the ones that only make sense
// for a brand-new schedule. Stored schedules may start in the past; new
// ones may not.
func (v *WorkScheduleValidator) ValidateCreate(ws *model.WorkSchedule) error {
	if err := v.Validate(ws); err != nil {
		return err
	}

	if ws.StartDate != "" && ws.StartDate < model.DateString(time.Now()) {
		return ValidationErrors{{
			Field:   "StartDate",
			Message: "start_date must not be in the past",
		}}
	}
	return nil
}

func (v *WorkScheduleValidator) ValidateUpdate(updates *model.WorkScheduleUpdate) error {
	if err := v.validate.Struct(updates); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *WorkScheduleValidator) businessRules(ws *model.WorkSchedule) ValidationErrors {
	var errs ValidationErrors

	if ws.ScheduleType == model.ScheduleTypeCustom {
		if strings.TrimSpace(ws.CustomDays) == "" {
			errs = append(errs, ValidationError{
				Field:   "CustomDays",
				Message: "custom_days is required for custom schedules",
			})
		} else if _, err := availability.ParseCustomDays(ws.CustomDays); err != nil {
			errs = append(errs, ValidationError{
				Field:   "CustomDays",
				Message: err.Error(),
			})
		}
	}

	if ws.StartDate != "" && ws.EndDate != "" {
		if ws.EndDate < ws.StartDate {
			errs = append(errs, ValidationError{
				Field:   "EndDate",
				Message: "end_date must not precede start_date",
			})
		} else if start, err1 := model.ParseDate(ws.StartDate); err1 == nil {
			if end, err2 := model.ParseDate(ws.EndDate); err2 == nil {
				if end.Sub(start) > config.MaxSchedulePeriodDays*24*time.Hour {
					errs = append(errs, ValidationError{
						Field:   "EndDate",
						Message: fmt.Sprintf("schedule period must not exceed %d days", config.MaxSchedulePeriodDays),
					})
				}
			}
		}
	}

	startMin, err1 := model.ParseClock(ws.StartTime)
	endMin, err2 := model.ParseClock(ws.EndTime)
	if err1 == nil && err2 == nil {
		window := endMin - startMin
		switch {
		case window <= 0:
			errs = append(errs, ValidationError{
				Field:   "EndTime",
				Message: "end_time must be after start_time",
			})
		case window < config.MinDailyWorkMinutes:
			errs = append(errs, ValidationError{
				Field:   "EndTime",
				Message: "working window must be at least 1 hour",
			})
		case window > config.MaxDailyWorkMinutes:
			errs = append(errs, ValidationError{
				Field:   "EndTime",
				Message: "working window must not exceed 12 hours",
			})
		}
	}

	return errs
}

func (v *WorkScheduleValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s characters", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid object ID", err.Field())
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
