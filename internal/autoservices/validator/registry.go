package validator

import (
	"errors"
	"fmt"
	"strings"

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

// RegistryValidator covers all three registry entities. Every rule here is
// expressible through struct tags; the cross-entity checks (the region of an
// auto service must exist, and so on) live in the services.
type RegistryValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewRegistryValidator(log *logger.Logger) *RegistryValidator {
	log.Info("Registry validator initialized successfully")
	return &RegistryValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *RegistryValidator) ValidateRegion(region *model.Region) error {
	return v.check(region)
}

func (v *RegistryValidator) ValidateRegionUpdate(updates *model.RegionUpdate) error {
	return v.check(updates)
}

func (v *RegistryValidator) ValidateAutoService(svc *model.AutoService) error {
	return v.check(svc)
}

func (v *RegistryValidator) ValidateAutoServiceUpdate(updates *model.AutoServiceUpdate) error {
	return v.check(updates)
}

func (v *RegistryValidator) ValidateMaster(m *model.Master) error {
	return v.check(m)
}

func (v *RegistryValidator) ValidateMasterUpdate(updates *model.MasterUpdate) error {
	return v.check(updates)
}

func (v *RegistryValidator) check(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *RegistryValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
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
		case "lowercase":
			message = fmt.Sprintf("%s must be lowercase", err.Field())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid object ID", err.Field())
		case "e164":
			message = fmt.Sprintf("%s must be a phone number in E.164 format", err.Field())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
