package requests

import (
	"barangay/pkg/types"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report form field names so messages line up with the inputs
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

func (s *Service) validateForm(form *types.RequestForm) error {
	err := s.validate.Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := &types.ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Fields[fe.Field()] = fieldMessage(fe)
	}

	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		return "Value is too small (minimum " + fe.Param() + ")."
	case "max":
		if fe.Kind() == reflect.String {
			return "Must be at most " + fe.Param() + " characters."
		}
		return "Value is too large (maximum " + fe.Param() + ")."
	case "oneof":
		return "Choose one of: " + fe.Param() + "."
	default:
		return "Invalid value."
	}
}

func normalizeForm(form types.RequestForm) types.RequestForm {
	form.FirstName = strings.TrimSpace(form.FirstName)
	form.MiddleName = strings.TrimSpace(form.MiddleName)
	form.LastName = strings.TrimSpace(form.LastName)
	form.Address = strings.TrimSpace(form.Address)
	form.ZoneID = strings.TrimSpace(form.ZoneID)
	form.Contact = strings.TrimSpace(form.Contact)
	form.Email = strings.TrimSpace(form.Email)
	form.MaritalStatus = types.MaritalStatus(strings.ToLower(strings.TrimSpace(string(form.MaritalStatus))))
	form.Purpose = strings.TrimSpace(form.Purpose)
	form.ZoneClearanceReference = strings.ToUpper(strings.TrimSpace(form.ZoneClearanceReference))
	return form
}
