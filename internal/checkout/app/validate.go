package app

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/johdel/machinery/internal/checkout/domain"
)

// FieldError names one invalid shipping form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every failing field from a single pass.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Field
	}
	return fmt.Sprintf("invalid shipping details: %s", strings.Join(names, ", "))
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// jsonFieldNames maps struct fields to the names the client submitted,
// so inline error messages line up with the form.
var jsonFieldNames = map[string]string{
	"FirstName":  "firstName",
	"LastName":   "lastName",
	"Email":      "email",
	"Address":    "address",
	"City":       "city",
	"PostalCode": "postalCode",
}

// ValidateShipping checks all required checkout fields and returns a
// ValidationError listing every offending field, or nil.
func ValidateShipping(details domain.ShippingDetails) error {
	err := validate.Struct(details)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		name := jsonFieldNames[fe.StructField()]
		if name == "" {
			name = fe.StructField()
		}
		msg := fmt.Sprintf("%s is required", name)
		if fe.Tag() == "email" {
			msg = "email must be a valid email address"
		}
		fields = append(fields, FieldError{Field: name, Message: msg})
	}
	return &ValidationError{Fields: fields}
}
