package httpapi

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// NewValidator builds a validator instance that reports field names by their
// JSON tag, so problem responses match the request payload.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		tag := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return field.Name
		}
		return tag
	})
	return v
}

// ValidationFields flattens a validator error into per-field messages.
// Non-validation errors collapse into a generic payload message.
func ValidationFields(err error) map[string][]string {
	fields := map[string][]string{}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields["payload"] = []string{"invalid request payload"}
		return fields
	}

	for _, fe := range verrs {
		name := fe.Field()
		fields[name] = append(fields[name], "failed on the '"+fe.Tag()+"' rule")
	}

	return fields
}
