package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/idelchi/gogen/pkg/validator"

	"github.com/idelchi/gocamo/internal/camo"
)

// register adds the custom validations with their messages and makes errors use the flag names
// from the label tag.
func register(v *validator.Validator) error {
	if err := v.RegisterValidationAndTranslation(
		"exclusive",
		validateExclusive,
		"{0} is mutually exclusive with {1}",
	); err != nil {
		return fmt.Errorf("registering exclusive validation: %w", err)
	}

	if err := v.RegisterValidationAndTranslation(
		"marker",
		validateMarker,
		fmt.Sprintf("{0} should be hex encoded with at least %d bytes", camo.MinMarkerSize),
	); err != nil {
		return fmt.Errorf("registering marker validation: %w", err)
	}

	v.Validator().RegisterTagNameFunc(func(fld reflect.StructField) string {
		const splitSize = 2

		name := strings.SplitN(fld.Tag.Get("label"), ",", splitSize)[0]
		if name == "" || name == "-" {
			return fld.Name
		}

		return name
	})

	return nil
}

// validateExclusive checks that the field and the field named by the parameter are not both set.
func validateExclusive(fl validator.FieldLevel) bool {
	field := fl.Field()
	otherField := fl.Parent().FieldByName(fl.Param())

	if !field.IsValid() || !otherField.IsValid() {
		return true
	}

	return field.IsZero() || otherField.IsZero()
}

// validateMarker checks that a marker override decodes to enough hex bytes.
func validateMarker(fl validator.FieldLevel) bool {
	_, err := camo.NewSignature(fl.Field().String())

	return err == nil
}
