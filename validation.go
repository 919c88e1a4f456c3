package gatekeeper

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/nyaruka/phonenumbers"
)

// PhoneNumber returns a validation rule that accepts values parseable as a
// valid phone number for the given region. Empty values pass; combine with
// validation.Required when the field is mandatory.
func PhoneNumber(region string) validation.Rule {
	return validation.By(func(value any) error {
		raw, ok := value.(string)
		if !ok {
			return fmt.Errorf("must be a string")
		}
		if raw == "" {
			return nil
		}

		number, err := phonenumbers.Parse(raw, region)
		if err != nil {
			return fmt.Errorf("must be a valid phone number")
		}
		if !phonenumbers.IsValidNumber(number) {
			return fmt.Errorf("must be a valid phone number")
		}
		return nil
	})
}

// ValidateStringEquals builds a rule function checking equality against a
// reference value, e.g. password confirmation fields.
func ValidateStringEquals(expected string) validation.RuleFunc {
	return func(value any) error {
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("must be a string")
		}
		if s != expected {
			return fmt.Errorf("values do not match")
		}
		return nil
	}
}
