package service

import (
	"phonenumber_validator/internal/phonenumber"
	"phonenumber_validator/platform/validator"

	playground "github.com/go-playground/validator/v10"
)

// TagPhoneNumber is the struct tag bound to the server's default rule.
const TagPhoneNumber = "phonenumber"

// BindTag registers rule under tag, so `validate:"<tag>"` fields are checked
// with it. Fields that are not strings fail.
func BindTag(val *validator.Validator, tag string, rule *phonenumber.Rule) error {
	return val.RegisterValidation(tag, func(fl playground.FieldLevel) bool {
		return phonenumber.Validate(fl.Field().Interface(), rule).IsValid()
	})
}
