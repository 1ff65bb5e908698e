package student

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/mahudhurio/core"
)

var (
	genderTag  = "gender"
	genderText = "{0} must be one of Male, Female or Other"
)

// register custom validators
func init() {
	_ = core.Validate.RegisterValidation(genderTag, genderValidation)
	core.RegisterCustomTranslation(genderTag, genderText)
}

// genderValidation checks that the field holds one of the known genders.
func genderValidation(fl validator.FieldLevel) bool {
	switch Gender(fl.Field().String()) {
	case GenderMale, GenderFemale, GenderOther:
		return true
	default:
		return false
	}
}
