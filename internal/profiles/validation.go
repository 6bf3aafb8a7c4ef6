package profiles

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"resume-vault/internal/shared/apperr"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks a profile and reports failures keyed by JSON path.
func Validate(p Profile) error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Wrap(apperr.KindValidation, "profiles.validate", err)
	}
	out := apperr.New(apperr.KindValidation, "profiles.validate", "profile is invalid")
	for _, fe := range verrs {
		// Namespace is "Profile.workExperience[0].jobTitle"; drop the root.
		_, path, _ := strings.Cut(fe.Namespace(), ".")
		out.WithField(path, fe.Tag())
	}
	return out
}
