// Package forms holds the HTML form payloads of the site and their validation rules.
package forms

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a form field name to the message shown next to it.
type FieldErrors map[string]string

var usernameRegex = regexp.MustCompile(`^[\w.@+-]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRegex.MatchString(fl.Field().String())
	})
	v.RegisterTagNameFunc(formName)
	return v
}

// formName reports fields by their form key so FieldErrors line up with the HTML inputs.
func formName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}

// validateStruct runs the tag rules and translates failures with messages,
// keyed "<form field>_<tag>". Unknown pairs get a generic message.
func validateStruct(s interface{}, messages map[string]string) FieldErrors {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"__all__": err.Error()}
	}

	out := FieldErrors{}
	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := out[field]; seen {
			continue
		}
		if msg, ok := messages[field+"_"+fe.Tag()]; ok {
			out[field] = msg
			continue
		}
		out[field] = "Enter a valid value."
	}
	return out
}
