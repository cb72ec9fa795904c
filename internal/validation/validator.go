package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/localnerve/orgportal/internal/models"
	"github.com/localnerve/orgportal/internal/types"
)

var (
	validate   *validator.Validate
	translator ut.Translator
	initOnce   sync.Once
)

// custom validation tags & texts
const (
	roleTag  = "member_role"
	roleText = "{0} must be one of member, alumnus, officer"

	requiredTag  = "required"
	requiredText = "The {0} field is required."
)

// Validator returns the shared validator, initializing it on first use.
func Validator() (*validator.Validate, ut.Translator) {
	initOnce.Do(func() {
		validate = validator.New()
		english := en.New()
		translator, _ = ut.New(english, english).GetTranslator("en")
		_ = en_translations.RegisterDefaultTranslations(validate, translator)

		// Use JSON tag names for errors instead of Go struct names.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		_ = validate.RegisterValidation(roleTag, func(fl validator.FieldLevel) bool {
			return models.Role(fl.Field().String()).Valid()
		})
		registerTranslation(roleTag, roleText, false)
		registerTranslation(requiredTag, requiredText, true)
	})
	return validate, translator
}

func registerTranslation(tag, text string, override bool) {
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, override) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Struct validates v and converts failures into a 422 CustomError keyed by
// dotted JSON paths, e.g. "divisions.0.name".
func Struct(v interface{}) error {
	val, trans := Validator()
	err := val.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		key := fieldPath(fe.Namespace())
		fields[key] = append(fields[key], fe.Translate(trans))
	}
	return types.NewValidationError("The given data was invalid.", fields)
}

// fieldPath turns "CreateFormInput.divisions[0].name" into "divisions.0.name"
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		namespace = namespace[i+1:]
	}
	namespace = strings.ReplaceAll(namespace, "[", ".")
	return strings.ReplaceAll(namespace, "]", "")
}
