// Package validation validates request payloads and renders field errors the way
// the API reports them: field name -> messages.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	validate   *validator.Validate
	translator ut.Translator

	phoneTag   = "phone"
	phoneText  = "{0} must be a valid phone number"
	phoneRegex = regexp.MustCompile(`^\+?[0-9]{8,15}$`)
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Report json/form names instead of Go field names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	_ = validate.RegisterValidation(phoneTag, func(fl validator.FieldLevel) bool {
		return phoneRegex.MatchString(fl.Field().String())
	})
	registerTranslation(phoneTag, phoneText)
}

func registerTranslation(tag, text string) {
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, false) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Errors maps a field name to its messages.
type Errors map[string][]string

// Error is returned when a payload fails validation.
type Error struct {
	Fields Errors
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, strings.Join(e.Fields[k], "; "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a message for field.
func (e *Error) Add(field, msg string) *Error {
	if e.Fields == nil {
		e.Fields = Errors{}
	}
	e.Fields[field] = append(e.Fields[field], msg)
	return e
}

// FieldError builds an Error with a single message.
func FieldError(field, msg string) *Error {
	return (&Error{}).Add(field, msg)
}

// Struct validates v and returns *Error on failure.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &Error{}
	for _, fe := range verrs {
		out.Add(fe.Field(), fe.Translate(translator))
	}
	return out
}

// As extracts an *Error from err.
func As(err error) (*Error, bool) {
	var ve *Error
	ok := errors.As(err, &ve)
	return ve, ok
}
