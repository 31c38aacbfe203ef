// Package validate checks request structs with go-playground/validator and
// reports the first failure as a perr validation error named after the flag
package validate

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	perr "qabundle/internal/platform/errors"
	"qabundle/internal/platform/logger"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// repoIDPattern accepts "name" or "namespace/name" hub identifiers
var repoIDPattern = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9._-]{0,95}/)?[A-Za-z0-9][A-Za-z0-9._-]{0,95}$`)

// configNamePattern is one path segment: it names a shard directory
var configNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,63}$`)

// IsRepoID reports whether s is a valid hub repository id
func IsRepoID(s string) bool {
	return repoIDPattern.MatchString(s) && !strings.Contains(s, "..") && !strings.HasSuffix(s, ".git")
}

// IsConfigName reports whether s is usable as a dataset config name
func IsConfigName(s string) bool {
	return configNamePattern.MatchString(s) && !strings.Contains(s, "..")
}

type engine struct {
	v  *validator.Validate
	tr ut.Translator
}

// rule is a custom tag: check is nil for built-in tags whose message is replaced
type rule struct {
	tag   string
	check validator.Func
	text  string
	param bool
}

var rules = []rule{
	{tag: "max", text: "{0} must be at most {1} characters", param: true},
	{tag: "repo_id", text: "{0} must look like namespace/name", check: func(fl validator.FieldLevel) bool {
		return IsRepoID(fl.Field().String())
	}},
	{tag: "config_name", text: "{0} must be letters, digits, '.', '_' or '-'", check: func(fl validator.FieldLevel) bool {
		return IsConfigName(fl.Field().String())
	}},
}

var get = sync.OnceValue(func() engine {
	loc := en.New()
	tr, _ := ut.New(loc, loc).GetTranslator("en")

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(fieldName)
	_ = en_translations.RegisterDefaultTranslations(v, tr)

	for _, r := range rules {
		if r.check != nil {
			_ = v.RegisterValidation(r.tag, r.check)
		}
		_ = v.RegisterTranslation(r.tag, tr,
			func(t ut.Translator) error { return t.Add(r.tag, r.text, true) },
			func(t ut.Translator, fe validator.FieldError) string {
				args := []string{fe.Field()}
				if r.param {
					args = append(args, fe.Param())
				}
				msg, _ := t.T(r.tag, args...)
				return msg
			},
		)
	}
	return engine{v: v, tr: tr}
})

// fieldName names a field by its name tag (the CLI flag), then json, then Go name
func fieldName(f reflect.StructField) string {
	for _, key := range []string{"name", "json"} {
		tag, _, _ := strings.Cut(f.Tag.Get(key), ",")
		if tag != "" && tag != "-" {
			return tag
		}
	}
	return f.Name
}

// Struct validates v. The error names the first failing field
func Struct(v any) error {
	err := get().v.Struct(v)
	if err == nil {
		return nil
	}
	var inv *validator.InvalidValidationError
	if errors.As(err, &inv) {
		logger.Get().Error().Err(inv).Msg("validator misuse")
		return perr.Wrap(inv, perr.ErrorCodeUnknown, "validation error")
	}
	field, msg := fieldMessage(err)
	return perr.WithField(perr.New(perr.ErrorCodeValidation, msg), field)
}

// fieldMessage returns the first failing field and its English message
func fieldMessage(err error) (field, msg string) {
	var fails validator.ValidationErrors
	switch {
	case err == nil:
		return "", ""
	case errors.As(err, &fails) && len(fails) > 0:
		return fails[0].Field(), fails[0].Translate(get().tr)
	default:
		return "", err.Error()
	}
}
