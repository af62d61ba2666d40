package wizard

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Messages maps a field path to the text shown for it. Keys are "path.tag" or "path";
// list indices in a path are written as [] ("ticketTypes[].name.required").
type Messages map[string]string

var (
	structValidator = newStructValidator()
	indexPattern    = regexp.MustCompile(`\[\d+\]`)
)

func newStructValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		}
		return name
	})
	return v
}

// ValidateStruct checks the validate tags of form and reports one message per field,
// keyed by its JSON path.
func ValidateStruct(form interface{}, msgs Messages) FieldErrors {
	errs := FieldErrors{}
	err := structValidator.Struct(form)
	if err == nil {
		return errs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs["form"] = err.Error()
		return errs
	}
	for _, fe := range verrs {
		path := fe.Namespace()
		if i := strings.IndexByte(path, '.'); i >= 0 {
			path = path[i+1:]
		}
		if _, seen := errs[path]; !seen {
			errs[path] = msgs.lookup(path, fe.Tag())
		}
	}
	return errs
}

func (m Messages) lookup(path, tag string) string {
	generic := indexPattern.ReplaceAllString(path, "[]")
	if msg, ok := m[generic+"."+tag]; ok {
		return msg
	}
	if msg, ok := m[generic]; ok {
		return msg
	}
	return path + " is invalid"
}
