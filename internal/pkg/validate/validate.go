package validate

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// v is the package-level singleton validator. It is initialised once at
// package load time. Any custom type registrations must be made during init()
// before the first call to Struct.
var v = validator.New()

// FieldErrors reports which fields of a request failed validation and why.
// It satisfies error so callers can return it directly.
type FieldErrors struct {
	Fields map[string]string `json:"fields"`
}

func (e *FieldErrors) Error() string {
	var msgs []string
	for field, reason := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("field '%s' failed '%s'", field, reason))
	}
	return strings.Join(msgs, "; ")
}

// Struct validates the given struct using its validate tags.
// Returns a *FieldErrors carrying per-field detail, or nil.
func Struct(s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	fe := &FieldErrors{Fields: make(map[string]string, len(ve))}
	for _, f := range ve {
		fe.Fields[f.Field()] = f.Tag()
	}
	return fe
}
