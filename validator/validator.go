package validator

import (
	"slices"
	"strings"

	"github.com/nicolasparada/go-errs"
)

// Validator collects field errors of an input.
// It satisfies the go-errs invalid argument kind so transport maps it to 400.
type Validator struct {
	Errors map[string][]string
}

func New() *Validator {
	return &Validator{
		Errors: map[string][]string{},
	}
}

func (v *Validator) AddError(field, message string) {
	if v.Errors == nil {
		v.Errors = make(map[string][]string)
	}
	v.Errors[field] = append(v.Errors[field], message)
}

// Check adds message to field unless ok.
func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.AddError(field, message)
	}
}

func (v *Validator) HasErrors() bool {
	return len(v.Errors) > 0
}

// Error lists every field in lexical order.
func (v *Validator) Error() string {
	fields := make([]string, 0, len(v.Errors))
	for field := range v.Errors {
		fields = append(fields, field)
	}
	slices.Sort(fields)

	var sb strings.Builder
	for i, field := range fields {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(field)
		sb.WriteString(": ")
		sb.WriteString(strings.Join(v.Errors[field], ", "))
	}
	return sb.String()
}

func (v *Validator) Kind() errs.Kind { return errs.KindInvalidArgument }

func (v *Validator) Is(target error) bool { return target == errs.InvalidArgument }

func (v *Validator) AsError() error {
	if v.HasErrors() {
		return v
	}
	return nil
}
