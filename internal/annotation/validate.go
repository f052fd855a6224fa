package annotation

import (
	"errors"
	"fmt"
	"strings"

	"thinline/internal/domain"
)

// Validate checks that every expectation of tc names exactly the parameters
// of fn: none missing, none extra
func Validate(fn domain.Function, tc domain.TestCase) error {
	params := make(map[string]bool, len(fn.Parameters))
	for _, p := range fn.Parameters {
		params[p] = true
	}

	for _, exp := range tc.Expectations {
		var unknown, missing []string
		given := make(map[string]bool, len(exp.Arguments))
		for _, a := range exp.Arguments {
			given[a.Name] = true
			if !params[a.Name] {
				unknown = append(unknown, a.Name)
			}
		}
		for _, p := range fn.Parameters {
			if !given[p] {
				missing = append(missing, p)
			}
		}
		if len(unknown) == 0 && len(missing) == 0 {
			continue
		}

		var details []string
		if len(unknown) > 0 {
			details = append(details, fmt.Sprintf("%s has no parameter %s", fn.Name, strings.Join(unknown, ", ")))
		}
		if len(missing) > 0 {
			details = append(details, fmt.Sprintf("missing %s", strings.Join(missing, ", ")))
		}
		return newError(ErrArgumentMismatch, tc.ID(), exp.Line, "%s", strings.Join(details, "; "))
	}
	return nil
}

// ParseFunction parses the documentation of fn and keeps the blocks whose
// expectations match its parameters. Errors of dropped blocks are joined
func ParseFunction(fn domain.Function) ([]domain.TestCase, error) {
	cases, err := Parse(fn.Doc)
	errs := []error{err}

	valid := cases[:0:0]
	for _, tc := range cases {
		if verr := Validate(fn, tc); verr != nil {
			errs = append(errs, verr)
			continue
		}
		valid = append(valid, tc)
	}
	return valid, errors.Join(errs...)
}
