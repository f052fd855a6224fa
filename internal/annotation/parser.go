// Package annotation reads and writes the test-case micro-format embedded in
// documentation comments:
//
//	#TL_TESTCASE(<group>::<case_name>)
//	    <description lines>
//	    #TL_EQ[TL_FCT(<param>: <literal>, ...) => <literal>]
//	#!TL_TESTCASE
//
// Parsing is a pure transformation from text to domain.TestCase values.
package annotation

import (
	"errors"
	"regexp"
	"strings"

	"thinline/internal/domain"
)

const (
	startMarker = "#TL_TESTCASE"
	endMarker   = "#!TL_TESTCASE"
	hookPrefix  = "#TL_"
	callName    = "TL_FCT"
	resultArrow = "=>"
)

var (
	headerPattern     = regexp.MustCompile(`^#TL_TESTCASE\(([^\s:()]+)::([^\s:()]+)\)$`)
	identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// NormalizeLines splits a documentation blob into lines and strips comment
// decoration (leading whitespace, '*' and '/') and trailing whitespace
func NormalizeLines(doc string) []string {
	raw := strings.Split(doc, "\n")
	lines := make([]string, len(raw))
	for i, line := range raw {
		lines[i] = strings.TrimRight(strings.TrimLeft(line, " \t*/"), " \t\r")
	}
	return lines
}

// HasMarkers reports whether doc contains any test case marker at all
func HasMarkers(doc string) bool {
	return strings.Contains(doc, startMarker) || strings.Contains(doc, endMarker)
}

// Parse extracts every test case block from doc. A doc without markers yields
// no cases and no error.
//
// Each block fails on its first error and is dropped; parsing continues after
// the block's closing marker so sibling blocks are still returned. The
// returned error joins one *ParseError per failed block
func Parse(doc string) ([]domain.TestCase, error) {
	if !HasMarkers(doc) {
		return nil, nil
	}

	var (
		cases     []domain.TestCase
		errs      []error
		current   *domain.TestCase
		open      bool
		failed    bool
		startLine int
		nested    int // start markers seen inside the open block
	)

	for i, line := range NormalizeLines(doc) {
		lineNo := i + 1

		switch {
		case strings.HasPrefix(line, endMarker):
			if !open {
				errs = append(errs, newError(ErrMalformedBlock, "", lineNo, "%s without %s", endMarker, startMarker))
				continue
			}
			if nested > 0 {
				nested--
				continue
			}
			if !failed {
				if len(current.Expectations) == 0 {
					errs = append(errs, newError(ErrMalformedBlock, current.ID(), startLine, "block has no expectations"))
				} else {
					cases = append(cases, *current)
				}
			}
			open, failed, current = false, false, nil

		case strings.HasPrefix(line, startMarker):
			if open {
				nested++
				if !failed {
					errs = append(errs, newError(ErrMalformedBlock, current.ID(), lineNo, "%s inside block opened on line %d", startMarker, startLine))
					failed = true
				}
				continue
			}
			open, startLine = true, lineNo
			tc, err := parseHeader(line, lineNo)
			if err != nil {
				errs = append(errs, err)
				failed = true
				continue
			}
			current = tc

		case !open || failed || line == "":
			continue

		case strings.HasPrefix(line, hookPrefix):
			exp, err := parseExpectation(line, lineNo, current.ID())
			if err != nil {
				errs = append(errs, err)
				failed = true
				continue
			}
			current.Expectations = append(current.Expectations, exp)

		default:
			current.Description = append(current.Description, line)
		}
	}

	if open && !failed {
		errs = append(errs, newError(ErrMalformedBlock, current.ID(), startLine, "missing %s", endMarker))
	}

	return cases, errors.Join(errs...)
}

func parseHeader(line string, lineNo int) (*domain.TestCase, error) {
	m := headerPattern.FindStringSubmatch(line)
	if m == nil {
		return nil, newError(ErrMalformedBlock, "", lineNo, "header %q is not %s(<group>::<case_name>)", line, startMarker)
	}
	return &domain.TestCase{Group: m[1], Name: m[2]}, nil
}

func parseExpectation(line string, lineNo int, caseID string) (domain.Expectation, error) {
	fail := func(sentinel error, format string, args ...any) (domain.Expectation, error) {
		return domain.Expectation{}, newError(sentinel, caseID, lineNo, format, args...)
	}

	var exp domain.Expectation
	var rest string
	switch {
	case strings.HasPrefix(line, "#"+domain.OpEqual.Hook()):
		exp.Op, rest = domain.OpEqual, line[len(domain.OpEqual.Hook())+1:]
	case strings.HasPrefix(line, "#"+domain.OpNotEqual.Hook()):
		exp.Op, rest = domain.OpNotEqual, line[len(domain.OpNotEqual.Hook())+1:]
	default:
		hook, _, _ := strings.Cut(line[1:], "[")
		return fail(ErrMalformedExpectation, "unknown hook %s", hook)
	}
	exp.Line = lineNo

	rest = strings.TrimSpace(rest)
	if !strings.HasPrefix(rest, "[") || !strings.HasSuffix(rest, "]") {
		return fail(ErrMalformedExpectation, "expected %s[...]", exp.Op.Hook())
	}
	inner := rest[1 : len(rest)-1]

	parts := splitOutsideQuotes(inner, resultArrow)
	switch {
	case len(parts) < 2:
		return fail(ErrMalformedExpectation, "missing %s", resultArrow)
	case len(parts) > 2:
		return fail(ErrMalformedExpectation, "more than one %s", resultArrow)
	}

	call := strings.TrimSpace(parts[0])
	if !strings.HasPrefix(call, callName) {
		return fail(ErrMalformedExpectation, "expected %s(...) before %s", callName, resultArrow)
	}
	argList := strings.TrimSpace(call[len(callName):])
	if !strings.HasPrefix(argList, "(") || !strings.HasSuffix(argList, ")") {
		return fail(ErrMalformedExpectation, "%s arguments must be enclosed in parentheses", callName)
	}

	args, err := parseArguments(argList[1:len(argList)-1], lineNo, caseID)
	if err != nil {
		return domain.Expectation{}, err
	}
	exp.Arguments = args

	expected := strings.TrimSpace(parts[1])
	if expected == "" {
		return fail(ErrMalformedExpectation, "missing expected value")
	}
	if len(splitOutsideQuotes(expected, ",")) > 1 {
		return fail(ErrMalformedExpectation, "more than one expected value in %q", expected)
	}
	lit, err := ParseLiteral(expected)
	if err != nil {
		return fail(ErrUnsupportedLiteral, "%s", literalDetail(err))
	}
	exp.Expected = lit
	return exp, nil
}

func parseArguments(s string, lineNo int, caseID string) ([]domain.Argument, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	var args []domain.Argument
	seen := make(map[string]bool)
	for _, part := range splitOutsideQuotes(s, ",") {
		name, value, ok := strings.Cut(part, ":")
		name, value = strings.TrimSpace(name), strings.TrimSpace(value)
		switch {
		case !ok:
			return nil, newError(ErrMalformedExpectation, caseID, lineNo, "argument %q is not <name>: <value>", strings.TrimSpace(part))
		case !identifierPattern.MatchString(name):
			return nil, newError(ErrMalformedExpectation, caseID, lineNo, "invalid argument name %q", name)
		case seen[name]:
			return nil, newError(ErrMalformedExpectation, caseID, lineNo, "argument %s given twice", name)
		case value == "":
			return nil, newError(ErrMalformedExpectation, caseID, lineNo, "argument %s has no value", name)
		}
		seen[name] = true

		lit, err := ParseLiteral(value)
		if err != nil {
			return nil, newError(ErrUnsupportedLiteral, caseID, lineNo, "argument %s: %s", name, literalDetail(err))
		}
		args = append(args, domain.Argument{Name: name, Value: lit})
	}
	return args, nil
}

func literalDetail(err error) string {
	return strings.TrimPrefix(err.Error(), ErrUnsupportedLiteral.Error()+": ")
}
