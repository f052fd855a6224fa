package annotation

import (
	"strings"

	"thinline/internal/domain"
)

const indent = "    "

// Format writes a test case back in the micro-format. Parsing the result
// yields the same case
func Format(tc domain.TestCase) string {
	var b strings.Builder
	b.WriteString(startMarker + "(" + tc.ID() + ")\n")
	for _, line := range tc.Description {
		b.WriteString(indent + line + "\n")
	}
	for _, exp := range tc.Expectations {
		b.WriteString(indent + FormatExpectation(exp) + "\n")
	}
	b.WriteString(endMarker + "\n")
	return b.String()
}

// FormatExpectation renders a single expectation hook line
func FormatExpectation(exp domain.Expectation) string {
	return "#" + exp.Op.Hook() + "[" + FormatCall(exp) + "]"
}

// FormatCall renders the call part of an expectation, e.g.
// TL_FCT(no1: 2, no2: 5) => 7
func FormatCall(exp domain.Expectation) string {
	args := make([]string, len(exp.Arguments))
	for i, a := range exp.Arguments {
		args[i] = a.Name + ": " + a.Value.String()
	}
	return callName + "(" + strings.Join(args, ", ") + ") " + resultArrow + " " + exp.Expected.String()
}
