package domain

import "sort"

// Op is the comparison an expectation asserts
type Op int

const (
	OpEqual Op = iota
	OpNotEqual
)

// Hook returns the annotation hook spelling of the comparison
func (o Op) Hook() string {
	if o == OpNotEqual {
		return "TL_NE"
	}
	return "TL_EQ"
}

func (o Op) String() string {
	if o == OpNotEqual {
		return "!="
	}
	return "=="
}

// Argument binds a literal to a named parameter
type Argument struct {
	Name  string  `json:"name"`
	Value Literal `json:"value"`
}

// Expectation is a single input to output assertion of a test case.
// Arguments keep source order; the order carries no meaning
type Expectation struct {
	Op        Op         `json:"op"`
	Arguments []Argument `json:"arguments"`
	Expected  Literal    `json:"expected"`
	Line      int        `json:"line"`
}

// ArgumentNames returns the sorted argument names
func (e Expectation) ArgumentNames() []string {
	names := make([]string, 0, len(e.Arguments))
	for _, a := range e.Arguments {
		names = append(names, a.Name)
	}
	sort.Strings(names)
	return names
}

// ArgumentMap returns the arguments keyed by parameter name
func (e Expectation) ArgumentMap() map[string]Literal {
	m := make(map[string]Literal, len(e.Arguments))
	for _, a := range e.Arguments {
		m[a.Name] = a.Value
	}
	return m
}

// TestCase is a Test-Case Block extracted from a function's documentation
type TestCase struct {
	Group        string        `json:"group"`
	Name         string        `json:"name"`
	Description  []string      `json:"description,omitempty"`
	Expectations []Expectation `json:"expectations"`
}

// ID returns the dotted case identifier group::name
func (tc TestCase) ID() string {
	return tc.Group + "::" + tc.Name
}
