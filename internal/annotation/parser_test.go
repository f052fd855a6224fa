package annotation

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"thinline/internal/domain"
)

const intSumDoc = `
#TL_TESTCASE(test_int_no1::check_if_sum_works)
    #TL_EQ[TL_FCT(no1: 2, no2: 5) => 7]
    #TL_EQ[TL_FCT(no1: 5, no2: 2) => 7]
    EXPECT_EQ(11, test_int_no1(9, 2));
#!TL_TESTCASE
`

const cStyleDoc = `/**
 * #TL_TESTCASE(Source1::EmptyFct)
 *     #TL_EQ[TL_FCT() => 7]
 *     #TL_NE[TL_FCT() => 4]
 * #!TL_TESTCASE
 */`

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		expected []domain.TestCase
	}{
		{
			name:     "empty documentation",
			doc:      "",
			expected: nil,
		},
		{
			name:     "documentation without markers",
			doc:      "Adds two numbers.\n\nReturns the sum.",
			expected: nil,
		},
		{
			name: "integer sum",
			doc:  intSumDoc,
			expected: []domain.TestCase{{
				Group:       "test_int_no1",
				Name:        "check_if_sum_works",
				Description: []string{"EXPECT_EQ(11, test_int_no1(9, 2));"},
				Expectations: []domain.Expectation{
					{
						Op:        domain.OpEqual,
						Arguments: []domain.Argument{{Name: "no1", Value: domain.Int(2)}, {Name: "no2", Value: domain.Int(5)}},
						Expected:  domain.Int(7),
						Line:      3,
					},
					{
						Op:        domain.OpEqual,
						Arguments: []domain.Argument{{Name: "no1", Value: domain.Int(5)}, {Name: "no2", Value: domain.Int(2)}},
						Expected:  domain.Int(7),
						Line:      4,
					},
				},
			}},
		},
		{
			name: "string concatenation",
			doc: `
    #TL_TESTCASE(test_str::check_if_str_concat_works)
        #TL_EQ[TL_FCT(str1: 'bla', str2: 'blub') => 'blablub']
    #!TL_TESTCASE
    `,
			expected: []domain.TestCase{{
				Group: "test_str",
				Name:  "check_if_str_concat_works",
				Expectations: []domain.Expectation{{
					Arguments: []domain.Argument{{Name: "str1", Value: domain.Text("bla")}, {Name: "str2", Value: domain.Text("blub")}},
					Expected:  domain.Text("blablub"),
					Line:      3,
				}},
			}},
		},
		{
			name: "float sum",
			doc: `#TL_TESTCASE(test_float::check_if_sum_works)
    #TL_EQ[TL_FCT(float1: 4.2, float2: 3.2) => 7.4]
#!TL_TESTCASE`,
			expected: []domain.TestCase{{
				Group: "test_float",
				Name:  "check_if_sum_works",
				Expectations: []domain.Expectation{{
					Arguments: []domain.Argument{{Name: "float1", Value: domain.Float(4.2)}, {Name: "float2", Value: domain.Float(3.2)}},
					Expected:  domain.Float(7.4),
					Line:      2,
				}},
			}},
		},
		{
			name: "c comment decoration and not-equal hook",
			doc:  cStyleDoc,
			expected: []domain.TestCase{{
				Group: "Source1",
				Name:  "EmptyFct",
				Expectations: []domain.Expectation{
					{Op: domain.OpEqual, Expected: domain.Int(7), Line: 3},
					{Op: domain.OpNotEqual, Expected: domain.Int(4), Line: 4},
				},
			}},
		},
		{
			name: "separators inside strings",
			doc: `#TL_TESTCASE(text::separators)
#TL_EQ[TL_FCT(a: 'x, y', b: 'k: v') => 'x, y => k: v']
#!TL_TESTCASE`,
			expected: []domain.TestCase{{
				Group: "text",
				Name:  "separators",
				Expectations: []domain.Expectation{{
					Arguments: []domain.Argument{{Name: "a", Value: domain.Text("x, y")}, {Name: "b", Value: domain.Text("k: v")}},
					Expected:  domain.Text("x, y => k: v"),
					Line:      2,
				}},
			}},
		},
		{
			name: "two blocks on one function",
			doc: `#TL_TESTCASE(g::first)
#TL_EQ[TL_FCT(a: 1) => 1]
#!TL_TESTCASE
#TL_TESTCASE(g::second)
#TL_NE[TL_FCT(a: 1) => 2]
#!TL_TESTCASE`,
			expected: []domain.TestCase{
				{
					Group: "g", Name: "first",
					Expectations: []domain.Expectation{{Arguments: []domain.Argument{{Name: "a", Value: domain.Int(1)}}, Expected: domain.Int(1), Line: 2}},
				},
				{
					Group: "g", Name: "second",
					Expectations: []domain.Expectation{{Op: domain.OpNotEqual, Arguments: []domain.Argument{{Name: "a", Value: domain.Int(1)}}, Expected: domain.Int(2), Line: 5}},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.doc)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		sentinel error
		caseID   string
		line     int
	}{
		{
			name: "missing closing marker",
			doc: `#TL_TESTCASE(test_int_no1::check_if_sum_works)
    #TL_EQ[TL_FCT(no1: 2, no2: 5) => 7]`,
			sentinel: ErrMalformedBlock,
			caseID:   "test_int_no1::check_if_sum_works",
			line:     1,
		},
		{
			name:     "closing marker without opening marker",
			doc:      "text\n#!TL_TESTCASE",
			sentinel: ErrMalformedBlock,
			line:     2,
		},
		{
			name: "nested opening marker",
			doc: `#TL_TESTCASE(a::outer)
#TL_TESTCASE(a::inner)
#TL_EQ[TL_FCT(x: 1) => 1]
#!TL_TESTCASE`,
			sentinel: ErrMalformedBlock,
			caseID:   "a::outer",
			line:     2,
		},
		{
			name:     "header without group",
			doc:      "#TL_TESTCASE(check_if_sum_works)\n#TL_EQ[TL_FCT(x: 1) => 1]\n#!TL_TESTCASE",
			sentinel: ErrMalformedBlock,
			line:     1,
		},
		{
			name:     "block without expectations",
			doc:      "#TL_TESTCASE(a::empty)\n    only words\n#!TL_TESTCASE",
			sentinel: ErrMalformedBlock,
			caseID:   "a::empty",
			line:     1,
		},
		{
			name:     "expectation missing arrow",
			doc:      "#TL_TESTCASE(a::b)\n#TL_EQ[TL_FCT(no1: 2, no2: 5) 7]\n#!TL_TESTCASE",
			sentinel: ErrMalformedExpectation,
			caseID:   "a::b",
			line:     2,
		},
		{
			name:     "two arrows",
			doc:      "#TL_TESTCASE(a::b)\n#TL_EQ[TL_FCT(x: 1) => 1 => 2]\n#!TL_TESTCASE",
			sentinel: ErrMalformedExpectation,
			caseID:   "a::b",
			line:     2,
		},
		{
			name:     "two expected values",
			doc:      "#TL_TESTCASE(a::b)\n#TL_EQ[TL_FCT(x: 1) => 1, 2]\n#!TL_TESTCASE",
			sentinel: ErrMalformedExpectation,
			caseID:   "a::b",
			line:     2,
		},
		{
			name:     "call is not TL_FCT",
			doc:      "#TL_TESTCASE(a::b)\n#TL_EQ[add(x: 1) => 1]\n#!TL_TESTCASE",
			sentinel: ErrMalformedExpectation,
			caseID:   "a::b",
			line:     2,
		},
		{
			name:     "positional argument",
			doc:      "#TL_TESTCASE(a::b)\n#TL_EQ[TL_FCT(1, 2) => 3]\n#!TL_TESTCASE",
			sentinel: ErrMalformedExpectation,
			caseID:   "a::b",
			line:     2,
		},
		{
			name:     "duplicate argument",
			doc:      "#TL_TESTCASE(a::b)\n#TL_EQ[TL_FCT(x: 1, x: 2) => 3]\n#!TL_TESTCASE",
			sentinel: ErrMalformedExpectation,
			caseID:   "a::b",
			line:     2,
		},
		{
			name:     "unknown hook",
			doc:      "#TL_TESTCASE(a::b)\n#TL_GT[TL_FCT(x: 1) => 0]\n#!TL_TESTCASE",
			sentinel: ErrMalformedExpectation,
			caseID:   "a::b",
			line:     2,
		},
		{
			name:     "identifier argument",
			doc:      "#TL_TESTCASE(a::b)\n#TL_EQ[TL_FCT(no1: test_no, no2: 5) => 7]\n#!TL_TESTCASE",
			sentinel: ErrUnsupportedLiteral,
			caseID:   "a::b",
			line:     2,
		},
		{
			name:     "boolean result",
			doc:      "#TL_TESTCASE(a::b)\n#TL_EQ[TL_FCT(x: 1) => true]\n#!TL_TESTCASE",
			sentinel: ErrUnsupportedLiteral,
			caseID:   "a::b",
			line:     2,
		},
		{
			name:     "list result",
			doc:      "#TL_TESTCASE(a::b)\n#TL_EQ[TL_FCT(x: 1) => [1, 2]]\n#!TL_TESTCASE",
			sentinel: ErrUnsupportedLiteral,
			caseID:   "a::b",
			line:     2,
		},
		{
			name:     "double-quoted string",
			doc:      "#TL_TESTCASE(a::b)\n#TL_EQ[TL_FCT(x: \"bla\") => 1]\n#!TL_TESTCASE",
			sentinel: ErrUnsupportedLiteral,
			caseID:   "a::b",
			line:     2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cases, err := Parse(tt.doc)
			if err == nil {
				t.Fatalf("expected error, got cases %v", cases)
			}
			if len(cases) != 0 {
				t.Errorf("expected failed block to be dropped, got %d cases", len(cases))
			}
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("expected %v, got %v", tt.sentinel, err)
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *ParseError, got %T", err)
			}
			if perr.CaseID != tt.caseID {
				t.Errorf("expected case id %q, got %q", tt.caseID, perr.CaseID)
			}
			if perr.Line != tt.line {
				t.Errorf("expected line %d, got %d", tt.line, perr.Line)
			}
		})
	}
}

func TestParse_FailFastPerBlock(t *testing.T) {
	doc := `#TL_TESTCASE(a::broken)
    #TL_EQ[TL_FCT(x: 1) 2]
    #TL_EQ[TL_FCT(x: foo) => 2]
#!TL_TESTCASE
#TL_TESTCASE(a::fine)
    #TL_EQ[TL_FCT(x: 1) => 2]
#!TL_TESTCASE`

	cases, err := Parse(doc)

	if len(cases) != 1 || cases[0].ID() != "a::fine" {
		t.Fatalf("expected only a::fine to survive, got %v", cases)
	}
	if !errors.Is(err, ErrMalformedExpectation) {
		t.Errorf("expected malformed expectation, got %v", err)
	}
	if errors.Is(err, ErrUnsupportedLiteral) {
		t.Error("only the first error of a block should be reported")
	}
}

func TestParse_NestedBlockReportedOnce(t *testing.T) {
	doc := `#TL_TESTCASE(a::outer)
#TL_TESTCASE(a::inner)
    #TL_EQ[TL_FCT(x: 1) => 1]
#!TL_TESTCASE
#!TL_TESTCASE
#TL_TESTCASE(a::sibling)
    #TL_EQ[TL_FCT(x: 1) => 2]
#!TL_TESTCASE`

	cases, err := Parse(doc)

	if len(cases) != 1 || cases[0].ID() != "a::sibling" {
		t.Fatalf("expected only a::sibling to survive, got %v", cases)
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		t.Fatalf("expected joined error, got %T", err)
	}
	if n := len(joined.Unwrap()); n != 1 {
		t.Errorf("expected one error for the nested block, got %d: %v", n, err)
	}
	var perr *ParseError
	if !errors.As(err, &perr) || perr.CaseID != "a::outer" || perr.Line != 2 {
		t.Errorf("unexpected error %v", err)
	}
}

func TestParse_ClassHook(t *testing.T) {
	outside := `#TL_TESTCLASS(fixture)
#TL_TESTCASE(a::one)
    #TL_EQ[TL_FCT(x: 1) => 1]
#!TL_TESTCASE`
	cases, err := Parse(outside)
	if err != nil {
		t.Fatalf("class hook outside a block should be ignored, got %v", err)
	}
	if len(cases) != 1 {
		t.Fatalf("expected 1 case, got %d", len(cases))
	}

	inside := `#TL_TESTCASE(a::one)
    #TL_TESTCLASS(fixture)
    #TL_EQ[TL_FCT(x: 1) => 1]
#!TL_TESTCASE`
	_, err = Parse(inside)
	if !errors.Is(err, ErrMalformedExpectation) {
		t.Errorf("expected malformed expectation for class hook inside a block, got %v", err)
	}
}

func TestParse_Idempotent(t *testing.T) {
	for _, doc := range []string{intSumDoc, cStyleDoc} {
		first, err := Parse(doc)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := Parse(doc)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("parsing twice differs (-first +second):\n%s", diff)
		}
	}
}

func TestFormat_RoundTrip(t *testing.T) {
	docs := []string{
		intSumDoc,
		cStyleDoc,
		`#TL_TESTCASE(text::escapes)
    quote handling
    #TL_EQ[TL_FCT(s: 'it\'s', t: 'back\\slash') => 'it\'s back\\slash']
    #TL_NE[TL_FCT(s: '', t: 'x') => -1.25]
#!TL_TESTCASE`,
	}

	ignoreLines := cmpopts.IgnoreFields(domain.Expectation{}, "Line")
	for _, doc := range docs {
		parsed, err := Parse(doc)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, tc := range parsed {
			reparsed, err := Parse(Format(tc))
			if err != nil {
				t.Fatalf("re-parse of %s failed: %v\n%s", tc.ID(), err, Format(tc))
			}
			if len(reparsed) != 1 {
				t.Fatalf("expected one case, got %d", len(reparsed))
			}
			if diff := cmp.Diff(tc, reparsed[0], ignoreLines); diff != "" {
				t.Errorf("round trip of %s differs (-want +got):\n%s", tc.ID(), diff)
			}
		}
	}
}

func TestFormatExpectation(t *testing.T) {
	exp := domain.Expectation{
		Arguments: []domain.Argument{{Name: "float1", Value: domain.Float(4.2)}, {Name: "float2", Value: domain.Float(3)}},
		Expected:  domain.Float(7.2),
	}

	got := FormatExpectation(exp)
	want := "#TL_EQ[TL_FCT(float1: 4.2, float2: 3.0) => 7.2]"
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}
