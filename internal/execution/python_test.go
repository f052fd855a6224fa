package execution

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thinline/internal/domain"
)

func TestDecodePythonReply(t *testing.T) {
	tests := []struct {
		name    string
		out     string
		want    domain.Literal
		wantErr bool
	}{
		{"integer", `{"value": 7}`, domain.Int(7), false},
		{"float", `{"value": 7.4}`, domain.Float(7.4), false},
		{"text", `{"value": "blablub"}`, domain.Text("blablub"), false},
		{"noise before result", "debug print\n{\"value\": 1}\n", domain.Int(1), false},
		{"exception", `{"error": "ZeroDivisionError: division by zero"}`, domain.Literal{}, true},
		{"list result", `{"value": [1, 2]}`, domain.Literal{}, true},
		{"empty output", "", domain.Literal{}, true},
		{"not json", "Traceback", domain.Literal{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodePythonReply([]byte(tt.out))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodePythonReply_Skip(t *testing.T) {
	_, err := DecodePythonReply([]byte(`{"skip": "cannot create Needs without arguments"}`))
	assert.ErrorIs(t, err, ErrNoRunner)
	assert.ErrorContains(t, err, "Needs")
}

const methodsSource = `class Calc:
    def __init__(self):
        self.offset = 0

    def add(self, a, b):
        return a + b + self.offset

    @classmethod
    def named(cls, suffix):
        return cls.__name__ + suffix

    def plain_cls(cls, suffix):
        return cls.__name__ + suffix

    @staticmethod
    def twice(a):
        return a * 2


class Needs:
    def __init__(self, x):
        self.x = x

    def get(self, a):
        return a
`

func TestPythonRunner_Methods(t *testing.T) {
	python, err := exec.LookPath("python3")
	if err != nil {
		t.Skip("python3 not available")
	}

	src := filepath.Join(t.TempDir(), "calc.py")
	require.NoError(t, os.WriteFile(src, []byte(methodsSource), 0644))
	runner := NewPythonRunner(python, "")
	ctx := context.Background()

	tests := []struct {
		name  string
		scope string
		args  map[string]domain.Literal
		want  domain.Literal
	}{
		{"add", "Calc", map[string]domain.Literal{"a": domain.Int(2), "b": domain.Int(5)}, domain.Int(7)},
		{"named", "Calc", map[string]domain.Literal{"suffix": domain.Text("!")}, domain.Text("Calc!")},
		{"plain_cls", "Calc", map[string]domain.Literal{"suffix": domain.Text("?")}, domain.Text("Calc?")},
		{"twice", "Calc", map[string]domain.Literal{"a": domain.Int(4)}, domain.Int(8)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runner.Run(ctx, domain.Function{File: src, Scope: tt.scope, Name: tt.name}, tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err = runner.Run(ctx, domain.Function{File: src, Scope: "Needs", Name: "get"},
		map[string]domain.Literal{"a": domain.Int(1)})
	assert.ErrorIs(t, err, ErrNoRunner)
}

func TestEvaluator_PythonMethodWithoutDefaultConstructorIsSkipped(t *testing.T) {
	python, err := exec.LookPath("python3")
	if err != nil {
		t.Skip("python3 not available")
	}

	src := filepath.Join(t.TempDir(), "calc.py")
	require.NoError(t, os.WriteFile(src, []byte(methodsSource), 0644))

	fn := domain.Function{File: src, Scope: "Needs", Name: "get", Parameters: []string{"a"}}
	tc := domain.TestCase{Group: "get", Name: "identity", Expectations: []domain.Expectation{{
		Arguments: []domain.Argument{{Name: "a", Value: domain.Int(1)}},
		Expected:  domain.Int(1),
	}}}

	result := NewEvaluator(NewPythonRunner(python, ""), 0).Evaluate(context.Background(), Job{Function: fn, Case: tc})
	assert.True(t, result.Skipped)
	assert.False(t, result.Success)
}

func TestPythonRunner_Run(t *testing.T) {
	python, err := exec.LookPath("python3")
	if err != nil {
		t.Skip("python3 not available")
	}

	src := filepath.Join("..", "discovery", "testdata", "src1.py")
	runner := NewPythonRunner(python, "")
	ctx := context.Background()

	got, err := runner.Run(ctx, domain.Function{File: src, Name: "test_int_no1"},
		map[string]domain.Literal{"no1": domain.Int(2), "no2": domain.Int(5)})
	require.NoError(t, err)
	assert.Equal(t, domain.Int(7), got)

	got, err = runner.Run(ctx, domain.Function{File: src, Scope: "class1", Name: "test_str"},
		map[string]domain.Literal{"str1": domain.Text("bla"), "str2": domain.Text("blub")})
	require.NoError(t, err)
	assert.Equal(t, domain.Text("blablub"), got)

	got, err = runner.Run(ctx, domain.Function{File: src, Scope: "class1", Name: "test_float"},
		map[string]domain.Literal{"float1": domain.Float(4.2), "float2": domain.Float(3.2)})
	require.NoError(t, err)
	assert.True(t, domain.Float(7.4).Equal(got), "got %s", got)

	_, err = runner.Run(ctx, domain.Function{File: src, Name: "missing"}, nil)
	var pyErr *PythonError
	require.ErrorAs(t, err, &pyErr)
	assert.Contains(t, pyErr.Msg, "AttributeError")
}
