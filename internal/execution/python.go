package execution

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"thinline/internal/domain"
)

// pythonShim loads the source file as a module, resolves the scoped function
// name and prints the JSON encoded result or error. Methods taking self are
// called on an instance built without arguments, methods taking cls on the
// class; a class that cannot be built that way is reported as a skip
const pythonShim = `import functools, importlib.util, inspect, json, os, sys
sys.dont_write_bytecode = True
path, qualname, raw = sys.argv[1], sys.argv[2], sys.argv[3]
sys.path.insert(0, os.path.dirname(os.path.abspath(path)))
try:
    spec = importlib.util.spec_from_file_location("thinline_target", path)
    mod = importlib.util.module_from_spec(spec)
    spec.loader.exec_module(mod)
    owner, target = None, mod
    for part in qualname.split("."):
        owner, target = target, getattr(target, part)
    if inspect.isclass(owner):
        attr = inspect.getattr_static(owner, qualname.rsplit(".", 1)[-1])
        params = list(inspect.signature(attr).parameters) if inspect.isfunction(attr) else []
        if params[:1] == ["self"]:
            try:
                instance = owner()
            except Exception as exc:
                print(json.dumps({"skip": "cannot create %s without arguments: %s" % (owner.__name__, exc)}))
                sys.exit(0)
            target = functools.partial(attr, instance)
        elif params[:1] == ["cls"]:
            target = functools.partial(attr, owner)
    value = target(**json.loads(raw))
    if isinstance(value, bool) or not isinstance(value, (int, float, str)):
        raise TypeError("result %r is not an int, float or str" % (value,))
    print(json.dumps({"value": value}))
except Exception as exc:
    print(json.dumps({"error": "%s: %s" % (type(exc).__name__, exc)}))
    sys.exit(1)
`

// PythonRunner evaluates Python functions in a python3 subprocess
type PythonRunner struct {
	python string
	dir    string
}

// NewPythonRunner creates a PythonRunner using the given interpreter, run
// from dir
func NewPythonRunner(python, dir string) *PythonRunner {
	return &PythonRunner{python: python, dir: dir}
}

type pythonReply struct {
	Value any    `json:"value"`
	Error string `json:"error"`
	Skip  string `json:"skip"`
}

// Run implements Runner
func (r *PythonRunner) Run(ctx context.Context, fn domain.Function, args map[string]domain.Literal) (domain.Literal, error) {
	raw, err := json.Marshal(args)
	if err != nil {
		return domain.Literal{}, fmt.Errorf("encode arguments: %w", err)
	}

	path := fn.File
	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	cmd := exec.CommandContext(ctx, r.python, "-c", pythonShim, path, fn.ScopedName(), string(raw))
	cmd.Env = os.Environ()
	cmd.Dir = r.dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	runErr := cmd.Run()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return domain.Literal{}, ctxErr
	}

	lit, decodeErr := DecodePythonReply(stdout.Bytes())
	if decodeErr == nil {
		return lit, nil
	}
	if runErr != nil {
		var pyErr *PythonError
		if errors.As(decodeErr, &pyErr) {
			return domain.Literal{}, decodeErr
		}
		return domain.Literal{}, fmt.Errorf("%s: %w: %s", r.python, runErr, strings.TrimSpace(stderr.String()))
	}
	return domain.Literal{}, decodeErr
}

// PythonError is an exception raised by the evaluated function
type PythonError struct {
	Msg string
}

func (e *PythonError) Error() string {
	return "python: " + e.Msg
}

// DecodePythonReply decodes the last line printed by the shim. A skip reply
// wraps ErrNoRunner
func DecodePythonReply(out []byte) (domain.Literal, error) {
	out = bytes.TrimSpace(out)
	if i := bytes.LastIndexByte(out, '\n'); i >= 0 {
		out = out[i+1:]
	}
	if len(out) == 0 {
		return domain.Literal{}, fmt.Errorf("python produced no result")
	}

	dec := json.NewDecoder(bytes.NewReader(out))
	dec.UseNumber()
	var reply pythonReply
	if err := dec.Decode(&reply); err != nil {
		return domain.Literal{}, fmt.Errorf("decode python result %q: %w", out, err)
	}
	if reply.Error != "" {
		return domain.Literal{}, &PythonError{Msg: reply.Error}
	}
	if reply.Skip != "" {
		return domain.Literal{}, fmt.Errorf("%w: %s", ErrNoRunner, reply.Skip)
	}
	return domain.LiteralFromJSON(reply.Value)
}
