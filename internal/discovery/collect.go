package discovery

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"thinline/internal/annotation"
	"thinline/internal/domain"
	"thinline/internal/logging"
	"thinline/internal/registry"
)

// Diagnostic is a problem found while reading the annotations of a function
type Diagnostic struct {
	Function domain.Function
	Err      error
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s:%d %s: %v", d.Function.File, d.Function.Line, d.Function.ScopedName(), d.Err)
}

// Unwrap exposes the underlying error for errors.Is and errors.As
func (d Diagnostic) Unwrap() error {
	return d.Err
}

// ParseErrors flattens the joined errors of the diagnostic into the
// individual parse errors
func (d Diagnostic) ParseErrors() []*annotation.ParseError {
	var out []*annotation.ParseError
	var walk func(err error)
	walk = func(err error) {
		if err == nil {
			return
		}
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			for _, e := range joined.Unwrap() {
				walk(e)
			}
			return
		}
		var pe *annotation.ParseError
		if errors.As(err, &pe) {
			out = append(out, pe)
		}
	}
	walk(d.Err)
	return out
}

// Result of a collection pass
type Result struct {
	Files       []string
	Functions   int // functions found, annotated or not
	Registry    *registry.Registry
	Diagnostics []Diagnostic
}

// Collector runs scanning, extraction, parsing and registration
type Collector struct {
	Scanner   *Scanner
	Extractor *Extractor
	Filter    *Filter
	Logger    *zap.Logger
}

// NewCollector wires a Collector with its parts
func NewCollector(skipDirs []string, lang domain.Language, workers int, logger *zap.Logger) *Collector {
	logger = logging.OrNop(logger)
	return &Collector{
		Scanner:   NewScanner(skipDirs).WithLanguage(lang),
		Extractor: NewExtractor(workers, logger),
		Filter:    NewFilter(),
		Logger:    logger,
	}
}

// Collect scans roots, keeps files matching filePattern and registers every
// valid test case found in their documentation. Broken blocks become
// diagnostics; only I/O and syntax tree failures abort
func (c *Collector) Collect(ctx context.Context, roots []string, filePattern string) (*Result, error) {
	files, err := c.Scanner.ScanAll(roots)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	files = c.Filter.FilterByName(files, filePattern)
	c.Logger.Debug("scanned sources", zap.Strings("roots", roots), zap.Int("files", len(files)))

	fns, err := c.Extractor.ExtractAll(ctx, files)
	if err != nil {
		return nil, err
	}

	res := Register(fns)
	res.Files = files
	return res, nil
}

// Register parses the documentation of fns into a new registry
func Register(fns []domain.Function) *Result {
	res := &Result{Functions: len(fns), Registry: registry.New()}

	for _, fn := range fns {
		if !annotation.HasMarkers(fn.Doc) {
			continue
		}
		cases, err := annotation.ParseFunction(fn)
		if err != nil {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{Function: fn, Err: err})
		}
		if len(cases) == 0 {
			continue
		}
		if err := res.Registry.Register(fn, cases...); err != nil {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{Function: fn, Err: err})
		}
	}
	return res
}
