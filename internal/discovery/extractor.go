package discovery

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/python"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"thinline/internal/domain"
	"thinline/internal/logging"
)

// Extractor finds functions and their documentation in source files
type Extractor struct {
	workers int
	logger  *zap.Logger
}

// NewExtractor creates an Extractor running up to workers files at once
func NewExtractor(workers int, logger *zap.Logger) *Extractor {
	if workers < 1 {
		workers = 1
	}
	return &Extractor{workers: workers, logger: logging.OrNop(logger)}
}

// Extract parses one file and returns every function it defines or declares.
// Functions without documentation are returned too, with an empty Doc
func (e *Extractor) Extract(ctx context.Context, path string) ([]domain.Function, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", path, err)
	}
	return e.ExtractSource(ctx, path, content)
}

// ExtractSource is Extract for content already in memory
func (e *Extractor) ExtractSource(ctx context.Context, path string, content []byte) ([]domain.Function, error) {
	lang := domain.LanguageForPath(path)

	parser := sitter.NewParser()
	defer parser.Close()

	switch lang {
	case domain.LanguagePython:
		parser.SetLanguage(python.GetLanguage())
	case domain.LanguageC:
		parser.SetLanguage(c.GetLanguage())
	case domain.LanguageCPP:
		parser.SetLanguage(cpp.GetLanguage())
	default:
		return nil, fmt.Errorf("unsupported source file %s", path)
	}

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	defer tree.Close()

	w := &walker{path: path, lang: lang, src: content}
	if lang == domain.LanguagePython {
		w.python(tree.RootNode(), "")
	} else {
		w.clang(tree.RootNode(), "")
	}

	e.logger.Debug("extracted functions",
		zap.String("file", path),
		zap.Int("functions", len(w.functions)))
	return w.functions, nil
}

// ExtractAll extracts every file concurrently. Results keep the order of
// paths. The first error cancels the remaining work
func (e *Extractor) ExtractAll(ctx context.Context, paths []string) ([]domain.Function, error) {
	results := make([][]domain.Function, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, path := range paths {
		g.Go(func() error {
			fns, err := e.Extract(ctx, path)
			if err != nil {
				return err
			}
			results[i] = fns
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []domain.Function
	for _, fns := range results {
		all = append(all, fns...)
	}
	return all, nil
}

// walker accumulates the functions of one syntax tree
type walker struct {
	path      string
	lang      domain.Language
	src       []byte
	functions []domain.Function
}

func (w *walker) add(node *sitter.Node, scope, name string, params []string, docs ...string) {
	var parts []string
	for _, d := range docs {
		if d != "" {
			parts = append(parts, d)
		}
	}
	w.functions = append(w.functions, domain.Function{
		File:       w.path,
		Language:   w.lang,
		Scope:      scope,
		Name:       name,
		Parameters: params,
		Doc:        strings.Join(parts, "\n"),
		Line:       int(node.StartPoint().Row) + 1,
	})
}

func (w *walker) text(n *sitter.Node) string {
	return n.Content(w.src)
}

func joinScope(scope, name string) string {
	if scope == "" {
		return name
	}
	if name == "" {
		return scope
	}
	return scope + "." + name
}

// SortFunctions orders functions by file, then line
func SortFunctions(fns []domain.Function) {
	sort.SliceStable(fns, func(i, j int) bool {
		if fns[i].File != fns[j].File {
			return fns[i].File < fns[j].File
		}
		return fns[i].Line < fns[j].Line
	})
}
