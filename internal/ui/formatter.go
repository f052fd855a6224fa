package ui

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"

	"thinline/internal/annotation"
	"thinline/internal/config"
	"thinline/internal/discovery"
	"thinline/internal/domain"
	"thinline/internal/registry"
)

var (
	cyan   = color.New(color.FgCyan)
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	white  = color.New(color.FgWhite)
)

// Formatter formats and displays output
type Formatter struct {
	config *config.Config
	out    io.Writer
}

// NewFormatter creates a new Formatter writing to out
func NewFormatter(cfg *config.Config, out io.Writer) *Formatter {
	return &Formatter{
		config: cfg,
		out:    out,
	}
}

func (f *Formatter) line(c *color.Color, format string, args ...any) {
	c.Fprintf(f.out, format+"\n", args...)
}

// relPath returns path relative to the project for cleaner display
func (f *Formatter) relPath(path string) string {
	rel, err := filepath.Rel(f.config.ProjectPath, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

// PrintMetaStats displays the statistics of a run and the tree of failures
func (f *Formatter) PrintMetaStats(output *domain.RunOutput) {
	meta := output.Meta

	// Print header
	fmt.Fprint(f.out, "\n")
	f.line(cyan, "╔═══════════════════════════════════════════════════════════════╗")
	f.line(cyan, "║                    Check Evaluation Statistics                ║")
	f.line(cyan, "╚═══════════════════════════════════════════════════════════════╝\n")

	rows := []struct {
		label string
		value string
		c     *color.Color
	}{
		{"Test Cases", fmt.Sprint(meta.TotalCases), white},
		{"Total Checks", fmt.Sprint(meta.TotalChecks), white},
		{"Passed Checks", fmt.Sprint(meta.PassedChecks), green},
		{"Failed Checks", fmt.Sprint(meta.FailedChecks), red},
		{"Skipped Checks", fmt.Sprint(meta.SkippedChecks), yellow},
		{"Duration", fmt.Sprintf("%.2fs", meta.DurationSeconds), white},
		{"Workers", fmt.Sprint(meta.Workers), white},
		{"Timestamp", meta.Timestamp, white},
	}

	// Print table
	fmt.Fprintln(f.out, "┌─────────────────────────────────┬─────────────────────────────┐")
	for i, row := range rows {
		fmt.Fprintf(f.out, "│ %-31s │ ", row.label)
		row.c.Fprintf(f.out, "%-27s │\n", row.value)
		if i < len(rows)-1 {
			fmt.Fprintln(f.out, "├─────────────────────────────────┼─────────────────────────────┤")
		}
	}
	fmt.Fprintln(f.out, "└─────────────────────────────────┴─────────────────────────────┘")

	// Print summary line
	fmt.Fprintln(f.out)
	if meta.FailedChecks == 0 {
		f.line(green, "✓ All checks passed!")
	} else {
		f.line(red, "✗ %d check(s) failed", meta.FailedChecks)
		fmt.Fprintln(f.out)
		f.printFailedChecksTree(output.Details)
	}
	if meta.RunID != "" {
		fmt.Fprintf(f.out, "\nrun %s\n", meta.RunID)
	}
}

// TreeNode represents a node in the file tree structure
type TreeNode struct {
	Name     string
	Children map[string]*TreeNode
	Failures []domain.CaseFailure
	IsFile   bool
}

// printFailedChecksTree prints a tree of failed checks grouped by file
func (f *Formatter) printFailedChecksTree(failures []domain.CaseFailure) {
	if len(failures) == 0 {
		return
	}

	// Group failures by file path
	fileMap := make(map[string][]domain.CaseFailure)
	for _, failure := range failures {
		path := f.relPath(failure.FilePath)
		fileMap[path] = append(fileMap[path], failure)
	}

	root := &TreeNode{
		Name:     "",
		Children: make(map[string]*TreeNode),
		IsFile:   false,
	}

	for filePath, fileFailures := range fileMap {
		parts := strings.Split(strings.TrimPrefix(filepath.ToSlash(filePath), "./"), "/")
		current := root

		// Navigate/create tree nodes for each path part
		for i, part := range parts {
			if part == "" {
				continue
			}

			if current.Children[part] == nil {
				current.Children[part] = &TreeNode{
					Name:     part,
					Children: make(map[string]*TreeNode),
					IsFile:   i == len(parts)-1,
				}
			}

			current = current.Children[part]

			// If this is the file (last part), add failures
			if i == len(parts)-1 {
				current.Failures = fileFailures
			}
		}
	}

	f.printTreeNode(root, "", true)
}

func (f *Formatter) printTreeNode(node *TreeNode, prefix string, isRoot bool) {
	// Sort children for consistent output
	var keys []string
	for key := range node.Children {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for i, key := range keys {
		child := node.Children[key]
		isLastChild := i == len(keys)-1

		var connector string
		if isRoot {
			connector = ""
		} else if isLastChild {
			connector = prefix + "└── "
		} else {
			connector = prefix + "├── "
		}

		if child.IsFile {
			f.line(yellow, "%s%s", connector, child.Name)
		} else {
			f.line(cyan, "%s%s", connector, child.Name)
		}

		var newPrefix string
		if isRoot {
			newPrefix = ""
		} else if isLastChild {
			newPrefix = prefix + "    "
		} else {
			newPrefix = prefix + "│   "
		}

		// Print failed checks if this is a file
		for j, failure := range child.Failures {
			casePrefix := newPrefix + "├── "
			if j == len(child.Failures)-1 {
				casePrefix = newPrefix + "└── "
			}
			f.line(red, "%s%s %s", casePrefix, failure.CaseID, failure.Message)
		}

		f.printTreeNode(child, newPrefix, false)
	}
}

// FailedCaseIDs returns the case IDs with unresolved failures in output
func FailedCaseIDs(output *domain.RunOutput) map[string]struct{} {
	failed := make(map[string]struct{})
	if output == nil {
		return failed
	}
	for _, d := range output.Details {
		if !d.Resolved {
			failed[d.CaseID] = struct{}{}
		}
	}
	return failed
}

// PrintFunctionList prints the annotated functions grouped by file,
// optionally with their test cases. Cases in failed are marked with [F] in
// red (from last run)
func (f *Formatter) PrintFunctionList(entries []registry.Entry, showCases bool, failed map[string]struct{}) {
	files := make(map[string][]registry.Entry)
	var order []string
	cases := 0
	for _, e := range entries {
		if _, ok := files[e.Function.File]; !ok {
			order = append(order, e.Function.File)
		}
		files[e.Function.File] = append(files[e.Function.File], e)
		cases += len(e.Cases)
	}
	sort.Strings(order)

	f.line(green, "Found %d annotated function(s) with %d test case(s) in %d file(s):\n", len(entries), cases, len(order))

	for i, file := range order {
		isLastFile := i == len(order)-1
		if isLastFile {
			f.line(cyan, "└── %s", f.relPath(file))
		} else {
			f.line(cyan, "├── %s", f.relPath(file))
		}
		filePrefix := "│   "
		if isLastFile {
			filePrefix = "    "
		}

		fileEntries := files[file]
		for j, e := range fileEntries {
			isLastFn := j == len(fileEntries)-1
			connector := "├── "
			fnPrefix := filePrefix + "│   "
			if isLastFn {
				connector = "└── "
				fnPrefix = filePrefix + "    "
			}

			fn := e.Function
			fmt.Fprintf(f.out, "%s%s%s(%s) %s\n", filePrefix, connector,
				yellow.Sprint(fn.ScopedName()), strings.Join(fn.Parameters, ", "),
				white.Sprintf("[%d case(s), line %d]", len(e.Cases), fn.Line))

			if !showCases {
				continue
			}
			for k, tc := range e.Cases {
				caseConnector := "├── "
				if k == len(e.Cases)-1 {
					caseConnector = "└── "
				}
				marker := ""
				if _, ok := failed[tc.ID()]; ok {
					marker = " " + red.Sprint("[F]")
				}
				fmt.Fprintf(f.out, "%s%s%s (%d check(s))%s\n", fnPrefix, caseConnector, tc.ID(), len(tc.Expectations), marker)
			}
		}

		// Add spacing between files (except for the last one)
		if i < len(order)-1 {
			fmt.Fprintln(f.out)
		}
	}
}

// PrintDiagnostics prints problems found while reading annotations
func (f *Formatter) PrintDiagnostics(diags []discovery.Diagnostic) {
	if len(diags) == 0 {
		f.line(green, "✓ All annotations are valid")
		return
	}

	f.line(red, "✗ %d function(s) with invalid annotations:\n", len(diags))
	for _, d := range diags {
		f.line(yellow, "%s:%d %s", f.relPath(d.Function.File), d.Function.Line, d.Function.ScopedName())
		parseErrs := d.ParseErrors()
		if len(parseErrs) == 0 {
			f.line(red, "    %v", d.Err)
			continue
		}
		for _, pe := range parseErrs {
			f.line(red, "    %s", pe.Error())
		}
	}
}

// PrintFormatted prints the canonical rendering of every test case
func (f *Formatter) PrintFormatted(entries []registry.Entry) {
	for i, e := range entries {
		if i > 0 {
			fmt.Fprintln(f.out)
		}
		f.line(cyan, "# %s:%d %s", f.relPath(e.Function.File), e.Function.Line, e.Function.ScopedName())
		for _, tc := range e.Cases {
			fmt.Fprint(f.out, annotation.Format(tc))
		}
	}
}

// PrintFailures prints the failure tree of a recorded run
func (f *Formatter) PrintFailures(runID string, failures []domain.CaseFailure) {
	if len(failures) == 0 {
		f.line(green, "✓ run %s has no failed checks", runID)
		return
	}
	f.line(red, "✗ run %s: %d check(s) failed\n", runID, len(failures))
	f.printFailedChecksTree(failures)
}

// PrintHistory prints recorded runs, most recent first
func (f *Formatter) PrintHistory(runs []domain.RunMeta) {
	if len(runs) == 0 {
		f.line(yellow, "No recorded runs")
		return
	}

	fmt.Fprintf(f.out, "%-36s  %-25s  %7s  %7s  %7s  %10s\n", "RUN", "TIMESTAMP", "PASSED", "FAILED", "SKIPPED", "DURATION")
	for _, r := range runs {
		status := green
		if r.FailedChecks > 0 {
			status = red
		}
		status.Fprintf(f.out, "%-36s  %-25s  %7d  %7d  %7d  %10s\n",
			r.RunID, r.Timestamp, r.PassedChecks, r.FailedChecks, r.SkippedChecks, r.Duration)
	}
}
