package ui

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"thinline/internal/domain"
	"thinline/internal/storage"
)

// ErrorViewer displays failed checks in an interactive TUI
type ErrorViewer struct {
	storage storage.Storage
}

// NewErrorViewer creates a new ErrorViewer
func NewErrorViewer(st storage.Storage) *ErrorViewer {
	return &ErrorViewer{
		storage: st,
	}
}

// failureBook tracks the resolved flags of a run's failures
type failureBook struct {
	output *domain.RunOutput
	st     storage.Storage
}

func (b *failureBook) len() int { return len(b.output.Details) }

// toggle flips the resolved flag of failure i and persists the run
func (b *failureBook) toggle(i int) error {
	if i < 0 || i >= b.len() {
		return nil
	}
	b.output.Details[i].Resolved = !b.output.Details[i].Resolved
	return b.st.Save(b.output)
}

func (b *failureBook) unresolved() int {
	n := 0
	for _, f := range b.output.Details {
		if !f.Resolved {
			n++
		}
	}
	return n
}

// nextUnresolved returns the first unresolved failure after from, wrapping
// around, or -1 when everything is resolved
func (b *failureBook) nextUnresolved(from int) int {
	n := b.len()
	for step := 1; step <= n; step++ {
		i := (from + step) % n
		if !b.output.Details[i].Resolved {
			return i
		}
	}
	return -1
}

func (b *failureBook) header() string {
	return fmt.Sprintf(" Failed Checks (%d total, %d unresolved) | ↑↓ navigate, [yellow]R[white] resolve, [yellow]N[white] next unresolved, → details, ← back, Ctrl+C exit ",
		b.len(), b.unresolved())
}

// View displays failed checks in an interactive TUI
func (ev *ErrorViewer) View(results *domain.RunOutput) error {
	if len(results.Details) == 0 {
		color.Green("✓ No failed checks found!")
		return nil
	}

	book := &failureBook{output: results, st: ev.storage}
	var saveErr error

	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)
	for i, failure := range results.Details {
		list.AddItem(listItemText(failure, i, failure.Resolved), "", 0, nil)
	}
	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true).
		SetText(book.header())
	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)
	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	showDetails := func(index int) {
		if index < 0 || index >= book.len() {
			return
		}
		failure := results.Details[index]
		statsView.SetText(formatFailureStats(failure, index+1))
		detailsView.SetText(formatFailureDetails(failure))
	}
	list.SetChangedFunc(func(index int, _ string, _ string, _ rune) {
		showDetails(index)
	})

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			switch event.Rune() {
			case 'r', 'R':
				index := list.GetCurrentItem()
				if err := book.toggle(index); err != nil {
					saveErr = err
				}
				list.SetItemText(index, listItemText(results.Details[index], index, results.Details[index].Resolved), "")
				headerView.SetText(book.header())
				return nil
			case 'n', 'N':
				if next := book.nextUnresolved(list.GetCurrentItem()); next >= 0 {
					list.SetCurrentItem(next)
				}
				return nil
			}
		}
		return event
	})
	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	showDetails(0)

	if err := app.SetRoot(viewerLayout(headerView, list, statsView, detailsView), true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if saveErr != nil {
		return fmt.Errorf("failed to save resolved status: %w", saveErr)
	}
	return nil
}

// viewerLayout puts the header on top, the list on the left third and the
// stats and details on the right
func viewerLayout(header, list, stats, details tview.Primitive) tview.Primitive {
	detailsContainer := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(details, 0, 1, false).
		AddItem(tview.NewBox(), 2, 0, false)

	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(stats, 3, 0, false).
		AddItem(detailsContainer, 0, 1, false)

	body := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	return tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(header, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(body, 0, 1, true)
}

// listItemText renders a failure for the list, dimmed once resolved
func listItemText(failure domain.CaseFailure, index int, resolved bool) string {
	name := failure.CaseID
	if name == "" {
		name = fmt.Sprintf("Check %d", index+1)
	}
	if resolved {
		return fmt.Sprintf("[gray]✓ [yellow]%d.[gray] %s[white]", index+1, tview.Escape(name))
	}
	return fmt.Sprintf("[yellow]%d.[white] %s", index+1, tview.Escape(name))
}

// formatFailureDetails formats a failed check for display using tview color tags ([red], [cyan], etc.)
func formatFailureDetails(failure domain.CaseFailure) string {
	var builder strings.Builder
	w := tabwriter.NewWriter(&builder, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "[red]✗ Case: %s[white]\n\n", tview.Escape(failure.CaseID))

	fmt.Fprintf(w, "[cyan]Function: %s[white]\n", tview.Escape(failure.Function))
	if failure.FilePath != "" && failure.Line > 0 {
		fmt.Fprintf(w, "[yellow]Location: %s:%d[white]\n", tview.Escape(failure.FilePath), failure.Line)
	}
	fmt.Fprintf(w, "\n")

	fmt.Fprintf(w, "[yellow]Expectation:[white]\n%s\n\n", tview.Escape(failure.Expectation))
	fmt.Fprintf(w, "[yellow]Expected:[white]\t%s\n", tview.Escape(failure.Expected))
	if failure.Actual != "" {
		fmt.Fprintf(w, "[yellow]Actual:[white]\t%s\n", tview.Escape(failure.Actual))
	}
	fmt.Fprintf(w, "\n")

	if failure.Message != "" {
		fmt.Fprintf(w, "[yellow]Message:[white]\n%s\n", tview.Escape(failure.Message))
	}

	w.Flush()
	return builder.String()
}

// formatFailureStats formats the stats header for a failed check
func formatFailureStats(failure domain.CaseFailure, number int) string {
	path := failure.FilePath
	if path == "" {
		path = "Unknown path"
	}
	caseID := failure.CaseID
	if caseID == "" {
		caseID = fmt.Sprintf("Check %d", number)
	}
	return fmt.Sprintf("[cyan]path:[white] [yellow]%s[white]::[yellow]%s[white]\n", tview.Escape(path), tview.Escape(caseID))
}
