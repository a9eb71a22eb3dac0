// Package progress implements the multi-bar progress reporter and
// session summary (§7): one line per in-flight tool install, updated in
// place on a TTY, falling back to plain sequential log lines otherwise.
package progress

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
)

var (
	styleRunning = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	styleDone    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleFailed  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

type state string

const (
	stateRunning state = "running"
	stateDone    state = "done"
	stateFailed  state = "failed"
)

// Reporter tracks per-tool install progress and renders it either as a
// redrawn multi-line block (TTY) or as discrete log lines (non-TTY, e.g.
// CI), matching the teacher's existing "disable fancy output off-TTY"
// convention (its `MVX_VERBOSE` gate).
type Reporter struct {
	mu      sync.Mutex
	out     io.Writer
	logger  *log.Logger
	isTTY   bool
	order   []string
	message map[string]string
	status  map[string]state
	lines   int // number of lines last drawn, for redraw
}

// NewReporter builds a Reporter writing to w. The isatty check runs against
// w when it is an *os.File; a non-file writer is treated as non-interactive.
func NewReporter(w io.Writer) *Reporter {
	tty := false
	if f, ok := w.(*os.File); ok {
		tty = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Reporter{
		out:     w,
		logger:  log.NewWithOptions(w, log.Options{ReportTimestamp: !tty}),
		isTTY:   tty,
		message: make(map[string]string),
		status:  make(map[string]state),
	}
}

// Start registers short as running with an initial message.
func (r *Reporter) Start(short, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, seen := r.status[short]; !seen {
		r.order = append(r.order, short)
	}
	r.status[short] = stateRunning
	r.message[short] = message
	r.render()
}

// Update changes short's in-progress message without altering its status.
func (r *Reporter) Update(short, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.message[short] = message
	r.render()
}

// Done marks short as succeeded.
func (r *Reporter) Done(short, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status[short] = stateDone
	r.message[short] = message
	r.render()
}

// Failed marks short as failed.
func (r *Reporter) Failed(short, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status[short] = stateFailed
	r.message[short] = message
	r.render()
}

// render draws the current state. On a TTY it rewrites the previous block
// in place; otherwise every call appends one fresh log line for every
// tracked tool, including tools whose status has not changed since the
// last render.
func (r *Reporter) render() {
	if !r.isTTY {
		r.renderPlain()
		return
	}

	if r.lines > 0 {
		fmt.Fprintf(r.out, "\x1b[%dA\x1b[J", r.lines)
	}
	for _, short := range r.order {
		fmt.Fprintln(r.out, r.formatLine(short))
	}
	r.lines = len(r.order)
}

func (r *Reporter) renderPlain() {
	for _, short := range r.order {
		r.logger.Info(r.message[short], "tool", short, "status", string(r.status[short]))
	}
}

func (r *Reporter) formatLine(short string) string {
	status := r.status[short]
	msg := r.message[short]
	switch status {
	case stateDone:
		return styleDone.Render(fmt.Sprintf("✔ %s: %s", short, msg))
	case stateFailed:
		return styleFailed.Render(fmt.Sprintf("✘ %s: %s", short, msg))
	default:
		return styleRunning.Render(fmt.Sprintf("… %s: %s", short, msg))
	}
}

// Summary is the end-of-run tally the Install Scheduler's Result maps onto.
type Summary struct {
	Succeeded []string
	Failed    []string
	Blocked   []string
}

// PrintSummary renders a one-block session summary after the reporter's
// live output settles, sorted for deterministic output.
func (r *Reporter) PrintSummary(s Summary) {
	sort.Strings(s.Succeeded)
	sort.Strings(s.Failed)
	sort.Strings(s.Blocked)

	var b strings.Builder
	if len(s.Succeeded) > 0 {
		fmt.Fprintf(&b, "%s %s\n", styleDone.Render("✔ installed:"), strings.Join(s.Succeeded, ", "))
	}
	if len(s.Failed) > 0 {
		fmt.Fprintf(&b, "%s %s\n", styleFailed.Render("✘ failed:"), strings.Join(s.Failed, ", "))
	}
	if len(s.Blocked) > 0 {
		fmt.Fprintf(&b, "%s %s\n", styleFailed.Render("⊘ blocked:"), strings.Join(s.Blocked, ", "))
	}
	fmt.Fprint(r.out, b.String())
}
