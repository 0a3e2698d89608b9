package controller

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	m "github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/model"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	faintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	caughtStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	missedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	timeoutStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	syntaxStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	hunkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

const barWidth = 40

// TUI implements UI with a Bubble Tea status view while a run is active.
// Outside of a run it prints like SimpleUI.
type TUI struct {
	simple *SimpleUI

	mu      sync.Mutex
	program *tea.Program
	done    chan struct{}
}

// NewTUI creates a new TUI writing to cmd's output.
func NewTUI(cmd *cobra.Command) *TUI {
	return &TUI{simple: NewSimpleUI(cmd)}
}

// Start launches the status view.
func (t *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.program != nil {
		return fmt.Errorf("ui already started")
	}

	cfg := startConfig(options)

	t.program = tea.NewProgram(
		newStatusModel(cfg.mode),
		tea.WithOutput(t.simple.cmd.OutOrStdout()),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)
	t.done = make(chan struct{})

	program, done := t.program, t.done

	go func() {
		defer close(done)

		if _, err := program.Run(); err != nil {
			t.simple.printf("ui: %v\n", err)
		}
	}()

	return nil
}

// Close stops the status view after its final frame is drawn.
func (t *TUI) Close(_ context.Context) {
	t.mu.Lock()
	program, done := t.program, t.done
	t.program = nil
	t.mu.Unlock()

	if program == nil {
		return
	}

	program.Quit()
	<-done
}

// Wait blocks until the status view has exited.
func (t *TUI) Wait(ctx context.Context) {
	t.mu.Lock()
	done := t.done
	t.mu.Unlock()

	if done == nil {
		return
	}

	select {
	case <-done:
	case <-ctx.Done():
	}
}

// send delivers msg to the running view. It reports false when no view is
// running.
func (t *TUI) send(msg tea.Msg) bool {
	t.mu.Lock()
	program := t.program
	t.mu.Unlock()

	if program == nil {
		return false
	}

	program.Send(msg)

	return true
}

// DisplayGenerationSummary renders the per-target table below the view.
func (t *TUI) DisplayGenerationSummary(ctx context.Context, summary m.GenerationSummary) {
	if !t.send(footerMsg(renderGenerationTable(summary))) {
		t.simple.DisplayGenerationSummary(ctx, summary)
	}
}

// DisplayConcurrencyInfo shows concurrency settings.
func (t *TUI) DisplayConcurrencyInfo(ctx context.Context, workers, shardIndex, shardCount int) {
	if !t.send(concurrencyMsg{workers: workers, shardIndex: shardIndex, shardCount: shardCount}) {
		t.simple.DisplayConcurrencyInfo(ctx, workers, shardIndex, shardCount)
	}
}

// DisplayUpcomingTestsInfo shows the number of mutants left to test.
func (t *TUI) DisplayUpcomingTestsInfo(ctx context.Context, count int) {
	if !t.send(upcomingMsg(count)) {
		t.simple.DisplayUpcomingTestsInfo(ctx, count)
	}
}

// DisplayStartingTestInfo marks a worker busy.
func (t *TUI) DisplayStartingTestInfo(ctx context.Context, job m.Job, workerID int) {
	if !t.send(startedMsg{label: jobLabel(job), worker: workerID}) {
		t.simple.DisplayStartingTestInfo(ctx, job, workerID)
	}
}

// DisplayCompletedTestInfo advances the progress bar.
func (t *TUI) DisplayCompletedTestInfo(ctx context.Context, job m.Job, outcome m.Outcome, progress m.Progress) {
	if !t.send(completedMsg{label: jobLabel(job), outcome: outcome, progress: progress}) {
		t.simple.DisplayCompletedTestInfo(ctx, job, outcome, progress)
	}
}

// DisplayMutationScore shows the final score below the view.
func (t *TUI) DisplayMutationScore(ctx context.Context, progress m.Progress) {
	if !t.send(footerMsg(titleStyle.Render(scoreLine(progress)))) {
		t.simple.DisplayMutationScore(ctx, progress)
	}
}

// DisplayStats prints the stats table in format.
func (t *TUI) DisplayStats(ctx context.Context, stats m.StatsTable, format StatsFormat) error {
	return t.simple.DisplayStats(ctx, stats, format)
}

// DisplayDiff prints a unified diff with colored hunks.
func (t *TUI) DisplayDiff(ctx context.Context, diff string) {
	t.simple.DisplayDiff(ctx, colorDiff(diff))
}

func colorDiff(diff string) string {
	if diff == "" {
		return diff
	}

	lines := strings.SplitAfter(diff, "\n")

	for i, line := range lines {
		text := strings.TrimSuffix(line, "\n")
		newline := line[len(text):]

		switch {
		case strings.HasPrefix(text, "+++"), strings.HasPrefix(text, "---"):
			lines[i] = faintStyle.Render(text) + newline
		case strings.HasPrefix(text, "@@"):
			lines[i] = hunkStyle.Render(text) + newline
		case strings.HasPrefix(text, "+"):
			lines[i] = caughtStyle.Render(text) + newline
		case strings.HasPrefix(text, "-"):
			lines[i] = missedStyle.Render(text) + newline
		}
	}

	return strings.Join(lines, "")
}

type (
	concurrencyMsg struct{ workers, shardIndex, shardCount int }
	upcomingMsg    int
	startedMsg     struct {
		label  string
		worker int
	}
	completedMsg struct {
		label    string
		outcome  m.Outcome
		progress m.Progress
	}
	footerMsg string
)

// statusModel is the Bubble Tea model of a running generate or test command.
type statusModel struct {
	mode     StartMode
	spinner  spinner.Model
	bar      progress.Model
	workers  int
	shard    string
	upcoming int
	running  map[string]int
	progress m.Progress
	footer   []string
}

func newStatusModel(mode StartMode) statusModel {
	return statusModel{
		mode:    mode,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(hunkStyle)),
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(barWidth)),
		running: make(map[string]int),
	}
}

func (sm statusModel) Init() tea.Cmd {
	return sm.spinner.Tick
}

func (sm statusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		sm.spinner, cmd = sm.spinner.Update(msg)

		return sm, cmd

	case concurrencyMsg:
		sm.workers = msg.workers
		sm.shard = fmt.Sprintf("%d/%d", msg.shardIndex, msg.shardCount)

	case upcomingMsg:
		sm.upcoming = int(msg)

	case startedMsg:
		sm.running[msg.label] = msg.worker

	case completedMsg:
		delete(sm.running, msg.label)
		sm.progress = msg.progress

		// Undetected mutants stay visible above the view.
		if msg.outcome.Status == m.Missed || msg.outcome.Status == m.Error {
			return sm, tea.Println(statusStyle(msg.outcome.Status).Render(msg.outcome.Status.String()) + " " + msg.label)
		}

	case footerMsg:
		sm.footer = append(sm.footer, string(msg))
	}

	return sm, nil
}

func (sm statusModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("mutator"))
	b.WriteString("\n")

	if sm.mode == ModeGenerate {
		if len(sm.footer) == 0 {
			fmt.Fprintf(&b, "%s generating mutants\n", sm.spinner.View())
		}

		sm.writeFooter(&b)

		return b.String()
	}

	fmt.Fprintf(&b, "%s\n", faintStyle.Render(fmt.Sprintf("workers %d, shard %s, upcoming %d", sm.workers, sm.shard, sm.upcoming)))

	percent := 0.0
	if sm.progress.Total > 0 {
		percent = float64(sm.progress.Completed) / float64(sm.progress.Total)
	}

	fmt.Fprintf(&b, "%s %d/%d\n", sm.bar.ViewAs(percent), sm.progress.Completed, sm.progress.Total)
	fmt.Fprintf(&b, "%s  %s  %s  %s  %s\n",
		caughtStyle.Render(fmt.Sprintf("caught %d", sm.progress.Caught)),
		missedStyle.Render(fmt.Sprintf("missed %d", sm.progress.Missed)),
		timeoutStyle.Render(fmt.Sprintf("timeout %d", sm.progress.TimedOut)),
		syntaxStyle.Render(fmt.Sprintf("syntax %d", sm.progress.SyntaxErrors)),
		faintStyle.Render(fmt.Sprintf("error %d", sm.progress.Errors)),
	)

	labels := make([]string, 0, len(sm.running))
	for label := range sm.running {
		labels = append(labels, label)
	}

	slices.SortFunc(labels, func(a, b string) int {
		return sm.running[a] - sm.running[b]
	})

	for _, label := range labels {
		fmt.Fprintf(&b, "%s worker %d %s\n", sm.spinner.View(), sm.running[label], label)
	}

	sm.writeFooter(&b)

	return b.String()
}

func (sm statusModel) writeFooter(b *strings.Builder) {
	for _, line := range sm.footer {
		b.WriteString(line)

		if !strings.HasSuffix(line, "\n") {
			b.WriteString("\n")
		}
	}
}

func statusStyle(status m.TestStatus) lipgloss.Style {
	switch status {
	case m.Caught:
		return caughtStyle
	case m.Missed:
		return missedStyle
	case m.TimedOut:
		return timeoutStyle
	case m.SyntaxError:
		return syntaxStyle
	default:
		return faintStyle
	}
}
