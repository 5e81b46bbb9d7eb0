// Package tui is the interactive terminal replay. It renders the
// session's mounts as braille plots and ascii graphs and drives
// playback from a single timer message stream.
package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/eqreplay/internal/playback"
	"github.com/san-kum/eqreplay/internal/session"
)

const (
	plotWidth  = 34
	plotHeight = 11
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	runningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("49")).
			Bold(true)

	stoppedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	alertStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	panelStyle = lipgloss.NewStyle().
			Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// TickMsg carries one driver expiry. The embedded tick identifies the
// run and speed the timer was armed for, so the controller can reject
// expiries from stopped or re-timed runs.
type TickMsg struct {
	Tick playback.Tick
}

func tickCmd(t playback.Tick) tea.Cmd {
	return tea.Tick(t.Period, func(time.Time) tea.Msg {
		return TickMsg{Tick: t}
	})
}

// App is the bubbletea model for the replay screen.
type App struct {
	sess     *session.Session
	surface  *TermSurface
	errs     map[string]error
	autoplay bool
	showHelp bool
}

// NewApp builds the replay screen around a session and draws the
// first frame.
func NewApp(sess *session.Session, autoplay bool) App {
	a := App{
		sess:     sess,
		surface:  NewTermSurface(plotWidth, plotHeight),
		autoplay: autoplay,
	}
	a.errs = sess.Redraw(a.surface)
	return a
}

func (a App) Init() tea.Cmd {
	if !a.autoplay {
		return nil
	}
	tick, ok := a.sess.Control.Start()
	if !ok {
		return nil
	}
	return tickCmd(tick)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(msg)

	case TickMsg:
		if !a.sess.Control.Accept(msg.Tick) {
			// Stale timer from a stopped or re-timed run.
			return a, nil
		}
		a.sess.Control.Advance()
		a.redraw()
		if next, ok := a.sess.Control.Next(); ok {
			return a, tickCmd(next)
		}
		return a, nil
	}
	return a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctrl := a.sess.Control
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit

	case " ":
		if ctrl.State() == playback.Running {
			ctrl.Stop()
			return a, nil
		}
		if tick, ok := ctrl.Start(); ok {
			return a, tickCmd(tick)
		}

	case "+", "=":
		if tick, ok := ctrl.ChangeSpeed(1); ok {
			return a, tickCmd(tick)
		}

	case "-", "_":
		if tick, ok := ctrl.ChangeSpeed(-1); ok {
			return a, tickCmd(tick)
		}

	case "right", "l":
		ctrl.Advance()
		a.redraw()

	case "left", "h":
		ctrl.Seek(ctrl.Cursor() - 1)
		a.redraw()

	case "0", "home":
		ctrl.Seek(0)
		a.redraw()

	case "$", "end":
		ctrl.Seek(ctrl.MaxIter())
		a.redraw()

	case "s":
		a.sess.Smooth = !a.sess.Smooth
		a.redraw()

	case "?":
		a.showHelp = !a.showHelp
	}
	return a, nil
}

func (a *App) redraw() {
	a.errs = a.sess.Redraw(a.surface)
}

func (a App) View() string {
	if a.showHelp {
		return a.helpView()
	}

	ctrl := a.sess.Control
	var s strings.Builder

	s.WriteString(headerStyle.Render("EQUILIBRIUM REPLAY"))
	s.WriteString("\n")

	state := stoppedStyle.Render("stopped")
	if ctrl.State() == playback.Running {
		state = runningStyle.Render("running")
	}
	s.WriteString(statusStyle.Render(fmt.Sprintf("iter %d/%d", ctrl.Cursor(), ctrl.MaxIter())))
	s.WriteString("  " + state)
	s.WriteString(statusStyle.Render("  " + ctrl.RatioLabel()))
	s.WriteString("\n\n")

	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Render(a.surface.Block(session.MountStrategy)),
		panelStyle.Render(a.surface.Block(session.MountAvgStrategy)),
	))
	s.WriteString("\n")

	if block := a.surface.Block(session.MountPayoff); block != "" {
		s.WriteString(panelStyle.Render(block))
		s.WriteString("\n")
	}
	if block := a.surface.Block(session.MountReplay); block != "" {
		s.WriteString(panelStyle.Render(labelStyle.Render("actions  ") + block))
		s.WriteString("\n")
	}

	for _, mount := range sortedMounts(a.errs) {
		s.WriteString(alertStyle.Render(fmt.Sprintf("! %s: %v", mount, a.errs[mount])))
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("space: start/stop  +/-: speed  ←/→: scrub  0/$: ends  s: smooth  ?: help  q: quit"))
	return s.String()
}

func (a App) helpView() string {
	help := `
  ╔════════════════════════════════════════╗
  ║           KEYBOARD SHORTCUTS           ║
  ╠════════════════════════════════════════╣
  ║  Space     Start / stop playback       ║
  ║  + / =     Faster                      ║
  ║  - / _     Slower                      ║
  ║  → / l     Step forward                ║
  ║  ← / h     Step back                   ║
  ║  0 / $     Jump to first / last iter   ║
  ║  s         Toggle payoff smoothing     ║
  ║  ?         Close this help             ║
  ║  q         Quit                        ║
  ╚════════════════════════════════════════╝
`
	return headerStyle.Render("EQUILIBRIUM REPLAY") + "\n" + helpStyle.Render(help)
}

func sortedMounts(errs map[string]error) []string {
	mounts := make([]string, 0, len(errs))
	for mount := range errs {
		mounts = append(mounts, mount)
	}
	sort.Strings(mounts)
	return mounts
}

// Run shows the replay screen and blocks until the user quits.
func Run(sess *session.Session, autoplay bool) error {
	p := tea.NewProgram(NewApp(sess, autoplay))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run replay: %w", err)
	}
	return nil
}
