package main

import (
	"fmt"
	"strings"
	"time"

	"baghchal/trainer"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Width(18)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

type doneMsg struct{ err error }

type tickMsg time.Time

// progressModel renders trainer progress until training ends or the user
// quits.
type progressModel struct {
	updates <-chan trainer.Progress
	done    <-chan error
	cancel  func()

	latest  trainer.Progress
	started time.Time
	recent  []string
	err     error
	ended   bool
}

func newProgressModel(updates <-chan trainer.Progress, done <-chan error, cancel func()) progressModel {
	return progressModel{
		updates: updates,
		done:    done,
		cancel:  cancel,
		started: time.Now(),
	}
}

func tick() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForProgress(updates <-chan trainer.Progress) tea.Cmd {
	return func() tea.Msg {
		return <-updates
	}
}

func waitForDone(done <-chan error) tea.Cmd {
	return func() tea.Msg {
		return doneMsg{err: <-done}
	}
}

func (m progressModel) Init() tea.Cmd {
	return tea.Batch(waitForProgress(m.updates), waitForDone(m.done), tick())
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			m.cancel()
		}
	case tickMsg:
		if m.ended {
			return m, nil
		}
		return m, tick()
	case trainer.Progress:
		m.latest = msg
		m.recent = append([]string{fmt.Sprintf("episode %d: %s", msg.Episode, msg.Winner)}, m.recent...)
		if len(m.recent) > 8 {
			m.recent = m.recent[:8]
		}
		return m, waitForProgress(m.updates)
	case doneMsg:
		m.err = msg.err
		m.ended = true
		return m, tea.Quit
	}
	return m, nil
}

func (m progressModel) View() string {
	p := m.latest
	row := func(label, value string) string {
		return labelStyle.Render(label) + value + "\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Baghchal self-play") + "\n\n")
	b.WriteString(row("Episode", fmt.Sprintf("%d / %d", p.Episode, p.Episodes)))
	b.WriteString(row("Elapsed", time.Since(m.started).Round(time.Second).String()))
	b.WriteString(row("Tiger win rate", fmt.Sprintf("%.2f", p.Window.TigerWinRate)))
	b.WriteString(row("Goat win rate", fmt.Sprintf("%.2f", p.Window.GoatWinRate)))
	b.WriteString(row("Draw rate", fmt.Sprintf("%.2f", p.Window.DrawRate)))
	b.WriteString(row("Mean moves", fmt.Sprintf("%.1f", p.Window.MeanMoves)))
	b.WriteString(row("Mean captures", fmt.Sprintf("%.2f", p.Window.MeanCaptures)))
	b.WriteString(row("Epsilon", fmt.Sprintf("tiger %.4f  goat %.4f", p.TigerEpsilon, p.GoatEpsilon)))
	b.WriteString(row("States", fmt.Sprintf("tiger %d  goat %d", p.TigerStates, p.GoatStates)))

	if len(p.Evaluations) > 0 {
		b.WriteString("\nLast evaluation\n")
		for _, e := range p.Evaluations {
			b.WriteString(row(e.Player+" vs "+e.Opponent, fmt.Sprintf("%.2f", e.WinRate())))
		}
	}

	b.WriteString("\nRecent episodes\n")
	for _, r := range m.recent {
		b.WriteString(r + "\n")
	}

	out := boxStyle.Render(b.String()) + "\n"
	switch {
	case m.ended && m.err != nil:
		out += fmt.Sprintf("stopped: %v\n", m.err)
	case m.ended:
		out += "training complete\n"
	default:
		out += "Press q to stop.\n"
	}
	return out
}
