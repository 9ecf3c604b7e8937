package selfplay

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const recentMatches = 10

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Width(18)
	valueStyle = lipgloss.NewStyle().Bold(true)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// ProgressModel is the bubbletea view of a self-play run. It quits once
// the updates channel is closed.
type ProgressModel struct {
	total    int
	played   int
	wins     [3]int
	inferred int
	correct  int
	rounds   int64
	start    time.Time
	recent   []string
	done     bool

	updates <-chan MatchUpdate
	counter *atomic.Int64
}

func NewProgressModel(total int, updates <-chan MatchUpdate, counter *atomic.Int64) ProgressModel {
	return ProgressModel{
		total:   total,
		start:   time.Now(),
		updates: updates,
		counter: counter,
	}
}

type tickMsg time.Time

type doneMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForUpdate(updates <-chan MatchUpdate) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-updates
		if !ok {
			return doneMsg{}
		}
		return u
	}
}

func (m ProgressModel) Init() tea.Cmd {
	return tea.Batch(waitForUpdate(m.updates), tickCmd())
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case tickMsg:
		if m.counter != nil {
			m.rounds = m.counter.Load()
		}
		return m, tickCmd()
	case MatchUpdate:
		m.played++
		m.wins[msg.Winner]++
		m.inferred += msg.Inferred
		m.correct += msg.Correct
		line := fmt.Sprintf("%s: winner %d after %d rounds", msg.MatchID, msg.Winner, msg.Rounds)
		m.recent = append([]string{line}, m.recent...)
		if len(m.recent) > recentMatches {
			m.recent = m.recent[:recentMatches]
		}
		return m, waitForUpdate(m.updates)
	case doneMsg:
		m.done = true
		if m.counter != nil {
			m.rounds = m.counter.Load()
		}
		return m, tea.Quit
	}
	return m, nil
}

func (m ProgressModel) View() string {
	elapsed := time.Since(m.start)
	var perSec float64
	if elapsed >= time.Second {
		perSec = float64(m.rounds) / elapsed.Seconds()
	}
	accuracy := 0.0
	if m.inferred > 0 {
		accuracy = 100 * float64(m.correct) / float64(m.inferred)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("overdrive self-play") + "\n\n")
	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Matches", fmt.Sprintf("%d / %d", m.played, m.total))
	row("Wins (p1/p2/draw)", fmt.Sprintf("%d / %d / %d", m.wins[1], m.wins[2], m.wins[0]))
	row("Rounds", fmt.Sprintf("%d", m.rounds))
	row("Rounds/sec", fmt.Sprintf("%.1f", perSec))
	row("Inference", fmt.Sprintf("%.1f%% of %d", accuracy, m.inferred))
	row("Elapsed", elapsed.Round(time.Second).String())

	b.WriteString("\nRecent matches:\n")
	for _, r := range m.recent {
		b.WriteString("  " + r + "\n")
	}
	if m.done {
		b.WriteString("\nDone.\n")
	} else {
		b.WriteString("\n" + helpStyle.Render("Press q to quit.") + "\n")
	}
	return b.String()
}
