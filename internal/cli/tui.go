package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/pathlinker/pkg/ksp"
	"github.com/matzehuels/pathlinker/pkg/pipeline"
)

// visiblePaths is how many of the most recent paths the live view shows.
const visiblePaths = 10

type pathMsg ksp.RankedPath

type runDoneMsg struct {
	res *pipeline.Result
	err error
}

type tickMsg time.Time

// RunProgressModel shows paths as they are found. Pressing q or ctrl+c
// calls cancel; the model quits once the run reports back.
type RunProgressModel struct {
	K       int
	Paths   []ksp.RankedPath
	Result  *pipeline.Result
	Err     error
	Stopped bool

	cancel func()
	start  time.Time
	now    time.Time
	frame  int
}

func NewRunProgressModel(k int, cancel func()) RunProgressModel {
	now := time.Now()
	return RunProgressModel{K: k, cancel: cancel, start: now, now: now}
}

func (m RunProgressModel) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m RunProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if !m.Stopped {
				m.Stopped = true
				if m.cancel != nil {
					m.cancel()
				}
			}
		}
	case pathMsg:
		m.Paths = append(m.Paths, ksp.RankedPath(msg))
	case runDoneMsg:
		m.Result, m.Err = msg.res, msg.err
		return m, tea.Quit
	case tickMsg:
		m.now = time.Time(msg)
		m.frame++
		return m, tick()
	}
	return m, nil
}

func (m RunProgressModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("PathLinker"))
	b.WriteString("  ")
	elapsed := m.now.Sub(m.start).Round(100 * time.Millisecond)
	status := fmt.Sprintf("%s %d/%d paths · %s", spinnerFrames[m.frame%len(spinnerFrames)], len(m.Paths), m.K, elapsed)
	if m.Stopped {
		status = fmt.Sprintf("stopping after %d paths…", len(m.Paths))
	}
	b.WriteString(StyleDim.Render(status))
	b.WriteString("\n\n")

	shown := m.Paths
	if len(shown) > visiblePaths {
		shown = shown[len(shown)-visiblePaths:]
	}
	if len(shown) > 0 {
		b.WriteString(pathTable(shown))
		b.WriteString("\n")
	}

	b.WriteString(StyleDim.Render("q stop and keep paths found so far"))
	b.WriteString("\n")
	return b.String()
}
