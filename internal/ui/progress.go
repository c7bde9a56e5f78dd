// Package ui renders pipeline progress in the terminal.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"wingstl/internal/buildpipeline"
)

type progressModel struct {
	title   string
	events  <-chan buildpipeline.Event
	spinner spinner.Model
	prog    progress.Model
	items   []stageItem
	index   map[buildpipeline.Stage]int
	width   int
	done    bool
}

type stageItem struct {
	stage  buildpipeline.Stage
	status buildpipeline.Status
	detail string
}

type eventMsg buildpipeline.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that follows pipeline events until
// the channel is closed.
func NewProgressModel(title string, events <-chan buildpipeline.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	stages := buildpipeline.Stages()
	items := make([]stageItem, len(stages))
	index := make(map[buildpipeline.Stage]int, len(stages))
	for i, st := range stages {
		items[i] = stageItem{stage: st, status: buildpipeline.StatusQueued}
		index[st] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		items:   items,
		index:   index,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(buildpipeline.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = max(msg.Width-4, 10)
		}
		return m, nil
	case progress.FrameMsg:
		pm, cmd := m.prog.Update(msg)
		m.prog = pm.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(truncate(header, m.width)))
	b.WriteString("\n\n")

	detailWidth := max(m.width-26, 10)
	for _, item := range m.items {
		status := styleStatus(item.status).Render(fmt.Sprintf("%9s", item.status))
		line := fmt.Sprintf("  %s %-9s", status, item.stage)
		if item.detail != "" {
			line += " " + truncate(item.detail, detailWidth)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev buildpipeline.Event) tea.Cmd {
	idx, ok := m.index[ev.Stage]
	if !ok {
		return nil
	}
	item := &m.items[idx]
	item.status = ev.Status
	switch {
	case ev.Err != nil:
		item.detail = ev.Err.Error()
	case ev.Total > 0:
		item.detail = fmt.Sprintf("station %d/%d", ev.Done, ev.Total)
	case ev.Status == buildpipeline.StatusDone:
		item.detail = fmt.Sprintf("%.1f ms", float64(ev.Elapsed.Microseconds())/1000)
	case ev.Detail != "":
		item.detail = ev.Detail
	}
	return m.prog.SetPercent(m.fraction())
}

// fraction weights each finished stage equally; the mesh stage also counts stations.
func (m *progressModel) fraction() float64 {
	var total float64
	for _, item := range m.items {
		switch item.status {
		case buildpipeline.StatusDone, buildpipeline.StatusError, buildpipeline.StatusSkipped:
			total++
		}
	}
	if i, ok := m.index[buildpipeline.StageMesh]; ok && m.items[i].status == buildpipeline.StatusWorking {
		var done, all int
		if _, err := fmt.Sscanf(m.items[i].detail, "station %d/%d", &done, &all); err == nil && all > 0 {
			total += float64(done) / float64(all)
		}
	}
	return total / float64(len(m.items))
}

func styleStatus(status buildpipeline.Status) lipgloss.Style {
	switch status {
	case buildpipeline.StatusDone:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case buildpipeline.StatusError:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case buildpipeline.StatusWorking:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
