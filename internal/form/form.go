// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package form is a terminal form that collects a mashup order, checks it,
// and runs the pipeline while showing the current stage.
package form

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pdiddy/mashup-engine/internal/pipeline"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)
)

// Runner executes one order and reports each stage as it begins.
type Runner func(ctx context.Context, req pipeline.Request, onStage func(pipeline.Stage)) (pipeline.Result, error)

// State is the form's phase.
type State int

const (
	StateEditing State = iota
	StateRunning
	StateDone
)

const (
	fieldSubject = iota
	fieldCount
	fieldDuration
	fieldRecipient
	numFields
)

var labels = [numFields]string{
	"Singer name",
	"Number of videos",
	"Duration of each clip (seconds)",
	"Email",
}

type (
	stageMsg pipeline.Stage

	doneMsg struct {
		result pipeline.Result
		err    error
	}
)

// Model is the Bubble Tea model for the form.
type Model struct {
	state   State
	inputs  [numFields]textinput.Model
	focus   int
	invalid error

	spinner spinner.Model
	stage   pipeline.Stage
	stages  chan pipeline.Stage

	result pipeline.Result
	err    error

	runner Runner
	ctx    context.Context
	cancel context.CancelFunc
}

// New returns a form that submits to runner.
func New(ctx context.Context, runner Runner) Model {
	var inputs [numFields]textinput.Model
	placeholders := [numFields]string{"Sharry Maan", "20", "30", "you@example.com"}
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 200
		ti.Width = 40
		inputs[i] = ti
	}
	inputs[fieldCount].CharLimit = 4
	inputs[fieldDuration].CharLimit = 4
	inputs[fieldSubject].Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	ctx, cancel := context.WithCancel(ctx)
	return Model{
		inputs:  inputs,
		spinner: sp,
		runner:  runner,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit
		case "esc":
			if m.state != StateRunning {
				m.cancel()
				return m, tea.Quit
			}
			m.cancel()
			return m, nil
		}
		if m.state == StateDone {
			if msg.String() == "q" || msg.String() == "enter" {
				return m, tea.Quit
			}
			return m, nil
		}
		if m.state == StateEditing {
			switch msg.String() {
			case "tab", "down":
				return m.move(1), nil
			case "shift+tab", "up":
				return m.move(-1), nil
			case "enter":
				if m.focus < fieldRecipient {
					return m.move(1), nil
				}
				return m.submit()
			}
		}

	case spinner.TickMsg:
		if m.state != StateRunning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case stageMsg:
		m.stage = pipeline.Stage(msg)
		return m, waitStage(m.stages)

	case doneMsg:
		m.state = StateDone
		m.result = msg.result
		m.err = msg.err
		return m, nil
	}

	if m.state == StateEditing {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) move(delta int) Model {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + numFields) % numFields
	m.inputs[m.focus].Focus()
	return m
}

// Request parses the inputs. Non-numeric counts parse as zero and are
// rejected by Validate.
func (m Model) Request() pipeline.Request {
	count, _ := strconv.Atoi(strings.TrimSpace(m.inputs[fieldCount].Value()))
	duration, _ := strconv.Atoi(strings.TrimSpace(m.inputs[fieldDuration].Value()))
	return pipeline.Request{
		Subject:      strings.TrimSpace(m.inputs[fieldSubject].Value()),
		VideoCount:   count,
		ClipDuration: duration,
		Recipient:    strings.TrimSpace(m.inputs[fieldRecipient].Value()),
	}
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	req := m.Request()
	if err := req.Validate(); err != nil {
		m.invalid = err
		return m, nil
	}
	m.invalid = nil
	m.state = StateRunning
	m.stages = make(chan pipeline.Stage, 8)
	return m, tea.Batch(m.spinner.Tick, m.start(req), waitStage(m.stages))
}

// start runs the pipeline off the UI goroutine and closes the stage
// channel when it returns.
func (m Model) start(req pipeline.Request) tea.Cmd {
	ctx, runner, stages := m.ctx, m.runner, m.stages
	return func() tea.Msg {
		defer close(stages)
		res, err := runner(ctx, req, func(s pipeline.Stage) { stages <- s })
		return doneMsg{result: res, err: err}
	}
}

func waitStage(stages <-chan pipeline.Stage) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-stages
		if !ok {
			return nil
		}
		return stageMsg(s)
	}
}

// State returns the current phase.
func (m Model) State() State { return m.state }

// Result returns the run result and error once the form is done.
func (m Model) Result() (pipeline.Result, error) { return m.result, m.err }

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Mashup"))
	b.WriteString("\n")

	switch m.state {
	case StateEditing:
		for i, in := range m.inputs {
			b.WriteString(labelStyle.Render(labels[i]))
			b.WriteString("\n")
			b.WriteString(in.View())
			b.WriteString("\n\n")
		}
		if m.invalid != nil {
			for _, line := range strings.Split(m.invalid.Error(), "\n") {
				b.WriteString(errorStyle.Render("✗ " + line))
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}
		b.WriteString(dimStyle.Render("tab/enter: next field • enter on last field: submit • esc: quit"))

	case StateRunning:
		stage := m.stage
		if stage == "" {
			stage = "starting"
		}
		b.WriteString(fmt.Sprintf("%s %s\n\n", m.spinner.View(), labelStyle.Render(string(stage)+"...")))
		b.WriteString(dimStyle.Render("esc: cancel"))

	case StateDone:
		b.WriteString(m.viewDone())
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("enter/q: quit"))
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewDone() string {
	if m.err != nil {
		return errorStyle.Render("✗ Run failed: " + m.err.Error())
	}
	d := m.result.Delivery
	if d == nil {
		return errorStyle.Render("✗ Run ended without a delivery")
	}
	if !d.Sent() {
		return errorStyle.Render(fmt.Sprintf("✗ Mashup built but mailing %s failed: %s", d.Recipient, d.Reason))
	}
	return boxStyle.Render(successStyle.Render("✓ Mashup sent") + fmt.Sprintf(
		"\n\nRecipient: %s\nClips: %d of %d requested", d.Recipient, d.ClipCount, d.RequestedCount))
}

// Run shows the form and blocks until the user quits.
func Run(ctx context.Context, runner Runner) (pipeline.Result, error) {
	p := tea.NewProgram(New(ctx, runner))
	final, err := p.Run()
	if err != nil {
		return pipeline.Result{}, err
	}
	m := final.(Model)
	if m.state != StateDone {
		return pipeline.Result{}, context.Canceled
	}
	return m.Result()
}
