/*
Copyright 2026 The Tunebench Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
)

// resultMsg carries the driver's outcome back into the TUI loop.
type resultMsg struct {
	score *float64
	err   error
}

// runModel renders progress for a single driver.Run invocation: a
// spinner while the trial loop is in flight, then a final summary line.
// It is driven as a *runModel so the caller can read back the final
// score/error after the tea.Program exits.
type runModel struct {
	experimentID string
	runFunc      func() tea.Msg

	spinner spinner.Model
	start   time.Time

	done  bool
	score *float64
	err   error
}

func newRunModel(experimentID string, runFunc func() tea.Msg) *runModel {
	s := spinner.NewModel()
	s.Spinner = spinner.Line
	return &runModel{experimentID: experimentID, runFunc: runFunc, spinner: s, start: time.Now()}
}

func (m *runModel) Init() tea.Cmd {
	return tea.Batch(spinner.Tick, m.runFunc)
}

func (m *runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
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

	case resultMsg:
		m.done = true
		m.score = msg.score
		m.err = msg.err
		return m, tea.Quit
	}

	return m, nil
}

func (m *runModel) View() string {
	elapsed := time.Since(m.start).Round(time.Second)
	if !m.done {
		return fmt.Sprintf("%s running experiment %s (%s elapsed)\n", m.spinner.View(), m.experimentID, elapsed)
	}

	if m.err != nil {
		return termenv.String(fmt.Sprintf("experiment %s failed after %s: %v\n", m.experimentID, elapsed, m.err)).Foreground(termenv.ANSIRed).String()
	}

	summary := fmt.Sprintf("experiment %s completed in %s", m.experimentID, elapsed)
	if m.score != nil {
		summary += fmt.Sprintf(", best score %g", *m.score)
	}
	return termenv.String(summary + "\n").Foreground(termenv.ANSIGreen).String()
}
