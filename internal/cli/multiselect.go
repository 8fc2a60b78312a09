package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/trebuchet-org/calldata-lens/internal/domain"
)

var errSelectionCancelled = errors.New("selection cancelled")

// multiSelectModel is the bubbletea model for picking remembered selections
type multiSelectModel struct {
	records   []*domain.SelectionRecord
	cursor    int
	selected  map[int]bool
	title     string
	done      bool
	cancelled bool
}

func initialMultiSelectModel(records []*domain.SelectionRecord, title string) multiSelectModel {
	return multiSelectModel{
		records:  records,
		selected: make(map[int]bool, len(records)),
		title:    title,
	}
}

// Init is the initial command for bubbletea
func (m multiSelectModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model
func (m multiSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q", "esc":
		m.done = true
		m.cancelled = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.records)-1 {
			m.cursor++
		}
	case " ":
		m.selected[m.cursor] = !m.selected[m.cursor]
	case "a":
		all := len(m.indices()) < len(m.records)
		for i := range m.records {
			m.selected[i] = all
		}
	case "enter":
		// Require at least one selection
		if len(m.indices()) > 0 {
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// View renders the UI
func (m multiSelectModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(color.New(color.FgCyan, color.Bold).Sprintf("%s\n\n", m.title))

	for i, rec := range m.records {
		cursor := " "
		if m.cursor == i {
			cursor = color.New(color.FgCyan).Sprint("▸")
		}

		checkbox := color.New(color.FgWhite).Sprint("○")
		if m.selected[i] {
			checkbox = color.New(color.FgGreen).Sprint("✓")
		}

		selector := color.New(color.FgWhite).Sprint(rec.Selector)
		sig := color.New(color.FgYellow).Sprint(rec.Signature)

		b.WriteString(fmt.Sprintf("%s %s %s %s\n", cursor, checkbox, selector, sig))
	}

	b.WriteString("\n")
	b.WriteString(color.New(color.FgYellow).Sprint("↑/↓: move  Space: toggle  a: all  Enter: confirm  q: quit\n"))

	return b.String()
}

// indices returns the selected rows in display order.
func (m multiSelectModel) indices() []int {
	var out []int
	for i, on := range m.selected {
		if on {
			out = append(out, i)
		}
	}
	sort.Ints(out)
	return out
}

// selectRecords shows a multi-select over records and returns the chosen selectors
func selectRecords(records []*domain.SelectionRecord, title string) ([]string, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("no remembered selections")
	}

	p := tea.NewProgram(initialMultiSelectModel(records, title))
	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("multi-select failed: %w", err)
	}

	m := finalModel.(multiSelectModel)
	if m.cancelled || !m.done {
		return nil, errSelectionCancelled
	}

	var selectors []string
	for _, i := range m.indices() {
		selectors = append(selectors, records[i].Selector)
	}
	return selectors, nil
}
