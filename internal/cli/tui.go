package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/agenticinfraops/infraviz/pkg/catalog"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// PickerModel - Interactive diagram selection
// =============================================================================

// PickerModel is the bubbletea model for choosing diagrams to render.
type PickerModel struct {
	Entries   []catalog.Entry
	Cursor    int
	Chosen    map[int]bool
	Confirmed bool
	Height    int
	Offset    int
}

// NewPickerModel creates a picker over entries with nothing chosen.
func NewPickerModel(entries []catalog.Entry) PickerModel {
	return PickerModel{
		Entries: entries,
		Chosen:  make(map[int]bool),
		Height:  15,
	}
}

// Selection returns the chosen entries in catalog order, or nil when the
// picker was left without confirming.
func (m PickerModel) Selection() []catalog.Entry {
	if !m.Confirmed {
		return nil
	}
	return m.chosen()
}

// chosen returns the marked entries in catalog order.
func (m PickerModel) chosen() []catalog.Entry {
	var out []catalog.Entry
	for i, e := range m.Entries {
		if m.Chosen[i] {
			out = append(out, e)
		}
	}
	return out
}

func (m PickerModel) Init() tea.Cmd {
	return nil
}

func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Entries)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ", "x":
			if len(m.Entries) > 0 {
				m.Chosen[m.Cursor] = !m.Chosen[m.Cursor]
			}
		case "a":
			all := len(m.Chosen) == len(m.Entries)
			for _, v := range m.Chosen {
				all = all && v
			}
			for i := range m.Entries {
				m.Chosen[i] = !all
			}
		case "enter":
			// Enter with nothing marked takes the entry under the cursor.
			if len(m.chosen()) == 0 && len(m.Entries) > 0 {
				m.Chosen[m.Cursor] = true
			}
			m.Confirmed = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m PickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Diagrams"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all  ⏎ render  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Entries))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		e := m.Entries[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		mark := "[ ]"
		if m.Chosen[i] {
			mark = "[x]"
		}
		rows = append(rows, []string{cursor + mark, e.Name, e.Family, strings.Join(e.Formats(), ", ")})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Diagram", "Family", "Formats").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			base := lipgloss.NewStyle()
			switch {
			case idx == m.Cursor && m.Chosen[idx]:
				return base.Foreground(colorGreen).Bold(true)
			case idx == m.Cursor:
				return base.Foreground(colorCyan).Bold(true)
			case m.Chosen[idx]:
				return base.Foreground(colorGreen)
			case col >= 2:
				return base.Foreground(colorDim)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  %d selected",
		min(m.Cursor+1, len(m.Entries)), len(m.Entries), len(m.chosen()))))

	return b.String()
}

// runPicker shows the picker and returns the confirmed selection.
func runPicker(entries []catalog.Entry) ([]catalog.Entry, error) {
	p := tea.NewProgram(NewPickerModel(entries))
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	fm, ok := final.(PickerModel)
	if !ok {
		return nil, nil
	}
	return fm.Selection(), nil
}
