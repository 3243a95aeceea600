package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/passview/pkg/artifact"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// PassListModel - Interactive pass selection
// =============================================================================

// PassListModel is the bubbletea model for picking a recorded pass.
type PassListModel struct {
	Passes   []artifact.Pass
	Cursor   int
	Selected *artifact.Pass
	Height   int
	Offset   int
}

// NewPassListModel creates a new pass list model.
func NewPassListModel(passes []artifact.Pass) PassListModel {
	return PassListModel{
		Passes: passes,
		Height: 15,
	}
}

func (m PassListModel) Init() tea.Cmd {
	return nil
}

func (m PassListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Passes)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			m.Cursor = len(m.Passes) - 1
			if m.Cursor >= m.Height {
				m.Offset = m.Cursor - m.Height + 1
			}
		case "enter":
			if len(m.Passes) == 0 {
				return m, nil
			}
			p := m.Passes[m.Cursor]
			m.Selected = &p
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

func (m PassListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Pass"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Passes))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		p := m.Passes[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, strconv.Itoa(p.Sequence), p.Name, orNone(p.Input), orNone(p.Output)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers("", "Seq", "Pass", "Input", "Output").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			idx := m.Offset + row
			if idx >= len(m.Passes) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if !m.Passes[idx].Complete() {
				base = base.Foreground(colorYellow)
			}
			if idx == m.Cursor {
				if m.Passes[idx].Complete() {
					base = base.Foreground(colorGreen)
				}
				return base.Bold(true)
			}
			if col >= 3 {
				return base.Foreground(colorDim)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Passes))))

	return b.String()
}
