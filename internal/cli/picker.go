package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/zonecut/pkg/page"
	"github.com/matzehuels/zonecut/pkg/zone"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// PageListModel - Interactive page selection
// =============================================================================

// PageListModel is the bubbletea model for choosing which pages of the
// inputs to analyze.
type PageListModel struct {
	Entries   []page.Entry
	Cursor    int
	Checked   map[int]bool
	Height    int
	Offset    int
	Confirmed bool
}

// NewPageListModel creates a page list with every page checked.
func NewPageListModel(entries []page.Entry) PageListModel {
	checked := make(map[int]bool, len(entries))
	for i := range entries {
		checked[i] = true
	}
	return PageListModel{Entries: entries, Checked: checked, Height: 15}
}

// Selected returns the checked entries in input order, or nil when the
// selection was not confirmed.
func (m PageListModel) Selected() []page.Entry {
	if !m.Confirmed {
		return nil
	}
	var out []page.Entry
	for i, e := range m.Entries {
		if m.Checked[i] {
			out = append(out, e)
		}
	}
	return out
}

func (m PageListModel) Init() tea.Cmd {
	return nil
}

func (m PageListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			m.Checked[m.Cursor] = !m.Checked[m.Cursor]
		case "a":
			all := m.count() < len(m.Entries)
			for i := range m.Entries {
				m.Checked[i] = all
			}
		case "enter":
			if m.count() == 0 {
				return m, nil
			}
			m.Confirmed = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m PageListModel) count() int {
	n := 0
	for _, ok := range m.Checked {
		if ok {
			n++
		}
	}
	return n
}

func (m PageListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Pages"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ␣ toggle  a all  ⏎ analyze  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Entries))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		e := m.Entries[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		check := " "
		if m.Checked[i] {
			check = iconSuccess
		}
		pub := e.Publication
		if pub == "" {
			pub = "—"
		}
		rows = append(rows, []string{cursor, check, pub, e.Page.ID,
			fmt.Sprint(len(e.Page.Zones)), fmt.Sprint(countLabel(e.Page.Zones, zone.LabelHeadline))})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "", "Publication", "Page", "Zones", "Headlines").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return tableHeaderStyle
			}
			idx := m.Offset + row
			base := lipgloss.NewStyle()
			if col == 4 || col == 5 {
				base = base.Foreground(colorGray)
			}
			switch {
			case idx == m.Cursor:
				return base.Foreground(colorCyan).Bold(true)
			case m.Checked[idx]:
				return base
			default:
				return base.Foreground(colorDim)
			}
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d] %d selected", m.Cursor+1, len(m.Entries), m.count())))

	return b.String()
}

func countLabel(zones []zone.Zone, l zone.Label) int {
	n := 0
	for _, z := range zones {
		if z.Label == l {
			n++
		}
	}
	return n
}

// pickPages runs the interactive page picker and returns the chosen
// entries. It returns nil when the user quits without confirming.
func pickPages(entries []page.Entry) ([]page.Entry, error) {
	final, err := tea.NewProgram(NewPageListModel(entries), tea.WithAltScreen()).Run()
	if err != nil {
		return nil, fmt.Errorf("page picker: %w", err)
	}
	return final.(PageListModel).Selected(), nil
}
