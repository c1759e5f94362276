// Package termview renders a leaderboard for the terminal.
package termview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/glockmonth/2100-Hours/internal/board"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#9aa5b1"))
	valueStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#2a3850"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)

	podiumStyles = [board.PodiumSize]lipgloss.Style{
		lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFD700")),
		lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C0C0C0")),
		lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#CD7F32")),
	}
)

var tableHeaders = []string{"#", "Name", "Rank", "Hours", "Status"}

// View is a terminal presentation surface.
type View struct {
	Title string

	summary map[board.SummaryField]string
	podium  [board.PodiumSize]*board.PodiumSlot
	rows    []board.Row
}

// New returns an empty view headed by title.
func New(title string) *View {
	return &View{Title: title, summary: make(map[board.SummaryField]string)}
}

func (v *View) SetSummary(field board.SummaryField, value string) {
	v.summary[field] = value
}

func (v *View) SetPodium(place int, slot board.PodiumSlot) {
	if place < 1 || place > board.PodiumSize {
		return
	}
	v.podium[place-1] = &slot
}

func (v *View) ResetRows() {
	v.rows = v.rows[:0]
}

func (v *View) AppendRow(row board.Row) {
	v.rows = append(v.rows, row)
}

// String renders the stats, the podium and the ranked table.
func (v *View) String() string {
	var sb strings.Builder

	if v.Title != "" {
		sb.WriteString(titleStyle.Render(v.Title))
		sb.WriteString("\n\n")
	}

	stats := []string{
		labelStyle.Render("Members ") + valueStyle.Render(v.summary[board.FieldTotalMembers]),
		labelStyle.Render("Total Hours ") + valueStyle.Render(v.summary[board.FieldTotalHours]),
		labelStyle.Render("Average ") + valueStyle.Render(v.summary[board.FieldAverageHours]),
	}
	sb.WriteString(strings.Join(stats, mutedStyle.Render("  |  ")))
	sb.WriteString("\n\n")

	for i, slot := range v.podium {
		if slot == nil {
			continue
		}
		line := fmt.Sprintf("%d. %s  %s hrs  prize: %s", i+1, slot.Name, slot.Hours, slot.Prize)
		sb.WriteString(podiumStyles[i].Render(line))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	sb.WriteString(v.table())
	return sb.String()
}

func (v *View) cells(row board.Row) []string {
	marker := lipgloss.NewStyle().Foreground(lipgloss.Color(string(row.Color))).Render("●")
	return []string{
		fmt.Sprintf("%d", row.Position),
		row.Name,
		row.Rank,
		row.Hours,
		marker + " " + row.Status,
	}
}

func (v *View) table() string {
	var sb strings.Builder

	body := make([][]string, 0, len(v.rows))
	for _, row := range v.rows {
		body = append(body, v.cells(row))
	}

	colWidths := make([]int, len(tableHeaders))
	for i, h := range tableHeaders {
		colWidths[i] = lipgloss.Width(h)
	}
	for _, cells := range body {
		for i, cell := range cells {
			if w := lipgloss.Width(cell); w > colWidths[i] {
				colWidths[i] = w
			}
		}
	}
	// Width includes padding
	for i := range colWidths {
		colWidths[i] += 2
	}

	for i, h := range tableHeaders {
		sb.WriteString(headerStyle.Width(colWidths[i]).Render(h))
		if i < len(tableHeaders)-1 {
			sb.WriteString(mutedStyle.Render("|"))
		}
	}
	sb.WriteString("\n")

	totalWidth := len(tableHeaders) - 1
	for _, w := range colWidths {
		totalWidth += w
	}
	sb.WriteString(mutedStyle.Render(strings.Repeat("-", totalWidth)) + "\n")

	for _, cells := range body {
		for i, cell := range cells {
			sb.WriteString(cellStyle.Width(colWidths[i]).Render(cell))
			if i < len(cells)-1 {
				sb.WriteString(mutedStyle.Render("|"))
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
