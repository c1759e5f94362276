package board

import (
	"strconv"

	"github.com/glockmonth/2100-Hours/internal/models"
)

// SummaryField names one of the stats bar slots.
type SummaryField string

const (
	FieldTotalMembers SummaryField = "total-members"
	FieldTotalHours   SummaryField = "total-hours"
	FieldAverageHours SummaryField = "avg-hours"
)

// PodiumSlot is one podium place.
type PodiumSlot struct {
	Place int    `json:"place"`
	Name  string `json:"name"`
	Hours string `json:"hours"`
	Prize string `json:"prize"`
}

// Row is one line of the full ranked table.
type Row struct {
	Position int                `json:"position"`
	Name     string             `json:"name"`
	Rank     string             `json:"rank"`
	Hours    string             `json:"hours"`
	Status   string             `json:"status"`
	Color    models.StatusColor `json:"color"`
}

// Surface is where a leaderboard gets written. Implementations own the
// layout; Render only fills in values.
type Surface interface {
	SetSummary(field SummaryField, value string)
	// SetPodium fills place 1, 2 or 3.
	SetPodium(place int, slot PodiumSlot)
	ResetRows()
	AppendRow(row Row)
}

// Render writes m to s. The ranked rows are always replaced, so rendering
// the same model twice leaves s in the same state.
func Render(s Surface, m Model) {
	s.SetSummary(FieldTotalMembers, strconv.Itoa(m.Stats.TotalMembers))
	s.SetSummary(FieldTotalHours, FormatFixed(m.Stats.TotalHours))
	s.SetSummary(FieldAverageHours, FormatFixed(m.Stats.AverageHours))

	for _, slot := range m.Podium {
		s.SetPodium(slot.Place, slot)
	}

	s.ResetRows()
	for _, row := range m.Rows {
		s.AppendRow(row)
	}
}
