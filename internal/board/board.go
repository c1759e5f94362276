// Package board turns loaded members into a ranked leaderboard and writes it
// to a presentation surface.
package board

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/glockmonth/2100-Hours/internal/loader"
	"github.com/glockmonth/2100-Hours/internal/models"
)

// PodiumSize is the number of top places given special emphasis.
const PodiumSize = 3

// PrizePlaceholder is shown on the podium when a member has no prize.
const PrizePlaceholder = "—"

// Stats are the aggregates shown in the stats bar.
type Stats struct {
	TotalMembers int     `json:"total_members"`
	TotalHours   float64 `json:"total_hours"`
	AverageHours float64 `json:"average_hours"`
	// HasAverage is false when there are no members to average over.
	HasAverage bool `json:"has_average"`
}

// Model is everything a surface needs for one render.
type Model struct {
	Members     []models.Member     `json:"members"`
	Stats       Stats               `json:"stats"`
	Podium      []PodiumSlot        `json:"podium"`
	Rows        []Row               `json:"rows"`
	Skipped     []loader.SkippedRow `json:"skipped,omitempty"`
	GeneratedAt time.Time           `json:"generated_at"`
}

// Rank sorts members by hours, highest first. Order among equal hours is
// not part of the contract.
func Rank(members []models.Member) {
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].Hours.Float() > members[j].Hours.Float()
	})
}

// Aggregate computes the totals and, for a non-empty board, the average.
func Aggregate(members []models.Member) Stats {
	s := Stats{TotalMembers: len(members)}
	for _, m := range members {
		s.TotalHours += m.Hours.Float()
	}
	if s.TotalMembers > 0 {
		s.AverageHours = s.TotalHours / float64(s.TotalMembers)
		s.HasAverage = true
	}
	return s
}

// FormatFixed formats hours with one decimal place.
func FormatFixed(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// FormatRaw formats hours with as many digits as needed and no more.
func FormatRaw(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// BuildModel ranks the loaded members and derives podium and rows. The
// members slice in res is sorted in place.
func BuildModel(res loader.Result) Model {
	members := res.Members
	if members == nil {
		members = []models.Member{}
	}
	Rank(members)

	m := Model{
		Members:     members,
		Stats:       Aggregate(members),
		Podium:      make([]PodiumSlot, 0, PodiumSize),
		Rows:        make([]Row, 0, len(members)),
		Skipped:     res.Skipped,
		GeneratedAt: time.Now().UTC(),
	}
	for i, mem := range members {
		if i < PodiumSize {
			prize := mem.Prize
			if prize == "" {
				prize = PrizePlaceholder
			}
			m.Podium = append(m.Podium, PodiumSlot{
				Place: i + 1,
				Name:  mem.Name,
				Hours: FormatRaw(mem.Hours.Float()),
				Prize: prize,
			})
		}
		m.Rows = append(m.Rows, Row{
			Position: i + 1,
			Name:     mem.Name,
			Rank:     mem.Rank,
			Hours:    fmt.Sprintf("%s hrs", FormatFixed(mem.Hours.Float())),
			Status:   mem.Status,
			Color:    models.StatusColorFor(mem.Status),
		})
	}
	return m
}

// Run is the whole pipeline: load, rank, aggregate and, when surface is not
// nil, render. It can be called any number of times.
func Run(ctx context.Context, l *loader.Loader, locator string, surface Surface) Model {
	m := BuildModel(l.Load(ctx, locator))
	if surface != nil {
		Render(surface, m)
	}
	return m
}
