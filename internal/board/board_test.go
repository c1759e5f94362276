package board

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glockmonth/2100-Hours/internal/loader"
	"github.com/glockmonth/2100-Hours/internal/models"
)

// recorder is a headless Surface that keeps the last value written to
// every slot, the way a page would.
type recorder struct {
	Summary map[SummaryField]string
	Podium  map[int]PodiumSlot
	Rows    []Row
	Resets  int
}

func newRecorder() *recorder {
	return &recorder{Summary: map[SummaryField]string{}, Podium: map[int]PodiumSlot{}}
}

func (r *recorder) SetSummary(field SummaryField, value string) { r.Summary[field] = value }
func (r *recorder) SetPodium(place int, slot PodiumSlot)        { r.Podium[place] = slot }
func (r *recorder) ResetRows()                                  { r.Rows = nil; r.Resets++ }
func (r *recorder) AppendRow(row Row)                           { r.Rows = append(r.Rows, row) }

func parse(t *testing.T, rows ...string) loader.Result {
	t.Helper()
	return loader.Parse(strings.NewReader("id,name,rank,hours,status\n" + strings.Join(rows, "\n")))
}

func names(members []models.Member) []string {
	out := make([]string, 0, len(members))
	for _, m := range members {
		out = append(out, m.Name)
	}
	return out
}

func TestScenario_RankingAndStats(t *testing.T) {
	m := BuildModel(parse(t,
		"1,Alice,Gold,120.5,Active",
		"2,Bob,Silver,95,Idle",
		"3,Carol,Bronze,150,Offline",
	))

	assert.Equal(t, []string{"Carol", "Alice", "Bob"}, names(m.Members))
	assert.Equal(t, 3, m.Stats.TotalMembers)
	assert.Equal(t, 365.5, m.Stats.TotalHours)
	assert.True(t, m.Stats.HasAverage)

	s := newRecorder()
	Render(s, m)

	assert.Equal(t, "3", s.Summary[FieldTotalMembers])
	assert.Equal(t, "365.5", s.Summary[FieldTotalHours])
	assert.Equal(t, "121.8", s.Summary[FieldAverageHours])

	assert.Equal(t, map[int]PodiumSlot{
		1: {Place: 1, Name: "Carol", Hours: "150", Prize: PrizePlaceholder},
		2: {Place: 2, Name: "Alice", Hours: "120.5", Prize: PrizePlaceholder},
		3: {Place: 3, Name: "Bob", Hours: "95", Prize: PrizePlaceholder},
	}, s.Podium)

	want := []Row{
		{Position: 1, Name: "Carol", Rank: "Bronze", Hours: "150.0 hrs", Status: "Offline", Color: models.ColorRed},
		{Position: 2, Name: "Alice", Rank: "Gold", Hours: "120.5 hrs", Status: "Active", Color: models.ColorGreen},
		{Position: 3, Name: "Bob", Rank: "Silver", Hours: "95.0 hrs", Status: "Idle", Color: models.ColorAmber},
	}
	if diff := cmp.Diff(want, s.Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestScenario_ShortRowDropped(t *testing.T) {
	m := BuildModel(parse(t,
		"1,Alice,Gold,120.5,Active",
		"2,Dave,Gold",
		"3,Carol,Bronze,150,Offline",
	))

	assert.Equal(t, []string{"Carol", "Alice"}, names(m.Members))
	assert.Equal(t, 270.5, m.Stats.TotalHours)
	require.Len(t, m.Skipped, 1)
	assert.Equal(t, 3, m.Skipped[0].Line)
}

func TestScenario_UnparseableHoursSortLast(t *testing.T) {
	m := BuildModel(parse(t,
		"1,Eve,Member,N/A,Active",
		"2,Alice,Gold,1.5,Active",
		"3,Bob,Silver,95,Idle",
	))

	assert.Equal(t, []string{"Bob", "Alice", "Eve"}, names(m.Members))
	assert.False(t, m.Members[2].Hours.Valid)
	assert.Equal(t, "0.0 hrs", m.Rows[2].Hours)
	assert.Equal(t, "0", m.Podium[2].Hours)
}

func TestScenario_EmptyInput(t *testing.T) {
	m := BuildModel(parse(t))

	assert.Equal(t, 0, m.Stats.TotalMembers)
	assert.False(t, m.Stats.HasAverage)
	assert.False(t, math.IsNaN(m.Stats.AverageHours))
	assert.Empty(t, m.Podium)
	assert.Empty(t, m.Rows)

	s := newRecorder()
	Render(s, m)
	assert.Equal(t, "0", s.Summary[FieldTotalMembers])
	assert.Equal(t, "0.0", s.Summary[FieldTotalHours])
	assert.Equal(t, "0.0", s.Summary[FieldAverageHours])
	assert.Empty(t, s.Podium)
	assert.Equal(t, 1, s.Resets)
}

func TestScenario_UnknownStatusIsGreen(t *testing.T) {
	m := BuildModel(parse(t, "1,Zoe,Gold,5,ONLINE"))

	require.Len(t, m.Rows, 1)
	assert.Equal(t, "ONLINE", m.Rows[0].Status)
	assert.Equal(t, models.ColorGreen, m.Rows[0].Color)
}

func TestPodiumWithFewerThanThree(t *testing.T) {
	m := BuildModel(parse(t,
		"1,Alice,Gold,10,Active",
		"2,Bob,Silver,20,Idle",
	))

	s := newRecorder()
	Render(s, m)

	require.Len(t, s.Podium, 2)
	assert.Equal(t, "Bob", s.Podium[1].Name)
	assert.Equal(t, "Alice", s.Podium[2].Name)
	_, ok := s.Podium[3]
	assert.False(t, ok)
}

func TestPodiumPrize(t *testing.T) {
	res := loader.Parse(strings.NewReader("id,name,rank,hours,status,prize\n" +
		"1,Alice,Gold,10,Active,Mug\n" +
		"2,Bob,Silver,20,Idle,\n"))
	m := BuildModel(res)

	assert.Equal(t, PrizePlaceholder, m.Podium[0].Prize)
	assert.Equal(t, "Mug", m.Podium[1].Prize)
}

func TestRankIsNonIncreasing(t *testing.T) {
	members := []models.Member{
		{Name: "a", Hours: models.ParseHours("3")},
		{Name: "b", Hours: models.ParseHours("x")},
		{Name: "c", Hours: models.ParseHours("44.1")},
		{Name: "d", Hours: models.ParseHours("0")},
		{Name: "e", Hours: models.ParseHours("44.1")},
		{Name: "f", Hours: models.ParseHours("12")},
		{Name: "g", Hours: models.ParseHours("0.5")},
	}
	Rank(members)

	for i := 1; i < len(members); i++ {
		assert.GreaterOrEqual(t, members[i-1].Hours.Float(), members[i].Hours.Float(),
			"position %d (%s) before %d (%s)", i-1, members[i-1].Name, i, members[i].Name)
	}
}

func TestAggregateTotalIsExactSum(t *testing.T) {
	members := []models.Member{
		{Hours: models.ParseHours("0.1")},
		{Hours: models.ParseHours("0.2")},
		{Hours: models.ParseHours("bad")},
		{Hours: models.ParseHours("7")},
	}

	var sum float64
	for _, m := range members {
		sum += m.Hours.Float()
	}

	s := Aggregate(members)
	assert.Equal(t, 4, s.TotalMembers)
	assert.Equal(t, sum, s.TotalHours)
	assert.Equal(t, sum/4, s.AverageHours)
}

func TestRenderIsIdempotent(t *testing.T) {
	m := BuildModel(parse(t,
		"1,Alice,Gold,120.5,Active",
		"2,Bob,Silver,95,Idle",
		"3,Carol,Bronze,150,Offline",
		"4,Dana,Member,1,Away",
	))

	s := newRecorder()
	Render(s, m)
	first := newRecorder()
	for k, v := range s.Summary {
		first.Summary[k] = v
	}
	for k, v := range s.Podium {
		first.Podium[k] = v
	}
	first.Rows = append(first.Rows, s.Rows...)

	Render(s, m)
	assert.Len(t, s.Rows, 4)
	if diff := cmp.Diff(first.Rows, s.Rows); diff != "" {
		t.Errorf("second render changed rows (-first +second):\n%s", diff)
	}
	assert.Equal(t, first.Summary, s.Summary)
	assert.Equal(t, first.Podium, s.Podium)
	assert.Equal(t, 2, s.Resets)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "121.8", FormatFixed(365.5/3))
	assert.Equal(t, "0.0", FormatFixed(0))
	assert.Equal(t, "95.0", FormatFixed(95))
	assert.Equal(t, "95", FormatRaw(95))
	assert.Equal(t, "120.5", FormatRaw(120.5))
	assert.Equal(t, "0", FormatRaw(0))
}

func TestRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statbot.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,name,rank,hours,status\n1,Alice,Gold,1,Active\n2,Bob,Gold,2,Idle\n"), 0644))

	l := loader.New(nil, nil)
	s := newRecorder()

	m := Run(context.Background(), l, path, s)
	assert.Equal(t, []string{"Bob", "Alice"}, names(m.Members))
	assert.Equal(t, "2", s.Summary[FieldTotalMembers])

	// A failed load renders an empty board rather than failing.
	m = Run(context.Background(), l, filepath.Join(t.TempDir(), "gone.csv"), s)
	assert.Equal(t, 0, m.Stats.TotalMembers)
	assert.Equal(t, "0", s.Summary[FieldTotalMembers])
	assert.Equal(t, "0.0", s.Summary[FieldAverageHours])
	assert.Empty(t, s.Rows)

	m = Run(context.Background(), l, path, nil)
	assert.Len(t, m.Rows, 2)
}
