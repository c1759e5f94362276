package pagegen

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glockmonth/2100-Hours/internal/board"
	"github.com/glockmonth/2100-Hours/internal/loader"
)

func renderPage(t *testing.T, csv string, opts Options) string {
	t.Helper()
	page := NewPage()
	board.Render(page, board.BuildModel(loader.Parse(strings.NewReader(csv))))

	var buf bytes.Buffer
	require.NoError(t, page.Execute(&buf, opts))
	return buf.String()
}

func TestExecute_Leaderboard(t *testing.T) {
	html := renderPage(t, "id,name,rank,hours,status,prize\n"+
		"1,Alice,Gold,120.5,Active,Mug\n"+
		"2,Bob,Silver,95,Idle,\n"+
		"3,Carol,Bronze,150,Offline,\n", Options{})

	assert.Contains(t, html, "<title>"+DefaultTitle+"</title>")
	assert.Contains(t, html, `<span id="total-members">3</span>`)
	assert.Contains(t, html, `<span id="total-hours">365.5</span>`)
	assert.Contains(t, html, `<span id="avg-hours">121.8</span>`)

	first := strings.Index(html, `podium-place first`)
	second := strings.Index(html, `podium-place second`)
	require.True(t, first >= 0 && second > first)
	assert.Contains(t, html[first:second], `<span class="player-name">Carol</span>`)
	assert.Contains(t, html[first:second], `<span class="player-hours">150</span>`)
	assert.Contains(t, html[first:second], `<span class="prize-value">—</span>`)
	assert.Contains(t, html[second:], `<span class="prize-value">Mug</span>`)

	assert.Contains(t, html, `<td class="hours-cell">150.0 hrs</td>`)
	assert.Contains(t, html, `color:#ff0000`)
	assert.Contains(t, html, `● Offline`)

	carol := strings.Index(html, `<td class="name-cell">Carol</td>`)
	alice := strings.Index(html, `<td class="name-cell">Alice</td>`)
	bob := strings.Index(html, `<td class="name-cell">Bob</td>`)
	assert.True(t, carol < alice && alice < bob, "rows in ranked order")
}

func TestExecute_EscapesNames(t *testing.T) {
	html := renderPage(t, "id,name,rank,hours,status\n1,<script>alert(1)</script>,Gold,1,Active\n", Options{})

	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestExecute_EmptyBoard(t *testing.T) {
	html := renderPage(t, "id,name,rank,hours,status\n", Options{Title: "Guild Hours"})

	assert.Contains(t, html, "<title>Guild Hours</title>")
	assert.Contains(t, html, `<span id="total-members">0</span>`)
	assert.Contains(t, html, `<span id="avg-hours">0.0</span>`)
	assert.NotContains(t, html, "NaN")
	assert.NotContains(t, html, "player-name")
}

func TestExecute_Accents(t *testing.T) {
	html := renderPage(t, "id,name,rank,hours,status\n", Options{Accents: []string{"#112233", "#445566"}})

	assert.Contains(t, html, "--color-1: #112233;")
	assert.Contains(t, html, "--color-2: #445566;")
}

func TestPage_RerenderReplacesRows(t *testing.T) {
	page := NewPage()
	m := board.BuildModel(loader.Parse(strings.NewReader("h\n1,Alice,Gold,1,Active\n2,Bob,Gold,2,Active\n")))
	board.Render(page, m)
	board.Render(page, m)

	var buf bytes.Buffer
	require.NoError(t, page.Execute(&buf, Options{}))
	assert.Equal(t, 1, strings.Count(buf.String(), `<td class="name-cell">Alice</td>`))
}

func TestGeneratePage(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "public")
	page := NewPage()
	board.Render(page, board.BuildModel(loader.Parse(strings.NewReader("h\n1,Alice,Gold,1,Active\n"))))

	path, err := GeneratePage(dir, page, Options{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "index.html"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Alice")
}
