package pagegen

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"github.com/glockmonth/2100-Hours/internal/board"
)

//go:embed templates
var templateFS embed.FS

const (
	pageTemplate = "index.html"
	DefaultTitle = "2100 Hours Leaderboard"
)

var podiumClasses = [board.PodiumSize]string{"first", "second", "third"}

// Page is an HTML presentation surface. Render into it, then write it out
// with Execute or GeneratePage.
type Page struct {
	summary map[board.SummaryField]string
	podium  [board.PodiumSize]*board.PodiumSlot
	rows    []board.Row
}

// NewPage returns an empty page ready to be rendered into.
func NewPage() *Page {
	return &Page{summary: make(map[board.SummaryField]string)}
}

func (p *Page) SetSummary(field board.SummaryField, value string) {
	p.summary[field] = value
}

// SetPodium fills podium place 1..3; other places are ignored.
func (p *Page) SetPodium(place int, slot board.PodiumSlot) {
	if place < 1 || place > board.PodiumSize {
		return
	}
	p.podium[place-1] = &slot
}

// ResetRows empties the table body.
func (p *Page) ResetRows() {
	p.rows = p.rows[:0]
}

func (p *Page) AppendRow(row board.Row) {
	p.rows = append(p.rows, row)
}

// Options are the page-level settings that do not come from the data.
type Options struct {
	Title string
	// Accents are CSS colours exposed as --color-1..n.
	Accents []string
}

type podiumView struct {
	Class string
	Slot  *board.PodiumSlot
}

type pageData struct {
	Title        string
	Accents      []template.CSS
	TotalMembers string
	TotalHours   string
	AvgHours     string
	Podium       []podiumView
	Rows         []board.Row
}

func parseTemplates() (*template.Template, error) {
	funcs := template.FuncMap{
		"inc": func(i int) int { return i + 1 },
	}
	return template.New(pageTemplate).Funcs(funcs).ParseFS(templateFS,
		"templates/"+pageTemplate,
		"templates/partials/header.html",
		"templates/partials/footer.html",
	)
}

// Execute writes the page as HTML to w.
func (p *Page) Execute(w io.Writer, opts Options) error {
	tmpl, err := parseTemplates()
	if err != nil {
		return fmt.Errorf("failed to parse template %s: %w", pageTemplate, err)
	}

	data := pageData{
		Title:        opts.Title,
		TotalMembers: p.summary[board.FieldTotalMembers],
		TotalHours:   p.summary[board.FieldTotalHours],
		AvgHours:     p.summary[board.FieldAverageHours],
		Rows:         p.rows,
	}
	if data.Title == "" {
		data.Title = DefaultTitle
	}
	for _, c := range opts.Accents {
		data.Accents = append(data.Accents, template.CSS(c))
	}
	for i, class := range podiumClasses {
		data.Podium = append(data.Podium, podiumView{Class: class, Slot: p.podium[i]})
	}

	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("failed to execute template %s: %w", pageTemplate, err)
	}
	return nil
}

// GeneratePage writes the page to outputDir/index.html and returns the path.
func GeneratePage(outputDir string, p *Page, opts Options) (string, error) {
	var buf bytes.Buffer
	if err := p.Execute(&buf, opts); err != nil {
		return "", err
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	outputPath := filepath.Join(outputDir, pageTemplate)
	if err := os.WriteFile(outputPath, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to create output file %s: %w", outputPath, err)
	}
	return outputPath, nil
}
