package loader

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/glockmonth/2100-Hours/internal/models"
)

// DefaultLocator is where the member export lives unless configured otherwise.
const DefaultLocator = "./statbot.csv"

// minFields is id, name, rank and hours.
const minFields = 4

// SkippedRow describes an input line that did not become a member.
type SkippedRow struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
	Raw    string `json:"raw"`
}

// Result is the outcome of one load.
type Result struct {
	Members []models.Member `json:"members"`
	Skipped []SkippedRow    `json:"skipped,omitempty"`
}

// Loader fetches and parses member exports.
type Loader struct {
	fetcher *Fetcher
	logger  *zap.Logger
}

// New returns a Loader. A nil fetcher reads with default options and a nil
// logger discards output.
func New(fetcher *Fetcher, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	if fetcher == nil {
		fetcher = NewFetcher(FetcherOptions{})
	}
	return &Loader{fetcher: fetcher, logger: logger}
}

// Load fetches the export at locator and parses it. A failed fetch is logged
// and reported as an empty result.
func (l *Loader) Load(ctx context.Context, locator string) Result {
	body, err := l.fetcher.Fetch(ctx, locator)
	if err != nil {
		l.logger.Error("Error loading CSV", zap.String("locator", locator), zap.Error(err))
		return Result{Members: []models.Member{}}
	}

	res := Parse(strings.NewReader(string(body)))
	for _, s := range res.Skipped {
		l.logger.Debug("Skipped row",
			zap.Int("line", s.Line),
			zap.String("reason", s.Reason),
			zap.String("raw", s.Raw))
	}
	l.logger.Info("Loaded members",
		zap.String("locator", locator),
		zap.Int("members", len(res.Members)),
		zap.Int("skipped", len(res.Skipped)))
	return res
}

// Parse reads a member export. The first line is always treated as a header.
func Parse(r io.Reader) Result {
	res := Result{Members: []models.Member{}}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		if lineNo == 1 {
			continue
		}
		line := strings.TrimSuffix(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields, err := splitFields(line)
		if err != nil {
			res.Skipped = append(res.Skipped, SkippedRow{Line: lineNo, Reason: err.Error(), Raw: line})
			continue
		}
		if len(fields) < minFields {
			res.Skipped = append(res.Skipped, SkippedRow{
				Line:   lineNo,
				Reason: fmt.Sprintf("too few fields (%d)", len(fields)),
				Raw:    line,
			})
			continue
		}

		res.Members = append(res.Members, memberFromFields(fields, lineNo))
	}
	if err := sc.Err(); err != nil {
		res.Skipped = append(res.Skipped, SkippedRow{Line: lineNo + 1, Reason: err.Error()})
	}
	return res
}

func memberFromFields(fields []string, line int) models.Member {
	m := models.Member{
		Name:   field(fields, 1),
		Rank:   field(fields, 2),
		Hours:  models.ParseHours(field(fields, 3)),
		Status: field(fields, 4),
		Prize:  field(fields, 5),
		Line:   line,
	}
	if m.Rank == "" {
		m.Rank = models.DefaultRank
	}
	if m.Status == "" {
		m.Status = models.DefaultStatus
	}
	return m
}

// field returns the cleaned value at position i, or "" if the row is shorter.
func field(fields []string, i int) string {
	if i >= len(fields) {
		return ""
	}
	return cleanField(fields[i])
}

func cleanField(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, `"`)
	s = strings.TrimSuffix(s, `"`)
	return strings.TrimSpace(s)
}

// splitFields splits one line. Quoted segments may contain commas and may be
// padded with whitespace on either side.
func splitFields(line string) ([]string, error) {
	cr := csv.NewReader(strings.NewReader(tightenDelimiters(line)))
	cr.FieldsPerRecord = -1 // Allow variable number of fields
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	record, err := cr.Read()
	if err != nil {
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			return nil, fmt.Errorf("malformed row: %w", perr.Err)
		}
		return nil, fmt.Errorf("malformed row: %w", err)
	}
	return record, nil
}

// tightenDelimiters drops blanks around commas that sit outside quotes, so
// `1, "Alice" ,Gold` reads as `1,"Alice",Gold`.
func tightenDelimiters(line string) string {
	buf := make([]byte, 0, len(line))
	inQuotes, afterComma := false, true
	for i := 0; i < len(line); i++ {
		c := line[i]
		if afterComma && (c == ' ' || c == '\t') {
			continue
		}
		afterComma = false
		switch {
		case c == '"':
			inQuotes = !inQuotes
		case c == ',' && !inQuotes:
			buf = bytes.TrimRight(buf, " \t")
			afterComma = true
		}
		buf = append(buf, c)
	}
	return string(bytes.TrimRight(buf, " \t"))
}
