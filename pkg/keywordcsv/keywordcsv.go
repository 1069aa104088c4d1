// Package keywordcsv reads and writes the keyword CSV artifact.
//
// The format is fixed: a header row followed by one row per keyword with
// the keyword double-quoted, an integer search volume and a competition
// token. Rows are joined by "\n" with no trailing newline.
package keywordcsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kiranshivaraju/keywordlens/pkg/models"
)

// Header is the first line of every keyword CSV.
const Header = "keyword,avg_monthly_searches,competition_level"

// ErrBadHeader is returned by Parse when the first row is not Header.
var ErrBadHeader = errors.New("keyword csv: unexpected header")

// Encode renders rows in the artifact format.
// All methods are pure; output for a given input is byte-stable.
func Encode(rows []models.KeywordMetric) string {
	var b strings.Builder
	b.WriteString(Header)
	for _, r := range rows {
		b.WriteByte('\n')
		b.WriteString(quote(r.Keyword))
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(r.AvgMonthlySearches))
		b.WriteByte(',')
		b.WriteString(r.CompetitionLevel)
	}
	return b.String()
}

// Parse reads an artifact back into rows. Keywords may be quoted or bare.
func Parse(r io.Reader) ([]models.KeywordMetric, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 3
	cr.TrimLeadingSpace = true

	head, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrBadHeader
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if strings.Join(head, ",") != Header {
		return nil, ErrBadHeader
	}

	rows := []models.KeywordMetric{}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}
		searches, err := strconv.Atoi(strings.TrimSpace(rec[1]))
		if err != nil {
			return nil, fmt.Errorf("row %q: avg_monthly_searches: %w", rec[0], err)
		}
		level := strings.TrimSpace(rec[2])
		if !models.ValidCompetitionLevel(level) {
			return nil, fmt.Errorf("row %q: unknown competition level %q", rec[0], level)
		}
		rows = append(rows, models.KeywordMetric{
			Keyword:            rec[0],
			AvgMonthlySearches: searches,
			CompetitionLevel:   level,
		})
	}
	return rows, nil
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
