// Package csvcodec renders the ledger as the daily CSV file and reads it back.
package csvcodec

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/entrhq/apptcapture/pkg/types"
)

// Header is the fixed column order. Columns are never reordered or dropped.
var Header = []string{
	"Timestamp", "Type", "Name", "Phone", "Date", "Weekday", "Time",
	"Looking For", "Email", "Source", "Location",
}

// ErrHeader is returned by Parse when the first line is not Header.
var ErrHeader = errors.New("csvcodec: unexpected header")

// FileName returns HighLevel_Contacts_<YYYY-MM-DD>.csv for the UTC date of t.
func FileName(t time.Time) string {
	return "HighLevel_Contacts_" + t.UTC().Format("2006-01-02") + ".csv"
}

// MimeType of the serialized ledger.
const MimeType = "text/csv"

// Serialize renders the ledger. The header line is bare; every data cell is
// quoted with inner quotes doubled. Lines are joined by \n with no trailing
// newline. Records saved without a timestamp get now() at render time.
func Serialize(ledger []types.Submission, now func() time.Time) string {
	lines := make([]string, 0, len(ledger)+1)
	lines = append(lines, strings.Join(Header, ","))
	for _, s := range ledger {
		ts := s.Timestamp
		if ts == "" {
			ts = types.FormatTimestamp(now())
		}
		cells := []string{
			ts, s.Type, s.Name, s.Phone, s.Date, s.Weekday, s.Time,
			s.LookingFor, s.Email, s.Source, s.Location,
		}
		for i, c := range cells {
			cells[i] = quote(c)
		}
		lines = append(lines, strings.Join(cells, ","))
	}
	return strings.Join(lines, "\n")
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Parse reads text produced by Serialize. The format is strict: a bare
// header line, then rows of quoted cells split on \n outside quotes. Cell
// contents come back byte for byte, \r\n included.
func Parse(text string) ([]types.Submission, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: empty input", ErrHeader)
	}
	headerLine, body, hasBody := strings.Cut(text, "\n")
	header := strings.Split(headerLine, ",")
	if len(header) != len(Header) {
		return nil, fmt.Errorf("%w: %d columns, want %d", ErrHeader, len(header), len(Header))
	}
	for i, h := range Header {
		if header[i] != h {
			return nil, fmt.Errorf("%w: column %d is %q, want %q", ErrHeader, i+1, header[i], h)
		}
	}

	out := []types.Submission{}
	if !hasBody {
		return out, nil
	}

	sc := &scanner{text: body}
	for line := 2; ; line++ {
		row, err := sc.row()
		if err != nil {
			return nil, fmt.Errorf("csvcodec: line %d: %w", line, err)
		}
		if len(row) != len(Header) {
			return nil, fmt.Errorf("csvcodec: line %d: %d cells, want %d", line, len(row), len(Header))
		}
		out = append(out, types.Submission{
			Timestamp:  row[0],
			Type:       row[1],
			Name:       row[2],
			Phone:      row[3],
			Date:       row[4],
			Weekday:    row[5],
			Time:       row[6],
			LookingFor: row[7],
			Email:      row[8],
			Source:     row[9],
			Location:   row[10],
		})
		if sc.done() {
			return out, nil
		}
	}
}

// scanner walks the data rows of a serialized ledger.
type scanner struct {
	text string
	pos  int
}

func (s *scanner) done() bool { return s.pos >= len(s.text) }

// row reads quoted cells up to the next unquoted \n or the end of input.
func (s *scanner) row() ([]string, error) {
	var cells []string
	for {
		cell, err := s.cell()
		if err != nil {
			return nil, err
		}
		cells = append(cells, cell)
		if s.done() {
			return cells, nil
		}
		switch s.text[s.pos] {
		case ',':
			s.pos++
		case '\n':
			s.pos++
			return cells, nil
		default:
			return nil, fmt.Errorf("unexpected %q after cell", s.text[s.pos])
		}
	}
}

func (s *scanner) cell() (string, error) {
	if s.done() || s.text[s.pos] != '"' {
		return "", errors.New("cell is not quoted")
	}
	s.pos++
	var b strings.Builder
	for {
		i := strings.IndexByte(s.text[s.pos:], '"')
		if i < 0 {
			return "", errors.New("unterminated quoted cell")
		}
		b.WriteString(s.text[s.pos : s.pos+i])
		s.pos += i + 1
		if s.pos < len(s.text) && s.text[s.pos] == '"' {
			b.WriteByte('"')
			s.pos++
			continue
		}
		return b.String(), nil
	}
}
