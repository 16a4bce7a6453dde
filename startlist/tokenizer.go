package startlist

import "strings"

// RowScanner walks delimiter-separated text one row at a time. Fields are
// trimmed of surrounding whitespace; no field-count validation happens
// here, ragged rows are the classifier's concern. The whole text is
// already in memory, so rows are split up front and there is no line
// length limit. A scanner is consumed by iteration; build a new one
// from the same text to restart.
type RowScanner struct {
	lines []string
	delim string
	row   []string
}

func NewRowScanner(text string, delim rune) *RowScanner {
	return &RowScanner{
		lines: strings.Split(text, "\n"),
		delim: string(delim),
	}
}

// Scan advances to the next non-blank row, reporting whether one is
// available via Row.
func (rs *RowScanner) Scan() bool {
	for len(rs.lines) > 0 {
		line := strings.TrimRight(rs.lines[0], "\r")
		rs.lines = rs.lines[1:]
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, rs.delim)
		for i, f := range fields {
			fields[i] = strings.TrimSpace(f)
		}
		rs.row = fields
		return true
	}
	rs.row = nil
	return false
}

// Row returns the fields of the current row. Valid until the next Scan.
func (rs *RowScanner) Row() []string {
	return rs.row
}

// field returns row[i], or the empty string when the row is too short.
func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
