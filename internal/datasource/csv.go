package datasource

// csv.go loads datasets from CSV files, such as a previous export dropped
// into the data directory.
//
// Files from spreadsheets are often untidy, so the reader strips a leading
// byte order mark and replaces invalid UTF-8 before the csv parser sees a
// byte. Both happen while streaming; the file is never read whole.

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/JonMunkholm/talentdesk/internal/table"
)

// ctxCheckEvery is how many rows are parsed between context checks.
const ctxCheckEvery = 1000

// CSVOption customizes a CSV source.
type CSVOption func(*CSV)

// WithHeaderFields maps header names to record fields. Headers that are not
// mapped are used as field names unchanged.
func WithHeaderFields(m map[string]string) CSVOption {
	return func(c *CSV) {
		for h, f := range m {
			c.fields[strings.ToLower(strings.TrimSpace(h))] = f
		}
	}
}

// WithListFields splits the named fields on commas into []string.
func WithListFields(fields ...string) CSVOption {
	return func(c *CSV) {
		for _, f := range fields {
			c.lists[f] = true
		}
	}
}

// CSV reads every row of one file. The first row is the header.
type CSV struct {
	path   string
	fields map[string]string
	lists  map[string]bool
}

// NewCSV returns a source reading path.
func NewCSV(path string, opts ...CSVOption) *CSV {
	c := &CSV{path: path, fields: map[string]string{}, lists: map[string]bool{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Path returns the file the source reads.
func (c *CSV) Path() string { return c.path }

// Load opens and parses the file. A missing or unreadable file is
// ErrUnavailable; a malformed one is not.
func (c *CSV) Load(ctx context.Context) ([]table.Record, error) {
	f, err := os.Open(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w: file not found", c.path, ErrUnavailable)
		}
		return nil, fmt.Errorf("load %s: %w: %w", c.path, ErrUnavailable, err)
	}
	defer f.Close()

	records, err := c.read(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", c.path, err)
	}
	return records, nil
}

func (c *CSV) read(ctx context.Context, r io.Reader) ([]table.Record, error) {
	cr := csv.NewReader(newCleanReader(r))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	names := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if f, ok := c.fields[strings.ToLower(h)]; ok {
			h = f
		}
		names[i] = h
	}

	var records []table.Record
	for line := 2; ; line++ {
		if line%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		rec := make(table.Record, len(names))
		for i, name := range names {
			if name == "" {
				continue
			}
			var cell string
			if i < len(row) {
				cell = row[i]
			}
			if c.lists[name] {
				rec[name] = splitList(cell)
			} else {
				rec[name] = parseCell(cell)
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// parseCell types a CSV cell: blank is null, then integers, floats and dates
// are recognized, and anything else stays text. Numbers with a leading zero
// such as zip codes stay text.
func parseCell(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if len(s) > 1 && s[0] == '0' && s[1] != '.' {
		return s
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if t, ok := table.ToTime(s); ok {
		return t
	}
	return s
}

// splitList reads "Go, Kubernetes" as []string{"Go", "Kubernetes"}.
func splitList(s string) any {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// bom is the UTF-8 byte order mark some spreadsheet tools prepend.
const bom = "\uFEFF"

// cleanReader skips a leading byte order mark and replaces every byte that
// is not valid UTF-8 with '?'. It decodes one rune at a time from a buffered
// reader, so a sequence split across reads is never mistaken for garbage.
type cleanReader struct {
	br      *bufio.Reader
	started bool
	pending []byte // encoded bytes that did not fit the last Read
}

func newCleanReader(r io.Reader) *cleanReader {
	return &cleanReader{br: bufio.NewReader(r)}
}

func (c *cleanReader) Read(p []byte) (int, error) {
	if !c.started {
		c.started = true
		if head, err := c.br.Peek(len(bom)); err == nil && string(head) == bom {
			_, _ = c.br.Discard(len(bom))
		}
	}

	n := copy(p, c.pending)
	c.pending = c.pending[n:]

	var buf [utf8.UTFMax]byte
	for n < len(p) {
		r, size, err := c.br.ReadRune()
		if err != nil {
			if n > 0 {
				return n, nil
			}
			return 0, err
		}

		var enc []byte
		if r == utf8.RuneError && size == 1 {
			enc = []byte{'?'}
		} else {
			enc = buf[:utf8.EncodeRune(buf[:], r)]
		}

		w := copy(p[n:], enc)
		n += w
		if w < len(enc) {
			c.pending = append(c.pending[:0], enc[w:]...)
			break
		}
	}
	return n, nil
}
