package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/municipales2026/importer/pkg/importer"
)

const utf8BOM = "\ufeff"

// Table is the parsed source file.
type Table struct {
	Header  []string
	Records []Record
}

// Load opens path, decodes it with enc and parses it.
func Load(path string, enc Encoding) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot open %s: %w", importer.ErrInputInvalid, path, err)
	}
	defer f.Close()

	table, err := Read(enc.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// Read parses UTF-8 semicolon-delimited text. Every field is kept as raw text.
func Read(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = importer.SourceDelimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: file is empty", importer.ErrInputInvalid)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: malformed header: %w", importer.ErrInputInvalid, err)
	}
	header[0] = strings.TrimPrefix(header[0], utf8BOM)
	for i, name := range header {
		if !utf8.ValidString(name) {
			return nil, fmt.Errorf("%w: line 1, column %d: header is not valid UTF-8", importer.ErrInputInvalid, i+1)
		}
	}

	bindings, err := bindColumns(header)
	if err != nil {
		return nil, err
	}

	table := &Table{Header: header}
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", importer.ErrInputInvalid, err)
		}

		line, _ := reader.FieldPos(0)
		if len(fields) > len(header) {
			return nil, fmt.Errorf("%w: line %d has %d fields, header declares %d",
				importer.ErrInputInvalid, line, len(fields), len(header))
		}

		// Encoding is detected from the first bytes only; a stray legacy byte
		// further down must not reach the database.
		for i, v := range fields {
			if !utf8.ValidString(v) {
				return nil, fmt.Errorf("%w: line %d, column %q: invalid UTF-8 %q",
					importer.ErrInputInvalid, line, header[i], v)
			}
		}

		rec := Record{Line: line}
		for _, b := range bindings {
			if b.index < len(fields) {
				*b.field(&rec) = cell(fields[b.index])
			}
		}
		table.Records = append(table.Records, rec)
	}

	return table, nil
}

type binding struct {
	column
	index int
}

// bindColumns resolves every known column to its header position.
// When a header name repeats, the first occurrence is used.
func bindColumns(header []string) ([]binding, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		if _, seen := positions[name]; !seen {
			positions[name] = i
		}
	}

	var bindings []binding
	var missing []string
	for _, c := range columns {
		idx, ok := positions[c.name]
		switch {
		case ok:
			bindings = append(bindings, binding{column: c, index: idx})
		case c.required:
			missing = append(missing, c.name)
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required columns: %s",
			importer.ErrInputInvalid, strings.Join(missing, ", "))
	}
	return bindings, nil
}
