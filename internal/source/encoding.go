package source

import (
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/municipales2026/importer/pkg/importer"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Encoding names a text encoding and knows how to decode it to UTF-8.
type Encoding struct {
	Name    string
	charset encoding.Encoding
}

var (
	// UTF8 is the default encoding. Bytes pass through unchanged.
	UTF8 = Encoding{Name: "utf-8"}

	// Latin1 is the legacy fallback for files exported by older spreadsheet tools.
	Latin1 = Encoding{Name: "latin-1", charset: charmap.ISO8859_1}
)

// NewReader wraps r so that reads return UTF-8 text.
func (e Encoding) NewReader(r io.Reader) io.Reader {
	if e.charset == nil {
		return r
	}
	return transform.NewReader(r, e.charset.NewDecoder())
}

// DetectEncoding inspects the first importer.EncodingProbeSize bytes of the file.
// Valid UTF-8 selects UTF8, anything else selects Latin1. The probe reads up to
// three extra bytes so a rune starting inside the first kilobyte is always complete.
func DetectEncoding(path string) (Encoding, error) {
	f, err := os.Open(path)
	if err != nil {
		return Encoding{}, fmt.Errorf("%w: cannot open %s: %w", importer.ErrInputInvalid, path, err)
	}
	defer f.Close()

	buf := make([]byte, importer.EncodingProbeSize+utf8.UTFMax-1)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return Encoding{}, fmt.Errorf("%w: cannot read %s: %w", importer.ErrInputInvalid, path, err)
	}

	if validUTF8Prefix(buf[:n], n == len(buf)) {
		return UTF8, nil
	}
	return Latin1, nil
}

// validUTF8Prefix reports whether b is valid UTF-8. When truncated is set, a
// multi-byte sequence cut by the end of the probe is accepted.
func validUTF8Prefix(b []byte, truncated bool) bool {
	if utf8.Valid(b) {
		return true
	}
	if !truncated {
		return false
	}
	for cut := 1; cut < utf8.UTFMax && cut < len(b); cut++ {
		tail := b[len(b)-cut:]
		if utf8.RuneStart(tail[0]) && !utf8.FullRune(tail) {
			return utf8.Valid(b[:len(b)-cut])
		}
	}
	return false
}
