package csv

// reader.go turns a raw response body into parser input.
//
// Spreadsheet exports often start with a UTF-8 byte order mark, and a broken
// export can contain stray non-UTF-8 bytes. Both are handled while reading:
//
//   - a leading BOM is stripped
//   - invalid UTF-8 sequences become U+FFFD
//   - the raw byte count is capped so a misbehaving upstream cannot exhaust memory

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrTooLarge is returned by ReadText when the input exceeds the byte limit.
var ErrTooLarge = errors.New("csv input too large")

// ReadText reads r to completion and returns UTF-8 text ready for Parse.
// A limit <= 0 disables the size check.
func ReadText(r io.Reader, limit int64) (string, error) {
	var src io.Reader = r
	if limit > 0 {
		// One extra byte distinguishes "exactly limit" from "over limit".
		src = io.LimitReader(r, limit+1)
	}
	counter := &countingReader{reader: src}

	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	data, err := io.ReadAll(transform.NewReader(counter, decoder))
	if err != nil {
		return "", fmt.Errorf("read csv: %w", err)
	}

	if limit > 0 && counter.n > limit {
		return "", fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
	}

	return string(data), nil
}

// countingReader tracks raw bytes read before decoding.
type countingReader struct {
	reader io.Reader
	n      int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.reader.Read(p)
	c.n += int64(n)
	return n, err
}
