package bank

import (
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"

	"quiz-drill/internal/domain"
)

// DefaultEncoding is what spreadsheet exports of the delimited bank use.
const DefaultEncoding = "iso-8859-1"

// Encoding resolves a WHATWG encoding label such as "latin1" or "utf-8".
// An empty label means DefaultEncoding.
func Encoding(label string) (encoding.Encoding, error) {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" {
		label = DefaultEncoding
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, domain.NewUnsupportedEncodingError(label)
	}
	return enc, nil
}

// Decode wraps r so it yields UTF-8 text.
func Decode(r io.Reader, label string) (io.Reader, error) {
	enc, err := Encoding(label)
	if err != nil {
		return nil, err
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}
