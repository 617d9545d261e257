// Package casefile reads reconciliation case tables and writes the partitioned CSV outputs.
package casefile

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/htmlindex"
)

// ErrUndetectableEncoding is returned when the text encoding of an input cannot be determined.
var ErrUndetectableEncoding = errors.New("could not detect text encoding")

var (
	utf8BOM    = []byte{0xEF, 0xBB, 0xBF}
	utf16LEBOM = []byte{0xFF, 0xFE}
	utf16BEBOM = []byte{0xFE, 0xFF}
)

// chardet and the WHATWG index disagree on a few spellings.
var charsetAliases = map[string]string{
	"GB-18030": "gb18030",
}

// Detection is a best-guess encoding for a byte slice.
type Detection struct {
	Charset    string
	Confidence int
}

// DetectEncoding guesses the encoding of data. Byte order marks and valid UTF-8 are
// recognised directly; anything else goes through statistical detection and must
// reach minConfidence (0-100).
func DetectEncoding(data []byte, minConfidence int) (Detection, error) {
	switch {
	case bytes.HasPrefix(data, utf8BOM):
		return Detection{Charset: "UTF-8", Confidence: 100}, nil
	case bytes.HasPrefix(data, utf16LEBOM):
		return Detection{Charset: "UTF-16LE", Confidence: 100}, nil
	case bytes.HasPrefix(data, utf16BEBOM):
		return Detection{Charset: "UTF-16BE", Confidence: 100}, nil
	case utf8.Valid(data):
		return Detection{Charset: "UTF-8", Confidence: 100}, nil
	}

	result, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil {
		return Detection{}, fmt.Errorf("%w: %v", ErrUndetectableEncoding, err)
	}

	if result.Confidence < minConfidence {
		return Detection{}, fmt.Errorf("%w: best guess %s at %d%% confidence (need %d%%)",
			ErrUndetectableEncoding, result.Charset, result.Confidence, minConfidence)
	}

	return Detection{Charset: result.Charset, Confidence: result.Confidence}, nil
}

// DecodeText converts data from charset into UTF-8, dropping any byte order mark.
func DecodeText(data []byte, charset string) ([]byte, error) {
	if strings.EqualFold(charset, "UTF-8") {
		return bytes.TrimPrefix(data, utf8BOM), nil
	}

	name := charset
	if alias, ok := charsetAliases[charset]; ok {
		name = alias
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: unsupported charset %q", ErrUndetectableEncoding, charset)
	}

	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s text: %w", charset, err)
	}

	return bytes.TrimPrefix(decoded, utf8BOM), nil
}
