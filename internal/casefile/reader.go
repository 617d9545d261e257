package casefile

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/Veraticus/recon-agent/internal/common"
	"github.com/Veraticus/recon-agent/internal/model"
)

// Input column names.
const (
	ColumnTransactionID = "Transaction ID"
	ColumnAmount        = "amount"
	ColumnComments      = "Comments"
)

// ErrMissingColumn is returned when a required input column is absent.
var ErrMissingColumn = errors.New("missing required column")

// Table is a decoded case table ready for the resolution pipeline.
type Table struct {
	Path     string
	Encoding Detection
	Cases    []model.Case
}

// ReadCases loads the case table at path, detecting its encoding first.
func ReadCases(path string, minConfidence int) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", common.ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	detection, err := DetectEncoding(raw, minConfidence)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	text, err := DecodeText(raw, detection.Charset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	cases, err := ParseCases(bytes.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &Table{
		Path:     path,
		Encoding: detection,
		Cases:    cases,
	}, nil
}

// ParseCases reads UTF-8 CSV with a header row into cases, preserving row order.
// The comments column is optional; rows without it carry empty comments.
func ParseCases(r io.Reader) ([]model.Case, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: input has no header row", ErrMissingColumn)
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns := indexColumns(header)
	idCol, ok := columns[ColumnTransactionID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, ColumnTransactionID)
	}
	amountCol, ok := columns[ColumnAmount]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, ColumnAmount)
	}
	commentsCol, hasComments := columns[ColumnComments]
	if !hasComments {
		commentsCol = -1
	}

	var cases []model.Case
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(cases)+2, err)
		}

		cases = append(cases, model.Case{
			TransactionID: field(record, idCol),
			Amount:        field(record, amountCol),
			Comments:      field(record, commentsCol),
		})
	}

	return cases, nil
}

func indexColumns(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, seen := columns[name]; !seen {
			columns[name] = i
		}
	}
	return columns
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}
