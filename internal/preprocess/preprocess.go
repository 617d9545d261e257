// Package preprocess turns the raw reconciliation export into the cleaned table of
// unmatched transactions.
package preprocess

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/recon-agent/internal/casefile"
	"github.com/Veraticus/recon-agent/internal/common"
)

// DefaultStatus is the recon_status value selected when Options.Status is empty.
const DefaultStatus = "Not Found"

// Raw export columns.
const (
	ColumnStatus    = "recon_status"
	ColumnSubStatus = "recon_sub_status"
)

// OutputHeader lists the cleaned table's columns in order.
var OutputHeader = []string{
	"txn_ref_id",
	"sys_a_date",
	"sys_a_amount_attribute_1",
	"sys_a_amount_attribute_2",
	"sys_b_amount",
	"sys_b_fee",
	"currency_type",
}

// carried are the output columns copied straight from the raw export.
var carried = []string{"txn_ref_id", "sys_a_date", "sys_a_amount_attribute_1", "sys_a_amount_attribute_2", "currency_type"}

// Options configures a preprocessing run.
type Options struct {
	Logger        *slog.Logger
	Status        string
	MinConfidence int
}

// Result counts what a run saw.
type Result struct {
	Read          int
	Kept          int
	ParseFailures int
}

// ProcessFile cleans the raw export at inputPath and atomically writes the result to outputPath.
func ProcessFile(inputPath, outputPath string, opts Options) (Result, error) {
	raw, err := os.ReadFile(inputPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Result{}, fmt.Errorf("%w: %s", common.ErrInputNotFound, inputPath)
		}
		return Result{}, fmt.Errorf("failed to read %s: %w", inputPath, err)
	}

	detection, err := casefile.DetectEncoding(raw, opts.MinConfidence)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", inputPath, err)
	}
	text, err := casefile.DecodeText(raw, detection.Charset)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", inputPath, err)
	}

	records, result, err := Transform(bytes.NewReader(text), opts)
	if err != nil {
		return result, fmt.Errorf("%s: %w", inputPath, err)
	}

	if err := casefile.WriteCSV(outputPath, OutputHeader, records); err != nil {
		return result, fmt.Errorf("failed to write processed data: %w", err)
	}

	common.LoggerOrDefault(opts.Logger).Info("processed file saved",
		"path", outputPath,
		"read", result.Read,
		"kept", result.Kept,
		"parse_failures", result.ParseFailures)
	return result, nil
}

// Transform filters the raw rows by status and extracts the system B amount and fee.
// It returns the output records without a header.
func Transform(r io.Reader, opts Options) ([][]string, Result, error) {
	logger := common.LoggerOrDefault(opts.Logger)
	status := opts.Status
	if status == "" {
		status = DefaultStatus
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, Result{}, fmt.Errorf("%w: input has no header row", casefile.ErrMissingColumn)
		}
		return nil, Result{}, fmt.Errorf("failed to read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	for _, name := range append([]string{ColumnStatus, ColumnSubStatus}, carried...) {
		if _, ok := columns[name]; !ok {
			return nil, Result{}, fmt.Errorf("%w: %q", casefile.ErrMissingColumn, name)
		}
	}

	var (
		records [][]string
		result  Result
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, result, fmt.Errorf("failed to read row %d: %w", result.Read+2, err)
		}
		result.Read++

		get := func(name string) string {
			if idx := columns[name]; idx < len(record) {
				return record[idx]
			}
			return ""
		}
		if get(ColumnStatus) != status {
			continue
		}

		amount, fee, err := ParseSubStatus(get(ColumnSubStatus))
		if err != nil {
			result.ParseFailures++
			logger.Warn("could not decode sub-status",
				"txn_ref_id", get("txn_ref_id"),
				"error", err)
		}

		records = append(records, []string{
			get("txn_ref_id"),
			get("sys_a_date"),
			get("sys_a_amount_attribute_1"),
			get("sys_a_amount_attribute_2"),
			amount,
			fee,
			get("currency_type"),
		})
		result.Kept++
	}

	return records, result, nil
}

// ParseSubStatus extracts amount and fee from a JSON-like object. Single quotes are accepted
// in place of double quotes. Numeric values are normalised; absent keys yield "".
// On a decode failure both values are "" and the error is returned.
func ParseSubStatus(raw string) (amount, fee string, err error) {
	dec := json.NewDecoder(strings.NewReader(strings.ReplaceAll(raw, "'", `"`)))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return "", "", fmt.Errorf("failed to decode %q: %w", raw, err)
	}
	return normalise(fields["amount"]), normalise(fields["fee"]), nil
}

func normalise(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case json.Number:
		if d, err := decimal.NewFromString(val.String()); err == nil {
			return d.String()
		}
		return val.String()
	case string:
		if d, err := decimal.NewFromString(strings.TrimSpace(val)); err == nil {
			return d.String()
		}
		return val
	default:
		return fmt.Sprint(val)
	}
}
