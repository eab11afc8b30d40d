package fileio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fireplan/fireplan-backend/internal/domain"
)

var investmentHeader = []string{"investedAmount", "currentValue", "recordDate", "tag"}
var observationHeader = []string{"inflation", "recordDate"}

// WriteInvestmentsCSV writes records as a header row plus one quoted row per
// record.
func WriteInvestmentsCSV(w io.Writer, records []domain.Investment) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(investmentHeader); err != nil {
		return err
	}
	for _, rec := range records {
		row := []string{
			rec.InvestedAmount.String(),
			rec.CurrentValue.String(),
			formatDate(rec.RecordDate),
			rec.Tag,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadInvestmentsCSV parses an uploaded investments table, coercing each cell
// to its column type. Column order must match the exported header.
func ReadInvestmentsCSV(r io.Reader) ([]domain.Investment, error) {
	rows, err := readTable(r, investmentHeader)
	if err != nil {
		return nil, err
	}

	records := make([]domain.Investment, len(rows))
	for i, row := range rows {
		invested, err := CoerceDecimal(row[0])
		if err != nil {
			return nil, fmt.Errorf("row %d investedAmount: %w", i+1, err)
		}
		current, err := CoerceDecimal(row[1])
		if err != nil {
			return nil, fmt.Errorf("row %d currentValue: %w", i+1, err)
		}
		date, err := ParseDate(row[2])
		if err != nil {
			return nil, fmt.Errorf("row %d recordDate: %w", i+1, err)
		}
		records[i] = domain.Investment{
			InvestedAmount: invested,
			CurrentValue:   current,
			RecordDate:     date,
			Tag:            row[3],
		}
	}
	return records, nil
}

// WriteObservationsCSV writes inflation observations in the tabular exchange
// format.
func WriteObservationsCSV(w io.Writer, records []domain.InflationObservation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(observationHeader); err != nil {
		return err
	}
	for _, rec := range records {
		if err := cw.Write([]string{rec.Inflation.String(), formatDate(rec.RecordDate)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadObservationsCSV parses an uploaded inflation table.
func ReadObservationsCSV(r io.Reader) ([]domain.InflationObservation, error) {
	rows, err := readTable(r, observationHeader)
	if err != nil {
		return nil, err
	}

	records := make([]domain.InflationObservation, len(rows))
	for i, row := range rows {
		rate, err := CoerceDecimal(row[0])
		if err != nil {
			return nil, fmt.Errorf("row %d inflation: %w", i+1, err)
		}
		date, err := ParseDate(row[1])
		if err != nil {
			return nil, fmt.Errorf("row %d recordDate: %w", i+1, err)
		}
		records[i] = domain.InflationObservation{Inflation: rate, RecordDate: date}
	}
	return records, nil
}

// CoerceDecimal converts a numeric-looking CSV cell to a decimal, tolerating
// surrounding whitespace.
func CoerceDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("not a number: %q", s)
	}
	return d, nil
}

// CoerceBool converts "true"/"false" cells, case-insensitively. Kept with the
// other coercions for importers whose tables carry boolean columns.
func CoerceBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean: %q", s)
}

// readTable reads all rows, validates the header and returns the data rows.
func readTable(r io.Reader, header []string) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(header)

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("malformed csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("missing header row")
	}
	for i, name := range header {
		if rows[0][i] != name {
			return nil, fmt.Errorf("unexpected header %q, want %q", rows[0][i], name)
		}
	}
	return rows[1:], nil
}
