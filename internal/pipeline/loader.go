package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Date layouts accepted in uploaded CSVs. The sample data uses the
// US-style M/D/YYYY form; ISO dates are accepted as well.
var dateLayouts = []string{"1/2/2006", "2006-01-02", "1/2/06"}

// DefaultMaxRows caps the number of data rows accepted from a single
// table when the caller does not configure a limit.
const DefaultMaxRows = 100000

// LoadOpportunities parses a survival-domain table: one row per sales
// conversation, columns ProductId, SQLDate, WonDate. An empty WonDate
// marks a still-open (censored) opportunity.
//
// A single malformed row fails the whole table: silently dropping rows
// would skew the curves downstream.
func LoadOpportunities(r io.Reader, maxRows int) (OpportunityTable, error) {
	records, err := readTable(r, 3, maxRows)
	if err != nil {
		return nil, err
	}

	table := make(OpportunityTable)
	for i, rec := range records {
		product := strings.TrimSpace(rec[0])
		if product == "" {
			return nil, fmt.Errorf("%w: row %d: missing product id", ErrInvalidInput, i+1)
		}

		opened, err := parseDate(rec[1])
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: bad open date %q", ErrInvalidInput, i+1, rec[1])
		}

		opp := Opportunity{Product: product, OpenedAt: opened}
		if won := strings.TrimSpace(rec[2]); won != "" {
			wonAt, err := parseDate(won)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d: bad won date %q", ErrInvalidInput, i+1, rec[2])
			}
			if wonAt.Before(opened) {
				return nil, fmt.Errorf("%w: row %d: won date precedes open date", ErrInvalidInput, i+1)
			}
			opp.WonAt = &wonAt
		}

		table[product] = append(table[product], opp)
	}

	return table, nil
}

// LoadDealValues parses a distribution-domain table: columns ProductId,
// Value. Values are deal sizes; units are whatever the caller uses.
func LoadDealValues(r io.Reader, maxRows int) (ValueTable, error) {
	records, err := readTable(r, 2, maxRows)
	if err != nil {
		return nil, err
	}

	table := make(ValueTable)
	for i, rec := range records {
		product := strings.TrimSpace(rec[0])
		if product == "" {
			return nil, fmt.Errorf("%w: row %d: missing product id", ErrInvalidInput, i+1)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: bad value %q", ErrInvalidInput, i+1, rec[1])
		}
		table[product] = append(table[product], v)
	}

	return table, nil
}

// LoadDealValuesJSON parses the sample deals file shape: an object
// mapping product id to an array of deal sizes.
func LoadDealValuesJSON(r io.Reader, maxRows int) (ValueTable, error) {
	var table ValueTable
	dec := json.NewDecoder(r)
	if err := dec.Decode(&table); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	total := 0
	for product, values := range table {
		if product == "" {
			return nil, fmt.Errorf("%w: empty product id", ErrInvalidInput)
		}
		total += len(values)
	}
	if maxRows > 0 && total > maxRows {
		return nil, fmt.Errorf("%w: %d values exceeds cap of %d", ErrResourceLimit, total, maxRows)
	}

	return table, nil
}

func readTable(r io.Reader, columns, maxRows int) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = columns
	cr.TrimLeadingSpace = true

	all, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("%w: table has no rows", ErrInvalidInput)
	}

	// Tolerate a header row; the sample files carry one.
	if looksLikeHeader(all[0]) {
		all = all[1:]
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("%w: table has a header but no data rows", ErrInvalidInput)
	}
	if maxRows > 0 && len(all) > maxRows {
		return nil, fmt.Errorf("%w: %d rows exceeds cap of %d", ErrResourceLimit, len(all), maxRows)
	}

	return all, nil
}

func looksLikeHeader(rec []string) bool {
	for _, field := range rec {
		f := strings.ToLower(strings.TrimSpace(field))
		if f == "productid" || f == "sqldate" || f == "wondate" || f == "value" {
			return true
		}
	}
	return false
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
