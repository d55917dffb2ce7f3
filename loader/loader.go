package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"catalog-insights/catalog"
)

// Column layout of the raw catalog export.
const (
	colID = iota
	colKind
	colTitle
	colDirector
	colCast
	colCountry
	colDateAdded
	colReleaseYear
	colRating
	colDuration
	colGenres
	colDescription

	columnCount
)

// Result is the outcome of a bulk load. Skipped counts rows that could
// not be turned into a record at all; per-field problems (bad dates,
// bad durations) leave the field unset and keep the row.
type Result struct {
	Records []catalog.Record
	Skipped int
}

// LoadFile reads a raw catalog CSV from disk.
func LoadFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %v", err)
	}
	defer f.Close()

	return Load(f)
}

// Load parses raw catalog rows into records. All multi-value splitting
// and duration/date parsing happens here, once, so the rest of the
// program only ever sees parsed records.
func Load(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	result := &Result{}
	line := 0

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read dataset row: %v", err)
		}
		line++

		// Header row from the raw export.
		if line == 1 && strings.EqualFold(strings.TrimSpace(row[colID]), "show_id") {
			continue
		}

		record, err := parseRow(row)
		if err != nil {
			log.Printf("Skipping row %d: %v", line, err)
			result.Skipped++
			continue
		}

		result.Records = append(result.Records, record)
	}

	return result, nil
}

func parseRow(row []string) (catalog.Record, error) {
	if len(row) != columnCount {
		return catalog.Record{}, fmt.Errorf("expected %d columns, got %d", columnCount, len(row))
	}

	id := strings.TrimSpace(row[colID])
	if id == "" {
		return catalog.Record{}, fmt.Errorf("missing id")
	}

	kind, err := catalog.ParseKind(row[colKind])
	if err != nil {
		return catalog.Record{}, err
	}

	record := catalog.Record{
		ID:          id,
		Kind:        kind,
		Title:       strings.TrimSpace(row[colTitle]),
		Directors:   catalog.SplitList(row[colDirector]),
		Cast:        catalog.SplitList(row[colCast]),
		Countries:   catalog.SplitList(row[colCountry]),
		Rating:      strings.TrimSpace(row[colRating]),
		Genres:      catalog.SplitList(row[colGenres]),
		Description: strings.TrimSpace(row[colDescription]),
	}

	// Malformed numeric and date fields are not fatal. The record stays
	// in the catalog and simply drops out of the reports that need the
	// missing field.
	if year, err := strconv.Atoi(strings.TrimSpace(row[colReleaseYear])); err == nil {
		record.ReleaseYear = year
	}

	if raw := strings.TrimSpace(row[colDateAdded]); raw != "" {
		if added, err := catalog.ParseDate(raw); err == nil {
			record.DateAdded = &added
		}
	}

	if raw := strings.TrimSpace(row[colDuration]); raw != "" {
		if duration, err := catalog.ParseDuration(raw, kind); err == nil {
			record.Duration = &duration
		}
	}

	return record, nil
}
