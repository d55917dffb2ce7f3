package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind labels a record as a movie or a TV show. The raw dataset uses the
// same two string values, so Kind doubles as the stored representation.
type Kind string

const (
	KindMovie  Kind = "Movie"
	KindTVShow Kind = "TV Show"
)

// ParseKind validates a raw type value from the dataset.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.TrimSpace(s)) {
	case KindMovie:
		return KindMovie, nil
	case KindTVShow:
		return KindTVShow, nil
	}
	return "", fmt.Errorf("unknown content kind %q", s)
}

// Unit is the measure a Duration is expressed in. Movies carry minutes,
// TV shows carry season counts.
type Unit string

const (
	UnitMinutes Unit = "min"
	UnitSeasons Unit = "seasons"
)

// UnitFor returns the duration unit a record of the given kind must use.
func UnitFor(kind Kind) Unit {
	if kind == KindTVShow {
		return UnitSeasons
	}
	return UnitMinutes
}

// Duration is a magnitude plus unit, e.g. 90 minutes or 2 seasons.
type Duration struct {
	Value int
	Unit  Unit
}

// A valid raw duration looks like "90 min", "1 Season" or "2 Seasons".
var ErrInvalidDuration = errors.New("invalid duration format")

// ParseDuration parses a raw duration string, enforcing that the unit
// matches the record kind (minutes for movies, seasons for shows).
func ParseDuration(s string, kind Kind) (Duration, error) {
	parts := strings.Fields(strings.TrimSpace(s))
	if len(parts) != 2 {
		return Duration{}, ErrInvalidDuration
	}

	value, err := strconv.Atoi(parts[0])
	if err != nil || value < 0 {
		return Duration{}, ErrInvalidDuration
	}

	switch strings.ToLower(parts[1]) {
	case "min", "mins":
		if kind != KindMovie {
			return Duration{}, ErrInvalidDuration
		}
		return Duration{Value: value, Unit: UnitMinutes}, nil
	case "season", "seasons":
		if kind != KindTVShow {
			return Duration{}, ErrInvalidDuration
		}
		return Duration{Value: value, Unit: UnitSeasons}, nil
	}
	return Duration{}, ErrInvalidDuration
}

// dateLayout matches the dataset's added-date format, e.g. "September 9, 2019".
const dateLayout = "January 2, 2006"

// ParseDate parses a raw date-added value. The dataset pads some values
// with leading whitespace, so the input is trimmed first.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t, nil
}

// SplitList expands a comma-delimited multi-value field into its entries.
// Entries are trimmed and empty segments are dropped, so joining the
// result with ", " reproduces the original non-empty entries.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var entries []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			entries = append(entries, part)
		}
	}
	return entries
}

// Record is one catalog entry. Multi-valued fields are already split
// into slices and duration/date fields already parsed; raw-text handling
// happens once at load time, not per report.
type Record struct {
	ID          string
	Kind        Kind
	Title       string
	Directors   []string
	Cast        []string
	Countries   []string
	DateAdded   *time.Time // nil when absent or unparseable
	ReleaseYear int
	Rating      string     // empty when absent
	Duration    *Duration  // nil when absent or unparseable
	Genres      []string
	Description string
}
