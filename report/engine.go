// Package report implements the catalog report engine: a fixed set of
// named, read-only queries over the loaded catalog. Every report is a
// pure function of the stored record set; nothing here writes.
package report

import (
	"database/sql"
	"fmt"
	"math"
	"sort"
	"time"

	"catalog-insights/catalog"
)

// DirectorMatch selects how director names are compared. The report's
// consumers historically disagreed on this, so it is a parameter rather
// than a hard-coded policy.
type DirectorMatch int

const (
	MatchExact DirectorMatch = iota
	MatchSubstring
)

// YearRank selects how per-year country results are ordered: by raw
// title count or by the year's share of the country's catalog.
type YearRank int

const (
	RankByCount YearRank = iota
	RankByShare
)

type Engine struct {
	db *sql.DB
}

func NewEngine(db *sql.DB) *Engine {
	return &Engine{db: db}
}

// KindCount is one row of the type-distribution report.
type KindCount struct {
	Kind  catalog.Kind
	Count int
}

// TypeDistribution counts titles per kind. The counts sum to the total
// number of loaded records.
func (e *Engine) TypeDistribution() ([]KindCount, error) {
	rows, err := e.db.Query(`
	SELECT kind, COUNT(*)
	FROM titles
	GROUP BY kind
	ORDER BY kind
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query type distribution: %v", err)
	}
	defer rows.Close()

	var result []KindCount
	for rows.Next() {
		var kc KindCount
		if err := rows.Scan(&kc.Kind, &kc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan type distribution: %v", err)
		}
		result = append(result, kc)
	}
	return result, rows.Err()
}

// RatingCount is one row of the common-ratings report.
type RatingCount struct {
	Kind   catalog.Kind
	Rating string
	Count  int
}

// CommonRatings returns the most frequent rating per kind. When several
// ratings share the maximum count, all of them are returned, ordered by
// rating ascending, so ties are visible instead of silently dropped.
func (e *Engine) CommonRatings() ([]RatingCount, error) {
	rows, err := e.db.Query(`
	SELECT kind, rating, COUNT(*) AS n
	FROM titles
	WHERE rating IS NOT NULL
	GROUP BY kind, rating
	ORDER BY kind, n DESC, rating ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings: %v", err)
	}
	defer rows.Close()

	// Grouping and sorting happen in SQL; picking the per-kind maximum is
	// a stable scan rather than a window function.
	var result []RatingCount
	maxPerKind := map[catalog.Kind]int{}
	for rows.Next() {
		var rc RatingCount
		if err := rows.Scan(&rc.Kind, &rc.Rating, &rc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan rating count: %v", err)
		}
		max, seen := maxPerKind[rc.Kind]
		if !seen {
			maxPerKind[rc.Kind] = rc.Count
			max = rc.Count
		}
		if rc.Count == max {
			result = append(result, rc)
		}
	}
	return result, rows.Err()
}

// TitleRow identifies one catalog entry in a listing report.
type TitleRow struct {
	ID          string
	Title       string
	Kind        catalog.Kind
	ReleaseYear int
}

func (e *Engine) listTitles(query string, args ...interface{}) ([]TitleRow, error) {
	rows, err := e.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query titles: %v", err)
	}
	defer rows.Close()

	var result []TitleRow
	for rows.Next() {
		var tr TitleRow
		if err := rows.Scan(&tr.ID, &tr.Title, &tr.Kind, &tr.ReleaseYear); err != nil {
			return nil, fmt.Errorf("failed to scan title: %v", err)
		}
		result = append(result, tr)
	}
	return result, rows.Err()
}

// MoviesInYear lists every movie released in the given year.
func (e *Engine) MoviesInYear(year int) ([]TitleRow, error) {
	return e.listTitles(`
	SELECT id, title, kind, release_year
	FROM titles
	WHERE kind = 'Movie' AND release_year = ?
	ORDER BY title, id
	`, year)
}

// NameCount is one row of a fan-out counting report (countries, genres,
// actors). A record with N entries contributes to N buckets.
type NameCount struct {
	Name  string
	Count int
}

func (e *Engine) countNames(query string, args ...interface{}) ([]NameCount, error) {
	rows, err := e.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query counts: %v", err)
	}
	defer rows.Close()

	var result []NameCount
	for rows.Next() {
		var nc NameCount
		if err := rows.Scan(&nc.Name, &nc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan count: %v", err)
		}
		result = append(result, nc)
	}
	return result, rows.Err()
}

// TopCountries returns the countries producing the most content,
// descending. Ties at the cutoff resolve by country name ascending.
func (e *Engine) TopCountries(limit int) ([]NameCount, error) {
	return e.countNames(`
	SELECT country, COUNT(*) AS n
	FROM title_countries
	GROUP BY country
	ORDER BY n DESC, country ASC
	LIMIT ?
	`, limit)
}

// GenreCounts counts titles per genre across the whole catalog.
func (e *Engine) GenreCounts() ([]NameCount, error) {
	return e.countNames(`
	SELECT genre, COUNT(*) AS n
	FROM title_genres
	GROUP BY genre
	ORDER BY n DESC, genre ASC
	`)
}

// MovieLength is the longest-movie report result.
type MovieLength struct {
	ID      string
	Title   string
	Minutes int
}

// LongestMovie returns the movie with the longest parsed runtime, or nil
// when no movie has one. Ties resolve to the lowest id, i.e. the first
// record encountered in load order.
func (e *Engine) LongestMovie() (*MovieLength, error) {
	var ml MovieLength
	err := e.db.QueryRow(`
	SELECT id, title, duration_value
	FROM titles
	WHERE kind = 'Movie' AND duration_unit = 'min'
	ORDER BY duration_value DESC, id ASC
	LIMIT 1
	`).Scan(&ml.ID, &ml.Title, &ml.Minutes)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query longest movie: %v", err)
	}
	return &ml, nil
}

// Addition is one row of the recent-additions report.
type Addition struct {
	ID        string
	Title     string
	Kind      catalog.Kind
	DateAdded string
}

// RecentAdditions lists titles added within the last `years` years of the
// reference time. Records whose added date never parsed are excluded.
func (e *Engine) RecentAdditions(now time.Time, years int) ([]Addition, error) {
	cutoff := now.AddDate(-years, 0, 0).Format("2006-01-02")

	rows, err := e.db.Query(`
	SELECT id, title, kind, date_added
	FROM titles
	WHERE date_added IS NOT NULL AND date_added >= ?
	ORDER BY date_added DESC, id ASC
	`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent additions: %v", err)
	}
	defer rows.Close()

	var result []Addition
	for rows.Next() {
		var a Addition
		if err := rows.Scan(&a.ID, &a.Title, &a.Kind, &a.DateAdded); err != nil {
			return nil, fmt.Errorf("failed to scan addition: %v", err)
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

// TitlesByDirector lists titles credited to the named director. With
// MatchSubstring the name may be any case-insensitive fragment of a
// credited director; with MatchExact it must equal one entry verbatim.
func (e *Engine) TitlesByDirector(name string, match DirectorMatch) ([]TitleRow, error) {
	condition := "d.director = ?"
	if match == MatchSubstring {
		condition = "instr(lower(d.director), lower(?)) > 0"
	}

	return e.listTitles(`
	SELECT t.id, t.title, t.kind, t.release_year
	FROM titles t
	WHERE EXISTS (
		SELECT 1 FROM title_directors d
		WHERE d.title_id = t.id AND `+condition+`
	)
	ORDER BY t.title, t.id
	`, name)
}

// ShowSeasons is one row of the long-running-shows report.
type ShowSeasons struct {
	ID      string
	Title   string
	Seasons int
}

// ShowsWithMoreSeasons lists TV shows with strictly more than min seasons.
func (e *Engine) ShowsWithMoreSeasons(min int) ([]ShowSeasons, error) {
	rows, err := e.db.Query(`
	SELECT id, title, duration_value
	FROM titles
	WHERE kind = 'TV Show' AND duration_unit = 'seasons' AND duration_value > ?
	ORDER BY duration_value DESC, title ASC
	`, min)
	if err != nil {
		return nil, fmt.Errorf("failed to query shows: %v", err)
	}
	defer rows.Close()

	var result []ShowSeasons
	for rows.Next() {
		var ss ShowSeasons
		if err := rows.Scan(&ss.ID, &ss.Title, &ss.Seasons); err != nil {
			return nil, fmt.Errorf("failed to scan show: %v", err)
		}
		result = append(result, ss)
	}
	return result, rows.Err()
}

// YearShare is one row of the per-country release-year report.
type YearShare struct {
	Year  int
	Count int
	Share float64 // percentage of the country's titles, 2 decimals
}

// YearsByCountryShare groups a country's titles by release year and
// reports each year's count and percentage share of the country's total.
// Shares are truncated to two decimals rather than rounded half-up, so
// the shares across all years can never sum past 100. Ranking is by count
// or by share depending on rank; years tie-break ascending. At most limit
// rows are returned.
func (e *Engine) YearsByCountryShare(country string, limit int, rank YearRank) ([]YearShare, error) {
	var total int
	err := e.db.QueryRow(`
	SELECT COUNT(*)
	FROM titles t
	WHERE EXISTS (
		SELECT 1 FROM title_countries c
		WHERE c.title_id = t.id AND c.country = ?
	)
	`, country).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("failed to count titles for %s: %v", country, err)
	}
	if total == 0 {
		return nil, nil
	}

	rows, err := e.db.Query(`
	SELECT t.release_year, COUNT(*) AS n
	FROM titles t
	WHERE EXISTS (
		SELECT 1 FROM title_countries c
		WHERE c.title_id = t.id AND c.country = ?
	)
	GROUP BY t.release_year
	`, country)
	if err != nil {
		return nil, fmt.Errorf("failed to query years for %s: %v", country, err)
	}
	defer rows.Close()

	var result []YearShare
	for rows.Next() {
		var ys YearShare
		if err := rows.Scan(&ys.Year, &ys.Count); err != nil {
			return nil, fmt.Errorf("failed to scan year share: %v", err)
		}
		ys.Share = math.Floor(float64(ys.Count)/float64(total)*10000) / 100
		result = append(result, ys)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if rank == RankByShare && a.Share != b.Share {
			return a.Share > b.Share
		}
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Year < b.Year
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// MoviesInGenre lists movies carrying the given genre label. The label
// comparison is case-insensitive.
func (e *Engine) MoviesInGenre(genre string) ([]TitleRow, error) {
	return e.listTitles(`
	SELECT t.id, t.title, t.kind, t.release_year
	FROM titles t
	WHERE t.kind = 'Movie' AND EXISTS (
		SELECT 1 FROM title_genres g
		WHERE g.title_id = t.id AND lower(g.genre) = lower(?)
	)
	ORDER BY t.title, t.id
	`, genre)
}

// MissingDirector lists records with no director credit at all.
func (e *Engine) MissingDirector() ([]TitleRow, error) {
	return e.listTitles(`
	SELECT t.id, t.title, t.kind, t.release_year
	FROM titles t
	WHERE NOT EXISTS (
		SELECT 1 FROM title_directors d WHERE d.title_id = t.id
	)
	ORDER BY t.title, t.id
	`)
}

// ActorAppearances lists movies featuring the named cast member released
// within the last `years` years of the reference time. With inclusive the
// boundary year itself counts; without it only strictly later years do.
func (e *Engine) ActorAppearances(actor string, now time.Time, years int, inclusive bool) ([]TitleRow, error) {
	cmp := ">="
	if !inclusive {
		cmp = ">"
	}
	boundary := now.Year() - years

	return e.listTitles(`
	SELECT t.id, t.title, t.kind, t.release_year
	FROM titles t
	WHERE t.kind = 'Movie' AND t.release_year `+cmp+` ? AND EXISTS (
		SELECT 1 FROM title_cast c
		WHERE c.title_id = t.id AND c.actor = ?
	)
	ORDER BY t.release_year DESC, t.title ASC
	`, boundary, actor)
}

// TopActorsInCountry counts cast appearances across movies produced in
// the given country, descending, actor-name tie-break ascending.
func (e *Engine) TopActorsInCountry(country string, limit int) ([]NameCount, error) {
	return e.countNames(`
	SELECT c.actor, COUNT(*) AS n
	FROM title_cast c
	JOIN titles t ON t.id = c.title_id
	WHERE t.kind = 'Movie' AND EXISTS (
		SELECT 1 FROM title_countries tc
		WHERE tc.title_id = t.id AND tc.country = ?
	)
	GROUP BY c.actor
	ORDER BY n DESC, c.actor ASC
	LIMIT ?
	`, country, limit)
}

// CategoryCount is one row of the content-categorization report.
type CategoryCount struct {
	Kind     catalog.Kind
	Category string
	Count    int
}

// ContentCategories labels every record "Bad" when its description
// contains "kill" or "violence" (case-insensitively) and "Good"
// otherwise, then counts per kind and category.
func (e *Engine) ContentCategories() ([]CategoryCount, error) {
	rows, err := e.db.Query(`
	SELECT kind,
	       CASE
	           WHEN instr(lower(description), 'kill') > 0
	             OR instr(lower(description), 'violence') > 0
	           THEN 'Bad'
	           ELSE 'Good'
	       END AS category,
	       COUNT(*)
	FROM titles
	GROUP BY kind, category
	ORDER BY kind, category
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query content categories: %v", err)
	}
	defer rows.Close()

	var result []CategoryCount
	for rows.Next() {
		var cc CategoryCount
		if err := rows.Scan(&cc.Kind, &cc.Category, &cc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan category: %v", err)
		}
		result = append(result, cc)
	}
	return result, rows.Err()
}
