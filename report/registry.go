package report

import (
	"fmt"
	"strconv"
	"time"
)

// Params carries every parameter any report accepts. Reports read only
// the fields they care about; the CLI fills the rest with defaults.
// Zero Years and Limit mean "use the report's own default", since the
// right window and row cap differ per report.
type Params struct {
	Year       int
	Name       string
	Match      DirectorMatch
	MinSeasons int
	Country    string
	Genre      string
	Rank       YearRank
	Years      int
	Inclusive  bool
	Limit      int
	Now        time.Time
}

// DefaultParams are the parameter values the published reports used.
func DefaultParams() Params {
	return Params{
		Year:       2020,
		Match:      MatchSubstring,
		MinSeasons: 5,
		Country:    "India",
		Genre:      "Documentaries",
		Rank:       RankByShare,
		Years:      0,
		Inclusive:  true,
		Limit:      0,
		Now:        time.Now(),
	}
}

// Table is a report result in printable form: a header row plus data
// rows, already ordered.
type Table struct {
	Headers []string
	Rows    [][]string
}

func (t *Table) add(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// Report is a named runnable report.
type Report struct {
	Name        string
	Description string
	Run         func(e *Engine, p Params) (*Table, error)
}

// Registry maps report names to their runners.
type Registry struct {
	reports map[string]Report
	order   []string
}

// NewRegistry builds a registry holding every report the engine offers.
func NewRegistry() *Registry {
	r := &Registry{reports: make(map[string]Report)}

	r.register(Report{
		Name:        "type-distribution",
		Description: "Count of titles per kind (movie vs TV show)",
		Run: func(e *Engine, p Params) (*Table, error) {
			rows, err := e.TypeDistribution()
			if err != nil {
				return nil, err
			}
			t := &Table{Headers: []string{"kind", "count"}}
			for _, row := range rows {
				t.add(string(row.Kind), strconv.Itoa(row.Count))
			}
			return t, nil
		},
	})

	r.register(Report{
		Name:        "common-ratings",
		Description: "Most frequent rating per kind (all ties shown)",
		Run: func(e *Engine, p Params) (*Table, error) {
			rows, err := e.CommonRatings()
			if err != nil {
				return nil, err
			}
			t := &Table{Headers: []string{"kind", "rating", "count"}}
			for _, row := range rows {
				t.add(string(row.Kind), row.Rating, strconv.Itoa(row.Count))
			}
			return t, nil
		},
	})

	r.register(Report{
		Name:        "movies-in-year",
		Description: "Movies released in a given year (-year)",
		Run: func(e *Engine, p Params) (*Table, error) {
			rows, err := e.MoviesInYear(p.Year)
			if err != nil {
				return nil, err
			}
			return titleTable(rows), nil
		},
	})

	r.register(Report{
		Name:        "top-countries",
		Description: "Countries with the most content (-limit, default 5)",
		Run: func(e *Engine, p Params) (*Table, error) {
			limit := p.Limit
			if limit <= 0 {
				limit = 5
			}
			rows, err := e.TopCountries(limit)
			if err != nil {
				return nil, err
			}
			return nameTable("country", rows), nil
		},
	})

	r.register(Report{
		Name:        "longest-movie",
		Description: "Movie with the longest runtime",
		Run: func(e *Engine, p Params) (*Table, error) {
			row, err := e.LongestMovie()
			if err != nil {
				return nil, err
			}
			t := &Table{Headers: []string{"id", "title", "minutes"}}
			if row != nil {
				t.add(row.ID, row.Title, strconv.Itoa(row.Minutes))
			}
			return t, nil
		},
	})

	r.register(Report{
		Name:        "recent-additions",
		Description: "Titles added within the last N years (-years, default 5)",
		Run: func(e *Engine, p Params) (*Table, error) {
			years := p.Years
			if years <= 0 {
				years = 5
			}
			rows, err := e.RecentAdditions(p.Now, years)
			if err != nil {
				return nil, err
			}
			t := &Table{Headers: []string{"id", "title", "kind", "date_added"}}
			for _, row := range rows {
				t.add(row.ID, row.Title, string(row.Kind), row.DateAdded)
			}
			return t, nil
		},
	})

	r.register(Report{
		Name:        "by-director",
		Description: "Titles credited to a director (-name, -match exact|substring)",
		Run: func(e *Engine, p Params) (*Table, error) {
			if p.Name == "" {
				return nil, fmt.Errorf("report by-director requires -name")
			}
			rows, err := e.TitlesByDirector(p.Name, p.Match)
			if err != nil {
				return nil, err
			}
			return titleTable(rows), nil
		},
	})

	r.register(Report{
		Name:        "long-running-shows",
		Description: "TV shows with more than N seasons (-min-seasons, default 5)",
		Run: func(e *Engine, p Params) (*Table, error) {
			rows, err := e.ShowsWithMoreSeasons(p.MinSeasons)
			if err != nil {
				return nil, err
			}
			t := &Table{Headers: []string{"id", "title", "seasons"}}
			for _, row := range rows {
				t.add(row.ID, row.Title, strconv.Itoa(row.Seasons))
			}
			return t, nil
		},
	})

	r.register(Report{
		Name:        "genre-counts",
		Description: "Count of titles per genre",
		Run: func(e *Engine, p Params) (*Table, error) {
			rows, err := e.GenreCounts()
			if err != nil {
				return nil, err
			}
			return nameTable("genre", rows), nil
		},
	})

	r.register(Report{
		Name:        "years-by-country-share",
		Description: "Top release years for a country by share of its catalog (-country, -rank count|share, -limit, default 5)",
		Run: func(e *Engine, p Params) (*Table, error) {
			limit := p.Limit
			if limit <= 0 {
				limit = 5
			}
			rows, err := e.YearsByCountryShare(p.Country, limit, p.Rank)
			if err != nil {
				return nil, err
			}
			t := &Table{Headers: []string{"year", "count", "share_pct"}}
			for _, row := range rows {
				t.add(strconv.Itoa(row.Year), strconv.Itoa(row.Count),
					strconv.FormatFloat(row.Share, 'f', 2, 64))
			}
			return t, nil
		},
	})

	r.register(Report{
		Name:        "movies-in-genre",
		Description: "Movies carrying a genre label (-genre, default Documentaries)",
		Run: func(e *Engine, p Params) (*Table, error) {
			rows, err := e.MoviesInGenre(p.Genre)
			if err != nil {
				return nil, err
			}
			return titleTable(rows), nil
		},
	})

	r.register(Report{
		Name:        "missing-director",
		Description: "Titles without any director credit",
		Run: func(e *Engine, p Params) (*Table, error) {
			rows, err := e.MissingDirector()
			if err != nil {
				return nil, err
			}
			return titleTable(rows), nil
		},
	})

	r.register(Report{
		Name:        "actor-appearances",
		Description: "Movies featuring an actor in the last N years (-name, -years default 10, -exclusive)",
		Run: func(e *Engine, p Params) (*Table, error) {
			if p.Name == "" {
				return nil, fmt.Errorf("report actor-appearances requires -name")
			}
			years := p.Years
			if years <= 0 {
				years = 10
			}
			rows, err := e.ActorAppearances(p.Name, p.Now, years, p.Inclusive)
			if err != nil {
				return nil, err
			}
			return titleTable(rows), nil
		},
	})

	r.register(Report{
		Name:        "top-actors-in-country",
		Description: "Actors with the most movie appearances for a country (-country, -limit, default 10)",
		Run: func(e *Engine, p Params) (*Table, error) {
			limit := p.Limit
			if limit <= 0 {
				limit = 10
			}
			rows, err := e.TopActorsInCountry(p.Country, limit)
			if err != nil {
				return nil, err
			}
			return nameTable("actor", rows), nil
		},
	})

	r.register(Report{
		Name:        "content-categories",
		Description: "Good/Bad categorization by description keywords, per kind",
		Run: func(e *Engine, p Params) (*Table, error) {
			rows, err := e.ContentCategories()
			if err != nil {
				return nil, err
			}
			t := &Table{Headers: []string{"kind", "category", "count"}}
			for _, row := range rows {
				t.add(string(row.Kind), row.Category, strconv.Itoa(row.Count))
			}
			return t, nil
		},
	})

	return r
}

func (r *Registry) register(rep Report) {
	r.reports[rep.Name] = rep
	r.order = append(r.order, rep.Name)
}

// Run executes the named report. An unknown name is a usage error.
func (r *Registry) Run(e *Engine, name string, p Params) (*Table, error) {
	rep, exists := r.reports[name]
	if !exists {
		return nil, fmt.Errorf("report %q not registered", name)
	}
	return rep.Run(e, p)
}

// List returns every registered report in registration order.
func (r *Registry) List() []Report {
	reports := make([]Report, 0, len(r.order))
	for _, name := range r.order {
		reports = append(reports, r.reports[name])
	}
	return reports
}

func titleTable(rows []TitleRow) *Table {
	t := &Table{Headers: []string{"id", "title", "kind", "release_year"}}
	for _, row := range rows {
		t.add(row.ID, row.Title, string(row.Kind), strconv.Itoa(row.ReleaseYear))
	}
	return t
}

func nameTable(label string, rows []NameCount) *Table {
	t := &Table{Headers: []string{label, "count"}}
	for _, row := range rows {
		t.add(row.Name, strconv.Itoa(row.Count))
	}
	return t
}
