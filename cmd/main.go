package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"catalog-insights/loader"
	"catalog-insights/report"
	"catalog-insights/storage"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	defaults := report.DefaultParams()

	var (
		dataPath    = flag.String("data", envOr("DATA_PATH", "./data"), "Path to database directory")
		datasetPath = flag.String("dataset", envOr("DATASET_PATH", "./data/netflix_titles.csv"), "Path to raw catalog CSV")
		reload      = flag.Bool("reload", false, "Reload the dataset even if the catalog is already populated")
		reportName  = flag.String("report", "", "Report to run (empty lists available reports)")

		year       = flag.Int("year", defaults.Year, "Release year for movies-in-year")
		name       = flag.String("name", "", "Director or actor name for by-director / actor-appearances")
		match      = flag.String("match", "substring", "Director matching: exact or substring")
		minSeasons = flag.Int("min-seasons", defaults.MinSeasons, "Season threshold for long-running-shows")
		country    = flag.String("country", defaults.Country, "Country for years-by-country-share / top-actors-in-country")
		genre      = flag.String("genre", defaults.Genre, "Genre label for movies-in-genre")
		rank       = flag.String("rank", "share", "Year ranking for years-by-country-share: count or share")
		years      = flag.Int("years", 0, "Year window for recent-additions / actor-appearances (0 uses each report's default)")
		exclusive  = flag.Bool("exclusive", false, "Exclude the boundary year from actor-appearances")
		limit      = flag.Int("limit", 0, "Row limit for top-N reports (0 uses each report's default)")
	)
	flag.Parse()

	// Initialize logger with timestamp
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("Starting Catalog Insights...")

	// Initialize storage
	sqliteStorage := storage.NewSQLiteStorage(*dataPath)
	if err := sqliteStorage.Initialize(); err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer sqliteStorage.Close()

	if err := ensureLoaded(sqliteStorage, *datasetPath, *reload); err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}
	displayCatalogStats(sqliteStorage)

	registry := report.NewRegistry()

	if *reportName == "" || *reportName == "list" {
		listReports(registry)
		return
	}

	params := report.Params{
		Year:       *year,
		Name:       *name,
		Match:      parseMatch(*match),
		MinSeasons: *minSeasons,
		Country:    *country,
		Genre:      *genre,
		Rank:       parseRank(*rank),
		Years:      *years,
		Inclusive:  !*exclusive,
		Limit:      *limit,
		Now:        time.Now(),
	}

	db, err := sqliteStorage.GetDB()
	if err != nil {
		log.Fatalf("Failed to get database: %v", err)
	}

	table, err := registry.Run(report.NewEngine(db), *reportName, params)
	if err != nil {
		log.Fatalf("Failed to run report %s: %v", *reportName, err)
	}

	printTable(table)
	if len(table.Rows) == 0 {
		fmt.Println("(no rows)")
	}
}

// ensureLoaded bulk-loads the dataset when the catalog is empty. The
// catalog is read-only afterwards; -reload forces a fresh load.
func ensureLoaded(s *storage.SQLiteStorage, datasetPath string, reload bool) error {
	count, err := s.CountTitles()
	if err != nil {
		return err
	}

	if count > 0 && !reload {
		log.Printf("Catalog already loaded (%d titles), skipping dataset import", count)
		return nil
	}

	log.Printf("Loading dataset from %s", datasetPath)
	result, err := loader.LoadFile(datasetPath)
	if err != nil {
		return err
	}
	if result.Skipped > 0 {
		log.Printf("Skipped %d unreadable rows", result.Skipped)
	}

	if err := s.BulkLoad(result.Records); err != nil {
		return err
	}

	log.Printf("Loaded %d records", len(result.Records))
	return nil
}

// displayCatalogStats shows catalog statistics
func displayCatalogStats(s *storage.SQLiteStorage) {
	stats, err := s.GetStats()
	if err != nil {
		log.Printf("Error getting catalog stats: %v", err)
		return
	}

	log.Printf("Total titles: %d", stats["total"])
	log.Printf("Movies: %d", stats["movies"])
	log.Printf("TV shows: %d", stats["shows"])
}

func listReports(registry *report.Registry) {
	fmt.Println("Available reports:")
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	for _, rep := range registry.List() {
		fmt.Fprintf(w, "  %s\t%s\n", rep.Name, rep.Description)
	}
	w.Flush()
}

func printTable(table *report.Table) {
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, joinCells(table.Headers))
	for _, row := range table.Rows {
		fmt.Fprintln(w, joinCells(row))
	}
	w.Flush()
}

func joinCells(cells []string) string {
	line := ""
	for i, cell := range cells {
		if i > 0 {
			line += "\t"
		}
		line += cell
	}
	return line
}

func parseMatch(s string) report.DirectorMatch {
	switch s {
	case "exact":
		return report.MatchExact
	case "substring":
		return report.MatchSubstring
	default:
		log.Fatalf("Unknown match mode %q (want exact or substring)", s)
		return report.MatchSubstring
	}
}

func parseRank(s string) report.YearRank {
	switch s {
	case "count":
		return report.RankByCount
	case "share":
		return report.RankByShare
	default:
		log.Fatalf("Unknown rank mode %q (want count or share)", s)
		return report.RankByShare
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
