package storage

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"catalog-insights/catalog"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStorage struct {
	db       *sql.DB
	dbPath   string
	dataPath string
}

func NewSQLiteStorage(dataPath string) *SQLiteStorage {
	dbPath := filepath.Join(dataPath, "catalog_insights.db")
	return &SQLiteStorage{
		dbPath:   dbPath,
		dataPath: dataPath,
	}
}

func (s *SQLiteStorage) Initialize() error {
	// Create data directory if it doesn't exist
	if err := os.MkdirAll(s.dataPath, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %v", err)
	}

	// Open database connection
	db, err := sql.Open("sqlite3", s.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %v", err)
	}

	s.db = db

	// Initialize and run migrations using Goose
	migrationManager := NewMigrationManager(s.db)
	if err := migrationManager.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize migrations: %v", err)
	}

	if err := migrationManager.Up(); err != nil {
		return fmt.Errorf("failed to run migrations: %v", err)
	}

	log.Printf("SQLite database initialized at: %s", s.dbPath)
	return nil
}

// BulkLoad inserts an already-parsed record set in a single transaction.
// The multi-valued fields land in their own tables so reports never have
// to re-split delimited text. The catalog is load-once: BulkLoad replaces
// whatever was loaded before.
func (s *SQLiteStorage) BulkLoad(records []catalog.Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"title_directors", "title_cast", "title_countries", "title_genres", "titles"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %v", table, err)
		}
	}

	insertTitle, err := tx.Prepare(`
	INSERT INTO titles (id, kind, title, date_added, release_year, rating, duration_value, duration_unit, description)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare title insert: %v", err)
	}
	defer insertTitle.Close()

	listTables := []struct {
		table  string
		column string
	}{
		{"title_directors", "director"},
		{"title_cast", "actor"},
		{"title_countries", "country"},
		{"title_genres", "genre"},
	}

	listInserts := make(map[string]*sql.Stmt, len(listTables))
	for _, lt := range listTables {
		stmt, err := tx.Prepare(fmt.Sprintf("INSERT INTO %s (title_id, %s) VALUES (?, ?)", lt.table, lt.column))
		if err != nil {
			return fmt.Errorf("failed to prepare %s insert: %v", lt.table, err)
		}
		defer stmt.Close()
		listInserts[lt.table] = stmt
	}

	for _, record := range records {
		var dateAdded interface{}
		if record.DateAdded != nil {
			dateAdded = record.DateAdded.Format("2006-01-02")
		}

		var durationValue, durationUnit interface{}
		if record.Duration != nil {
			durationValue = record.Duration.Value
			durationUnit = string(record.Duration.Unit)
		}

		var rating interface{}
		if record.Rating != "" {
			rating = record.Rating
		}

		_, err := insertTitle.Exec(record.ID, string(record.Kind), record.Title, dateAdded,
			record.ReleaseYear, rating, durationValue, durationUnit, record.Description)
		if err != nil {
			return fmt.Errorf("failed to insert title %s: %v", record.ID, err)
		}

		for table, entries := range map[string][]string{
			"title_directors": record.Directors,
			"title_cast":      record.Cast,
			"title_countries": record.Countries,
			"title_genres":    record.Genres,
		} {
			for _, entry := range entries {
				if _, err := listInserts[table].Exec(record.ID, entry); err != nil {
					return fmt.Errorf("failed to insert %s for title %s: %v", table, record.ID, err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit bulk load: %v", err)
	}

	return nil
}

// CountTitles reports how many records are loaded.
func (s *SQLiteStorage) CountTitles() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM titles").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count titles: %v", err)
	}
	return count, nil
}

func (s *SQLiteStorage) GetStats() (map[string]int, error) {
	stats := make(map[string]int)

	// Total titles
	var total int
	err := s.db.QueryRow("SELECT COUNT(*) FROM titles").Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("failed to get total count: %v", err)
	}
	stats["total"] = total

	// Movies count
	var movies int
	err = s.db.QueryRow("SELECT COUNT(*) FROM titles WHERE kind = ?", string(catalog.KindMovie)).Scan(&movies)
	if err != nil {
		return nil, fmt.Errorf("failed to get movies count: %v", err)
	}
	stats["movies"] = movies

	// TV shows count
	var shows int
	err = s.db.QueryRow("SELECT COUNT(*) FROM titles WHERE kind = ?", string(catalog.KindTVShow)).Scan(&shows)
	if err != nil {
		return nil, fmt.Errorf("failed to get shows count: %v", err)
	}
	stats["shows"] = shows

	return stats, nil
}

func (s *SQLiteStorage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStorage) GetDB() (*sql.DB, error) {
	if s.db == nil {
		// Open database connection if not already open
		db, err := sql.Open("sqlite3", s.dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %v", err)
		}
		s.db = db
	}
	return s.db, nil
}

// Migration management methods
func (s *SQLiteStorage) GetMigrationManager() *MigrationManager {
	return NewMigrationManager(s.db)
}

func (s *SQLiteStorage) GetDatabaseVersion() (int64, error) {
	migrationManager := s.GetMigrationManager()
	if err := migrationManager.Initialize(); err != nil {
		return 0, err
	}
	return migrationManager.Version()
}

func (s *SQLiteStorage) RunMigrations() error {
	migrationManager := s.GetMigrationManager()
	if err := migrationManager.Initialize(); err != nil {
		return err
	}
	return migrationManager.Up()
}

func (s *SQLiteStorage) RollbackMigration() error {
	migrationManager := s.GetMigrationManager()
	if err := migrationManager.Initialize(); err != nil {
		return err
	}
	return migrationManager.Down()
}

func (s *SQLiteStorage) ResetDatabase() error {
	migrationManager := s.GetMigrationManager()
	if err := migrationManager.Initialize(); err != nil {
		return err
	}
	return migrationManager.Reset()
}
