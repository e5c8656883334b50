// Package archive journals evolutionary runs to SQLite: one row per
// individual per recorded generation. It is write-mostly bookkeeping for
// post-hoc analysis; populations are never reconstituted from it.
package archive

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/XiaoConstantine/genetics-go/pkg/errors"
	"github.com/XiaoConstantine/genetics-go/pkg/genetics"
	"github.com/XiaoConstantine/genetics-go/pkg/logging"
)

// Config controls where and how the archive database is opened.
type Config struct {
	// Path of the SQLite database file. Default: "genetics_archive.db".
	Path string

	// EnableWAL switches the database to write-ahead logging.
	EnableWAL bool
}

// Record is one archived individual.
type Record struct {
	Generation   int
	IndividualID string
	Architecture string
	Fitness      float64
	Rank         int
	Age          int
}

// Archive is a SQLite-backed journal of generations.
type Archive struct {
	db *sql.DB
}

// New opens (creating if needed) the archive database.
func New(config Config) (*Archive, error) {
	if config.Path == "" {
		config.Path = "genetics_archive.db"
	}

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	a := &Archive{db: db}
	if err := a.initDB(); err != nil {
		db.Close()
		return nil, err
	}

	if config.EnableWAL {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}
	if _, err := db.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		logging.GetLogger().Warn(context.Background(), "failed to set synchronous pragma: %v", err)
	}

	return a, nil
}

func (a *Archive) initDB() error {
	query := `
	CREATE TABLE IF NOT EXISTS generation_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		generation INTEGER NOT NULL,
		individual_id TEXT NOT NULL,
		architecture TEXT NOT NULL,
		fitness REAL NOT NULL,
		rank INTEGER NOT NULL,
		age INTEGER NOT NULL,
		recorded_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_generation ON generation_records(generation);
	CREATE INDEX IF NOT EXISTS idx_fitness ON generation_records(fitness);
	`

	_, err := a.db.Exec(query)
	return err
}

// RecordGeneration journals every member of the population under the given
// generation counter. The insert runs in a single transaction: a failure on
// any member leaves the archive without any row from this call.
func (a *Archive) RecordGeneration(ctx context.Context, generation int, population *genetics.Population) error {
	if generation < 0 {
		return errors.WithFields(
			errors.New(errors.InvalidInput, "generation counter must not be negative"),
			errors.Fields{"generation": generation})
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO generation_records
		(generation, individual_id, architecture, fitness, rank, age, recorded_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UnixNano()
	for _, individual := range population.Individuals() {
		architecture, err := individual.Architecture()
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, generation, individual.ID(), architecture,
			individual.Fitness(), individual.Rank(), individual.Age(), now); err != nil {
			return fmt.Errorf("failed to insert record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit generation: %w", err)
	}

	logging.GetLogger().Debug(ctx, "archived generation %d (%d individuals)",
		generation, population.Size())
	return nil
}

// BestRecorded returns the top-n rows ever archived, descending by fitness.
func (a *Archive) BestRecorded(ctx context.Context, n int) ([]Record, error) {
	if n < 1 {
		return nil, errors.WithFields(
			errors.New(errors.InvalidInput, "record count must be at least 1"),
			errors.Fields{"n": n})
	}

	rows, err := a.db.QueryContext(ctx, `
	SELECT generation, individual_id, architecture, fitness, rank, age
	FROM generation_records
	ORDER BY fitness DESC, id ASC
	LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Generation, &r.IndividualID, &r.Architecture,
			&r.Fitness, &r.Rank, &r.Age); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// GenerationCount returns the number of distinct generations archived.
func (a *Archive) GenerationCount(ctx context.Context) (int, error) {
	var count int
	err := a.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT generation) FROM generation_records`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count generations: %w", err)
	}
	return count, nil
}

// Close releases the underlying database handle.
func (a *Archive) Close() error {
	return a.db.Close()
}
