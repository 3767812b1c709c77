// Package storage archives tender snapshots in Postgres.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"etenders/internal/models"
)

// DefaultTable holds one row per archived tender per run.
const DefaultTable = "tender_snapshots"

// ErrShortCopy is returned when Postgres accepts fewer rows than were sent.
var ErrShortCopy = errors.New("archive copied fewer rows than expected")

// columnNames are the archive columns; the tender columns follow models.Columns.
var columnNames = []string{
	"snapshot_date",
	"run_id",
	"services",
	"description",
	"date",
	"tender_number",
	"department",
	"tender_type",
	"province",
	"date_published",
	"closing_date",
	"place_required",
	"special_conditions",
	"contact_person",
	"contact_email",
	"contact_phone",
	"contact_fax",
	"briefing_session",
	"briefing_required",
	"briefing_date_time",
	"briefing_venue",
	"tender_documents",
}

// DB is the subset of pgx used by the archive. *pgx.Conn and *pgxpool.Pool satisfy it.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, table pgx.Identifier, columns []string, rows pgx.CopyFromSource) (int64, error)
}

// Archive appends snapshots to a Postgres table.
type Archive struct {
	db    DB
	table string
}

// Connect opens a pool for dsn.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()

		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return pool, nil
}

// NewArchive creates an archive writing to DefaultTable.
func NewArchive(db DB) *Archive {
	return &Archive{db: db, table: DefaultTable}
}

// EnsureSchema creates the archive table if it is missing.
func (a *Archive) EnsureSchema(ctx context.Context) error {
	sql := "CREATE TABLE IF NOT EXISTS " + pgx.Identifier{a.table}.Sanitize() + " (\n" +
		"\tsnapshot_date date NOT NULL,\n" +
		"\trun_id uuid NOT NULL"

	for _, col := range columnNames[2:] {
		sql += ",\n\t" + col + " text NOT NULL DEFAULT ''"
	}

	sql += "\n)"

	if _, err := a.db.Exec(ctx, sql); err != nil {
		return fmt.Errorf("failed to create %s: %w", a.table, err)
	}

	return nil
}

// Save copies records into the archive under one run.
func (a *Archive) Save(ctx context.Context, day time.Time, runID uuid.UUID, records []models.Tender) (int64, error) {
	date := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	id := [16]byte(runID)

	rows := make([][]any, len(records))
	for i := range records {
		row := make([]any, 0, len(columnNames))
		row = append(row, date, id)

		for _, v := range records[i].Values() {
			row = append(row, v)
		}

		rows[i] = row
	}

	n, err := a.db.CopyFrom(ctx, pgx.Identifier{a.table}, columnNames, pgx.CopyFromRows(rows))
	if err != nil {
		return n, fmt.Errorf("failed to copy into %s: %w", a.table, err)
	}

	if n != int64(len(records)) {
		return n, fmt.Errorf("%w: %d of %d", ErrShortCopy, n, len(records))
	}

	return n, nil
}
