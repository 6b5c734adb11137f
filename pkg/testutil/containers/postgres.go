//go:build integration

package containers

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"peppolcheck/migrations"
)

// PostgresContainer wraps a testcontainers Postgres instance.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB
}

// NewPostgresContainer starts a new Postgres container with migrations applied.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:17-alpine",
		postgres.WithDatabase("peppol_test"),
		postgres.WithUsername("peppol"),
		postgres.WithPassword("peppol_test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to connect to postgres: %v", err)
	}

	pc := &PostgresContainer{
		Container: container,
		DSN:       dsn,
		DB:        db,
	}

	if err := pc.runMigrations(ctx); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Shared across suites by the Manager; Ryuk removes the container when the process exits.
	return pc
}

// runMigrations executes all *.up.sql migrations from the embedded migrations.FS.
func (p *PostgresContainer) runMigrations(ctx context.Context) error {
	entries, err := fs.ReadDir(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".up.sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	for _, file := range files {
		content, err := fs.ReadFile(migrations.FS, file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}
		if _, err := p.DB.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("execute migration %s: %w", file, err)
		}
	}

	return nil
}

// TruncateTables clears all data from the specified tables.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	for _, table := range tables {
		if _, err := p.DB.ExecContext(ctx, "TRUNCATE TABLE "+table+" RESTART IDENTITY CASCADE"); err != nil {
			return fmt.Errorf("truncate %s: %w", table, err)
		}
	}
	return nil
}

// ParticipantRow is a fixture row for the participants table.
type ParticipantRow struct {
	SchemeID           string
	EndpointID         string
	CompanyName        string
	CountryCode        string
	RegistrationDate   *time.Time
	SupportsInvoice    bool
	SupportsCreditNote bool
	RawDocumentTypes   string
	DocumentTypes      string // JSON text; empty stores NULL
}

// InsertParticipant inserts a fixture row, failing the test on error.
func (p *PostgresContainer) InsertParticipant(ctx context.Context, t testing.TB, row ParticipantRow) {
	t.Helper()

	var docTypes any
	if row.DocumentTypes != "" {
		docTypes = row.DocumentTypes
	}
	var country any
	if row.CountryCode != "" {
		country = row.CountryCode
	}

	_, err := p.DB.ExecContext(ctx, `
		INSERT INTO participants (full_pid, scheme_id, endpoint_id, company_name, country_code,
			registration_date, supports_invoice, supports_creditnote, raw_document_types, document_types)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::jsonb)
	`, row.SchemeID+":"+row.EndpointID, row.SchemeID, row.EndpointID, row.CompanyName, country,
		row.RegistrationDate, row.SupportsInvoice, row.SupportsCreditNote, row.RawDocumentTypes, docTypes)
	if err != nil {
		t.Fatalf("InsertParticipant: %v", err)
	}
}
