package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"peppolcheck/internal/participant/models"
)

const participantColumns = `full_pid, scheme_id, endpoint_id, company_name, country_code,
	registration_date, supports_invoice, supports_creditnote, raw_document_types, document_types`

// PostgresStore reads participants from the participants table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed participant store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// FindByFullID returns the participant whose full_pid equals fullPID exactly.
func (s *PostgresStore) FindByFullID(ctx context.Context, fullPID string) (*models.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE full_pid = $1`
	p, err := scanParticipant(s.db.QueryRowContext(ctx, query, fullPID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find participant by full pid: %w", err)
	}
	return p, nil
}

// FindByEndpointID returns every participant whose endpoint id equals endpointID
// case-insensitively, ordered by scheme.
func (s *PostgresStore) FindByEndpointID(ctx context.Context, endpointID string) ([]models.Participant, error) {
	query := `SELECT ` + participantColumns + `
		FROM participants
		WHERE LOWER(endpoint_id) = LOWER($1)
		ORDER BY scheme_id, full_pid`
	rows, err := s.db.QueryContext(ctx, query, endpointID)
	if err != nil {
		return nil, fmt.Errorf("find participants by endpoint id: %w", err)
	}
	return collect(rows)
}

// FindByEndpointCandidates returns participants whose lowercased endpoint id is
// one of candidates. Rows equal to original sort first, then rows equal to it
// ignoring case, then the rest; ties break on scheme and full pid.
func (s *PostgresStore) FindByEndpointCandidates(ctx context.Context, original string, candidates []string) ([]models.Participant, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	lowered := make([]string, len(candidates))
	for i, c := range candidates {
		lowered[i] = strings.ToLower(c)
	}
	query := `SELECT ` + participantColumns + `
		FROM participants
		WHERE LOWER(endpoint_id) = ANY($1::text[])
		ORDER BY
			CASE
				WHEN endpoint_id = $2 THEN 0
				WHEN LOWER(endpoint_id) = LOWER($2) THEN 1
				ELSE 2
			END,
			scheme_id, full_pid`
	rows, err := s.db.QueryContext(ctx, query, pq.Array(lowered), original)
	if err != nil {
		return nil, fmt.Errorf("find participants by endpoint candidates: %w", err)
	}
	return collect(rows)
}

// List returns one page of participants matching filter, ordered by company
// name then full pid.
func (s *PostgresStore) List(ctx context.Context, filter models.Filter, page models.Page) ([]models.Participant, error) {
	where, args := whereClause(filter)
	args = append(args, page.Limit, page.Offset())
	query := fmt.Sprintf(`SELECT %s FROM participants%s
		ORDER BY NULLIF(company_name, '') ASC NULLS LAST, full_pid ASC
		LIMIT $%d OFFSET $%d`, participantColumns, where, len(args)-1, len(args))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	return collect(rows)
}

// Count returns the number of participants matching filter.
func (s *PostgresStore) Count(ctx context.Context, filter models.Filter) (int, error) {
	where, args := whereClause(filter)
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM participants`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count participants: %w", err)
	}
	return n, nil
}

// Countries returns the distinct non-empty country codes in ascending order.
func (s *PostgresStore) Countries(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, `SELECT DISTINCT TRIM(country_code) FROM participants
		WHERE country_code IS NOT NULL AND TRIM(country_code) <> ''
		ORDER BY 1`)
}

// Schemes returns the distinct non-empty scheme ids in ascending order.
func (s *PostgresStore) Schemes(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, `SELECT DISTINCT scheme_id FROM participants
		WHERE scheme_id <> ''
		ORDER BY 1`)
}

func (s *PostgresStore) distinct(ctx context.Context, query string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query distinct values: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan distinct value: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate distinct values: %w", err)
	}
	return out, nil
}

type participantRow interface {
	Scan(dest ...any) error
}

func scanParticipant(row participantRow) (*models.Participant, error) {
	var (
		p          models.Participant
		company    sql.NullString
		country    sql.NullString
		registered sql.NullTime
		raw        sql.NullString
		docTypes   []byte
	)
	if err := row.Scan(&p.FullPID, &p.SchemeID, &p.EndpointID, &company, &country,
		&registered, &p.SupportsInvoice, &p.SupportsCreditNote, &raw, &docTypes); err != nil {
		return nil, err
	}
	p.CompanyName = company.String
	p.CountryCode = strings.TrimSpace(country.String)
	if registered.Valid {
		t := registered.Time
		p.RegistrationDate = &t
	}
	p.RawDocumentTypes = raw.String
	if len(docTypes) > 0 {
		p.DocumentTypes = append([]byte(nil), docTypes...)
	}
	return &p, nil
}

func collect(rows *sql.Rows) ([]models.Participant, error) {
	defer rows.Close()

	var out []models.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate participants: %w", err)
	}
	return out, nil
}
