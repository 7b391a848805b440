package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/webfindlead/leadworker/internal/classify"
	"github.com/webfindlead/leadworker/internal/places"
	"github.com/webfindlead/leadworker/internal/scan"
	"github.com/webfindlead/leadworker/logger"
	"github.com/webfindlead/leadworker/pkg/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS leads (
    id             UUID PRIMARY KEY,
    identity_key   TEXT NOT NULL UNIQUE,
    name           TEXT NOT NULL,
    category       TEXT NOT NULL DEFAULT '',
    rating         DOUBLE PRECISION NOT NULL DEFAULT 0,
    reviews        INTEGER NOT NULL DEFAULT 0,
    website        TEXT,
    phone          TEXT,
    email          TEXT,
    maps_url       TEXT,
    website_status TEXT NOT NULL,
    socials        JSONB NOT NULL DEFAULT '{}',
    created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PostgresStore implements LeadStore using pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects a pgx pool and makes sure the schema exists.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, errors.NewStorage("store", "failed to create connection pool", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.NewStorage("store", "database unreachable", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, errors.NewStorage("store", "failed to ensure schema", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// SaveLeads inserts each record keyed by its canonical identity; rows that
// already exist are left untouched, never merged.
func (s *PostgresStore) SaveLeads(ctx context.Context, leads []scan.BusinessRecord) (int, error) {
	log := logger.ForStore()
	saved := 0

	for _, lead := range leads {
		key := places.IdentityKey(lead.MapsLink, lead.Name)
		if key == "" {
			continue
		}

		socials, err := socialsJSON(lead.Socials)
		if err != nil {
			return saved, errors.NewStorage("store", "failed to encode socials", err)
		}

		tag, err := s.pool.Exec(ctx, `
			INSERT INTO leads (
				id, identity_key, name, category, rating, reviews,
				website, phone, email, maps_url, website_status, socials
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (identity_key) DO NOTHING`,
			uuid.New(), key, lead.Name, lead.Category, lead.Rating, lead.Reviews,
			nullable(lead.Website), nullable(lead.Phone), nullable(lead.Email),
			nullable(lead.MapsLink), string(lead.WebsiteStatus), socials,
		)
		if err != nil {
			return saved, errors.NewStorage("store", fmt.Sprintf("failed to save lead %q", lead.Name), err)
		}
		saved += int(tag.RowsAffected())
	}

	log.Info().Int("received", len(leads)).Int("saved", saved).Msg("Leads synced")
	return saved, nil
}

// UpdateClassification writes a terminal analysis onto an existing lead.
// A missing row is not an error: the record may have been discarded since
// the classification was queued.
func (s *PostgresStore) UpdateClassification(ctx context.Context, identityKey string, analysis classify.Analysis) error {
	email := ""
	if len(analysis.Emails) > 0 {
		email = analysis.Emails[0]
	}

	socials, err := socialsJSON(analysis.Socials)
	if err != nil {
		return errors.NewStorage("store", "failed to encode socials", err)
	}

	_, err = s.pool.Exec(ctx, `
		UPDATE leads
		SET website_status = $2, email = COALESCE($3, email), socials = $4, updated_at = NOW()
		WHERE identity_key = $1`,
		identityKey, string(analysis.Status), nullable(email), socials,
	)
	if err != nil {
		return errors.NewStorage("store", "failed to update classification", err)
	}
	return nil
}

// ListLeads returns stored leads, newest first.
func (s *PostgresStore) ListLeads(ctx context.Context, limit int) ([]StoredLead, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, name, category, rating, reviews,
		       COALESCE(website, ''), COALESCE(phone, ''), COALESCE(email, ''),
		       COALESCE(maps_url, ''), website_status, socials, created_at
		FROM leads
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, errors.NewStorage("store", "failed to list leads", err)
	}
	defer rows.Close()

	var leads []StoredLead
	for rows.Next() {
		var lead StoredLead
		var status string
		var socials []byte
		if err := rows.Scan(
			&lead.ID, &lead.Name, &lead.Category, &lead.Rating, &lead.Reviews,
			&lead.Website, &lead.Phone, &lead.Email, &lead.MapsURL,
			&status, &socials, &lead.CreatedAt,
		); err != nil {
			return nil, errors.NewStorage("store", "failed to scan lead row", err)
		}
		lead.WebsiteStatus = scan.WebsiteStatus(status)
		if len(socials) > 0 {
			_ = json.Unmarshal(socials, &lead.Socials)
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorage("store", "failed to iterate lead rows", err)
	}
	return leads, nil
}

// Close releases the pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

func socialsJSON(socials map[string]string) ([]byte, error) {
	if socials == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(socials)
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
