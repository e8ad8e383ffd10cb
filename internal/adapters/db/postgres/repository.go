package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"whatsapp-campaign-engine/internal/domain"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

// Repository implements ports.CampaignRepository and ports.OwnerDirectory
// using PostgreSQL.
type Repository struct {
	db *sql.DB
}

// New opens a PostgreSQL connection and returns a Repository.
func New(dsn string) (*Repository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &Repository{db: db}, nil
}

// Close closes the underlying database connection pool.
func (r *Repository) Close() error {
	return r.db.Close()
}

// SaveCampaign inserts a new campaign row.
func (r *Repository) SaveCampaign(ctx context.Context, c domain.Campaign) error {
	const q = `
		INSERT INTO campaigns (id, name, body, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, q, c.ID, c.Name, c.Body, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert campaign: %w", err)
	}
	return nil
}

// GetCampaign retrieves a campaign by ID.
func (r *Repository) GetCampaign(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	const q = `SELECT id, name, body, created_at FROM campaigns WHERE id = $1`

	var c domain.Campaign
	err := r.db.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.Name, &c.Body, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCampaignNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query campaign: %w", err)
	}
	return &c, nil
}

// GetCampaignByName retrieves a campaign by its identifying name.
func (r *Repository) GetCampaignByName(ctx context.Context, name string) (*domain.Campaign, error) {
	const q = `SELECT id, name, body, created_at FROM campaigns WHERE name = $1`

	var c domain.Campaign
	err := r.db.QueryRowContext(ctx, q, name).Scan(&c.ID, &c.Name, &c.Body, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCampaignNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query campaign by name: %w", err)
	}
	return &c, nil
}

// SaveContacts inserts the raw contact list of a campaign inside a single
// transaction, preserving list order via position.
func (r *Repository) SaveContacts(ctx context.Context, campaignID uuid.UUID, raw []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const q = `
		INSERT INTO campaign_contacts (campaign_id, position, raw_number)
		VALUES ($1, $2, $3)
	`
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		return fmt.Errorf("prepare insert contact: %w", err)
	}
	defer stmt.Close() //nolint:errcheck

	for i, number := range raw {
		if _, err := stmt.ExecContext(ctx, campaignID, i, number); err != nil {
			return fmt.Errorf("exec insert contact %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// GetContacts returns the raw contact list of a campaign in insertion order.
func (r *Repository) GetContacts(ctx context.Context, campaignID uuid.UUID) ([]string, error) {
	const q = `
		SELECT raw_number
		FROM campaign_contacts
		WHERE campaign_id = $1
		ORDER BY position ASC
	`
	rows, err := r.db.QueryContext(ctx, q, campaignID)
	if err != nil {
		return nil, fmt.Errorf("query contacts: %w", err)
	}
	defer rows.Close()

	var contacts []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, n)
	}
	return contacts, rows.Err()
}

// ListCampaignNames returns the names of all campaigns, newest first.
func (r *Repository) ListCampaignNames(ctx context.Context) ([]string, error) {
	const q = `SELECT name FROM campaigns ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query campaign names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan campaign name: %w", err)
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// SaveRun records the final tallies of a completed run.
func (r *Repository) SaveRun(ctx context.Context, run domain.CampaignRun) error {
	const q = `
		INSERT INTO campaign_runs (id, campaign_id, mode, started_at, finished_at, sent, failed, skipped)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, q,
		run.ID, run.CampaignID, run.Mode, run.StartedAt, run.FinishedAt,
		run.Stats.Sent, run.Stats.Failed, run.Stats.Skipped,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// GetOwnerByProperty resolves the owner of a property reference.
func (r *Repository) GetOwnerByProperty(ctx context.Context, propertyRef string) (domain.Owner, error) {
	const q = `SELECT property_ref, name, phone FROM owners WHERE property_ref = $1`

	var o domain.Owner
	var phone string
	err := r.db.QueryRowContext(ctx, q, propertyRef).Scan(&o.PropertyRef, &o.Name, &phone)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Owner{}, domain.ErrOwnerNotFound
	}
	if err != nil {
		return domain.Owner{}, fmt.Errorf("query owner: %w", err)
	}
	o.Phone = domain.CanonicalNumber(phone)
	return o, nil
}
