package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SaveSite stores a site and its content in one transaction.
// A nil site ID is replaced with a fresh one; the stored ID is written back.
func (db *DB) SaveSite(ctx context.Context, site *Site, content *SiteContent) error {
	if site == nil {
		return fmt.Errorf("site is required")
	}
	if site.ID == uuid.Nil {
		site.ID = uuid.New()
	}
	config := site.Config
	if len(config) == 0 {
		config = json.RawMessage(`{}`)
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx,
		`INSERT INTO sites (id, name, slug, business_type, output_dir, config)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE SET name = $2, slug = $3, business_type = $4, output_dir = $5, config = $6
		 RETURNING created_at`,
		site.ID, site.Name, site.Slug, site.BusinessType, site.OutputDir, []byte(config),
	).Scan(&site.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save site: %w", err)
	}

	if content != nil {
		content.SiteID = site.ID
		origins, err := json.Marshal(content.Origins)
		if err != nil {
			return fmt.Errorf("failed to marshal origins: %w", err)
		}
		err = tx.QueryRow(ctx,
			`INSERT INTO site_contents (site_id, language, content, origins)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (site_id, language) DO UPDATE SET content = $3, origins = $4, created_at = NOW()
			 RETURNING created_at`,
			site.ID, content.Language, []byte(content.Content), origins,
		).Scan(&content.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to save site content: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit site: %w", err)
	}
	return nil
}

// GetSite retrieves a site by ID. It returns nil when the site does not exist.
func (db *DB) GetSite(ctx context.Context, id uuid.UUID) (*Site, error) {
	var site Site
	var config []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, slug, business_type, output_dir, config, created_at
		 FROM sites WHERE id = $1`,
		id,
	).Scan(&site.ID, &site.Name, &site.Slug, &site.BusinessType, &site.OutputDir, &config, &site.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get site: %w", err)
	}
	site.Config = config
	return &site, nil
}

// ListSites retrieves the most recently generated sites
func (db *DB) ListSites(ctx context.Context, limit int) ([]Site, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, name, slug, business_type, output_dir, created_at
		 FROM sites ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}
	defer rows.Close()

	var sites []Site
	for rows.Next() {
		var site Site
		if err := rows.Scan(&site.ID, &site.Name, &site.Slug, &site.BusinessType, &site.OutputDir, &site.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan site: %w", err)
		}
		sites = append(sites, site)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}
	return sites, nil
}

// GetSiteContent retrieves a site's content in one language.
// It returns nil when no content is stored for that language.
func (db *DB) GetSiteContent(ctx context.Context, siteID uuid.UUID, language string) (*SiteContent, error) {
	var content SiteContent
	var body, origins []byte
	err := db.pool.QueryRow(ctx,
		`SELECT site_id, language, content, origins, created_at
		 FROM site_contents WHERE site_id = $1 AND language = $2`,
		siteID, language,
	).Scan(&content.SiteID, &content.Language, &body, &origins, &content.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get site content: %w", err)
	}

	content.Content = body
	if len(origins) > 0 {
		if err := json.Unmarshal(origins, &content.Origins); err != nil {
			return nil, fmt.Errorf("failed to decode origins: %w", err)
		}
	}
	return &content, nil
}

// DeleteSite removes a site and its content. It reports whether a row was deleted.
func (db *DB) DeleteSite(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM sites WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete site: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
