package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"a11yassessor/internal/apperrors"
	"a11yassessor/internal/domain"
)

// AddSite creates the site, the evaluator link for userID, and the empty
// result_time row in one transaction; a failure in any step leaves nothing
// behind.
func (db *DB) AddSite(ctx context.Context, name, url string, userID int64) (domain.Site, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return domain.Site{}, fmt.Errorf("begin add site: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var site domain.Site
	err = tx.QueryRow(ctx, `
		INSERT INTO sites (name, url)
		VALUES ($1, $2)
		RETURNING site_id, name, url
	`, name, url).Scan(&site.SiteID, &site.Name, &site.URL)
	if err != nil {
		return domain.Site{}, fmt.Errorf("insert site: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO evaluators (site_id, user_id)
		VALUES ($1, $2)
	`, site.SiteID, userID); err != nil {
		return domain.Site{}, fmt.Errorf("insert evaluator: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO result_time (site_id)
		VALUES ($1)
	`, site.SiteID); err != nil {
		return domain.Site{}, fmt.Errorf("insert result_time: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Site{}, fmt.Errorf("commit add site: %w", err)
	}
	return site, nil
}

// ListSites returns every site the user evaluates.
func (db *DB) ListSites(ctx context.Context, userID int64) ([]domain.Site, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT site_id, name, url
		FROM sites
		WHERE site_id IN (SELECT site_id FROM evaluators WHERE user_id = $1)
		ORDER BY site_id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}
	defer rows.Close()

	var sites []domain.Site
	for rows.Next() {
		var s domain.Site
		if err := rows.Scan(&s.SiteID, &s.Name, &s.URL); err != nil {
			return nil, fmt.Errorf("scan site: %w", err)
		}
		sites = append(sites, s)
	}
	return sites, rows.Err()
}

// GetSite returns the site joined with its evaluation timestamps.
func (db *DB) GetSite(ctx context.Context, siteID int64) (domain.Site, domain.ResultTime, error) {
	var site domain.Site
	rt := domain.ResultTime{SiteID: siteID}
	err := db.Pool.QueryRow(ctx, `
		SELECT s.site_id, s.name, s.url, rt.auto_time, rt.manual_time
		FROM sites s
		JOIN result_time rt ON rt.site_id = s.site_id
		WHERE s.site_id = $1
	`, siteID).Scan(&site.SiteID, &site.Name, &site.URL, &rt.AutoTime, &rt.ManualTime)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Site{}, domain.ResultTime{}, apperrors.ErrNotFound
	}
	if err != nil {
		return domain.Site{}, domain.ResultTime{}, fmt.Errorf("get site: %w", err)
	}
	return site, rt, nil
}

// DeleteSite removes the site and everything tied to it. The deletes stay
// explicit; the schema's ON DELETE CASCADE is only a backstop.
func (db *DB) DeleteSite(ctx context.Context, siteID int64) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete site: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, q := range []string{
		`DELETE FROM manual_results WHERE evaluator_id IN (SELECT evaluator_id FROM evaluators WHERE site_id = $1)`,
		`DELETE FROM automated_results WHERE evaluator_id IN (SELECT evaluator_id FROM evaluators WHERE site_id = $1)`,
		`DELETE FROM result_time WHERE site_id = $1`,
		`DELETE FROM evaluators WHERE site_id = $1`,
	} {
		if _, err := tx.Exec(ctx, q, siteID); err != nil {
			return fmt.Errorf("delete site dependents: %w", err)
		}
	}

	tag, err := tx.Exec(ctx, `DELETE FROM sites WHERE site_id = $1`, siteID)
	if err != nil {
		return fmt.Errorf("delete site: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit delete site: %w", err)
	}
	return nil
}
