package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"

	"a11yassessor/internal/apperrors"
	"a11yassessor/internal/domain"
)

// evaluatorForSite resolves the site's evaluator inside tx. Every result
// write is keyed by evaluator, not site, so a site without one cannot hold
// results.
func evaluatorForSite(ctx context.Context, tx pgx.Tx, siteID int64) (int64, error) {
	var evaluatorID int64
	err := tx.QueryRow(ctx, `
		SELECT evaluator_id FROM evaluators WHERE site_id = $1
	`, siteID).Scan(&evaluatorID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, apperrors.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("resolve evaluator for site %d: %w", siteID, err)
	}
	return evaluatorID, nil
}

// UpsertAutomatedResult replaces the site's automated result snapshot and
// bumps auto_time in one transaction. Re-running a scan overwrites the prior
// snapshot; concurrent runs resolve last-writer-wins.
func (db *DB) UpsertAutomatedResult(ctx context.Context, siteID int64, groups domain.GroupedIssues) (domain.GroupedIssues, domain.ResultTime, error) {
	blob, err := json.Marshal(groups)
	if err != nil {
		return domain.GroupedIssues{}, domain.ResultTime{}, fmt.Errorf("encode automated result: %w", err)
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return domain.GroupedIssues{}, domain.ResultTime{}, fmt.Errorf("begin automated upsert: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	evaluatorID, err := evaluatorForSite(ctx, tx, siteID)
	if err != nil {
		return domain.GroupedIssues{}, domain.ResultTime{}, err
	}

	var storedBlob []byte
	err = tx.QueryRow(ctx, `
		INSERT INTO automated_results (evaluator_id, result)
		VALUES ($1, $2)
		ON CONFLICT (evaluator_id) DO UPDATE SET result = EXCLUDED.result
		RETURNING result
	`, evaluatorID, blob).Scan(&storedBlob)
	if err != nil {
		return domain.GroupedIssues{}, domain.ResultTime{}, fmt.Errorf("upsert automated result: %w", err)
	}

	rt := domain.ResultTime{SiteID: siteID}
	err = tx.QueryRow(ctx, `
		INSERT INTO result_time (site_id, auto_time)
		VALUES ($1, CURRENT_TIMESTAMP)
		ON CONFLICT (site_id) DO UPDATE SET auto_time = EXCLUDED.auto_time
		RETURNING auto_time, manual_time
	`, siteID).Scan(&rt.AutoTime, &rt.ManualTime)
	if err != nil {
		return domain.GroupedIssues{}, domain.ResultTime{}, fmt.Errorf("bump auto_time: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.GroupedIssues{}, domain.ResultTime{}, fmt.Errorf("commit automated upsert: %w", err)
	}

	var stored domain.GroupedIssues
	if err := json.Unmarshal(storedBlob, &stored); err != nil {
		return domain.GroupedIssues{}, domain.ResultTime{}, fmt.Errorf("decode stored automated result: %w", err)
	}
	return stored, rt, nil
}

// GetAutomatedResult returns the stored grouped result for a site.
func (db *DB) GetAutomatedResult(ctx context.Context, siteID int64) (domain.GroupedIssues, error) {
	var blob []byte
	err := db.Pool.QueryRow(ctx, `
		SELECT result FROM automated_results
		WHERE evaluator_id IN (SELECT evaluator_id FROM evaluators WHERE site_id = $1)
	`, siteID).Scan(&blob)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.GroupedIssues{}, apperrors.ErrNotFound
	}
	if err != nil {
		return domain.GroupedIssues{}, fmt.Errorf("get automated result: %w", err)
	}

	var groups domain.GroupedIssues
	if err := json.Unmarshal(blob, &groups); err != nil {
		return domain.GroupedIssues{}, fmt.Errorf("decode automated result: %w", err)
	}
	return groups, nil
}

// UpsertManualResults replaces the site's answers for every submitted
// question and bumps manual_time, all in one transaction: one row per
// (q_id, evaluator_id) pair, later saves overwriting earlier ones.
func (db *DB) UpsertManualResults(ctx context.Context, siteID int64, answers map[string]domain.Answer) ([]domain.StoredAnswer, domain.ResultTime, error) {
	qids := make([]string, 0, len(answers))
	for qid := range answers {
		qids = append(qids, qid)
	}
	sort.Strings(qids)

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, domain.ResultTime{}, fmt.Errorf("begin manual upsert: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	evaluatorID, err := evaluatorForSite(ctx, tx, siteID)
	if err != nil {
		return nil, domain.ResultTime{}, err
	}

	batch := &pgx.Batch{}
	for _, qid := range qids {
		answer := answers[qid]
		batch.Queue(`
			INSERT INTO manual_results (q_id, evaluator_id, result, observation)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (q_id, evaluator_id)
			DO UPDATE SET result = EXCLUDED.result, observation = EXCLUDED.observation
			RETURNING q_id, result, observation
		`, qid, evaluatorID, answer.ResultOption, answer.Observation)
	}

	br := tx.SendBatch(ctx, batch)
	stored := make([]domain.StoredAnswer, 0, len(qids))
	for range qids {
		var sa domain.StoredAnswer
		if err := br.QueryRow().Scan(&sa.QID, &sa.Result, &sa.Observation); err != nil {
			_ = br.Close()
			return nil, domain.ResultTime{}, fmt.Errorf("upsert manual result: %w", err)
		}
		stored = append(stored, sa)
	}
	if err := br.Close(); err != nil {
		return nil, domain.ResultTime{}, fmt.Errorf("close manual batch: %w", err)
	}

	rt := domain.ResultTime{SiteID: siteID}
	err = tx.QueryRow(ctx, `
		INSERT INTO result_time (site_id, manual_time)
		VALUES ($1, CURRENT_TIMESTAMP)
		ON CONFLICT (site_id) DO UPDATE SET manual_time = EXCLUDED.manual_time
		RETURNING auto_time, manual_time
	`, siteID).Scan(&rt.AutoTime, &rt.ManualTime)
	if err != nil {
		return nil, domain.ResultTime{}, fmt.Errorf("bump manual_time: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ResultTime{}, fmt.Errorf("commit manual upsert: %w", err)
	}
	return stored, rt, nil
}

// GetManualResultRows returns the site's answered questions joined with
// their guideline and principle names. ErrNotFound when the site has no
// stored answers.
func (db *DB) GetManualResultRows(ctx context.Context, siteID int64) ([]domain.ManualResultRow, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT mq.q_id, mq.guideline_name, mq.title, g.principle_name, mr.result, mr.observation
		FROM manual_results mr
		JOIN manual_questions mq ON mq.q_id = mr.q_id
		JOIN guidelines g ON g.title = mq.guideline_name
		WHERE mr.evaluator_id IN (SELECT evaluator_id FROM evaluators WHERE site_id = $1)
		ORDER BY g.principle_name, mq.guideline_name, mq.q_id
	`, siteID)
	if err != nil {
		return nil, fmt.Errorf("get manual results: %w", err)
	}
	defer rows.Close()

	var out []domain.ManualResultRow
	for rows.Next() {
		var r domain.ManualResultRow
		if err := rows.Scan(&r.QID, &r.GuidelineName, &r.Title, &r.PrincipleName, &r.Result, &r.Observation); err != nil {
			return nil, fmt.Errorf("scan manual result row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return out, nil
}
