package postgres

import (
	"context"
	"fmt"

	"a11yassessor/internal/domain"
)

// Reference-table reads. Seeded by migrations, never written at runtime.

func (db *DB) LoadPrinciples(ctx context.Context) ([]domain.Principle, error) {
	rows, err := db.Pool.Query(ctx, `SELECT title, description FROM principles ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("load principles: %w", err)
	}
	defer rows.Close()

	var out []domain.Principle
	for rows.Next() {
		var p domain.Principle
		if err := rows.Scan(&p.Title, &p.Description); err != nil {
			return nil, fmt.Errorf("scan principle: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (db *DB) LoadGuidelines(ctx context.Context) ([]domain.Guideline, error) {
	rows, err := db.Pool.Query(ctx, `SELECT title, principle_name FROM guidelines ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("load guidelines: %w", err)
	}
	defer rows.Close()

	var out []domain.Guideline
	for rows.Next() {
		var g domain.Guideline
		if err := rows.Scan(&g.Title, &g.PrincipleName); err != nil {
			return nil, fmt.Errorf("scan guideline: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (db *DB) LoadQuestions(ctx context.Context) ([]domain.Question, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT q_id, guideline_name, title, q_text, instructions, moreinfo, benefits
		FROM manual_questions
		ORDER BY q_id
	`)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	var out []domain.Question
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(&q.QID, &q.GuidelineName, &q.Title, &q.QText, &q.Instructions, &q.MoreInfo, &q.Benefits); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}
