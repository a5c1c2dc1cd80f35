package ports

import (
	"context"

	"a11yassessor/internal/domain"
)

// SiteRepository manages sites and their evaluator/timestamp rows.
type SiteRepository interface {
	// AddSite creates the site, its evaluator link for userID, and an empty
	// result_time row as one atomic unit.
	AddSite(ctx context.Context, name, url string, userID int64) (domain.Site, error)
	ListSites(ctx context.Context, userID int64) ([]domain.Site, error)
	// GetSite returns the site with its evaluation timestamps.
	GetSite(ctx context.Context, siteID int64) (domain.Site, domain.ResultTime, error)
	// DeleteSite removes the site and everything tied to it: evaluator,
	// automated result, manual answers, timestamps.
	DeleteSite(ctx context.Context, siteID int64) error
}

// ResultRepository stores evaluation results per site. Upserts are keyed by
// the site's evaluator so re-running an evaluation overwrites the prior
// snapshot; the result write and its timestamp bump commit together or not
// at all.
type ResultRepository interface {
	UpsertAutomatedResult(ctx context.Context, siteID int64, groups domain.GroupedIssues) (domain.GroupedIssues, domain.ResultTime, error)
	GetAutomatedResult(ctx context.Context, siteID int64) (domain.GroupedIssues, error)
	UpsertManualResults(ctx context.Context, siteID int64, answers map[string]domain.Answer) ([]domain.StoredAnswer, domain.ResultTime, error)
	GetManualResultRows(ctx context.Context, siteID int64) ([]domain.ManualResultRow, error)
}

// CatalogRepository reads the static WCAG reference tables.
type CatalogRepository interface {
	LoadPrinciples(ctx context.Context) ([]domain.Principle, error)
	LoadGuidelines(ctx context.Context) ([]domain.Guideline, error)
	LoadQuestions(ctx context.Context) ([]domain.Question, error)
}
