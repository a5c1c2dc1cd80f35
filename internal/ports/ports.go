package ports

import (
	"context"

	"a11yassessor/internal/domain"
)

// ScanEngine is the external accessibility scanner, treated as an opaque,
// possibly slow, possibly failing black box.
type ScanEngine interface {
	Scan(ctx context.Context, url string, opts domain.ScanOptions) ([]domain.Issue, error)
}

// Scanner runs automated evaluations.
type Scanner interface {
	// RunForSite scans url, classifies the issues, and persists the grouped
	// result for the site.
	RunForSite(ctx context.Context, siteID int64, url string) (domain.GroupedIssues, domain.ResultTime, error)
	// RunGuest scans url for an anonymous caller without persisting; only
	// errors are reported.
	RunGuest(ctx context.Context, url string) (domain.GroupedIssues, error)
	// Result returns the stored automated result for a site.
	Result(ctx context.Context, siteID int64) (domain.GroupedIssues, error)
}

// Catalog serves the guided-evaluation reference data.
type Catalog interface {
	Load(ctx context.Context) (*domain.EvalForm, error)
}

// ManualEvaluator manages guided-evaluation answers.
type ManualEvaluator interface {
	Save(ctx context.Context, siteID int64, answers map[string]domain.Answer) ([]domain.StoredAnswer, domain.ResultTime, error)
	Results(ctx context.Context, siteID int64) (domain.ManualResultSet, error)
}

// Sites manages a user's site portfolio.
type Sites interface {
	Add(ctx context.Context, name, url string, userID int64) (domain.Site, error)
	List(ctx context.Context, userID int64) ([]domain.Site, error)
	Get(ctx context.Context, siteID int64) (domain.Site, domain.ResultTime, error)
	Delete(ctx context.Context, siteID int64) error
}
