// Package scanner orchestrates automated evaluations: call the scan engine,
// classify the issues, persist the grouped result.
package scanner

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"a11yassessor/internal/domain"
	"a11yassessor/internal/ports"
	"a11yassessor/internal/services/classifier"
)

// Service runs scans through the external engine. Every engine call is
// bounded by the configured timeout; the engine can otherwise hang on an
// unreachable target.
type Service struct {
	engine  ports.ScanEngine
	results ports.ResultRepository
	timeout time.Duration
	logger  *zap.Logger
}

// New creates a scanner service.
func New(engine ports.ScanEngine, results ports.ResultRepository, timeout time.Duration, logger *zap.Logger) *Service {
	return &Service{engine: engine, results: results, timeout: timeout, logger: logger}
}

// RunForSite scans url with the full severity range, classifies the issues,
// and stores the grouped result for the site together with the auto_time
// bump. Two concurrent runs for one site race at the database; the upsert
// makes the final state last-writer-wins.
func (s *Service) RunForSite(ctx context.Context, siteID int64, url string) (domain.GroupedIssues, domain.ResultTime, error) {
	groups, err := s.scan(ctx, url, domain.ScanOptions{
		IncludeWarnings: true,
		IncludeNotices:  true,
		Rules:           nil,
	})
	if err != nil {
		return domain.GroupedIssues{}, domain.ResultTime{}, err
	}

	stored, resultTime, err := s.results.UpsertAutomatedResult(ctx, siteID, groups)
	if err != nil {
		return domain.GroupedIssues{}, domain.ResultTime{}, err
	}
	s.logger.Info("automated result stored",
		zap.Int64("site_id", siteID),
		zap.Int("issues", stored.Total()))
	return stored, resultTime, nil
}

// RunGuest scans url for an anonymous caller. Warnings and notices are
// excluded and nothing is persisted.
func (s *Service) RunGuest(ctx context.Context, url string) (domain.GroupedIssues, error) {
	return s.scan(ctx, url, domain.ScanOptions{})
}

// Result returns the stored automated result for a site.
func (s *Service) Result(ctx context.Context, siteID int64) (domain.GroupedIssues, error) {
	return s.results.GetAutomatedResult(ctx, siteID)
}

func (s *Service) scan(ctx context.Context, url string, opts domain.ScanOptions) (domain.GroupedIssues, error) {
	scanCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	issues, err := s.engine.Scan(scanCtx, url, opts)
	if err != nil {
		return domain.GroupedIssues{}, fmt.Errorf("scan %s: %w", url, err)
	}

	groups, dropped, err := classifier.Classify(issues)
	if err != nil {
		return domain.GroupedIssues{}, fmt.Errorf("classify %s: %w", url, err)
	}
	if dropped > 0 {
		s.logger.Warn("issues with unknown severity dropped",
			zap.String("url", url),
			zap.Int("dropped", dropped))
	}
	s.logger.Debug("scan complete",
		zap.String("url", url),
		zap.Int("issues", groups.Total()),
		zap.Duration("took", time.Since(start)))
	return groups, nil
}
