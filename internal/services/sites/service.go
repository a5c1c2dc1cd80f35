// Package sites manages a user's portfolio of pages under evaluation.
package sites

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"

	"a11yassessor/internal/apperrors"
	"a11yassessor/internal/domain"
	"a11yassessor/internal/ports"
)

// Service wraps the site repository with input validation.
type Service struct {
	repo   ports.SiteRepository
	logger *zap.Logger
}

// New creates a sites service.
func New(repo ports.SiteRepository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Add validates the URL and creates the site, its evaluator link, and the
// empty timestamp row in one unit.
func (s *Service) Add(ctx context.Context, name, rawurl string, userID int64) (domain.Site, error) {
	if strings.TrimSpace(name) == "" {
		return domain.Site{}, apperrors.NewValidation("name", "site name is required")
	}
	normalized, err := normalizeURL(rawurl)
	if err != nil {
		return domain.Site{}, err
	}

	site, err := s.repo.AddSite(ctx, name, normalized, userID)
	if err != nil {
		return domain.Site{}, err
	}
	s.logger.Info("site added",
		zap.Int64("site_id", site.SiteID),
		zap.Int64("user_id", userID))
	return site, nil
}

// List returns every site the user evaluates.
func (s *Service) List(ctx context.Context, userID int64) ([]domain.Site, error) {
	return s.repo.ListSites(ctx, userID)
}

// Get returns a site with its evaluation timestamps.
func (s *Service) Get(ctx context.Context, siteID int64) (domain.Site, domain.ResultTime, error) {
	return s.repo.GetSite(ctx, siteID)
}

// Delete removes the site and everything stored for it.
func (s *Service) Delete(ctx context.Context, siteID int64) error {
	if err := s.repo.DeleteSite(ctx, siteID); err != nil {
		return err
	}
	s.logger.Info("site deleted", zap.Int64("site_id", siteID))
	return nil
}

// normalizeURL requires an absolute http(s) URL whose host has a registrable
// domain. Bare hosts like "localhost" are rejected; the scan engine needs a
// reachable public page.
func normalizeURL(rawurl string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawurl))
	if err != nil {
		return "", apperrors.NewValidation("url", "invalid URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", apperrors.NewValidation("url", "URL must be http or https")
	}
	host := u.Hostname()
	if host == "" {
		return "", apperrors.NewValidation("url", "URL has no host")
	}
	if _, err := publicsuffix.EffectiveTLDPlusOne(host); err != nil {
		return "", apperrors.NewValidation("url", "URL host %q has no registrable domain", host)
	}
	return u.String(), nil
}
