// Package catalog loads the WCAG reference data and reshapes it into the
// principle→guideline→questions form the guided-evaluation UI consumes.
package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"a11yassessor/internal/apperrors"
	"a11yassessor/internal/domain"
	"a11yassessor/internal/ports"
)

const cacheKey = "a11y:catalog:evalform"

// Service builds the guided-evaluation form from the reference tables. The
// tables are seeded once and never mutated at runtime, so an optional redis
// read-through cache sits in front of Postgres; a nil cache client disables
// caching.
type Service struct {
	repo   ports.CatalogRepository
	cache  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// New creates a catalog service. cache may be nil.
func New(repo ports.CatalogRepository, cache *redis.Client, ttl time.Duration, logger *zap.Logger) *Service {
	return &Service{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

// Load returns the full evaluation form. Every question in reference storage
// appears under exactly one guideline under exactly one principle; a dangling
// cross-reference fails the load rather than silently dropping rows.
func (s *Service) Load(ctx context.Context) (*domain.EvalForm, error) {
	if form, ok := s.fromCache(ctx); ok {
		return form, nil
	}

	principles, err := s.repo.LoadPrinciples(ctx)
	if err != nil {
		return nil, err
	}
	guidelines, err := s.repo.LoadGuidelines(ctx)
	if err != nil {
		return nil, err
	}
	questions, err := s.repo.LoadQuestions(ctx)
	if err != nil {
		return nil, err
	}

	form, err := Assemble(principles, guidelines, questions)
	if err != nil {
		return nil, err
	}

	s.toCache(ctx, form)
	return form, nil
}

// Assemble groups questions under their guidelines and guidelines under their
// principles, by name. Pure; exported for tests and for callers that already
// hold the rows.
func Assemble(principles []domain.Principle, guidelines []domain.Guideline, questions []domain.Question) (*domain.EvalForm, error) {
	principleTitles := make(map[string]struct{}, len(principles))
	for _, p := range principles {
		principleTitles[p.Title] = struct{}{}
	}

	groupedQuestions := make(map[string][]domain.Question)
	for _, q := range questions {
		groupedQuestions[q.GuidelineName] = append(groupedQuestions[q.GuidelineName], q)
	}

	guidelineTitles := make(map[string]struct{}, len(guidelines))
	groupedGuidelines := make(map[string][]domain.Guideline)
	for _, g := range guidelines {
		if _, ok := principleTitles[g.PrincipleName]; !ok {
			return nil, apperrors.NewIntegrity("guideline %q references unknown principle %q", g.Title, g.PrincipleName)
		}
		guidelineTitles[g.Title] = struct{}{}
		g.Questions = groupedQuestions[g.Title]
		groupedGuidelines[g.PrincipleName] = append(groupedGuidelines[g.PrincipleName], g)
	}

	for name := range groupedQuestions {
		if _, ok := guidelineTitles[name]; !ok {
			return nil, apperrors.NewIntegrity("questions reference unknown guideline %q", name)
		}
	}

	return &domain.EvalForm{
		Principles:        principles,
		GroupedGuidelines: groupedGuidelines,
		GroupedQuestions:  groupedQuestions,
	}, nil
}

func (s *Service) fromCache(ctx context.Context) (*domain.EvalForm, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, err := s.cache.Get(ctx, cacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("catalog cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var form domain.EvalForm
	if err := json.Unmarshal(data, &form); err != nil {
		s.logger.Warn("catalog cache entry corrupt, ignoring", zap.Error(err))
		return nil, false
	}
	return &form, true
}

func (s *Service) toCache(ctx context.Context, form *domain.EvalForm) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(form)
	if err != nil {
		s.logger.Warn("catalog cache encode failed", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, cacheKey, data, s.ttl).Err(); err != nil {
		s.logger.Warn("catalog cache write failed", zap.Error(err))
	}
}
