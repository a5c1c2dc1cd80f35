package scanner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"a11yassessor/internal/apperrors"
	"a11yassessor/internal/domain"
)

type stubEngine struct {
	issues      []domain.Issue
	err         error
	gotURL      string
	gotOpts     domain.ScanOptions
	hadDeadline bool
}

func (s *stubEngine) Scan(ctx context.Context, url string, opts domain.ScanOptions) ([]domain.Issue, error) {
	s.gotURL = url
	s.gotOpts = opts
	_, s.hadDeadline = ctx.Deadline()
	return s.issues, s.err
}

type stubResults struct {
	stored     domain.GroupedIssues
	resultTime domain.ResultTime
	upserts    int
	err        error
}

func (s *stubResults) UpsertAutomatedResult(ctx context.Context, siteID int64, groups domain.GroupedIssues) (domain.GroupedIssues, domain.ResultTime, error) {
	if s.err != nil {
		return domain.GroupedIssues{}, domain.ResultTime{}, s.err
	}
	s.upserts++
	s.stored = groups
	return groups, s.resultTime, nil
}

func (s *stubResults) GetAutomatedResult(ctx context.Context, siteID int64) (domain.GroupedIssues, error) {
	if s.err != nil {
		return domain.GroupedIssues{}, s.err
	}
	return s.stored, nil
}

func (s *stubResults) UpsertManualResults(ctx context.Context, siteID int64, answers map[string]domain.Answer) ([]domain.StoredAnswer, domain.ResultTime, error) {
	return nil, domain.ResultTime{}, nil
}

func (s *stubResults) GetManualResultRows(ctx context.Context, siteID int64) ([]domain.ManualResultRow, error) {
	return nil, nil
}

func TestRunForSite_ClassifiesAndPersists(t *testing.T) {
	engine := &stubEngine{issues: []domain.Issue{
		{Code: "image-alt", TypeCode: 1},
		{Code: "label", TypeCode: 2},
	}}
	results := &stubResults{}
	svc := New(engine, results, 30*time.Second, zap.NewNop())

	groups, _, err := svc.RunForSite(context.Background(), 5, "https://example.com")
	require.NoError(t, err)

	assert.Equal(t, 1, results.upserts)
	assert.Equal(t, 2, groups.Total())
	assert.True(t, engine.gotOpts.IncludeWarnings)
	assert.True(t, engine.gotOpts.IncludeNotices)
	assert.True(t, engine.hadDeadline, "engine call must carry a deadline")
}

func TestRunGuest_ExcludesWarningsAndDoesNotPersist(t *testing.T) {
	engine := &stubEngine{issues: []domain.Issue{{Code: "image-alt", TypeCode: 1}}}
	results := &stubResults{}
	svc := New(engine, results, 30*time.Second, zap.NewNop())

	groups, err := svc.RunGuest(context.Background(), "https://example.com")
	require.NoError(t, err)

	assert.Zero(t, results.upserts)
	assert.False(t, engine.gotOpts.IncludeWarnings)
	assert.False(t, engine.gotOpts.IncludeNotices)
	assert.Equal(t, 1, groups.Total())
}

func TestRunForSite_EngineFailurePropagates(t *testing.T) {
	engine := &stubEngine{err: apperrors.ErrUpstream}
	results := &stubResults{}
	svc := New(engine, results, time.Second, zap.NewNop())

	_, _, err := svc.RunForSite(context.Background(), 5, "https://example.com")
	require.ErrorIs(t, err, apperrors.ErrUpstream)
	assert.Zero(t, results.upserts)
}

func TestRunForSite_MissingEvaluatorSurfacesNotFound(t *testing.T) {
	engine := &stubEngine{issues: nil}
	results := &stubResults{err: apperrors.ErrNotFound}
	svc := New(engine, results, time.Second, zap.NewNop())

	_, _, err := svc.RunForSite(context.Background(), 5, "https://example.com")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRunForSite_MalformedIssueRejectedBeforePersistence(t *testing.T) {
	engine := &stubEngine{issues: []domain.Issue{{TypeCode: 1}}}
	results := &stubResults{}
	svc := New(engine, results, time.Second, zap.NewNop())

	_, _, err := svc.RunForSite(context.Background(), 5, "https://example.com")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Zero(t, results.upserts)
}

func TestResult_ReadsStore(t *testing.T) {
	var stored domain.GroupedIssues
	stored.GroupedErrors.Add(domain.Issue{Code: "A", TypeCode: 1})
	results := &stubResults{stored: stored}
	svc := New(&stubEngine{}, results, time.Second, zap.NewNop())

	got, err := svc.Result(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Total())
}
