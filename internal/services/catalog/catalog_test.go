package catalog

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

type stubCatalogRepo struct {
	principles []domain.Principle
	guidelines []domain.Guideline
	questions  []domain.Question
	loads      int
}

func (s *stubCatalogRepo) LoadPrinciples(ctx context.Context) ([]domain.Principle, error) {
	s.loads++
	return s.principles, nil
}

func (s *stubCatalogRepo) LoadGuidelines(ctx context.Context) ([]domain.Guideline, error) {
	return s.guidelines, nil
}

func (s *stubCatalogRepo) LoadQuestions(ctx context.Context) ([]domain.Question, error) {
	return s.questions, nil
}

func referenceFixture() *stubCatalogRepo {
	return &stubCatalogRepo{
		principles: []domain.Principle{
			{Title: "Perceivable", Description: "Content must be presentable to users in ways they can perceive."},
			{Title: "Operable", Description: "Interface components must be operable."},
		},
		guidelines: []domain.Guideline{
			{Title: "Text Alternatives", PrincipleName: "Perceivable"},
			{Title: "Distinguishable", PrincipleName: "Perceivable"},
			{Title: "Keyboard Accessible", PrincipleName: "Operable"},
		},
		questions: []domain.Question{
			{QID: "1.1.1", GuidelineName: "Text Alternatives", Title: "Non-text Content"},
			{QID: "1.4.3", GuidelineName: "Distinguishable", Title: "Contrast (Minimum)"},
			{QID: "2.1.1", GuidelineName: "Keyboard Accessible", Title: "Keyboard"},
			{QID: "2.1.2", GuidelineName: "Keyboard Accessible", Title: "No Keyboard Trap"},
		},
	}
}

func TestLoad_GroupsGuidelinesAndQuestions(t *testing.T) {
	repo := referenceFixture()
	svc := New(repo, nil, time.Hour, zap.NewNop())

	form, err := svc.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, form.Principles, 2)
	require.Len(t, form.GroupedGuidelines["Perceivable"], 2)
	require.Len(t, form.GroupedGuidelines["Operable"], 1)

	keyboard := form.GroupedGuidelines["Operable"][0]
	assert.Equal(t, "Keyboard Accessible", keyboard.Title)
	require.Len(t, keyboard.Questions, 2)
	assert.Equal(t, "2.1.1", keyboard.Questions[0].QID)

	assert.Len(t, form.GroupedQuestions["Keyboard Accessible"], 2)
}

func TestLoad_EveryQuestionAppearsExactlyOnce(t *testing.T) {
	repo := referenceFixture()
	svc := New(repo, nil, time.Hour, zap.NewNop())

	form, err := svc.Load(context.Background())
	require.NoError(t, err)

	seen := map[string]int{}
	for _, guidelines := range form.GroupedGuidelines {
		for _, g := range guidelines {
			for _, q := range g.Questions {
				seen[q.QID]++
			}
		}
	}
	require.Len(t, seen, len(repo.questions))
	for qid, n := range seen {
		assert.Equal(t, 1, n, "question %s appears %d times", qid, n)
	}
}

func TestLoad_OrphanQuestionFailsLoudly(t *testing.T) {
	repo := referenceFixture()
	repo.questions = append(repo.questions, domain.Question{
		QID: "9.9.9", GuidelineName: "No Such Guideline", Title: "Ghost",
	})
	svc := New(repo, nil, time.Hour, zap.NewNop())

	_, err := svc.Load(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsIntegrity(err))
	assert.Contains(t, err.Error(), "No Such Guideline")
}

func TestLoad_OrphanGuidelineFailsLoudly(t *testing.T) {
	repo := referenceFixture()
	repo.guidelines = append(repo.guidelines, domain.Guideline{
		Title: "Stray", PrincipleName: "No Such Principle",
	})
	svc := New(repo, nil, time.Hour, zap.NewNop())

	_, err := svc.Load(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsIntegrity(err))
}

func TestLoad_NoCacheHitsRepositoryEachTime(t *testing.T) {
	repo := referenceFixture()
	svc := New(repo, nil, time.Hour, zap.NewNop())

	_, err := svc.Load(context.Background())
	require.NoError(t, err)
	_, err = svc.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.loads)
}
