package manualeval

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"a11yassessor/internal/apperrors"
	"a11yassessor/internal/domain"
)

func formFixture() *domain.EvalForm {
	return &domain.EvalForm{
		Principles: []domain.Principle{
			{Title: "Perceivable"},
			{Title: "Operable"},
		},
		GroupedGuidelines: map[string][]domain.Guideline{
			"Perceivable": {
				{Title: "Text Alternatives", PrincipleName: "Perceivable", Questions: []domain.Question{
					{QID: "1.1.1", GuidelineName: "Text Alternatives", Title: "Non-text Content"},
				}},
			},
			"Operable": {
				{Title: "Keyboard Accessible", PrincipleName: "Operable", Questions: []domain.Question{
					{QID: "2.1.1", GuidelineName: "Keyboard Accessible", Title: "Keyboard"},
					{QID: "2.1.2", GuidelineName: "Keyboard Accessible", Title: "No Keyboard Trap"},
				}},
			},
		},
	}
}

func TestInitialize_BlankFormDefaultsEveryQuestion(t *testing.T) {
	state, err := Initialize(formFixture(), nil)
	require.NoError(t, err)

	require.Len(t, state, 3)
	for qid, answer := range state {
		assert.Equal(t, domain.ResultNotEvaluated, answer.ResultOption, "q %s", qid)
		assert.Empty(t, answer.Observation, "q %s", qid)
	}
}

func TestInitialize_MergesStoredAnswers(t *testing.T) {
	stored := domain.PrincipleGroupedRows{
		"Operable": {
			"Keyboard Accessible": {
				{QID: "2.1.1", Result: domain.ResultFail, Observation: "focus lost in modal"},
			},
		},
	}

	state, err := Initialize(formFixture(), stored)
	require.NoError(t, err)

	assert.Equal(t, domain.Answer{ResultOption: domain.ResultFail, Observation: "focus lost in modal"}, state["2.1.1"])
	assert.Equal(t, domain.Answer{ResultOption: domain.ResultNotEvaluated}, state["2.1.2"])
	assert.Equal(t, domain.Answer{ResultOption: domain.ResultNotEvaluated}, state["1.1.1"])
}

func TestInitialize_QuestionWithoutIDRejected(t *testing.T) {
	form := formFixture()
	form.GroupedGuidelines["Perceivable"][0].Questions = append(
		form.GroupedGuidelines["Perceivable"][0].Questions,
		domain.Question{Title: "Broken"},
	)

	_, err := Initialize(form, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "Broken")
}

func TestGroupForDisplay_RowSpansAndDeterministicOrder(t *testing.T) {
	rows := []domain.ManualResultRow{
		{QID: "2.1.2", GuidelineName: "Keyboard Accessible", PrincipleName: "Operable", Result: domain.ResultPass},
		{QID: "1.1.1", GuidelineName: "Text Alternatives", PrincipleName: "Perceivable", Result: domain.ResultFail},
		{QID: "2.1.1", GuidelineName: "Keyboard Accessible", PrincipleName: "Operable", Result: domain.ResultNotSure},
		{QID: "2.4.1", GuidelineName: "Navigable", PrincipleName: "Operable", Result: domain.ResultPass},
	}

	set := GroupForDisplay(rows)

	require.Len(t, set.Principles, 2)
	operable := set.Principles[0]
	assert.Equal(t, "Operable", operable.Name)
	assert.Equal(t, 3, operable.RowSpan)

	require.Len(t, operable.Guidelines, 2)
	keyboard := operable.Guidelines[0]
	assert.Equal(t, "Keyboard Accessible", keyboard.Name)
	assert.Equal(t, 2, keyboard.RowSpan)
	// Rows sorted by q_id inside a guideline.
	assert.Equal(t, "2.1.1", keyboard.Rows[0].QID)
	assert.Equal(t, "2.1.2", keyboard.Rows[1].QID)

	perceivable := set.Principles[1]
	assert.Equal(t, "Perceivable", perceivable.Name)
	assert.Equal(t, 1, perceivable.RowSpan)
}

func TestGroupForDisplay_GroupedMatchesNestedShape(t *testing.T) {
	rows := []domain.ManualResultRow{
		{QID: "1.1.1", GuidelineName: "Text Alternatives", PrincipleName: "Perceivable", Result: domain.ResultFail, Observation: "x"},
	}

	grouped := GroupForDisplay(rows).Grouped()
	require.Contains(t, grouped, "Perceivable")
	require.Contains(t, grouped["Perceivable"], "Text Alternatives")
	assert.Equal(t, rows, grouped["Perceivable"]["Text Alternatives"])
}

func TestGroupForDisplay_Empty(t *testing.T) {
	set := GroupForDisplay(nil)
	assert.Empty(t, set.Principles)
}

func TestInitialize_RoundTripThroughDisplayGrouping(t *testing.T) {
	// An answer saved for q42... here 2.1.1 must come back with the same
	// values after the display reshaping is fed back in as stored state.
	rows := []domain.ManualResultRow{
		{QID: "2.1.1", GuidelineName: "Keyboard Accessible", PrincipleName: "Operable", Result: domain.ResultFail, Observation: "x"},
	}
	stored := GroupForDisplay(rows).Grouped()

	state, err := Initialize(formFixture(), stored)
	require.NoError(t, err)
	assert.Equal(t, domain.Answer{ResultOption: domain.ResultFail, Observation: "x"}, state["2.1.1"])
}

type stubResultRepo struct {
	savedSiteID  int64
	savedAnswers map[string]domain.Answer
	stored       []domain.StoredAnswer
	resultTime   domain.ResultTime
	rows         []domain.ManualResultRow
	err          error
}

func (s *stubResultRepo) UpsertAutomatedResult(ctx context.Context, siteID int64, groups domain.GroupedIssues) (domain.GroupedIssues, domain.ResultTime, error) {
	return groups, s.resultTime, s.err
}

func (s *stubResultRepo) GetAutomatedResult(ctx context.Context, siteID int64) (domain.GroupedIssues, error) {
	return domain.GroupedIssues{}, s.err
}

func (s *stubResultRepo) UpsertManualResults(ctx context.Context, siteID int64, answers map[string]domain.Answer) ([]domain.StoredAnswer, domain.ResultTime, error) {
	if s.err != nil {
		return nil, domain.ResultTime{}, s.err
	}
	s.savedSiteID = siteID
	s.savedAnswers = answers
	return s.stored, s.resultTime, nil
}

func (s *stubResultRepo) GetManualResultRows(ctx context.Context, siteID int64) ([]domain.ManualResultRow, error) {
	return s.rows, s.err
}

func TestSave_ValidatesResultOptions(t *testing.T) {
	svc := New(&stubResultRepo{}, zap.NewNop())

	_, _, err := svc.Save(context.Background(), 1, map[string]domain.Answer{
		"1.1.1": {ResultOption: "Maybe"},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestSave_RejectsEmptyForm(t *testing.T) {
	svc := New(&stubResultRepo{}, zap.NewNop())

	_, _, err := svc.Save(context.Background(), 1, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestSave_PersistsThroughRepository(t *testing.T) {
	repo := &stubResultRepo{stored: []domain.StoredAnswer{{QID: "1.1.1", Result: domain.ResultPass}}}
	svc := New(repo, zap.NewNop())

	answers := map[string]domain.Answer{
		"1.1.1": {ResultOption: domain.ResultPass, Observation: "alt text present"},
	}
	stored, _, err := svc.Save(context.Background(), 42, answers)
	require.NoError(t, err)
	assert.Equal(t, int64(42), repo.savedSiteID)
	assert.Equal(t, answers, repo.savedAnswers)
	assert.Len(t, stored, 1)
}

func TestSave_MissingEvaluatorSurfacesNotFound(t *testing.T) {
	repo := &stubResultRepo{err: apperrors.ErrNotFound}
	svc := New(repo, zap.NewNop())

	_, _, err := svc.Save(context.Background(), 7, map[string]domain.Answer{
		"1.1.1": {ResultOption: domain.ResultPass},
	})
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestResults_GroupsStoredRows(t *testing.T) {
	repo := &stubResultRepo{rows: []domain.ManualResultRow{
		{QID: "1.1.1", GuidelineName: "Text Alternatives", PrincipleName: "Perceivable", Result: domain.ResultFail},
	}}
	svc := New(repo, zap.NewNop())

	set, err := svc.Results(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, set.Principles, 1)
	assert.Equal(t, "Perceivable", set.Principles[0].Name)
}
