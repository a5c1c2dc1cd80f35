// Package manualeval merges guided-evaluation answers against the WCAG
// catalog: it seeds the form state, reshapes stored rows for display, and
// persists a completed form.
package manualeval

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"a11yassessor/internal/apperrors"
	"a11yassessor/internal/domain"
	"a11yassessor/internal/ports"
)

// Service implements the aggregation and persistence around manual answers.
type Service struct {
	results ports.ResultRepository
	logger  *zap.Logger
}

// New creates a manual-evaluation service.
func New(results ports.ResultRepository, logger *zap.Logger) *Service {
	return &Service{results: results, logger: logger}
}

// Initialize produces the form's initial answer state: one entry per question
// in the catalog, copying a stored answer when the (principle, guideline,
// q_id) triple has one and defaulting to Not Evaluated otherwise. stored may
// be nil for a fresh form. A catalog question without a q_id is rejected; a
// missing key would silently break the merge.
func Initialize(form *domain.EvalForm, stored domain.PrincipleGroupedRows) (map[string]domain.Answer, error) {
	state := make(map[string]domain.Answer)

	for _, principle := range form.Principles {
		for _, guideline := range form.GroupedGuidelines[principle.Title] {
			var storedRows []domain.ManualResultRow
			if stored != nil {
				storedRows = stored[principle.Title][guideline.Title]
			}
			for _, q := range guideline.Questions {
				if q.QID == "" {
					return nil, apperrors.NewValidation("q_id", "question %q under guideline %q has no q_id", q.Title, guideline.Title)
				}
				answer := domain.Answer{ResultOption: domain.ResultNotEvaluated, Observation: ""}
				for _, row := range storedRows {
					if row.QID == q.QID {
						answer = domain.Answer{ResultOption: row.Result, Observation: row.Observation}
						break
					}
				}
				state[q.QID] = answer
			}
		}
	}

	return state, nil
}

// GroupForDisplay reshapes flat answer rows into principle→guideline groups
// with the row-span counts the tabular result view renders: a guideline cell
// spans its criterion rows, a principle cell spans every criterion row under
// it. Output order is deterministic regardless of input order: principles and
// guidelines by name, rows by q_id.
func GroupForDisplay(rows []domain.ManualResultRow) domain.ManualResultSet {
	byPrinciple := make(map[string]map[string][]domain.ManualResultRow)
	for _, row := range rows {
		if byPrinciple[row.PrincipleName] == nil {
			byPrinciple[row.PrincipleName] = make(map[string][]domain.ManualResultRow)
		}
		byPrinciple[row.PrincipleName][row.GuidelineName] = append(byPrinciple[row.PrincipleName][row.GuidelineName], row)
	}

	principleNames := make([]string, 0, len(byPrinciple))
	for name := range byPrinciple {
		principleNames = append(principleNames, name)
	}
	sort.Strings(principleNames)

	var set domain.ManualResultSet
	for _, pName := range principleNames {
		guidelineNames := make([]string, 0, len(byPrinciple[pName]))
		for name := range byPrinciple[pName] {
			guidelineNames = append(guidelineNames, name)
		}
		sort.Strings(guidelineNames)

		principle := domain.PrincipleGroup{Name: pName}
		for _, gName := range guidelineNames {
			groupRows := byPrinciple[pName][gName]
			sort.Slice(groupRows, func(i, j int) bool { return groupRows[i].QID < groupRows[j].QID })
			principle.Guidelines = append(principle.Guidelines, domain.GuidelineGroup{
				Name:    gName,
				RowSpan: len(groupRows),
				Rows:    groupRows,
			})
			principle.RowSpan += len(groupRows)
		}
		set.Principles = append(set.Principles, principle)
	}

	return set
}

// Save validates and persists a completed form for a site, bumping the site's
// manual_time in the same write. A site with no evaluator yields ErrNotFound.
func (s *Service) Save(ctx context.Context, siteID int64, answers map[string]domain.Answer) ([]domain.StoredAnswer, domain.ResultTime, error) {
	if len(answers) == 0 {
		return nil, domain.ResultTime{}, apperrors.NewValidation("evalFormData", "no answers provided")
	}
	for qid, answer := range answers {
		if qid == "" {
			return nil, domain.ResultTime{}, apperrors.NewValidation("q_id", "answer with empty q_id")
		}
		if !domain.IsValidResultOption(answer.ResultOption) {
			return nil, domain.ResultTime{}, apperrors.NewValidation("resultOption", "invalid result option %q for question %s", answer.ResultOption, qid)
		}
	}

	stored, resultTime, err := s.results.UpsertManualResults(ctx, siteID, answers)
	if err != nil {
		return nil, domain.ResultTime{}, err
	}
	s.logger.Debug("manual results saved",
		zap.Int64("site_id", siteID),
		zap.Int("answers", len(stored)))
	return stored, resultTime, nil
}

// Results returns the stored answers for a site in display form.
func (s *Service) Results(ctx context.Context, siteID int64) (domain.ManualResultSet, error) {
	rows, err := s.results.GetManualResultRows(ctx, siteID)
	if err != nil {
		return domain.ManualResultSet{}, err
	}
	return GroupForDisplay(rows), nil
}
