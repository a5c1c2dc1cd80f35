// Package classifier partitions raw scan issues into the grouped shape the
// result views and the stored blobs use.
package classifier

import (
	"a11yassessor/internal/apperrors"
	"a11yassessor/internal/domain"
)

// Classify partitions issues into error/warning/notice buckets and groups
// each bucket by rule code, preserving first-encounter code order and input
// order within a code. Pure and deterministic.
//
// Issues with a typeCode outside 1..3 are dropped; the count of dropped
// issues is returned so callers can log it. An issue with an empty code is
// rejected: grouping it would bury the malformed record under an arbitrary
// key inside a persisted blob.
func Classify(issues []domain.Issue) (domain.GroupedIssues, int, error) {
	var out domain.GroupedIssues
	dropped := 0

	for i, issue := range issues {
		switch issue.TypeCode {
		case domain.TypeCodeError, domain.TypeCodeWarning, domain.TypeCodeNotice:
		default:
			dropped++
			continue
		}
		if issue.Code == "" {
			return domain.GroupedIssues{}, 0, apperrors.NewValidation("code", "issue %d has no rule code", i)
		}

		switch issue.TypeCode {
		case domain.TypeCodeError:
			out.GroupedErrors.Add(issue)
		case domain.TypeCodeWarning:
			out.GroupedWarnings.Add(issue)
		case domain.TypeCodeNotice:
			out.GroupedNotices.Add(issue)
		}
	}

	return out, dropped, nil
}
