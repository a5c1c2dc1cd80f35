package domain

import "time"

// Core domain models. Wire shapes mirror the database columns and the stored
// result blobs, so JSON tags follow the column names.

// Severity type codes reported by the scan engine.
const (
	TypeCodeError   = 1
	TypeCodeWarning = 2
	TypeCodeNotice  = 3
)

// Issue is one accessibility problem reported by the scan engine for a page.
// Issues are immutable; they are grouped by the classifier and persisted only
// as part of a GroupedIssues blob.
type Issue struct {
	Code     string `json:"code"`
	TypeCode int    `json:"typeCode"`
	Context  string `json:"context"`
	Selector string `json:"selector"`
	Help     string `json:"help"`
	HelpURL  string `json:"helpUrl"`
}

// GroupedIssues partitions a scan's issues into severity buckets, each bucket
// grouped by rule code. This is the shape stored in automated_results.result.
type GroupedIssues struct {
	GroupedErrors   IssueGroups `json:"groupedErrors"`
	GroupedWarnings IssueGroups `json:"groupedWarnings"`
	GroupedNotices  IssueGroups `json:"groupedNotices"`
}

// Total returns the number of issues across all three buckets.
func (g GroupedIssues) Total() int {
	return g.GroupedErrors.Total() + g.GroupedWarnings.Total() + g.GroupedNotices.Total()
}

// ScanOptions selects what the scan engine reports.
type ScanOptions struct {
	IncludeWarnings bool     `json:"includeWarnings"`
	IncludeNotices  bool     `json:"includeNotices"`
	Rules           []string `json:"rules,omitempty"`
}

// Principle is a top-level WCAG principle. Reference data, read-only at runtime.
type Principle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Guideline belongs to a principle by name. Questions are attached at catalog
// load time.
type Guideline struct {
	Title         string     `json:"title"`
	PrincipleName string     `json:"principle_name"`
	Questions     []Question `json:"questions,omitempty"`
}

// Question is one guided-evaluation checklist item under a guideline.
type Question struct {
	QID           string   `json:"q_id"`
	GuidelineName string   `json:"guideline_name"`
	Title         string   `json:"title"`
	QText         string   `json:"q_text"`
	Instructions  []string `json:"instructions"`
	MoreInfo      []string `json:"moreinfo"`
	Benefits      []string `json:"benefits"`
}

// EvalForm is the guided-evaluation reference catalog reshaped for the form:
// the principle list plus guidelines grouped by principle and questions
// grouped by guideline.
type EvalForm struct {
	Principles        []Principle            `json:"principles"`
	GroupedGuidelines map[string][]Guideline `json:"groupedGuidelines"`
	GroupedQuestions  map[string][]Question  `json:"groupedQuestions"`
}

// Result options for a manual answer.
const (
	ResultNotEvaluated  = "Not Evaluated"
	ResultPass          = "Pass"
	ResultFail          = "Fail"
	ResultNotSure       = "Not sure"
	ResultNotApplicable = "Not applicable"
)

// IsValidResultOption reports whether s is one of the allowed answer options.
func IsValidResultOption(s string) bool {
	switch s {
	case ResultNotEvaluated, ResultPass, ResultFail, ResultNotSure, ResultNotApplicable:
		return true
	}
	return false
}

// Answer is a user's response to one question, keyed by q_id in the form state.
type Answer struct {
	ResultOption string `json:"resultOption"`
	Observation  string `json:"observation"`
}

// StoredAnswer is one persisted manual_results row as returned after a save.
type StoredAnswer struct {
	QID         string `json:"q_id"`
	Result      string `json:"result"`
	Observation string `json:"observation"`
}

// ManualResultRow is one flat row of the stored-answers query: an answered
// question joined with its guideline and principle names.
type ManualResultRow struct {
	QID           string `json:"q_id"`
	GuidelineName string `json:"guideline_name"`
	Title         string `json:"title"`
	PrincipleName string `json:"principle_name"`
	Result        string `json:"result"`
	Observation   string `json:"observation"`
}

// PrincipleGroupedRows is the nested principle→guideline→rows shape served to
// the result view and accepted back by Initialize as previously stored state.
type PrincipleGroupedRows map[string]map[string][]ManualResultRow

// GuidelineGroup is a guideline's answered rows plus the row-span the tabular
// view uses for the guideline cell (first row carries the span).
type GuidelineGroup struct {
	Name    string            `json:"name"`
	RowSpan int               `json:"rowSpan"`
	Rows    []ManualResultRow `json:"rows"`
}

// PrincipleGroup is a principle's guideline groups plus the row-span for the
// principle cell (total criterion rows under the principle).
type PrincipleGroup struct {
	Name       string           `json:"name"`
	RowSpan    int              `json:"rowSpan"`
	Guidelines []GuidelineGroup `json:"guidelines"`
}

// ManualResultSet is the display form of a site's stored manual answers:
// deterministically ordered groups with row-span metadata.
type ManualResultSet struct {
	Principles []PrincipleGroup `json:"principles"`
}

// Grouped reshapes the set into the nested map served by the API.
func (s ManualResultSet) Grouped() PrincipleGroupedRows {
	out := make(PrincipleGroupedRows, len(s.Principles))
	for _, p := range s.Principles {
		guidelines := make(map[string][]ManualResultRow, len(p.Guidelines))
		for _, g := range p.Guidelines {
			guidelines[g.Name] = g.Rows
		}
		out[p.Name] = guidelines
	}
	return out
}

// Site is one page under evaluation, owned by a user through an evaluator row.
type Site struct {
	SiteID int64  `json:"site_id"`
	Name   string `json:"name"`
	URL    string `json:"url"`
}

// ResultTime tracks when each kind of evaluation last ran for a site. Nil
// means that evaluation has never run.
type ResultTime struct {
	SiteID     int64      `json:"site_id"`
	AutoTime   *time.Time `json:"auto_time"`
	ManualTime *time.Time `json:"manual_time"`
}
