package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// IssueGroups is an ordered grouping of issues by rule code. Group order is
// first-encounter order of each code; issue order within a group is input
// order. The JSON form is a plain object keyed by code, so existing stored
// blobs and clients keep working, but marshalling preserves group order
// instead of falling back to map key sorting.
type IssueGroups struct {
	order  []string
	byCode map[string][]Issue
}

// Add appends an issue to the group for its code, creating the group at the
// end of the order on first encounter.
func (g *IssueGroups) Add(issue Issue) {
	if g.byCode == nil {
		g.byCode = make(map[string][]Issue)
	}
	if _, ok := g.byCode[issue.Code]; !ok {
		g.order = append(g.order, issue.Code)
	}
	g.byCode[issue.Code] = append(g.byCode[issue.Code], issue)
}

// Codes returns the group codes in encounter order.
func (g IssueGroups) Codes() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Get returns the issues grouped under code, in input order.
func (g IssueGroups) Get(code string) []Issue {
	return g.byCode[code]
}

// Len returns the number of groups.
func (g IssueGroups) Len() int { return len(g.order) }

// Total returns the number of issues across all groups.
func (g IssueGroups) Total() int {
	n := 0
	for _, issues := range g.byCode {
		n += len(issues)
	}
	return n
}

// MarshalJSON renders the groups as an object keyed by code, in group order.
func (g IssueGroups) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, code := range g.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(code)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(g.byCode[code])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON parses an object keyed by code, preserving key order. A
// token-level walk is needed because encoding/json map decoding discards
// object key order.
func (g *IssueGroups) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("issue groups: expected object, got %v", tok)
	}

	g.order = nil
	g.byCode = make(map[string][]Issue)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		code, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("issue groups: non-string key %v", keyTok)
		}
		var issues []Issue
		if err := dec.Decode(&issues); err != nil {
			return fmt.Errorf("issue groups %q: %w", code, err)
		}
		if _, dup := g.byCode[code]; !dup {
			g.order = append(g.order, code)
		}
		g.byCode[code] = issues
	}

	// closing brace
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
