package esdsl

import "encoding/json"

// SortOrder is the direction of one sort clause.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Sort orders results by a single field.
type Sort struct {
	Field string
	Order SortOrder
}

// MarshalJSON emits {"<field>": {"order": "asc|desc"}}.
func (s Sort) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{s.Field: map[string]string{"order": string(s.Order)}})
}

// Source restricts which document fields the backend returns.
type Source struct {
	Includes []string
}

// MarshalJSON emits {"includes": [...]}.
func (s Source) MarshalJSON() ([]byte, error) {
	includes := s.Includes
	if includes == nil {
		includes = []string{}
	}
	return json.Marshal(map[string][]string{"includes": includes})
}

// Query is the complete search request document. Key order on the wire is
// fixed (from, size, sort, query, post_filter, _source); sort, post_filter
// and _source are omitted when unset rather than emitted empty.
type Query struct {
	From       int
	Size       int
	Sort       []Sort
	Query      Node
	PostFilter *Bool
	Source     *Source
}

type queryWire struct {
	From       int     `json:"from"`
	Size       int     `json:"size"`
	Sort       []Sort  `json:"sort,omitempty"`
	Query      Node    `json:"query"`
	PostFilter *Bool   `json:"post_filter,omitempty"`
	Source     *Source `json:"_source,omitempty"`
}

// MarshalJSON emits the request envelope.
func (q *Query) MarshalJSON() ([]byte, error) {
	return json.Marshal(queryWire{
		From:       q.From,
		Size:       q.Size,
		Sort:       q.Sort,
		Query:      q.Query,
		PostFilter: q.PostFilter,
		Source:     q.Source,
	})
}
