package model

import (
	"fmt"
	"strings"
)

type Status string

const (
	StatusAll        Status = "all"
	StatusCompleted  Status = "completed"
	StatusIncomplete Status = "incomplete"
)

func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusAll:
		return StatusAll, nil
	case StatusCompleted:
		return StatusCompleted, nil
	case StatusIncomplete:
		return StatusIncomplete, nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

type FilterCriteria struct {
	Status Status `json:"status"`
	Search string `json:"search"`
}

func DefaultFilter() FilterCriteria {
	return FilterCriteria{Status: StatusAll}
}

// IsActive reports whether the criteria hide anything.
func (f FilterCriteria) IsActive() bool {
	return f.Status != StatusAll || f.Search != ""
}

// Matches applies the status predicate and the case-insensitive title search.
func (f FilterCriteria) Matches(t Task) bool {
	switch f.Status {
	case StatusCompleted:
		if !t.Completed {
			return false
		}
	case StatusIncomplete:
		if t.Completed {
			return false
		}
	}
	if f.Search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Title), strings.ToLower(f.Search))
}

// FilterPatch is a partial update of FilterCriteria.
type FilterPatch struct {
	Status *Status `json:"status,omitempty"`
	Search *string `json:"search,omitempty"`
}

type Counts struct {
	All        int `json:"all"`
	Completed  int `json:"completed"`
	Incomplete int `json:"incomplete"`
}
