package model

// Flags reports which operations are currently outstanding.
type Flags struct {
	Loading  bool `json:"loading"`
	Creating bool `json:"creating"`
	Updating bool `json:"updating"`
	Deleting bool `json:"deleting"`
}

// View is the derived state handed to the presentation layer.
type View struct {
	Tasks            []Task         `json:"tasks"`
	Counts           Counts         `json:"counts"`
	Filter           FilterCriteria `json:"filter"`
	HasActiveFilters bool           `json:"has_active_filters"`
	Error            *string        `json:"error"`
	Status           Flags          `json:"status"`
}
