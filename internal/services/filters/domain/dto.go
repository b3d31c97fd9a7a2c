package domain

import "github.com/google/uuid"

// CreateInput is the full request to create a rule
type CreateInput struct {
	Name              string  `json:"name" validate:"required,max=100" example:"Shop product"`
	Description       *string `json:"description,omitempty" validate:"omitempty,max=500"`
	URLPattern        string  `json:"url_pattern" validate:"required,max=2048" example:"https://shop.example.com/p/*"`
	Domain            string  `json:"domain" validate:"required,max=255" example:"shop.example.com"`
	ExtractionRegex   string  `json:"extraction_regex" validate:"required,max=1000,regex" example:"/p/(\\d+)"`
	CaptureGroupIndex *int    `json:"capture_group_index" validate:"required,min=0,max=20" example:"1"`
	Priority          *int    `json:"priority" validate:"required,min=0" example:"0"`
}

// UpdateInput is a partial update; nil fields are absent and left untouched
// an empty description clears it
type UpdateInput struct {
	Name              *string `json:"name,omitempty" validate:"omitempty,max=100"`
	Description       *string `json:"description,omitempty" validate:"omitempty,max=500"`
	URLPattern        *string `json:"url_pattern,omitempty" validate:"omitempty,max=2048"`
	Domain            *string `json:"domain,omitempty" validate:"omitempty,max=255"`
	ExtractionRegex   *string `json:"extraction_regex,omitempty" validate:"omitempty,max=1000,regex"`
	CaptureGroupIndex *int    `json:"capture_group_index,omitempty" validate:"omitempty,min=0,max=20"`
	Priority          *int    `json:"priority,omitempty" validate:"omitempty,min=0"`
	Active            *bool   `json:"active,omitempty"`
}

// Empty reports whether no field is present
func (in UpdateInput) Empty() bool {
	return in.Name == nil && in.Description == nil && in.URLPattern == nil && in.Domain == nil &&
		in.ExtractionRegex == nil && in.CaptureGroupIndex == nil && in.Priority == nil && in.Active == nil
}

// MatchInput asks which rule extracts a value from URL
type MatchInput struct {
	URL string `json:"url" validate:"required,max=8192" example:"https://shop.example.com/p/42"`
}

// MatchResult is the transport shape of a match attempt
type MatchResult struct {
	Matched  bool       `json:"matched"`
	FilterID *uuid.UUID `json:"filter_id,omitempty"`
	Value    string     `json:"value,omitempty"`
}

// ResultOf builds a MatchResult
func ResultOf(m Match, ok bool) MatchResult {
	if !ok {
		return MatchResult{}
	}
	id := m.FilterID
	return MatchResult{Matched: true, FilterID: &id, Value: m.Value}
}
