package models

import "time"

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// Meta holds the fields every content record carries. Status transitions
// between draft and published are unconstrained.
type Meta struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	Status    Status    `json:"status"`
	Featured  bool      `json:"featured"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedBy *string   `json:"created_by,omitempty"`
	UpdatedBy *string   `json:"updated_by,omitempty"`
}

// ContentInput is the editable part of Meta.
type ContentInput struct {
	Slug     string `json:"slug" validate:"required,slug,max=200"`
	Status   Status `json:"status" validate:"required,oneof=draft published"`
	Featured bool   `json:"featured"`
}

// Filter narrows content listings. Zero values do not filter.
type Filter struct {
	Status   Status   `json:"status,omitempty"`
	Featured *bool    `json:"featured,omitempty"`
	Search   string   `json:"search,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Tech     []string `json:"tech,omitempty"`
	Limit    int      `json:"limit,omitempty"`
	Offset   int      `json:"offset,omitempty"`
}

func Published() Filter {
	return Filter{Status: StatusPublished}
}
