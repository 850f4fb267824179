package models

import "time"

// Media describes an uploaded object. Orphaned records point at an object
// that has already been removed from storage.
type Media struct {
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	StorageKey string    `json:"storage_key"`
	Alt        string    `json:"alt"`
	Folder     *string   `json:"folder,omitempty"`
	MimeType   string    `json:"mime_type"`
	Width      *int      `json:"width,omitempty"`
	Height     *int      `json:"height,omitempty"`
	Orphaned   bool      `json:"orphaned"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	CreatedBy  *string   `json:"created_by,omitempty"`
}

type MediaInput struct {
	Alt    string  `json:"alt" validate:"max=300"`
	Folder *string `json:"folder,omitempty" validate:"omitempty,max=100"`
}

type MediaFilter struct {
	Folder          string `json:"folder,omitempty"`
	MimePrefix      string `json:"mime_prefix,omitempty"`
	IncludeOrphaned bool   `json:"include_orphaned,omitempty"`
	Limit           int    `json:"limit,omitempty"`
	Offset          int    `json:"offset,omitempty"`
}
