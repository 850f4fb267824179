package models

type Service struct {
	Meta
	Title        string  `json:"title"`
	Summary      string  `json:"summary"`
	Body         string  `json:"body"`
	IconURL      *string `json:"icon_url,omitempty"`
	DisplayOrder int     `json:"display_order"`
}

type ServiceInput struct {
	ContentInput
	Title        string  `json:"title" validate:"required,max=200"`
	Summary      string  `json:"summary" validate:"max=1000"`
	Body         string  `json:"body"`
	IconURL      *string `json:"icon_url,omitempty" validate:"omitempty,url"`
	DisplayOrder int     `json:"display_order" validate:"gte=0"`
}
