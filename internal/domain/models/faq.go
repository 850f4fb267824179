package models

type FAQ struct {
	Meta
	Question     string `json:"question"`
	Answer       string `json:"answer"`
	Category     string `json:"category"`
	DisplayOrder int    `json:"display_order"`
}

type FAQInput struct {
	ContentInput
	Question     string `json:"question" validate:"required,max=300"`
	Answer       string `json:"answer" validate:"required"`
	Category     string `json:"category" validate:"max=100"`
	DisplayOrder int    `json:"display_order" validate:"gte=0"`
}
