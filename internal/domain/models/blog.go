package models

import "time"

type BlogPost struct {
	Meta
	Title    string    `json:"title"`
	Excerpt  string    `json:"excerpt"`
	Body     string    `json:"body"`
	Author   string    `json:"author"`
	CoverURL *string   `json:"cover_url,omitempty"`
	Tags     []string  `json:"tags"`
	Date     time.Time `json:"date"`
}

type BlogPostInput struct {
	ContentInput
	Title    string     `json:"title" validate:"required,max=200"`
	Excerpt  string     `json:"excerpt" validate:"max=500"`
	Body     string     `json:"body"`
	Author   string     `json:"author" validate:"max=120"`
	CoverURL *string    `json:"cover_url,omitempty" validate:"omitempty,url"`
	Tags     []string   `json:"tags" validate:"dive,required,max=50"`
	Date     *time.Time `json:"date,omitempty"`
}
