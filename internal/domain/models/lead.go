package models

import "time"

type LeadStatus string

const (
	LeadNew       LeadStatus = "new"
	LeadContacted LeadStatus = "contacted"
	LeadClosed    LeadStatus = "closed"
)

const LeadSourceContactForm = "contact_form"

// Lead is a visitor submitted contact request. The public can only create
// leads; admins only change their status.
type Lead struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     *string    `json:"phone,omitempty"`
	Subject   *string    `json:"subject,omitempty"`
	Message   string     `json:"message"`
	Source    string     `json:"source"`
	Status    LeadStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	UpdatedBy *string    `json:"updated_by,omitempty"`
}

type LeadInput struct {
	Name    string  `json:"name" validate:"required,min=2,max=120"`
	Email   string  `json:"email" validate:"required,email,max=254"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=40"`
	Subject *string `json:"subject,omitempty" validate:"omitempty,max=200"`
	Message string  `json:"message" validate:"required,min=10,max=5000"`
	Source  string  `json:"source" validate:"omitempty,max=50"`
}

type LeadStatusInput struct {
	Status LeadStatus `json:"status" validate:"required,oneof=new contacted closed"`
}

type LeadFilter struct {
	Status LeadStatus `json:"status,omitempty"`
	Search string     `json:"search,omitempty"`
	Limit  int        `json:"limit,omitempty"`
	Offset int        `json:"offset,omitempty"`
}
