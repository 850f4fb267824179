package models

import "time"

const SettingsID = "site"

// Settings is the site wide configuration singleton.
type Settings struct {
	ID           string            `json:"id"`
	SiteName     string            `json:"site_name"`
	Tagline      string            `json:"tagline"`
	LogoURL      *string           `json:"logo_url,omitempty"`
	ContactEmail string            `json:"contact_email"`
	ContactPhone string            `json:"contact_phone"`
	Address      string            `json:"address"`
	SocialLinks  map[string]string `json:"social_links"`
	Analytics    map[string]string `json:"analytics"`
	UpdatedAt    time.Time         `json:"updated_at"`
	UpdatedBy    *string           `json:"updated_by,omitempty"`
}

type SettingsInput struct {
	SiteName     string            `json:"site_name" validate:"required,max=120"`
	Tagline      string            `json:"tagline" validate:"max=200"`
	LogoURL      *string           `json:"logo_url,omitempty" validate:"omitempty,url"`
	ContactEmail string            `json:"contact_email" validate:"omitempty,email"`
	ContactPhone string            `json:"contact_phone" validate:"max=40"`
	Address      string            `json:"address" validate:"max=300"`
	SocialLinks  map[string]string `json:"social_links" validate:"dive,keys,required,max=30,endkeys,url"`
	Analytics    map[string]string `json:"analytics" validate:"dive,keys,required,max=50,endkeys,max=200"`
}
