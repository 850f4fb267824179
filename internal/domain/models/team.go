package models

type TeamMember struct {
	Meta
	Name         string            `json:"name"`
	Role         string            `json:"role"`
	Bio          string            `json:"bio"`
	PhotoURL     *string           `json:"photo_url,omitempty"`
	SocialLinks  map[string]string `json:"social_links"`
	DisplayOrder int               `json:"display_order"`
}

type TeamMemberInput struct {
	ContentInput
	Name         string            `json:"name" validate:"required,max=120"`
	Role         string            `json:"role" validate:"max=120"`
	Bio          string            `json:"bio"`
	PhotoURL     *string           `json:"photo_url,omitempty" validate:"omitempty,url"`
	SocialLinks  map[string]string `json:"social_links" validate:"dive,keys,required,max=30,endkeys,url"`
	DisplayOrder int               `json:"display_order" validate:"gte=0"`
}
