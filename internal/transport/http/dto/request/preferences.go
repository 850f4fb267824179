package request

type PreferencesRequest struct {
	SidebarCollapsed *bool `json:"sidebar_collapsed" validate:"required"`
}
