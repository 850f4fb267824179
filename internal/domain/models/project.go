package models

type Project struct {
	Meta
	Title    string   `json:"title"`
	Summary  string   `json:"summary"`
	Body     string   `json:"body"`
	Client   string   `json:"client"`
	CoverURL *string  `json:"cover_url,omitempty"`
	Tech     []string `json:"tech"`
	Gallery  []string `json:"gallery"`
}

type ProjectInput struct {
	ContentInput
	Title    string   `json:"title" validate:"required,max=200"`
	Summary  string   `json:"summary" validate:"max=1000"`
	Body     string   `json:"body"`
	Client   string   `json:"client" validate:"max=200"`
	CoverURL *string  `json:"cover_url,omitempty" validate:"omitempty,url"`
	Tech     []string `json:"tech" validate:"dive,required,max=50"`
	Gallery  []string `json:"gallery" validate:"dive,url"`
}
