package request

// CreateTitleRequest references genres and the category by slug.
type CreateTitleRequest struct {
	Name        string   `json:"name" validate:"required,max=256"`
	Year        *int     `json:"year" validate:"required,min=0"`
	Description *string  `json:"description,omitempty"`
	Genre       []string `json:"genre" validate:"omitempty,dive,required,max=50"`
	Category    string   `json:"category" validate:"omitempty,max=50"`
}

// UpdateTitleRequest is a partial update. An empty category clears it.
type UpdateTitleRequest struct {
	Name        *string   `json:"name,omitempty" validate:"omitempty,max=256"`
	Year        *int      `json:"year,omitempty" validate:"omitempty,min=0"`
	Description *string   `json:"description,omitempty"`
	Genre       *[]string `json:"genre,omitempty" validate:"omitempty,dive,required,max=50"`
	Category    *string   `json:"category,omitempty" validate:"omitempty,max=50"`
}

type TitleFilterRequest struct {
	Genre    string
	Category string
	Name     string
	Year     *int
}
