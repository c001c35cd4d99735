package response

import "yamdb/internal/data/entity"

type TitleResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Year        int               `json:"year"`
	Rating      *int              `json:"rating"`
	Description *string           `json:"description"`
	Genre       []GenreResponse   `json:"genre"`
	Category    *CategoryResponse `json:"category"`
}

// TitleToResponse takes the rating already rounded by the caller.
func TitleToResponse(title *entity.TitleDetail, rating *int) TitleResponse {
	genres := make([]GenreResponse, 0, len(title.Genres))
	for _, genre := range title.Genres {
		genres = append(genres, GenreToResponse(genre))
	}

	var category *CategoryResponse
	if title.Category != nil {
		c := CategoryToResponse(title.Category)
		category = &c
	}

	return TitleResponse{
		ID:          title.ID.String(),
		Name:        title.Name,
		Year:        title.Year,
		Rating:      rating,
		Description: title.Description,
		Genre:       genres,
		Category:    category,
	}
}
