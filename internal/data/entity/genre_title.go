package entity

import "github.com/google/uuid"

// GenreTitle links a title to one of its genres.
type GenreTitle struct {
	BaseSimple
	GenreID uuid.UUID `db:"genre_id"`
	TitleID uuid.UUID `db:"title_id"`
}
