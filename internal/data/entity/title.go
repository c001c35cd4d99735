package entity

import "github.com/google/uuid"

type Title struct {
	Base
	Name        string     `db:"name"`
	Year        int        `db:"year"`
	Description *string    `db:"description"`
	CategoryID  *uuid.UUID `db:"category_id"`
}

// TitleDetail is a title as read back with its relations and review aggregate.
type TitleDetail struct {
	Title
	Category *Category
	Genres   []*Genre

	// AverageScore is nil when the title has no reviews.
	AverageScore *float64
}
