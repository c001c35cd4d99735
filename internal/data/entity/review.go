package entity

import (
	"github.com/google/uuid"
)

type Review struct {
	BaseSimple
	TitleID  uuid.UUID `db:"title_id"`
	AuthorID uuid.UUID `db:"author_id"`
	Text     string    `db:"text"`
	Score    int       `db:"score"` // 1-10

	AuthorUsername string `db:"author_username"`
}
