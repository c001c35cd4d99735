package response

import (
	"time"

	"yamdb/internal/data/entity"
)

type ReviewResponse struct {
	ID      string    `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	Score   int       `json:"score"`
	PubDate time.Time `json:"pub_date"`
}

type TitleRatingResponse struct {
	TitleID     string `json:"title_id"`
	Rating      *int   `json:"rating"`
	ReviewCount int64  `json:"review_count"`
}

func ReviewToResponse(review *entity.Review) ReviewResponse {
	return ReviewResponse{
		ID:      review.ID.String(),
		Text:    review.Text,
		Author:  review.AuthorUsername,
		Score:   review.Score,
		PubDate: review.CreatedAt,
	}
}
