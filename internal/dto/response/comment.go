package response

import (
	"time"

	"yamdb/internal/data/entity"
)

type CommentResponse struct {
	ID      string    `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	PubDate time.Time `json:"pub_date"`
}

func CommentToResponse(comment *entity.Comment) CommentResponse {
	return CommentResponse{
		ID:      comment.ID.String(),
		Text:    comment.Text,
		Author:  comment.AuthorUsername,
		PubDate: comment.CreatedAt,
	}
}
