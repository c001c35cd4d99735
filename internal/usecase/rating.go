package usecase

import "math"

// RoundRating rounds an average score half away from zero, matching
// PostgreSQL round(numeric). A nil average means the title has no reviews.
func RoundRating(avg *float64) *int {
	if avg == nil {
		return nil
	}
	rounded := int(math.Round(*avg))
	return &rounded
}
