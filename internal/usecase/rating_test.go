package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundRating(t *testing.T) {
	assert.Nil(t, RoundRating(nil))

	tests := []struct {
		avg  float64
		want int
	}{
		{10, 10},
		{9, 9},
		{9.5, 10}, // half rounds away from zero
		{8.5, 9},
		{7.49, 7},
		{1, 1},
		{26.0 / 3.0, 9},
	}

	for _, tt := range tests {
		avg := tt.avg
		got := RoundRating(&avg)
		require.NotNil(t, got)
		assert.Equal(t, tt.want, *got, "avg %v", tt.avg)
	}
}
