package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRating(t *testing.T) {
	tests := []struct {
		name       string
		sum, count int64
		want       string
	}{
		{"two fives and a four", 14, 3, "4.67"},
		{"three and four", 7, 2, "3.50"},
		{"single", 5, 1, "5.00"},
		{"one third", 4, 3, "1.33"},
		{"half to even rounds down", 33, 8, "4.12"},
		{"half to even rounds up", 827, 200, "4.14"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRating(tt.sum, tt.count)
			require.NotNil(t, r)
			assert.Equal(t, tt.want, r.String())
		})
	}
}

func TestNewRating_NoRatings(t *testing.T) {
	assert.Nil(t, NewRating(0, 0))
}

func TestRating_MarshalJSON(t *testing.T) {
	b, err := Rating(467).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"4.67"`, string(b))
	assert.InDelta(t, 4.67, Rating(467).Float64(), 0.0001)
}

func TestValidRate(t *testing.T) {
	for r := RateMin; r <= RateMax; r++ {
		assert.True(t, ValidRate(r), "rate %d", r)
	}
	assert.False(t, ValidRate(0))
	assert.False(t, ValidRate(6))
	assert.False(t, ValidRate(-1))
}
