package domain

import (
	"strconv"
)

const (
	// RateMin is the lowest rating a user may give a book.
	RateMin = 1
	// RateMax is the highest rating a user may give a book.
	RateMax = 5
)

// ValidRate reports whether r is within [RateMin, RateMax].
func ValidRate(r int) bool {
	return r >= RateMin && r <= RateMax
}

// Rating is an average rating expressed in hundredths (467 == 4.67).
type Rating int64

// NewRating averages count ratings that sum to sum, rounded to two decimals.
// Rounding is done on the exact quotient, half to even. Returns nil when
// there is nothing to average.
func NewRating(sum, count int64) *Rating {
	if count <= 0 {
		return nil
	}

	num := sum * 100
	q := num / count
	r := num % count
	if r < 0 {
		r = -r
	}

	switch twice := 2 * r; {
	case twice > count, twice == count && q%2 != 0:
		if num < 0 {
			q--
		} else {
			q++
		}
	}

	rating := Rating(q)
	return &rating
}

// String renders the rating with two decimals, e.g. "4.67".
func (r Rating) String() string {
	return Price(r).String()
}

// Float64 returns the rating as a floating point number.
func (r Rating) Float64() float64 {
	return float64(r) / 100
}

// MarshalJSON encodes the rating as a decimal string.
func (r Rating) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(r.String())), nil
}
