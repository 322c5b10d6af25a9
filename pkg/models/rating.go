package models

import "math"

// StarState is the display state of one star position in a 5-star rating.
// Identifiers match the icon variants used by the storefront page.
type StarState string

const (
	StarFull  StarState = "full"
	StarHalf  StarState = "half"
	StarEmpty StarState = "empty"
)

// Stars renders a numeric rating as 5 discrete star positions. The rating
// is rounded to the nearest 0.5, ties rounding up. Inputs outside [0, 5]
// are not rejected; they saturate to all-full or all-empty.
func Stars(rating float64) [5]StarState {
	rounded := math.Floor(rating*2+0.5) / 2

	var stars [5]StarState
	for i := range stars {
		pos := float64(i + 1)
		switch {
		case pos <= rounded:
			stars[i] = StarFull
		case pos-0.5 == rounded:
			stars[i] = StarHalf
		default:
			stars[i] = StarEmpty
		}
	}
	return stars
}
