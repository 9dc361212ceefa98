package tracking

// MaxBlur is the largest median blur aperture the slider allows.
const MaxBlur = 99

// SanitizeBlur maps a raw slider position to a valid median blur aperture.
// Non-positive positions give 1 (no blur), even positions are bumped to the
// next odd value and the result never exceeds MaxBlur.
func SanitizeBlur(pos int) int {
	if pos <= 0 {
		return 1
	}

	radius := pos
	if radius%2 == 0 {
		radius++
	}

	if radius > MaxBlur {
		return MaxBlur
	}
	return radius
}
