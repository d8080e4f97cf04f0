package windowing

import (
	"cmp"
	"slices"
)

// CompareVideoModes orders modes ascending by color depth, area, width and
// refresh rate. It returns a negative number when a sorts before b.
func CompareVideoModes(a, b VideoMode) int {
	if c := cmp.Compare(a.BitsPerPixel(), b.BitsPerPixel()); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Width*a.Height, b.Width*b.Height); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Width, b.Width); c != 0 {
		return c
	}
	return cmp.Compare(a.RefreshRate, b.RefreshRate)
}

// SortVideoModes returns a sorted copy of modes without entries that compare
// equal.
func SortVideoModes(modes []VideoMode) []VideoMode {
	out := slices.Clone(modes)
	slices.SortStableFunc(out, CompareVideoModes)
	return slices.CompactFunc(out, func(a, b VideoMode) bool {
		return CompareVideoModes(a, b) == 0
	})
}

// ChooseVideoMode returns the index of the mode closest to desired, or -1
// when modes is empty. Color depth is matched first, then size, then refresh
// rate; DontCare fields are ignored and ties keep the earliest candidate.
func ChooseVideoMode(modes []VideoMode, desired VideoMode) int {
	closest := -1
	leastColorDiff, leastSizeDiff, leastRateDiff := 0, 0, 0

	for i, mode := range modes {
		colorDiff := 0
		if desired.RedBits != DontCare {
			colorDiff += abs(mode.RedBits - desired.RedBits)
		}
		if desired.GreenBits != DontCare {
			colorDiff += abs(mode.GreenBits - desired.GreenBits)
		}
		if desired.BlueBits != DontCare {
			colorDiff += abs(mode.BlueBits - desired.BlueBits)
		}

		sizeDiff := 0
		if desired.Width != DontCare {
			d := mode.Width - desired.Width
			sizeDiff += d * d
		}
		if desired.Height != DontCare {
			d := mode.Height - desired.Height
			sizeDiff += d * d
		}

		rateDiff := 0
		if desired.RefreshRate != DontCare {
			rateDiff = abs(mode.RefreshRate - desired.RefreshRate)
		}

		if closest < 0 ||
			colorDiff < leastColorDiff ||
			(colorDiff == leastColorDiff && sizeDiff < leastSizeDiff) ||
			(colorDiff == leastColorDiff && sizeDiff == leastSizeDiff && rateDiff < leastRateDiff) {
			closest = i
			leastColorDiff = colorDiff
			leastSizeDiff = sizeDiff
			leastRateDiff = rateDiff
		}
	}
	return closest
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
