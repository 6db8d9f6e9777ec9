// Package layout holds the rectangle arithmetic shared by the blit and text
// layout code.
package layout

import "image"

// InsetX shrinks rect horizontally only.
func InsetX(rect image.Rectangle, paddingPx int) image.Rectangle {
	if paddingPx <= 0 {
		return rect
	}
	return Normalize(image.Rect(rect.Min.X+paddingPx, rect.Min.Y, rect.Max.X-paddingPx, rect.Max.Y))
}

// Normalize ensures Min is <= Max on both axes.
func Normalize(rect image.Rectangle) image.Rectangle {
	if rect.Min.X > rect.Max.X {
		rect.Min.X, rect.Max.X = rect.Max.X, rect.Min.X
	}
	if rect.Min.Y > rect.Max.Y {
		rect.Min.Y, rect.Max.Y = rect.Max.Y, rect.Min.Y
	}
	return rect
}

// SplitHorizontal splits rect into top and bottom parts.
// topHeightPx is clamped to [0, rect.Dy()].
func SplitHorizontal(rect image.Rectangle, topHeightPx int) (top image.Rectangle, bottom image.Rectangle) {
	rect = Normalize(rect)
	height := rect.Dy()
	if topHeightPx < 0 {
		topHeightPx = 0
	}
	if topHeightPx > height {
		topHeightPx = height
	}
	top = image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+topHeightPx)
	bottom = image.Rect(rect.Min.X, rect.Min.Y+topHeightPx, rect.Max.X, rect.Max.Y)
	return top, bottom
}

// Bands cuts rect into n horizontal bands of rect.Dy()/n rows. Rows left
// over by the division go to the last band.
func Bands(rect image.Rectangle, n int) []image.Rectangle {
	rect = Normalize(rect)
	if n <= 1 || rect.Dy() < n {
		return []image.Rectangle{rect}
	}
	rows := rect.Dy() / n
	out := make([]image.Rectangle, 0, n)
	rest := rect
	for i := 0; i < n-1; i++ {
		var band image.Rectangle
		band, rest = SplitHorizontal(rest, rows)
		out = append(out, band)
	}
	return append(out, rest)
}

// Rows returns the single-pixel-high rows of rect, top to bottom.
func Rows(rect image.Rectangle) []image.Rectangle {
	rect = Normalize(rect)
	out := make([]image.Rectangle, 0, rect.Dy())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		out = append(out, image.Rect(rect.Min.X, y, rect.Max.X, y+1))
	}
	return out
}

// AnchorAt returns a rectangle of size (widthPx,heightPx) with its top-left at p.
func AnchorAt(p image.Point, widthPx, heightPx int) image.Rectangle {
	if widthPx < 0 {
		widthPx = 0
	}
	if heightPx < 0 {
		heightPx = 0
	}
	return image.Rect(p.X, p.Y, p.X+widthPx, p.Y+heightPx)
}

// Contains reports whether inner lies entirely within outer.
func Contains(outer, inner image.Rectangle) bool {
	return !inner.Empty() && inner.In(outer)
}
