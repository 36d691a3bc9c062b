package utils

import (
	"image"
	"image/color"
	"math"
)

// DrawRect draws a rectangle outline with the given thickness.
func DrawRect(dst *image.RGBA, rect image.Rectangle, col color.Color, thickness int) {
	if thickness < 1 {
		thickness = 1
	}
	rect = rect.Intersect(dst.Bounds())
	if rect.Empty() {
		return
	}
	for t := 0; t < thickness; t++ {
		yTop := rect.Min.Y + t
		yBot := rect.Max.Y - 1 - t
		for x := rect.Min.X; x < rect.Max.X; x++ {
			dst.Set(x, yTop, col)
			dst.Set(x, yBot, col)
		}
	}
	for t := 0; t < thickness; t++ {
		xLeft := rect.Min.X + t
		xRight := rect.Max.X - 1 - t
		for y := rect.Min.Y; y < rect.Max.Y; y++ {
			dst.Set(xLeft, y, col)
			dst.Set(xRight, y, col)
		}
	}
}

// DrawLine draws a line between two points using a simple Bresenham variant.
func DrawLine(dst *image.RGBA, a, b image.Point, col color.Color, thickness int) {
	x0, y0 := a.X, a.Y
	x1, y1 := b.X, b.Y
	dx := int(math.Abs(float64(x1 - x0)))
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -int(math.Abs(float64(y1 - y0)))
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		setThick(dst, x0, y0, col, thickness)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func setThick(dst *image.RGBA, x, y int, col color.Color, thickness int) {
	if thickness <= 1 {
		if image.Pt(x, y).In(dst.Bounds()) {
			dst.Set(x, y, col)
		}
		return
	}
	r := thickness / 2
	for oy := -r; oy <= r; oy++ {
		for ox := -r; ox <= r; ox++ {
			p := image.Pt(x+ox, y+oy)
			if p.In(dst.Bounds()) {
				dst.Set(p.X, p.Y, col)
			}
		}
	}
}

// FillEllipse fills an axis-aligned ellipse centered at (cx, cy).
func FillEllipse(dst *image.RGBA, cx, cy, rx, ry float64, col color.Color) {
	if rx <= 0 || ry <= 0 {
		return
	}
	b := dst.Bounds()
	y0 := ClampInt(int(cy-ry), b.Min.Y, b.Max.Y)
	y1 := ClampInt(int(cy+ry)+1, b.Min.Y, b.Max.Y)
	for y := y0; y < y1; y++ {
		dyn := (float64(y) - cy) / ry
		span := 1 - dyn*dyn
		if span < 0 {
			continue
		}
		half := rx * math.Sqrt(span)
		x0 := ClampInt(int(cx-half), b.Min.X, b.Max.X)
		x1 := ClampInt(int(cx+half)+1, b.Min.X, b.Max.X)
		for x := x0; x < x1; x++ {
			dst.Set(x, y, col)
		}
	}
}
