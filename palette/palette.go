// Package palette generates distinct track colors.
package palette

import (
	"errors"
	"fmt"
)

// ErrNonPositiveCount is returned when fewer than one color is requested.
var ErrNonPositiveCount = errors.New("palette: color count must be positive")

// HexColors returns at least n distinct #rrggbb colors.
//
// Colors come from an a*b*c RGB grid, a, b, c near the cube root of n,
// walked red-outer, green-middle, blue-inner. Channel values are
// i*254/a truncated, so 255 is never reached.
// A perfect cube n is bumped by one so the grid never collapses onto a
// single axis step. Callers index the first n colors.
func HexColors(n int) ([]string, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrNonPositiveCount, n)
	}
	if isCube(n) {
		n++
	}
	a, b, c := gridDims(n)
	out := make([]string, 0, a*b*c)
	for i := 0; i < a; i++ {
		r := channel(i, a)
		for j := 0; j < b; j++ {
			g := channel(j, b)
			for k := 0; k < c; k++ {
				bl := channel(k, c)
				out = append(out, fmt.Sprintf("#%02x%02x%02x", r, g, bl))
			}
		}
	}
	return out, nil
}

// gridDims grows a floor(cbrt(n)) cube until it holds n colors.
func gridDims(n int) (a, b, c int) {
	x := icbrt(n)
	a, b, c = x, x, x
	if a*b*c <= n {
		a++
	}
	if a*b*c < n {
		b++
		c++
	}
	return a, b, c
}

func channel(i, steps int) int {
	return int(254 / float64(steps) * float64(i))
}

// icbrt is the integer cube root: the largest x with x*x*x <= n.
func icbrt(n int) int {
	x := 0
	for (x+1)*(x+1)*(x+1) <= n {
		x++
	}
	return x
}

func isCube(n int) bool {
	x := icbrt(n)
	return x*x*x == n
}
