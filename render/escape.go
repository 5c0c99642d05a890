package render

import "math"

const (
	// DefaultMaxIterations is the iteration cap used unless WithMaxIterations says otherwise.
	DefaultMaxIterations = 256

	// MaxAdaptiveIterations bounds IterationsForScale.
	MaxAdaptiveIterations = 5000

	// escapeRadius2 is the squared escape radius |z| > 2.
	escapeRadius2 = 4.0

	adaptiveStep = 50
)

// IterationResult is the outcome of iterating a single point.
type IterationResult struct {
	// Count is the iteration at which the orbit left the escape circle, or the cap.
	Count int
	// Smooth is the continuous escape value n + 1 - log2(ln|z|); equals Count when not escaped.
	// It can be negative for points far outside the set.
	Smooth float64
	// Escaped reports whether the orbit left the circle before the cap.
	Escaped bool
}

// Iterate runs z = z² + c from z = 0 for c = re + im·i until |z| > 2 or maxIter steps.
func Iterate(re, im float64, maxIter int) IterationResult {
	if maxIter < 0 {
		maxIter = 0
	}
	if inMainBody(re, im) {
		return IterationResult{Count: maxIter, Smooth: float64(maxIter)}
	}

	var zr, zi float64
	for n := 0; n < maxIter; n++ {
		zr2 := zr * zr
		zi2 := zi * zi
		if zr2+zi2 > escapeRadius2 {
			// ln|z| = ln(|z|²)/2
			logZn := math.Log(zr2+zi2) / 2
			return IterationResult{
				Count:   n,
				Smooth:  float64(n) + 1 - math.Log(logZn)/math.Ln2,
				Escaped: true,
			}
		}
		zi = 2*zr*zi + im
		zr = zr2 - zi2 + re
	}

	return IterationResult{Count: maxIter, Smooth: float64(maxIter)}
}

// inMainBody reports whether c lies in the main cardioid or the period-2 bulb.
// Those orbits never escape, so iterating them only burns the full budget.
func inMainBody(re, im float64) bool {
	im2 := im * im

	xq := re - 0.25
	q := xq*xq + im2
	if q*(q+xq) <= im2/4 {
		return true
	}

	xb := re + 1
	return xb*xb+im2 <= 1.0/16
}

// IterationsForScale raises the iteration cap as the view zooms in past baseScale.
// Each halving of the scale adds a fixed number of iterations. The result depends only on
// its arguments and never drops below base. Growth stops at MaxAdaptiveIterations.
func IterationsForScale(base int, scale, baseScale float64) int {
	if base < 1 {
		base = 1
	}
	if scale <= 0 || baseScale <= 0 || scale >= baseScale {
		return base
	}
	extra := adaptiveStep * math.Log2(baseScale/scale)
	n := base + int(math.Floor(extra))
	return min(n, max(base, MaxAdaptiveIterations))
}
