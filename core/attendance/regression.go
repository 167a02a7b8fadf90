package attendance

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
)

var errLengthMismatch = errors.New("xs and ys lengths differ")

// Fit is an ordinary-least-squares line y = Slope*x + Intercept fitted over N points.
type Fit struct {
	N         int     `json:"n"`
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// FitLine fits ys against the sequential index x = 1..n.
func FitLine(ys []float64) (Fit, error) {
	xs := make([]float64, len(ys))
	for i := range ys {
		xs[i] = float64(i + 1)
	}
	return FitXY(xs, ys)
}

// FitXY fits ys against xs. It requires at least 2 points.
// When every x is identical the slope is 0 and the line is the mean of ys.
func FitXY(xs, ys []float64) (Fit, error) {
	if len(xs) != len(ys) {
		return Fit{}, errLengthMismatch
	}
	n := len(ys)
	if n < 2 {
		return Fit{}, ErrInsufficientData
	}

	// identical xs: gonum would divide by a zero variance
	if stat.Variance(xs, nil) == 0 {
		return Fit{N: n, Intercept: stat.Mean(ys, nil)}, nil
	}
	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	return Fit{N: n, Slope: slope, Intercept: intercept}, nil
}

// At returns the raw (unclamped) value of the line at x.
func (f Fit) At(x float64) float64 {
	return f.Slope*x + f.Intercept
}

// Project estimates the k points following the fitted series, at x = N+1..N+k.
// Values are clamped to [0,100] then rounded: attendance is bounded.
func (f Fit) Project(k int) []ProjectedPoint {
	if k <= 0 {
		return nil
	}
	points := make([]ProjectedPoint, 0, k)
	for i := 1; i <= k; i++ {
		idx := f.N + i
		points = append(points, ProjectedPoint{
			Index:        idx,
			Ratio:        ClampPercent(f.At(float64(idx))),
			IsProjection: true,
		})
	}
	return points
}

// ClampPercent clamps v to [0,100] and rounds it to the nearest integer.
func ClampPercent(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Round(math.Max(0, math.Min(100, v))))
}
