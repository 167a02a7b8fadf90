package attendance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitLine(t *testing.T) {
	tests := []struct {
		name          string
		ys            []float64
		wantSlope     float64
		wantIntercept float64
		wantNext      int
		wantErr       error
	}{
		{name: "empty", wantErr: ErrInsufficientData},
		{name: "single point", ys: []float64{80}, wantErr: ErrInsufficientData},
		{name: "constant series", ys: []float64{70, 70, 70}, wantSlope: 0, wantIntercept: 70, wantNext: 70},
		{name: "linear series", ys: []float64{40, 50, 60}, wantSlope: 10, wantIntercept: 30, wantNext: 70},
		{name: "clamped to 100", ys: []float64{90, 100}, wantSlope: 10, wantIntercept: 80, wantNext: 100},
		{name: "clamped to 0", ys: []float64{10, 0}, wantSlope: -10, wantIntercept: 20, wantNext: 0},
		{name: "raw 130 clamped to 100", ys: []float64{30, 80}, wantSlope: 50, wantIntercept: -20, wantNext: 100},
		{name: "raw -20 clamped to 0", ys: []float64{40, 10}, wantSlope: -30, wantIntercept: 70, wantNext: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fit, err := FitLine(tt.ys)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.wantSlope, fit.Slope, 1e-9)
			assert.InDelta(t, tt.wantIntercept, fit.Intercept, 1e-9)

			next := fit.Project(1)
			require.Len(t, next, 1)
			assert.Equal(t, len(tt.ys)+1, next[0].Index)
			assert.Equal(t, tt.wantNext, next[0].Ratio)
			assert.True(t, next[0].IsProjection)
		})
	}
}

func TestFitXY(t *testing.T) {
	_, err := FitXY([]float64{1, 2}, []float64{1})
	assert.Equal(t, errLengthMismatch, err)

	// identical xs: no slope, mean of ys
	fit, err := FitXY([]float64{2, 2, 2}, []float64{10, 20, 30})
	require.NoError(t, err)
	assert.Equal(t, 0.0, fit.Slope)
	assert.InDelta(t, 20, fit.Intercept, 1e-9)

	fit, err = FitXY([]float64{1, 3, 5}, []float64{10, 30, 50})
	require.NoError(t, err)
	assert.InDelta(t, 10, fit.Slope, 1e-9)
	assert.InDelta(t, 0, fit.Intercept, 1e-9)
	assert.InDelta(t, 130, fit.At(13), 1e-9)
}

func TestFit_Project(t *testing.T) {
	fit := Fit{N: 3, Slope: 10, Intercept: 30}
	assert.Nil(t, fit.Project(0))

	points := fit.Project(5)
	ratios := make([]int, 0, len(points))
	for _, p := range points {
		ratios = append(ratios, p.Ratio)
	}
	assert.Equal(t, []int{70, 80, 90, 100, 100}, ratios)
}

func TestClampPercent(t *testing.T) {
	assert.Equal(t, 0, ClampPercent(math.NaN()))
	assert.Equal(t, 0, ClampPercent(-12.4))
	assert.Equal(t, 100, ClampPercent(100.6))
	assert.Equal(t, 67, ClampPercent(66.5))
	assert.Equal(t, 66, ClampPercent(66.49))
}
