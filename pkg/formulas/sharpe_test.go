package formulas

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSharpeRatio(t *testing.T) {
	tests := []struct {
		name    string
		returns []float64
		want    float64
	}{
		{
			name:    "constant returns have zero stddev",
			returns: []float64{0.01, 0.01, 0.01},
			want:    0.0,
		},
		{
			name:    "single observation",
			returns: []float64{0.05},
			want:    0.0,
		},
		{
			name:    "empty returns",
			returns: []float64{},
			want:    0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SharpeRatio(tt.returns, 252))
		})
	}

	// Hand-computed case: mean/stddev * sqrt(252)
	returns := []float64{0.01, -0.01, 0.02, 0.0}
	want := Mean(returns) / StdDev(returns) * math.Sqrt(252)
	assert.InDelta(t, want, SharpeRatio(returns, 252), 1e-9)
}

func TestSortinoRatio(t *testing.T) {
	// No losing days means downside risk cannot be estimated
	assert.Equal(t, 0.0, SortinoRatio([]float64{0.01, 0.02, 0.03}, 252))

	// A single losing day is still not enough for a sample stddev
	assert.Equal(t, 0.0, SortinoRatio([]float64{0.01, -0.02, 0.03}, 252))

	// With two losing days the denominator is the downside deviation
	returns := []float64{0.01, -0.02, 0.03, -0.01}
	downside := []float64{-0.02, -0.01}
	want := Mean(returns) / StdDev(downside) * math.Sqrt(252)
	got := SortinoRatio(returns, 252)
	assert.InDelta(t, want, got, 1e-9)
	assert.False(t, math.IsNaN(got))
}
