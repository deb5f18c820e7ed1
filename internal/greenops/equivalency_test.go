package greenops

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeEquivalences(t *testing.T) {
	tests := []struct {
		name      string
		totalKg   float64
		burgers   float64
		bulbDays  float64
		carKm     float64
		streaming float64
	}{
		{
			name:      "reference total",
			totalKg:   46,
			burgers:   10,
			bulbDays:  46 / 0.256 / 24, // 7.486979...
			carKm:     270.5882352941,
			streaming: 836.3636363636,
		},
		{
			name:      "zero total",
			totalKg:   0,
			burgers:   0,
			bulbDays:  0,
			carKm:     0,
			streaming: 0,
		},
		{
			name:      "negative total stays negative",
			totalKg:   -4.6,
			burgers:   -1,
			bulbDays:  -4.6 / 0.256 / 24,
			carKm:     -27.0588235294,
			streaming: -83.6363636364,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeEquivalences(tt.totalKg)
			assert.InDelta(t, tt.burgers, got.Burgers, 1e-9)
			assert.InDelta(t, tt.bulbDays, got.LEDBulbDays, 1e-9)
			assert.InDelta(t, tt.carKm, got.CarKm, 1e-6)
			assert.InDelta(t, tt.streaming, got.StreamingHours, 1e-6)
		})
	}
}

func TestComputeEquivalences_Linear(t *testing.T) {
	for _, total := range []float64{0.5, 48.0216, 1234.5} {
		single := ComputeEquivalences(total)
		double := ComputeEquivalences(2 * total)
		for _, e := range EquivalenceTypes() {
			assert.InDelta(t, 2*single.Value(e), double.Value(e), 1e-9, "%s at %g", e, total)
		}
	}
}

func TestEquivalenceSet_Results(t *testing.T) {
	s := ComputeEquivalences(150)
	results := s.Results()

	require.Len(t, results, 4)
	assert.Equal(t, EquivalenceBurgers, results[0].Type)
	assert.Equal(t, "33", results[0].FormattedValue) // 32.6
	assert.Equal(t, "burgers eaten", results[0].Label)
	assert.Equal(t, "Produce ~33 beef burgers", results[0].Text)
	assert.Equal(t, EquivalenceStreamingHours, results[3].Type)
	assert.Equal(t, "2,727", results[3].FormattedValue)
	assert.InDelta(t, s.CarKm, results[2].Value, 1e-9)
}

func TestEquivalenceSet_DisplayText(t *testing.T) {
	text := ComputeEquivalences(150).DisplayText()

	assert.Equal(t,
		"Equivalent to: Produce ~33 beef burgers; Keep 100 LED bulbs (10W) on for ~24 days; "+
			"Drive a gasoline car for ~882 km; Watch Netflix for ~2,727 hours",
		text)
}

func TestEquivalenceSet_LargeValues(t *testing.T) {
	s := ComputeEquivalences(1e6)
	results := s.Results()
	assert.Equal(t, "~5.9 million", results[2].FormattedValue) // 5,882,352 km
	assert.Equal(t, "~18.2 million", results[3].FormattedValue)
	assert.Equal(t, "Watch Netflix for ~18.2 million hours", results[3].Text)
}

func TestEquivalenceSet_Check(t *testing.T) {
	require.NoError(t, ComputeEquivalences(10).Check())

	err := ComputeEquivalences(math.Inf(1)).Check()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCalculationOverflow)

	assert.ErrorIs(t, ComputeEquivalences(math.NaN()).Check(), ErrCalculationOverflow)
}

func TestEquivalenceType_String(t *testing.T) {
	assert.Equal(t, "LEDBulbDays", EquivalenceLEDBulbDays.String())
	assert.Equal(t, "EquivalenceType(9)", EquivalenceType(9).String())
	assert.Equal(t, "EquivalenceType(9)", EquivalenceType(9).Label())
	assert.Equal(t, "3 EquivalenceType(9)", EquivalenceType(9).Sentence("3"))
	assert.Zero(t, EquivalenceSet{Burgers: 1}.Value(EquivalenceType(9)))
}

func BenchmarkComputeEquivalences(b *testing.B) {
	for b.Loop() {
		_ = ComputeEquivalences(1234.5).Results()
	}
}
