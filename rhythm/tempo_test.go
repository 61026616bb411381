package rhythm

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterval(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		tempo       float64
		subdivision Subdivision
		expected    time.Duration
	}{
		{120, Quarter, 500 * time.Millisecond},
		{120, Eighth, 250 * time.Millisecond},
		{128, Quarter, 468750 * time.Microsecond},
		{60, Eighth, 500 * time.Millisecond},
		{20, Quarter, 3 * time.Second},
		{400, Eighth, 75 * time.Millisecond},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, Interval(tc.tempo, tc.subdivision), "tempo=%v subdivision=%v", tc.tempo, tc.subdivision)
	}
}

func TestIntervalMatchesFormulaAcrossRange(t *testing.T) {
	t.Parallel()

	for bpm := MinTempo; bpm <= MaxTempo; bpm += 0.5 {
		for _, sub := range []Subdivision{Quarter, Eighth} {
			expectedMs := 60000 / bpm / float64(sub.Factor())
			gotMs := float64(Interval(bpm, sub)) / float64(time.Millisecond)
			require.InDelta(t, expectedMs, gotMs, 1e-6, "tempo=%v subdivision=%v", bpm, sub)
		}
	}
}

func TestValidateTempo(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateTempo(120, MinTempo, MaxTempo))
	require.NoError(t, ValidateTempo(MinTempo, MinTempo, MaxTempo))
	require.NoError(t, ValidateTempo(MaxTempo, MinTempo, MaxTempo))

	for _, bpm := range []float64{0, -5, 19.9, 400.1, math.NaN(), math.Inf(1)} {
		err := ValidateTempo(bpm, MinTempo, MaxTempo)
		var tempoErr *InvalidTempoError
		require.True(t, errors.As(err, &tempoErr), "tempo=%v", bpm)
	}
}

func TestParseSubdivision(t *testing.T) {
	t.Parallel()

	s, err := ParseSubdivision("Eighth")
	require.NoError(t, err)
	assert.Equal(t, Eighth, s)

	s, err = ParseSubdivision("quarter")
	require.NoError(t, err)
	assert.Equal(t, Quarter, s)
	assert.Equal(t, "quarter", s.String())

	_, err = ParseSubdivision("triplet")
	require.Error(t, err)
	assert.False(t, Subdivision(7).Valid())
}
