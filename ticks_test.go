package sigscan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/plot"

	"github.com/decibelcooper/sigscan/scan"
)

func TestMassTicks(t *testing.T) {
	ticks := MassTicks{Masses: []scan.MassPoint{130, 110, 120, 100}, Step: 2}.Ticks(100, 125)

	var values []float64
	var lbls []string
	for _, tk := range ticks {
		values = append(values, tk.Value)
		lbls = append(lbls, tk.Label)
	}
	assert.Equal(t, []float64{100, 110, 120}, values)
	assert.Equal(t, []string{"100", "", "120"}, lbls)
}

func labels(ticks []plot.Tick) []string {
	var lbls []string
	for _, tk := range ticks {
		if tk.Label != "" {
			lbls = append(lbls, tk.Label)
		}
	}
	return lbls
}

func TestMassTicksFallback(t *testing.T) {
	assert.NotEmpty(t, MassTicks{}.Ticks(0, 10))

	// one mass inside the range: precise ticks label the axis instead.
	lbls := labels(MassTicks{Masses: []scan.MassPoint{125, 150}}.Ticks(120, 130))
	assert.Equal(t, []string{"120", "122", "124", "126", "128", "130"}, lbls)
}

func TestPreciseTicks(t *testing.T) {
	ticks := PreciseTicks{NSuggestedTicks: 5}.Ticks(0, 4)

	var majors []float64
	for _, tk := range ticks {
		if tk.Label != "" {
			majors = append(majors, tk.Value)
		}
		assert.GreaterOrEqual(t, tk.Value, 0.0)
		assert.LessOrEqual(t, tk.Value, 4.0)
	}
	assert.Equal(t, []float64{0, 1, 2, 3, 4}, majors)
}

func TestPreciseTicksDegenerateRange(t *testing.T) {
	ticks := PreciseTicks{}.Ticks(3, 3)
	assert.Len(t, ticks, 1)
	assert.Equal(t, 3.0, ticks[0].Value)
}
