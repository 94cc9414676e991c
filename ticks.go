package sigscan

import (
	"math"
	"slices"
	"strconv"

	"gonum.org/v1/plot"

	"github.com/decibelcooper/sigscan/scan"
)

// MassTicks labels scanned mass points. With many points only every Step-th
// one gets a label; the others keep an unlabelled tick. When fewer than two
// masses fall inside the axis range it falls back to PreciseTicks, so a
// single-mass scan still gets a readable axis.
type MassTicks struct {
	Masses []scan.MassPoint
	Step   int
}

func (t MassTicks) Ticks(min, max float64) []plot.Tick {
	var masses []scan.MassPoint
	for _, m := range t.Masses {
		if v := float64(m); v >= min && v <= max {
			masses = append(masses, m)
		}
	}
	if len(masses) < 2 {
		return PreciseTicks{NSuggestedTicks: 5}.Ticks(min, max)
	}
	slices.Sort(masses)

	step := t.Step
	if step <= 0 {
		step = (len(masses) + 5) / 6
	}

	var ticks []plot.Tick
	for i, m := range masses {
		tick := plot.Tick{Value: float64(m)}
		if i%step == 0 {
			tick.Label = strconv.Itoa(int(m))
		}
		ticks = append(ticks, tick)
	}
	return ticks
}

// PreciseTicks places round-numbered major ticks with minor ticks between.
type PreciseTicks struct {
	NSuggestedTicks int
}

func (t PreciseTicks) Ticks(min, max float64) []plot.Tick {
	if t.NSuggestedTicks < 2 {
		t.NSuggestedTicks = 4
	}
	if max <= min {
		return []plot.Tick{{Value: min, Label: formatFloatTick(min, -1)}}
	}

	tens := math.Pow10(int(math.Floor(math.Log10(max - min))))
	n := (max - min) / tens
	for n < float64(t.NSuggestedTicks)-1 {
		tens /= 10
		n = (max - min) / tens
	}

	majorMult := int(n / float64(t.NSuggestedTicks-1))
	switch majorMult {
	case 7:
		majorMult = 6
	case 9:
		majorMult = 8
	}
	majorDelta := float64(majorMult) * tens

	var ticks []plot.Tick
	val := math.Floor(min/majorDelta) * majorDelta
	prec := int(math.Ceil(math.Log10(math.Abs(max)+majorDelta)) - math.Floor(math.Log10(majorDelta)))
	for ; val <= max; val += majorDelta {
		if val >= min {
			v := round(val, prec)
			ticks = append(ticks, plot.Tick{Value: v, Label: formatFloatTick(v, -1)})
		}
	}

	minorDelta := majorDelta / 2
	switch majorMult {
	case 3, 6:
		minorDelta = majorDelta / 3
	case 5:
		minorDelta = majorDelta / 5
	}

	for val = math.Floor(min/minorDelta) * minorDelta; val <= max; val += minorDelta {
		if val < min || slices.ContainsFunc(ticks, func(t plot.Tick) bool { return t.Value == round(val, prec) }) {
			continue
		}
		ticks = append(ticks, plot.Tick{Value: val})
	}
	return ticks
}

func round(x float64, prec int) float64 {
	if x == 0 {
		return 0
	}
	if prec >= 0 && x == math.Trunc(x) {
		return x
	}
	pow := math.Pow10(prec)
	intermed := x * pow
	if math.IsInf(intermed, 0) {
		return x
	}
	return math.Round(intermed) / pow
}

func formatFloatTick(v float64, prec int) string {
	return strconv.FormatFloat(v, 'g', prec, 64)
}
