package analysis

import "math"

// RisingCrossings returns the interpolated times at which samples pass
// upward through level. times and samples must be the same length.
func RisingCrossings(times, samples []float64, level float64) []float64 {
	n := min(len(times), len(samples))
	out := make([]float64, 0)
	for i := 1; i < n; i++ {
		prev, curr := samples[i-1], samples[i]
		if prev < level && curr >= level {
			frac := (level - prev) / (curr - prev)
			if math.IsNaN(frac) || math.IsInf(frac, 0) {
				frac = 0.5
			}
			out = append(out, times[i-1]+frac*(times[i]-times[i-1]))
		}
	}
	return out
}

// Period estimates the cycle length of a rhythmic signal as the mean spacing
// of its rising crossings through its own mean. ok is false with fewer than
// two crossings.
func Period(times, samples []float64) (period float64, ok bool) {
	crossings := RisingCrossings(times, samples, Mean(samples))
	if len(crossings) < 2 {
		return 0, false
	}
	return (crossings[len(crossings)-1] - crossings[0]) / float64(len(crossings)-1), true
}

// PhaseLag returns how far b trails a as a fraction of a's period, in [0, 1).
// Two channels of a half-center oscillator sit near 0.5. ok is false when
// either signal lacks a period.
func PhaseLag(times, a, b []float64) (lag float64, ok bool) {
	period, ok := Period(times, a)
	if !ok {
		return 0, false
	}
	ca := RisingCrossings(times, a, Mean(a))
	cb := RisingCrossings(times, b, Mean(b))
	if len(cb) == 0 {
		return 0, false
	}

	sum, count := 0.0, 0
	j := 0
	for _, ta := range ca {
		for j < len(cb) && cb[j] < ta {
			j++
		}
		if j == len(cb) {
			break
		}
		d := (cb[j] - ta) / period
		sum += d - math.Floor(d)
		count++
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}
