// Package analysis characterizes recorded probe signals.
//
// The package works on plain sample slices, typically columns of a probe
// table:
//
//   - [PowerSpectrum] and [DominantFrequency]: spectral content via radix-2 FFT
//   - [RisingCrossings] and [Period]: cycle timing from level crossings
//   - [PhaseLag]: relative timing of two rhythmic channels
//   - [NewPhasePortrait]: one channel plotted against another
//
// # Rhythm Detection
//
// A CPG channel is rhythmic when it crosses its own mean repeatedly:
//
//	period, ok := analysis.Period(times, samples)
//	if ok {
//	    fmt.Printf("%.3f Hz\n", 1/period)
//	}
package analysis
