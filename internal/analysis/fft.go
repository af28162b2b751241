package analysis

import (
	"math"
	"math/cmplx"
)

// FFT computes the discrete Fourier transform of data. len(data) must be a
// power of two; use Pad otherwise.
func FFT(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	if n%2 != 0 {
		panic("fft requires power of 2 length")
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)

	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := FFT(even)
	fodd := FFT(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}

	return result
}

// Pad returns data zero-extended to the next power of two.
func Pad(data []float64) []float64 {
	n := 1
	for n < len(data) {
		n <<= 1
	}
	out := make([]float64, n)
	copy(out, data)
	return out
}

// PowerSpectrum returns the magnitude of the first half of the spectrum of
// data, padded to a power of two. Bin k corresponds to k/(len*dt) Hz where
// len is the padded length.
func PowerSpectrum(data []float64) []float64 {
	fft := FFT(Pad(data))
	ps := make([]float64, len(fft)/2)

	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}

	return ps
}

// DominantFrequency returns the frequency in Hz of the strongest non-DC
// component of samples taken every dt seconds. It returns 0 when there are
// fewer than four samples or the signal is constant.
func DominantFrequency(samples []float64, dt float64) float64 {
	if len(samples) < 4 || dt <= 0 {
		return 0
	}

	mean := Mean(samples)
	centered := make([]float64, len(samples))
	for i, v := range samples {
		centered[i] = v - mean
	}

	padded := Pad(centered)
	ps := PowerSpectrum(padded)

	best, bestPower := 0, 0.0
	for k := 1; k < len(ps); k++ {
		if ps[k] > bestPower {
			best, bestPower = k, ps[k]
		}
	}
	if best == 0 || bestPower < 1e-12 {
		return 0
	}
	return float64(best) / (float64(len(padded)) * dt)
}

func Mean(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range samples {
		sum += v
	}
	return sum / float64(len(samples))
}
