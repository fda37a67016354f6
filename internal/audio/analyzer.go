package audio

import "math"

// analysisWindow is how many samples feed one spectrum frame.
const analysisWindow = 1024

// spectrumGain scales normalized bin magnitudes into the 0-255 byte range.
// Tuned so conversational speech fills the lower bins without clipping a
// full-scale sine.
const spectrumGain = 1020

// Spectrum runs a Goertzel filter bank over the window and returns
// SpectrumBins magnitude bytes covering DC to Nyquist. Windows shorter than
// analysisWindow are analyzed as-is.
func Spectrum(samples []int16, sampleRate int) []byte {
	out := make([]byte, SpectrumBins)
	n := len(samples)
	if n == 0 || sampleRate <= 0 {
		return out
	}

	norm := make([]float64, n)
	for i, s := range samples {
		norm[i] = float64(s) / 32768
	}

	nyquist := float64(sampleRate) / 2
	for bin := 0; bin < SpectrumBins; bin++ {
		freq := (float64(bin) + 0.5) * nyquist / SpectrumBins
		mag := goertzel(norm, freq, float64(sampleRate))
		v := mag * spectrumGain
		if v > 255 {
			v = 255
		}
		out[bin] = byte(v)
	}
	return out
}

// goertzel returns the normalized magnitude of a single frequency component
// in [0,1] for a full-scale sine at that frequency.
func goertzel(samples []float64, freq, sampleRate float64) float64 {
	n := float64(len(samples))
	omega := 2 * math.Pi * freq / sampleRate
	coeff := 2 * math.Cos(omega)

	var s0, s1, s2 float64
	for _, x := range samples {
		s0 = x + coeff*s1 - s2
		s2 = s1
		s1 = s0
	}

	power := s1*s1 + s2*s2 - coeff*s1*s2
	if power < 0 {
		power = 0
	}
	return 2 * math.Sqrt(power) / n
}
