package avatar

// Envelope reduces a frame of frequency magnitudes to one normalized voice
// energy scalar. The bin window and sensitivity are fixed tuning, not
// configuration: they are picked so typical conversational loudness lands
// in the top half of [0,1].
type Envelope struct {
	StartBin    int
	EndBin      int
	Divisor     float32
	Sensitivity float32
}

// RigEnvelope is the window the humanoid lip-sync driver samples.
var RigEnvelope = Envelope{StartBin: 2, EndBin: 30, Divisor: 255, Sensitivity: 3.5}

// FallbackEnvelope is the wider, slightly less sensitive window the
// fallback shape samples.
var FallbackEnvelope = Envelope{StartBin: 2, EndBin: 50, Divisor: 255, Sensitivity: 3.0}

// Energy returns the voice energy in [0,1] for one frame of magnitude
// samples. A nil or short frame contributes silence, so dependent state
// decays toward rest instead of freezing.
func (e Envelope) Energy(magnitudes []byte) float32 {
	start, end := e.StartBin, e.EndBin
	if end > len(magnitudes) {
		end = len(magnitudes)
	}
	if start >= end {
		return 0
	}

	var sum float32
	for _, m := range magnitudes[start:end] {
		sum += float32(m)
	}
	avg := sum / float32(end-start)

	return clamp(avg/e.Divisor*e.Sensitivity, 0, 1)
}
