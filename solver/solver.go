package solver

// Voice indices of a four-voice texture, low to high.
const (
	Bass = iota
	Tenor
	Alto
	Soprano

	NumVoices = 4
)

type (
	// Solver turns piece parameters into a four-voice solution. Returning a
	// nil solution without an error is treated as "no solution found" by the
	// caller.
	Solver interface {
		Solve(params *PieceParams) (*Solution, error)
	}

	// Solution holds one MIDI pitch per voice per chord slot. All four
	// voice slices have length equal to PieceParams.TotalChordCount.
	Solution struct {
		Voices [NumVoices][]int
		BPM    int
	}
)

// vocal ranges, MIDI pitches (E2..A5 overall)
var voiceRanges = [NumVoices][2]int{
	{40, 60}, // bass
	{48, 67}, // tenor
	{55, 74}, // alto
	{60, 81}, // soprano
}
