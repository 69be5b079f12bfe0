package solver

import (
	"fmt"

	"github.com/diatony/composer"
)

// Voicer is the built-in solving engine: a deterministic close-position
// four-voice realizer. It honors each chord's inversion (the inversion picks
// the bass factor) and keeps every voice inside its range, moving each voice
// to the chord tone closest to its previous pitch. It is not a constraint
// solver; it exists so the pipeline runs end to end without the external
// harmonizer installed, behind the same Solver interface.
type Voicer struct{}

func (Voicer) Solve(params *PieceParams) (*Solution, error) {
	if params == nil || params.TotalChordCount == 0 {
		return nil, fmt.Errorf("nothing to solve")
	}
	sol := &Solution{BPM: 120}
	// previous pitch per voice, seeded to the middle of each range
	prev := [NumVoices]int{}
	for v := range prev {
		prev[v] = (voiceRanges[v][0] + voiceRanges[v][1]) / 2
	}
	for _, section := range params.Sections {
		for i := 0; i < section.Size; i++ {
			tones := chordTones(section.Tonality, section.Degrees[i], section.Qualities[i])
			bassPC := bassFactor(tones, section.States[i])
			pitches := voiceChord(tones, bassPC, prev)
			for v := 0; v < NumVoices; v++ {
				sol.Voices[v] = append(sol.Voices[v], pitches[v])
				prev[v] = pitches[v]
			}
		}
	}
	return sol, nil
}

// chordTones returns the chord's pitch classes, root first.
func chordTones(t composer.Tonality, d composer.Degree, q composer.Quality) []int {
	root := t.DegreeRoot(d)
	intervals := q.Intervals()
	tones := make([]int, len(intervals))
	for i, iv := range intervals {
		tones[i] = (root + iv) % 12
	}
	return tones
}

// bassFactor picks the pitch class the inversion puts in the bass.
func bassFactor(tones []int, s composer.State) int {
	return tones[int(s)%len(tones)]
}

// voiceChord realizes one chord: the bass takes the inversion's factor, the
// upper three voices cover the remaining chord tones bottom-up, each voice
// above the previous one.
func voiceChord(tones []int, bassPC int, prev [NumVoices]int) [NumVoices]int {
	var out [NumVoices]int
	out[Bass] = nearestPitch(bassPC, prev[Bass], voiceRanges[Bass])

	// upper voices cycle through the chord tones so every tone is covered
	upper := upperTones(tones, bassPC)
	floor := out[Bass]
	for v := Tenor; v <= Soprano; v++ {
		pc := upper[(v-1)%len(upper)]
		p := nearestPitch(pc, prev[v], voiceRanges[v])
		for p <= floor {
			p += 12
		}
		if p > voiceRanges[v][1] {
			// accept a voice crossing rather than leaving the range
			p = highestPitch(pc, voiceRanges[v])
		}
		out[v] = p
		floor = p
	}
	return out
}

// upperTones orders the chord tones for the upper voices: the tones other
// than the bass factor first, so the texture completes the chord before
// doubling.
func upperTones(tones []int, bassPC int) []int {
	var rest []int
	for _, t := range tones {
		if t != bassPC {
			rest = append(rest, t)
		}
	}
	if len(rest) == 0 {
		return tones
	}
	return rest
}

// nearestPitch returns the pitch with class pc closest to target, clamped to
// the inclusive range.
func nearestPitch(pc, target int, rng [2]int) int {
	best := -1
	for p := rng[0]; p <= rng[1]; p++ {
		if p%12 != pc {
			continue
		}
		if best < 0 || abs(p-target) < abs(best-target) {
			best = p
		}
	}
	if best < 0 {
		// range narrower than an octave cannot happen with the ranges above
		best = rng[0]
	}
	return best
}

// highestPitch returns the highest pitch with class pc inside the range.
func highestPitch(pc int, rng [2]int) int {
	for p := rng[1]; p >= rng[0]; p-- {
		if p%12 == pc {
			return p
		}
	}
	return rng[1]
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
