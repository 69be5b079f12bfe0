// Package solver is the boundary to the constraint-solving harmonizer. The
// editor builds PieceParams from an immutable snapshot of the document and
// hands them to a Solver; the Solver returns a four-voice Solution that can
// be rendered to a standard MIDI file. The solving strategy itself is opaque
// behind the Solver interface; Voicer is the built-in engine.
package solver

import (
	"fmt"

	"github.com/diatony/composer"
)

type (
	// TonalProgressionParams describes one section: its tonality and the
	// per-chord degree/quality/state vectors, with the chord qualities
	// already resolved (no QualityAuto left).
	TonalProgressionParams struct {
		ID        int
		Size      int
		Start     int // index of the section's first chord in the whole piece
		End       int // index of the section's last chord in the whole piece
		Tonality  composer.Tonality
		Degrees   []composer.Degree
		Qualities []composer.Quality
		States    []composer.State
	}

	// ModulationParams describes the transition between two adjacent
	// sections, with the boundary chords resolved to absolute chord indices.
	ModulationParams struct {
		Type      composer.ModulationType
		From      int // section position in Sections
		To        int
		FromChord int // absolute index of the last chord under the old tonality
		ToChord   int // absolute index of the first chord under the new tonality
	}

	// PieceParams aggregates everything the solver needs for one run.
	PieceParams struct {
		TotalChordCount int
		SectionCount    int
		Sections        []TonalProgressionParams
		Modulations     []ModulationParams
	}
)

// BuildPieceParams translates a piece snapshot into solver parameters.
// QualityAuto chords take the tonality's functional default for their
// degree. Modulation chord indices left at the unset sentinel resolve to
// "last chord of the from-section / first chord of the to-section".
func BuildPieceParams(data composer.PieceData) (*PieceParams, error) {
	if len(data.Sections) == 0 {
		return nil, fmt.Errorf("piece has no sections")
	}
	params := &PieceParams{SectionCount: len(data.Sections)}
	offset := 0
	for i, sd := range data.Sections {
		if len(sd.Chords) == 0 {
			return nil, fmt.Errorf("section %q has no chords", sd.Name)
		}
		sp := TonalProgressionParams{
			ID:       sd.ID,
			Size:     len(sd.Chords),
			Start:    offset,
			End:      offset + len(sd.Chords) - 1,
			Tonality: sd.Tonality,
		}
		for _, cd := range sd.Chords {
			quality := cd.Quality
			if quality == composer.QualityAuto {
				quality = sd.Tonality.DefaultQuality(cd.Degree)
			}
			sp.Degrees = append(sp.Degrees, cd.Degree)
			sp.Qualities = append(sp.Qualities, quality)
			sp.States = append(sp.States, cd.State)
		}
		offset += len(sd.Chords)
		params.Sections = append(params.Sections, sp)
		if i > 0 && i-1 < len(data.Modulations) {
			md := data.Modulations[i-1]
			from := params.Sections[i-1]
			mp := ModulationParams{
				Type:      md.Type,
				From:      i - 1,
				To:        i,
				FromChord: from.End,
				ToChord:   sp.Start,
			}
			if md.FromChord >= 0 && md.FromChord < from.Size {
				mp.FromChord = from.Start + md.FromChord
			}
			if md.ToChord >= 0 && md.ToChord < sp.Size {
				mp.ToChord = sp.Start + md.ToChord
			}
			params.Modulations = append(params.Modulations, mp)
		}
	}
	params.TotalChordCount = offset
	return params, nil
}
