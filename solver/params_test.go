package solver

import (
	"testing"

	"github.com/diatony/composer"
)

func twoSectionData() composer.PieceData {
	return composer.PieceData{
		Title: "Test",
		Sections: []composer.SectionData{
			{
				ID:       0,
				Name:     "A",
				Tonality: composer.Tonality{Note: 0, Major: true},
				Chords: []composer.ChordData{
					{ID: 0, Degree: composer.First, Quality: composer.QualityAuto},
					{ID: 1, Degree: composer.Fifth, Quality: composer.QualityAuto},
					{ID: 2, Degree: composer.First, Quality: composer.QualityAuto},
				},
			},
			{
				ID:       1,
				Name:     "B",
				Tonality: composer.Tonality{Note: 7, Major: true},
				Chords: []composer.ChordData{
					{ID: 0, Degree: composer.First, Quality: composer.MajorSeventhChord},
					{ID: 1, Degree: composer.Fourth, Quality: composer.QualityAuto},
				},
			},
		},
		Modulations: []composer.ModulationData{
			{
				ID:        0,
				Type:      composer.ModulationPivotChord,
				FromChord: -1,
				ToChord:   -1,
			},
		},
	}
}

func TestBuildPieceParams(t *testing.T) {
	params, err := BuildPieceParams(twoSectionData())
	if err != nil {
		t.Fatal(err)
	}
	if params.TotalChordCount != 5 || params.SectionCount != 2 {
		t.Fatalf("counts: %d chords, %d sections", params.TotalChordCount, params.SectionCount)
	}
	a := params.Sections[0]
	if a.Start != 0 || a.End != 2 || a.Size != 3 {
		t.Errorf("section A span = [%d,%d] size %d", a.Start, a.End, a.Size)
	}
	b := params.Sections[1]
	if b.Start != 3 || b.End != 4 {
		t.Errorf("section B span = [%d,%d]", b.Start, b.End)
	}
}

func TestBuildPieceParamsResolvesAutoQuality(t *testing.T) {
	params, err := BuildPieceParams(twoSectionData())
	if err != nil {
		t.Fatal(err)
	}
	a := params.Sections[0]
	if a.Qualities[0] != composer.MajorChord {
		t.Errorf("I in C major resolved to %v", a.Qualities[0])
	}
	if a.Qualities[1] != composer.DominantSeventhChord {
		t.Errorf("V in C major resolved to %v", a.Qualities[1])
	}
	b := params.Sections[1]
	if b.Qualities[0] != composer.MajorSeventhChord {
		t.Errorf("explicit quality overwritten to %v", b.Qualities[0])
	}
	for _, s := range params.Sections {
		for i, q := range s.Qualities {
			if q == composer.QualityAuto {
				t.Errorf("section %d chord %d still auto", s.ID, i)
			}
		}
	}
}

func TestBuildPieceParamsModulationBoundaries(t *testing.T) {
	data := twoSectionData()
	params, err := BuildPieceParams(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(params.Modulations) != 1 {
		t.Fatalf("got %d modulations", len(params.Modulations))
	}
	m := params.Modulations[0]
	// unset boundaries default to last-of-from / first-of-to
	if m.FromChord != 2 || m.ToChord != 3 {
		t.Errorf("default boundaries = %d -> %d, want 2 -> 3", m.FromChord, m.ToChord)
	}
	if m.From != 0 || m.To != 1 || m.Type != composer.ModulationPivotChord {
		t.Errorf("modulation = %+v", m)
	}

	data.Modulations[0].FromChord = 1
	data.Modulations[0].ToChord = 1
	params, err = BuildPieceParams(data)
	if err != nil {
		t.Fatal(err)
	}
	m = params.Modulations[0]
	if m.FromChord != 1 || m.ToChord != 4 {
		t.Errorf("explicit boundaries = %d -> %d, want 1 -> 4", m.FromChord, m.ToChord)
	}

	// out of range boundary indices fall back to the defaults
	data.Modulations[0].FromChord = 17
	data.Modulations[0].ToChord = 5
	params, err = BuildPieceParams(data)
	if err != nil {
		t.Fatal(err)
	}
	m = params.Modulations[0]
	if m.FromChord != 2 || m.ToChord != 3 {
		t.Errorf("out of range boundaries = %d -> %d, want 2 -> 3", m.FromChord, m.ToChord)
	}
}

func TestBuildPieceParamsErrors(t *testing.T) {
	if _, err := BuildPieceParams(composer.PieceData{}); err == nil {
		t.Error("empty piece must not build")
	}
	data := twoSectionData()
	data.Sections[1].Chords = nil
	if _, err := BuildPieceParams(data); err == nil {
		t.Error("chordless section must not build")
	}
}
