package composer

import "fmt"

type (
	// Degree is a scale degree relative to a section's tonality. Besides the
	// seven diatonic degrees there are secondary dominants and a few chromatic
	// chords.
	Degree int

	// Quality is the chord quality. QualityAuto means "derive the quality
	// from the section's tonality at generation time".
	Quality int

	// State is the inversion of a chord: which chord factor is in the bass.
	State int

	// ModulationType selects the strategy used to move between the
	// tonalities of two adjacent sections.
	ModulationType int

	// Alteration is the accidental applied to a tonality note.
	Alteration int

	// Tonality is a key: a (possibly altered) tonic pitch class and a mode.
	Tonality struct {
		Note       int        `yaml:"note" json:"note"` // pitch class, 0 = C
		Alteration Alteration `yaml:"alteration" json:"alteration"`
		Major      bool       `yaml:"major" json:"major"`
	}
)

const (
	First Degree = iota
	Second
	Third
	Fourth
	Fifth
	Sixth
	Seventh
	FiveOfTwo
	FiveOfThree
	FiveOfFour
	FiveOfFive
	FiveOfSix
	FiveOfSeven
	Neapolitan
	AugmentedSixth
	FlatSeventh

	NumDegrees = 16
)

const (
	QualityAuto Quality = -1

	MajorChord Quality = iota - 1
	MinorChord
	DiminishedChord
	AugmentedChord
	DominantSeventhChord
	MajorSeventhChord
	MinorSeventhChord
	DiminishedSeventhChord
	HalfDiminishedChord
	MinorMajorSeventhChord
	DominantNinthChord
	MajorNinthChord
	MinorNinthChord

	NumQualities = 13
)

const (
	Fundamental State = iota
	FirstInversion
	SecondInversion
	ThirdInversion
	FourthInversion

	NumStates = 5
)

const (
	ModulationPerfectCadence ModulationType = iota
	ModulationPivotChord
	ModulationAlteration
	ModulationSecondaryDominant

	NumModulationTypes = 4
)

const (
	Flat    Alteration = -1
	Natural Alteration = 0
	Sharp   Alteration = 1
)

var degreeNames = [NumDegrees]string{
	"I", "II", "III", "IV", "V", "VI", "VII",
	"V/II", "V/III", "V/IV", "V/V", "V/VI", "V/VII",
	"bII", "Aug6", "bVII",
}

func (d Degree) String() string {
	if d < 0 || int(d) >= NumDegrees {
		return fmt.Sprintf("Degree(%d)", int(d))
	}
	return degreeNames[d]
}

// IsSecondaryDominant reports whether the degree is one of the V/x chords.
func (d Degree) IsSecondaryDominant() bool {
	return d >= FiveOfTwo && d <= FiveOfSeven
}

var qualityNames = [NumQualities]string{
	"major", "minor", "diminished", "augmented",
	"dominant 7th", "major 7th", "minor 7th", "diminished 7th",
	"half-diminished", "minor-major 7th",
	"dominant 9th", "major 9th", "minor 9th",
}

func (q Quality) String() string {
	if q == QualityAuto {
		return "auto"
	}
	if q < 0 || int(q) >= NumQualities {
		return fmt.Sprintf("Quality(%d)", int(q))
	}
	return qualityNames[q]
}

// Intervals returns the chord factors as semitone offsets from the root.
// QualityAuto has no intervals of its own; resolve it against a Tonality
// first.
func (q Quality) Intervals() []int {
	switch q {
	case MinorChord:
		return []int{0, 3, 7}
	case DiminishedChord:
		return []int{0, 3, 6}
	case AugmentedChord:
		return []int{0, 4, 8}
	case DominantSeventhChord:
		return []int{0, 4, 7, 10}
	case MajorSeventhChord:
		return []int{0, 4, 7, 11}
	case MinorSeventhChord:
		return []int{0, 3, 7, 10}
	case DiminishedSeventhChord:
		return []int{0, 3, 6, 9}
	case HalfDiminishedChord:
		return []int{0, 3, 6, 10}
	case MinorMajorSeventhChord:
		return []int{0, 3, 7, 11}
	case DominantNinthChord:
		return []int{0, 4, 7, 10, 14}
	case MajorNinthChord:
		return []int{0, 4, 7, 11, 14}
	case MinorNinthChord:
		return []int{0, 3, 7, 10, 14}
	default:
		return []int{0, 4, 7}
	}
}

var stateNames = [NumStates]string{
	"root position", "1st inversion", "2nd inversion", "3rd inversion", "4th inversion",
}

func (s State) String() string {
	if s < 0 || int(s) >= NumStates {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

var modulationTypeNames = [NumModulationTypes]string{
	"perfect cadence", "pivot chord", "alteration", "secondary dominant",
}

func (t ModulationType) String() string {
	if t < 0 || int(t) >= NumModulationTypes {
		return fmt.Sprintf("ModulationType(%d)", int(t))
	}
	return modulationTypeNames[t]
}

func (a Alteration) String() string {
	switch a {
	case Flat:
		return "b"
	case Sharp:
		return "#"
	}
	return ""
}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Tonic returns the tonic pitch class with the alteration applied.
func (t Tonality) Tonic() int {
	return ((t.Note+int(t.Alteration))%12 + 12) % 12
}

func (t Tonality) String() string {
	note := t.Note % 12
	if note < 0 {
		note += 12
	}
	mode := "minor"
	if t.Major {
		mode = "major"
	}
	return fmt.Sprintf("%s%s %s", noteNames[note], t.Alteration, mode)
}

// major and harmonic minor scale steps, in semitones from the tonic.
var (
	majorScale = [7]int{0, 2, 4, 5, 7, 9, 11}
	minorScale = [7]int{0, 2, 3, 5, 7, 8, 11}
)

// DegreeRoot returns the pitch class of the root of a chord on the given
// degree in this tonality.
func (t Tonality) DegreeRoot(d Degree) int {
	scale := &minorScale
	if t.Major {
		scale = &majorScale
	}
	var offset int
	switch {
	case d >= First && d <= Seventh:
		offset = scale[d]
	case d.IsSecondaryDominant():
		// a fifth above the tonicized degree
		offset = (scale[d-FiveOfTwo+1] + 7) % 12
	case d == Neapolitan:
		offset = 1
	case d == AugmentedSixth:
		offset = 8
	case d == FlatSeventh:
		offset = 10
	}
	return (t.Tonic() + offset) % 12
}

// functional-harmony default triad/seventh qualities per diatonic degree
var (
	majorDefaults = [7]Quality{
		MajorChord, MinorChord, MinorChord, MajorChord,
		DominantSeventhChord, MinorChord, DiminishedChord,
	}
	minorDefaults = [7]Quality{
		MinorChord, DiminishedChord, AugmentedChord, MinorChord,
		DominantSeventhChord, MajorChord, DiminishedChord,
	}
)

// DefaultQuality resolves the quality a chord on the given degree takes in
// this tonality when the chord's stored quality is QualityAuto.
func (t Tonality) DefaultQuality(d Degree) Quality {
	switch {
	case d >= First && d <= Seventh:
		if t.Major {
			return majorDefaults[d]
		}
		return minorDefaults[d]
	case d.IsSecondaryDominant():
		return DominantSeventhChord
	case d == Neapolitan:
		return MajorChord
	case d == AugmentedSixth:
		return AugmentedChord
	case d == FlatSeventh:
		return MajorChord
	}
	return MajorChord
}
