package editor

import "fmt"

type (
	// SelectionKind says what kind of element is selected.
	SelectionKind int

	// Selection is the centralized selection state: the selected element's
	// kind plus a stable key of the form "<Kind>_<id>" built from the
	// element's ID, never from its volatile index. It lives outside the
	// document tree and is not persisted with the piece.
	Selection struct {
		Kind SelectionKind
		Key  string
	}

	// EditMode is the editing surface the UI should present; it is purely a
	// function of the current selection.
	EditMode int

	// GenerationStatus is the lifecycle of the last generation request,
	// exposed to the UI next to the selection.
	GenerationStatus int
)

const (
	SelectNone SelectionKind = iota
	SelectSection
	SelectModulation
	SelectChord
)

const (
	ModeOverview EditMode = iota
	ModeSectionEdit
	ModeChordEdit
)

const (
	StatusIdle GenerationStatus = iota
	StatusGenerating
	StatusCompleted
	StatusWarning
	StatusError
)

func (k SelectionKind) String() string {
	switch k {
	case SelectSection:
		return "Section"
	case SelectModulation:
		return "Modulation"
	case SelectChord:
		return "Chord"
	}
	return "None"
}

func (s GenerationStatus) String() string {
	switch s {
	case StatusGenerating:
		return "generating"
	case StatusCompleted:
		return "completed"
	case StatusWarning:
		return "warning"
	case StatusError:
		return "error"
	}
	return ""
}

func sectionKey(id int) string    { return fmt.Sprintf("Section_%d", id) }
func modulationKey(id int) string { return fmt.Sprintf("Modulation_%d", id) }
func chordKey(id int) string      { return fmt.Sprintf("Chord_%d", id) }

// None is the cleared selection.
func (s Selection) None() bool { return s.Kind == SelectNone }
