package editor

import (
	"fmt"
	"os"
	"strings"

	"github.com/diatony/composer"
)

type (
	// modelData is the part of the model that is saved to the recovery file.
	modelData struct {
		Piece                composer.PieceData `yaml:"piece"`
		FilePath             string             `yaml:"filePath"`
		ChangedSinceSave     bool               `yaml:"changedSinceSave"`
		RecoveryFilePath     string             `yaml:"-"`
		ChangedSinceRecovery bool               `yaml:"-"`
	}

	// Model implements the mutable editing state over a Piece. It is owned
	// by the UI goroutine; the generation worker talks back to it only via
	// the broker. Every public mutating operation validates its indices and
	// degrades to a no-op on invalid input - the model never panics and
	// never corrupts the document on bad indices.
	Model struct {
		d modelData

		piece     *composer.Piece
		selection Selection
		mode      EditMode

		// section ID the selected chord lives in; chord IDs restart at 0
		// in every progression, so the key alone does not identify a chord
		// across sections. Meaningful only while selection.Kind is
		// SelectChord.
		chordSection int

		status          GenerationStatus
		generationError string
		midiFilePath    string

		gen    *Generator
		broker *Broker
	}
)

func NewModel(broker *Broker, gen *Generator, recoveryFilePath string) *Model {
	m := &Model{
		piece:  composer.NewPiece(),
		gen:    gen,
		broker: broker,
	}
	m.d.RecoveryFilePath = recoveryFilePath
	if recoveryFilePath != "" {
		if b, err := os.ReadFile(recoveryFilePath); err == nil {
			m.UnmarshalRecovery(b)
		}
	}
	return m
}

func (m *Model) Piece() *composer.Piece { return m.piece }
func (m *Model) Broker() *Broker       { return m.broker }

func (m *Model) Selection() Selection { return m.selection }
func (m *Model) Mode() EditMode       { return m.mode }

func (m *Model) GenerationStatus() GenerationStatus { return m.status }
func (m *Model) GenerationError() string            { return m.generationError }
func (m *Model) MIDIFilePath() string               { return m.midiFilePath }

func (m *Model) FilePath() string          { return m.d.FilePath }
func (m *Model) ChangedSinceSave() bool    { return m.d.ChangedSinceSave }
func (m *Model) SetChangedSinceSave(v bool) { m.d.ChangedSinceSave = v }

// index validation helpers; every index-based entry point goes through these

func (m *Model) isValidSectionIndex(i int) bool {
	return i >= 0 && i < m.piece.SectionCount()
}

func (m *Model) isValidModulationIndex(i int) bool {
	return i >= 0 && i < m.piece.ModulationCount()
}

func (m *Model) isValidChordIndex(sectionIdx, chordIdx int) bool {
	if !m.isValidSectionIndex(sectionIdx) {
		return false
	}
	s, _ := m.piece.Section(sectionIdx)
	return chordIdx >= 0 && chordIdx < s.Progression().Size()
}

// SelectSection selects the section at index and switches to section
// editing. No-op on an invalid index.
func (m *Model) SelectSection(index int) {
	if !m.isValidSectionIndex(index) {
		return
	}
	s, _ := m.piece.Section(index)
	m.setSelection(Selection{Kind: SelectSection, Key: sectionKey(s.ID())}, ModeSectionEdit)
}

// SelectModulation selects the modulation at index. Modulations have no
// dedicated edit mode; the view stays on the overview.
func (m *Model) SelectModulation(index int) {
	if !m.isValidModulationIndex(index) {
		return
	}
	mod, _ := m.piece.Modulation(index)
	m.setSelection(Selection{Kind: SelectModulation, Key: modulationKey(mod.ID())}, ModeOverview)
}

// SelectChord selects the chord at chordIdx inside the section at
// sectionIdx and switches to chord editing. No-op on invalid indices.
func (m *Model) SelectChord(sectionIdx, chordIdx int) {
	if !m.isValidChordIndex(sectionIdx, chordIdx) {
		return
	}
	s, _ := m.piece.Section(sectionIdx)
	c, _ := s.Progression().Chord(chordIdx)
	m.chordSection = s.ID()
	m.setSelection(Selection{Kind: SelectChord, Key: chordKey(c.ID())}, ModeChordEdit)
}

// AddChordToSection appends a chord to the section's progression and
// auto-selects it. No-op on an invalid section index.
func (m *Model) AddChordToSection(sectionIdx int, degree composer.Degree, quality composer.Quality, state composer.State) {
	if !m.isValidSectionIndex(sectionIdx) {
		return
	}
	s, _ := m.piece.Section(sectionIdx)
	um := m.piece.UndoManager()
	um.Begin("AddChord")
	chord := s.Progression().AddChord(degree, quality, state, um)
	m.markChanged()
	m.chordSection = s.ID()
	m.setSelection(Selection{Kind: SelectChord, Key: chordKey(chord.ID())}, ModeChordEdit)
	TrySend(m.broker.ToUI, any(MsgPieceChanged{}))
}

// RemoveChordFromSection removes a chord; if it was the selected one the
// selection is cleared, otherwise the selection is untouched. No-op on
// invalid indices.
func (m *Model) RemoveChordFromSection(sectionIdx, chordIdx int) {
	if !m.isValidChordIndex(sectionIdx, chordIdx) {
		return
	}
	s, _ := m.piece.Section(sectionIdx)
	prog := s.Progression()
	c, _ := prog.Chord(chordIdx)
	removedKey := chordKey(c.ID())
	um := m.piece.UndoManager()
	um.Begin("RemoveChord")
	prog.RemoveChord(chordIdx, um)
	m.markChanged()
	if m.selection.Kind == SelectChord && m.selection.Key == removedKey &&
		m.chordSection == s.ID() {
		m.ClearSelection()
	}
	TrySend(m.broker.ToUI, any(MsgPieceChanged{}))
}

// AddNewSection appends a section (and, from the second section onward, the
// modulation leading into it) and auto-selects it.
func (m *Model) AddNewSection(name string, tonality composer.Tonality) {
	s := m.piece.AddSection(name, tonality)
	m.markChanged()
	m.setSelection(Selection{Kind: SelectSection, Key: sectionKey(s.ID())}, ModeSectionEdit)
	TrySend(m.broker.ToUI, any(MsgPieceChanged{}))
}

// RemoveSection removes the section at index. The selection is cleared when
// the removed section was selected, and also whenever a modulation was
// selected, since any section removal may take adjacent modulations with
// it. No-op on an invalid index.
func (m *Model) RemoveSection(index int) {
	if !m.isValidSectionIndex(index) {
		return
	}
	s, _ := m.piece.Section(index)
	removedKey := sectionKey(s.ID())
	m.piece.RemoveSection(index)
	m.markChanged()
	if m.selection.Kind == SelectModulation ||
		(m.selection.Kind == SelectSection && m.selection.Key == removedKey) {
		m.ClearSelection()
	}
	TrySend(m.broker.ToUI, any(MsgPieceChanged{}))
}

// RequestQuit asks the UI loop to wind down. The loop acknowledges by
// closing the broker's FinishedUI channel once it has stopped.
func (m *Model) RequestQuit() {
	TrySend(m.broker.CloseUI, struct{}{})
}

// ClearSelection resets the selection and edit mode. Idempotent.
func (m *Model) ClearSelection() {
	m.setSelection(Selection{}, ModeOverview)
}

// ClearPiece empties the document and the selection.
func (m *Model) ClearPiece() {
	m.piece.Clear()
	m.markChanged()
	m.ClearSelection()
	TrySend(m.broker.ToUI, any(MsgPieceChanged{}))
}

// Undo reverts the last edit. The identity of elements after an undo is not
// tracked, so the selection is always cleared.
func (m *Model) Undo() {
	if m.piece.UndoManager().Undo() {
		m.markChanged()
	}
	m.ClearSelection()
	TrySend(m.broker.ToUI, any(MsgPieceChanged{}))
}

// Redo reapplies the last undone edit, clearing the selection like Undo.
func (m *Model) Redo() {
	if m.piece.UndoManager().Redo() {
		m.markChanged()
	}
	m.ClearSelection()
	TrySend(m.broker.ToUI, any(MsgPieceChanged{}))
}

// StartGeneration hands an immutable snapshot of the piece to the
// generation worker. Fails fast into the error status when the piece is
// empty or the worker cannot start.
func (m *Model) StartGeneration() {
	if m.piece.SectionCount() == 0 {
		m.setStatus(StatusError, "cannot generate: the piece has no sections", "")
		return
	}
	m.setStatus(StatusGenerating, "", "")
	if !m.gen.Start(m.piece.Data()) {
		m.setStatus(StatusError, "a generation is already in progress", "")
	}
}

// ProcessMessage applies a message from the broker. Must be called on the
// UI goroutine; this is where generation outcomes touch the model.
func (m *Model) ProcessMessage(msg MsgToModel) {
	switch e := msg.Data.(type) {
	case GenerationResult:
		if !e.OK {
			m.setStatus(StatusError, e.Message, "")
			return
		}
		snapshotPath := strings.TrimSuffix(e.MIDIPath, ".mid") + ".diatony"
		if err := os.WriteFile(snapshotPath, []byte(m.piece.ToXML()), 0644); err != nil {
			m.setStatus(StatusWarning, fmt.Sprintf("MIDI written but snapshot failed: %v", err), e.MIDIPath)
			return
		}
		if e.Message != "" {
			// MIDI written but something secondary (the history db) failed
			m.setStatus(StatusWarning, e.Message, e.MIDIPath)
			return
		}
		m.setStatus(StatusCompleted, "", e.MIDIPath)
	}
}

func (m *Model) setSelection(s Selection, mode EditMode) {
	if m.selection == s && m.mode == mode {
		return
	}
	m.selection = s
	m.mode = mode
	TrySend(m.broker.ToUI, any(MsgSelectionChanged{}))
}

func (m *Model) setStatus(status GenerationStatus, errMsg, midiPath string) {
	m.status = status
	m.generationError = errMsg
	m.midiFilePath = midiPath
	TrySend(m.broker.ToUI, any(MsgStatusChanged{}))
}

func (m *Model) markChanged() {
	m.d.ChangedSinceSave = true
	m.d.ChangedSinceRecovery = true
}
