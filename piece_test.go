package composer

import (
	"testing"
)

func cMajor() Tonality  { return Tonality{Note: 0, Major: true} }
func gMajor() Tonality  { return Tonality{Note: 7, Major: true} }
func aMinor() Tonality  { return Tonality{Note: 9, Major: false} }
func eFlatMajor() Tonality {
	return Tonality{Note: 4, Alteration: Flat, Major: true}
}

func buildPiece(t *testing.T, names ...string) *Piece {
	t.Helper()
	p := NewPiece()
	for _, name := range names {
		p.AddSection(name, cMajor())
	}
	return p
}

func checkStructure(t *testing.T, p *Piece) {
	t.Helper()
	if !p.HasValidStructure() {
		t.Fatalf("structure invariant broken: %d sections, %d modulations",
			p.SectionCount(), p.ModulationCount())
	}
	// The child list must strictly alternate Section, Modulation, ...,
	// Section and each modulation must reference its neighbors by ID.
	for i := 0; i < p.Root().NumChildren(); i++ {
		c := p.Root().Child(i)
		want := TypeSection
		if i%2 == 1 {
			want = TypeModulation
		}
		if c.Name() != want {
			t.Fatalf("child %d is %s, want %s", i, c.Name(), want)
		}
	}
	for i := 0; i < p.ModulationCount(); i++ {
		m, _ := p.Modulation(i)
		from, _ := p.Section(i)
		to, _ := p.Section(i + 1)
		if m.FromSectionID() != from.ID() || m.ToSectionID() != to.ID() {
			t.Fatalf("modulation %d connects %d->%d, want %d->%d",
				i, m.FromSectionID(), m.ToSectionID(), from.ID(), to.ID())
		}
	}
}

func TestAddSectionsCreatesModulationsBetween(t *testing.T) {
	p := buildPiece(t, "A", "B", "C")
	if p.SectionCount() != 3 || p.ModulationCount() != 2 {
		t.Fatalf("got %d sections, %d modulations", p.SectionCount(), p.ModulationCount())
	}
	checkStructure(t, p)
	for i := 0; i < p.ModulationCount(); i++ {
		m, _ := p.Modulation(i)
		if m.FromChordIndex() != ChordIndexUnset || m.ToChordIndex() != ChordIndexUnset {
			t.Errorf("modulation %d chord indices should start unset", i)
		}
		if m.Type() != ModulationPerfectCadence {
			t.Errorf("modulation %d type = %v, want perfect cadence", i, m.Type())
		}
	}
}

func TestAddFirstSectionCreatesNoModulation(t *testing.T) {
	p := buildPiece(t, "A")
	if p.ModulationCount() != 0 {
		t.Fatalf("single section piece has %d modulations", p.ModulationCount())
	}
	s, _ := p.Section(0)
	if s.ID() != 0 {
		t.Errorf("first section ID = %d, want 0", s.ID())
	}
	if !s.Progression().IsValid() || !s.Progression().IsEmpty() {
		t.Error("new section must carry an empty progression")
	}
}

func TestRemoveMiddleSectionBridges(t *testing.T) {
	p := buildPiece(t, "A", "B", "C")
	a, _ := p.Section(0)
	c, _ := p.Section(2)
	aID, cID := a.ID(), c.ID()

	p.RemoveSection(1)

	if p.SectionCount() != 2 || p.ModulationCount() != 1 {
		t.Fatalf("got %d sections, %d modulations", p.SectionCount(), p.ModulationCount())
	}
	checkStructure(t, p)
	bridge, _ := p.Modulation(0)
	if bridge.FromSectionID() != aID || bridge.ToSectionID() != cID {
		t.Fatalf("bridge connects %d->%d, want %d->%d",
			bridge.FromSectionID(), bridge.ToSectionID(), aID, cID)
	}
	if bridge.FromChordIndex() != ChordIndexUnset || bridge.ToChordIndex() != ChordIndexUnset {
		t.Error("bridge chord indices should start unset")
	}
}

func TestRemoveFirstAndLastSection(t *testing.T) {
	p := buildPiece(t, "A", "B", "C")
	p.RemoveSection(0)
	checkStructure(t, p)
	if s, _ := p.Section(0); s.Name() != "B" {
		t.Fatalf("after removing first, section 0 = %q", s.Name())
	}

	p = buildPiece(t, "A", "B", "C")
	p.RemoveSection(2)
	checkStructure(t, p)
	if s, _ := p.Section(p.SectionCount() - 1); s.Name() != "B" {
		t.Fatalf("after removing last, last section = %q", s.Name())
	}

	p = buildPiece(t, "A")
	p.RemoveSection(0)
	if p.SectionCount() != 0 || p.ModulationCount() != 0 {
		t.Fatal("removing the only section must empty the piece")
	}
}

func TestRemoveSectionInvalidIndexNoOp(t *testing.T) {
	p := buildPiece(t, "A", "B")
	p.RemoveSection(-1)
	p.RemoveSection(2)
	if p.SectionCount() != 2 || p.ModulationCount() != 1 {
		t.Fatal("out of range removal must not change the piece")
	}
	checkStructure(t, p)
}

func TestSectionIDsNeverReused(t *testing.T) {
	p := buildPiece(t, "A", "B", "C") // IDs 0, 1, 2
	p.RemoveSection(1)
	s := p.AddSection("D", gMajor())
	if s.ID() != 3 {
		t.Errorf("new section ID = %d, want 3", s.ID())
	}
	a, _ := p.Section(0)
	c, _ := p.Section(1)
	if a.ID() != 0 || c.ID() != 2 {
		t.Errorf("survivor IDs renumbered to %d, %d", a.ID(), c.ID())
	}
}

func TestChordIDsStablePerSection(t *testing.T) {
	p := buildPiece(t, "A")
	s, _ := p.Section(0)
	prog := s.Progression()
	um := p.UndoManager()
	prog.AddChord(First, QualityAuto, Fundamental, um)
	prog.AddChord(Fourth, QualityAuto, Fundamental, um)
	prog.AddChord(Fifth, QualityAuto, Fundamental, um)

	if err := prog.RemoveChord(1, um); err != nil {
		t.Fatal(err)
	}
	c0, _ := prog.Chord(0)
	c1, _ := prog.Chord(1)
	if c0.ID() != 0 || c1.ID() != 2 {
		t.Errorf("surviving chord IDs = %d, %d, want 0, 2", c0.ID(), c1.ID())
	}
	if prog.ChordByID(1).IsValid() {
		t.Error("removed chord must not be findable by ID")
	}
	if got := prog.ChordIndexByID(1); got != -1 {
		t.Errorf("ChordIndexByID(1) = %d, want -1", got)
	}
	if got := prog.ChordIndexByID(2); got != 1 {
		t.Errorf("ChordIndexByID(2) = %d, want 1", got)
	}
	if c := prog.ChordByID(2); !c.IsValid() || c.Degree() != Fifth {
		t.Errorf("ChordByID(2) = valid %v degree %v", c.IsValid(), c.Degree())
	}
	added := prog.AddChord(First, QualityAuto, SecondInversion, um)
	if added.ID() != 3 {
		t.Errorf("next chord ID = %d, want 3", added.ID())
	}

	// Chord IDs are per progression: a second section restarts at 0.
	s2 := p.AddSection("B", aMinor())
	c := s2.Progression().AddChord(First, QualityAuto, Fundamental, um)
	if c.ID() != 0 {
		t.Errorf("first chord of a new section has ID %d, want 0", c.ID())
	}
}

func TestInsertChordClampsIndex(t *testing.T) {
	p := buildPiece(t, "A")
	s, _ := p.Section(0)
	prog := s.Progression()
	um := p.UndoManager()
	prog.AddChord(First, QualityAuto, Fundamental, um)  // id 0
	prog.AddChord(Fifth, QualityAuto, Fundamental, um)  // id 1

	mid := prog.InsertChord(1, Fourth, QualityAuto, Fundamental, um)
	if mid.ID() != 2 {
		t.Errorf("inserted chord ID = %d, want 2", mid.ID())
	}
	over := prog.InsertChord(99, Sixth, QualityAuto, Fundamental, um)  // clamps to append
	neg := prog.InsertChord(-5, Second, QualityAuto, Fundamental, um)  // clamps to append

	wantDegrees := []Degree{First, Fourth, Fifth, Sixth, Second}
	if prog.Size() != len(wantDegrees) {
		t.Fatalf("size = %d, want %d", prog.Size(), len(wantDegrees))
	}
	for i, want := range wantDegrees {
		c, err := prog.Chord(i)
		if err != nil {
			t.Fatal(err)
		}
		if c.Degree() != want {
			t.Errorf("chord %d degree = %v, want %v", i, c.Degree(), want)
		}
	}
	if over.ID() != 3 || neg.ID() != 4 {
		t.Errorf("clamped insert IDs = %d, %d, want 3, 4", over.ID(), neg.ID())
	}
	if got := prog.ChordIndexByID(mid.ID()); got != 1 {
		t.Errorf("inserted chord index = %d, want 1", got)
	}
}

func TestClearResetsIDNumbering(t *testing.T) {
	p := buildPiece(t, "A", "B")
	p.Clear()
	if p.SectionCount() != 0 || p.Title() != "Untitled Piece" {
		t.Fatal("clear must empty the piece and reset the title")
	}
	s := p.AddSection("New", eFlatMajor())
	if s.ID() != 0 {
		t.Errorf("section ID after clear = %d, want 0", s.ID())
	}
}

func TestUndoRedoAddSection(t *testing.T) {
	p := buildPiece(t, "A", "B")
	um := p.UndoManager()

	if !um.Undo() {
		t.Fatal("undo failed")
	}
	if p.SectionCount() != 1 || p.ModulationCount() != 0 {
		t.Fatalf("after undo: %d sections, %d modulations", p.SectionCount(), p.ModulationCount())
	}
	checkStructure(t, p)

	if !um.Redo() {
		t.Fatal("redo failed")
	}
	if p.SectionCount() != 2 || p.ModulationCount() != 1 {
		t.Fatalf("after redo: %d sections, %d modulations", p.SectionCount(), p.ModulationCount())
	}
	checkStructure(t, p)
	b, _ := p.Section(1)
	if b.Name() != "B" || b.ID() != 1 {
		t.Errorf("redone section = %q id %d", b.Name(), b.ID())
	}
}

func TestUndoRedoRemoveMiddleSection(t *testing.T) {
	p := buildPiece(t, "A", "B", "C")
	um := p.UndoManager()
	p.RemoveSection(1)

	if !um.Undo() {
		t.Fatal("undo failed")
	}
	if p.SectionCount() != 3 {
		t.Fatalf("after undo: %d sections", p.SectionCount())
	}
	checkStructure(t, p)
	b, _ := p.Section(1)
	if b.Name() != "B" || b.ID() != 1 {
		t.Errorf("restored section 1 = %q id %d, want B id 1", b.Name(), b.ID())
	}

	if !um.Redo() {
		t.Fatal("redo failed")
	}
	if p.SectionCount() != 2 {
		t.Fatalf("after redo: %d sections", p.SectionCount())
	}
	checkStructure(t, p)
}

func TestUndoGroupsWholeTransaction(t *testing.T) {
	p := buildPiece(t, "A")
	s, _ := p.Section(0)
	um := p.UndoManager()
	um.Begin("EditChord")
	chord := s.Progression().AddChord(Fifth, QualityAuto, Fundamental, um)
	chord.SetQuality(DominantSeventhChord, um)
	chord.SetState(FirstInversion, um)

	if !um.Undo() {
		t.Fatal("undo failed")
	}
	if !s.Progression().IsEmpty() {
		t.Fatal("one undo must revert the grouped add and edits together")
	}
}

func TestUndoStackDepthLimit(t *testing.T) {
	p := NewPiece()
	for i := 0; i < 80; i++ {
		p.AddSection("S", cMajor())
	}
	um := p.UndoManager()
	undone := 0
	for um.Undo() {
		undone++
	}
	if undone != 64 {
		t.Errorf("undid %d transactions, want the stack capped at 64", undone)
	}
}

func TestRedoClearedByNewEdit(t *testing.T) {
	p := buildPiece(t, "A", "B")
	um := p.UndoManager()
	um.Undo()
	p.AddSection("C", gMajor())
	if um.Redo() {
		t.Fatal("redo must be impossible after a new edit")
	}
}

func TestSectionIndexByID(t *testing.T) {
	p := buildPiece(t, "A", "B", "C")
	p.RemoveSection(0)
	if got := p.SectionIndexByID(2); got != 1 {
		t.Errorf("SectionIndexByID(2) = %d, want 1", got)
	}
	if got := p.SectionIndexByID(0); got != -1 {
		t.Errorf("SectionIndexByID(0) = %d, want -1", got)
	}
	if s := p.SectionByID(1); !s.IsValid() || s.Name() != "B" {
		t.Errorf("SectionByID(1) = %v valid=%v", s.Name(), s.IsValid())
	}
}

func TestIsComplete(t *testing.T) {
	p := NewPiece()
	if p.IsComplete() {
		t.Error("empty piece must not be complete")
	}
	p.AddSection("A", cMajor())
	if p.IsComplete() {
		t.Error("piece with a chordless section must not be complete")
	}
	s, _ := p.Section(0)
	s.Progression().AddChord(First, QualityAuto, Fundamental, p.UndoManager())
	if !p.IsComplete() {
		t.Error("piece with chords in every section must be complete")
	}
	if p.TotalChordCount() != 1 {
		t.Errorf("TotalChordCount() = %d", p.TotalChordCount())
	}
}

func TestDataRoundTrip(t *testing.T) {
	p := buildPiece(t, "A", "B")
	s, _ := p.Section(0)
	um := p.UndoManager()
	s.Progression().AddChord(First, QualityAuto, Fundamental, um)
	s.Progression().AddChord(Fifth, DominantSeventhChord, FirstInversion, um)
	m, _ := p.Modulation(0)
	m.SetType(ModulationPivotChord, um)
	m.SetFromChordIndex(1, um)
	p.SetTitle("Two Parts")

	q := NewPiece()
	q.SetData(p.Data())

	if q.Title() != "Two Parts" || q.SectionCount() != 2 || q.ModulationCount() != 1 {
		t.Fatalf("round trip lost structure: %q %d/%d", q.Title(), q.SectionCount(), q.ModulationCount())
	}
	checkStructure(t, q)
	qs, _ := q.Section(0)
	c, err := qs.Progression().Chord(1)
	if err != nil {
		t.Fatal(err)
	}
	if c.Degree() != Fifth || c.Quality() != DominantSeventhChord || c.State() != FirstInversion {
		t.Errorf("chord round trip: %v %v %v", c.Degree(), c.Quality(), c.State())
	}
	qm, _ := q.Modulation(0)
	if qm.Type() != ModulationPivotChord || qm.FromChordIndex() != 1 {
		t.Errorf("modulation round trip: %v %d", qm.Type(), qm.FromChordIndex())
	}
}
