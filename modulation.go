package composer

// Modulation is a handle to a Modulation node: the transition between two
// adjacent Sections. It references the sections by stable ID, never by
// index, so it survives insertions and deletions elsewhere in the piece.
type Modulation struct {
	node *Node
}

// ChordIndexUnset is the sentinel for FromChordIndex/ToChordIndex meaning
// "no explicit chord chosen"; the generation layer derives the boundary
// chords itself in that case.
const ChordIndexUnset = -1

func (m Modulation) IsValid() bool { return m.node != nil }

func (m Modulation) Node() *Node { return m.node }

func (m Modulation) ID() int {
	if m.node == nil {
		return -1
	}
	return m.node.IntProperty(propID, -1)
}

func (m Modulation) Name() string {
	if m.node == nil {
		return ""
	}
	return m.node.StringProperty(propName, "")
}

func (m Modulation) SetName(name string, um *UndoManager) {
	if m.node == nil {
		return
	}
	m.node.SetProperty(propName, name, um)
}

func (m Modulation) Type() ModulationType {
	if m.node == nil {
		return ModulationPerfectCadence
	}
	return ModulationType(m.node.IntProperty(propModulationType, 0))
}

func (m Modulation) SetType(t ModulationType, um *UndoManager) {
	if m.node == nil {
		return
	}
	m.node.SetProperty(propModulationType, int(t), um)
}

// FromSectionID is the stable ID of the section this modulation leaves.
func (m Modulation) FromSectionID() int {
	if m.node == nil {
		return -1
	}
	return m.node.IntProperty(propFromSection, -1)
}

// ToSectionID is the stable ID of the section this modulation enters.
func (m Modulation) ToSectionID() int {
	if m.node == nil {
		return -1
	}
	return m.node.IntProperty(propToSection, -1)
}

func (m Modulation) FromChordIndex() int {
	if m.node == nil {
		return ChordIndexUnset
	}
	return m.node.IntProperty(propFromChord, ChordIndexUnset)
}

func (m Modulation) SetFromChordIndex(index int, um *UndoManager) {
	if m.node == nil {
		return
	}
	m.node.SetProperty(propFromChord, index, um)
}

func (m Modulation) ToChordIndex() int {
	if m.node == nil {
		return ChordIndexUnset
	}
	return m.node.IntProperty(propToChord, ChordIndexUnset)
}

func (m Modulation) SetToChordIndex(index int, um *UndoManager) {
	if m.node == nil {
		return
	}
	m.node.SetProperty(propToChord, index, um)
}
