package composer

// Section is a handle to a Section node: a named tonality plus one
// Progression child holding the section's chords.
type Section struct {
	node *Node
}

func (s Section) IsValid() bool { return s.node != nil }

func (s Section) Node() *Node { return s.node }

// ID is the section's identifier, unique within the piece, assigned by the
// piece at creation and never reassigned while the piece is live. Invalid
// handles report -1.
func (s Section) ID() int {
	if s.node == nil {
		return -1
	}
	return s.node.IntProperty(propID, -1)
}

func (s Section) Name() string {
	if s.node == nil {
		return ""
	}
	return s.node.StringProperty(propName, "")
}

func (s Section) SetName(name string, um *UndoManager) {
	if s.node == nil {
		return
	}
	s.node.SetProperty(propName, name, um)
}

func (s Section) Tonality() Tonality {
	if s.node == nil {
		return Tonality{}
	}
	return Tonality{
		Note:       s.node.IntProperty(propTonalityNote, 0),
		Alteration: Alteration(s.node.IntProperty(propTonalityAlteration, 0)),
		Major:      s.node.BoolProperty(propIsMajor, true),
	}
}

func (s Section) SetTonality(t Tonality, um *UndoManager) {
	if s.node == nil {
		return
	}
	s.node.SetProperty(propTonalityNote, t.Note, um)
	s.node.SetProperty(propTonalityAlteration, int(t.Alteration), um)
	s.node.SetProperty(propIsMajor, t.Major, um)
}

// Progression returns the section's chord list. A valid section always has
// exactly one Progression child.
func (s Section) Progression() Progression {
	if s.node == nil {
		return Progression{}
	}
	for i := 0; i < s.node.NumChildren(); i++ {
		if c := s.node.Child(i); c.Name() == TypeProgression {
			return Progression{node: c}
		}
	}
	return Progression{}
}

// IsComplete reports whether the section is ready for generation: a valid
// handle with at least one chord.
func (s Section) IsComplete() bool {
	return s.node != nil && !s.Progression().IsEmpty()
}
