package composer

// Chord is a lightweight handle to a Chord node. The zero value is the
// invalid handle: all getters return zero values and all setters are no-ops.
type Chord struct {
	node *Node
}

func (c Chord) IsValid() bool { return c.node != nil }

func (c Chord) Node() *Node { return c.node }

// ID is the chord's identifier, unique within its progression and never
// reassigned while the chord exists. Invalid handles report -1.
func (c Chord) ID() int {
	if c.node == nil {
		return -1
	}
	return c.node.IntProperty(propID, -1)
}

func (c Chord) Degree() Degree {
	if c.node == nil {
		return First
	}
	return Degree(c.node.IntProperty(propDegree, 0))
}

func (c Chord) SetDegree(d Degree, um *UndoManager) {
	if c.node == nil {
		return
	}
	c.node.SetProperty(propDegree, int(d), um)
}

func (c Chord) Quality() Quality {
	if c.node == nil {
		return QualityAuto
	}
	return Quality(c.node.IntProperty(propQuality, int(QualityAuto)))
}

func (c Chord) SetQuality(q Quality, um *UndoManager) {
	if c.node == nil {
		return
	}
	c.node.SetProperty(propQuality, int(q), um)
}

func (c Chord) State() State {
	if c.node == nil {
		return Fundamental
	}
	return State(c.node.IntProperty(propState, 0))
}

func (c Chord) SetState(s State, um *UndoManager) {
	if c.node == nil {
		return
	}
	c.node.SetProperty(propState, int(s), um)
}
