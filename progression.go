package composer

import "fmt"

// ErrIndexOutOfRange is returned by the low-level accessors when called with
// a bad index. Orchestration layers validate indices first and degrade to
// no-ops instead of surfacing this error to the user.
var ErrIndexOutOfRange = fmt.Errorf("index out of range")

// Progression is a handle to the ordered chord list of a Section. Every
// Section owns exactly one Progression node; the Progression assigns chord
// IDs by scanning for the current maximum, so IDs restart at 0 only after a
// Clear.
type Progression struct {
	node *Node
}

func (p Progression) IsValid() bool { return p.node != nil }

func (p Progression) Node() *Node { return p.node }

func (p Progression) Size() int {
	if p.node == nil {
		return 0
	}
	return p.node.NumChildren()
}

func (p Progression) IsEmpty() bool { return p.Size() == 0 }

// Chord returns the chord at index. Unlike the orchestration-level
// operations this fails loudly on a bad index.
func (p Progression) Chord(index int) (Chord, error) {
	if p.node == nil || index < 0 || index >= p.node.NumChildren() {
		return Chord{}, fmt.Errorf("chord %d: %w", index, ErrIndexOutOfRange)
	}
	return Chord{node: p.node.Child(index)}, nil
}

// AddChord appends a chord with the next free ID. Returns the invalid handle
// if the progression itself is invalid.
func (p Progression) AddChord(degree Degree, quality Quality, state State, um *UndoManager) Chord {
	return p.InsertChord(p.Size(), degree, quality, state, um)
}

// InsertChord inserts at min(index, Size()). Same ID scheme as AddChord.
func (p Progression) InsertChord(index int, degree Degree, quality Quality, state State, um *UndoManager) Chord {
	if p.node == nil {
		return Chord{}
	}
	if index < 0 || index > p.node.NumChildren() {
		index = p.node.NumChildren()
	}
	node := NewNode(TypeChord)
	node.SetProperty(propID, p.nextChordID(), nil)
	node.SetProperty(propDegree, int(degree), nil)
	node.SetProperty(propQuality, int(quality), nil)
	node.SetProperty(propState, int(state), nil)
	p.node.AddChild(node, index, um)
	return Chord{node: node}
}

// RemoveChord removes the chord at index. Surviving chords keep their IDs.
func (p Progression) RemoveChord(index int, um *UndoManager) error {
	if p.node == nil || index < 0 || index >= p.node.NumChildren() {
		return fmt.Errorf("chord %d: %w", index, ErrIndexOutOfRange)
	}
	p.node.RemoveChild(index, um)
	return nil
}

// Clear removes every chord; the next AddChord restarts IDs at 0.
func (p Progression) Clear(um *UndoManager) {
	if p.node == nil {
		return
	}
	p.node.RemoveAllChildren(um)
}

// ChordByID returns the chord with the given ID, or the invalid handle.
func (p Progression) ChordByID(id int) Chord {
	if i := p.ChordIndexByID(id); i >= 0 {
		return Chord{node: p.node.Child(i)}
	}
	return Chord{}
}

// ChordIndexByID maps a stable chord ID to its current index, or -1.
func (p Progression) ChordIndexByID(id int) int {
	if p.node == nil {
		return -1
	}
	for i := 0; i < p.node.NumChildren(); i++ {
		if p.node.Child(i).IntProperty(propID, -1) == id {
			return i
		}
	}
	return -1
}

func (p Progression) nextChordID() int {
	next := 0
	for i := 0; i < p.node.NumChildren(); i++ {
		if id := p.node.Child(i).IntProperty(propID, -1); id >= next {
			next = id + 1
		}
	}
	return next
}
