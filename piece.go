package composer

import "fmt"

// Node type names and property keys of the document tree. These double as
// the element and attribute names of the .diatony XML format.
const (
	TypePiece       = "Piece"
	TypeSection     = "Section"
	TypeModulation  = "Modulation"
	TypeProgression = "Progression"
	TypeChord       = "Chord"

	propID                 = "id"
	propTitle              = "title"
	propName               = "name"
	propDegree             = "degree"
	propQuality            = "quality"
	propState              = "state"
	propTonalityNote       = "tonalityNote"
	propTonalityAlteration = "tonalityAlteration"
	propIsMajor            = "isMajor"
	propModulationType     = "modulationType"
	propFromSection        = "fromSectionId"
	propToSection          = "toSectionId"
	propFromChord          = "fromChordIndex"
	propToChord            = "toChordIndex"
)

const defaultTitle = "Untitled Piece"

// Piece is the aggregate root of the document: an ordered child list that
// strictly alternates Section, Modulation, Section, ..., Section (starting
// and ending with a Section, or empty), so that a piece with n > 0 sections
// always has exactly n-1 modulations. The piece owns the document's undo
// history and assigns section and modulation IDs.
type Piece struct {
	root *Node
	undo *UndoManager
}

func NewPiece() *Piece {
	root := NewNode(TypePiece)
	root.SetProperty(propTitle, defaultTitle, nil)
	return &Piece{root: root, undo: NewUndoManager()}
}

func (p *Piece) Root() *Node { return p.root }

// UndoManager exposes the piece's undo history; callers group their edits
// into transactions with Begin.
func (p *Piece) UndoManager() *UndoManager { return p.undo }

func (p *Piece) AddListener(l Listener)    { p.root.AddListener(l) }
func (p *Piece) RemoveListener(l Listener) { p.root.RemoveListener(l) }

func (p *Piece) Title() string {
	return p.root.StringProperty(propTitle, "")
}

func (p *Piece) SetTitle(title string) {
	p.undo.Begin("SetTitle")
	p.root.SetProperty(propTitle, title, p.undo)
}

func (p *Piece) SectionCount() int {
	return p.countChildren(TypeSection)
}

func (p *Piece) ModulationCount() int {
	return p.countChildren(TypeModulation)
}

func (p *Piece) countChildren(typ string) int {
	n := 0
	for i := 0; i < p.root.NumChildren(); i++ {
		if p.root.Child(i).Name() == typ {
			n++
		}
	}
	return n
}

// Section returns the index-th section. Fails loudly on a bad index; the
// orchestration layer validates first.
func (p *Piece) Section(index int) (Section, error) {
	node := p.nthChild(TypeSection, index)
	if node == nil {
		return Section{}, fmt.Errorf("section %d: %w", index, ErrIndexOutOfRange)
	}
	return Section{node: node}, nil
}

// Modulation returns the index-th modulation. Fails loudly on a bad index.
func (p *Piece) Modulation(index int) (Modulation, error) {
	node := p.nthChild(TypeModulation, index)
	if node == nil {
		return Modulation{}, fmt.Errorf("modulation %d: %w", index, ErrIndexOutOfRange)
	}
	return Modulation{node: node}, nil
}

func (p *Piece) nthChild(typ string, index int) *Node {
	if index < 0 {
		return nil
	}
	seen := 0
	for i := 0; i < p.root.NumChildren(); i++ {
		if c := p.root.Child(i); c.Name() == typ {
			if seen == index {
				return c
			}
			seen++
		}
	}
	return nil
}

// childIndexOfSection maps a section index to the index in the root's child
// list, or -1.
func (p *Piece) childIndexOfSection(index int) int {
	if index < 0 {
		return -1
	}
	seen := 0
	for i := 0; i < p.root.NumChildren(); i++ {
		if p.root.Child(i).Name() == TypeSection {
			if seen == index {
				return i
			}
			seen++
		}
	}
	return -1
}

// AddSection appends a new section with the next free section ID. When the
// piece already has sections, a modulation from the previous last section to
// the new one is synthesized in between, keeping the child list alternating.
func (p *Piece) AddSection(name string, tonality Tonality) Section {
	p.undo.Begin("AddSection")
	if count := p.SectionCount(); count > 0 {
		prev, _ := p.Section(count - 1)
		mod := p.newModulationNode(prev.ID(), p.nextID(TypeSection))
		p.root.AddChild(mod, -1, p.undo)
	}
	node := NewNode(TypeSection)
	node.SetProperty(propID, p.nextID(TypeSection), nil)
	node.SetProperty(propName, name, nil)
	node.SetProperty(propTonalityNote, tonality.Note, nil)
	node.SetProperty(propTonalityAlteration, int(tonality.Alteration), nil)
	node.SetProperty(propIsMajor, tonality.Major, nil)
	node.AddChild(NewNode(TypeProgression), -1, nil)
	p.root.AddChild(node, -1, p.undo)
	return Section{node: node}
}

// newModulationNode builds a detached modulation node with the next free
// modulation ID and the chord indices left unset.
func (p *Piece) newModulationNode(fromSectionID, toSectionID int) *Node {
	id := p.nextID(TypeModulation)
	node := NewNode(TypeModulation)
	node.SetProperty(propID, id, nil)
	node.SetProperty(propName, fmt.Sprintf("Modulation %d", id), nil)
	node.SetProperty(propModulationType, int(ModulationPerfectCadence), nil)
	node.SetProperty(propFromSection, fromSectionID, nil)
	node.SetProperty(propToSection, toSectionID, nil)
	node.SetProperty(propFromChord, ChordIndexUnset, nil)
	node.SetProperty(propToChord, ChordIndexUnset, nil)
	return node
}

// RemoveSection removes the index-th section, dropping or synthesizing
// modulations as needed to keep the child list alternating. Invalid indices
// are a silent no-op. Removing a middle section removes both adjacent
// modulations and bridges the gap with one new modulation connecting the
// neighbors by ID.
func (p *Piece) RemoveSection(index int) {
	childIdx := p.childIndexOfSection(index)
	if childIdx < 0 {
		return
	}
	p.undo.Begin("RemoveSection")
	count := p.SectionCount()
	switch {
	case count == 1:
		p.root.RemoveChild(childIdx, p.undo)
	case index == count-1:
		// last section: drop the trailing modulation with it
		p.root.RemoveChild(childIdx, p.undo)
		p.root.RemoveChild(childIdx-1, p.undo)
	case index == 0:
		// first section: drop the modulation that followed it
		p.root.RemoveChild(childIdx+1, p.undo)
		p.root.RemoveChild(childIdx, p.undo)
	default:
		prev := Section{node: p.root.Child(childIdx - 2)}
		next := Section{node: p.root.Child(childIdx + 2)}
		p.root.RemoveChild(childIdx+1, p.undo)
		p.root.RemoveChild(childIdx, p.undo)
		p.root.RemoveChild(childIdx-1, p.undo)
		bridge := p.newModulationNode(prev.ID(), next.ID())
		p.root.AddChild(bridge, childIdx-1, p.undo)
	}
}

// Clear empties the piece and resets the title. ID assignment scans the
// remaining children, so the next added section and chord start again at 0.
func (p *Piece) Clear() {
	p.undo.Begin("ClearPiece")
	p.root.RemoveAllChildren(p.undo)
	p.root.SetProperty(propTitle, defaultTitle, p.undo)
}

// SectionIndexByID maps a stable section ID to its current index, or -1.
func (p *Piece) SectionIndexByID(id int) int {
	return p.indexByID(TypeSection, id)
}

// ModulationIndexByID maps a stable modulation ID to its current index, or -1.
func (p *Piece) ModulationIndexByID(id int) int {
	return p.indexByID(TypeModulation, id)
}

func (p *Piece) indexByID(typ string, id int) int {
	index := 0
	for i := 0; i < p.root.NumChildren(); i++ {
		if c := p.root.Child(i); c.Name() == typ {
			if c.IntProperty(propID, -1) == id {
				return index
			}
			index++
		}
	}
	return -1
}

// SectionByID returns the section with the given ID, or the invalid handle.
func (p *Piece) SectionByID(id int) Section {
	if i := p.SectionIndexByID(id); i >= 0 {
		s, _ := p.Section(i)
		return s
	}
	return Section{}
}

// TotalChordCount sums the chord counts of all sections.
func (p *Piece) TotalChordCount() int {
	total := 0
	for i := 0; i < p.SectionCount(); i++ {
		s, _ := p.Section(i)
		total += s.Progression().Size()
	}
	return total
}

// HasValidStructure checks the alternation invariant: the modulation count
// equals max(0, sectionCount-1). Holds after every public mutation.
func (p *Piece) HasValidStructure() bool {
	sections := p.SectionCount()
	modulations := p.ModulationCount()
	if sections == 0 {
		return modulations == 0
	}
	return modulations == sections-1
}

// IsComplete reports whether the piece can be handed to the solver:
// non-empty, structurally valid, and every section complete.
func (p *Piece) IsComplete() bool {
	if p.SectionCount() == 0 || !p.HasValidStructure() {
		return false
	}
	for i := 0; i < p.SectionCount(); i++ {
		s, _ := p.Section(i)
		if !s.IsComplete() {
			return false
		}
	}
	return true
}

// nextID returns max(existing IDs of the given node type)+1, or 0 when none
// exist. IDs are never reused while their node is present; after a Clear the
// scan finds nothing and numbering restarts at 0.
func (p *Piece) nextID(typ string) int {
	next := 0
	for i := 0; i < p.root.NumChildren(); i++ {
		if c := p.root.Child(i); c.Name() == typ {
			if id := c.IntProperty(propID, -1); id >= next {
				next = id + 1
			}
		}
	}
	return next
}
