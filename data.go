package composer

// PieceData is a plain-value snapshot of a piece. It is what crosses the
// boundary to the generation worker (which must never touch the live tree),
// what the crash-recovery file stores, and what tests compare against. The
// alternating child order is implied: section i is followed by modulation i.
type (
	PieceData struct {
		Title       string           `yaml:"title" json:"title"`
		Sections    []SectionData    `yaml:"sections" json:"sections"`
		Modulations []ModulationData `yaml:"modulations,omitempty" json:"modulations,omitempty"`
	}

	SectionData struct {
		ID       int         `yaml:"id" json:"id"`
		Name     string      `yaml:"name" json:"name"`
		Tonality Tonality    `yaml:"tonality" json:"tonality"`
		Chords   []ChordData `yaml:"chords,omitempty" json:"chords,omitempty"`
	}

	ChordData struct {
		ID      int     `yaml:"id" json:"id"`
		Degree  Degree  `yaml:"degree" json:"degree"`
		Quality Quality `yaml:"quality" json:"quality"`
		State   State   `yaml:"state" json:"state"`
	}

	ModulationData struct {
		ID          int            `yaml:"id" json:"id"`
		Name        string         `yaml:"name" json:"name"`
		Type        ModulationType `yaml:"type" json:"type"`
		FromSection int            `yaml:"fromSection" json:"fromSection"`
		ToSection   int            `yaml:"toSection" json:"toSection"`
		FromChord   int            `yaml:"fromChord" json:"fromChord"`
		ToChord     int            `yaml:"toChord" json:"toChord"`
	}
)

// Data snapshots the piece.
func (p *Piece) Data() PieceData {
	d := PieceData{Title: p.Title()}
	for i := 0; i < p.SectionCount(); i++ {
		s, _ := p.Section(i)
		sd := SectionData{ID: s.ID(), Name: s.Name(), Tonality: s.Tonality()}
		prog := s.Progression()
		for j := 0; j < prog.Size(); j++ {
			c, _ := prog.Chord(j)
			sd.Chords = append(sd.Chords, ChordData{
				ID:      c.ID(),
				Degree:  c.Degree(),
				Quality: c.Quality(),
				State:   c.State(),
			})
		}
		d.Sections = append(d.Sections, sd)
	}
	for i := 0; i < p.ModulationCount(); i++ {
		m, _ := p.Modulation(i)
		d.Modulations = append(d.Modulations, ModulationData{
			ID:          m.ID(),
			Name:        m.Name(),
			Type:        m.Type(),
			FromSection: m.FromSectionID(),
			ToSection:   m.ToSectionID(),
			FromChord:   m.FromChordIndex(),
			ToChord:     m.ToChordIndex(),
		})
	}
	return d
}

// SetData rebuilds the piece from a snapshot, bypassing the undo history
// (a whole-document load is not an undoable edit).
func (p *Piece) SetData(d PieceData) {
	p.root.RemoveAllChildren(nil)
	title := d.Title
	if title == "" {
		title = defaultTitle
	}
	p.root.SetProperty(propTitle, title, nil)
	for i, sd := range d.Sections {
		if i > 0 && i-1 < len(d.Modulations) {
			md := d.Modulations[i-1]
			node := NewNode(TypeModulation)
			node.SetProperty(propID, md.ID, nil)
			node.SetProperty(propName, md.Name, nil)
			node.SetProperty(propModulationType, int(md.Type), nil)
			node.SetProperty(propFromSection, md.FromSection, nil)
			node.SetProperty(propToSection, md.ToSection, nil)
			node.SetProperty(propFromChord, md.FromChord, nil)
			node.SetProperty(propToChord, md.ToChord, nil)
			p.root.AddChild(node, -1, nil)
		}
		node := NewNode(TypeSection)
		node.SetProperty(propID, sd.ID, nil)
		node.SetProperty(propName, sd.Name, nil)
		node.SetProperty(propTonalityNote, sd.Tonality.Note, nil)
		node.SetProperty(propTonalityAlteration, int(sd.Tonality.Alteration), nil)
		node.SetProperty(propIsMajor, sd.Tonality.Major, nil)
		prog := NewNode(TypeProgression)
		for _, cd := range sd.Chords {
			chord := NewNode(TypeChord)
			chord.SetProperty(propID, cd.ID, nil)
			chord.SetProperty(propDegree, int(cd.Degree), nil)
			chord.SetProperty(propQuality, int(cd.Quality), nil)
			chord.SetProperty(propState, int(cd.State), nil)
			prog.AddChild(chord, -1, nil)
		}
		node.AddChild(prog, -1, nil)
		p.root.AddChild(node, -1, nil)
	}
}
