package editor

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/diatony/composer"
)

// LoadProjectFromFile replaces the current piece with the contents of a
// .diatony or .xml project file. Returns false on any failure, leaving the
// live piece untouched. Loading is not undoable: the undo history and the
// selection are reset on success.
func (m *Model) LoadProjectFromFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".diatony", ".xml":
	default:
		return false
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	root, err := composer.ParsePieceXML(string(b))
	if err != nil {
		return false
	}
	m.piece.LoadFrom(root)
	m.piece.UndoManager().Clear()
	m.ClearSelection()
	m.d.FilePath = path
	m.d.ChangedSinceSave = false
	m.d.ChangedSinceRecovery = true
	TrySend(m.broker.ToUI, any(MsgPieceChanged{}))
	return true
}

// SaveProjectToFile writes the piece as XML. An empty path reuses the path
// of the last load or save.
func (m *Model) SaveProjectToFile(path string) error {
	if path == "" {
		path = m.d.FilePath
	}
	if path == "" {
		return errors.New("no file path set")
	}
	if err := os.WriteFile(path, []byte(m.piece.ToXML()), 0644); err != nil {
		return err
	}
	m.d.FilePath = path
	m.d.ChangedSinceSave = false
	return nil
}

// MarshalRecovery returns the naked data part of the model, for saving
// recovery data.
func (m *Model) MarshalRecovery() []byte {
	m.d.Piece = m.piece.Data()
	out, err := yaml.Marshal(m.d)
	if err != nil {
		return nil
	}
	if m.d.RecoveryFilePath != "" {
		os.MkdirAll(filepath.Dir(m.d.RecoveryFilePath), 0755)
	}
	m.d.ChangedSinceRecovery = false
	return out
}

// SaveRecovery saves the recovery file, if RecoveryFilePath is set and
// something changed after the last save. Called at regular intervals and
// on quit.
func (m *Model) SaveRecovery() error {
	if !m.d.ChangedSinceRecovery || m.d.RecoveryFilePath == "" {
		return nil
	}
	out := m.MarshalRecovery()
	if out == nil {
		return errors.New("could not marshal recovery data")
	}
	return os.WriteFile(m.d.RecoveryFilePath, out, 0644)
}

// UnmarshalRecovery restores the model from the recovery data.
func (m *Model) UnmarshalRecovery(b []byte) {
	var d modelData
	if err := yaml.Unmarshal(b, &d); err != nil {
		return
	}
	recovery := m.d.RecoveryFilePath
	m.d = d
	m.d.RecoveryFilePath = recovery
	m.d.ChangedSinceRecovery = false
	m.piece.SetData(m.d.Piece)
	m.piece.UndoManager().Clear()
	m.ClearSelection()
	TrySend(m.broker.ToUI, any(MsgPieceChanged{}))
}
