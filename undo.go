package composer

// UndoManager is a command log over tree mutations. Mutations performed with
// a non-nil UndoManager record an invertible command; commands are grouped
// into named transactions (one transaction per user action) and Undo/Redo
// move whole transactions between the two stacks.
//
// Undoing or redoing never records new commands: the manager replays the
// stored commands directly against the tree.

const maxUndo = 64

type (
	UndoManager struct {
		undoStack []transaction
		redoStack []transaction
		current   *transaction
		replaying bool
	}

	transaction struct {
		name string
		cmds []command
	}

	command interface {
		undo()
		redo()
	}

	setPropertyCmd struct {
		node     *Node
		key      string
		oldValue any
		hadOld   bool
		newValue any
	}

	addChildCmd struct {
		parent *Node
		child  *Node
		index  int
	}

	removeChildCmd struct {
		parent *Node
		child  *Node
		index  int
	}
)

func NewUndoManager() *UndoManager {
	return &UndoManager{}
}

// Begin closes the current transaction and opens a new one; every command
// recorded until the next Begin belongs to it. Beginning a transaction
// invalidates the redo stack.
func (u *UndoManager) Begin(name string) {
	u.commit()
	u.current = &transaction{name: name}
	u.redoStack = u.redoStack[:0]
}

// commit pushes the open transaction, if it recorded anything, onto the undo
// stack.
func (u *UndoManager) commit() {
	if u.current == nil || len(u.current.cmds) == 0 {
		u.current = nil
		return
	}
	u.undoStack = append(u.undoStack, *u.current)
	u.current = nil
	if len(u.undoStack) > maxUndo {
		copy(u.undoStack, u.undoStack[len(u.undoStack)-maxUndo:])
		u.undoStack = u.undoStack[:maxUndo]
	}
}

func (u *UndoManager) record(c command) {
	if u.replaying {
		return
	}
	if u.current == nil {
		u.current = &transaction{}
	}
	u.current.cmds = append(u.current.cmds, c)
}

func (u *UndoManager) CanUndo() bool {
	return len(u.undoStack) > 0 || (u.current != nil && len(u.current.cmds) > 0)
}

func (u *UndoManager) CanRedo() bool { return len(u.redoStack) > 0 }

// Undo reverts the most recent transaction. Returns false if there was
// nothing to undo.
func (u *UndoManager) Undo() bool {
	u.commit()
	if len(u.undoStack) == 0 {
		return false
	}
	t := u.undoStack[len(u.undoStack)-1]
	u.undoStack = u.undoStack[:len(u.undoStack)-1]
	u.replaying = true
	for i := len(t.cmds) - 1; i >= 0; i-- {
		t.cmds[i].undo()
	}
	u.replaying = false
	u.redoStack = append(u.redoStack, t)
	return true
}

// Redo reapplies the most recently undone transaction. Returns false if there
// was nothing to redo.
func (u *UndoManager) Redo() bool {
	u.commit()
	if len(u.redoStack) == 0 {
		return false
	}
	t := u.redoStack[len(u.redoStack)-1]
	u.redoStack = u.redoStack[:len(u.redoStack)-1]
	u.replaying = true
	for _, c := range t.cmds {
		c.redo()
	}
	u.replaying = false
	u.undoStack = append(u.undoStack, t)
	return true
}

// Clear drops both stacks and any open transaction.
func (u *UndoManager) Clear() {
	u.undoStack = u.undoStack[:0]
	u.redoStack = u.redoStack[:0]
	u.current = nil
}

func (c *setPropertyCmd) undo() {
	if c.hadOld {
		c.node.applyProperty(c.key, c.oldValue)
	} else {
		c.node.removeProperty(c.key)
	}
}

func (c *setPropertyCmd) redo() { c.node.applyProperty(c.key, c.newValue) }

func (c *addChildCmd) undo() { c.parent.applyRemoveChild(c.index) }
func (c *addChildCmd) redo() { c.parent.applyAddChild(c.child, c.index) }

func (c *removeChildCmd) undo() { c.parent.applyAddChild(c.child, c.index) }
func (c *removeChildCmd) redo() { c.parent.applyRemoveChild(c.index) }
