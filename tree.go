package composer

// The whole document is stored in a single tree of Nodes. A Node has a type
// name, an ordered list of children and a property bag. The Piece, Section,
// Modulation, Progression and Chord types are thin wrappers around *Node and
// store no data of their own, so there is exactly one source of truth and
// undo/redo can operate uniformly on the tree.
//
// Listeners can be attached to any node; a mutation notifies the listeners of
// the mutated node and of all its ancestors, so a listener attached at the
// Piece root observes every mutation in the document.

type (
	Node struct {
		name      string
		props     map[string]any
		keys      []string // property insertion order, for stable serialization
		children  []*Node
		parent    *Node
		listeners []Listener
	}

	// Listener receives structured change events from the tree. All methods
	// are called synchronously from the mutating goroutine.
	Listener interface {
		PropertyChanged(node *Node, key string)
		ChildAdded(parent, child *Node)
		ChildRemoved(parent, child *Node, oldIndex int)
	}
)

func NewNode(name string) *Node {
	return &Node{name: name, props: make(map[string]any)}
}

func (n *Node) Name() string { return n.name }

func (n *Node) Parent() *Node { return n.parent }

// Root walks up the parent chain and returns the topmost node.
func (n *Node) Root() *Node {
	for n.parent != nil {
		n = n.parent
	}
	return n
}

func (n *Node) NumChildren() int { return len(n.children) }

// Child returns the child at index, or nil if the index is out of range.
func (n *Node) Child(index int) *Node {
	if index < 0 || index >= len(n.children) {
		return nil
	}
	return n.children[index]
}

// IndexOf returns the index of child among n's children, or -1.
func (n *Node) IndexOf(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

func (n *Node) AddListener(l Listener) {
	n.listeners = append(n.listeners, l)
}

func (n *Node) RemoveListener(l Listener) {
	for i, x := range n.listeners {
		if x == l {
			n.listeners = append(n.listeners[:i], n.listeners[i+1:]...)
			return
		}
	}
}

// Property returns the raw property value and whether it was present.
func (n *Node) Property(key string) (any, bool) {
	v, ok := n.props[key]
	return v, ok
}

// IntProperty returns the property as an int, or def if absent or not an int.
func (n *Node) IntProperty(key string, def int) int {
	if v, ok := n.props[key].(int); ok {
		return v
	}
	return def
}

func (n *Node) StringProperty(key string, def string) string {
	if v, ok := n.props[key].(string); ok {
		return v
	}
	return def
}

func (n *Node) BoolProperty(key string, def bool) bool {
	if v, ok := n.props[key].(bool); ok {
		return v
	}
	return def
}

// PropertyKeys returns the property names in the order they were first set.
func (n *Node) PropertyKeys() []string {
	keys := make([]string, len(n.keys))
	copy(keys, n.keys)
	return keys
}

// SetProperty sets a property value, records the change to um (when non-nil)
// and notifies listeners. Setting the same value again is a no-op.
func (n *Node) SetProperty(key string, value any, um *UndoManager) {
	old, had := n.props[key]
	if had && old == value {
		return
	}
	if um != nil {
		um.record(&setPropertyCmd{node: n, key: key, oldValue: old, hadOld: had, newValue: value})
	}
	n.applyProperty(key, value)
}

func (n *Node) applyProperty(key string, value any) {
	if _, ok := n.props[key]; !ok {
		n.keys = append(n.keys, key)
	}
	n.props[key] = value
	n.notify(func(l Listener) { l.PropertyChanged(n, key) })
}

func (n *Node) removeProperty(key string) {
	if _, ok := n.props[key]; !ok {
		return
	}
	delete(n.props, key)
	for i, k := range n.keys {
		if k == key {
			n.keys = append(n.keys[:i], n.keys[i+1:]...)
			break
		}
	}
	n.notify(func(l Listener) { l.PropertyChanged(n, key) })
}

// AddChild inserts child at index (clamped; -1 appends). The child must be
// detached; adding an attached node is a no-op.
func (n *Node) AddChild(child *Node, index int, um *UndoManager) {
	if child == nil || child.parent != nil {
		return
	}
	if index < 0 || index > len(n.children) {
		index = len(n.children)
	}
	if um != nil {
		um.record(&addChildCmd{parent: n, child: child, index: index})
	}
	n.applyAddChild(child, index)
}

func (n *Node) applyAddChild(child *Node, index int) {
	n.children = append(n.children, nil)
	copy(n.children[index+1:], n.children[index:])
	n.children[index] = child
	child.parent = n
	n.notify(func(l Listener) { l.ChildAdded(n, child) })
}

// RemoveChild detaches and returns the child at index, or nil if the index is
// out of range. The detached node keeps its properties and children, so undo
// can reattach it unchanged.
func (n *Node) RemoveChild(index int, um *UndoManager) *Node {
	if index < 0 || index >= len(n.children) {
		return nil
	}
	child := n.children[index]
	if um != nil {
		um.record(&removeChildCmd{parent: n, child: child, index: index})
	}
	n.applyRemoveChild(index)
	return child
}

func (n *Node) applyRemoveChild(index int) {
	child := n.children[index]
	n.children = append(n.children[:index], n.children[index+1:]...)
	child.parent = nil
	n.notify(func(l Listener) { l.ChildRemoved(n, child, index) })
}

// RemoveAllChildren detaches every child, last to first.
func (n *Node) RemoveAllChildren(um *UndoManager) {
	for i := len(n.children) - 1; i >= 0; i-- {
		n.RemoveChild(i, um)
	}
}

// Copy returns a deep copy of the node and its subtree. The copy is detached
// and carries no listeners.
func (n *Node) Copy() *Node {
	c := NewNode(n.name)
	c.keys = make([]string, len(n.keys))
	copy(c.keys, n.keys)
	for k, v := range n.props {
		c.props[k] = v
	}
	for _, child := range n.children {
		cc := child.Copy()
		cc.parent = c
		c.children = append(c.children, cc)
	}
	return c
}

// CopyFrom replaces the node's properties and children with deep copies of
// other's, notifying listeners once per removed/added child and changed
// property. Used for whole-document loads, which bypass the undo history.
func (n *Node) CopyFrom(other *Node) {
	n.RemoveAllChildren(nil)
	for _, key := range n.PropertyKeys() {
		if _, ok := other.props[key]; !ok {
			n.removeProperty(key)
		}
	}
	for _, key := range other.keys {
		n.SetProperty(key, other.props[key], nil)
	}
	for _, child := range other.children {
		n.AddChild(child.Copy(), -1, nil)
	}
}

// notify calls fn for the listeners of n and of every ancestor of n.
func (n *Node) notify(fn func(Listener)) {
	for node := n; node != nil; node = node.parent {
		for _, l := range node.listeners {
			fn(l)
		}
	}
}
