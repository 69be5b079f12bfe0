package composer

import (
	"reflect"
	"testing"
)

type recordingListener struct {
	propertyChanges []string
	childAdds       []string
	childRemoves    []string
}

func (l *recordingListener) PropertyChanged(node *Node, key string) {
	l.propertyChanges = append(l.propertyChanges, node.Name()+"."+key)
}

func (l *recordingListener) ChildAdded(parent, child *Node) {
	l.childAdds = append(l.childAdds, parent.Name()+"+"+child.Name())
}

func (l *recordingListener) ChildRemoved(parent, child *Node, oldIndex int) {
	l.childRemoves = append(l.childRemoves, parent.Name()+"-"+child.Name())
}

func TestNodePropertyOrder(t *testing.T) {
	n := NewNode("Chord")
	n.SetProperty("id", 0, nil)
	n.SetProperty("degree", 4, nil)
	n.SetProperty("state", 1, nil)
	n.SetProperty("degree", 5, nil) // update must not move the key
	want := []string{"id", "degree", "state"}
	if got := n.PropertyKeys(); !reflect.DeepEqual(got, want) {
		t.Fatalf("PropertyKeys() = %v, want %v", got, want)
	}
	if got := n.IntProperty("degree", -1); got != 5 {
		t.Errorf("degree = %v, want 5", got)
	}
}

func TestNodeSetPropertySameValueNoEvent(t *testing.T) {
	n := NewNode("Section")
	n.SetProperty("name", "A", nil)
	l := &recordingListener{}
	n.AddListener(l)
	n.SetProperty("name", "A", nil)
	if len(l.propertyChanges) != 0 {
		t.Fatalf("expected no events for unchanged value, got %v", l.propertyChanges)
	}
	n.SetProperty("name", "B", nil)
	if len(l.propertyChanges) != 1 {
		t.Fatalf("expected one event, got %v", l.propertyChanges)
	}
}

func TestNodeEventsBubbleToAncestors(t *testing.T) {
	root := NewNode("Piece")
	section := NewNode("Section")
	chord := NewNode("Chord")
	root.AddChild(section, -1, nil)
	section.AddChild(chord, -1, nil)
	l := &recordingListener{}
	root.AddListener(l)
	chord.SetProperty("degree", 3, nil)
	if !reflect.DeepEqual(l.propertyChanges, []string{"Chord.degree"}) {
		t.Errorf("property events = %v", l.propertyChanges)
	}
	section.RemoveChild(0, nil)
	if !reflect.DeepEqual(l.childRemoves, []string{"Section-Chord"}) {
		t.Errorf("remove events = %v", l.childRemoves)
	}
}

func TestNodeChildIndexClamped(t *testing.T) {
	root := NewNode("Piece")
	a, b, c := NewNode("A"), NewNode("B"), NewNode("C")
	root.AddChild(a, -1, nil)
	root.AddChild(b, 100, nil) // clamps to append
	root.AddChild(c, 0, nil)
	names := []string{}
	for i := 0; i < root.NumChildren(); i++ {
		names = append(names, root.Child(i).Name())
	}
	if !reflect.DeepEqual(names, []string{"C", "A", "B"}) {
		t.Fatalf("children = %v", names)
	}
	if root.Child(3) != nil || root.Child(-1) != nil {
		t.Error("out of range Child() should be nil")
	}
	if got := root.IndexOf(b); got != 2 {
		t.Errorf("IndexOf(b) = %v, want 2", got)
	}
}

func TestNodeRemoveChildOutOfRange(t *testing.T) {
	root := NewNode("Piece")
	root.AddChild(NewNode("A"), -1, nil)
	if got := root.RemoveChild(1, nil); got != nil {
		t.Errorf("RemoveChild(1) = %v, want nil", got)
	}
	if root.NumChildren() != 1 {
		t.Errorf("NumChildren() = %v, want 1", root.NumChildren())
	}
}

func TestNodeCopyIsDeepAndDetached(t *testing.T) {
	root := NewNode("Piece")
	root.SetProperty("title", "original", nil)
	child := NewNode("Section")
	child.SetProperty("id", 0, nil)
	root.AddChild(child, -1, nil)

	cp := root.Copy()
	cp.SetProperty("title", "copy", nil)
	cp.Child(0).SetProperty("id", 99, nil)

	if got, _ := root.Property("title"); got != "original" {
		t.Errorf("original title mutated to %v", got)
	}
	if got := root.Child(0).IntProperty("id", -1); got != 0 {
		t.Errorf("original child id mutated to %v", got)
	}
	if cp.Parent() != nil {
		t.Error("copy must be detached")
	}
}
