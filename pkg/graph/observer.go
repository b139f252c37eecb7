package graph

// Observer is notified of structural changes to a Graph.
//
// Attribute stores register as observers so that a record exists for every
// live element regardless of which code path created it (the editor, a
// generator, a decoder) and disappears with the element.
type Observer interface {
	NodeAdded(n *Node)
	NodeRemoved(n *Node)
	EdgeAdded(e *Edge)
	EdgeRemoved(e *Edge)
	Cleared()
}
