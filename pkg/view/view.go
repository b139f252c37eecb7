// Package view presents the live nodes and edges of a graph as ordered,
// index-addressable lists with a payload-free change signal.
//
// Positions in a view are 0..Count()-1 in ascending external index order.
// Because indices are never renumbered, a position is only meaningful until
// the next structural change; the external index is the stable name.
//
// Views implement layout.Sink: the layout controller calls
// AttributesChanged once per successful run, and each registered
// [Listener] fires once in response, never once per element.
package view

import (
	"slices"

	"github.com/matzehuels/graphlive/pkg/graph"
)

// Listener is a "list changed" callback.
type Listener func()

// list holds the shared ordering cache and listener set.
type list struct {
	graph     *graph.Graph
	indices   func() []int
	order     []int
	version   uint64
	built     bool
	listeners []*listener
}

type listener struct{ fn Listener }

func (l *list) refresh() []int {
	if v := l.graph.Version(); !l.built || v != l.version {
		l.order = l.indices()
		l.version = v
		l.built = true
	}
	return l.order
}

// Count returns the number of live elements.
func (l *list) Count() int { return len(l.refresh()) }

// At returns the external index at position pos.
func (l *list) At(pos int) (int, bool) {
	order := l.refresh()
	if pos < 0 || pos >= len(order) {
		return -1, false
	}
	return order[pos], true
}

// Position returns the position of the element with external index idx.
func (l *list) Position(idx int) (int, bool) {
	pos, found := slices.BinarySearch(l.refresh(), idx)
	if !found {
		return -1, false
	}
	return pos, true
}

// Indices returns a copy of the external indices in view order.
func (l *list) Indices() []int { return slices.Clone(l.refresh()) }

// OnChanged registers fn and returns a function that removes it.
func (l *list) OnChanged(fn Listener) (cancel func()) {
	entry := &listener{fn: fn}
	l.listeners = append(l.listeners, entry)
	return func() {
		l.listeners = slices.DeleteFunc(l.listeners, func(e *listener) bool { return e == entry })
	}
}

// AttributesChanged fires every listener once.
func (l *list) AttributesChanged() {
	for _, e := range slices.Clone(l.listeners) {
		e.fn()
	}
}

// Listeners returns the number of registered listeners.
func (l *list) Listeners() int { return len(l.listeners) }
