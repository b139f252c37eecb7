package attr

import "github.com/matzehuels/graphlive/pkg/errors"

// Setter is either a replacement record or an update function from the
// current record to a new one. Build one with [Record] or [Update]; the
// zero Setter is invalid.
type Setter struct {
	record *Node
	update func(Node) Node
}

// Record returns a Setter that replaces the current record with n.
func Record(n Node) Setter { return Setter{record: &n} }

// Update returns a Setter that derives the new record from the current one.
// fn must be pure: it may be called with a copy and its result is stored
// through the bulk setter path.
func Update(fn func(Node) Node) Setter { return Setter{update: fn} }

// IsZero reports whether s carries neither variant.
func (s Setter) IsZero() bool { return s.record == nil && s.update == nil }

// Resolve computes the record to store given the current one.
// Returns an INVALID_ARGUMENT error for the zero Setter.
func (s Setter) Resolve(cur Node) (Node, error) {
	switch {
	case s.record != nil:
		return *s.record, nil
	case s.update != nil:
		return s.update(cur), nil
	default:
		return Node{}, errors.New(errors.ErrCodeInvalidArgument, "setter is neither a record nor an update function")
	}
}
