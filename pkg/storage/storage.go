// Package storage persists scenes.
//
// Two backends implement [Store]:
//   - [FileStore]: one JSON file per scene in a local directory, for the CLI
//   - [MongoStore]: one document per scene in a MongoDB collection, for the
//     server
//
// Scene IDs are UUIDs. Save assigns one to a scene that has none and stamps
// UpdatedAt; Load and Delete reject IDs that are not UUIDs with
// INVALID_ARGUMENT, so an ID can never name a path outside the store.
package storage

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/graphlive/pkg/errors"
	"github.com/matzehuels/graphlive/pkg/scene"
)

// Store is the interface for scene storage backends.
type Store interface {
	// Save inserts or replaces sc and returns its ID.
	Save(ctx context.Context, sc *scene.Scene) (string, error)

	// Load returns the scene with the given ID, or a NOT_FOUND error.
	Load(ctx context.Context, id string) (*scene.Scene, error)

	// List returns summaries of all stored scenes, most recently updated
	// first.
	List(ctx context.Context) ([]Summary, error)

	// Delete removes a scene. Deleting a missing scene is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close() error
}

// Summary describes a stored scene without its elements.
type Summary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	Nodes     int       `json:"nodes"`
	Edges     int       `json:"edges"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Summarize builds the summary of sc.
func Summarize(sc *scene.Scene) Summary {
	return Summary{
		ID:        sc.ID,
		Name:      sc.Name,
		Nodes:     len(sc.Nodes),
		Edges:     len(sc.Edges),
		UpdatedAt: sc.UpdatedAt,
	}
}

// now is replaced in tests.
var now = func() time.Time { return time.Now().UTC() }

// prepare validates sc, then fills in its ID and timestamp.
func prepare(sc *scene.Scene) error {
	if sc == nil {
		return errors.New(errors.ErrCodeInvalidArgument, "nil scene")
	}
	if err := sc.Validate(); err != nil {
		return err
	}
	if sc.ID == "" {
		sc.ID = uuid.NewString()
	} else if err := checkID(sc.ID); err != nil {
		return err
	}
	sc.UpdatedAt = now()
	return nil
}

func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidArgument, err, "scene id %q", id)
	}
	return nil
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeNotFound, "no scene with id %s", id)
}

func sortSummaries(out []Summary) {
	slices.SortFunc(out, func(a, b Summary) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}
