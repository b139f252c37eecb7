package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/graphlive/pkg/attr"
	"github.com/matzehuels/graphlive/pkg/errors"
	"github.com/matzehuels/graphlive/pkg/scene"
)

func sampleScene(name string) *scene.Scene {
	return &scene.Scene{
		Name:       name,
		Algorithm:  "circular",
		AutoLayout: true,
		Nodes: []scene.Node{
			{Index: 0, Node: attr.Node{X: 1, Y: 2, Width: 10, Height: 10, Shape: attr.ShapeRectangle}},
			{Index: 1, Node: attr.Node{X: 3, Y: 4, Width: 10, Height: 10, Shape: attr.ShapeEllipse}},
		},
		Edges: []scene.Edge{{Index: 0, Source: 0, Target: 1}},
	}
}

// fixedClock makes now return successive seconds.
func fixedClock(t *testing.T) {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	orig := now
	now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	t.Cleanup(func() { now = orig })
}

// exerciseStore runs the behaviour every backend must share.
func exerciseStore(t *testing.T, s Store) {
	ctx := context.Background()

	first := sampleScene("first")
	id, err := s.Save(ctx, first)
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	require.NoError(t, err, "saved scenes get a uuid")
	assert.Equal(t, id, first.ID)

	got, err := s.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, first.Nodes, got.Nodes)
	assert.Equal(t, first.Edges, got.Edges)
	assert.Equal(t, "circular", got.Algorithm)

	second := sampleScene("second")
	second.Nodes = second.Nodes[:1]
	second.Edges = nil
	_, err = s.Save(ctx, second)
	require.NoError(t, err)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Name, "newest first")
	assert.Equal(t, 1, list[0].Nodes)
	assert.Equal(t, 0, list[0].Edges)
	assert.Equal(t, 2, list[1].Nodes)

	first.Name = "renamed"
	_, err = s.Save(ctx, first)
	require.NoError(t, err)
	got, err = s.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name, "save with an id replaces")

	require.NoError(t, s.Delete(ctx, id))
	require.NoError(t, s.Delete(ctx, id), "delete is idempotent")
	_, err = s.Load(ctx, id)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))

	_, err = s.Load(ctx, "../etc/passwd")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidArgument))

	bad := sampleScene("bad")
	bad.Edges = append(bad.Edges, scene.Edge{Index: 1, Source: 0, Target: 9})
	_, err = s.Save(ctx, bad)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))
}

func TestFileStore(t *testing.T) {
	fixedClock(t)
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	exerciseStore(t, s)
}

func TestFileStoreListSkipsForeignFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.json"), []byte("{}"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, uuid.NewString()+".json"), []byte("{"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o700))

	list, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		t.Skip("MONGODB_URI not set")
	}
	fixedClock(t)
	ctx := context.Background()

	s, err := NewMongoStore(ctx, uri, "graphlive_test_"+uuid.NewString()[:8])
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.coll.Database().Drop(ctx)
		s.Close()
	})

	exerciseStore(t, s)
}

func TestSummarize(t *testing.T) {
	sc := sampleScene("x")
	sc.ID = "abc"
	assert.Equal(t, Summary{ID: "abc", Name: "x", Nodes: 2, Edges: 1}, Summarize(sc))
}
