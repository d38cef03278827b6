package testsupport

import (
	"context"
	"testing"

	"wadshelf/internal/catalog"
	"wadshelf/internal/config"
)

// MustOpenStore opens a catalog.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewGameFile inserts a game file for tests using the provided store.
func NewGameFile(t testing.TB, store *catalog.Store, g catalog.GameFile) *catalog.GameFile {
	t.Helper()

	stored, err := store.InsertGameFile(context.Background(), &g)
	if err != nil {
		t.Fatalf("store.InsertGameFile(%s): %v", g.FileName, err)
	}
	return stored
}

// NewTag inserts a tag shown as a view.
func NewTag(t testing.TB, store *catalog.Store, name string) *catalog.Tag {
	t.Helper()

	tag, err := store.InsertTag(context.Background(), &catalog.Tag{Name: name, ShowInTabs: true, ShowInList: true})
	if err != nil {
		t.Fatalf("store.InsertTag(%s): %v", name, err)
	}
	return tag
}

// MustTag attaches tag to each game file.
func MustTag(t testing.TB, store *catalog.Store, tag *catalog.Tag, games ...*catalog.GameFile) {
	t.Helper()

	for _, g := range games {
		if err := store.TagGameFile(context.Background(), tag.ID, g.ID); err != nil {
			t.Fatalf("store.TagGameFile: %v", err)
		}
	}
}
