package views_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"wadshelf/internal/catalog"
	"wadshelf/internal/config"
	"wadshelf/internal/fields"
	"wadshelf/internal/layout"
	"wadshelf/internal/query"
	"wadshelf/internal/testsupport"
	"wadshelf/internal/views"
)

type fixture struct {
	store   *catalog.Store
	service *views.Service
	games   map[string]*catalog.GameFile
}

func newFixture(t *testing.T, opts ...testsupport.ConfigOption) fixture {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	store := testsupport.MustOpenStore(t, cfg)
	played := func(day int) time.Time { return time.Date(2026, 5, day, 21, 0, 0, 0, time.UTC) }

	games := map[string]*catalog.GameFile{}
	for _, g := range []catalog.GameFile{
		{FileName: "DOOM2.WAD", Title: "Doom II", Author: "id Software", IsBase: true, LastPlayed: played(9)},
		{FileName: "DOOM.WAD", Title: "The Ultimate Doom", Author: "id Software", IsBase: true},
		{FileName: "scythe.wad", Title: "Scythe", Author: "Erik Alm", Rating: 4.5, LastPlayed: played(2)},
		{FileName: "av.wad", Title: "Alien Vendetta", Author: "Anthony Soto", Rating: 5, LastPlayed: played(7)},
		{FileName: "eviternity.wad", Title: "Eviternity", Author: "Dragonfly", Description: "A megawad by Erik's friends", Rating: 4},
		{FileName: "sod.wad", Title: "Speed of Doom", Author: "Darkwave0000 & Joshy", LastPlayed: played(5)},
	} {
		stored := testsupport.NewGameFile(t, store, g)
		games[stored.FileName] = stored
	}
	return fixture{store: store, service: views.NewService(store, cfg.Views, nil), games: games}
}

func (f fixture) titles(t *testing.T, page views.Page) []string {
	t.Helper()
	out := make([]string, 0, page.Result.Len())
	for _, r := range page.Result.Records {
		out = append(out, r.Text(fields.Title, ""))
	}
	return out
}

func assertTitles(t *testing.T, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("titles: got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("titles: got %v want %v", got, want)
		}
	}
}

func TestRefreshLocalExcludesBase(t *testing.T) {
	f := newFixture(t)
	page, err := f.service.Refresh(context.Background(), views.Local)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	assertTitles(t, f.titles(t, page), "Alien Vendetta", "Eviternity", "Scythe", "Speed of Doom")
	if page.RequestID == "" {
		t.Fatal("expected a request id")
	}
	if len(page.Layout.Columns) != len(fields.All()) {
		t.Fatalf("expected full default layout, got %v", page.Layout.Keys())
	}
}

func TestRefreshIncludesBaseWhenConfigured(t *testing.T) {
	f := newFixture(t, testsupport.WithIncludeBase())
	page, err := f.service.Refresh(context.Background(), views.Local)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if page.Result.Len() != 6 {
		t.Fatalf("expected base records with exclusion off, got %v", f.titles(t, page))
	}
}

func TestRefreshSearchUnionsFields(t *testing.T) {
	f := newFixture(t)
	// "erik" matches Scythe by author and Eviternity by description. Without
	// a sorted column the union keeps search field order.
	page, err := f.service.Refresh(context.Background(), views.Local, "erik")
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	assertTitles(t, f.titles(t, page), "Scythe", "Eviternity")

	page, err = f.service.Refresh(context.Background(), views.Local, "doom")
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	// Base records match "doom" but stay hidden.
	assertTitles(t, f.titles(t, page), "Speed of Doom")
}

func TestRefreshNoResults(t *testing.T) {
	f := newFixture(t)
	page, err := f.service.Refresh(context.Background(), views.Local, "heretic")
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if !page.Result.NoResults || page.Result.Len() != 0 {
		t.Fatalf("expected no results, got %+v", page.Result)
	}
}

func TestRefreshIWadsShowsOnlyBase(t *testing.T) {
	f := newFixture(t)
	page, err := f.service.Refresh(context.Background(), "IWADS")
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	assertTitles(t, f.titles(t, page), "Doom II", "The Ultimate Doom")
}

func TestRefreshRecentOrdersByLastPlayed(t *testing.T) {
	f := newFixture(t, testsupport.WithRecentLimit(2))
	page, err := f.service.Refresh(context.Background(), views.Recent)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	assertTitles(t, f.titles(t, page), "Alien Vendetta", "Speed of Doom")
}

func TestRefreshTagAndUntaggedViews(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tag := testsupport.NewTag(t, f.store, "Megawads")
	testsupport.MustTag(t, f.store, tag, f.games["scythe.wad"], f.games["av.wad"], f.games["DOOM2.WAD"])
	hidden, err := f.store.InsertTag(ctx, &catalog.Tag{Name: "Hidden"})
	if err != nil {
		t.Fatalf("InsertTag: %v", err)
	}

	list, err := f.service.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 5 || list[4].Name != "Megawads" || list[4].Kind != views.KindTag {
		t.Fatalf("unexpected views %+v", list)
	}
	if _, err := f.service.Lookup(ctx, hidden.Name); !errors.Is(err, views.ErrUnknownView) {
		t.Fatalf("expected hidden tag to have no view, got %v", err)
	}

	page, err := f.service.Refresh(ctx, "megawads")
	if err != nil {
		t.Fatalf("Refresh tag view: %v", err)
	}
	assertTitles(t, f.titles(t, page), "Alien Vendetta", "Scythe")

	page, err = f.service.Refresh(ctx, views.Untagged)
	if err != nil {
		t.Fatalf("Refresh untagged: %v", err)
	}
	assertTitles(t, f.titles(t, page), "Eviternity", "Speed of Doom")
}

func TestRefreshSortsByLayout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lay, err := f.service.Layout(ctx, views.Local)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	lay, err = lay.WithSort(fields.Rating, layout.SortDescending)
	if err != nil {
		t.Fatalf("WithSort: %v", err)
	}
	if err := f.service.SaveLayout(ctx, lay); err != nil {
		t.Fatalf("SaveLayout: %v", err)
	}

	page, err := f.service.Refresh(ctx, views.Local)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	assertTitles(t, f.titles(t, page), "Alien Vendetta", "Scythe", "Eviternity", "Speed of Doom")
	if col, ok := page.Layout.SortedColumn(); !ok || col.Field.Key != fields.Rating {
		t.Fatalf("sort not persisted: %+v", page.Layout)
	}
}

func TestLayoutMigrationIsPersisted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	legacy := []layout.ColumnConfig{
		{View: views.Local, Column: "Title", Width: 100},
		{View: views.Local, Column: "ReleaseDate", Width: 80},
		{View: views.Local, Column: "Downloaded", Width: 80},
		{View: views.Local, Column: "LastPlayed", Width: 80},
		{View: views.Local, Column: "Rating", Width: 60},
	}
	if err := f.store.SaveColumnConfig(ctx, views.Local, legacy); err != nil {
		t.Fatalf("SaveColumnConfig: %v", err)
	}

	lay, err := f.service.Layout(ctx, views.Local)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if !lay.Migrated || lay.Columns[4].Field.Key != fields.MapCount {
		t.Fatalf("expected maps at index 4, got %v", lay.Keys())
	}

	stored, err := f.store.ColumnConfig(ctx, views.Local)
	if err != nil {
		t.Fatalf("ColumnConfig: %v", err)
	}
	if len(stored) != len(fields.All()) || stored[4].Column != string(fields.MapCount) {
		t.Fatalf("migrated layout not saved: %+v", stored)
	}

	again, err := f.service.Layout(ctx, views.Local)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if again.Migrated {
		t.Fatal("migration ran twice")
	}
}

func TestCloneAndResetLayout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lay, _ := f.service.Layout(ctx, views.Local)
	lay, err := lay.WithMove(fields.Author, 0)
	if err != nil {
		t.Fatalf("WithMove: %v", err)
	}
	if err := f.service.SaveLayout(ctx, lay); err != nil {
		t.Fatalf("SaveLayout: %v", err)
	}

	cloned, err := f.service.Clone(ctx, views.Local, views.Recent)
	if err != nil {
		t.Fatalf("Clone: %v", err)
	}
	if cloned.View != views.Recent || cloned.Columns[0].Field.Key != fields.Author {
		t.Fatalf("unexpected clone %+v", cloned.Keys())
	}
	recent, _ := f.service.Layout(ctx, views.Recent)
	if recent.Columns[0].Field.Key != fields.Author {
		t.Fatalf("clone not persisted: %v", recent.Keys())
	}

	if err := f.service.ResetLayout(ctx, views.Local); err != nil {
		t.Fatalf("ResetLayout: %v", err)
	}
	reset, _ := f.service.Layout(ctx, views.Local)
	if reset.Columns[0].Field.Key != fields.Title {
		t.Fatalf("reset kept custom order: %v", reset.Keys())
	}

	if _, err := f.service.Clone(ctx, views.Local, "nowhere"); !errors.Is(err, views.ErrUnknownView) {
		t.Fatalf("expected unknown view, got %v", err)
	}
}

func TestQueryRejectsInvalidPredicates(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.Query(context.Background(), views.Request{
		View:       views.Local,
		Predicates: []query.Predicate{{Field: fields.MapCount, Op: query.OpContains, Value: "3"}},
	})
	if !errors.Is(err, query.ErrInvalidSpecification) {
		t.Fatalf("expected invalid specification, got %v", err)
	}

	_, err = f.service.Query(context.Background(), views.Request{
		View:         views.Local,
		Terms:        []string{"doom"},
		SearchFields: []fields.Key{fields.Rating},
	})
	if !errors.Is(err, query.ErrInvalidSpecification) {
		t.Fatalf("expected non-text search field to be invalid, got %v", err)
	}
	if kind := catalog.Classify(err); kind != "validation" {
		t.Fatalf("non-text search field classified as %q", kind)
	}

	_, err = f.service.Query(context.Background(), views.Request{
		View:         views.Local,
		Terms:        []string{"doom"},
		SearchFields: []fields.Key{"Publisher"},
	})
	if kind := catalog.Classify(err); kind != "validation" {
		t.Fatalf("unknown search field classified as %q: %v", kind, err)
	}
}

// baseFailingStore serves everything from the real catalog except base
// records, which fail with err.
type baseFailingStore struct {
	*catalog.Store
	err error
}

func (s baseFailingStore) FetchBaseRecords(ctx context.Context) ([]query.Record, error) {
	return nil, s.err
}

func TestRefreshIWadsClassifiesBaseFetchFailures(t *testing.T) {
	f := newFixture(t)
	cfg := config.Default()

	cause := errors.New("database is locked")
	svc := views.NewService(baseFailingStore{Store: f.store, err: cause}, cfg.Views, nil)
	_, err := svc.Refresh(context.Background(), views.IWads)
	if !errors.Is(err, query.ErrStoreUnavailable) || !errors.Is(err, cause) {
		t.Fatalf("expected store unavailable wrapping the cause, got %v", err)
	}
	if kind := catalog.Classify(err); kind != "transient" {
		t.Fatalf("base fetch failure classified as %q", kind)
	}

	svc = views.NewService(baseFailingStore{Store: f.store, err: context.Canceled}, cfg.Views, nil)
	_, err = svc.Refresh(context.Background(), views.IWads)
	if !errors.Is(err, query.ErrCancelled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	if kind := catalog.Classify(err); kind != "cancelled" {
		t.Fatalf("cancelled base fetch classified as %q", kind)
	}
}

func TestQueryExplicitPredicates(t *testing.T) {
	f := newFixture(t)
	page, err := f.service.Query(context.Background(), views.Request{
		View:       views.Local,
		Predicates: []query.Predicate{{Field: fields.Rating, Op: query.OpGreaterEqual, Value: "4.5"}},
	})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	assertTitles(t, f.titles(t, page), "Alien Vendetta", "Scythe")
}

func TestDefaultViewFromConfig(t *testing.T) {
	f := newFixture(t)
	cfg := config.Default()
	cfg.Views.DefaultView = views.IWads
	svc := views.NewService(f.store, cfg.Views, nil)
	v, err := svc.Lookup(context.Background(), "")
	if err != nil || v.Kind != views.KindIWads {
		t.Fatalf("Lookup default: %+v, %v", v, err)
	}
}
