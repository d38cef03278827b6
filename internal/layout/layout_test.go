package layout_test

import (
	"testing"

	"wadshelf/internal/fields"
	"wadshelf/internal/layout"
)

func knownFields(t *testing.T, keys ...fields.Key) []fields.Field {
	t.Helper()
	out := make([]fields.Field, 0, len(keys))
	for _, k := range keys {
		f, ok := fields.Get(k)
		if !ok {
			t.Fatalf("unknown key %s", k)
		}
		out = append(out, f)
	}
	return out
}

func cfg(view, column string, width int, sort layout.SortDirection) layout.ColumnConfig {
	return layout.ColumnConfig{View: view, Column: column, Width: width, Sort: sort}
}

func assertKeys(t *testing.T, got layout.Layout, want ...fields.Key) {
	t.Helper()
	keys := got.Keys()
	if len(keys) != len(want) {
		t.Fatalf("columns: got %v want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("columns: got %v want %v", keys, want)
		}
	}
}

func TestResolveWorkedExample(t *testing.T) {
	known := knownFields(t, fields.Title, fields.ReleaseDate, fields.Downloaded, fields.LastPlayed, fields.Rating, fields.MapCount, fields.Author)
	persisted := []layout.ColumnConfig{
		cfg("Local", "Title", 100, layout.SortNone),
		cfg("Local", "ReleaseDate", 80, layout.SortNone),
		cfg("Local", "Downloaded", 80, layout.SortNone),
		cfg("Local", "LastPlayed", 80, layout.SortNone),
		cfg("Local", "Rating", 60, layout.SortNone),
	}

	got := layout.Resolve("Local", known, persisted)
	assertKeys(t, got, fields.Title, fields.ReleaseDate, fields.Downloaded, fields.LastPlayed, fields.MapCount, fields.Rating, fields.Author)
	if !got.Migrated {
		t.Fatal("expected the maps upgrade to be reported")
	}
	if got.Columns[0].Width != 100 {
		t.Fatalf("persisted width ignored: %d", got.Columns[0].Width)
	}
	maps := got.Columns[4]
	if maps.Width != maps.Field.Width {
		t.Fatalf("maps column should use catalog width, got %d", maps.Width)
	}
}

func TestResolveSkipsMigrationWhenMapsPersisted(t *testing.T) {
	known := knownFields(t, fields.Title, fields.ReleaseDate, fields.Downloaded, fields.LastPlayed, fields.Rating, fields.MapCount, fields.Author)
	persisted := []layout.ColumnConfig{
		cfg("Local", "Title", 100, layout.SortNone),
		cfg("Local", "ReleaseDate", 80, layout.SortNone),
		cfg("Local", "Downloaded", 80, layout.SortNone),
		cfg("Local", "LastPlayed", 80, layout.SortNone),
		cfg("Local", "Rating", 60, layout.SortNone),
		cfg("Local", "MapCount", 50, layout.SortNone),
	}
	got := layout.Resolve("Local", known, persisted)
	assertKeys(t, got, fields.Title, fields.ReleaseDate, fields.Downloaded, fields.LastPlayed, fields.Rating, fields.MapCount, fields.Author)
	if got.Migrated {
		t.Fatal("migration ran although MapCount was persisted")
	}
}

func TestResolveSkipsMigrationForShortLayouts(t *testing.T) {
	known := knownFields(t, fields.Title, fields.ReleaseDate, fields.Downloaded, fields.LastPlayed, fields.MapCount)
	persisted := []layout.ColumnConfig{
		cfg("Local", "Title", 100, layout.SortNone),
		cfg("Local", "ReleaseDate", 80, layout.SortNone),
		cfg("Local", "Downloaded", 80, layout.SortNone),
		cfg("Local", "LastPlayed", 80, layout.SortNone),
		cfg("Local", "Removed", 80, layout.SortNone),
	}
	got := layout.Resolve("Local", known, persisted)
	// Only four columns resolve, so Maps is simply appended.
	assertKeys(t, got, fields.Title, fields.ReleaseDate, fields.Downloaded, fields.LastPlayed, fields.MapCount)
	if got.Migrated {
		t.Fatal("migration ran with fewer than five resolved columns")
	}
}

func TestResolveMigrationIsIdempotent(t *testing.T) {
	known := knownFields(t, fields.Title, fields.ReleaseDate, fields.Downloaded, fields.LastPlayed, fields.Rating, fields.MapCount, fields.Author)
	persisted := []layout.ColumnConfig{
		cfg("Local", "Title", 100, layout.SortAscending),
		cfg("Local", "ReleaseDate", 80, layout.SortNone),
		cfg("Local", "Downloaded", 80, layout.SortNone),
		cfg("Local", "LastPlayed", 80, layout.SortNone),
		cfg("Local", "Rating", 60, layout.SortNone),
	}
	first := layout.Resolve("Local", known, persisted)
	second := layout.Resolve("Local", known, first.AsConfig())
	assertKeys(t, second, first.Keys()...)
	if second.Migrated {
		t.Fatal("second resolution should not migrate again")
	}
	for i := range first.Columns {
		if first.Columns[i].Width != second.Columns[i].Width || first.Columns[i].Sort != second.Columns[i].Sort {
			t.Fatalf("column %d changed across resolutions: %+v vs %+v", i, first.Columns[i], second.Columns[i])
		}
	}
}

func TestResolveDropsUnknownColumns(t *testing.T) {
	known := knownFields(t, fields.Title, fields.Author)
	persisted := []layout.ColumnConfig{
		cfg("Local", "Legacy", 90, layout.SortDescending),
		cfg("Local", "author", 70, layout.SortNone),
	}
	got := layout.Resolve("Local", known, persisted)
	assertKeys(t, got, fields.Author, fields.Title)
	if len(got.Dropped) != 1 || got.Dropped[0] != "Legacy" {
		t.Fatalf("unexpected dropped %v", got.Dropped)
	}
	if _, ok := got.SortedColumn(); ok {
		t.Fatal("sort from a dropped column must not apply")
	}
	if got.Columns[0].Width != 70 {
		t.Fatalf("case-insensitive match lost width: %d", got.Columns[0].Width)
	}
}

func TestResolveIgnoresOtherViews(t *testing.T) {
	known := knownFields(t, fields.Title, fields.Author, fields.Rating)
	persisted := []layout.ColumnConfig{
		cfg("Recent", "Rating", 40, layout.SortDescending),
		cfg("Local", "Author", 70, layout.SortNone),
	}
	got := layout.Resolve("Local", known, persisted)
	assertKeys(t, got, fields.Author, fields.Title, fields.Rating)
	if _, ok := got.SortedColumn(); ok {
		t.Fatal("sort leaked from another view")
	}
	if got.Columns[2].Width != got.Columns[2].Field.Width {
		t.Fatal("width leaked from another view")
	}
}

func TestResolveWithoutPersistedConfigUsesCatalogOrder(t *testing.T) {
	known := fields.All()
	got := layout.Resolve("Local", known, nil)
	if len(got.Columns) != len(known) {
		t.Fatalf("expected %d columns, got %d", len(known), len(got.Columns))
	}
	for i, f := range known {
		if got.Columns[i].Field.Key != f.Key || got.Columns[i].Width != f.Width {
			t.Fatalf("column %d: got %+v want %s", i, got.Columns[i], f.Key)
		}
	}
	if got.Migrated {
		t.Fatal("empty config must not migrate")
	}
}

func TestResolveDuplicatesFirstWins(t *testing.T) {
	known := knownFields(t, fields.Title, fields.Author)
	persisted := []layout.ColumnConfig{
		cfg("Local", "Author", 70, layout.SortNone),
		cfg("Local", "Title", 150, layout.SortNone),
		cfg("Local", "AUTHOR", 999, layout.SortAscending),
	}
	got := layout.Resolve("Local", known, persisted)
	assertKeys(t, got, fields.Author, fields.Title)
	if got.Columns[0].Width != 70 {
		t.Fatalf("duplicate overrode first width: %d", got.Columns[0].Width)
	}
}

func TestResolveIgnoresSortOnDuplicateEntry(t *testing.T) {
	known := knownFields(t, fields.Title, fields.Author)
	persisted := []layout.ColumnConfig{
		cfg("Local", "Title", 100, layout.SortNone),
		cfg("Local", "title", 50, layout.SortAscending),
	}
	got := layout.Resolve("Local", known, persisted)
	if col, ok := got.SortedColumn(); ok {
		t.Fatalf("duplicate entry sorted %s", col.Field.Key)
	}
	if got.Columns[0].Width != 100 {
		t.Fatalf("duplicate overrode first width: %d", got.Columns[0].Width)
	}

	persisted = append(persisted, cfg("Local", "Author", 60, layout.SortDescending))
	got = layout.Resolve("Local", known, persisted)
	col, ok := got.SortedColumn()
	if !ok || col.Field.Key != fields.Author || col.Sort != layout.SortDescending {
		t.Fatalf("expected Author descending, got %+v %v", col, ok)
	}
}

func TestResolveSingleSortedColumn(t *testing.T) {
	known := knownFields(t, fields.Title, fields.Author, fields.Rating)
	persisted := []layout.ColumnConfig{
		cfg("Local", "Title", 100, layout.SortNone),
		cfg("Local", "Rating", 60, layout.SortDescending),
		cfg("Local", "Author", 60, layout.SortAscending),
	}
	got := layout.Resolve("Local", known, persisted)
	sorted := 0
	for _, col := range got.Columns {
		if col.Sort != layout.SortNone {
			sorted++
		}
	}
	if sorted != 1 {
		t.Fatalf("expected exactly one sorted column, got %d", sorted)
	}
	col, ok := got.SortedColumn()
	if !ok || col.Field.Key != fields.Rating || col.Sort != layout.SortDescending {
		t.Fatalf("unexpected sorted column %+v", col)
	}
}

func TestResolveAppendsNewFieldsInCatalogOrder(t *testing.T) {
	known := knownFields(t, fields.Title, fields.Author, fields.Rating, fields.Comments)
	persisted := []layout.ColumnConfig{
		cfg("Local", "Rating", 60, layout.SortNone),
	}
	got := layout.Resolve("Local", known, persisted)
	assertKeys(t, got, fields.Rating, fields.Title, fields.Author, fields.Comments)
}

func TestLayoutEdits(t *testing.T) {
	base := layout.Resolve("Local", knownFields(t, fields.Title, fields.Author, fields.Rating), nil)

	moved, err := base.WithMove(fields.Rating, 0)
	if err != nil {
		t.Fatalf("WithMove: %v", err)
	}
	assertKeys(t, moved, fields.Rating, fields.Title, fields.Author)
	assertKeys(t, base, fields.Title, fields.Author, fields.Rating)

	last, err := base.WithMove(fields.Title, 99)
	if err != nil {
		t.Fatalf("WithMove past end: %v", err)
	}
	assertKeys(t, last, fields.Author, fields.Rating, fields.Title)

	sorted, err := moved.WithSort(fields.Author, layout.SortAscending)
	if err != nil {
		t.Fatalf("WithSort: %v", err)
	}
	resorted, err := sorted.WithSort(fields.Title, layout.SortDescending)
	if err != nil {
		t.Fatalf("WithSort: %v", err)
	}
	col, _ := resorted.SortedColumn()
	if col.Field.Key != fields.Title || resorted.Columns[resorted.Index(fields.Author)].Sort != layout.SortNone {
		t.Fatal("WithSort must leave a single sorted column")
	}

	wide, err := resorted.WithWidth(fields.Title, 300)
	if err != nil {
		t.Fatalf("WithWidth: %v", err)
	}
	if wide.Columns[wide.Index(fields.Title)].Width != 300 {
		t.Fatal("width not applied")
	}
	if _, err := wide.WithWidth(fields.Title, 0); err == nil {
		t.Fatal("expected zero width to be rejected")
	}
	if _, err := wide.WithMove(fields.Comments, 1); err == nil {
		t.Fatal("expected missing column to be rejected")
	}
}

func TestParseSortDirection(t *testing.T) {
	for input, want := range map[string]layout.SortDirection{
		"":           layout.SortNone,
		"asc":        layout.SortAscending,
		"Descending": layout.SortDescending,
	} {
		got, err := layout.ParseSortDirection(input)
		if err != nil || got != want {
			t.Fatalf("ParseSortDirection(%q) = %v, %v", input, got, err)
		}
	}
	if _, err := layout.ParseSortDirection("sideways"); err == nil {
		t.Fatal("expected error")
	}
}
