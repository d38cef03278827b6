package fields

import (
	"strings"

	"golang.org/x/text/cases"
)

// Key names one projectable, filterable and displayable attribute of a game
// file record.
type Key string

const (
	Title       Key = "Title"
	FileName    Key = "FileName"
	Author      Key = "Author"
	Description Key = "Description"
	ReleaseDate Key = "ReleaseDate"
	Downloaded  Key = "Downloaded"
	LastPlayed  Key = "LastPlayed"
	MapCount    Key = "MapCount"
	Rating      Key = "Rating"
	PlayTime    Key = "PlayTime"
	Comments    Key = "Comments"
)

// MapsTitle is the display title of the map count column. Layout resolution
// locates that column by title when upgrading layouts saved before it existed.
const MapsTitle = "Maps"

// Field describes how a key is stored, titled and displayed.
type Field struct {
	Key        Key
	Title      string
	Kind       Kind
	Width      int
	Column     string
	Searchable bool
}

var catalog = []Field{
	{Key: Title, Title: "Title", Kind: KindText, Width: 200, Column: "title", Searchable: true},
	{Key: FileName, Title: "File", Kind: KindText, Width: 120, Column: "file_name", Searchable: true},
	{Key: Author, Title: "Author", Kind: KindText, Width: 120, Column: "author", Searchable: true},
	{Key: ReleaseDate, Title: "Release Date", Kind: KindDate, Width: 80, Column: "release_date"},
	{Key: Downloaded, Title: "Downloaded", Kind: KindDate, Width: 80, Column: "downloaded"},
	{Key: LastPlayed, Title: "Last Played", Kind: KindDate, Width: 80, Column: "last_played"},
	{Key: MapCount, Title: MapsTitle, Kind: KindInteger, Width: 50, Column: "map_count"},
	{Key: Rating, Title: "Rating", Kind: KindFloat, Width: 60, Column: "rating"},
	{Key: PlayTime, Title: "Play Time", Kind: KindDuration, Width: 70, Column: "play_time"},
	{Key: Description, Title: "Description", Kind: KindText, Width: 200, Column: "description", Searchable: true},
	{Key: Comments, Title: "Comments", Kind: KindText, Width: 150, Column: "comments"},
}

var byFoldedKey = func() map[string]int {
	index := make(map[string]int, len(catalog))
	for i, f := range catalog {
		index[Fold(string(f.Key))] = i
	}
	return index
}()

// All returns every known field in catalog order.
func All() []Field {
	out := make([]Field, len(catalog))
	copy(out, catalog)
	return out
}

// Keys returns every known key in catalog order.
func Keys() []Key {
	out := make([]Key, len(catalog))
	for i, f := range catalog {
		out[i] = f.Key
	}
	return out
}

// SearchableKeys returns the keys free-text search matches against.
func SearchableKeys() []Key {
	var out []Key
	for _, f := range catalog {
		if f.Searchable {
			out = append(out, f.Key)
		}
	}
	return out
}

// Lookup finds a field by key, ignoring case.
func Lookup(key string) (Field, bool) {
	idx, ok := byFoldedKey[Fold(strings.TrimSpace(key))]
	if !ok {
		return Field{}, false
	}
	return catalog[idx], true
}

// Known reports whether key is part of the catalog. The comparison is exact;
// use Lookup for user input.
func Known(key Key) bool {
	idx, ok := byFoldedKey[Fold(string(key))]
	return ok && catalog[idx].Key == key
}

// Get returns the field for an exact key.
func Get(key Key) (Field, bool) {
	if !Known(key) {
		return Field{}, false
	}
	return Lookup(string(key))
}

// Fold returns the Unicode case-folded form of s for case-insensitive
// comparisons.
func Fold(s string) string {
	// A Caser keeps state between calls and cannot be shared.
	return cases.Fold().String(s)
}

// EqualFold reports whether a and b match under Unicode case folding.
func EqualFold(a, b string) bool {
	return Fold(a) == Fold(b)
}
