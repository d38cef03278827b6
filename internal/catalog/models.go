package catalog

import (
	"fmt"
	"time"

	"wadshelf/internal/fields"
	"wadshelf/internal/query"
)

// GameFile is one playable WAD/PK3 in the library.
type GameFile struct {
	ID           int64
	FileName     string
	Title        string
	Author       string
	Description  string
	ReleaseDate  time.Time
	Downloaded   time.Time
	LastPlayed   time.Time
	MapCount     int64
	Rating       float64
	PlayTime     time.Duration
	Comments     string
	Settings     string
	IsBase       bool
	SourcePortID int64
}

// Record projects the game file to every catalog field.
func (g *GameFile) Record() query.Record {
	values := make(map[fields.Key]any, len(fields.Keys()))
	for _, key := range fields.Keys() {
		values[key] = g.value(key)
	}
	return query.Record{ID: g.ID, Values: values}
}

func (g *GameFile) value(key fields.Key) any {
	switch key {
	case fields.Title:
		return g.Title
	case fields.FileName:
		return g.FileName
	case fields.Author:
		return g.Author
	case fields.Description:
		return g.Description
	case fields.ReleaseDate:
		return timeOrNil(g.ReleaseDate)
	case fields.Downloaded:
		return timeOrNil(g.Downloaded)
	case fields.LastPlayed:
		return timeOrNil(g.LastPlayed)
	case fields.MapCount:
		return g.MapCount
	case fields.Rating:
		return g.Rating
	case fields.PlayTime:
		return g.PlayTime
	case fields.Comments:
		return g.Comments
	}
	return nil
}

// Set assigns a catalog field from a caller-supplied value, coercing it with
// the field's kind.
func (g *GameFile) Set(key fields.Key, value any) error {
	f, ok := fields.Get(key)
	if !ok {
		return fmt.Errorf("unknown field %q", key)
	}
	coerced, err := f.Kind.Coerce(value)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	switch key {
	case fields.Title:
		g.Title = stringOf(coerced)
	case fields.FileName:
		g.FileName = stringOf(coerced)
	case fields.Author:
		g.Author = stringOf(coerced)
	case fields.Description:
		g.Description = stringOf(coerced)
	case fields.Comments:
		g.Comments = stringOf(coerced)
	case fields.ReleaseDate:
		g.ReleaseDate = timeOf(coerced)
	case fields.Downloaded:
		g.Downloaded = timeOf(coerced)
	case fields.LastPlayed:
		g.LastPlayed = timeOf(coerced)
	case fields.MapCount:
		g.MapCount, _ = coerced.(int64)
	case fields.Rating:
		g.Rating, _ = coerced.(float64)
	case fields.PlayTime:
		g.PlayTime, _ = coerced.(time.Duration)
	}
	return nil
}

func timeOrNil(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

func stringOf(v any) string {
	s, _ := v.(string)
	return s
}

func timeOf(v any) time.Time {
	t, _ := v.(time.Time)
	return t
}

// FileType classifies an attachment of a game file.
type FileType string

const (
	FileTypeDemo       FileType = "demo"
	FileTypeSaveGame   FileType = "savegame"
	FileTypeScreenshot FileType = "screenshot"
	FileTypeThumbnail  FileType = "thumbnail"
)

// ParseFileType validates a file type name.
func ParseFileType(s string) (FileType, error) {
	switch FileType(s) {
	case FileTypeDemo, FileTypeSaveGame, FileTypeScreenshot, FileTypeThumbnail:
		return FileType(s), nil
	}
	return "", fmt.Errorf("unknown file type %q", s)
}

// FileData is a demo, save game or screenshot attached to a game file.
type FileData struct {
	ID           int64
	GameFileID   int64
	SourcePortID int64
	Type         FileType
	Path         string
	Description  string
	CreatedAt    time.Time
}

// SourcePort is an engine (or utility) that launches game files.
type SourcePort struct {
	ID                  int64
	Name                string
	Executable          string
	Directory           string
	SupportedExtensions []string
	Settings            string
	IsUtility           bool
}

// Tag is a user label that can also surface as a view.
type Tag struct {
	ID         int64
	Name       string
	Color      string
	ShowInTabs bool
	ShowInList bool
}

// Ref returns the query scope for the tag.
func (t Tag) Ref() *query.Tag {
	return &query.Tag{ID: t.ID, Name: t.Name}
}

// UntaggedScope scopes a fetch to game files that carry no tag at all.
var UntaggedScope = &query.Tag{ID: -1, Name: "untagged"}

// DatabaseHealth captures diagnostic information about the catalog database.
type DatabaseHealth struct {
	DBPath           string
	DatabaseExists   bool
	DatabaseReadable bool
	SchemaVersion    int
	TablesPresent    []string
	MissingTables    []string
	IntegrityCheck   bool
	GameFiles        int
	Tags             int
	SourcePorts      int
	Error            string
}
