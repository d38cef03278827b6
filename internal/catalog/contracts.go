package catalog

import (
	"context"

	"wadshelf/internal/fields"
	"wadshelf/internal/layout"
	"wadshelf/internal/query"
)

// GameFiles persists the library itself.
type GameFiles interface {
	InsertGameFile(ctx context.Context, g *GameFile) (*GameFile, error)
	GetGameFile(ctx context.Context, id int64) (*GameFile, error)
	GetGameFileByName(ctx context.Context, fileName string) (*GameFile, error)
	UpdateGameFile(ctx context.Context, g *GameFile) error
	DeleteGameFile(ctx context.Context, id int64) error
	ListGameFiles(ctx context.Context) ([]*GameFile, error)
	UpdateGameFilesWhere(ctx context.Context, whereField fields.Key, whereValue any, setField fields.Key, setValue any) (int64, error)
}

// Files persists attachments of game files.
type Files interface {
	InsertFile(ctx context.Context, f *FileData) (*FileData, error)
	DeleteFile(ctx context.Context, id int64) error
	FilesForGame(ctx context.Context, gameFileID int64) ([]*FileData, error)
	FilesByType(ctx context.Context, fileType FileType) ([]*FileData, error)
	DetachSourcePort(ctx context.Context, sourcePortID int64) (int64, error)
}

// SourcePorts persists engines and utilities.
type SourcePorts interface {
	InsertSourcePort(ctx context.Context, p *SourcePort) (*SourcePort, error)
	GetSourcePort(ctx context.Context, id int64) (*SourcePort, error)
	UpdateSourcePort(ctx context.Context, p *SourcePort) error
	DeleteSourcePort(ctx context.Context, id int64) error
	ListSourcePorts(ctx context.Context, utilities bool) ([]*SourcePort, error)
}

// Tags persists tags and their game file mappings.
type Tags interface {
	InsertTag(ctx context.Context, t *Tag) (*Tag, error)
	GetTagByName(ctx context.Context, name string) (*Tag, error)
	DeleteTag(ctx context.Context, id int64) error
	ListTags(ctx context.Context) ([]*Tag, error)
	TagGameFile(ctx context.Context, tagID, gameFileID int64) error
	UntagGameFile(ctx context.Context, tagID, gameFileID int64) error
	TagsForGameFile(ctx context.Context, gameFileID int64) ([]*Tag, error)
	GameFilesByTag(ctx context.Context, tagID int64) ([]*GameFile, error)
}

// Columns persists per-view column layouts.
type Columns interface {
	ColumnConfig(ctx context.Context, view string) ([]layout.ColumnConfig, error)
	AllColumnConfig(ctx context.Context) ([]layout.ColumnConfig, error)
	SaveColumnConfig(ctx context.Context, view string, entries []layout.ColumnConfig) error
	ResetColumnConfig(ctx context.Context, view string) error
}

var (
	_ GameFiles          = (*Store)(nil)
	_ Files              = (*Store)(nil)
	_ SourcePorts        = (*Store)(nil)
	_ Tags               = (*Store)(nil)
	_ Columns            = (*Store)(nil)
	_ query.RecordSource = (*Store)(nil)
)
