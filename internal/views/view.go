package views

import (
	"errors"
	"fmt"
	"strings"

	"wadshelf/internal/catalog"
	"wadshelf/internal/query"
)

// Kind distinguishes built-in views from tag views.
type Kind int

const (
	KindLocal Kind = iota
	KindRecent
	KindUntagged
	KindIWads
	KindTag
)

func (k Kind) String() string {
	switch k {
	case KindLocal:
		return "local"
	case KindRecent:
		return "recent"
	case KindUntagged:
		return "untagged"
	case KindIWads:
		return "iwads"
	case KindTag:
		return "tag"
	default:
		return "unknown"
	}
}

// Built-in view names.
const (
	Local    = "local"
	Recent   = "recent"
	Untagged = "untagged"
	IWads    = "iwads"
)

// ErrUnknownView reports a view name that is neither built in nor a tab tag.
var ErrUnknownView = errors.New("unknown view")

// View is one tab of the launcher.
type View struct {
	Name  string
	Title string
	Kind  Kind
	Tag   *query.Tag
}

func builtins() []View {
	return []View{
		{Name: Local, Title: "Local", Kind: KindLocal},
		{Name: Recent, Title: "Recent", Kind: KindRecent},
		{Name: Untagged, Title: "Untagged", Kind: KindUntagged, Tag: catalog.UntaggedScope},
		{Name: IWads, Title: "IWADs", Kind: KindIWads},
	}
}

func tagView(t *catalog.Tag) View {
	return View{Name: t.Name, Title: t.Name, Kind: KindTag, Tag: t.Ref()}
}

// excludesBase reports whether base records are hidden in the view when
// exclusion is configured.
func (v View) excludesBase() bool {
	return v.Kind != KindIWads
}

func unknownView(name string) error {
	return fmt.Errorf("%w %q", ErrUnknownView, strings.TrimSpace(name))
}
