package views

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"wadshelf/internal/catalog"
	"wadshelf/internal/config"
	"wadshelf/internal/fields"
	"wadshelf/internal/layout"
	"wadshelf/internal/logging"
	"wadshelf/internal/query"
)

// Store is the slice of the catalog the views need.
type Store interface {
	query.RecordSource
	catalog.Columns
	ListTags(ctx context.Context) ([]*catalog.Tag, error)
}

// Request describes one refresh of a view.
type Request struct {
	View string
	// Terms are free-text search terms matched with contains against the
	// search fields. A record matching any term in any field is kept.
	Terms []string
	// Predicates are explicit filters unioned with the term predicates.
	Predicates []query.Predicate
	// SearchFields overrides the configured search fields for this request.
	SearchFields []fields.Key
}

// Page is what a view renders.
type Page struct {
	View      View
	Layout    layout.Layout
	Result    query.Result
	RequestID string
	// Dropped lists unknown keys ignored while building the query.
	Dropped []string
}

// Service refreshes views and manages their layouts.
type Service struct {
	store  Store
	engine *query.Engine
	cfg    config.Views
	logger *slog.Logger
}

// NewService wires the query engine over store.
func NewService(store Store, cfg config.Views, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		engine: query.NewEngine(store, logger),
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "views"),
	}
}

// List returns the built-in views followed by tag views in tag name order.
func (s *Service) List(ctx context.Context) ([]View, error) {
	out := builtins()
	tags, err := s.store.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tag views: %w", err)
	}
	for _, t := range tags {
		if t.ShowInTabs && !isBuiltin(t.Name) {
			out = append(out, tagView(t))
		}
	}
	return out, nil
}

// Lookup finds a view by name ignoring case. Built-in names shadow tags.
func (s *Service) Lookup(ctx context.Context, name string) (View, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = s.cfg.DefaultView
	}
	all, err := s.List(ctx)
	if err != nil {
		return View{}, err
	}
	for _, v := range all {
		if fields.EqualFold(v.Name, name) {
			return v, nil
		}
	}
	return View{}, unknownView(name)
}

func isBuiltin(name string) bool {
	for _, v := range builtins() {
		if fields.EqualFold(v.Name, name) {
			return true
		}
	}
	return false
}

// Refresh re-runs a view with optional search terms.
func (s *Service) Refresh(ctx context.Context, view string, terms ...string) (Page, error) {
	return s.Query(ctx, Request{View: view, Terms: terms})
}

// Query runs one request against its view.
func (s *Service) Query(ctx context.Context, req Request) (Page, error) {
	started := time.Now()
	v, err := s.Lookup(ctx, req.View)
	if err != nil {
		return Page{}, err
	}
	requestID := uuid.NewString()
	ctx = logging.WithRequestID(logging.WithView(ctx, v.Name), requestID)

	lay, err := s.Layout(ctx, v.Name)
	if err != nil {
		return Page{}, err
	}

	projection := lay.Keys()
	if v.Kind == KindRecent && !slices.Contains(projection, fields.LastPlayed) {
		projection = append(projection, fields.LastPlayed)
	}
	predicates, err := s.predicates(req)
	if err != nil {
		return Page{}, err
	}
	spec, err := query.Build(projection, predicates, v.Tag)
	if err != nil {
		return Page{}, err
	}
	if len(spec.Dropped) > 0 {
		s.logger.DebugContext(ctx, "ignored unknown query keys", logging.Strings("keys", spec.Dropped))
	}
	spec = spec.
		WithExcludeBase(s.cfg.ExcludeBase && v.excludesBase()).
		WithOnlyBase(v.Kind == KindIWads)

	result, err := s.engine.Execute(ctx, spec)
	if err != nil {
		return Page{}, err
	}

	switch v.Kind {
	case KindRecent:
		result.Records = recentlyPlayed(result.Records, s.cfg.RecentLimit)
	default:
		sortRecords(result.Records, lay)
	}
	result.NoResults = len(result.Records) == 0

	s.logger.InfoContext(ctx, "view refreshed",
		logging.Int("results", result.Len()),
		logging.Int("predicates", len(spec.Predicates)),
		logging.Duration("elapsed", time.Since(started)),
	)
	return Page{View: v, Layout: lay, Result: result, RequestID: requestID, Dropped: spec.Dropped}, nil
}

// predicates expands search terms over the search fields and appends the
// explicit predicates.
func (s *Service) predicates(req Request) ([]query.Predicate, error) {
	searchFields := req.SearchFields
	if len(searchFields) == 0 {
		searchFields = s.searchFields()
	}
	var out []query.Predicate
	for _, term := range req.Terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		for _, key := range searchFields {
			f, ok := fields.Get(key)
			if !ok {
				return nil, invalidSearch("unknown search field %q", key)
			}
			if f.Kind != fields.KindText {
				return nil, invalidSearch("search field %s is not text", key)
			}
			out = append(out, query.Predicate{Field: key, Op: query.OpContains, Value: term})
		}
	}
	return append(out, req.Predicates...), nil
}

func (s *Service) searchFields() []fields.Key {
	if len(s.cfg.SearchFields) == 0 {
		return fields.SearchableKeys()
	}
	out := make([]fields.Key, 0, len(s.cfg.SearchFields))
	for _, name := range s.cfg.SearchFields {
		if f, ok := fields.Lookup(name); ok {
			out = append(out, f.Key)
		}
	}
	return out
}

// Layout resolves the column layout of a view from persisted configuration.
// A layout upgraded by the Maps migration is saved back so the upgrade runs
// once.
func (s *Service) Layout(ctx context.Context, view string) (layout.Layout, error) {
	persisted, err := s.store.ColumnConfig(ctx, view)
	if err != nil {
		return layout.Layout{}, fmt.Errorf("load column config: %w", err)
	}
	lay := layout.Resolve(view, fields.All(), persisted)
	if len(lay.Dropped) > 0 {
		s.logger.DebugContext(ctx, "dropped unknown columns", logging.Strings("columns", lay.Dropped))
	}
	if lay.Migrated {
		s.logger.InfoContext(ctx, "moved maps column into legacy layout")
		if err := s.SaveLayout(ctx, lay); err != nil {
			s.logger.WarnContext(ctx, "failed to persist migrated layout", logging.Error(err))
		}
	}
	return lay, nil
}

// SaveLayout persists a layout for its view.
func (s *Service) SaveLayout(ctx context.Context, lay layout.Layout) error {
	if strings.TrimSpace(lay.View) == "" {
		return fmt.Errorf("layout has no view")
	}
	return s.store.SaveColumnConfig(ctx, lay.View, lay.AsConfig())
}

// ResetLayout drops the persisted layout of a view.
func (s *Service) ResetLayout(ctx context.Context, view string) error {
	v, err := s.Lookup(ctx, view)
	if err != nil {
		return err
	}
	return s.store.ResetColumnConfig(ctx, v.Name)
}

// Clone copies the layout of src onto dst.
func (s *Service) Clone(ctx context.Context, src, dst string) (layout.Layout, error) {
	from, err := s.Lookup(ctx, src)
	if err != nil {
		return layout.Layout{}, err
	}
	to, err := s.Lookup(ctx, dst)
	if err != nil {
		return layout.Layout{}, err
	}
	lay, err := s.Layout(ctx, from.Name)
	if err != nil {
		return layout.Layout{}, err
	}
	lay.View = to.Name
	lay.Dropped, lay.Migrated = nil, false
	if err := s.SaveLayout(ctx, lay); err != nil {
		return layout.Layout{}, err
	}
	return lay, nil
}

func invalidSearch(format string, args ...any) error {
	return &query.Error{Kind: query.ErrInvalidSpecification, Op: "search", Err: fmt.Errorf(format, args...)}
}
