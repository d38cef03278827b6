package query

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"wadshelf/internal/fields"
	"wadshelf/internal/logging"
)

// MaxConcurrentFetches bounds how many predicate fetches run at once.
const MaxConcurrentFetches = 4

// RecordSource is the read side of the catalog store the engine needs.
type RecordSource interface {
	// FetchRecords returns records projected to fieldKeys, optionally
	// filtered by one predicate and scoped to a tag.
	FetchRecords(ctx context.Context, fieldKeys []fields.Key, predicate *Predicate, tag *Tag) ([]Record, error)
	// FetchBaseRecords returns the foundational (IWAD) records.
	FetchBaseRecords(ctx context.Context) ([]Record, error)
}

// Result is the outcome of Execute. NoResults is set when the query ran and
// matched nothing, so callers can tell an empty result from one that has not
// been fetched.
type Result struct {
	Records   []Record
	NoResults bool
}

// Len returns the number of records.
func (r Result) Len() int {
	return len(r.Records)
}

// Replace merges updated into the record with the same ID, keeping the
// projection of the displayed record. It reports whether a record matched.
func (r *Result) Replace(updated Record) bool {
	for i := range r.Records {
		if r.Records[i].ID == updated.ID {
			r.Records[i] = MergeFields(r.Records[i], updated)
			return true
		}
	}
	return false
}

// Engine executes specifications against a RecordSource.
type Engine struct {
	source RecordSource
	logger *slog.Logger
}

// NewEngine wraps source. A nil logger discards output.
func NewEngine(source RecordSource, logger *slog.Logger) *Engine {
	return &Engine{
		source: source,
		logger: logging.NewComponentLogger(logger, "query"),
	}
}

// Execute runs spec. With no predicates it fetches the whole (tag-scoped)
// record set; otherwise each predicate is fetched independently and the
// subsets are unioned by ID in predicate order. Base records are subtracted
// when spec.ExcludeBase is set, and the result is narrowed to them when
// spec.OnlyBase is set.
func (e *Engine) Execute(ctx context.Context, spec Specification) (Result, error) {
	const op = "execute query"
	if ctx == nil {
		ctx = context.Background()
	}
	if len(spec.Fields) == 0 {
		return Result{}, invalidf(op, "no fields to project")
	}
	if spec.ExcludeBase && spec.OnlyBase {
		return Result{}, invalidf(op, "cannot both exclude and keep only base records")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, classifyFetchError(ctx, op, err)
	}

	var (
		records []Record
		err     error
	)
	if !spec.Filtered() {
		records, err = e.source.FetchRecords(ctx, spec.Fields, nil, spec.TagScope)
		if err != nil {
			return Result{}, classifyFetchError(ctx, op, err)
		}
	} else {
		records, err = e.fetchUnion(ctx, spec)
		if err != nil {
			return Result{}, classifyFetchError(ctx, op, err)
		}
	}

	excluded := 0
	if spec.ExcludeBase || spec.OnlyBase {
		base, err := e.source.FetchBaseRecords(ctx)
		if err != nil {
			return Result{}, classifyFetchError(ctx, op, err)
		}
		before := len(records)
		if spec.OnlyBase {
			records = intersect(records, base)
		} else {
			records = subtract(records, base)
		}
		excluded = before - len(records)
	}

	result := Result{Records: records, NoResults: len(records) == 0}
	e.logger.DebugContext(ctx, "catalog query executed",
		logging.Int("fields", len(spec.Fields)),
		logging.Int("predicates", len(spec.Predicates)),
		logging.Bool("tag_scoped", spec.TagScope != nil),
		logging.Int("base_filtered", excluded),
		logging.Int("results", len(records)),
	)
	return result, nil
}

func (e *Engine) fetchUnion(ctx context.Context, spec Specification) ([]Record, error) {
	subsets := make([][]Record, len(spec.Predicates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(MaxConcurrentFetches)
	for i := range spec.Predicates {
		predicate := spec.Predicates[i]
		g.Go(func() error {
			recs, err := e.source.FetchRecords(gctx, spec.Fields, &predicate, spec.TagScope)
			if err != nil {
				return err
			}
			subsets[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return union(subsets...), nil
}

// union concatenates subsets, keeping the first copy of each ID.
func union(subsets ...[]Record) []Record {
	seen := make(map[int64]struct{})
	var out []Record
	for _, subset := range subsets {
		for _, rec := range subset {
			if _, ok := seen[rec.ID]; ok {
				continue
			}
			seen[rec.ID] = struct{}{}
			out = append(out, rec)
		}
	}
	return out
}

// subtract removes every record whose ID appears in remove.
func subtract(records, remove []Record) []Record {
	if len(remove) == 0 {
		return records
	}
	return filterIDs(records, remove, false)
}

// intersect keeps the records whose ID appears in keep, in records order.
func intersect(records, keep []Record) []Record {
	return filterIDs(records, keep, true)
}

func filterIDs(records, ids []Record, keep bool) []Record {
	set := make(map[int64]struct{}, len(ids))
	for _, rec := range ids {
		set[rec.ID] = struct{}{}
	}
	out := records[:0:0]
	for _, rec := range records {
		if _, ok := set[rec.ID]; ok == keep {
			out = append(out, rec)
		}
	}
	return out
}
