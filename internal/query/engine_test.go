package query_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"wadshelf/internal/fields"
	"wadshelf/internal/query"
)

type fakeSource struct {
	mu        sync.Mutex
	records   []query.Record
	base      map[int64]bool
	tags      map[int64][]int64
	fetchErr  error
	baseErr   error
	calls     int
	baseCalls int
}

func newFakeSource() *fakeSource {
	rec := func(id int64, title, author string, maps int64) query.Record {
		return query.Record{ID: id, Values: map[fields.Key]any{
			fields.Title:    title,
			fields.Author:   author,
			fields.MapCount: maps,
		}}
	}
	return &fakeSource{
		records: []query.Record{
			rec(1, "DOOM2.WAD", "id Software", 32),
			rec(2, "Scythe", "Erik Alm", 32),
			rec(3, "Alien Vendetta", "Anders Johnsen", 32),
			rec(4, "Eviternity", "Dragonfly", 37),
			rec(5, "Speed of Doom", "Darkwave0000", 32),
			rec(6, "DOOM.WAD", "id Software", 36),
		},
		base: map[int64]bool{1: true, 6: true},
		tags: map[int64][]int64{10: {2, 3}},
	}
}

func (f *fakeSource) FetchRecords(ctx context.Context, keys []fields.Key, p *query.Predicate, tag *query.Tag) ([]query.Record, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	var inTag map[int64]bool
	if tag != nil {
		inTag = map[int64]bool{}
		for _, id := range f.tags[tag.ID] {
			inTag[id] = true
		}
	}
	var out []query.Record
	for _, rec := range f.records {
		if inTag != nil && !inTag[rec.ID] {
			continue
		}
		if p != nil && !matches(rec, *p) {
			continue
		}
		projected := query.Record{ID: rec.ID, Values: map[fields.Key]any{}}
		for _, k := range keys {
			if v, ok := rec.Values[k]; ok {
				projected.Values[k] = v
			}
		}
		out = append(out, projected)
	}
	return out, nil
}

func (f *fakeSource) FetchBaseRecords(ctx context.Context) ([]query.Record, error) {
	f.mu.Lock()
	f.baseCalls++
	f.mu.Unlock()
	if f.baseErr != nil {
		return nil, f.baseErr
	}
	var out []query.Record
	for _, rec := range f.records {
		if f.base[rec.ID] {
			out = append(out, query.Record{ID: rec.ID})
		}
	}
	return out, nil
}

func matches(rec query.Record, p query.Predicate) bool {
	v := rec.Values[p.Field]
	switch p.Op {
	case query.OpEqual:
		return v == p.Value
	case query.OpContains:
		s, _ := v.(string)
		return strings.Contains(strings.ToLower(s), strings.ToLower(fmt.Sprint(p.Value)))
	case query.OpGreater:
		n, _ := v.(int64)
		return n > p.Value.(int64)
	}
	return false
}

func ids(records []query.Record) []int64 {
	out := make([]int64, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func mustBuild(t *testing.T, preds []query.Predicate, tag *query.Tag) query.Specification {
	t.Helper()
	spec, err := query.Build([]fields.Key{fields.Title, fields.Author}, preds, tag)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return spec
}

func TestExecuteWithoutPredicatesReturnsEverything(t *testing.T) {
	src := newFakeSource()
	engine := query.NewEngine(src, nil)

	res, err := engine.Execute(context.Background(), mustBuild(t, nil, nil))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := ids(res.Records); !equalIDs(got, []int64{1, 2, 3, 4, 5, 6}) {
		t.Fatalf("unexpected ids %v", got)
	}
	if res.NoResults {
		t.Fatal("NoResults set on a populated result")
	}
	if src.calls != 1 {
		t.Fatalf("expected one fetch, got %d", src.calls)
	}
	if _, ok := res.Records[0].Get(fields.MapCount); ok {
		t.Fatal("record carries a field outside the projection")
	}
}

func TestExecuteTagScopeWithoutPredicates(t *testing.T) {
	engine := query.NewEngine(newFakeSource(), nil)
	res, err := engine.Execute(context.Background(), mustBuild(t, nil, &query.Tag{ID: 10, Name: "Megawads"}))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := ids(res.Records); !equalIDs(got, []int64{2, 3}) {
		t.Fatalf("unexpected ids %v", got)
	}
}

func TestExecuteUnionsPredicates(t *testing.T) {
	src := newFakeSource()
	engine := query.NewEngine(src, nil)
	preds := []query.Predicate{
		{Field: fields.Title, Op: query.OpContains, Value: "doom"},
		{Field: fields.Author, Op: query.OpContains, Value: "id software"},
		{Field: fields.Title, Op: query.OpContains, Value: "scythe"},
	}
	spec := mustBuild(t, preds, nil)

	res, err := engine.Execute(context.Background(), spec)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	want := []int64{1, 5, 6, 2}
	if got := ids(res.Records); !equalIDs(got, want) {
		t.Fatalf("union order: got %v want %v", got, want)
	}
	if src.calls != len(preds) {
		t.Fatalf("expected %d fetches, got %d", len(preds), src.calls)
	}

	// The union equals executing each predicate alone.
	seen := map[int64]bool{}
	for _, p := range preds {
		single, err := engine.Execute(context.Background(), mustBuild(t, []query.Predicate{p}, nil))
		if err != nil {
			t.Fatalf("Execute single: %v", err)
		}
		for _, r := range single.Records {
			seen[r.ID] = true
		}
	}
	if len(seen) != res.Len() {
		t.Fatalf("union has %d records, individual runs cover %d", res.Len(), len(seen))
	}
	for _, r := range res.Records {
		if !seen[r.ID] {
			t.Fatalf("record %d not produced by any single predicate", r.ID)
		}
	}
}

func TestExecuteExcludesBaseRecords(t *testing.T) {
	src := newFakeSource()
	engine := query.NewEngine(src, nil)

	spec := mustBuild(t, []query.Predicate{{Field: fields.Title, Op: query.OpContains, Value: "doom"}}, nil).WithExcludeBase(true)
	res, err := engine.Execute(context.Background(), spec)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	for _, r := range res.Records {
		if src.base[r.ID] {
			t.Fatalf("base record %d leaked into result", r.ID)
		}
	}
	if got := ids(res.Records); !equalIDs(got, []int64{5}) {
		t.Fatalf("unexpected ids %v", got)
	}
	if src.baseCalls != 1 {
		t.Fatalf("expected one base fetch, got %d", src.baseCalls)
	}
}

func TestExecuteKeepsOnlyBaseRecords(t *testing.T) {
	src := newFakeSource()
	engine := query.NewEngine(src, nil)

	res, err := engine.Execute(context.Background(), mustBuild(t, nil, nil).WithOnlyBase(true))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := ids(res.Records); !equalIDs(got, []int64{1, 6}) {
		t.Fatalf("unexpected ids %v", got)
	}

	src.baseErr = errors.New("base table locked")
	_, err = engine.Execute(context.Background(), mustBuild(t, nil, nil).WithOnlyBase(true))
	if !errors.Is(err, query.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}

	both := mustBuild(t, nil, nil).WithOnlyBase(true).WithExcludeBase(true)
	if _, err := engine.Execute(context.Background(), both); !errors.Is(err, query.ErrInvalidSpecification) {
		t.Fatalf("expected conflicting base filters to be rejected, got %v", err)
	}
}

func TestExecuteSignalsNoResults(t *testing.T) {
	engine := query.NewEngine(newFakeSource(), nil)
	spec := mustBuild(t, []query.Predicate{{Field: fields.Title, Op: query.OpContains, Value: "heretic"}}, nil)
	res, err := engine.Execute(context.Background(), spec)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !res.NoResults || res.Len() != 0 {
		t.Fatalf("expected explicit no-results signal, got %+v", res)
	}

	var unqueried query.Result
	if unqueried.NoResults {
		t.Fatal("zero Result must not claim NoResults")
	}
}

func TestExecuteWrapsStoreFailure(t *testing.T) {
	src := newFakeSource()
	cause := errors.New("disk on fire")
	src.fetchErr = cause
	engine := query.NewEngine(src, nil)

	spec := mustBuild(t, []query.Predicate{
		{Field: fields.Title, Op: query.OpContains, Value: "a"},
		{Field: fields.Title, Op: query.OpContains, Value: "b"},
	}, nil)
	_, err := engine.Execute(context.Background(), spec)
	if !errors.Is(err, query.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be preserved, got %v", err)
	}

	src.fetchErr = nil
	src.baseErr = cause
	_, err = engine.Execute(context.Background(), spec.WithExcludeBase(true))
	if !errors.Is(err, query.ErrStoreUnavailable) {
		t.Fatalf("expected base fetch failure to be ErrStoreUnavailable, got %v", err)
	}
}

func TestExecuteReportsCancellation(t *testing.T) {
	engine := query.NewEngine(newFakeSource(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Execute(ctx, mustBuild(t, nil, nil))
	if !errors.Is(err, query.ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
	if errors.Is(err, query.ErrStoreUnavailable) {
		t.Fatal("cancellation must not be reported as store failure")
	}
	var qe *query.Error
	if !errors.As(err, &qe) || qe.ErrorKind() != "cancelled" {
		t.Fatalf("unexpected error kind: %v", err)
	}
}

func TestExecuteRejectsEmptySpecification(t *testing.T) {
	engine := query.NewEngine(newFakeSource(), nil)
	_, err := engine.Execute(context.Background(), query.Specification{})
	if !errors.Is(err, query.ErrInvalidSpecification) {
		t.Fatalf("expected ErrInvalidSpecification, got %v", err)
	}
}

func TestResultReplaceMergesKnownFields(t *testing.T) {
	res := query.Result{Records: []query.Record{
		{ID: 2, Values: map[fields.Key]any{fields.Title: "Scythe", fields.Rating: 4.0}},
	}}
	updated := query.Record{ID: 2, Values: map[fields.Key]any{
		fields.Title:    "Scythe",
		fields.Rating:   5.0,
		fields.Comments: "replayed",
	}}
	if !res.Replace(updated) {
		t.Fatal("expected Replace to find the record")
	}
	got := res.Records[0]
	if got.Values[fields.Rating] != 5.0 {
		t.Fatalf("rating not merged: %v", got.Values[fields.Rating])
	}
	if _, ok := got.Values[fields.Comments]; ok {
		t.Fatal("merge added a field the displayed record does not define")
	}
	if res.Replace(query.Record{ID: 99}) {
		t.Fatal("Replace matched a missing record")
	}
}
