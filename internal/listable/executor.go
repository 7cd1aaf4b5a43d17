package listable

import (
	"context"

	"ListableAPI/internal/resource"

	"github.com/Masterminds/squirrel"
	"golang.org/x/sync/errgroup"
)

// Row is one result row keyed by column name.
type Row = map[string]any

// Store runs SQL produced by this package.
type Store interface {
	Dialect() Dialect
	Query(ctx context.Context, sql string, args ...any) ([]Row, error)
	Count(ctx context.Context, sql string, args ...any) (int64, error)
}

// TransformFunc post-processes the data page. It never sees the counts.
type TransformFunc func(rows []Row) ([]Row, error)

// Identity returns rows unchanged.
func Identity(rows []Row) ([]Row, error) {
	return rows, nil
}

// ListResult is one page plus pagination metadata.
type ListResult struct {
	Data            []Row `json:"data"`
	RecordsTotal    int64 `json:"recordsTotal"`
	RecordsFiltered int64 `json:"recordsFiltered"`
}

// Executor lists one resource against a store.
type Executor struct {
	desc      *resource.Descriptor
	store     Store
	arguments ArgumentsFunc
	transform TransformFunc
	parallel  bool
}

type Option func(*Executor)

// WithArguments installs the extra-argument hook. Default: NoArguments.
func WithArguments(fn ArgumentsFunc) Option {
	return func(e *Executor) {
		if fn != nil {
			e.arguments = fn
		}
	}
}

// WithTransform installs the data-page hook. Default: Identity.
func WithTransform(fn TransformFunc) Option {
	return func(e *Executor) {
		if fn != nil {
			e.transform = fn
		}
	}
}

// WithParallel issues the page and both counts concurrently. The three
// queries never share a snapshot either way.
func WithParallel(enabled bool) Option {
	return func(e *Executor) { e.parallel = enabled }
}

func New(d *resource.Descriptor, store Store, opts ...Option) *Executor {
	e := &Executor{
		desc:      d,
		store:     store,
		arguments: NoArguments,
		transform: Identity,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Executor) Descriptor() *resource.Descriptor {
	return e.desc
}

// GetList returns limit rows starting at offset that match term, the total
// row count and the count matching term.
func (e *Executor) GetList(ctx context.Context, offset, limit int, term string, extra any) (*ListResult, error) {
	dialect := e.store.Dialect()

	page, err := PageQuery(e.desc, dialect, term, offset, limit, e.arguments, extra)
	if err != nil {
		return nil, err
	}
	total, err := CountQuery(e.desc, dialect, term, false, e.arguments, extra)
	if err != nil {
		return nil, err
	}
	filtered, err := CountQuery(e.desc, dialect, term, true, e.arguments, extra)
	if err != nil {
		return nil, err
	}

	res := &ListResult{}
	if e.parallel {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			res.Data, err = e.query(gctx, page)
			return err
		})
		g.Go(func() (err error) {
			res.RecordsTotal, err = e.count(gctx, total)
			return err
		})
		g.Go(func() (err error) {
			res.RecordsFiltered, err = e.count(gctx, filtered)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		if res.Data, err = e.query(ctx, page); err != nil {
			return nil, err
		}
		if res.RecordsTotal, err = e.count(ctx, total); err != nil {
			return nil, err
		}
		if res.RecordsFiltered, err = e.count(ctx, filtered); err != nil {
			return nil, err
		}
	}

	data, err := e.transform(res.Data)
	if err != nil {
		return nil, err
	}
	if data == nil {
		data = []Row{}
	}
	res.Data = data
	return res, nil
}

// Count returns the unfiltered and filtered counts without a data page.
func (e *Executor) Count(ctx context.Context, term string, extra any) (total, filtered int64, err error) {
	dialect := e.store.Dialect()
	totalQ, err := CountQuery(e.desc, dialect, term, false, e.arguments, extra)
	if err != nil {
		return 0, 0, err
	}
	filteredQ, err := CountQuery(e.desc, dialect, term, true, e.arguments, extra)
	if err != nil {
		return 0, 0, err
	}
	if total, err = e.count(ctx, totalQ); err != nil {
		return 0, 0, err
	}
	if filtered, err = e.count(ctx, filteredQ); err != nil {
		return 0, 0, err
	}
	return total, filtered, nil
}

func (e *Executor) query(ctx context.Context, sb squirrel.SelectBuilder) ([]Row, error) {
	sqlStr, args, err := sb.ToSql()
	if err != nil {
		return nil, err
	}
	return e.store.Query(ctx, sqlStr, args...)
}

func (e *Executor) count(ctx context.Context, sb squirrel.SelectBuilder) (int64, error) {
	sqlStr, args, err := sb.ToSql()
	if err != nil {
		return 0, err
	}
	return e.store.Count(ctx, sqlStr, args...)
}
