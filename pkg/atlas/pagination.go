package atlas

import (
	"context"
)

// PageClient fetches one page of T. The first request goes to path with the
// given params; continuation requests pass the server's next URL as path and
// nil params.
type PageClient[T any] interface {
	ListPage(ctx context.Context, path string, params *QueryParams) (*Page[T], error)
}

// PageIterator lazily walks a paginated collection. Iteration is finite and
// restartable per call: constructing a new iterator starts a fresh
// enumeration with a fresh first request. An iterator must not be shared
// across concurrent consumers.
type PageIterator[T any] struct {
	ctx     context.Context
	client  PageClient[T]
	path    string
	params  *QueryParams
	buffer  []T
	next    string
	started bool
	done    bool
	err     error
}

// NewPageIterator creates an iterator over the collection at path.
func NewPageIterator[T any](ctx context.Context, client PageClient[T], path string, params *QueryParams) *PageIterator[T] {
	return &PageIterator[T]{
		ctx:    ctx,
		client: client,
		path:   path,
		params: params,
	}
}

// HasNext reports whether another item is available, fetching pages as
// needed. Pages with no values are skipped as long as a continuation URL is
// present; the collection is exhausted only when none is. A fetch error is
// deferred and returned by the next call to Next.
func (it *PageIterator[T]) HasNext() bool {
	for len(it.buffer) == 0 && !it.done && it.err == nil {
		it.fetch()
	}

	if it.err != nil {
		return true // surface the error through Next
	}

	return len(it.buffer) > 0
}

// Next returns the next item in page order.
func (it *PageIterator[T]) Next() (T, error) {
	var zero T

	for len(it.buffer) == 0 && !it.done && it.err == nil {
		it.fetch()
	}

	if it.err != nil {
		err := it.err
		it.err = nil

		return zero, err
	}

	if len(it.buffer) == 0 {
		return zero, ErrNoMoreItems
	}

	item := it.buffer[0]
	it.buffer = it.buffer[1:]

	return item, nil
}

// All drains the iterator, following every remaining page.
func (it *PageIterator[T]) All() ([]T, error) {
	var items []T

	for it.HasNext() {
		item, err := it.Next()
		if err != nil {
			return nil, err
		}

		items = append(items, item)
	}

	return items, nil
}

func (it *PageIterator[T]) fetch() {
	// Pages after the first follow the continuation URL verbatim; the
	// server embeds the query state in it.
	path := it.path

	params := it.params
	if it.started {
		path = it.next
		params = nil
	}

	page, err := it.client.ListPage(it.ctx, path, params)
	if err != nil {
		it.err = err
		it.done = true

		return
	}

	it.started = true
	it.buffer = append(it.buffer, page.Values...)
	it.next = page.Next

	if it.next == "" {
		it.done = true
	}
}
