// Package inventory owns the stock ledger: the per-ISBN state machine that
// creates records from catalog metadata, counts copies up and down and
// removes a record when its last copy goes.
package inventory

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"bookstock/internal/book"
	"bookstock/internal/catalog"
	"bookstock/internal/slug"
)

const maxReviewLength = 5000

type Ledger struct {
	repo           book.Repository
	catalog        catalog.Lookup
	locks          *keyLock
	catalogTimeout time.Duration
	metrics        *Metrics
}

type Option func(*Ledger)

// WithCatalogTimeout bounds each catalog lookup. Zero means no bound beyond
// the caller's context.
func WithCatalogTimeout(d time.Duration) Option {
	return func(l *Ledger) { l.catalogTimeout = d }
}

func WithMetrics(m *Metrics) Option {
	return func(l *Ledger) { l.metrics = m }
}

func NewLedger(repo book.Repository, lookup catalog.Lookup, opts ...Option) *Ledger {
	l := &Ledger{
		repo:    repo,
		catalog: lookup,
		locks:   newKeyLock(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

type IncrementResult struct {
	Book       book.Book
	WasCreated bool
}

// DecrementResult carries the record after the decrement. When Deleted is
// true the record is gone and Book is its last state with Quantity 0.
type DecrementResult struct {
	Book    book.Book
	Deleted bool
}

// PriceInput is one entry of a bulk price update. Price is raw input and is
// interpreted by ParsePrice.
type PriceInput struct {
	ISBN  string
	Price string
}

func (l *Ledger) Get(ctx context.Context, rawISBN string) (_ book.Book, err error) {
	defer func() { l.metrics.observe("get", err) }()

	isbn, err := normalizeISBN(rawISBN)
	if err != nil {
		return book.Book{}, err
	}
	b, err := l.repo.FindOne(ctx, isbn)
	if err != nil {
		return book.Book{}, storeErr("store.find", err)
	}
	return b, nil
}

// Increment adds one copy. An unknown ISBN is hydrated from the catalog and
// stored with quantity 1; nothing is stored when the catalog lookup fails.
func (l *Ledger) Increment(ctx context.Context, rawISBN string) (_ IncrementResult, err error) {
	defer func() { l.metrics.observe("increment", err) }()

	isbn, err := normalizeISBN(rawISBN)
	if err != nil {
		return IncrementResult{}, err
	}
	unlock, err := l.lock(ctx, isbn)
	if err != nil {
		return IncrementResult{}, err
	}
	defer unlock()

	b, err := l.repo.IncrementQuantity(ctx, isbn)
	if err == nil {
		return IncrementResult{Book: b}, nil
	}
	if !errors.Is(err, book.ErrNotFound) {
		return IncrementResult{}, storeErr("store.increment", err)
	}

	meta, err := l.lookup(ctx, isbn)
	if err != nil {
		return IncrementResult{}, err
	}

	// Another process may have created the record meanwhile, in which case
	// the store increments it instead.
	b, created, err := l.repo.InsertOrIncrement(ctx, book.Book{
		ISBN:          isbn,
		Title:         meta.Title,
		Slug:          slug.Make(meta.Title),
		Authors:       meta.Authors,
		Publisher:     meta.Publisher,
		PublishedDate: meta.PublishedDate,
		Description:   meta.Description,
		PageCount:     meta.PageCount,
		Thumbnail:     meta.Thumbnail,
		Quantity:      1,
		Reviews:       []string{},
	})
	if err != nil {
		return IncrementResult{}, storeErr("store.insert", err)
	}
	if created {
		l.metrics.hydrated()
		log.Printf("ledger: hydrated isbn=%s title=%q", isbn, b.Title)
	}
	return IncrementResult{Book: b, WasCreated: created}, nil
}

// Decrement removes one copy and deletes the record when the last copy goes.
func (l *Ledger) Decrement(ctx context.Context, rawISBN string) (_ DecrementResult, err error) {
	defer func() { l.metrics.observe("decrement", err) }()

	isbn, err := normalizeISBN(rawISBN)
	if err != nil {
		return DecrementResult{}, err
	}
	unlock, err := l.lock(ctx, isbn)
	if err != nil {
		return DecrementResult{}, err
	}
	defer unlock()

	b, deleted, err := l.repo.DecrementQuantity(ctx, isbn)
	if err != nil {
		return DecrementResult{}, storeErr("store.decrement", err)
	}
	if deleted {
		log.Printf("ledger: removed isbn=%s", isbn)
	}
	return DecrementResult{Book: b, Deleted: deleted}, nil
}

// SetPrice replaces the price of an existing record. Input ParsePrice
// rejects clears the price.
func (l *Ledger) SetPrice(ctx context.Context, rawISBN, rawPrice string) (_ book.Book, err error) {
	defer func() { l.metrics.observe("set_price", err) }()

	isbn, err := normalizeISBN(rawISBN)
	if err != nil {
		return book.Book{}, err
	}
	unlock, err := l.lock(ctx, isbn)
	if err != nil {
		return book.Book{}, err
	}
	defer unlock()

	b, err := l.repo.SetPrice(ctx, isbn, ParsePrice(rawPrice))
	if err != nil {
		return book.Book{}, storeErr("store.set_price", err)
	}
	return b, nil
}

// BulkSetPrices applies all entries in one store transaction and returns how
// many records actually changed. Entries for ISBNs not in inventory are
// skipped. The whole batch is rejected before any write when an entry has
// no ISBN.
func (l *Ledger) BulkSetPrices(ctx context.Context, inputs []PriceInput) (_ int, err error) {
	defer func() { l.metrics.observe("bulk_set_prices", err) }()

	if len(inputs) == 0 {
		return 0, invalid("updates", "must contain at least one entry")
	}
	updates := make([]book.PriceUpdate, 0, len(inputs))
	for _, in := range inputs {
		isbn, err := normalizeISBN(in.ISBN)
		if err != nil {
			return 0, err
		}
		updates = append(updates, book.PriceUpdate{ISBN: isbn, Price: ParsePrice(in.Price)})
	}

	modified, err := l.repo.SetPrices(ctx, updates)
	if err != nil {
		return 0, &TransportError{Op: "store.set_prices", Err: err}
	}
	log.Printf("ledger: bulk prices entries=%d modified=%d", len(updates), modified)
	return modified, nil
}

// AppendReview adds a review to an existing record.
func (l *Ledger) AppendReview(ctx context.Context, rawISBN, text string) (_ book.Book, err error) {
	defer func() { l.metrics.observe("append_review", err) }()

	isbn, err := normalizeISBN(rawISBN)
	if err != nil {
		return book.Book{}, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return book.Book{}, invalid("reviewText", "is required")
	}
	if utf8.RuneCountInString(text) > maxReviewLength {
		return book.Book{}, invalid("reviewText", "is too long")
	}
	unlock, err := l.lock(ctx, isbn)
	if err != nil {
		return book.Book{}, err
	}
	defer unlock()

	b, err := l.repo.AppendReview(ctx, isbn, text)
	if err != nil {
		return book.Book{}, storeErr("store.append_review", err)
	}
	return b, nil
}

func (l *Ledger) lock(ctx context.Context, isbn string) (func(), error) {
	unlock, err := l.locks.Lock(ctx, isbn)
	if err != nil {
		return nil, &TransportError{Op: "lock", Err: err}
	}
	return unlock, nil
}

func (l *Ledger) lookup(ctx context.Context, isbn string) (catalog.Metadata, error) {
	if l.catalogTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.catalogTimeout)
		defer cancel()
	}

	start := time.Now()
	meta, err := l.catalog.Lookup(ctx, isbn)
	l.metrics.lookupTook(time.Since(start))

	switch {
	case err == nil:
		return meta, nil
	case errors.Is(err, catalog.ErrNoMatch):
		log.Printf("ledger: catalog miss isbn=%s", isbn)
		return catalog.Metadata{}, ErrCatalogMiss
	default:
		log.Printf("ledger: catalog lookup failed isbn=%s err=%v", isbn, err)
		return catalog.Metadata{}, &TransportError{Op: "catalog.lookup", Err: err}
	}
}

func normalizeISBN(raw string) (string, error) {
	isbn := book.NormalizeISBN(raw)
	if isbn == "" {
		return "", invalid("isbn", "is required")
	}
	return isbn, nil
}
