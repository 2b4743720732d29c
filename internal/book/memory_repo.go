package book

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryRepo is a Repository backed by a map. Every method holds the lock
// for its whole read-modify-write, so it offers the same atomicity as the
// Postgres adapter within one process.
type MemoryRepo struct {
	mu    sync.RWMutex
	books map[string]Book
	now   func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		books: make(map[string]Book),
		now:   time.Now,
	}
}

func (r *MemoryRepo) FindOne(_ context.Context, isbn string) (Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.books[isbn]
	if !ok {
		return Book{}, ErrNotFound
	}
	return b.Clone(), nil
}

func (r *MemoryRepo) IncrementQuantity(_ context.Context, isbn string) (Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.books[isbn]
	if !ok {
		return Book{}, ErrNotFound
	}
	b.Quantity++
	b.UpdatedAt = r.now()
	r.books[isbn] = b
	return b.Clone(), nil
}

func (r *MemoryRepo) InsertOrIncrement(_ context.Context, b Book) (Book, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.books[b.ISBN]; ok {
		existing.Quantity++
		existing.UpdatedAt = r.now()
		r.books[b.ISBN] = existing
		return existing.Clone(), false, nil
	}

	rec := b.Clone()
	if rec.Authors == nil {
		rec.Authors = []string{}
	}
	if rec.Reviews == nil {
		rec.Reviews = []string{}
	}
	rec.Quantity = 1
	rec.CreatedAt = r.now()
	rec.UpdatedAt = rec.CreatedAt
	r.books[rec.ISBN] = rec
	return rec.Clone(), true, nil
}

func (r *MemoryRepo) DecrementQuantity(_ context.Context, isbn string) (Book, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.books[isbn]
	if !ok {
		return Book{}, false, ErrNotFound
	}
	if b.Quantity <= 1 {
		delete(r.books, isbn)
		b.Quantity = 0
		return b.Clone(), true, nil
	}
	b.Quantity--
	b.UpdatedAt = r.now()
	r.books[isbn] = b
	return b.Clone(), false, nil
}

func (r *MemoryRepo) SetPrice(_ context.Context, isbn string, price *float64) (Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.books[isbn]
	if !ok {
		return Book{}, ErrNotFound
	}
	b.Price = copyPrice(price)
	b.UpdatedAt = r.now()
	r.books[isbn] = b
	return b.Clone(), nil
}

func (r *MemoryRepo) SetPrices(_ context.Context, updates []PriceUpdate) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	modified := 0
	for _, u := range updates {
		b, ok := r.books[u.ISBN]
		if !ok || samePrice(b.Price, u.Price) {
			continue
		}
		b.Price = copyPrice(u.Price)
		b.UpdatedAt = r.now()
		r.books[u.ISBN] = b
		modified++
	}
	return modified, nil
}

func (r *MemoryRepo) AppendReview(_ context.Context, isbn, text string) (Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.books[isbn]
	if !ok {
		return Book{}, ErrNotFound
	}
	b.Reviews = append(append([]string(nil), b.Reviews...), text)
	b.UpdatedAt = r.now()
	r.books[isbn] = b
	return b.Clone(), nil
}

func (r *MemoryRepo) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.books), nil
}

func (r *MemoryRepo) List(_ context.Context, offset, limit int) ([]Book, error) {
	all := r.sorted(func(Book) bool { return true })
	if offset < 0 || limit < 1 || offset >= len(all) {
		return nil, nil
	}
	end := len(all)
	if limit < end-offset {
		end = offset + limit
	}
	return all[offset:end], nil
}

func (r *MemoryRepo) FindBySlug(_ context.Context, fragment string) ([]Book, error) {
	needle := strings.ToLower(fragment)
	return r.sorted(func(b Book) bool {
		return strings.Contains(strings.ToLower(b.Slug), needle)
	}), nil
}

func (r *MemoryRepo) Ping(context.Context) error {
	return nil
}

// sorted returns matching records in the same order the Postgres adapter
// uses: title, then ISBN.
func (r *MemoryRepo) sorted(match func(Book) bool) []Book {
	r.mu.RLock()
	out := make([]Book, 0, len(r.books))
	for _, b := range r.books {
		if match(b) {
			out = append(out, b.Clone())
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		return out[i].ISBN < out[j].ISBN
	})
	return out
}

func copyPrice(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func samePrice(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
