package book

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=book

// Repository is the document store for inventory records, keyed by ISBN.
// Every mutating method is a single atomic step against the store; callers
// never need a separate read before a write.
type Repository interface {
	// FindOne returns ErrNotFound when the ISBN is absent.
	FindOne(ctx context.Context, isbn string) (Book, error)
	// IncrementQuantity bumps an existing record by one and returns it
	// updated. It returns ErrNotFound when the ISBN is absent.
	IncrementQuantity(ctx context.Context, isbn string) (Book, error)
	// InsertOrIncrement inserts b with quantity 1, or bumps the existing
	// record if another writer created it first. created reports which.
	InsertOrIncrement(ctx context.Context, b Book) (out Book, created bool, err error)
	// DecrementQuantity lowers quantity by one, deleting the record instead
	// of storing zero. deleted reports the latter; the returned Book is then
	// the final snapshot with Quantity 0.
	DecrementQuantity(ctx context.Context, isbn string) (out Book, deleted bool, err error)
	SetPrice(ctx context.Context, isbn string, price *float64) (Book, error)
	// SetPrices applies updates for ISBNs that exist and returns how many
	// records actually changed. Absent ISBNs are skipped.
	SetPrices(ctx context.Context, updates []PriceUpdate) (int, error)
	AppendReview(ctx context.Context, isbn, text string) (Book, error)
	Count(ctx context.Context) (int, error)
	List(ctx context.Context, offset, limit int) ([]Book, error)
	// FindBySlug matches fragment as a case-insensitive substring of slug.
	FindBySlug(ctx context.Context, fragment string) ([]Book, error)
	Ping(ctx context.Context) error
}
