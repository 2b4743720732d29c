package book

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bookColumns = `isbn, title, slug, authors, publisher, published_date, description,
	page_count, thumbnail, price, quantity, reviews, created_at, updated_at`

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func scanBook(row pgx.Row, extra ...any) (Book, error) {
	var b Book
	dest := []any{
		&b.ISBN, &b.Title, &b.Slug, &b.Authors, &b.Publisher, &b.PublishedDate, &b.Description,
		&b.PageCount, &b.Thumbnail, &b.Price, &b.Quantity, &b.Reviews, &b.CreatedAt, &b.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func collectBooks(rows pgx.Rows) ([]Book, error) {
	defer rows.Close()
	var out []Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) FindOne(ctx context.Context, isbn string) (Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	query := `SELECT ` + bookColumns + ` FROM books WHERE isbn = $1`
	return scanBook(r.db.QueryRow(timeoutCtx, query, isbn))
}

func (r *PostgresRepo) IncrementQuantity(ctx context.Context, isbn string) (Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	query := `
		UPDATE books SET quantity = quantity + 1, updated_at = now()
		WHERE isbn = $1
		RETURNING ` + bookColumns
	return scanBook(r.db.QueryRow(timeoutCtx, query, isbn))
}

func (r *PostgresRepo) InsertOrIncrement(ctx context.Context, b Book) (Book, bool, error) {
	// xmax is zero only for a freshly inserted tuple.
	query := `
		INSERT INTO books (isbn, title, slug, authors, publisher, published_date, description,
		                   page_count, thumbnail, price, quantity, reviews, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 1, $11, now(), now())
		ON CONFLICT (isbn) DO UPDATE SET
			quantity = books.quantity + 1,
			updated_at = now()
		RETURNING ` + bookColumns + `, (xmax = 0) AS inserted`

	authors := b.Authors
	if authors == nil {
		authors = []string{}
	}
	reviews := b.Reviews
	if reviews == nil {
		reviews = []string{}
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var inserted bool
	out, err := scanBook(r.db.QueryRow(timeoutCtx, query,
		b.ISBN, b.Title, b.Slug, authors, b.Publisher, b.PublishedDate, b.Description,
		b.PageCount, b.Thumbnail, b.Price, reviews,
	), &inserted)
	if err != nil {
		return Book{}, false, fmt.Errorf("insert book: %w", err)
	}
	return out, inserted, nil
}

func (r *PostgresRepo) DecrementQuantity(ctx context.Context, isbn string) (Book, bool, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return Book{}, false, err
	}
	defer tx.Rollback(timeoutCtx)

	var quantity int
	err = tx.QueryRow(timeoutCtx, `SELECT quantity FROM books WHERE isbn = $1 FOR UPDATE`, isbn).Scan(&quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, false, ErrNotFound
		}
		return Book{}, false, err
	}

	if quantity <= 1 {
		out, err := scanBook(tx.QueryRow(timeoutCtx, `DELETE FROM books WHERE isbn = $1 RETURNING `+bookColumns, isbn))
		if err != nil {
			return Book{}, false, fmt.Errorf("delete book: %w", err)
		}
		if err := tx.Commit(timeoutCtx); err != nil {
			return Book{}, false, err
		}
		out.Quantity = 0
		return out, true, nil
	}

	query := `
		UPDATE books SET quantity = quantity - 1, updated_at = now()
		WHERE isbn = $1
		RETURNING ` + bookColumns
	out, err := scanBook(tx.QueryRow(timeoutCtx, query, isbn))
	if err != nil {
		return Book{}, false, fmt.Errorf("decrement book: %w", err)
	}
	return out, false, tx.Commit(timeoutCtx)
}

func (r *PostgresRepo) SetPrice(ctx context.Context, isbn string, price *float64) (Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	query := `
		UPDATE books SET price = $2, updated_at = now()
		WHERE isbn = $1
		RETURNING ` + bookColumns
	return scanBook(r.db.QueryRow(timeoutCtx, query, isbn, price))
}

func (r *PostgresRepo) SetPrices(ctx context.Context, updates []PriceUpdate) (int, error) {
	const sql = `
		UPDATE books SET price = $2::numeric, updated_at = now()
		WHERE isbn = $1 AND price IS DISTINCT FROM $2::numeric`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(timeoutCtx)

	batch := &pgx.Batch{}
	for _, u := range updates {
		batch.Queue(sql, u.ISBN, u.Price)
	}
	results := tx.SendBatch(timeoutCtx, batch)

	modified := 0
	for range updates {
		tag, err := results.Exec()
		if err != nil {
			results.Close()
			return 0, fmt.Errorf("update price: %w", err)
		}
		modified += int(tag.RowsAffected())
	}
	if err := results.Close(); err != nil {
		return 0, err
	}
	if err := tx.Commit(timeoutCtx); err != nil {
		return 0, err
	}
	return modified, nil
}

func (r *PostgresRepo) AppendReview(ctx context.Context, isbn, text string) (Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	query := `
		UPDATE books SET reviews = array_append(reviews, $2), updated_at = now()
		WHERE isbn = $1
		RETURNING ` + bookColumns
	return scanBook(r.db.QueryRow(timeoutCtx, query, isbn, text))
}

func (r *PostgresRepo) Count(ctx context.Context) (int, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var total int
	err := r.db.QueryRow(timeoutCtx, "SELECT COUNT(*) FROM books").Scan(&total)
	return total, err
}

func (r *PostgresRepo) List(ctx context.Context, offset, limit int) ([]Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	query := `
		SELECT ` + bookColumns + `
		FROM books
		ORDER BY title ASC, isbn ASC
		LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(timeoutCtx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	return collectBooks(rows)
}

func (r *PostgresRepo) FindBySlug(ctx context.Context, fragment string) ([]Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	query := `
		SELECT ` + bookColumns + `
		FROM books
		WHERE slug ILIKE $1
		ORDER BY title ASC, isbn ASC`
	rows, err := r.db.Query(timeoutCtx, query, "%"+escapeLike(fragment)+"%")
	if err != nil {
		return nil, err
	}
	return collectBooks(rows)
}

func (r *PostgresRepo) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes fragment match literally inside a LIKE pattern.
func escapeLike(fragment string) string {
	return likeEscaper.Replace(fragment)
}
