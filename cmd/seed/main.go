package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookstock/internal/book"
	"bookstock/internal/catalog"
	"bookstock/internal/config"
	"bookstock/internal/slug"
)

func main() {
	count := flag.Int("count", 1000, "number of synthetic books to insert")
	truncate := flag.Bool("truncate", false, "empty the books table first")
	flag.Parse()

	config.LoadEnvFiles()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database (%s): %v", cfg.RedactedDSN(), err)
	}
	defer pool.Close()

	if *truncate {
		if _, err := pool.Exec(ctx, "TRUNCATE books"); err != nil {
			log.Fatalf("Failed to truncate books: %v", err)
		}
	}

	log.Printf("Generating %d books...", *count)
	books := generate(rand.New(rand.NewSource(time.Now().UnixNano())), *count)

	n, err := pool.CopyFrom(ctx,
		pgx.Identifier{"books"},
		[]string{"isbn", "title", "slug", "authors", "publisher", "published_date", "description",
			"page_count", "thumbnail", "price", "quantity", "reviews"},
		pgx.CopyFromSlice(len(books), func(i int) ([]any, error) {
			b := books[i]
			return []any{b.ISBN, b.Title, b.Slug, b.Authors, b.Publisher, b.PublishedDate, b.Description,
				b.PageCount, b.Thumbnail, b.Price, b.Quantity, b.Reviews}, nil
		}),
	)
	if err != nil {
		log.Fatalf("Failed to insert books: %v", err)
	}
	log.Printf("Successfully inserted %d books", n)

	var total int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM books").Scan(&total); err != nil {
		log.Fatalf("Failed to count books: %v", err)
	}
	log.Printf("Total books in database: %d", total)
}

// generate builds count records with unique 13-digit ISBNs in the 979
// range, which real catalogs rarely resolve.
func generate(rng *rand.Rand, count int) []book.Book {
	publishers := []string{"Penguin", "HarperCollins", "Metis", "Can Yayınları", "İletişim", "Springer"}

	books := make([]book.Book, 0, count)
	for i := 0; i < count; i++ {
		title := fmt.Sprintf("%s %s %d", randomWord(rng), randomWord(rng), i+1)
		b := book.Book{
			ISBN:          fmt.Sprintf("979%010d", i+1),
			Title:         title,
			Slug:          slug.Make(title),
			Authors:       []string{fmt.Sprintf("Author %d", rng.Intn(500)+1)},
			Publisher:     publishers[rng.Intn(len(publishers))],
			PublishedDate: fmt.Sprintf("%d", 1950+rng.Intn(75)),
			Description:   catalog.DefaultDescription,
			PageCount:     100 + rng.Intn(800),
			Quantity:      1 + rng.Intn(20),
			Reviews:       []string{},
		}
		if rng.Intn(3) > 0 {
			price := float64(500+rng.Intn(9500)) / 100
			b.Price = &price
		}
		books = append(books, b)
	}
	return books
}

func randomWord(rng *rand.Rand) string {
	words := []string{
		"Adventure", "Mystery", "Journey", "Discovery", "Secrets", "Dreams", "Hope",
		"Çöl", "Gökyüzü", "Şehir", "Işık", "Yolculuk", "Düş", "Ağaç",
		"Past", "Present", "Reality", "Imagination", "Wisdom", "Life", "Death",
	}
	return words[rng.Intn(len(words))]
}
