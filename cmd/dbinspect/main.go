// Package main prints a summary of a bookstore database: accounts, books
// with their aggregates, and relation counts.
//
// Usage:
//
//	go run ./cmd/dbinspect --data-path ~/Bookstore/data
//	go run ./cmd/dbinspect --json
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/goccy/go-json"

	"github.com/listenupapp/bookstore-server/internal/config"
	"github.com/listenupapp/bookstore-server/internal/store"
	"github.com/listenupapp/bookstore-server/internal/store/sqlite"
)

// bookSummary is one row of the report.
type bookSummary struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Price      string  `json:"price"`
	AutorName  string  `json:"autor_name"`
	Owner      string  `json:"owner,omitempty"`
	Likes      int64   `json:"likes"`
	Rating     *string `json:"rating"`
	Relations  int     `json:"relations"`
	Bookmarked int     `json:"bookmarked"`
}

type report struct {
	Path  string        `json:"path"`
	Users int           `json:"users"`
	Books []bookSummary `json:"books"`
}

func main() {
	dataPath := flag.String("data-path", "", "Data directory (default: $DATA_PATH or ~/Bookstore/data)")
	asJSON := flag.Bool("json", false, "Print the report as JSON")
	flag.Parse()

	path, err := resolveDBPath(*dataPath)
	if err != nil {
		log.Fatalf("Failed to resolve database path: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		log.Fatalf("Database not found: %v", err)
	}

	st, err := sqlite.Open(path, nil)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer st.Close()

	r, err := inspect(context.Background(), st)
	if err != nil {
		log.Fatalf("Inspection failed: %v", err)
	}
	r.Path = path

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			log.Fatalf("Failed to encode report: %v", err)
		}
		return
	}
	printReport(os.Stdout, r)
}

func resolveDBPath(dataPath string) (string, error) {
	if dataPath == "" {
		dataPath = os.Getenv("DATA_PATH")
	}
	if dataPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataPath = filepath.Join(home, "Bookstore", "data")
	}
	return config.DataConfig{Path: dataPath}.DatabasePath(), nil
}

func inspect(ctx context.Context, st store.Store) (*report, error) {
	users, err := st.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	books, err := st.ListAnnotatedBooks(ctx, store.BookQuery{})
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	r := &report{Users: users, Books: make([]bookSummary, 0, len(books))}
	for _, b := range books {
		rels, err := st.ListRelationsByBook(ctx, b.ID)
		if err != nil {
			return nil, fmt.Errorf("list relations for book %d: %w", b.ID, err)
		}

		row := bookSummary{
			ID:        b.ID,
			Name:      b.Name,
			Price:     b.Price.String(),
			AutorName: b.AutorName,
			Owner:     b.OwnerID,
			Likes:     b.AnnotatedLikes,
			Relations: len(rels),
		}
		if b.Rating != nil {
			s := b.Rating.String()
			row.Rating = &s
		}
		for _, rel := range rels {
			if rel.InBookmarks {
				row.Bookmarked++
			}
		}
		r.Books = append(r.Books, row)
	}
	return r, nil
}

func printReport(w io.Writer, r *report) {
	fmt.Fprintln(w, "=== Database Inspection ===")
	fmt.Fprintf(w, "Path:  %s\n", r.Path)
	fmt.Fprintf(w, "Users: %d\n", r.Users)
	fmt.Fprintf(w, "Books: %d\n\n", len(r.Books))

	if len(r.Books) == 0 {
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tAUTHOR\tLIKES\tRATING\tRELATIONS\tBOOKMARKED")
	for _, b := range r.Books {
		rating := "-"
		if b.Rating != nil {
			rating = *b.Rating
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\t%d\t%d\n",
			b.ID, b.Name, b.Price, b.AutorName, b.Likes, rating, b.Relations, b.Bookmarked)
	}
	tw.Flush()
}
