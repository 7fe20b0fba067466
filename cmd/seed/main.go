// Package main seeds a database with demo users, books and relations.
//
// The fixture gives the first book three likes and an average rating of
// 4.67, and the second two likes and 3.50, which makes the annotated list
// output easy to eyeball.
//
// Usage:
//
//	go run ./cmd/seed --data-path ~/Bookstore/data
//	go run ./cmd/seed --data-path /tmp/books --password secret123
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/listenupapp/bookstore-server/internal/config"
	"github.com/listenupapp/bookstore-server/internal/domain"
	"github.com/listenupapp/bookstore-server/internal/logger"
	"github.com/listenupapp/bookstore-server/internal/service"
	"github.com/listenupapp/bookstore-server/internal/store/sqlite"
	"github.com/listenupapp/bookstore-server/internal/validation"
)

type seedUser struct {
	username string
	staff    bool
}

type seedBook struct {
	name, price, autor string
}

type seedRelation struct {
	user, book int // indexes into users and books
	like       bool
	rate       int // 0 leaves the book unrated
}

var (
	users = []seedUser{
		{"admin", true},
		{"reader1", false},
		{"reader2", false},
	}

	books = []seedBook{
		{"Test book 1", "1515", "Yeldana Kenges"},
		{"Test book 2", "2000", "Aizat Kenges"},
		{"Yeldana book", "1000", "Aizat Kenges"},
	}

	relations = []seedRelation{
		{user: 0, book: 0, like: true, rate: 5},
		{user: 1, book: 0, like: true, rate: 5},
		{user: 2, book: 0, like: true, rate: 4},
		{user: 0, book: 1, like: true, rate: 3},
		{user: 1, book: 1, like: true, rate: 4},
		{user: 2, book: 1, like: false},
	}
)

func main() {
	dataPath := flag.String("data-path", "", "Data directory (default: $DATA_PATH or ~/Bookstore/data)")
	password := flag.String("password", "password123", "Password for every seeded user")
	flag.Parse()

	log := logger.New(logger.Config{Level: logger.ParseLevel("info")})

	if err := run(context.Background(), *dataPath, *password, log); err != nil {
		log.Fatal("Seeding failed", "error", err)
	}
}

func run(ctx context.Context, dataPath, password string, log *logger.Logger) error {
	if dataPath == "" {
		dataPath = os.Getenv("DATA_PATH")
	}
	if dataPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		dataPath = filepath.Join(home, "Bookstore", "data")
	}
	if err := os.MkdirAll(dataPath, 0o750); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	dbPath := config.DataConfig{Path: dataPath}.DatabasePath()
	log.Info("Opening database", "path", dbPath)

	st, err := sqlite.Open(dbPath, log.Logger)
	if err != nil {
		return err
	}
	defer st.Close()

	// Token issuing is never used here; the auth service only hashes passwords.
	v := validation.New()
	authSvc := service.NewAuthService(st, nil, v, log.Logger, false)
	bookSvc := service.NewBookService(st, v, log.Logger)
	relSvc := service.NewRelationService(st, log.Logger)

	created := make([]*domain.User, 0, len(users))
	for _, u := range users {
		user, err := authSvc.CreateUser(ctx, service.CredentialsRequest{Username: u.username, Password: password}, u.staff)
		if err != nil {
			return fmt.Errorf("create user %q (seed expects an empty database): %w", u.username, err)
		}
		log.Info("Created user", "username", user.Username, "staff", user.IsStaff)
		created = append(created, user)
	}

	bookIDs := make([]int64, 0, len(books))
	for i, b := range books {
		// Books are spread over the users so ownership checks have something to bite on.
		owner := created[i%len(created)]
		book, err := bookSvc.CreateBook(ctx, owner, service.CreateBookRequest{Name: b.name, Price: b.price, AutorName: b.autor})
		if err != nil {
			return fmt.Errorf("create book %q: %w", b.name, err)
		}
		log.Info("Created book", "id", book.ID, "name", book.Name, "owner", owner.Username)
		bookIDs = append(bookIDs, book.ID)
	}

	for _, r := range relations {
		like := r.like
		patch := domain.RelationPatch{Like: &like}
		if r.rate != 0 {
			patch.Rate = domain.SetRate(r.rate)
		}
		_, err := relSvc.UpdateRelation(ctx, created[r.user], bookIDs[r.book], patch)
		if err != nil {
			return fmt.Errorf("relate %s to book %d: %w", created[r.user].Username, bookIDs[r.book], err)
		}
	}

	log.Info("Seed complete", "users", len(created), "books", len(bookIDs), "relations", len(relations))
	return nil
}
