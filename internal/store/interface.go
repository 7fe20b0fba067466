// Package store defines the persistence interface for the bookstore server.
package store

import (
	"context"

	"github.com/listenupapp/bookstore-server/internal/domain"
)

// Store defines the interface for all persistence operations.
type Store interface {
	// Lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	CountUsers(ctx context.Context) (int, error)

	// Books
	CreateBook(ctx context.Context, book *domain.Book) error
	GetBook(ctx context.Context, id int64) (*domain.Book, error)
	GetAnnotatedBook(ctx context.Context, id int64) (*domain.AnnotatedBook, error)
	ListAnnotatedBooks(ctx context.Context, q BookQuery) ([]*domain.AnnotatedBook, error)
	UpdateBook(ctx context.Context, book *domain.Book) error
	DeleteBook(ctx context.Context, id int64) error

	// User-book relations
	GetRelation(ctx context.Context, userID string, bookID int64) (*domain.UserBookRelation, error)
	GetOrCreateRelation(ctx context.Context, userID string, bookID int64) (*domain.UserBookRelation, error)
	PatchRelation(ctx context.Context, userID string, bookID int64, patch domain.RelationPatch) (*domain.UserBookRelation, error)
	ListRelationsByBook(ctx context.Context, bookID int64) ([]*domain.UserBookRelation, error)
}
