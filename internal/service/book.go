package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/listenupapp/bookstore-server/internal/domain"
	domainerrors "github.com/listenupapp/bookstore-server/internal/errors"
	"github.com/listenupapp/bookstore-server/internal/metrics"
	"github.com/listenupapp/bookstore-server/internal/store"
	"github.com/listenupapp/bookstore-server/internal/validation"
)

// BookService orchestrates book operations.
type BookService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewBookService creates a new book service.
func NewBookService(store store.Store, validator *validation.Validator, logger *slog.Logger) *BookService {
	return &BookService{
		store:     store,
		validator: validator,
		logger:    loggerOrDiscard(logger),
	}
}

// ListBooksRequest carries the raw list query parameters.
type ListBooksRequest struct {
	Price    string // exact price, e.g. "1000" or "1000.00"
	Search   string // terms matched against name and author
	Ordering string // e.g. "price", "-autor_name"
}

// CreateBookRequest holds the fields of a new book.
type CreateBookRequest struct {
	Name      string `json:"name" validate:"required,max=255"`
	Price     string `json:"price" validate:"required,price"`
	AutorName string `json:"autor_name" validate:"required,max=255"`
}

// UpdateBookRequest holds a full or partial book update. Nil fields are
// left unchanged.
type UpdateBookRequest struct {
	Name      *string `json:"name" validate:"omitnil,min=1,max=255"`
	Price     *string `json:"price" validate:"omitnil,price"`
	AutorName *string `json:"autor_name" validate:"omitnil,min=1,max=255"`
}

// ListBooks returns the annotated books matching req.
func (s *BookService) ListBooks(ctx context.Context, req ListBooksRequest) ([]*domain.AnnotatedBook, error) {
	q := store.BookQuery{
		Search:   store.SplitSearchTerms(req.Search),
		Ordering: store.ParseOrdering(req.Ordering),
	}

	if raw := strings.TrimSpace(req.Price); raw != "" {
		price, err := domain.ParsePrice(raw)
		if err != nil {
			return nil, domainerrors.FieldError("price", "Enter a number.")
		}
		q.Price = &price
	}

	books, err := s.store.ListAnnotatedBooks(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// GetBook returns one annotated book.
func (s *BookService) GetBook(ctx context.Context, bookID int64) (*domain.AnnotatedBook, error) {
	return s.store.GetAnnotatedBook(ctx, bookID)
}

// CreateBook creates a book owned by actor.
func (s *BookService) CreateBook(ctx context.Context, actor *domain.User, req CreateBookRequest) (*domain.AnnotatedBook, error) {
	if actor.IsAnonymous() {
		return nil, domainerrors.Unauthorized(domainerrors.MsgNotAuthenticated)
	}

	req.Name = strings.TrimSpace(req.Name)
	req.AutorName = strings.TrimSpace(req.AutorName)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	price, err := domain.ParsePrice(req.Price)
	if err != nil {
		return nil, domainerrors.FieldError("price", err.Error())
	}

	book := &domain.Book{
		Name:      req.Name,
		Price:     price,
		AutorName: req.AutorName,
		OwnerID:   actor.ID,
	}
	book.InitTimestamps()

	if err := s.store.CreateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	metrics.RecordBookOperation("create")
	s.logger.Info("Book created",
		"book_id", book.ID,
		"owner_id", actor.ID,
	)

	return &domain.AnnotatedBook{Book: *book}, nil
}

// ReplaceBook overwrites every editable field of a book the actor may
// modify. All fields are required, as for a new book.
func (s *BookService) ReplaceBook(ctx context.Context, actor *domain.User, bookID int64, req CreateBookRequest) (*domain.AnnotatedBook, error) {
	book, err := s.authorize(ctx, actor, bookID, "update")
	if err != nil {
		return nil, err
	}

	req.Name = strings.TrimSpace(req.Name)
	req.AutorName = strings.TrimSpace(req.AutorName)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	return s.apply(ctx, actor, book, UpdateBookRequest{
		Name:      &req.Name,
		Price:     &req.Price,
		AutorName: &req.AutorName,
	})
}

// UpdateBook applies the fields set in req to a book the actor may modify.
func (s *BookService) UpdateBook(ctx context.Context, actor *domain.User, bookID int64, req UpdateBookRequest) (*domain.AnnotatedBook, error) {
	book, err := s.authorize(ctx, actor, bookID, "update")
	if err != nil {
		return nil, err
	}

	req.Name = trimPtr(req.Name)
	req.AutorName = trimPtr(req.AutorName)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	return s.apply(ctx, actor, book, req)
}

func (s *BookService) apply(ctx context.Context, actor *domain.User, book *domain.Book, req UpdateBookRequest) (*domain.AnnotatedBook, error) {
	if req.Name != nil {
		book.Name = *req.Name
	}
	if req.AutorName != nil {
		book.AutorName = *req.AutorName
	}
	if req.Price != nil {
		price, err := domain.ParsePrice(*req.Price)
		if err != nil {
			return nil, domainerrors.FieldError("price", err.Error())
		}
		book.Price = price
	}
	book.Touch()

	if err := s.store.UpdateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}

	metrics.RecordBookOperation("update")
	s.logger.Info("Book updated", "book_id", book.ID, "user_id", actor.ID)

	return s.store.GetAnnotatedBook(ctx, book.ID)
}

// DeleteBook removes a book the actor may modify.
func (s *BookService) DeleteBook(ctx context.Context, actor *domain.User, bookID int64) error {
	if _, err := s.authorize(ctx, actor, bookID, "delete"); err != nil {
		return err
	}

	if err := s.store.DeleteBook(ctx, bookID); err != nil {
		return fmt.Errorf("delete book: %w", err)
	}

	metrics.RecordBookOperation("delete")
	s.logger.Info("Book deleted", "book_id", bookID, "user_id", actor.ID)
	return nil
}

// authorize loads the book and checks the owner-or-staff rule.
// A missing book wins over a permission failure.
func (s *BookService) authorize(ctx context.Context, actor *domain.User, bookID int64, op string) (*domain.Book, error) {
	if actor.IsAnonymous() {
		return nil, domainerrors.Unauthorized(domainerrors.MsgNotAuthenticated)
	}

	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	if !domain.CanModifyBook(actor, book) {
		metrics.RecordPermissionDenied(op)
		s.logger.Warn("Book modification denied",
			"operation", op,
			"book_id", bookID,
			"user_id", actor.ID,
		)
		return nil, domainerrors.Forbidden(domainerrors.MsgPermissionDenied)
	}
	return book, nil
}
