package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/listenupapp/bookstore-server/internal/domain"
	"github.com/listenupapp/bookstore-server/internal/store"
)

// bookColumns must match the scan order in scanBook.
const bookColumns = `b.id, b.created_at, b.updated_at, b.name, b.price_cents, b.autor_name, b.owner_id`

// annotatedBookSelect joins every relation of a book to compute its
// like count and the sum and count of its ratings in one pass.
const annotatedBookSelect = `SELECT ` + bookColumns + `,
	COUNT(CASE WHEN r.liked = 1 THEN 1 END),
	COALESCE(SUM(r.rate), 0),
	COUNT(r.rate)
FROM books b
LEFT JOIN user_book_relations r ON r.book_id = b.id`

type scanner interface {
	Scan(dest ...any) error
}

// bookRow holds the raw columns of a book before conversion.
type bookRow struct {
	book      domain.Book
	createdAt string
	updatedAt string
	price     int64
	ownerID   sql.NullString
}

// dest returns scan targets in bookColumns order.
func (r *bookRow) dest() []any {
	return []any{
		&r.book.ID,
		&r.createdAt,
		&r.updatedAt,
		&r.book.Name,
		&r.price,
		&r.book.AutorName,
		&r.ownerID,
	}
}

func (r *bookRow) finish() (domain.Book, error) {
	var err error
	if r.book.CreatedAt, err = parseTime(r.createdAt); err != nil {
		return domain.Book{}, fmt.Errorf("parse created_at: %w", err)
	}
	if r.book.UpdatedAt, err = parseTime(r.updatedAt); err != nil {
		return domain.Book{}, fmt.Errorf("parse updated_at: %w", err)
	}
	r.book.Price = domain.Price(r.price)
	r.book.OwnerID = r.ownerID.String
	return r.book, nil
}

func scanBook(row scanner) (*domain.Book, error) {
	var r bookRow
	if err := row.Scan(r.dest()...); err != nil {
		return nil, err
	}
	b, err := r.finish()
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func scanAnnotatedBook(row scanner) (*domain.AnnotatedBook, error) {
	var (
		r                  bookRow
		likes              int64
		rateSum, rateCount int64
	)
	dest := append(r.dest(), &likes, &rateSum, &rateCount)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	b, err := r.finish()
	if err != nil {
		return nil, err
	}
	return &domain.AnnotatedBook{
		Book:           b,
		AnnotatedLikes: likes,
		Rating:         domain.NewRating(rateSum, rateCount),
	}, nil
}

// CreateBook inserts a book and assigns its ID.
func (s *Store) CreateBook(ctx context.Context, book *domain.Book) error {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO books (created_at, updated_at, name, price_cents, autor_name, owner_id)
		VALUES (?, ?, ?, ?, ?, ?)`,
		formatTime(book.CreatedAt),
		formatTime(book.UpdatedAt),
		book.Name,
		book.Price.Cents(),
		book.AutorName,
		nullString(book.OwnerID),
	)
	if isForeignKeyViolation(err) {
		return store.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("insert book: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	book.ID = id
	return nil
}

// GetBook retrieves a book without aggregates.
func (s *Store) GetBook(ctx context.Context, id int64) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+bookColumns+` FROM books b WHERE b.id = ?`, id)
	b, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	return b, nil
}

// GetAnnotatedBook retrieves a book with its like count and rating.
func (s *Store) GetAnnotatedBook(ctx context.Context, id int64) (*domain.AnnotatedBook, error) {
	row := s.db.QueryRowContext(ctx, annotatedBookSelect+` WHERE b.id = ? GROUP BY b.id`, id)
	ab, err := scanAnnotatedBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get annotated book: %w", err)
	}
	return ab, nil
}

// ListAnnotatedBooks lists books matching q with their aggregates.
func (s *Store) ListAnnotatedBooks(ctx context.Context, q store.BookQuery) ([]*domain.AnnotatedBook, error) {
	query, args := buildBookListQuery(q)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	books := make([]*domain.AnnotatedBook, 0)
	for rows.Next() {
		ab, err := scanAnnotatedBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, ab)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate books: %w", err)
	}
	return books, nil
}

// buildBookListQuery renders the filter, search and ordering of q.
func buildBookListQuery(q store.BookQuery) (string, []any) {
	var (
		where []string
		args  []any
	)

	if q.Price != nil {
		where = append(where, "b.price_cents = ?")
		args = append(args, q.Price.Cents())
	}

	for _, term := range q.Search {
		pattern := likePattern(term)
		where = append(where,
			`(casefold(b.name) LIKE ? ESCAPE '\' OR casefold(b.autor_name) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}

	var sb strings.Builder
	sb.WriteString(annotatedBookSelect)
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}
	sb.WriteString(" GROUP BY b.id ORDER BY ")
	for _, term := range q.Ordering {
		sb.WriteString(term.SQL())
		sb.WriteString(", ")
	}
	sb.WriteString("b.id ASC")

	return sb.String(), args
}

// UpdateBook writes the book's mutable columns.
func (s *Store) UpdateBook(ctx context.Context, book *domain.Book) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE books SET
			updated_at = ?,
			name = ?,
			price_cents = ?,
			autor_name = ?,
			owner_id = ?
		WHERE id = ?`,
		formatTime(book.UpdatedAt),
		book.Name,
		book.Price.Cents(),
		book.AutorName,
		nullString(book.OwnerID),
		book.ID,
	)
	if isForeignKeyViolation(err) {
		return store.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrBookNotFound
	}
	return nil
}

// DeleteBook removes a book. Its relations go with it.
func (s *Store) DeleteBook(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrBookNotFound
	}
	return nil
}
