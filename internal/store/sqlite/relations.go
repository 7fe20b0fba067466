package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/listenupapp/bookstore-server/internal/domain"
	"github.com/listenupapp/bookstore-server/internal/store"
)

// relationColumns must match the scan order in scanRelation.
const relationColumns = `id, user_id, book_id, liked, in_bookmarks, rate, created_at, updated_at`

func scanRelation(row scanner) (*domain.UserBookRelation, error) {
	var (
		r           domain.UserBookRelation
		liked       int
		inBookmarks int
		rate        sql.NullInt64
		createdAt   string
		updatedAt   string
	)

	err := row.Scan(
		&r.ID,
		&r.UserID,
		&r.BookID,
		&liked,
		&inBookmarks,
		&rate,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if r.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if r.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	r.Like = liked != 0
	r.InBookmarks = inBookmarks != 0
	if rate.Valid {
		v := int(rate.Int64)
		r.Rate = &v
	}
	return &r, nil
}

func getRelation(ctx context.Context, q querier, userID string, bookID int64) (*domain.UserBookRelation, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+relationColumns+` FROM user_book_relations WHERE user_id = ? AND book_id = ?`,
		userID, bookID)
	r, err := scanRelation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrRelationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get relation: %w", err)
	}
	return r, nil
}

// getOrCreateRelation inserts the default relation unless one exists, then reads it.
func getOrCreateRelation(ctx context.Context, q querier, userID string, bookID int64) (*domain.UserBookRelation, error) {
	now := formatTime(time.Now())
	_, err := q.ExecContext(ctx, `
		INSERT INTO user_book_relations (user_id, book_id, liked, in_bookmarks, rate, created_at, updated_at)
		VALUES (?, ?, 0, 0, NULL, ?, ?)
		ON CONFLICT (user_id, book_id) DO NOTHING`,
		userID, bookID, now, now)
	if isForeignKeyViolation(err) {
		return nil, store.ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("insert relation: %w", err)
	}
	return getRelation(ctx, q, userID, bookID)
}

// GetRelation returns the relation between a user and a book.
func (s *Store) GetRelation(ctx context.Context, userID string, bookID int64) (*domain.UserBookRelation, error) {
	return getRelation(ctx, s.db, userID, bookID)
}

// GetOrCreateRelation returns the relation between a user and a book,
// creating an empty one on first access.
func (s *Store) GetOrCreateRelation(ctx context.Context, userID string, bookID int64) (*domain.UserBookRelation, error) {
	return getOrCreateRelation(ctx, s.db, userID, bookID)
}

// PatchRelation gets or creates the relation and applies patch to it in a
// single transaction.
func (s *Store) PatchRelation(ctx context.Context, userID string, bookID int64, patch domain.RelationPatch) (*domain.UserBookRelation, error) {
	var rel *domain.UserBookRelation

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		r, err := getOrCreateRelation(ctx, tx, userID, bookID)
		if err != nil {
			return err
		}

		if !patch.Apply(r) {
			rel = r
			return nil
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE user_book_relations SET
				liked = ?,
				in_bookmarks = ?,
				rate = ?,
				updated_at = ?
			WHERE id = ?`,
			boolToInt(r.Like),
			boolToInt(r.InBookmarks),
			nullInt(r.Rate),
			formatTime(r.UpdatedAt),
			r.ID,
		)
		if err != nil {
			return fmt.Errorf("update relation: %w", err)
		}
		rel = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("relation patched",
		"user_id", userID,
		"book_id", bookID,
		"fields", patch.Fields(),
	)
	return rel, nil
}

// ListRelationsByBook returns every relation for a book, oldest first.
func (s *Store) ListRelationsByBook(ctx context.Context, bookID int64) ([]*domain.UserBookRelation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+relationColumns+` FROM user_book_relations WHERE book_id = ? ORDER BY id`,
		bookID)
	if err != nil {
		return nil, fmt.Errorf("list relations: %w", err)
	}
	defer rows.Close()

	var relations []*domain.UserBookRelation
	for rows.Next() {
		r, err := scanRelation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan relation: %w", err)
		}
		relations = append(relations, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate relations: %w", err)
	}
	return relations, nil
}
