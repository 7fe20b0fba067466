package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/listenupapp/bookstore-server/internal/domain"
	domainerrors "github.com/listenupapp/bookstore-server/internal/errors"
	"github.com/listenupapp/bookstore-server/internal/metrics"
	"github.com/listenupapp/bookstore-server/internal/store"
)

// RelationService manages each user's like, bookmark and rating per book.
type RelationService struct {
	store  store.Store
	logger *slog.Logger
}

// NewRelationService creates a new relation service.
func NewRelationService(store store.Store, logger *slog.Logger) *RelationService {
	return &RelationService{
		store:  store,
		logger: loggerOrDiscard(logger),
	}
}

// UpdateRelation applies patch to the actor's relation with a book,
// creating the relation on first use. The patch is validated before
// anything is written.
func (s *RelationService) UpdateRelation(ctx context.Context, actor *domain.User, bookID int64, patch domain.RelationPatch) (*domain.UserBookRelation, error) {
	if actor.IsAnonymous() {
		return nil, domainerrors.Unauthorized(domainerrors.MsgNotAuthenticated)
	}

	if err := validateRelationPatch(patch); err != nil {
		return nil, err
	}

	if _, err := s.store.GetBook(ctx, bookID); err != nil {
		return nil, err
	}

	rel, err := s.store.PatchRelation(ctx, actor.ID, bookID, patch)
	if err != nil {
		return nil, fmt.Errorf("patch relation: %w", err)
	}

	metrics.RecordRelationUpdate(patch.Fields())
	s.logger.Debug("Relation updated",
		"user_id", actor.ID,
		"book_id", bookID,
		"fields", patch.Fields(),
	)
	return rel, nil
}

// GetRelation returns the actor's relation with a book, creating the
// default relation if none exists yet.
func (s *RelationService) GetRelation(ctx context.Context, actor *domain.User, bookID int64) (*domain.UserBookRelation, error) {
	if actor.IsAnonymous() {
		return nil, domainerrors.Unauthorized(domainerrors.MsgNotAuthenticated)
	}
	if _, err := s.store.GetBook(ctx, bookID); err != nil {
		return nil, err
	}
	return s.store.GetOrCreateRelation(ctx, actor.ID, bookID)
}

func validateRelationPatch(patch domain.RelationPatch) error {
	if patch.Rate.Set && patch.Rate.Value != nil && !domain.ValidRate(*patch.Rate.Value) {
		return domainerrors.FieldError("rate", fmt.Sprintf("%q is not a valid choice.", fmt.Sprint(*patch.Rate.Value)))
	}
	return nil
}
