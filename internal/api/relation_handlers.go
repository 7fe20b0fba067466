package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/bookstore-server/internal/domain"
)

func (s *Server) registerRelationRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getRelation",
		Method:      http.MethodGet,
		Path:        "/relations/{book_id}",
		Summary:     "Get my relation to a book",
		Description: "Returns the caller's relation to the book, creating the default one on first use",
		Tags:        []string{"Relations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetRelation)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateRelation",
		Method:      http.MethodPatch,
		Path:        "/relations/{book_id}",
		Summary:     "Update my relation to a book",
		Description: "Sets like, in_bookmarks and rate for the caller and the given book. The relation is created on first use; fields missing from the body are left unchanged.",
		Tags:        []string{"Relations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateRelation)
}

// === DTOs ===

// RelationPatchRequest holds the relation fields to change.
type RelationPatchRequest struct {
	_           struct{}     `json:"-" additionalProperties:"true"`
	Like        *bool        `json:"like,omitempty" required:"false" doc:"Whether the caller likes the book"`
	InBookmarks *bool        `json:"in_bookmarks,omitempty" required:"false" doc:"Whether the book is bookmarked"`
	Rate        OptionalRate `json:"rate,omitempty" required:"false"`
}

// RelationIDInput identifies the caller's relation by book.
type RelationIDInput struct {
	BookID string `path:"book_id" doc:"Book ID"`
}

// UpdateRelationInput wraps the relation patch for Huma.
type UpdateRelationInput struct {
	BookID string               `path:"book_id" doc:"Book ID"`
	Body   RelationPatchRequest `required:"false"`
}

// RelationResponse is a relation as returned by the API.
type RelationResponse struct {
	Book        int64 `json:"book" doc:"Book ID"`
	Like        bool  `json:"like" doc:"Whether the caller likes the book"`
	InBookmarks bool  `json:"in_bookmarks" doc:"Whether the book is bookmarked"`
	Rate        *int  `json:"rate" doc:"Rating from 1 to 5, null when unrated"`
}

// RelationOutput wraps the relation response for Huma.
type RelationOutput struct {
	Body RelationResponse
}

// === Handlers ===

func (s *Server) handleUpdateRelation(ctx context.Context, input *UpdateRelationInput) (*RelationOutput, error) {
	user, err := RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	bookID, err := parseBookID(input.BookID)
	if err != nil {
		return nil, err
	}

	rel, err := s.services.Relation.UpdateRelation(ctx, user, bookID, domain.RelationPatch{
		Like:        input.Body.Like,
		InBookmarks: input.Body.InBookmarks,
		Rate:        input.Body.Rate.toDomain(),
	})
	if err != nil {
		return nil, err
	}

	return &RelationOutput{Body: toRelationResponse(rel)}, nil
}

func (s *Server) handleGetRelation(ctx context.Context, input *RelationIDInput) (*RelationOutput, error) {
	user, err := RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	bookID, err := parseBookID(input.BookID)
	if err != nil {
		return nil, err
	}

	rel, err := s.services.Relation.GetRelation(ctx, user, bookID)
	if err != nil {
		return nil, err
	}
	return &RelationOutput{Body: toRelationResponse(rel)}, nil
}

func toRelationResponse(rel *domain.UserBookRelation) RelationResponse {
	return RelationResponse{
		Book:        rel.BookID,
		Like:        rel.Like,
		InBookmarks: rel.InBookmarks,
		Rate:        rel.Rate,
	}
}
