package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/bookstore-server/internal/domain"
	"github.com/listenupapp/bookstore-server/internal/service"
	"github.com/listenupapp/bookstore-server/internal/store"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBooks",
		Method:      http.MethodGet,
		Path:        "/books",
		Summary:     "List books",
		Description: "Returns every book with its like count and average rating. Supports exact price filtering, search over name and author, and ordering by price or autor_name.",
		Tags:        []string{"Books"},
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createBook",
		Method:        http.MethodPost,
		Path:          "/books",
		Summary:       "Create book",
		Description:   "Creates a book owned by the caller",
		Tags:          []string{"Books"},
		DefaultStatus: http.StatusCreated,
		Security:      []map[string][]string{{"bearer": {}}},
	}, s.handleCreateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        "/books/{id}",
		Summary:     "Get book",
		Tags:        []string{"Books"},
	}, s.handleGetBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "replaceBook",
		Method:      http.MethodPut,
		Path:        "/books/{id}",
		Summary:     "Replace book",
		Description: "Overwrites every field. Only the owner or staff may do this.",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleReplaceBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBook",
		Method:      http.MethodPatch,
		Path:        "/books/{id}",
		Summary:     "Update book",
		Description: "Updates the fields present in the body. Only the owner or staff may do this.",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateBook)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteBook",
		Method:        http.MethodDelete,
		Path:          "/books/{id}",
		Summary:       "Delete book",
		Tags:          []string{"Books"},
		DefaultStatus: http.StatusNoContent,
		Security:      []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteBook)
}

// === DTOs ===

// ListBooksInput contains the list query parameters.
type ListBooksInput struct {
	Price    string `query:"price" doc:"Exact price, e.g. 1000 or 1000.00"`
	Search   string `query:"search" doc:"Terms matched against name and autor_name"`
	Ordering string `query:"ordering" doc:"price, autor_name, or either prefixed with - for descending; comma-separated"`
}

// BookIDInput identifies a book by path.
type BookIDInput struct {
	ID string `path:"id" doc:"Book ID"`
}

// BookRequest is the body for creating or replacing a book. Fields are
// optional in the schema so missing ones are reported per field.
type BookRequest struct {
	_         struct{}   `json:"-" additionalProperties:"true"`
	Name      string     `json:"name,omitempty" required:"false" maxLength:"255" doc:"Book title"`
	Price     PriceInput `json:"price,omitempty" required:"false"`
	AutorName string     `json:"autor_name,omitempty" required:"false" maxLength:"255" doc:"Author name"`
}

// BookPatchRequest is the body for a partial update.
type BookPatchRequest struct {
	_         struct{}    `json:"-" additionalProperties:"true"`
	Name      *string     `json:"name,omitempty" required:"false" maxLength:"255" doc:"Book title"`
	Price     *PriceInput `json:"price,omitempty" required:"false"`
	AutorName *string     `json:"autor_name,omitempty" required:"false" maxLength:"255" doc:"Author name"`
}

// CreateBookInput wraps the create request for Huma.
type CreateBookInput struct {
	Body BookRequest
}

// ReplaceBookInput wraps the replace request for Huma.
type ReplaceBookInput struct {
	ID   string `path:"id" doc:"Book ID"`
	Body BookRequest
}

// UpdateBookInput wraps the partial update request for Huma.
type UpdateBookInput struct {
	ID   string           `path:"id" doc:"Book ID"`
	Body BookPatchRequest `required:"false"`
}

// BookResponse is a book as returned by the API.
type BookResponse struct {
	ID             int64   `json:"id" doc:"Book ID"`
	Name           string  `json:"name" doc:"Book title"`
	Price          string  `json:"price" doc:"Price with two decimal places"`
	AutorName      string  `json:"autor_name" doc:"Author name"`
	Owner          *string `json:"owner" doc:"Owner user ID, null for unowned books"`
	LikesCount     int64   `json:"likes_count" doc:"Number of users who liked the book"`
	AnnotatedLikes int64   `json:"annotated_likes" doc:"Same as likes_count"`
	Rating         *string `json:"rating" doc:"Average rating rounded to two places, null when unrated"`
}

// BookOutput wraps a single book for Huma.
type BookOutput struct {
	Body BookResponse
}

// BookListOutput wraps a list of books for Huma.
type BookListOutput struct {
	Body []BookResponse
}

// === Handlers ===

func (s *Server) handleListBooks(ctx context.Context, input *ListBooksInput) (*BookListOutput, error) {
	books, err := s.services.Book.ListBooks(ctx, service.ListBooksRequest{
		Price:    input.Price,
		Search:   input.Search,
		Ordering: input.Ordering,
	})
	if err != nil {
		return nil, err
	}

	resp := make([]BookResponse, 0, len(books))
	for _, b := range books {
		resp = append(resp, toBookResponse(b))
	}
	return &BookListOutput{Body: resp}, nil
}

func (s *Server) handleGetBook(ctx context.Context, input *BookIDInput) (*BookOutput, error) {
	id, err := parseBookID(input.ID)
	if err != nil {
		return nil, err
	}

	book, err := s.services.Book.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: toBookResponse(book)}, nil
}

func (s *Server) handleCreateBook(ctx context.Context, input *CreateBookInput) (*BookOutput, error) {
	book, err := s.services.Book.CreateBook(ctx, CurrentUser(ctx), service.CreateBookRequest{
		Name:      input.Body.Name,
		Price:     input.Body.Price.String(),
		AutorName: input.Body.AutorName,
	})
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: toBookResponse(book)}, nil
}

func (s *Server) handleReplaceBook(ctx context.Context, input *ReplaceBookInput) (*BookOutput, error) {
	id, err := parseBookID(input.ID)
	if err != nil {
		return nil, err
	}

	book, err := s.services.Book.ReplaceBook(ctx, CurrentUser(ctx), id, service.CreateBookRequest{
		Name:      input.Body.Name,
		Price:     input.Body.Price.String(),
		AutorName: input.Body.AutorName,
	})
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: toBookResponse(book)}, nil
}

func (s *Server) handleUpdateBook(ctx context.Context, input *UpdateBookInput) (*BookOutput, error) {
	id, err := parseBookID(input.ID)
	if err != nil {
		return nil, err
	}

	req := service.UpdateBookRequest{
		Name:      input.Body.Name,
		AutorName: input.Body.AutorName,
	}
	if input.Body.Price != nil {
		price := input.Body.Price.String()
		req.Price = &price
	}

	book, err := s.services.Book.UpdateBook(ctx, CurrentUser(ctx), id, req)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: toBookResponse(book)}, nil
}

func (s *Server) handleDeleteBook(ctx context.Context, input *BookIDInput) (*struct{}, error) {
	id, err := parseBookID(input.ID)
	if err != nil {
		return nil, err
	}

	if err := s.services.Book.DeleteBook(ctx, CurrentUser(ctx), id); err != nil {
		return nil, err
	}
	return nil, nil
}

// === Helpers ===

// parseBookID treats anything that is not a positive integer as a missing
// book, the way a URL pattern that never matches would.
func parseBookID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, store.ErrBookNotFound
	}
	return id, nil
}

func toBookResponse(b *domain.AnnotatedBook) BookResponse {
	resp := BookResponse{
		ID:             b.ID,
		Name:           b.Name,
		Price:          b.Price.String(),
		AutorName:      b.AutorName,
		LikesCount:     b.AnnotatedLikes,
		AnnotatedLikes: b.AnnotatedLikes,
	}
	if b.HasOwner() {
		owner := b.OwnerID
		resp.Owner = &owner
	}
	if b.Rating != nil {
		rating := b.Rating.String()
		resp.Rating = &rating
	}
	return resp
}
