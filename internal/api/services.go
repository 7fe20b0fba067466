package api

import "github.com/listenupapp/bookstore-server/internal/service"

// Services groups the business logic used by the API server.
type Services struct {
	Auth     *service.AuthService
	Book     *service.BookService
	Relation *service.RelationService
}
