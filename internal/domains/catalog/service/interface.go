package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"bookworm-backend/internal/domains/catalog/model"
	"bookworm-backend/internal/infrastructure/openlibrary"
)

// OpenLibrarySearcher is the slice of the Open Library client this
// domain consumes.
type OpenLibrarySearcher interface {
	Search(ctx context.Context, query string) ([]openlibrary.SearchResult, error)
	GetWorkDetails(ctx context.Context, key string) (*openlibrary.WorkDetails, error)
}

// TaskEnqueuer is satisfied by *asynq.Client.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Service owns the local book catalog and its Open Library mirror.
type Service interface {
	Search(ctx context.Context, query string) ([]openlibrary.SearchResult, error)
	GetDetails(ctx context.Context, key string) (*openlibrary.WorkDetails, error)
	AddBook(ctx context.Context, req model.CreateBookRequest) (*model.AddBookResult, error)
	ListBooks(ctx context.Context) ([]*model.Book, error)
	GetBook(ctx context.Context, id uuid.UUID) (*model.Book, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
