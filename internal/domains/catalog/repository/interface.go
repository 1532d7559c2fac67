package repository

import (
	"context"

	"github.com/google/uuid"

	"bookworm-backend/internal/domains/catalog/model"
)

// BookRepository is the persistence port for the local catalog.
type BookRepository interface {
	Create(ctx context.Context, book *model.Book) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error)
	GetByTitleAndAuthor(ctx context.Context, title, author string) (*model.Book, error)
	List(ctx context.Context, limit int) ([]*model.Book, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	UpdateMetadata(ctx context.Context, book *model.Book) error
	ListMissingMetadata(ctx context.Context, limit int) ([]*model.Book, error)
}
