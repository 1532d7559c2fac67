package service

import (
	"context"

	"github.com/google/uuid"

	"bookworm-backend/internal/domains/library/model"
)

// BookReader is the catalog lookup this domain consumes. The library
// never creates or searches catalog entries; it only needs to know
// that the referenced book exists.
type BookReader interface {
	Exists(ctx context.Context, bookID uuid.UUID) (bool, error)
}

// Service is the Library Entry Manager: it owns the per-(user, book)
// tracking record and its status/progress/timestamp consistency.
type Service interface {
	AddToLibrary(ctx context.Context, userID uuid.UUID, req model.CreateEntryRequest) (*model.Entry, error)
	UpdateEntry(ctx context.Context, userID, entryID uuid.UUID, req model.UpdateEntryRequest) (*model.Entry, error)
	UpdateProgressByPage(ctx context.Context, userID, entryID uuid.UUID, req model.PageProgressRequest) (*model.Entry, error)
	RemoveFromLibrary(ctx context.Context, userID, entryID uuid.UUID) error
	ListLibrary(ctx context.Context, userID uuid.UUID, statusFilter *string) ([]*model.EntryWithBook, error)
	GetStats(ctx context.Context, userID uuid.UUID) (*model.Stats, error)
}
