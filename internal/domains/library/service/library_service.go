package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bookworm-backend/internal/domains/library/model"
	"bookworm-backend/internal/domains/library/repository"
)

// =====================================================
// SERVICE IMPLEMENTATION
// =====================================================

type libraryService struct {
	entryRepo repository.EntryRepository
	books     BookReader
	now       func() time.Time
}

func NewLibraryService(entryRepo repository.EntryRepository, books BookReader) Service {
	return &libraryService{
		entryRepo: entryRepo,
		books:     books,
		now:       time.Now,
	}
}

// getOwnedEntry loads an entry and verifies it belongs to the caller.
// Foreign entries are reported as not found so their existence is not
// leaked across users.
func (s *libraryService) getOwnedEntry(ctx context.Context, userID, entryID uuid.UUID) (*model.Entry, error) {
	entry, err := s.entryRepo.GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, model.ErrEntryNotFound) {
			return nil, model.NewEntryNotFoundError()
		}
		return nil, fmt.Errorf("failed to get library entry: %w", err)
	}

	if entry.UserID != userID {
		return nil, model.NewEntryNotFoundError()
	}

	return entry, nil
}

// =====================================================
// ADD TO LIBRARY
// =====================================================

func (s *libraryService) AddToLibrary(
	ctx context.Context,
	userID uuid.UUID,
	req model.CreateEntryRequest,
) (*model.Entry, error) {
	// Step 1: Validate request
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidStatusError()
	}

	// Step 2: The referenced book must already exist in the catalog
	exists, err := s.books.Exists(ctx, req.BookID)
	if err != nil {
		return nil, fmt.Errorf("failed to check book: %w", err)
	}
	if !exists {
		return nil, model.NewBookNotFoundError()
	}

	// Step 3: Build and persist the entry. Uniqueness of the
	// (user, book) pair is decided by the store's constraint.
	entry := model.NewEntry(userID, req.BookID, model.Status(req.Status), req.FilePath, req.FileFormat, s.now())

	if err := s.entryRepo.Create(ctx, entry); err != nil {
		if errors.Is(err, model.ErrAlreadyInLibrary) {
			return nil, model.NewAlreadyInLibraryError()
		}
		return nil, fmt.Errorf("failed to add book to library: %w", err)
	}

	return entry, nil
}

// =====================================================
// UPDATE ENTRY
// =====================================================

func (s *libraryService) UpdateEntry(
	ctx context.Context,
	userID, entryID uuid.UUID,
	req model.UpdateEntryRequest,
) (*model.Entry, error) {
	// Step 1: Validate request
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidStatusError()
	}

	// Step 2: Load the current row
	entry, err := s.getOwnedEntry(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}

	// Step 3: Apply the partial update and its status side effects
	if err := entry.Apply(req, s.now()); err != nil {
		return nil, model.NewInvalidStatusError()
	}

	// Step 4: Persist
	if err := s.entryRepo.Update(ctx, entry); err != nil {
		if errors.Is(err, model.ErrEntryNotFound) {
			return nil, model.NewEntryNotFoundError()
		}
		return nil, fmt.Errorf("failed to update library entry: %w", err)
	}

	return entry, nil
}

// =====================================================
// UPDATE PROGRESS BY PAGE
// =====================================================

func (s *libraryService) UpdateProgressByPage(
	ctx context.Context,
	userID, entryID uuid.UUID,
	req model.PageProgressRequest,
) (*model.Entry, error) {
	// Step 1: Validate page bounds
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Step 2: Load the current row
	entry, err := s.getOwnedEntry(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}

	// Step 3: Convert pages to a percentage; a completed book is
	// finished automatically on this path only.
	if err := entry.ApplyPageProgress(req.CurrentPage, req.TotalPages, req.Location, s.now()); err != nil {
		return nil, model.NewInvalidProgressError(err.Error())
	}

	// Step 4: Persist
	if err := s.entryRepo.Update(ctx, entry); err != nil {
		if errors.Is(err, model.ErrEntryNotFound) {
			return nil, model.NewEntryNotFoundError()
		}
		return nil, fmt.Errorf("failed to update reading progress: %w", err)
	}

	return entry, nil
}

// =====================================================
// REMOVE FROM LIBRARY
// =====================================================

func (s *libraryService) RemoveFromLibrary(ctx context.Context, userID, entryID uuid.UUID) error {
	if _, err := s.getOwnedEntry(ctx, userID, entryID); err != nil {
		return err
	}

	if err := s.entryRepo.Delete(ctx, entryID); err != nil {
		if errors.Is(err, model.ErrEntryNotFound) {
			return model.NewEntryNotFoundError()
		}
		return fmt.Errorf("failed to remove book from library: %w", err)
	}

	return nil
}

// =====================================================
// LIST LIBRARY
// =====================================================

func (s *libraryService) ListLibrary(
	ctx context.Context,
	userID uuid.UUID,
	statusFilter *string,
) ([]*model.EntryWithBook, error) {
	var status *model.Status
	if statusFilter != nil && *statusFilter != "" {
		st := model.Status(*statusFilter)
		if !st.IsValid() {
			return nil, model.NewInvalidStatusError()
		}
		status = &st
	}

	entries, err := s.entryRepo.ListByUser(ctx, userID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list library: %w", err)
	}

	return entries, nil
}

// =====================================================
// STATS
// =====================================================

func (s *libraryService) GetStats(ctx context.Context, userID uuid.UUID) (*model.Stats, error) {
	stats, err := s.entryRepo.Stats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get library stats: %w", err)
	}

	return stats, nil
}
