package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"bookworm-backend/internal/domains/catalog/model"
	"bookworm-backend/internal/domains/catalog/repository"
	"bookworm-backend/internal/infrastructure/openlibrary"
	"bookworm-backend/internal/shared"
	"bookworm-backend/pkg/logger"
)

const listBooksLimit = 50

// =====================================================
// SERVICE IMPLEMENTATION
// =====================================================

type catalogService struct {
	bookRepo repository.BookRepository
	external OpenLibrarySearcher
	tasks    TaskEnqueuer
	now      func() time.Time
}

func NewCatalogService(
	bookRepo repository.BookRepository,
	external OpenLibrarySearcher,
	tasks TaskEnqueuer,
) Service {
	return &catalogService{
		bookRepo: bookRepo,
		external: external,
		tasks:    tasks,
		now:      time.Now,
	}
}

// =====================================================
// SEARCH (Open Library proxy)
// =====================================================

func (s *catalogService) Search(ctx context.Context, query string) ([]openlibrary.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, model.NewSearchQueryMissingError()
	}

	results, err := s.external.Search(ctx, query)
	if err != nil {
		return nil, model.NewUpstreamFailureError(err)
	}

	return results, nil
}

func (s *catalogService) GetDetails(ctx context.Context, key string) (*openlibrary.WorkDetails, error) {
	if strings.TrimSpace(key) == "" {
		return nil, model.NewSearchQueryMissingError()
	}

	details, err := s.external.GetWorkDetails(ctx, key)
	if err != nil {
		return nil, model.NewUpstreamFailureError(err)
	}

	return details, nil
}

// =====================================================
// ADD BOOK
// =====================================================

func (s *catalogService) AddBook(ctx context.Context, req model.CreateBookRequest) (*model.AddBookResult, error) {
	// Step 1: Validate request
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidBookError(err.Error())
	}

	// Step 2: Dedup on (title, author); an existing row is returned
	// unchanged rather than duplicated.
	existing, err := s.bookRepo.GetByTitleAndAuthor(ctx, req.Title, req.Author)
	if err == nil {
		return &model.AddBookResult{Book: existing, Created: false}, nil
	}
	if !errors.Is(err, model.ErrBookNotFound) {
		return nil, fmt.Errorf("failed to check existing book: %w", err)
	}

	// Step 3: Insert
	book := model.NewBook(req, s.now())
	if err := s.bookRepo.Create(ctx, book); err != nil {
		return nil, fmt.Errorf("failed to add book: %w", err)
	}

	// Step 4: Kick off background enrichment for missing metadata.
	// Failure to enqueue never fails the request.
	if book.NeedsEnrichment() {
		s.enqueueEnrichment(book.ID)
	}

	return &model.AddBookResult{Book: book, Created: true}, nil
}

func (s *catalogService) enqueueEnrichment(bookID uuid.UUID) {
	payload, err := json.Marshal(model.EnrichBookPayload{BookID: bookID})
	if err != nil {
		logger.Error("Failed to marshal enrichment payload", err)
		return
	}

	task := asynq.NewTask(shared.TypeEnrichBook, payload)
	if _, err := s.tasks.Enqueue(task, asynq.Queue(shared.QueueCatalog), asynq.MaxRetry(3)); err != nil {
		logger.Error("Failed to enqueue book enrichment", err)
	}
}

// =====================================================
// LIST / GET
// =====================================================

func (s *catalogService) ListBooks(ctx context.Context) ([]*model.Book, error) {
	books, err := s.bookRepo.List(ctx, listBooksLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}

	return books, nil
}

func (s *catalogService) GetBook(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrBookNotFound) {
			return nil, model.NewBookNotFoundError()
		}
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	return book, nil
}

// Exists implements the lookup the library domain depends on.
func (s *catalogService) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.bookRepo.Exists(ctx, id)
}
