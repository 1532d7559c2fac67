package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"bookworm-backend/internal/domains/catalog/model"
	"bookworm-backend/internal/domains/catalog/repository"
	"bookworm-backend/internal/infrastructure/openlibrary"
	"bookworm-backend/internal/shared"
)

// enrichSweepBatchSize bounds one nightly sweep so a large backlog is
// spread across runs instead of hammering Open Library.
const enrichSweepBatchSize = 100

// OpenLibrarySearcher is the lookup slice this job needs.
type OpenLibrarySearcher interface {
	Search(ctx context.Context, query string) ([]openlibrary.SearchResult, error)
	GetWorkDetails(ctx context.Context, key string) (*openlibrary.WorkDetails, error)
}

// TaskEnqueuer is satisfied by *asynq.Client.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// EnrichHandler fills in catalog metadata from Open Library.
type EnrichHandler struct {
	bookRepo repository.BookRepository
	external OpenLibrarySearcher
	tasks    TaskEnqueuer
}

func NewEnrichHandler(
	bookRepo repository.BookRepository,
	external OpenLibrarySearcher,
	tasks TaskEnqueuer,
) *EnrichHandler {
	return &EnrichHandler{
		bookRepo: bookRepo,
		external: external,
		tasks:    tasks,
	}
}

// ProcessEnrichBook handles one catalog:enrich_book task. Fields the
// user already supplied are never overwritten; only gaps are filled.
func (h *EnrichHandler) ProcessEnrichBook(ctx context.Context, task *asynq.Task) error {
	var payload model.EnrichBookPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal EnrichBook payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	book, err := h.bookRepo.GetByID(ctx, payload.BookID)
	if err != nil {
		if errors.Is(err, model.ErrBookNotFound) {
			// Removed since enqueue; nothing to retry.
			log.Warn().Str("book_id", payload.BookID.String()).Msg("Book gone before enrichment")
			return nil
		}
		return fmt.Errorf("get book: %w", err)
	}

	if !book.NeedsEnrichment() {
		return nil
	}

	results, err := h.external.Search(ctx, book.Title+" "+book.Author)
	if err != nil {
		return fmt.Errorf("open library search: %w", err)
	}
	if len(results) == 0 {
		log.Info().
			Str("book_id", book.ID.String()).
			Str("title", book.Title).
			Msg("No Open Library match for enrichment")
		return nil
	}

	hit := results[0]
	changed := mergeMetadata(book, hit)

	// The synopsis only lives on the work record, not in search hits.
	if book.Synopsis == nil && hit.OpenLibraryKey != "" {
		details, err := h.external.GetWorkDetails(ctx, hit.OpenLibraryKey)
		if err != nil {
			log.Warn().Err(err).Str("key", hit.OpenLibraryKey).Msg("Work details lookup failed")
		} else if details.Description != nil {
			book.Synopsis = details.Description
			changed = true
		}
	}

	if !changed {
		return nil
	}

	book.UpdatedAt = time.Now()
	if err := h.bookRepo.UpdateMetadata(ctx, book); err != nil {
		return fmt.Errorf("update metadata: %w", err)
	}

	log.Info().
		Str("book_id", book.ID.String()).
		Str("title", book.Title).
		Msg("Book metadata enriched")

	return nil
}

// ProcessEnrichMissing handles the nightly sweep: every book still
// missing metadata gets its own enrichment task.
func (h *EnrichHandler) ProcessEnrichMissing(ctx context.Context, task *asynq.Task) error {
	books, err := h.bookRepo.ListMissingMetadata(ctx, enrichSweepBatchSize)
	if err != nil {
		return fmt.Errorf("list books missing metadata: %w", err)
	}

	enqueued := 0
	for _, book := range books {
		payload, err := json.Marshal(model.EnrichBookPayload{BookID: book.ID})
		if err != nil {
			continue
		}

		t := asynq.NewTask(shared.TypeEnrichBook, payload)
		if _, err := h.tasks.Enqueue(t, asynq.Queue(shared.QueueCatalog), asynq.MaxRetry(3)); err != nil {
			log.Error().Err(err).Str("book_id", book.ID.String()).Msg("Failed to enqueue enrichment")
			continue
		}
		enqueued++
	}

	log.Info().
		Int("candidates", len(books)).
		Int("enqueued", enqueued).
		Msg("Enrichment sweep completed")

	return nil
}

// mergeMetadata copies missing fields from a search hit onto the book.
// Returns false when nothing changed.
func mergeMetadata(book *model.Book, hit openlibrary.SearchResult) bool {
	changed := false

	if book.Pages == nil && hit.Pages != nil {
		book.Pages = hit.Pages
		changed = true
	}
	if book.CoverImageURL == nil && hit.CoverURL != nil {
		book.CoverImageURL = hit.CoverURL
		changed = true
	}
	if book.ISBN == nil && hit.ISBN != nil {
		book.ISBN = hit.ISBN
		changed = true
	}
	if book.Publisher == nil && hit.Publisher != nil {
		book.Publisher = hit.Publisher
		changed = true
	}
	if book.PublicationYear == nil && hit.PublicationYear != nil {
		book.PublicationYear = hit.PublicationYear
		changed = true
	}

	return changed
}
