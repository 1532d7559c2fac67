package main

import (
	"github.com/hibiken/asynq"

	catalogJob "bookworm-backend/internal/domains/catalog/job"
	"bookworm-backend/internal/shared"
	"bookworm-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	enrich *catalogJob.EnrichHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		enrich: catalogJob.NewEnrichHandler(c.BookRepo, c.OpenLibrary, c.AsynqClient),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeEnrichBook, h.enrich.ProcessEnrichBook)
	mux.HandleFunc(shared.TypeEnrichMissingMetadata, h.enrich.ProcessEnrichMissing)
}
