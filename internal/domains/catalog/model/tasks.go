package model

import "github.com/google/uuid"

// EnrichBookPayload is the payload of a catalog:enrich_book task.
type EnrichBookPayload struct {
	BookID uuid.UUID `json:"book_id"`
}

// EnrichMissingPayload is the payload of the nightly sweep task.
type EnrichMissingPayload struct{}
