package shared

// Asynq task types
const (
	TypeEnrichBook            = "catalog:enrich_book"
	TypeEnrichMissingMetadata = "catalog:enrich_missing"
)

// Asynq queue names
const (
	QueueDefault = "default"
	QueueCatalog = "catalog"
)
