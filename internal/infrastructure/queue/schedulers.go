package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	catalogModel "bookworm-backend/internal/domains/catalog/model"
	"bookworm-backend/internal/shared"
	"bookworm-backend/pkg/logger"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(redisAddress, redisPassword string, redisDB int) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{
			Addr:     redisAddress,
			Password: redisPassword,
			DB:       redisDB,
		},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{scheduler: scheduler}
}

// RegisterJobs wires all recurring jobs.
func (s *Scheduler) RegisterJobs() error {
	return s.registerEnrichMissingMetadataJob()
}

// ================================================
// JOB: Enrich books missing metadata (Daily at 3 AM)
// ================================================
// Catches books whose enqueue-time enrichment failed or whose Open
// Library record has since been completed.
func (s *Scheduler) registerEnrichMissingMetadataJob() error {
	payload, err := json.Marshal(catalogModel.EnrichMissingPayload{})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeEnrichMissingMetadata, payload)

	_, err = s.scheduler.Register(
		"0 3 * * *", // Daily at 3 AM
		task,
		asynq.Queue(shared.QueueCatalog),
		asynq.MaxRetry(1),
		asynq.Timeout(10*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register EnrichMissingMetadata job", err)
		return err
	}

	logger.Info("Registered EnrichMissingMetadata: daily at 3 AM", map[string]interface{}{})
	return nil
}

// Run blocks until the scheduler is stopped.
func (s *Scheduler) Run() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
