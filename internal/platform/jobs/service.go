package jobs

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/komla9992-max/gestion-sub000/internal/domain/leave"
	"github.com/komla9992-max/gestion-sub000/internal/platform/db"
)

const JobLeaveSweep = "leave_sweep"

// Service runs background work on a single queue. The only scheduled
// job today is the leave status sweep, which walks approved and
// in-progress requests and advances the ones whose dates have passed.
type Service struct {
	DB     db.Querier
	Leaves *leave.Service
	logger zerolog.Logger
	queue  chan job
}

type job struct {
	Type string
	Run  func(context.Context) (any, error)
}

func New(q db.Querier, leaves *leave.Service, logger zerolog.Logger) *Service {
	return &Service{
		DB:     q,
		Leaves: leaves,
		logger: logger,
		queue:  make(chan job, 128),
	}
}

func (s *Service) Start(ctx context.Context, sweepInterval time.Duration) {
	go s.worker(ctx)
	if sweepInterval > 0 {
		go s.scheduleSweep(ctx, sweepInterval)
	}
}

func (s *Service) Enqueue(jobType string, run func(context.Context) (any, error)) {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
	default:
		s.logger.Warn().Str("jobType", jobType).Msg("job queue full")
	}
}

// RunNow executes a job inline, bypassing the queue. Handlers use it
// to force a sweep on demand.
func (s *Service) RunNow(ctx context.Context, jobType string, run func(context.Context) (any, error)) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

func (s *Service) SweepLeaves(ctx context.Context) (any, error) {
	return s.RunNow(ctx, JobLeaveSweep, s.sweep)
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				s.logger.Warn().Str("jobType", j.Type).Err(err).Msg("job run failed")
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID := ""
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (job_type, status)
    VALUES ($1,$2)
    RETURNING id
  `, j.Type, "running").Scan(&runID); err != nil {
		s.logger.Warn().Err(err).Msg("job run insert failed")
	}

	details, err := j.Run(ctx)
	status := "completed"
	if err != nil {
		status = "failed"
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		s.logger.Warn().Err(marshalErr).Msg("job details marshal failed")
		detailsJSON = []byte("{}")
	}
	if runID != "" {
		if _, updErr := s.DB.Exec(ctx, `
      UPDATE job_runs
      SET status = $1, details_json = $2, completed_at = now()
      WHERE id = $3
    `, status, detailsJSON, runID); updErr != nil {
			s.logger.Warn().Err(updErr).Msg("job run update failed")
		}
	}
	return details, err
}

func (s *Service) sweep(ctx context.Context) (any, error) {
	changed, err := s.Leaves.RecomputeAll(ctx, time.Now())
	return map[string]any{"changed": changed}, err
}

func (s *Service) scheduleSweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Enqueue(JobLeaveSweep, s.sweep)
		}
	}
}
