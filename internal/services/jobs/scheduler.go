package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ErdunE/mira-astrology-companion/internal/ports/jobs"
)

// Scheduler управляет запуском периодических джоб
type Scheduler struct {
	jobs    []jobs.Job
	retries []time.Duration
	log     *slog.Logger
	wg      sync.WaitGroup
}

// NewScheduler создаёт новый планировщик джоб, retries - паузы между повторами упавшего запуска
func NewScheduler(log *slog.Logger, retries ...time.Duration) *Scheduler {
	return &Scheduler{
		jobs:    make([]jobs.Job, 0),
		retries: retries,
		log:     log,
	}
}

// Register регистрирует джобу в планировщике
func (s *Scheduler) Register(job jobs.Job) {
	s.jobs = append(s.jobs, job)
	s.log.Debug("job registered", "job_name", job.Name(), "total_jobs", len(s.jobs))
}

// Start запускает все зарегистрированные джобы и не блокируется
func (s *Scheduler) Start(ctx context.Context) error {
	if len(s.jobs) == 0 {
		s.log.Warn("no jobs registered, scheduler not started")
		return nil
	}

	s.log.Info("starting job scheduler", "jobs_count", len(s.jobs))

	for _, job := range s.jobs {
		job := job
		jobName := job.Name()
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.runJob(ctx, job, jobName)
		}()
	}

	return nil
}

// Wait ждёт остановки всех джоб после отмены контекста
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// runJob запускает отдельную джобу в цикле
func (s *Scheduler) runJob(ctx context.Context, job jobs.Job, jobName string) {
	for {
		now := time.Now()
		nextRun := job.NextRun(now)

		timer := time.NewTimer(nextRun.Sub(now))

		select {
		case <-ctx.Done():
			timer.Stop()
			s.log.Info("job stopped by context", "job_name", jobName)
			return
		case <-timer.C:
			attemptErrors, err := s.executeJobWithRetry(ctx, job, jobName)
			if err != nil {
				s.log.Error("job failed after all retries",
					"job_name", jobName,
					"error", err,
					"attempt_errors", attemptErrors,
				)
			} else {
				s.log.Debug("job executed successfully", "job_name", jobName)
			}
		}
	}
}

// executeJobWithRetry выполняет джобу с повторами по s.retries
// Возвращает тексты ошибок всех попыток и финальную ошибку
func (s *Scheduler) executeJobWithRetry(ctx context.Context, job jobs.Job, jobName string) ([]string, error) {
	var attemptErrors []string

	// Первая попытка
	err := job.Run(ctx)
	if err == nil {
		return nil, nil
	}
	attemptErrors = append(attemptErrors, fmt.Sprintf("attempt 1: %s", err))

	for i, retryDelay := range s.retries {
		s.log.Warn("job execution failed, will retry",
			"job_name", jobName,
			"attempt", i+1,
			"retries_remaining", len(s.retries)-i,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return attemptErrors, ctx.Err()
		case <-time.After(retryDelay):
		}

		if err = job.Run(ctx); err == nil {
			return nil, nil
		}
		attemptErrors = append(attemptErrors, fmt.Sprintf("attempt %d: %s", i+2, err))
	}

	return attemptErrors, fmt.Errorf("all attempts failed (total attempts: %d): %w", 1+len(s.retries), err)
}
