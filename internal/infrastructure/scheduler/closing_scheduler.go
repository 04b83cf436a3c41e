// Package scheduler runs closing balance jobs on a supervised worker pool
// and triggers them nightly for every company.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Config holds worker pool configuration.
type Config struct {
	Workers       int
	QueueSize     int
	JobTimeout    time.Duration
	RetryAttempts int // extra attempts after a failure; 0 disables retries
	RetryDelay    time.Duration
}

// DefaultConfig returns two workers, a 100 job queue, a 5 minute timeout and no retries.
func DefaultConfig() Config {
	return Config{
		Workers:    2,
		QueueSize:  100,
		JobTimeout: 5 * time.Minute,
		RetryDelay: 30 * time.Second,
	}
}

func (c Config) validate() error {
	if c.Workers <= 0 || c.QueueSize <= 0 || c.JobTimeout <= 0 || c.RetryAttempts < 0 {
		return fmt.Errorf("%w: %+v", ErrInvalidConfig, c)
	}
	return nil
}

// ClosingScheduler queues closing jobs and runs them on a fixed set of workers.
// A company with a job still waiting in the queue is not queued twice.
type ClosingScheduler struct {
	config   Config
	executor JobExecutor
	logger   *zap.Logger

	jobs      chan *Job
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	queued    map[int64]uuid.UUID
}

// NewClosingScheduler creates a stopped scheduler.
func NewClosingScheduler(config Config, executor JobExecutor, logger *zap.Logger) (*ClosingScheduler, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	return &ClosingScheduler{
		config:   config,
		executor: executor,
		logger:   logger,
	}, nil
}

// Start launches the workers on a fresh queue. Calling Start on a running
// scheduler is a no-op; a stopped scheduler can be started again.
func (s *ClosingScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}
	s.isRunning = true
	s.jobs = make(chan *Job, s.config.QueueSize)
	s.queued = make(map[int64]uuid.UUID)

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	for i := 0; i < s.config.Workers; i++ {
		s.wg.Add(1)
		go s.worker(ctx, s.jobs, i)
	}

	s.logger.Info("Closing scheduler started",
		zap.Int("workers", s.config.Workers),
		zap.Duration("job_timeout", s.config.JobTimeout),
		zap.Int("retry_attempts", s.config.RetryAttempts),
	)
	return nil
}

// Stop cancels running jobs and waits for the workers, bounded by ctx.
func (s *ClosingScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.cancel()
	close(s.jobs)
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Closing scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Closing scheduler stop timed out")
		return ctx.Err()
	}
}

// Submit queues a closing run for companyID and returns the job id.
// If that company already has a job waiting, its id is returned instead.
func (s *ClosingScheduler) Submit(companyID int64, trigger Trigger) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return uuid.Nil, ErrSchedulerNotRunning
	}
	if id, ok := s.queued[companyID]; ok {
		s.logger.Debug("Closing job already queued",
			zap.String("job_id", id.String()),
			zap.Int64("company_id", companyID),
		)
		return id, nil
	}

	job := NewJob(companyID, trigger)
	select {
	case s.jobs <- job:
		s.queued[companyID] = job.ID
		s.logger.Debug("Closing job submitted",
			zap.String("job_id", job.ID.String()),
			zap.Int64("company_id", companyID),
			zap.String("trigger", string(trigger)),
		)
		return job.ID, nil
	default:
		return uuid.Nil, ErrJobQueueFull
	}
}

func (s *ClosingScheduler) worker(ctx context.Context, jobs <-chan *Job, workerID int) {
	defer s.wg.Done()
	for job := range jobs {
		s.dequeue(job)
		if ctx.Err() != nil {
			continue
		}
		s.processJob(ctx, job, workerID)
	}
}

func (s *ClosingScheduler) dequeue(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.queued[job.CompanyID] == job.ID {
		delete(s.queued, job.CompanyID)
	}
}

func (s *ClosingScheduler) processJob(ctx context.Context, job *Job, workerID int) {
	log := s.logger.With(
		zap.Int("worker_id", workerID),
		zap.String("job_id", job.ID.String()),
		zap.Int64("company_id", job.CompanyID),
		zap.String("trigger", string(job.Trigger)),
	)

	for {
		job.Start()
		err := s.execute(ctx, job)
		if err == nil {
			job.Complete()
			log.Info("Closing job completed",
				zap.Int("attempt", job.Attempts),
				zap.Duration("duration", job.CompletedAt.Sub(*job.StartedAt)),
			)
			return
		}

		job.Fail(err)
		log.Error("Closing job failed", zap.Int("attempt", job.Attempts), zap.Error(err))
		if job.Attempts > s.config.RetryAttempts {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(s.config.RetryDelay):
			log.Info("Retrying closing job", zap.Int("attempt", job.Attempts+1))
		}
	}
}

// execute runs one attempt under the job timeout. A panicking executor fails the job.
func (s *ClosingScheduler) execute(ctx context.Context, job *Job) (err error) {
	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("closing job panicked: %v", r)
		}
	}()
	return s.executor.Execute(jobCtx, job)
}
