package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/hpfin/backend/internal/domain/shared"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// CompanyProvider lists the companies whose closing balances should advance.
type CompanyProvider interface {
	CompanyIDs(ctx context.Context) ([]int64, error)
}

// CatchUpTrigger queues every company on a cron schedule evaluated in business time,
// so companies nobody logs into still advance.
type CatchUpTrigger struct {
	schedule  string
	scheduler *ClosingScheduler
	companies CompanyProvider
	logger    *zap.Logger

	mu   sync.Mutex
	cron *cron.Cron
}

// NewCatchUpTrigger validates schedule, a standard five field cron expression.
func NewCatchUpTrigger(schedule string, scheduler *ClosingScheduler, companies CompanyProvider, logger *zap.Logger) (*CatchUpTrigger, error) {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("%w: catch-up schedule %q: %v", ErrInvalidConfig, schedule, err)
	}
	return &CatchUpTrigger{
		schedule:  schedule,
		scheduler: scheduler,
		companies: companies,
		logger:    logger,
	}, nil
}

// Start registers the schedule and starts the cron runner.
func (c *CatchUpTrigger) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cron != nil {
		return nil
	}

	runner := cron.New(cron.WithLocation(shared.BusinessLocation))
	if _, err := runner.AddFunc(c.schedule, func() { c.Run(ctx) }); err != nil {
		return fmt.Errorf("failed to register catch-up schedule: %w", err)
	}
	runner.Start()
	c.cron = runner

	c.logger.Info("Closing catch-up trigger started",
		zap.String("schedule", c.schedule),
		zap.String("location", shared.BusinessLocation.String()),
	)
	return nil
}

// Stop stops the cron runner and waits for a running trigger, bounded by ctx.
func (c *CatchUpTrigger) Stop(ctx context.Context) error {
	c.mu.Lock()
	runner := c.cron
	c.cron = nil
	c.mu.Unlock()
	if runner == nil {
		return nil
	}

	select {
	case <-runner.Stop().Done():
		c.logger.Info("Closing catch-up trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run queues a catch-up job for every company and returns how many were queued.
func (c *CatchUpTrigger) Run(ctx context.Context) int {
	ids, err := c.companies.CompanyIDs(ctx)
	if err != nil {
		c.logger.Error("Failed to list companies for closing catch-up", zap.Error(err))
		return 0
	}

	queued := 0
	for _, id := range ids {
		if _, err := c.scheduler.Submit(id, TriggerCatchUp); err != nil {
			c.logger.Error("Failed to queue closing catch-up",
				zap.Int64("company_id", id),
				zap.Error(err),
			)
			continue
		}
		queued++
	}
	c.logger.Info("Closing catch-up queued", zap.Int("companies", len(ids)), zap.Int("queued", queued))
	return queued
}
