package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the status of a closing job
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// Trigger names what asked for a closing run.
type Trigger string

const (
	TriggerLogin   Trigger = "login"
	TriggerCatchUp Trigger = "catch_up"
	TriggerManual  Trigger = "manual"
)

// Job is one request to advance a company's closing balances.
type Job struct {
	ID          uuid.UUID
	CompanyID   int64
	Trigger     Trigger
	Status      JobStatus
	Error       string
	SubmittedAt time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
	Attempts    int
}

// NewJob creates a pending job.
func NewJob(companyID int64, trigger Trigger) *Job {
	return &Job{
		ID:          uuid.New(),
		CompanyID:   companyID,
		Trigger:     trigger,
		Status:      JobStatusPending,
		SubmittedAt: time.Now(),
	}
}

// Start marks the job as running
func (j *Job) Start() {
	now := time.Now()
	j.Status = JobStatusRunning
	j.StartedAt = &now
	j.Error = ""
	j.Attempts++
}

// Complete marks the job as successful
func (j *Job) Complete() {
	now := time.Now()
	j.Status = JobStatusSuccess
	j.CompletedAt = &now
}

// Fail marks the job as failed
func (j *Job) Fail(err error) {
	now := time.Now()
	j.Status = JobStatusFailed
	j.CompletedAt = &now
	j.Error = err.Error()
}

// JobExecutor runs a closing job.
type JobExecutor interface {
	Execute(ctx context.Context, job *Job) error
}

// ExecutorFunc adapts a function to JobExecutor.
type ExecutorFunc func(ctx context.Context, job *Job) error

// Execute calls f.
func (f ExecutorFunc) Execute(ctx context.Context, job *Job) error {
	return f(ctx, job)
}
