// Package domain defines the PDF artifact jobs and documents produced for accepted quotes.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// JobKind identifies the work a job performs.
type JobKind string

// JobStatus represents the status of an artifact job.
type JobStatus string

const (
	// JobKindQuotePDF renders the quote page and attaches it to the CRM record.
	JobKindQuotePDF JobKind = "quote_pdf"

	JobStatusPending   JobStatus = "pending"
	JobStatusProcessed JobStatus = "processed"
	JobStatusFailed    JobStatus = "failed"
)

// Job is one unit of queued artifact work. Jobs live only in memory.
type Job struct {
	ID          uuid.UUID
	Kind        JobKind
	QuoteID     string
	Status      JobStatus
	Attempts    int
	LastError   *string
	ProcessedAt *time.Time
	CreatedAt   time.Time
}

// NewQuotePDFJob creates a pending job for quoteID.
func NewQuotePDFJob(quoteID string, now time.Time) *Job {
	return &Job{
		ID:        uuid.Must(uuid.NewV7()),
		Kind:      JobKindQuotePDF,
		QuoteID:   quoteID,
		Status:    JobStatusPending,
		CreatedAt: now,
	}
}

// Fail records a failed attempt.
func (j *Job) Fail(err error) {
	j.Attempts++
	msg := err.Error()
	j.LastError = &msg
}

// Complete marks the job processed at now.
func (j *Job) Complete(now time.Time) {
	j.Attempts++
	j.Status = JobStatusProcessed
	j.LastError = nil
	j.ProcessedAt = &now
}
