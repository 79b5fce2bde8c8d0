package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQuotePDFJob(t *testing.T) {
	now := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

	job := NewQuotePDFJob("42", now)

	assert.NotEqual(t, uuid.Nil, job.ID)
	assert.Equal(t, JobKindQuotePDF, job.Kind)
	assert.Equal(t, "42", job.QuoteID)
	assert.Equal(t, JobStatusPending, job.Status)
	assert.Equal(t, now, job.CreatedAt)
	assert.Zero(t, job.Attempts)
}

func TestJob_FailThenComplete(t *testing.T) {
	now := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	job := NewQuotePDFJob("42", now)

	job.Fail(errors.New("renderer down"))
	assert.Equal(t, 1, job.Attempts)
	require.NotNil(t, job.LastError)
	assert.Equal(t, "renderer down", *job.LastError)
	assert.Equal(t, JobStatusPending, job.Status)

	job.Complete(now.Add(time.Minute))
	assert.Equal(t, 2, job.Attempts)
	assert.Equal(t, JobStatusProcessed, job.Status)
	assert.Nil(t, job.LastError)
	require.NotNil(t, job.ProcessedAt)
	assert.Equal(t, now.Add(time.Minute), *job.ProcessedAt)
}

func TestQuoteFilename(t *testing.T) {
	assert.Equal(t, "Quote_4876876000000612345.pdf", QuoteFilename("4876876000000612345"))
}
