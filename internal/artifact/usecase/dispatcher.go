package usecase

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/allisson/quotelink/internal/artifact/domain"
	"github.com/allisson/quotelink/internal/metrics"
	quoteDomain "github.com/allisson/quotelink/internal/quote/domain"
)

const queueName = "artifact"

// DispatcherConfig holds dispatcher configuration.
type DispatcherConfig struct {
	Workers       int
	QueueSize     int
	MaxAttempts   int
	RetryInterval time.Duration
	// JobTimeout bounds one attempt. In-flight attempts survive shutdown up to this limit.
	JobTimeout time.Duration
	Clock      func() time.Time
}

// Dispatcher runs artifact jobs on a fixed pool of worker goroutines fed by a buffered queue.
// Trigger never blocks: a full queue rejects the job.
type Dispatcher struct {
	config    DispatcherConfig
	processor JobProcessor
	metrics   metrics.BusinessMetrics
	logger    *slog.Logger

	queue  chan *domain.Job
	mu     sync.RWMutex
	closed bool
}

// NewDispatcher creates a dispatcher. Zero config values fall back to one worker, a queue of
// 64 jobs and three attempts five seconds apart.
func NewDispatcher(
	config DispatcherConfig,
	processor JobProcessor,
	businessMetrics metrics.BusinessMetrics,
	logger *slog.Logger,
) *Dispatcher {
	if config.Workers <= 0 {
		config.Workers = 1
	}
	if config.QueueSize <= 0 {
		config.QueueSize = 64
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	if config.RetryInterval <= 0 {
		config.RetryInterval = 5 * time.Second
	}
	if config.Clock == nil {
		config.Clock = time.Now
	}
	if businessMetrics == nil {
		businessMetrics = metrics.NewNoOpBusinessMetrics()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Dispatcher{
		config:    config,
		processor: processor,
		metrics:   businessMetrics,
		logger:    logger,
		queue:     make(chan *domain.Job, config.QueueSize),
	}
}

// Trigger queues a quote PDF job.
func (d *Dispatcher) Trigger(ctx context.Context, quoteID string) error {
	quoteID = strings.TrimSpace(quoteID)
	if quoteID == "" {
		return quoteDomain.ErrQuoteIDRequired
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return domain.ErrDispatcherStopped
	}

	job := domain.NewQuotePDFJob(quoteID, d.config.Clock())
	select {
	case d.queue <- job:
	default:
		d.metrics.RecordOperation(ctx, queueName, "enqueue", metrics.StatusRateLimited)
		return domain.ErrQueueFull
	}

	d.metrics.RecordOperation(ctx, queueName, "enqueue", metrics.StatusSuccess)
	d.metrics.RecordQueueDepth(ctx, queueName, len(d.queue))
	d.logger.Debug("artifact job queued",
		slog.String("job_id", job.ID.String()),
		slog.String("quote_id", quoteID),
	)
	return nil
}

// Start runs the workers until ctx is done. Jobs still queued at that point are dropped and
// logged. Start returns after every worker has finished its current job.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.logger.Info("starting artifact dispatcher",
		slog.Int("workers", d.config.Workers),
		slog.Int("queue_size", d.config.QueueSize),
	)

	var wg sync.WaitGroup
	for i := 0; i < d.config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			d.work(ctx, workerID)
		}(i + 1)
	}

	<-ctx.Done()

	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	wg.Wait()

	dropped := 0
drain:
	for {
		select {
		case job := <-d.queue:
			dropped++
			d.logger.Warn("artifact job dropped on shutdown",
				slog.String("job_id", job.ID.String()),
				slog.String("quote_id", job.QuoteID),
			)
		default:
			break drain
		}
	}

	d.logger.Info("stopping artifact dispatcher", slog.Int("dropped", dropped))
	return ctx.Err()
}

func (d *Dispatcher) work(ctx context.Context, workerID int) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-d.queue:
			d.metrics.RecordQueueDepth(ctx, queueName, len(d.queue))
			d.run(ctx, workerID, job)
		}
	}
}

// run attempts job up to MaxAttempts times. Waiting between attempts stops at shutdown.
func (d *Dispatcher) run(ctx context.Context, workerID int, job *domain.Job) {
	logger := d.logger.With(
		slog.Int("worker_id", workerID),
		slog.String("job_id", job.ID.String()),
		slog.String("quote_id", job.QuoteID),
	)

	for {
		start := time.Now()
		err := d.attempt(ctx, job)
		if err == nil {
			job.Complete(d.config.Clock())
			d.record(ctx, start, metrics.StatusSuccess)
			logger.Info("artifact job processed", slog.Int("attempts", job.Attempts))
			return
		}

		job.Fail(err)
		d.record(ctx, start, metrics.StatusError)
		logger.Error("artifact job failed",
			slog.Int("attempts", job.Attempts),
			slog.Any("error", err),
		)

		if job.Attempts >= d.config.MaxAttempts {
			job.Status = domain.JobStatusFailed
			logger.Error("artifact job abandoned", slog.Int("attempts", job.Attempts))
			return
		}

		timer := time.NewTimer(d.config.RetryInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			job.Status = domain.JobStatusFailed
			logger.Warn("artifact job retry cancelled by shutdown")
			return
		case <-timer.C:
		}
	}
}

func (d *Dispatcher) attempt(ctx context.Context, job *domain.Job) error {
	jobCtx := context.WithoutCancel(ctx)
	if d.config.JobTimeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(jobCtx, d.config.JobTimeout)
		defer cancel()
	}
	return d.processor.Process(jobCtx, job)
}

func (d *Dispatcher) record(ctx context.Context, start time.Time, status string) {
	d.metrics.RecordOperation(ctx, queueName, "process_job", status)
	d.metrics.RecordDuration(ctx, queueName, "process_job", time.Since(start), status)
}
