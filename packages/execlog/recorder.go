package execlog

import (
	"context"
	"time"

	hitlog "github.com/abdul-hamid-achik/hitrelay/packages/log"
	"github.com/abdul-hamid-achik/hitrelay/packages/store"
	"github.com/sirupsen/logrus"
)

// TimestampLayout is ISO-8601 in UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Recorder is the sole writer of execution records.
type Recorder struct {
	store  store.Store
	table  string
	now    func() time.Time
	logger *logrus.Logger
}

// Option is a functional option for Recorder
type Option func(*Recorder)

// WithClock sets the time source used for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) {
		r.now = now
	}
}

// WithLogger sets the logger failures are reported to.
func WithLogger(l *logrus.Logger) Option {
	return func(r *Recorder) {
		r.logger = l
	}
}

// NewRecorder creates a recorder writing to s.
func NewRecorder(s store.Store, opts ...Option) *Recorder {
	r := &Recorder{
		store:  s,
		table:  TableName,
		now:    time.Now,
		logger: hitlog.GetLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Build assembles the record without writing it.
func (r *Recorder) Build(executionID, childExecutionID string, data Data, isParent bool) *Record {
	rec := &Record{
		ExecutionID:         executionID,
		ChildExecutionID:    childExecutionID,
		IterationNumber:     nonNegative(data.IterationNumber),
		TotalItemsProcessed: nonNegative(data.TotalItemsProcessed),
		ItemsInCurrentPage:  nonNegative(data.ItemsInCurrentPage),
		RequestURL:          data.RequestURL,
		ResponseStatus:      data.ResponseStatus,
		PaginationType:      data.PaginationType,
		Timestamp:           r.now().UTC().Format(TimestampLayout),
		IsLast:              data.IsLast,
		ItemIDs:             NewItemIDList(data.ItemIDs),
	}

	if rec.PaginationType == "" {
		rec.PaginationType = PaginationNone
	}

	if isParent {
		rec.Status = data.Status
		if rec.Status == "" {
			rec.Status = StatusStarted
		}
	}

	return rec
}

// Record builds and writes one execution record. It returns nil when the
// store rejects or fails the write; failures are logged, never returned.
func (r *Recorder) Record(ctx context.Context, executionID, childExecutionID string, data Data, isParent bool) *Record {
	rec := r.Build(executionID, childExecutionID, data, isParent)

	entry := r.logger.WithFields(logrus.Fields{
		"executionId":      executionID,
		"childExecutionId": childExecutionID,
		"itemIdsCount":     len(rec.ItemIDs.L),
	})
	entry.Debug("saving execution log")

	if r.store == nil {
		entry.Error("failed to save execution log: no store configured")
		return nil
	}

	res, err := r.store.PutRecord(ctx, r.table, rec)
	if err != nil {
		entry.WithError(err).Error("error saving execution log")
		return nil
	}
	if !res.OK {
		entry.WithField("message", res.Message).Error("failed to save execution log")
		return nil
	}

	return rec
}

// SingleExecution describes a completed, non-paginated request.
type SingleExecution struct {
	ExecutionID    string
	Method         string
	URL            string
	ResponseStatus int
	HasPayload     bool
}

// RecordSingle writes the one record of a single-request execution: it is
// both the parent and its only child, completed and last.
func (r *Recorder) RecordSingle(ctx context.Context, exec SingleExecution) *Record {
	items := 0
	if exec.HasPayload {
		items = 1
	}
	status := exec.ResponseStatus

	r.logger.WithFields(logrus.Fields{
		"executionId": exec.ExecutionID,
		"method":      exec.Method,
		"status":      status,
	}).Debug("saving single execution log")

	return r.Record(ctx, exec.ExecutionID, exec.ExecutionID, Data{
		RequestURL:          exec.URL,
		ResponseStatus:      &status,
		PaginationType:      PaginationSingle,
		Status:              StatusCompleted,
		IsLast:              true,
		TotalItemsProcessed: items,
		ItemsInCurrentPage:  items,
	}, true)
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
