// Package executor runs caller-described HTTP requests, classifies the outcome
// into a stable response contract and records an audit trail of each execution.
package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/hitrelay/packages/execlog"
	hhttp "github.com/abdul-hamid-achik/hitrelay/packages/http"
	hitlog "github.com/abdul-hamid-achik/hitrelay/packages/log"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AuditTimeout bounds the execution log write after the exchange completes.
const AuditTimeout = 10 * time.Second

// Description is a declarative description of the request to execute.
type Description struct {
	Method      string            `json:"method"`
	URL         string            `json:"url"`
	QueryParams hhttp.QueryParams `json:"queryParams,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
	Body        json.RawMessage   `json:"body,omitempty"`
}

// Dispatcher sends outbound requests. *hhttp.Client satisfies it.
type Dispatcher interface {
	Do(ctx context.Context, req *hhttp.Request) (*hhttp.Response, error)
}

// Recorder writes the audit record of a completed single execution.
// *execlog.Recorder satisfies it.
type Recorder interface {
	RecordSingle(ctx context.Context, exec execlog.SingleExecution) *execlog.Record
}

// Observer receives the outcome and outbound duration of every execution.
type Observer interface {
	Observe(outcome string, duration time.Duration)
}

// Executor is safe for concurrent use; executions share no mutable state
// beyond the injected dispatcher, recorder and observer.
type Executor struct {
	client   Dispatcher
	recorder Recorder
	observer Observer
	newID    func() string
	logger   *logrus.Logger
}

// Option is a functional option for Executor
type Option func(*Executor)

// WithObserver reports every execution to o.
func WithObserver(o Observer) Option {
	return func(e *Executor) {
		e.observer = o
	}
}

// WithIDGenerator replaces the execution id generator.
func WithIDGenerator(fn func() string) Option {
	return func(e *Executor) {
		e.newID = fn
	}
}

// WithLogger sets the logger executions are reported to.
func WithLogger(l *logrus.Logger) Option {
	return func(e *Executor) {
		e.logger = l
	}
}

// New creates an Executor dispatching through client and recording through recorder.
func New(client Dispatcher, recorder Recorder, opts ...Option) *Executor {
	e := &Executor{
		client:   client,
		recorder: recorder,
		newID:    func() string { return uuid.New().String() },
		logger:   hitlog.GetLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute issues the described request and returns the classified result.
// The returned execution id names the audit records written for it.
func (e *Executor) Execute(ctx context.Context, desc Description) (Result, string) {
	execID := e.newID()
	entry := e.logger.WithFields(logrus.Fields{
		"executionId": execID,
		"method":      desc.Method,
		"url":         desc.URL,
	})
	entry.Info("executing request")

	req := hhttp.NewRequest(strings.ToUpper(strings.TrimSpace(desc.Method)), desc.URL)
	req.QueryParams = desc.QueryParams
	for k, v := range desc.Headers {
		req.SetHeader(k, v)
	}
	if body, isJSON := encodeBody(desc.Body); body != nil {
		req.SetBody(body)
		if isJSON && !hasHeader(desc.Headers, "Content-Type") {
			req.SetHeader("Content-Type", "application/json")
		}
	}

	start := time.Now()
	resp, err := e.client.Do(ctx, req)
	duration := time.Since(start)

	if err != nil {
		entry.WithFields(logrus.Fields{
			"error": err.Error(),
			"code":  hhttp.ErrorCode(err),
		}).Error("request execution error")

		result := Classify(nil, err)
		e.observe(result.Outcome, duration)
		return result, execID
	}

	entry.WithFields(logrus.Fields{
		"finalUrl":   resp.URL,
		"status":     resp.StatusCode,
		"statusText": resp.StatusText(),
		"durationMs": resp.Duration.Milliseconds(),
	}).Info("response received")

	result := Classify(resp, nil)

	// The audit write is awaited but its outcome never changes result. It
	// outlives the caller's context so a disconnect cannot drop the record.
	if e.recorder != nil {
		auditCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), AuditTimeout)
		rec := e.recorder.RecordSingle(auditCtx, execlog.SingleExecution{
			ExecutionID:    execID,
			Method:         desc.Method,
			URL:            resp.URL,
			ResponseStatus: resp.StatusCode,
			HasPayload:     resp.HasPayload(),
		})
		cancel()
		if rec == nil {
			entry.Warn("execution log was not saved")
		}
	}

	e.observe(result.Outcome, duration)
	return result, execID
}

func (e *Executor) observe(outcome Outcome, d time.Duration) {
	if e.observer != nil {
		e.observer.Observe(string(outcome), d)
	}
}

// encodeBody turns the caller's JSON body into wire bytes. JSON strings are
// sent as their raw text; any other JSON value is sent as JSON.
func encodeBody(raw json.RawMessage) ([]byte, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, false
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return []byte(s), false
		}
	}
	return trimmed, true
}

func hasHeader(headers map[string]string, name string) bool {
	for k := range headers {
		if strings.EqualFold(k, name) {
			return true
		}
	}
	return false
}
