package gojob

import (
	"context"
	"fmt"
	"strings"

	"github.com/developersupreme/supreme-ai-sdk-sub001/core"
	"github.com/goliatone/go-logger/glog"
)

// Refresher is the slice of the session controller a refresh worker drives.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// RefreshWorker drains refresh jobs from a queue and runs one refresh cycle
// per delivery. Unknown job ids are dead-lettered; failed cycles nack with
// the bounded retry policy.
type RefreshWorker struct {
	dequeuer core.JobDequeuer
	target   Refresher
	jobID    string
	policy   RetryPolicy
	log      core.Logger
}

func NewRefreshWorker(dequeuer core.JobDequeuer, target Refresher, jobID string, policy RetryPolicy, log core.Logger) *RefreshWorker {
	return &RefreshWorker{
		dequeuer: dequeuer,
		target:   target,
		jobID:    strings.TrimSpace(jobID),
		policy:   policy,
		log:      glog.Ensure(log),
	}
}

// Run consumes deliveries until the context is canceled or the queue fails.
func (w *RefreshWorker) Run(ctx context.Context) error {
	if w == nil || w.dequeuer == nil || w.target == nil {
		return fmt.Errorf("gojob: refresh worker is not configured")
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		delivery, err := w.dequeuer.Dequeue(ctx)
		if err != nil {
			return err
		}
		w.process(ctx, delivery)
	}
}

func (w *RefreshWorker) process(ctx context.Context, delivery core.JobDelivery) {
	msg := delivery.Message()
	if msg == nil || (w.jobID != "" && msg.JobID != w.jobID) {
		if err := delivery.Nack(ctx, core.JobNackOptions{DeadLetter: true, Reason: "unexpected job"}); err != nil {
			w.log.Error("dead-lettering unexpected job failed", "error", err)
		}
		return
	}
	if err := w.target.Refresh(ctx); err != nil {
		w.log.Error("refresh cycle failed", "error", err)
		if err := delivery.Nack(ctx, core.JobNackOptions{Requeue: true, Reason: err.Error()}); err != nil {
			w.log.Error("nacking refresh job failed", "error", err)
		}
		return
	}
	if err := delivery.Ack(ctx); err != nil {
		w.log.Error("acking refresh job failed", "error", err)
	}
}
