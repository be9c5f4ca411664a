package gojob

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/developersupreme/supreme-ai-sdk-sub001/core"
)

func TestRetryPolicyNormalizeAttempt(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 3, MaxDelay: time.Minute, DeadLetterOnMax: true}

	t.Run("clamps negative delay", func(t *testing.T) {
		out := policy.NormalizeAttempt(core.JobNackOptions{Delay: -time.Second, Requeue: true}, 1)
		if out.Delay != 0 || !out.Requeue {
			t.Fatalf("unexpected options %+v", out)
		}
	})

	t.Run("caps delay at max", func(t *testing.T) {
		out := policy.NormalizeAttempt(core.JobNackOptions{Delay: time.Hour, Requeue: true}, 1)
		if out.Delay != time.Minute {
			t.Fatalf("expected capped delay, got %v", out.Delay)
		}
	})

	t.Run("dead letters at max attempts", func(t *testing.T) {
		out := policy.NormalizeAttempt(core.JobNackOptions{Requeue: true}, 3)
		if out.Requeue || !out.DeadLetter {
			t.Fatalf("expected dead letter at max attempts, got %+v", out)
		}
	})

	t.Run("dead letter wins over requeue", func(t *testing.T) {
		out := policy.NormalizeAttempt(core.JobNackOptions{Requeue: true, DeadLetter: true}, 1)
		if out.Requeue || !out.DeadLetter {
			t.Fatalf("unexpected options %+v", out)
		}
	})
}

type deliveryStub struct {
	msg    *core.JobExecutionMessage
	acked  bool
	nacked *core.JobNackOptions
}

func (d *deliveryStub) Message() *core.JobExecutionMessage { return d.msg }

func (d *deliveryStub) Ack(context.Context) error {
	d.acked = true
	return nil
}

func (d *deliveryStub) Nack(_ context.Context, opts core.JobNackOptions) error {
	d.nacked = &opts
	return nil
}

type dequeuerStub struct {
	deliveries []*deliveryStub
	next       int
}

func (s *dequeuerStub) Dequeue(ctx context.Context) (core.JobDelivery, error) {
	if s.next >= len(s.deliveries) {
		return nil, context.Canceled
	}
	delivery := s.deliveries[s.next]
	s.next++
	return delivery, nil
}

type refresherStub struct {
	calls int
	err   error
}

func (r *refresherStub) Refresh(context.Context) error {
	r.calls++
	return r.err
}

func TestRefreshWorkerAcksSuccessfulCycle(t *testing.T) {
	delivery := &deliveryStub{msg: &core.JobExecutionMessage{JobID: "sdk.session.refresh"}}
	queue := &dequeuerStub{deliveries: []*deliveryStub{delivery}}
	target := &refresherStub{}

	worker := NewRefreshWorker(queue, target, "sdk.session.refresh", RetryPolicy{}, nil)
	if err := worker.Run(context.Background()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected queue exhaustion, got %v", err)
	}
	if target.calls != 1 {
		t.Fatalf("expected one refresh, got %d", target.calls)
	}
	if !delivery.acked || delivery.nacked != nil {
		t.Fatalf("expected ack without nack, got %+v", delivery)
	}
}

func TestRefreshWorkerNacksFailedCycle(t *testing.T) {
	delivery := &deliveryStub{msg: &core.JobExecutionMessage{JobID: "sdk.session.refresh"}}
	queue := &dequeuerStub{deliveries: []*deliveryStub{delivery}}
	target := &refresherStub{err: errors.New("refresh rejected")}

	worker := NewRefreshWorker(queue, target, "sdk.session.refresh", RetryPolicy{}, nil)
	worker.Run(context.Background())

	if delivery.acked {
		t.Fatalf("failed cycle must not ack")
	}
	if delivery.nacked == nil || !delivery.nacked.Requeue {
		t.Fatalf("expected requeueing nack, got %+v", delivery.nacked)
	}
}

func TestRefreshWorkerDeadLettersUnknownJob(t *testing.T) {
	delivery := &deliveryStub{msg: &core.JobExecutionMessage{JobID: "something.else"}}
	queue := &dequeuerStub{deliveries: []*deliveryStub{delivery}}
	target := &refresherStub{}

	worker := NewRefreshWorker(queue, target, "sdk.session.refresh", RetryPolicy{}, nil)
	worker.Run(context.Background())

	if target.calls != 0 {
		t.Fatalf("unknown job must not trigger a refresh")
	}
	if delivery.nacked == nil || !delivery.nacked.DeadLetter {
		t.Fatalf("expected dead-letter nack, got %+v", delivery.nacked)
	}
}
