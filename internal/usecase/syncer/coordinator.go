// Package syncer drains the local sale queue into the sales service.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/LavaJover/shvark-sales-sync/internal/domain"
	"github.com/LavaJover/shvark-sales-sync/internal/infrastructure/connectivity"
	"go.uber.org/zap"
)

var ErrDrainInProgress = errors.New("drain already in progress")

type RecordResult struct {
	SaleID     string
	ClientUUID string
	Err        error
}

type DrainSummary struct {
	Attempted int
	Succeeded int
	// Errors holds one "Sale <id>: <message>" line per failed record.
	Errors  []string
	Results []RecordResult
}

func (s *DrainSummary) Failed() int {
	return s.Attempted - s.Succeeded
}

type DrainRecorder interface {
	RecordDrain(outcome string, durationSeconds float64, synced, failed int)
	SetPending(count int64)
}

// SessionRefresher obtains a new session when the service rejects the
// current one.
type SessionRefresher interface {
	Refresh(ctx context.Context) error
}

type Options struct {
	// DeleteOnSync removes a sale from the queue once it is marked synced.
	DeleteOnSync bool
	// Sessions, when set, is asked once per drain for a new session after a
	// record is rejected as unauthorized. The rejected record waits for the
	// next drain.
	Sessions SessionRefresher
}

type Coordinator struct {
	queue   domain.SaleQueue
	remote  domain.RemoteSaleRepository
	logger  *zap.Logger
	metrics DrainRecorder
	opts    Options

	running  atomic.Bool
	triggers chan struct{}
}

func NewCoordinator(
	queue domain.SaleQueue,
	remote domain.RemoteSaleRepository,
	logger *zap.Logger,
	metrics DrainRecorder,
	opts Options,
) *Coordinator {
	return &Coordinator{
		queue:    queue,
		remote:   remote,
		logger:   logger,
		metrics:  metrics,
		opts:     opts,
		triggers: make(chan struct{}, 1),
	}
}

// Drain submits every pending sale once. Only one drain runs at a time; a
// concurrent call returns ErrDrainInProgress without touching the queue.
func (c *Coordinator) Drain(ctx context.Context) (*DrainSummary, error) {
	if !c.running.CompareAndSwap(false, true) {
		return nil, ErrDrainInProgress
	}
	defer c.running.Store(false)

	start := time.Now()
	pending, err := c.queue.ListPending(ctx)
	if err != nil {
		c.observe("list_failed", start, 0, 0)
		return nil, fmt.Errorf("failed to list pending sales: %w", err)
	}

	summary := &DrainSummary{
		Attempted: len(pending),
		Results:   make([]RecordResult, 0, len(pending)),
	}
	refreshed := false
	for _, sale := range pending {
		res := c.syncOne(ctx, sale)
		summary.Results = append(summary.Results, res)
		if res.Err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("Sale %s: %s", sale.ID, res.Err))
			if !refreshed && errors.Is(res.Err, domain.ErrUnauthorized) {
				refreshed = true
				c.refreshSession(ctx)
			}
			continue
		}
		summary.Succeeded++
	}

	outcome := "ok"
	switch {
	case summary.Attempted == 0:
		outcome = "empty"
	case summary.Succeeded == 0:
		outcome = "failed"
	case summary.Failed() > 0:
		outcome = "partial"
	}
	c.observe(outcome, start, summary.Succeeded, summary.Failed())
	c.refreshPending(ctx)

	if summary.Attempted > 0 {
		c.logger.Info("sales synced",
			zap.Int("attempted", summary.Attempted),
			zap.Int("synced", summary.Succeeded),
			zap.Int("failed", summary.Failed()),
			zap.Duration("took", time.Since(start)),
		)
	}
	for _, line := range summary.Errors {
		c.logger.Warn("sale sync failed", zap.String("detail", line))
	}
	return summary, nil
}

// syncOne never panics; a failure is reported in the result and leaves the
// sale pending for the next drain.
func (c *Coordinator) syncOne(ctx context.Context, sale *domain.PendingSale) (res RecordResult) {
	res = RecordResult{SaleID: sale.ID, ClientUUID: sale.ClientUUID}
	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("panic while syncing: %v", r)
		}
	}()

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}
	if err := c.remote.Insert(ctx, sale); err != nil {
		res.Err = err
		return res
	}
	// The service already holds the sale. If the flag cannot be written the
	// next drain resubmits and the service answers with a duplicate.
	if err := c.queue.MarkSynced(ctx, sale.ID); err != nil {
		res.Err = fmt.Errorf("inserted remotely but not marked synced: %w", err)
		return res
	}
	if c.opts.DeleteOnSync {
		if err := c.queue.Delete(ctx, sale.ID); err != nil {
			c.logger.Warn("failed to delete synced sale", zap.String("sale_id", sale.ID), zap.Error(err))
		}
	}
	return res
}

// Trigger asks for a drain without waiting for it. Requests made while one is
// already queued collapse into it.
func (c *Coordinator) Trigger() {
	select {
	case c.triggers <- struct{}{}:
	default:
	}
}

// Run drains on every online transition, every tick and every Trigger call
// until ctx is done.
func (c *Coordinator) Run(ctx context.Context, events <-chan connectivity.Event) {
	c.logger.Info("starting sync coordinator")
	c.refreshPending(ctx)
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("stopping sync coordinator")
			return
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if ev.Kind == connectivity.EventOffline {
				continue
			}
			c.runDrain(ctx, ev.Kind.String())
		case <-c.triggers:
			c.runDrain(ctx, "trigger")
		}
	}
}

func (c *Coordinator) runDrain(ctx context.Context, reason string) {
	if _, err := c.Drain(ctx); err != nil {
		if errors.Is(err, ErrDrainInProgress) {
			return
		}
		c.logger.Error("drain failed", zap.String("reason", reason), zap.Error(err))
	}
}

func (c *Coordinator) refreshSession(ctx context.Context) {
	if c.opts.Sessions == nil {
		return
	}
	if err := c.opts.Sessions.Refresh(ctx); err != nil {
		c.logger.Warn("session rejected and login failed", zap.Error(err))
		return
	}
	c.logger.Info("session renewed after rejection")
}

func (c *Coordinator) refreshPending(ctx context.Context) {
	if c.metrics == nil {
		return
	}
	count, err := c.queue.CountPending(ctx)
	if err != nil {
		c.logger.Warn("failed to count pending sales", zap.Error(err))
		return
	}
	c.metrics.SetPending(count)
}

func (c *Coordinator) observe(outcome string, start time.Time, synced, failed int) {
	if c.metrics == nil {
		return
	}
	c.metrics.RecordDrain(outcome, time.Since(start).Seconds(), synced, failed)
}
