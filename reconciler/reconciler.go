// Package reconciler transmits locally pending drafts to the remote store
// and resolves their sync status. Delivery is at-least-once: a failed
// attempt leaves the records in the retry set and the next trigger resends
// the whole set, relying on the remote upsert being idempotent by id.
package reconciler

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/mawuli/field-survey/log"
	"github.com/mawuli/field-survey/model"
)

// Store is the slice of the draft store the reconciler depends on.
type Store interface {
	Pending(ctx context.Context) ([]model.Survey, error)
	MarkSynced(ctx context.Context, ids []string, at time.Time) error
	MarkFailed(ctx context.Context, ids []string) error
}

// Transport reaches the remote store: a cheap availability probe and the
// batched sync call.
type Transport interface {
	Probe(ctx context.Context) bool
	SyncBatch(ctx context.Context, surveys []model.Survey) (model.SyncResult, error)
}

type Trigger int

const (
	TriggerManual Trigger = iota
	TriggerReconnect
	TriggerPeriodic
)

func (t Trigger) String() string {
	switch t {
	case TriggerManual:
		return "manual"
	case TriggerReconnect:
		return "reconnect"
	default:
		return "periodic"
	}
}

type Reconciler struct {
	store     Store
	transport Transport
	interval  time.Duration

	triggers chan Trigger
	inFlight atomic.Bool
	online   atomic.Bool
}

func New(store Store, transport Transport, interval time.Duration) *Reconciler {
	return &Reconciler{
		store:     store,
		transport: transport,
		interval:  interval,
		triggers:  make(chan Trigger, 1),
	}
}

// SyncNow requests a reconciliation. It never blocks: when one is already
// queued or running the request is dropped, not deferred.
func (r *Reconciler) SyncNow() {
	select {
	case r.triggers <- TriggerManual:
	default:
	}
}

// Run services the periodic timer, the connectivity watcher and manual
// triggers until the context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	watch := time.NewTicker(r.interval / 4)
	defer watch.Stop()

	log.Infof("reconciler: started, interval %s", r.interval)

	for {
		select {
		case <-ctx.Done():
			log.Info("reconciler: stopped")
			return
		case <-ticker.C:
			r.RunOnce(ctx, TriggerPeriodic)
		case trigger := <-r.triggers:
			r.RunOnce(ctx, trigger)
		case <-watch.C:
			r.watchConnectivity(ctx)
		}
	}
}

// watchConnectivity fires a reconnect sync on the offline-to-online edge.
func (r *Reconciler) watchConnectivity(ctx context.Context) {
	wasOnline := r.online.Load()
	isOnline := r.transport.Probe(ctx)
	r.online.Store(isOnline)

	if isOnline && !wasOnline {
		log.Debug("reconciler: server reachable again")
		r.RunOnce(ctx, TriggerReconnect)
	}
}

// RunOnce performs one reconciliation pass. The boolean reports whether
// the pass ran: while one is in flight, further calls are no-ops.
func (r *Reconciler) RunOnce(ctx context.Context, trigger Trigger) (model.SyncResult, bool) {
	if !r.inFlight.CompareAndSwap(false, true) {
		log.Debugf("reconciler: %s trigger dropped, sync already running", trigger)
		return model.SyncResult{}, false
	}
	defer r.inFlight.Store(false)

	run := uuid.NewString()
	log.Debugf("reconciler: run %s (%s trigger)", run, trigger)

	if !r.transport.Probe(ctx) {
		r.online.Store(false)
		log.Warnf("reconciler: run %s: server unreachable", run)
		return model.SyncResult{Errors: []string{"server unreachable"}}, true
	}
	r.online.Store(true)

	pending, err := r.store.Pending(ctx)
	if err != nil {
		log.Errorf("reconciler: run %s: read pending: %s", run, err)
		return model.SyncResult{Errors: []string{err.Error()}}, true
	}
	if len(pending) == 0 {
		log.Debugf("reconciler: run %s: nothing to sync", run)
		return model.SyncResult{Success: true, Errors: []string{}}, true
	}

	result, err := r.transport.SyncBatch(ctx, pending)
	if err != nil {
		// transport failure: statuses untouched, next trigger retries
		log.Errorf("reconciler: run %s: sync batch: %s", run, err)
		return model.SyncResult{Errors: []string{err.Error()}}, true
	}

	ids := make([]string, len(pending))
	for i, s := range pending {
		ids[i] = s.SurveyID
	}

	if result.Success {
		if err := r.store.MarkSynced(ctx, ids, time.Now()); err != nil {
			log.Errorf("reconciler: run %s: mark synced: %s", run, err)
			result.Errors = append(result.Errors, err.Error())
		}
		log.Infof("reconciler: run %s: %d surveys synced", run, result.SyncedCount)
	} else {
		if err := r.store.MarkFailed(ctx, ids); err != nil {
			log.Errorf("reconciler: run %s: mark failed: %s", run, err)
		}
		log.Warnf("reconciler: run %s: %d synced, %d failed", run, result.SyncedCount, result.FailedCount)
	}

	return result, true
}
