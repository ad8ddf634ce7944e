package reconciler

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/mawuli/field-survey/model"
)

// fakeStore keeps per-id statuses so failed records re-enter the retry set
// the way the real draft store does.
type fakeStore struct {
	statuses   map[string]model.SyncStatus
	pendingErr error
	synced     [][]string
	failed     [][]string
}

func newFakeStore(ids ...string) *fakeStore {
	s := &fakeStore{statuses: map[string]model.SyncStatus{}}
	for _, id := range ids {
		s.statuses[id] = model.StatusPending
	}
	return s
}

func (s *fakeStore) Pending(ctx context.Context) ([]model.Survey, error) {
	if s.pendingErr != nil {
		return nil, s.pendingErr
	}
	var out []model.Survey
	for id, status := range s.statuses {
		if status == model.StatusPending || status == model.StatusFailed {
			out = append(out, model.Survey{SurveyID: id, SyncStatus: status})
		}
	}
	return out, nil
}

func (s *fakeStore) MarkSynced(ctx context.Context, ids []string, at time.Time) error {
	s.synced = append(s.synced, ids)
	for _, id := range ids {
		s.statuses[id] = model.StatusSynced
	}
	return nil
}

func (s *fakeStore) MarkFailed(ctx context.Context, ids []string) error {
	s.failed = append(s.failed, ids)
	for _, id := range ids {
		s.statuses[id] = model.StatusFailed
	}
	return nil
}

type fakeTransport struct {
	reachable bool
	result    model.SyncResult
	err       error

	calls   int
	batches [][]model.Survey

	entered chan struct{}
	release chan struct{}
}

func (t *fakeTransport) Probe(ctx context.Context) bool { return t.reachable }

func (t *fakeTransport) SyncBatch(ctx context.Context, surveys []model.Survey) (model.SyncResult, error) {
	t.calls++
	t.batches = append(t.batches, surveys)
	if t.entered != nil {
		t.entered <- struct{}{}
		<-t.release
	}
	return t.result, t.err
}

func TestRunOnceUnreachableServer(t *testing.T) {
	store := newFakeStore("SURV-1")
	transport := &fakeTransport{reachable: false}
	rec := New(store, transport, time.Minute)

	result, ran := rec.RunOnce(context.Background(), TriggerManual)
	if !ran {
		t.Fatal("expected the pass to run")
	}
	if result.Success {
		t.Error("expected failure result")
	}
	if len(result.Errors) != 1 || result.Errors[0] != "server unreachable" {
		t.Errorf("expected unreachable error, got %v", result.Errors)
	}
	if transport.calls != 0 {
		t.Error("expected no sync batch when the probe fails")
	}
	if store.statuses["SURV-1"] != model.StatusPending {
		t.Error("expected statuses untouched")
	}
}

func TestRunOnceNothingPending(t *testing.T) {
	store := newFakeStore()
	transport := &fakeTransport{reachable: true}
	rec := New(store, transport, time.Minute)

	result, ran := rec.RunOnce(context.Background(), TriggerPeriodic)
	if !ran || !result.Success {
		t.Errorf("expected trivial success, got %+v ran=%v", result, ran)
	}
	if transport.calls != 0 {
		t.Error("expected no sync batch with an empty retry set")
	}
}

func TestRunOnceMarksSyncedOnSuccess(t *testing.T) {
	store := newFakeStore("SURV-1", "SURV-2")
	transport := &fakeTransport{
		reachable: true,
		result:    model.SyncResult{Success: true, SyncedCount: 2, Errors: []string{}},
	}
	rec := New(store, transport, time.Minute)

	result, _ := rec.RunOnce(context.Background(), TriggerManual)
	if !result.Success || result.SyncedCount != 2 {
		t.Errorf("unexpected result %+v", result)
	}
	if len(store.synced) != 1 || len(store.synced[0]) != 2 {
		t.Errorf("expected one MarkSynced call for both ids, got %v", store.synced)
	}
	if store.statuses["SURV-1"] != model.StatusSynced || store.statuses["SURV-2"] != model.StatusSynced {
		t.Errorf("expected both synced, got %v", store.statuses)
	}
}

func TestRunOnceMarksFailedOnBatchFailure(t *testing.T) {
	store := newFakeStore("SURV-1")
	transport := &fakeTransport{
		reachable: true,
		result:    model.SyncResult{Success: false, FailedCount: 1, Errors: []string{"SURV-1: boom"}},
	}
	rec := New(store, transport, time.Minute)

	result, _ := rec.RunOnce(context.Background(), TriggerManual)
	if result.Success {
		t.Error("expected failure result")
	}
	if len(store.failed) != 1 {
		t.Fatalf("expected MarkFailed call, got %v", store.failed)
	}
	if store.statuses["SURV-1"] != model.StatusFailed {
		t.Errorf("expected failed status, got %v", store.statuses)
	}
}

// TestRetryAfterTransientFailure exercises at-least-once delivery: a
// transport error leaves the record in the retry set, and the next pass
// resends and resolves it.
func TestRetryAfterTransientFailure(t *testing.T) {
	store := newFakeStore("SURV-1")
	transport := &fakeTransport{reachable: true, err: errors.New("connection reset")}
	rec := New(store, transport, time.Minute)

	result, _ := rec.RunOnce(context.Background(), TriggerManual)
	if result.Success {
		t.Error("expected first pass to fail")
	}
	if store.statuses["SURV-1"] != model.StatusPending {
		t.Error("expected status untouched after a transport error")
	}

	transport.err = nil
	transport.result = model.SyncResult{Success: true, SyncedCount: 1, Errors: []string{}}

	result, _ = rec.RunOnce(context.Background(), TriggerManual)
	if !result.Success || result.SyncedCount != 1 {
		t.Errorf("expected second pass to sync, got %+v", result)
	}
	if transport.calls != 2 {
		t.Errorf("expected 2 batch calls, got %d", transport.calls)
	}
	if store.statuses["SURV-1"] != model.StatusSynced {
		t.Error("expected record synced after the retry")
	}
}

func TestFailedRecordsReenterRetrySet(t *testing.T) {
	store := newFakeStore("SURV-1")
	store.statuses["SURV-1"] = model.StatusFailed

	transport := &fakeTransport{
		reachable: true,
		result:    model.SyncResult{Success: true, SyncedCount: 1, Errors: []string{}},
	}
	rec := New(store, transport, time.Minute)

	rec.RunOnce(context.Background(), TriggerPeriodic)
	if transport.calls != 1 || len(transport.batches[0]) != 1 {
		t.Fatalf("expected the failed record to be resent, got %v", transport.batches)
	}
	if store.statuses["SURV-1"] != model.StatusSynced {
		t.Error("expected failed record resolved to synced")
	}
}

func TestRunOnceInFlightGuard(t *testing.T) {
	store := newFakeStore("SURV-1")
	transport := &fakeTransport{
		reachable: true,
		result:    model.SyncResult{Success: true, SyncedCount: 1, Errors: []string{}},
		entered:   make(chan struct{}),
		release:   make(chan struct{}),
	}
	rec := New(store, transport, time.Minute)

	done := make(chan struct{})
	go func() {
		rec.RunOnce(context.Background(), TriggerManual)
		close(done)
	}()

	<-transport.entered

	if _, ran := rec.RunOnce(context.Background(), TriggerPeriodic); ran {
		t.Error("expected overlapping pass to be dropped")
	}

	close(transport.release)
	<-done

	if transport.calls != 1 {
		t.Errorf("expected a single batch call, got %d", transport.calls)
	}
}

func TestSyncNowNeverBlocks(t *testing.T) {
	rec := New(newFakeStore(), &fakeTransport{}, time.Minute)

	// the trigger channel holds one entry; extra requests are dropped
	rec.SyncNow()
	rec.SyncNow()
	rec.SyncNow()

	select {
	case <-rec.triggers:
	default:
		t.Fatal("expected one queued trigger")
	}
	select {
	case <-rec.triggers:
		t.Fatal("expected extra triggers to be dropped")
	default:
	}
}
