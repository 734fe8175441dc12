package pipeline

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vandana/paligest/internal/config"
	"github.com/vandana/paligest/internal/segmentstore"
)

func newTestOrchestrator(t *testing.T, f *fakeStore, cfg config.Config) *Orchestrator {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)

	client := segmentstore.NewClient(srv.URL, "test-key")
	t.Cleanup(client.Close)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewOrchestrator(cfg, client, log)
}

func TestOrchestrator_ProcessesJobThenStops(t *testing.T) {
	cfg := config.Config{
		WorkerCount:         1,
		MaxQueueSize:        4,
		JobTTL:              time.Hour,
		DefaultMaxChunkSize: 2000,
		SegmentBatchSize:    500,
		MaxConcurrentStore:  2,
	}
	orch := newTestOrchestrator(t, &fakeStore{}, cfg)
	orch.Start(context.Background())

	job := newTestJob("digha.txt", []byte(workerTestDoc))
	if err := orch.Submit(job); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for orch.GetJob(job.ID).Snapshot().Status != StatusCompleted {
		if time.Now().After(deadline) {
			t.Fatalf("job never completed, status = %s", job.Snapshot().Status)
		}
		time.Sleep(10 * time.Millisecond)
	}

	orch.Stop()
}

func TestOrchestrator_SubmitAfterStopFailsCleanly(t *testing.T) {
	cfg := config.Config{WorkerCount: 1, MaxQueueSize: 4, JobTTL: time.Hour}
	orch := newTestOrchestrator(t, &fakeStore{}, cfg)
	orch.Start(context.Background())
	orch.Stop()

	job := newTestJob("digha.txt", []byte(workerTestDoc))
	if err := orch.Submit(job); err == nil {
		t.Fatal("Submit after Stop must return an error")
	}
	if got := job.Snapshot().Status; got != StatusFailed {
		t.Errorf("status = %s, want %s", got, StatusFailed)
	}
}

func TestOrchestrator_StopIsIdempotent(t *testing.T) {
	cfg := config.Config{WorkerCount: 1, MaxQueueSize: 4, JobTTL: time.Hour}
	orch := newTestOrchestrator(t, &fakeStore{}, cfg)
	orch.Start(context.Background())
	orch.Stop()
	orch.Stop()
}

func TestOrchestrator_QueueFull(t *testing.T) {
	// Workers never started, so the queue cannot drain.
	cfg := config.Config{WorkerCount: 1, MaxQueueSize: 1, JobTTL: time.Hour}
	orch := newTestOrchestrator(t, &fakeStore{}, cfg)

	if err := orch.Submit(newTestJob("a.txt", []byte(workerTestDoc))); err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	overflow := newTestJob("b.txt", []byte(workerTestDoc))
	if err := orch.Submit(overflow); err == nil {
		t.Fatal("second Submit should fail on a full queue")
	}
	if got := overflow.Snapshot().Status; got != StatusFailed {
		t.Errorf("status = %s, want %s", got, StatusFailed)
	}
}
