package jobs

import (
	"context"
	"testing"
	"time"
)

// MockTask is a mock implementation of the Task interface.
type MockTask struct {
	Keys        []string
	ExecuteFunc func(ctx context.Context, job *Job, progressUpdater func(int, string)) (map[string]any, error)
}

func (m *MockTask) MetadataKeys() []string { return m.Keys }
func (m *MockTask) Execute(ctx context.Context, job *Job, progressUpdater func(int, string)) (map[string]any, error) {
	return m.ExecuteFunc(ctx, job, progressUpdater)
}
func (m *MockTask) Cleanup(job *Job) error { return nil }

func waitForStatus(t *testing.T, service *Service, jobID string, want JobStatus) *Job {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		job, ok := service.GetJob(jobID)
		if ok && job.Status == want {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}
	job, _ := service.GetJob(jobID)
	t.Fatalf("job never reached %s, last state: %+v", want, job)
	return nil
}

func TestStartJobRunsHandler(t *testing.T) {
	service := NewService()
	service.RegisterHandler("download_track", NewBaseTaskHandler(&MockTask{
		Keys: []string{"trackID"},
		ExecuteFunc: func(ctx context.Context, job *Job, progress func(int, string)) (map[string]any, error) {
			progress(50, "halfway")
			return map[string]any{"path": "/tmp/out.mp3"}, nil
		},
	}))

	jobID, err := service.StartJob("download_track", "Download Track", map[string]any{"trackID": "7"})
	if err != nil {
		t.Fatalf("StartJob: %v", err)
	}

	job := waitForStatus(t, service, jobID, JobStatusCompleted)
	if job.Progress != 100 {
		t.Errorf("progress = %d, want 100", job.Progress)
	}
	if job.Metadata["path"] != "/tmp/out.mp3" {
		t.Errorf("metadata = %+v", job.Metadata)
	}
}

func TestStartJobMissingMetadataFails(t *testing.T) {
	service := NewService()
	service.RegisterHandler("download_track", NewBaseTaskHandler(&MockTask{
		Keys: []string{"trackID"},
		ExecuteFunc: func(ctx context.Context, job *Job, progress func(int, string)) (map[string]any, error) {
			t.Error("task should not run without metadata")
			return nil, nil
		},
	}))

	jobID, err := service.StartJob("download_track", "Download Track", nil)
	if err != nil {
		t.Fatalf("StartJob: %v", err)
	}
	waitForStatus(t, service, jobID, JobStatusFailed)
}

func TestSecondJobOfSameTypeQueues(t *testing.T) {
	release := make(chan struct{})
	service := NewService()
	service.RegisterHandler("download_track", NewBaseTaskHandler(&MockTask{
		ExecuteFunc: func(ctx context.Context, job *Job, progress func(int, string)) (map[string]any, error) {
			<-release
			return nil, nil
		},
	}))

	first, _ := service.StartJob("download_track", "first", nil)
	second, _ := service.StartJob("download_track", "second", nil)

	waitForStatus(t, service, first, JobStatusRunning)
	if job, _ := service.GetJob(second); job.Status != JobStatusPending {
		t.Fatalf("second job status = %s, want pending", job.Status)
	}

	close(release)
	waitForStatus(t, service, first, JobStatusCompleted)
	waitForStatus(t, service, second, JobStatusCompleted)
}

func TestCancelJob(t *testing.T) {
	started := make(chan struct{})
	service := NewService()
	service.RegisterHandler("download_track", NewBaseTaskHandler(&MockTask{
		ExecuteFunc: func(ctx context.Context, job *Job, progress func(int, string)) (map[string]any, error) {
			close(started)
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}))

	jobID, _ := service.StartJob("download_track", "cancel me", nil)
	<-started
	if err := service.CancelJob(jobID); err != nil {
		t.Fatalf("CancelJob: %v", err)
	}
	waitForStatus(t, service, jobID, JobStatusCancelled)
}

func TestCancelUnknownJob(t *testing.T) {
	service := NewService()
	if err := service.CancelJob("nope"); err == nil {
		t.Fatal("expected error for unknown job")
	}
}
