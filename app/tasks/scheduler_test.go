package tasks

import (
	"context"
	"testing"
	"time"
)

type noopTask struct {
	Task
}

func (t *noopTask) Execute(ctx context.Context) error {
	return nil
}

func newNoopTask(jobName string) TaskInterface {
	return &noopTask{Task: NewTask(TaskTypeProcessFeed, jobName)}
}

func newTestScheduler() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		workerCount: 1,
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, 10),
		running:     make(map[string]int),
	}
}

func TestEnqueueDueJobsRunsEagerlyOnFirstPass(t *testing.T) {
	s := newTestScheduler()
	defer s.cancel()

	s.Register(Job{
		Name:     "feed:gao-reports",
		Interval: 5 * time.Minute,
		Make:     func() TaskInterface { return newNoopTask("feed:gao-reports") },
	})

	now := time.Now().UTC()
	s.enqueueDueJobs(now)

	if got := len(s.taskQueue); got != 1 {
		t.Fatalf("Expected 1 queued task after first pass, got %d", got)
	}
	if s.running["feed:gao-reports"] != 1 {
		t.Errorf("Expected running count 1, got %d", s.running["feed:gao-reports"])
	}

	// Nothing else is due until the interval elapses.
	s.enqueueDueJobs(now.Add(tickInterval))
	if got := len(s.taskQueue); got != 1 {
		t.Errorf("Expected no new tasks before the interval elapses, got %d queued", got)
	}

	s.enqueueDueJobs(now.Add(5 * time.Minute))
	if got := len(s.taskQueue); got != 2 {
		t.Errorf("Expected second occurrence after the interval, got %d queued", got)
	}
}

func TestEnqueueDueJobsSkipsAtMaxInstances(t *testing.T) {
	s := newTestScheduler()
	defer s.cancel()

	s.Register(Job{
		Name:     "session-info",
		Interval: time.Minute,
		Make:     func() TaskInterface { return newNoopTask("session-info") },
	})

	now := time.Now().UTC()
	for i := 0; i < 5; i++ {
		s.enqueueDueJobs(now.Add(time.Duration(i) * time.Minute))
	}

	if got := len(s.taskQueue); got != defaultMaxInstances {
		t.Errorf("Expected queue capped at %d concurrent instances, got %d", defaultMaxInstances, got)
	}
	if s.running["session-info"] != defaultMaxInstances {
		t.Errorf("Expected running count %d, got %d", defaultMaxInstances, s.running["session-info"])
	}
}

func TestEnqueueDueJobsSkipsMisfiredOccurrence(t *testing.T) {
	s := newTestScheduler()
	defer s.cancel()

	s.Register(Job{
		Name:     "potus-schedule",
		Interval: 30 * time.Minute,
		Make:     func() TaskInterface { return newNoopTask("potus-schedule") },
	})

	now := time.Now().UTC()
	s.enqueueDueJobs(now)
	<-s.taskQueue

	// The next pass happens long after the occurrence was due: it is
	// skipped, and the schedule resets from the late pass.
	late := now.Add(30*time.Minute + misfireGrace + time.Second)
	s.enqueueDueJobs(late)

	if got := len(s.taskQueue); got != 0 {
		t.Fatalf("Expected misfired occurrence to be skipped, got %d queued", got)
	}

	s.enqueueDueJobs(late.Add(30 * time.Minute))
	if got := len(s.taskQueue); got != 1 {
		t.Errorf("Expected the following occurrence to run, got %d queued", got)
	}
}

func TestExecuteTaskReleasesRunningSlot(t *testing.T) {
	s := newTestScheduler()
	defer s.cancel()

	s.running["feed:gao-reports"] = 1
	s.executeTask(0, newNoopTask("feed:gao-reports"))

	if s.running["feed:gao-reports"] != 0 {
		t.Errorf("Expected running count released after execution, got %d", s.running["feed:gao-reports"])
	}
}
