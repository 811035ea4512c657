package tasks

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cipherkeeper/capitol-feed/app/cfg"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

const (
	// tickInterval bounds how far past its scheduled time a job can start
	// under normal load.
	tickInterval = 10 * time.Second

	// misfireGrace is how late an occurrence may start before it is
	// skipped entirely in favor of the next one.
	misfireGrace = 60 * time.Second

	// defaultMaxInstances caps concurrent runs of a single job.
	defaultMaxInstances = 3
)

// Job is a recurring unit of work. Make produces a fresh task for each
// occurrence; the first occurrence runs immediately on Start.
type Job struct {
	Name         string
	Interval     time.Duration
	MaxInstances int
	Make         func() TaskInterface
}

type job struct {
	Job
	nextRun time.Time
}

type Scheduler struct {
	workerCount int
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	taskQueue   chan TaskInterface

	mu      sync.Mutex
	jobs    []*job
	running map[string]int
}

func NewScheduler() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		workerCount: cfg.WorkerCount,
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, 300),
		running:     make(map[string]int),
	}
}

// Register adds a recurring job. Must be called before Start.
func (s *Scheduler) Register(j Job) {
	if j.MaxInstances <= 0 {
		j.MaxInstances = defaultMaxInstances
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, &job{Job: j})
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(tickInterval)
		defer ticker.Stop()

		s.enqueueDueJobs(time.Now().UTC())

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueDueJobs(time.Now().UTC())
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

// enqueueDueJobs runs every due job once. A job whose occurrence is more
// than misfireGrace past due is skipped until its next occurrence, and a
// job already running MaxInstances times skips this occurrence.
func (s *Scheduler) enqueueDueJobs(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, j := range s.jobs {
		if j.nextRun.IsZero() {
			j.nextRun = now
		}
		if now.Before(j.nextRun) {
			continue
		}

		late := now.Sub(j.nextRun)
		j.nextRun = now.Add(j.Interval)

		if late > misfireGrace {
			slog.Warn("Job occurrence missed its window, skipping", "job", j.Name, "late", late.String())
			continue
		}

		if s.running[j.Name] >= j.MaxInstances {
			slog.Warn("Job at max concurrent instances, skipping occurrence", "job", j.Name, "max", j.MaxInstances)
			continue
		}

		task := j.Make()
		select {
		case s.taskQueue <- task:
			s.running[j.Name]++
		default:
			slog.Warn("Task queue is full, skipping occurrence", "job", j.Name)
		}
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	defer func() {
		s.mu.Lock()
		if s.running[task.GetJobName()] > 0 {
			s.running[task.GetJobName()]--
		}
		s.mu.Unlock()
	}()

	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	if err := task.Execute(taskCtx); err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "job", task.GetJobName(), "id", task.GetID(), "error", err)
	}
}
