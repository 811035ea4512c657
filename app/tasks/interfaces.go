package tasks

// TaskSchedulerInterface defines the interface for background job scheduling.
// Used by the main application to manage the refresh cycles.
// Jobs are registered before Start; each job produces a fresh task per
// occurrence and runs on the shared worker pool.
// Example usage:
//
//	scheduler := NewScheduler()
//	scheduler.Register(Job{Name: "feed:gao-reports", Interval: 5 * time.Minute, Make: ...})
//	scheduler.Start()
//	defer scheduler.Stop()
type TaskSchedulerInterface interface {
	Register(job Job)
	Start()
	Stop()
}
