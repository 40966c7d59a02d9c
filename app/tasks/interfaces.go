package tasks

// TaskSchedulerInterface defines the interface for background task
// scheduling. The main application starts/stops the scheduler; the API
// layer enqueues ad-hoc refreshes.
// Example usage:
//
//	scheduler := NewScheduler(feedStore, refresher)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(NewRefreshFeedTask(sub, refresher))
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}
