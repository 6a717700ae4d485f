package tasks

// TaskSchedulerInterface defines the interface for background polling control.
// Used by the main application to manage the worker pool lifecycle.
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}
