package jobs

import (
	"fmt"

	"go.uber.org/zap"
)

// Job is a scheduled task the JobManager can start and stop.
type Job interface {
	Name() string
	Start() error
	Stop()
}

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	jobs   []Job
	logger *zap.Logger
}

func NewJobManager(logger *zap.Logger, jobs ...Job) *JobManager {
	return &JobManager{
		jobs:   jobs,
		logger: logger.With(zap.String("component", "job_manager")),
	}
}

// StartAll starts the jobs in order. If one fails to start, the jobs already
// started are stopped again.
func (jm *JobManager) StartAll() error {
	for i, job := range jm.jobs {
		if err := job.Start(); err != nil {
			for _, started := range jm.jobs[:i] {
				started.Stop()
			}
			return fmt.Errorf("failed to start %s: %w", job.Name(), err)
		}
		jm.logger.Info("job started", zap.String("job", job.Name()))
	}
	return nil
}

// StopAll stops all jobs and waits for running executions to finish.
func (jm *JobManager) StopAll() {
	for _, job := range jm.jobs {
		job.Stop()
		jm.logger.Info("job stopped", zap.String("job", job.Name()))
	}
}
