package jobs

import (
	"fmt"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	carrierSyncJob  *CarrierSyncJob
	autoCompleteJob *AutoCompleteJob
}

func NewJobManager(carrierSyncJob *CarrierSyncJob, autoCompleteJob *AutoCompleteJob) *JobManager {
	return &JobManager{
		carrierSyncJob:  carrierSyncJob,
		autoCompleteJob: autoCompleteJob,
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.carrierSyncJob.Start(); err != nil {
		return fmt.Errorf("failed to start carrier sync job: %w", err)
	}

	if err := jm.autoCompleteJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.carrierSyncJob.Stop()
		return fmt.Errorf("failed to start auto-complete job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs and waits for running ones to finish.
func (jm *JobManager) StopAll() {
	jm.autoCompleteJob.Stop()
	jm.carrierSyncJob.Stop()
}
