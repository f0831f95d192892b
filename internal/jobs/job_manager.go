package jobs

import (
	"fmt"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	pricingDriftAuditJob *PricingDriftAuditJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(pricingDriftAuditJob *PricingDriftAuditJob) *JobManager {
	return &JobManager{
		pricingDriftAuditJob: pricingDriftAuditJob,
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.pricingDriftAuditJob.Start(); err != nil {
		return fmt.Errorf("failed to start pricing drift audit job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.pricingDriftAuditJob.Stop()
}
