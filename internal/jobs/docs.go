// Package jobs provides scheduled background tasks for the storefront.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. PricingDriftAuditJob - re-derives the price breakdown of recently placed
// orders with the config version each order recorded and reports orders whose
// stored numbers differ. Stored breakdowns are never changed.
//
// # Usage
//
//	auditJob := jobs.NewPricingDriftAuditJob(auditHandler, "0 */15 * * * *", 24*time.Hour, logger)
//	jobManager := jobs.NewJobManager(auditJob)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Schedules use the six-field cron format with seconds. A run that is still
// going when the next one is due makes the next one skip.
package jobs
