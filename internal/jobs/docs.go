// Package jobs provides the timer-driven side of the order lifecycle.
//
// Jobs are cron schedulers built on github.com/robfig/cron/v3 with seconds
// enabled. They hold no lifecycle rules of their own: each tick builds a
// command and hands it to the same handlers the HTTP edge uses, so every
// state change still goes through the transition executor.
//
// # Available Jobs
//
// 1. CarrierSyncJob - polls the carrier for orders in Packing, ReadyToShip,
// Shipping and DeliveryFailed and reconciles changed statuses
// 2. AutoCompleteJob - moves Delivered orders past the grace period to
// Completed as system:auto-complete
//
// # Usage
//
//	syncJob := jobs.NewCarrierSyncJob(syncHandler, "0 */5 * * * *", 200, logger)
//	completeJob := jobs.NewAutoCompleteJob(completeHandler, "0 0 * * * *", 7*24*time.Hour, 200, logger)
//	jobManager := jobs.NewJobManager(syncJob, completeJob)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - A tick that fails is logged and retried on the next tick
// - Overlapping ticks are skipped while the previous one still runs
// - Failed job starts will stop any already running jobs
package jobs
