// Package jobs provides scheduled background tasks for the parcel platform.
//
// Jobs run on github.com/robfig/cron/v3 schedules and push their findings
// to the operations team over the realtime admin channel:
//
//  1. UnassignedParcelsJob - flags bookings that have waited too long for
//     an agent assignment (every minute)
//  2. StaleTransitJob - flags in-flight parcels whose location has not
//     been reported recently (every five minutes)
//
// Jobs are managed through JobManager:
//
//	jobManager := jobs.NewJobManager(unassignedJob, staleTransitJob)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// Failed job starts stop any already running jobs.
package jobs
