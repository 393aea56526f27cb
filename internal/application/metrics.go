package application

import "expvar"

// Process counters served by the debug module at /debug/vars.
var (
	metricSignups      = expvar.NewInt("signups_total")
	metricLogins       = expvar.NewInt("logins_total")
	metricLoginsFailed = expvar.NewInt("logins_failed_total")
	metricTasksCreated = expvar.NewInt("tasks_created_total")
	metricTasksUpdated = expvar.NewInt("tasks_updated_total")
	metricTasksDeleted = expvar.NewInt("tasks_deleted_total")
)
