// Package jobs provides scheduled background tasks for the bookstore host.
//
// Jobs use github.com/robfig/cron/v3 with a seconds field, so schedules have
// six fields ("0 * * * * *" runs at the start of every minute).
//
// # Available Jobs
//
// 1. DataSourceStatisticsJob - counts the records of every data source through
// the processing engine and publishes them as the
// bookstore_data_source_records gauge.
//
// # Usage
//
//	statistics, err := jobs.NewDataSourceStatisticsJob(engine, uowFactory,
//	    "0 * * * * *", registry.DataSources(), jobs.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	jobManager := jobs.NewJobManager(logger, statistics)
//	if err := jobManager.StartAll(); err != nil {
//	    return err
//	}
//	defer jobManager.StopAll()
//
// # Units of work
//
// Every run creates its own unit of work and closes it when done. Jobs only
// read, so the unit of work is rolled back, never committed.
package jobs
