package application

import (
	"context"
	"fmt"
	"time"

	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/entities"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// StatsReportWorker posts each tracked user's daily stats on a cron schedule (UTC)
type StatsReportWorker struct {
	reporter StatsReporter
	schedule cron.Schedule
	spec     string
	now      func() time.Time
}

// NewStatsReportWorker parses spec as a standard five-field cron expression
func NewStatsReportWorker(reporter StatsReporter, spec string) (*StatsReportWorker, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stats report schedule %q: %w", spec, err)
	}
	return &StatsReportWorker{
		reporter: reporter,
		schedule: schedule,
		spec:     spec,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

// Start schedules the report until ctx is done or the returned function is called
func (w *StatsReportWorker) Start(ctx context.Context) func() {
	scheduler := cron.New(cron.WithLocation(time.UTC))
	scheduler.Schedule(w.schedule, cron.FuncJob(func() { w.RunOnce(ctx) }))
	scheduler.Start()

	log.WithField("schedule", w.spec).Info("Stats report worker started")

	stopped := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
		case <-stopped:
		}
		<-scheduler.Stop().Done()
		log.Info("Stats report worker stopped")
	}()

	return func() {
		close(stopped)
	}
}

// RunOnce reports the day that just ended. Runs scheduled shortly after midnight
// therefore cover the previous day.
func (w *StatsReportWorker) RunOnce(ctx context.Context) int {
	at := w.now().Add(-time.Hour)
	sent := w.reporter.ReportTrackedUsers(ctx, entities.StatsPeriodDaily, at)
	log.WithFields(log.Fields{
		"day":  entities.StatsPeriodDaily.Key(at),
		"sent": sent,
	}).Info("Sent daily stats reports")
	return sent
}
