package app

import (
	"fmt"

	"github.com/robfig/cron/v3"

	"conversation-router/internal/common/logging"
	"conversation-router/internal/routing"
)

// StatsReporter logs a routing metrics digest on a cron schedule so operators
// see engine health without polling the API.
type StatsReporter struct {
	engine *routing.Engine
	logger logging.Logger
	cron   *cron.Cron
}

// NewStatsReporter builds a reporter for the given schedule. The schedule
// uses the standard cron format and descriptors like "@every 5m".
func NewStatsReporter(engine *routing.Engine, schedule string, logger logging.Logger) (*StatsReporter, error) {
	reporter := &StatsReporter{
		engine: engine,
		logger: logger,
		cron:   cron.New(),
	}

	if _, err := reporter.cron.AddFunc(schedule, reporter.report); err != nil {
		return nil, fmt.Errorf("invalid stats report schedule %q: %w", schedule, err)
	}
	return reporter, nil
}

// Start begins the reporting schedule.
func (r *StatsReporter) Start() {
	r.cron.Start()
}

// Stop halts the schedule and waits for an in-flight report to finish. Safe
// to call more than once.
func (r *StatsReporter) Stop() {
	<-r.cron.Stop().Done()
}

// report logs one metrics digest plus a warning per rule that has gone over
// the evaluation budget since the last reset.
func (r *StatsReporter) report() {
	metrics := r.engine.Metrics()
	r.logger.Info("Routing metrics report",
		logging.Field{Key: "evaluations", Value: metrics.Evaluations},
		logging.Field{Key: "matches", Value: metrics.Matches},
		logging.Field{Key: "no_matches", Value: metrics.NoMatches},
		logging.Field{Key: "errors", Value: metrics.Errors},
		logging.Field{Key: "cache_hits", Value: metrics.CacheHits},
		logging.Field{Key: "cache_misses", Value: metrics.CacheMisses},
		logging.Field{Key: "actions_applied", Value: metrics.ActionsApplied},
		logging.Field{Key: "actions_failed", Value: metrics.ActionsFailed},
		logging.Field{Key: "average_latency", Value: metrics.AverageLatency.String()},
	)

	for _, profile := range r.engine.ProfilerStats() {
		if profile.SlowEvaluations == 0 {
			continue
		}
		r.logger.Warn("Rule exceeding evaluation budget",
			logging.Field{Key: "rule", Value: profile.RuleName},
			logging.Field{Key: "slow_evaluations", Value: profile.SlowEvaluations},
			logging.Field{Key: "average_time", Value: profile.AverageTime.String()},
			logging.Field{Key: "max_time", Value: profile.MaxTime.String()},
		)
	}
}

func (app *App) initializeStatsReporter() error {
	if app.Config.StatsReportSchedule == "" {
		app.Logger.Info("Stats Reporting: Disabled")
		return nil
	}

	reporter, err := NewStatsReporter(
		app.Engine,
		app.Config.StatsReportSchedule,
		logging.GetGlobalLogger().WithFields(logging.Field{Key: "component", Value: "stats"}),
	)
	if err != nil {
		return err
	}

	reporter.Start()
	app.Reporter = reporter
	app.Logger.Info("Stats Reporting: Enabled",
		logging.Field{Key: "schedule", Value: app.Config.StatsReportSchedule})
	return nil
}
