package scheduler

import (
	"github.com/fooddash/fooddash-backend/config"
	"github.com/fooddash/fooddash-backend/internal/app/service"
	"github.com/fooddash/fooddash-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// ReportScheduler runs the activity retention purge and the end of day
// sales summary.
type ReportScheduler struct {
	cron      *cron.Cron
	cfg       config.SchedulerConfig
	activity  service.ActivityService
	analytics service.AnalyticsService
	log       *logger.Logger
}

func NewReportScheduler(cfg config.SchedulerConfig, activity service.ActivityService, analytics service.AnalyticsService) *ReportScheduler {
	return &ReportScheduler{
		cron:      cron.New(),
		cfg:       cfg,
		activity:  activity,
		analytics: analytics,
		log:       logger.Named("report_scheduler"),
	}
}

// Start registers the jobs and starts the cron runner. Retention is only
// scheduled when ActivityRetentionDays is positive.
func (s *ReportScheduler) Start() error {
	if s.cfg.ActivityRetentionDays > 0 {
		if _, err := s.cron.AddFunc(s.cfg.RetentionSchedule, s.PurgeActivity); err != nil {
			s.log.Error("Failed to add cron job for activity retention", err, map[string]interface{}{
				"schedule": s.cfg.RetentionSchedule,
			})
			return err
		}
	}

	if _, err := s.cron.AddFunc(s.cfg.DailySummarySchedule, s.LogDailySummary); err != nil {
		s.log.Error("Failed to add cron job for daily summary", err, map[string]interface{}{
			"schedule": s.cfg.DailySummarySchedule,
		})
		return err
	}

	s.cron.Start()
	s.log.Info("Report scheduler started", map[string]interface{}{
		"jobs":             len(s.cron.Entries()),
		"retention_days":   s.cfg.ActivityRetentionDays,
		"summary_schedule": s.cfg.DailySummarySchedule,
	})
	return nil
}

func (s *ReportScheduler) Stop() {
	s.log.Info("Stopping report scheduler...")
	<-s.cron.Stop().Done()
	s.log.Info("Report scheduler stopped")
}

// PurgeActivity drops activity entries older than the retention window
func (s *ReportScheduler) PurgeActivity() {
	removed, err := s.activity.PurgeOlderThan(s.cfg.ActivityRetentionDays)
	if err != nil {
		s.log.Error("Scheduled activity purge failed", err)
		return
	}
	s.log.Info("Scheduled activity purge finished", map[string]interface{}{
		"removed": removed,
	})
}

// LogDailySummary writes today's dashboard numbers to the log
func (s *ReportScheduler) LogDailySummary() {
	summary, err := s.analytics.Dashboard()
	if err != nil {
		s.log.Error("Failed to build daily sales summary", err)
		return
	}
	s.log.Info("Daily sales summary", map[string]interface{}{
		"today_orders":   summary.TodayOrders,
		"today_revenue":  summary.TodayRevenue.StringFixed(2),
		"pending_orders": summary.PendingOrders,
		"total_orders":   summary.TotalOrders,
		"total_revenue":  summary.TotalRevenue.StringFixed(2),
	})
}
