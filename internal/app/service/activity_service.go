package service

import (
	"errors"
	"strings"
	"time"

	"github.com/fooddash/fooddash-backend/internal/app/model"
	"github.com/fooddash/fooddash-backend/internal/app/repository"
	"github.com/fooddash/fooddash-backend/pkg/logger"
)

const (
	defaultActivityLimit = 100
	activitySearchLimit  = 50
)

var ErrInvalidPeriod = errors.New("invalid activity period")

// ActivityPeriod selects a window ending today
type ActivityPeriod string

const (
	PeriodToday     ActivityPeriod = "today"
	PeriodLast3Days ActivityPeriod = "3days"
	PeriodLastWeek  ActivityPeriod = "7days"
	PeriodLastMonth ActivityPeriod = "30days"
)

var periodDays = map[ActivityPeriod]int{
	PeriodToday:     1,
	PeriodLast3Days: 3,
	PeriodLastWeek:  7,
	PeriodLastMonth: 30,
}

type ActivityService interface {
	Log(actor model.Actor, action, details string) error
	List(limit int) ([]model.ActivityLog, error)
	Search(term string) ([]model.ActivityLog, error)
	Today() ([]model.ActivityLog, error)
	LastDays(days int) ([]model.ActivityLog, error)
	ByPeriod(period ActivityPeriod) ([]model.ActivityLog, error)
	Range(from, to time.Time) ([]model.ActivityLog, error)
	Count() (int64, error)
	ClearAll(actor model.Actor) (int64, error)
	PurgeOlderThan(days int) (int64, error)
}

type activityService struct {
	activityRepo repository.ActivityRepository
	now          func() time.Time
}

func NewActivityService(activityRepo repository.ActivityRepository) ActivityService {
	return &activityService{activityRepo: activityRepo, now: time.Now}
}

func newActivityEntry(actor model.Actor, action, details string) *model.ActivityLog {
	return &model.ActivityLog{
		StaffName: actor.Name,
		StaffID:   actor.Code,
		Action:    action,
		Details:   details,
	}
}

func (s *activityService) Log(actor model.Actor, action, details string) error {
	entry := newActivityEntry(actor, action, details)
	if err := s.activityRepo.Create(entry); err != nil {
		return err
	}
	logger.Debug("Activity recorded", map[string]interface{}{
		"staff_id": actor.Code,
		"action":   action,
	})
	return nil
}

func (s *activityService) List(limit int) ([]model.ActivityLog, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	return s.activityRepo.FindRecent(limit)
}

func (s *activityService) Search(term string) ([]model.ActivityLog, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.List(defaultActivityLimit)
	}
	return s.activityRepo.Search(term, activitySearchLimit)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func (s *activityService) Today() ([]model.ActivityLog, error) {
	return s.LastDays(1)
}

// LastDays covers the last n calendar days including today
func (s *activityService) LastDays(days int) ([]model.ActivityLog, error) {
	if days < 1 {
		days = 1
	}
	today := startOfDay(s.now())
	return s.activityRepo.FindBetween(today.AddDate(0, 0, -(days-1)), today.AddDate(0, 0, 1))
}

func (s *activityService) ByPeriod(period ActivityPeriod) ([]model.ActivityLog, error) {
	days, ok := periodDays[period]
	if !ok {
		return nil, ErrInvalidPeriod
	}
	return s.LastDays(days)
}

// Range returns entries between two calendar dates, both inclusive
func (s *activityService) Range(from, to time.Time) ([]model.ActivityLog, error) {
	start, end := startOfDay(from), startOfDay(to)
	if end.Before(start) {
		start, end = end, start
	}
	return s.activityRepo.FindBetween(start, end.AddDate(0, 0, 1))
}

func (s *activityService) Count() (int64, error) {
	return s.activityRepo.Count()
}

// ClearAll wipes the log and leaves a single entry recording who did it
func (s *activityService) ClearAll(actor model.Actor) (int64, error) {
	removed, err := s.activityRepo.DeleteAll(newActivityEntry(actor, model.ActionClearActivityLog, ""))
	if err != nil {
		return 0, err
	}

	logger.Info("Activity log cleared", map[string]interface{}{
		"staff_id": actor.Code,
		"removed":  removed,
	})
	return removed, nil
}

func (s *activityService) PurgeOlderThan(days int) (int64, error) {
	if days <= 0 {
		return 0, nil
	}
	cutoff := startOfDay(s.now()).AddDate(0, 0, -days)
	removed, err := s.activityRepo.DeleteBefore(cutoff)
	if err != nil {
		return 0, err
	}
	logger.Info("Old activity logs purged", map[string]interface{}{
		"cutoff":  cutoff.Format("2006-01-02"),
		"removed": removed,
	})
	return removed, nil
}
