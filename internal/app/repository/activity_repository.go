package repository

import (
	"time"

	"github.com/fooddash/fooddash-backend/internal/app/model"
	"github.com/fooddash/fooddash-backend/pkg/logger"
	"gorm.io/gorm"
)

type ActivityRepository interface {
	Create(entry *model.ActivityLog) error
	FindRecent(limit int) ([]model.ActivityLog, error)
	Search(term string, limit int) ([]model.ActivityLog, error)
	FindBetween(start, end time.Time) ([]model.ActivityLog, error)
	Count() (int64, error)
	DeleteAll(marker *model.ActivityLog) (int64, error)
	DeleteBefore(cutoff time.Time) (int64, error)
}

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(entry *model.ActivityLog) error {
	if err := r.db.Create(entry).Error; err != nil {
		logger.Error("Failed to write activity log", err, map[string]interface{}{
			"staff_id": entry.StaffID,
			"action":   entry.Action,
		})
		return err
	}
	return nil
}

func (r *activityRepository) FindRecent(limit int) ([]model.ActivityLog, error) {
	var entries []model.ActivityLog
	query := r.db.Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&entries).Error; err != nil {
		logger.Error("Failed to load activity logs", err)
		return nil, err
	}
	return entries, nil
}

func (r *activityRepository) Search(term string, limit int) ([]model.ActivityLog, error) {
	logger.Debug("Searching activity logs", map[string]interface{}{
		"term": term,
	})

	like := "%" + term + "%"
	query := r.db.Where("staff_name LIKE ? OR action LIKE ? OR details LIKE ?", like, like, like).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var entries []model.ActivityLog
	if err := query.Find(&entries).Error; err != nil {
		logger.Error("Failed to search activity logs", err, map[string]interface{}{
			"term": term,
		})
		return nil, err
	}
	return entries, nil
}

// FindBetween returns entries with start <= created_at < end, newest first
func (r *activityRepository) FindBetween(start, end time.Time) ([]model.ActivityLog, error) {
	var entries []model.ActivityLog
	if err := r.db.Where("created_at >= ? AND created_at < ?", start, end).
		Order("created_at DESC, id DESC").
		Find(&entries).Error; err != nil {
		logger.Error("Failed to load activity logs by date", err, map[string]interface{}{
			"start": start,
			"end":   end,
		})
		return nil, err
	}
	return entries, nil
}

func (r *activityRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&model.ActivityLog{}).Count(&count).Error; err != nil {
		logger.Error("Failed to count activity logs", err)
		return 0, err
	}
	return count, nil
}

// DeleteAll empties the log. A non-nil marker is written in the same
// transaction.
func (r *activityRepository) DeleteAll(marker *model.ActivityLog) (int64, error) {
	var removed int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.ActivityLog{})
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected
		if marker == nil {
			return nil
		}
		return tx.Create(marker).Error
	})
	if err != nil {
		logger.Error("Failed to clear activity logs", err)
		return 0, err
	}
	return removed, nil
}

func (r *activityRepository) DeleteBefore(cutoff time.Time) (int64, error) {
	res := r.db.Where("created_at < ?", cutoff).Delete(&model.ActivityLog{})
	if res.Error != nil {
		logger.Error("Failed to purge activity logs", res.Error, map[string]interface{}{
			"cutoff": cutoff,
		})
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
