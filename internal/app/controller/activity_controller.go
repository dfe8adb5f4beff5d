package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fooddash/fooddash-backend/internal/app/model"
	"github.com/fooddash/fooddash-backend/internal/app/service"
	apperrors "github.com/fooddash/fooddash-backend/internal/errors"
	"github.com/fooddash/fooddash-backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

const (
	activityDateLayout = "2006-01-02"
	activitySheet      = "Activity Log"
	xlsxContentType    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type ActivityController struct {
	activityService service.ActivityService
	accountService  service.AccountService
}

func NewActivityController(activityService service.ActivityService, accountService service.AccountService) *ActivityController {
	return &ActivityController{
		activityService: activityService,
		accountService:  accountService,
	}
}

// query picks one source in order: search, period, from/to range, latest.
func (ctrl *ActivityController) query(c *gin.Context) ([]model.ActivityLog, bool) {
	var (
		logs []model.ActivityLog
		err  error
	)

	switch {
	case strings.TrimSpace(c.Query("search")) != "":
		logs, err = ctrl.activityService.Search(c.Query("search"))

	case c.Query("period") != "":
		logs, err = ctrl.activityService.ByPeriod(service.ActivityPeriod(c.Query("period")))
		if errors.Is(err, service.ErrInvalidPeriod) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "period must be one of: today, 3days, 7days, 30days")
			return nil, false
		}

	case c.Query("from") != "" || c.Query("to") != "":
		from, ferr := time.ParseInLocation(activityDateLayout, c.Query("from"), time.Local)
		to, terr := time.ParseInLocation(activityDateLayout, c.DefaultQuery("to", c.Query("from")), time.Local)
		if ferr != nil || terr != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "from and to must be YYYY-MM-DD")
			return nil, false
		}
		logs, err = ctrl.activityService.Range(from, to)

	default:
		limit := 0
		if raw := c.Query("limit"); raw != "" {
			parsed, perr := strconv.Atoi(raw)
			if perr != nil || parsed < 1 {
				apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "limit must be a positive number")
				return nil, false
			}
			limit = parsed
		}
		logs, err = ctrl.activityService.List(limit)
	}

	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to load activity log", err)
		apperrors.InternalError(c, "Failed to load activity log")
		return nil, false
	}
	if logs == nil {
		logs = []model.ActivityLog{}
	}
	return logs, true
}

// ListActivity returns activity entries, newest first
// GET /api/v1/activity?search=&period=&from=&to=&limit=
func (ctrl *ActivityController) ListActivity(c *gin.Context) {
	logs, ok := ctrl.query(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"logs":  logs,
		"count": len(logs),
	})
}

// CountActivity returns the number of stored entries
// GET /api/v1/activity/count
func (ctrl *ActivityController) CountActivity(c *gin.Context) {
	count, err := ctrl.activityService.Count()
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to count activity log", err)
		apperrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// ClearActivity wipes the log
// DELETE /api/v1/activity
func (ctrl *ActivityController) ClearActivity(c *gin.Context) {
	actor, ok := currentActor(c, ctrl.accountService)
	if !ok {
		return
	}

	removed, err := ctrl.activityService.ClearAll(actor)
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to clear activity log", err)
		apperrors.InternalError(c, "Failed to clear activity log")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Activity log cleared",
		"removed": removed,
	})
}

// ExportActivity streams the selected entries as an XLSX workbook
// GET /api/v1/activity/export
func (ctrl *ActivityController) ExportActivity(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	logs, ok := ctrl.query(c)
	if !ok {
		return
	}

	f, err := BuildActivityWorkbook(logs)
	if err != nil {
		log.Error("Failed to build activity workbook", err)
		apperrors.InternalError(c, "Failed to export activity log")
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("activity_log_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Type", xlsxContentType)
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		log.Error("Failed to write activity workbook", err)
	}
}

// BuildActivityWorkbook lays the entries out one per row under a header
func BuildActivityWorkbook(logs []model.ActivityLog) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", activitySheet); err != nil {
		f.Close()
		return nil, err
	}

	header := []interface{}{"Date & Time", "Staff Name", "Staff ID", "Action", "Details"}
	if err := f.SetSheetRow(activitySheet, "A1", &header); err != nil {
		f.Close()
		return nil, err
	}

	for i, entry := range logs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		row := []interface{}{
			entry.CreatedAt.Format("2006-01-02 15:04:05"),
			entry.StaffName,
			entry.StaffID,
			entry.Action,
			entry.Details,
		}
		if err := f.SetSheetRow(activitySheet, cell, &row); err != nil {
			f.Close()
			return nil, err
		}
	}

	_ = f.SetColWidth(activitySheet, "A", "A", 20)
	_ = f.SetColWidth(activitySheet, "B", "D", 22)
	_ = f.SetColWidth(activitySheet, "E", "E", 50)
	return f, nil
}
