package controller

import (
	"net/http"
	"strconv"

	"github.com/fooddash/fooddash-backend/internal/analytics"
	"github.com/fooddash/fooddash-backend/internal/app/service"
	apperrors "github.com/fooddash/fooddash-backend/internal/errors"
	"github.com/fooddash/fooddash-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	analyticsService service.AnalyticsService
}

func NewAnalyticsController(analyticsService service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{analyticsService: analyticsService}
}

// GetDashboard returns the headline numbers
// GET /api/v1/analytics/dashboard
func (ctrl *AnalyticsController) GetDashboard(c *gin.Context) {
	summary, err := ctrl.analyticsService.Dashboard()
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to build dashboard", err)
		apperrors.InternalError(c, "Failed to load dashboard")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetMonthlyRevenue returns completed revenue per month
// GET /api/v1/analytics/monthly?year=
func (ctrl *AnalyticsController) GetMonthlyRevenue(c *gin.Context) {
	year := 0
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "year must be a positive number")
			return
		}
		year = parsed
	}

	report, err := ctrl.analyticsService.MonthlyRevenue(year)
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to build monthly revenue", err, map[string]interface{}{
			"year": year,
		})
		apperrors.InternalError(c, "Failed to load monthly revenue")
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetPopularItems ranks items of completed orders
// GET /api/v1/analytics/popular?limit=
func (ctrl *AnalyticsController) GetPopularItems(c *gin.Context) {
	limit := analytics.DefaultPopularLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "limit must be a number")
			return
		}
		limit = parsed
	}

	items, err := ctrl.analyticsService.PopularItems(limit)
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to rank popular items", err)
		apperrors.InternalError(c, "Failed to load popular items")
		return
	}
	if items == nil {
		items = []analytics.PopularItem{}
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}
