package controller

import (
	"strconv"

	"github.com/fooddash/fooddash-backend/internal/app/model"
	"github.com/fooddash/fooddash-backend/internal/app/service"
	apperrors "github.com/fooddash/fooddash-backend/internal/errors"
	"github.com/fooddash/fooddash-backend/internal/middleware"
	"github.com/fooddash/fooddash-backend/internal/validation"
	"github.com/gin-gonic/gin"
)

var validate = validation.New()

// parseIDParam reads a positive numeric path parameter. It writes the 400
// response itself.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		middleware.GetLoggerFromContext(c).Warn("Invalid ID parameter", map[string]interface{}{
			"param": name,
			"value": raw,
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// currentActor resolves the logged in staff member or admin for activity
// logging. It writes the error response itself.
func currentActor(c *gin.Context, accounts service.AccountService) (model.Actor, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return model.Actor{}, false
	}
	role, _ := middleware.GetUserRole(c)

	actor, err := accounts.ResolveActor(role, userID)
	if err != nil {
		middleware.GetLoggerFromContext(c).Warn("Failed to resolve actor", map[string]interface{}{
			"user_id": userID,
			"role":    role,
			"error":   err.Error(),
		})
		apperrors.Unauthorized(c, "Account no longer exists")
		return model.Actor{}, false
	}
	return actor, true
}
