package controller

import (
	"net/http"
	"strconv"

	"github.com/emptyfist/crypto-portfolio/internal/middleware"
	"github.com/emptyfist/crypto-portfolio/internal/repo"

	"github.com/gin-gonic/gin"
)

var validAuditActions = map[string]bool{
	repo.ActionImport: true,
	repo.ActionCreate: true,
	repo.ActionUpdate: true,
	repo.ActionDelete: true,
}

// AuditLogs lists the caller's audit trail
// @Summary Audit logs
// @Description The caller's own audit entries, newest first, optionally filtered by action
// @Tags audit
// @Produce json
// @Param action query string false "Filter by action (import, create, update, delete)"
// @Param page query int false "Page number (1-based)"
// @Param limit query int false "Page size"
// @Success 200 {object} repo.AuditLogListResult
// @Failure 400 {object} APIError
// @Failure 401 {object} APIError
// @Router /api/audit-logs [get]
func (c *Controller) AuditLogs(ctx *gin.Context) {
	filter := repo.AuditLogFilter{}

	if action := ctx.Query("action"); action != "" {
		if !validAuditActions[action] {
			badRequest(ctx, "action must be one of import, create, update, delete")
			return
		}
		filter.Action = action
	}
	if pageStr := ctx.Query("page"); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil {
			filter.Page = page
		}
	}
	if limitStr := ctx.Query("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = limit
		}
	}

	result, err := c.repo.ListAuditLogs(middleware.UserID(ctx), filter)
	if err != nil {
		c.logger.Error("failed to list audit logs", "error", err)
		internalError(ctx, "failed to fetch audit logs")
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// AuditStats summarizes the caller's audit trail
// @Summary Audit statistics
// @Description Total entries, per-action counts and activity within the last 24 hours
// @Tags audit
// @Produce json
// @Success 200 {object} repo.AuditLogStats
// @Failure 401 {object} APIError
// @Router /api/audit-logs/stats [get]
func (c *Controller) AuditStats(ctx *gin.Context) {
	stats, err := c.repo.AuditStats(middleware.UserID(ctx))
	if err != nil {
		c.logger.Error("failed to compute audit stats", "error", err)
		internalError(ctx, "failed to fetch audit stats")
		return
	}
	ctx.JSON(http.StatusOK, stats)
}
