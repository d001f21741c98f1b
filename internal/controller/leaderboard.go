package controller

import (
	"net/http"

	"github.com/emptyfist/crypto-portfolio/internal/service"

	"github.com/gin-gonic/gin"
)

// Leaderboard ranks all users by portfolio value
// @Summary Leaderboard
// @Description All users ranked by current portfolio value, best first
// @Tags leaderboard
// @Produce json
// @Success 200 {array} service.LeaderboardEntry
// @Failure 401 {object} APIError
// @Router /api/leaderboard [get]
func (c *Controller) Leaderboard(ctx *gin.Context) {
	entries, err := service.ComputeLeaderboard(c.repo)
	if err != nil {
		c.logger.Error("failed to compute leaderboard", "error", err)
		internalError(ctx, "failed to compute leaderboard")
		return
	}
	ctx.JSON(http.StatusOK, entries)
}
