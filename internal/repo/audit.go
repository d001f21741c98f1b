package repo

import (
	"math"
	"time"

	"github.com/emptyfist/crypto-portfolio/internal/models"

	"gorm.io/gorm/clause"
)

type AuditLogFilter struct {
	Action string
	Page   int
	Limit  int
}

type AuditLogPagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalCount int64 `json:"totalCount"`
	TotalPages int   `json:"totalPages"`
	HasMore    bool  `json:"hasMore"`
}

type AuditLogListResult struct {
	Logs       []models.AuditLog  `json:"data"`
	Pagination AuditLogPagination `json:"pagination"`
}

// AuditLogStats summarizes a user's recorded activity.
type AuditLogStats struct {
	TotalLogs      int64            `json:"totalLogs"`
	ActionCounts   map[string]int64 `json:"actionCounts"`
	RecentActivity int64            `json:"recentActivity"`
}

// CreateAuditLog persists one audit entry. Redelivered events with a
// known operation id are dropped, keeping at-least-once delivery
// idempotent. Only the audit recorder calls this.
func (r *Repository) CreateAuditLog(entry *models.AuditLog) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "operation_id"}},
		DoNothing: true,
	}).Create(entry).Error
}

// ListAuditLogs returns one page of the caller's own entries, newest
// first, optionally narrowed to one action kind.
func (r *Repository) ListAuditLogs(userID string, filter AuditLogFilter) (*AuditLogListResult, error) {
	query := r.db.Model(&models.AuditLog{}).Where("user_id = ?", userID)
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	var logs []models.AuditLog
	if err := query.Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&logs).Error; err != nil {
		return nil, err
	}

	return &AuditLogListResult{
		Logs: logs,
		Pagination: AuditLogPagination{
			Page:       page,
			Limit:      limit,
			TotalCount: total,
			TotalPages: int(math.Ceil(float64(total) / float64(limit))),
			HasMore:    int64(page*limit) < total,
		},
	}, nil
}

// AuditStats reports totals, per-action counts and activity within the
// last 24 hours for one user.
func (r *Repository) AuditStats(userID string) (*AuditLogStats, error) {
	stats := &AuditLogStats{
		ActionCounts: map[string]int64{},
	}

	if err := r.db.Model(&models.AuditLog{}).
		Where("user_id = ?", userID).
		Count(&stats.TotalLogs).Error; err != nil {
		return nil, err
	}

	var rows []struct {
		Action string
		Count  int64
	}
	if err := r.db.Model(&models.AuditLog{}).
		Select("action, COUNT(*) as count").
		Where("user_id = ?", userID).
		Group("action").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.ActionCounts[row.Action] = row.Count
	}

	yesterday := time.Now().UTC().Add(-24 * time.Hour)
	if err := r.db.Model(&models.AuditLog{}).
		Where("user_id = ? AND created_at >= ?", userID, yesterday).
		Count(&stats.RecentActivity).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
