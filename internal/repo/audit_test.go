package repo

import (
	"fmt"
	"testing"
	"time"

	"github.com/emptyfist/crypto-portfolio/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func auditEntry(userID, action string) *models.AuditLog {
	return &models.AuditLog{
		OperationID: uuid.NewString(),
		UserID:      userID,
		Action:      action,
		EntityID:    uuid.NewString(),
		Description: fmt.Sprintf("%s transaction", action),
	}
}

func TestCreateAuditLog_IdempotentOnOperationID(t *testing.T) {
	r := setupRepo(t)

	entry := auditEntry("user-1", ActionCreate)
	require.NoError(t, r.CreateAuditLog(entry))

	redelivered := auditEntry("user-1", ActionCreate)
	redelivered.OperationID = entry.OperationID
	redelivered.Description = "redelivered copy"
	require.NoError(t, r.CreateAuditLog(redelivered))

	result, err := r.ListAuditLogs("user-1", AuditLogFilter{})
	require.NoError(t, err)
	require.Len(t, result.Logs, 1)
	assert.Equal(t, fmt.Sprintf("%s transaction", ActionCreate), result.Logs[0].Description)
}

func TestListAuditLogs_FilterAndPagination(t *testing.T) {
	r := setupRepo(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, r.CreateAuditLog(auditEntry("user-1", ActionImport)))
	}
	require.NoError(t, r.CreateAuditLog(auditEntry("user-1", ActionDelete)))
	require.NoError(t, r.CreateAuditLog(auditEntry("user-2", ActionImport)))

	all, err := r.ListAuditLogs("user-1", AuditLogFilter{})
	require.NoError(t, err)
	assert.Len(t, all.Logs, 4)
	assert.Equal(t, int64(4), all.Pagination.TotalCount)
	assert.False(t, all.Pagination.HasMore)

	imports, err := r.ListAuditLogs("user-1", AuditLogFilter{Action: ActionImport})
	require.NoError(t, err)
	assert.Len(t, imports.Logs, 3)

	page1, err := r.ListAuditLogs("user-1", AuditLogFilter{Page: 1, Limit: 3})
	require.NoError(t, err)
	assert.Len(t, page1.Logs, 3)
	assert.Equal(t, 2, page1.Pagination.TotalPages)
	assert.True(t, page1.Pagination.HasMore)

	page2, err := r.ListAuditLogs("user-1", AuditLogFilter{Page: 2, Limit: 3})
	require.NoError(t, err)
	assert.Len(t, page2.Logs, 1)
	assert.False(t, page2.Pagination.HasMore)
}

func TestAuditStats(t *testing.T) {
	r := setupRepo(t)

	for i := 0; i < 2; i++ {
		require.NoError(t, r.CreateAuditLog(auditEntry("user-1", ActionImport)))
	}
	require.NoError(t, r.CreateAuditLog(auditEntry("user-1", ActionUpdate)))

	stale := auditEntry("user-1", ActionDelete)
	stale.CreatedAt = time.Now().UTC().Add(-48 * time.Hour)
	require.NoError(t, r.CreateAuditLog(stale))

	stats, err := r.AuditStats("user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.TotalLogs)
	assert.Equal(t, int64(2), stats.ActionCounts[ActionImport])
	assert.Equal(t, int64(1), stats.ActionCounts[ActionUpdate])
	assert.Equal(t, int64(1), stats.ActionCounts[ActionDelete])
	assert.Equal(t, int64(3), stats.RecentActivity)
}

func TestAuditStats_Empty(t *testing.T) {
	r := setupRepo(t)

	stats, err := r.AuditStats("user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalLogs)
	assert.Empty(t, stats.ActionCounts)
	assert.Equal(t, int64(0), stats.RecentActivity)
}
