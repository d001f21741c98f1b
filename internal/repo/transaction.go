package repo

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/emptyfist/crypto-portfolio/internal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TransactionFilter narrows List results. All fields are optional.
type TransactionFilter struct {
	Symbol    string
	Type      string
	StartDate *time.Time
	EndDate   *time.Time
	FileName  string
	Page      int
	Limit     int
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type TransactionListResult struct {
	Transactions []models.Transaction `json:"transactions"`
	Pagination   Pagination           `json:"pagination"`
}

// columns overwritten when a re-imported row hits the (user_id,
// transaction_id) uniqueness constraint.
var transactionUpsertColumns = []string{
	"symbol", "type", "amount", "price", "date_time",
	"network", "file_name", "upload_date", "updated_at",
}

// UpsertTransactions persists a batch for one user in a single statement.
// Rows whose (user, transaction id) pair already exists are overwritten,
// so retrying the same import is idempotent. Returns the number of rows
// written and emits one import audit event for the batch.
func (r *Repository) UpsertTransactions(userID string, txs []models.Transaction, fileName string, uploadDate time.Time, meta AuditMeta) (int, error) {
	if len(txs) == 0 {
		return 0, ErrEmptyBatch
	}

	now := time.Now().UTC()
	for i := range txs {
		txs[i].UserID = userID
		if txs[i].FileName == "" {
			txs[i].FileName = fileName
		}
		txs[i].UploadDate = uploadDate
		txs[i].CreatedAt = now
		txs[i].UpdatedAt = now
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "transaction_id"}},
		DoUpdates: clause.AssignmentColumns(transactionUpsertColumns),
	}).Create(&txs).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, errors.Wrap(ErrDuplicateTransaction, "check your CSV file for duplicate transaction ids")
		}
		return 0, errors.Wrap(err, "failed to save transactions")
	}

	metadata, _ := json.Marshal(map[string]any{
		"fileName": fileName,
		"count":    len(txs),
	})
	r.publishEvent(AuditEvent{
		UserID:      userID,
		Action:      ActionImport,
		Description: fmt.Sprintf("Imported %d transactions from %s", len(txs), fileName),
		Metadata:    string(metadata),
		IPAddress:   meta.IPAddress,
		UserAgent:   meta.UserAgent,
	})

	return len(txs), nil
}

// ListTransactions returns one page of the caller's history, newest first.
func (r *Repository) ListTransactions(userID string, filter TransactionFilter) (*TransactionListResult, error) {
	query := r.db.Model(&models.Transaction{}).Where("user_id = ?", userID)

	if filter.Symbol != "" {
		query = query.Where("symbol = ? COLLATE NOCASE", filter.Symbol)
	}
	if filter.Type != "" {
		query = query.Where("type = ? COLLATE NOCASE", filter.Type)
	}
	if filter.StartDate != nil {
		query = query.Where("date_time >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("date_time <= ?", *filter.EndDate)
	}
	if filter.FileName != "" {
		query = query.Where("file_name LIKE ?", "%"+filter.FileName+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, errors.Wrap(err, "failed to fetch transactions")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	var transactions []models.Transaction
	if err := query.Order("date_time DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&transactions).Error; err != nil {
		return nil, errors.Wrap(err, "failed to fetch transactions")
	}

	return &TransactionListResult{
		Transactions: transactions,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: int(math.Ceil(float64(total) / float64(limit))),
		},
	}, nil
}

// TransactionsForUser returns the full history used by holdings
// aggregation.
func (r *Repository) TransactionsForUser(userID string) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := r.db.Where("user_id = ?", userID).
		Order("date_time ASC").
		Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

// Fields a partial update may touch. Everything else, notably the dedup
// key and ownership, is immutable through this path.
var transactionUpdatableFields = map[string]struct{}{
	"symbol": {}, "type": {}, "amount": {}, "price": {},
	"date_time": {}, "network": {},
}

// UpdateTransaction applies a partial field update to the caller's own
// transaction. A missing or foreign id reports ErrNotFound; the caller
// cannot distinguish the two cases.
func (r *Repository) UpdateTransaction(userID, id string, fields map[string]any, meta AuditMeta) (*models.Transaction, error) {
	for name := range fields {
		if _, ok := transactionUpdatableFields[name]; !ok {
			return nil, errors.Errorf("field %s cannot be updated", name)
		}
	}
	if len(fields) == 0 {
		return nil, errors.New("no fields to update")
	}

	var before models.Transaction
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&before).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to update transaction")
	}

	fields["updated_at"] = time.Now().UTC()
	res := r.db.Model(&models.Transaction{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(fields)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "failed to update transaction")
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	var after models.Transaction
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&after).Error; err != nil {
		return nil, errors.Wrap(err, "failed to update transaction")
	}

	oldJSON, _ := json.Marshal(before)
	newJSON, _ := json.Marshal(after)
	r.publishEvent(AuditEvent{
		UserID:      userID,
		Action:      ActionUpdate,
		EntityID:    id,
		Description: fmt.Sprintf("Updated %s %s transaction", after.Symbol, after.Type),
		OldValues:   string(oldJSON),
		NewValues:   string(newJSON),
		IPAddress:   meta.IPAddress,
		UserAgent:   meta.UserAgent,
	})

	return &after, nil
}

// DeleteTransaction permanently removes the caller's own transaction.
// Deleting a missing or foreign id reports ErrNotFound rather than
// succeeding silently; tests lock this choice in.
func (r *Repository) DeleteTransaction(userID, id string, meta AuditMeta) error {
	var before models.Transaction
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&before).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return errors.Wrap(err, "failed to delete transaction")
	}

	res := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Transaction{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "failed to delete transaction")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	oldJSON, _ := json.Marshal(before)
	r.publishEvent(AuditEvent{
		UserID:      userID,
		Action:      ActionDelete,
		EntityID:    id,
		Description: fmt.Sprintf("Deleted %s %s transaction", before.Symbol, before.Type),
		OldValues:   string(oldJSON),
		IPAddress:   meta.IPAddress,
		UserAgent:   meta.UserAgent,
	})

	return nil
}
