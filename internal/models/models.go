package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account holder. Profile fields feed the leaderboard.
type User struct {
	ID           string    `json:"id"         gorm:"primaryKey;size:36"`
	Email        string    `json:"email"      gorm:"uniqueIndex;size:255"`
	FullName     string    `json:"fullName"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Transaction is one imported buy or sell event. TransactionID is the
// on-chain hash from the user's source export; (UserID, TransactionID) is
// the dedup key so re-imports overwrite instead of duplicating.
type Transaction struct {
	ID            string    `json:"id"            gorm:"primaryKey;size:36"`
	UserID        string    `json:"-"             gorm:"size:36;uniqueIndex:idx_user_txid;index"`
	Symbol        string    `json:"symbol"        gorm:"size:8;index"`
	Type          string    `json:"type"          gorm:"size:8;index"` // "buy" or "sell"
	Amount        float64   `json:"amount"`
	Price         float64   `json:"price"`
	DateTime      time.Time `json:"dateTime"      gorm:"index"`
	Network       string    `json:"network"`
	TransactionID string    `json:"transactionId" gorm:"size:66;uniqueIndex:idx_user_txid"`
	FileName      string    `json:"fileName"      gorm:"index"`
	UploadDate    time.Time `json:"uploadDate"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// TokenPrice is the latest known market snapshot for one symbol. One row
// per symbol, overwritten in place on each price update run.
type TokenPrice struct {
	Symbol         string    `json:"symbol"         gorm:"primaryKey;size:8"`
	Name           string    `json:"name"`
	PriceUSD       float64   `json:"priceUsd"       gorm:"column:price_usd"`
	MarketCapUSD   int64     `json:"marketCapUsd"   gorm:"column:market_cap_usd"`
	Volume24hUSD   int64     `json:"volume24hUsd"   gorm:"column:volume_24h_usd"`
	PriceChange24h float64   `json:"priceChange24h" gorm:"column:price_change_24h"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// AuditLog is an immutable record of a mutation, written by the audit
// recorder as a side effect of writes and read-only everywhere else.
// OperationID makes at-least-once delivery of audit events idempotent.
type AuditLog struct {
	ID          string    `json:"id"          gorm:"primaryKey;size:36"`
	OperationID string    `json:"-"           gorm:"size:36;uniqueIndex"`
	UserID      string    `json:"-"           gorm:"size:36;index"`
	Action      string    `json:"action"      gorm:"size:16;index"` // import|create|update|delete
	EntityID    string    `json:"entityId"    gorm:"size:36"`
	Description string    `json:"description"`
	OldValues   string    `json:"oldValues"   gorm:"type:text"`
	NewValues   string    `json:"newValues"   gorm:"type:text"`
	Metadata    string    `json:"metadata"    gorm:"type:text"`
	IPAddress   string    `json:"ipAddress"   gorm:"size:64"`
	UserAgent   string    `json:"userAgent"   gorm:"size:255"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

func (User) TableName() string {
	return "users"
}

func (Transaction) TableName() string {
	return "transactions"
}

func (TokenPrice) TableName() string {
	return "token_prices"
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
