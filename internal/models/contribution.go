package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Contribution statuses.
const (
	ContributionPending   = "pending"
	ContributionCompleted = "completed"
	ContributionFailed    = "failed"
)

// Entry types recording how a contribution reached the ledger.
const (
	EntryMpesa    = "mpesa"
	EntryManual   = "manual"
	EntryCash     = "cash"
	EntryEnvelope = "envelope"
)

// Contribution is one ledger entry per categorized payment. For C2B payments
// it is created exactly once, either at confirmation time or at manual
// resolution time; the C2BTransaction status transition enforces that.
type Contribution struct {
	ID                  uint                 `gorm:"primaryKey;autoIncrement" json:"id"`
	MemberID            uint                 `gorm:"column:member_id;not null;index" json:"member_id"`
	Member              Member               `gorm:"foreignKey:MemberID" json:"member,omitempty"`
	CategoryID          uint                 `gorm:"column:category_id;not null;index" json:"category_id"`
	Category            ContributionCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	C2BTransactionID    *uint                `gorm:"column:c2b_transaction_id;index" json:"c2b_transaction_id"`
	ContributionGroupID string               `gorm:"column:contribution_group_id;size:36;index" json:"contribution_group_id"`
	Amount              decimal.Decimal      `gorm:"column:amount;type:decimal(10,2);not null" json:"amount"`
	Status              string               `gorm:"column:status;size:20;default:pending;index" json:"status"`
	EntryType           string               `gorm:"column:entry_type;size:20;default:mpesa;index" json:"entry_type"`
	ManualReceiptNumber *string              `gorm:"column:manual_receipt_number;size:100;index" json:"manual_receipt_number"`
	EnteredBy           string               `gorm:"column:entered_by;size:100" json:"entered_by"`
	Notes               string               `gorm:"column:notes;type:text" json:"notes"`
	TransactionDate     time.Time            `gorm:"column:transaction_date" json:"transaction_date"`
	CreatedAt           time.Time            `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time            `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Contribution) TableName() string {
	return "contributions"
}
