package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// C2BTransaction statuses. A transaction starts as received inside the
// confirmation unit of work and ends up processed or unmatched; unmatched
// can later move to processed through manual resolution. Failed is reserved
// for validation-side bookkeeping and has no trigger on the confirmation path.
const (
	TxStatusReceived  = "received"
	TxStatusProcessed = "processed"
	TxStatusUnmatched = "unmatched"
	TxStatusFailed    = "failed"
)

// Match methods recorded on a C2BTransaction.
const (
	MatchExact  = "exact"
	MatchFuzzy  = "fuzzy"
	MatchManual = "manual"
	MatchNone   = ""
)

// C2BTransaction is one row per M-Pesa pay-bill payment. TransID is the
// network-assigned identifier and the idempotency key: re-delivery of the
// same TransID must never produce a second row.
type C2BTransaction struct {
	ID                uint                `gorm:"primaryKey;autoIncrement" json:"id"`
	TransID           string              `gorm:"column:trans_id;size:100;not null;uniqueIndex" json:"trans_id"`
	TransTime         time.Time           `gorm:"column:trans_time" json:"trans_time"`
	TransAmount       decimal.Decimal     `gorm:"column:trans_amount;type:decimal(10,2);not null" json:"trans_amount"`
	BusinessShortCode string              `gorm:"column:business_short_code;size:20" json:"business_short_code"`
	BillRefNumber     string              `gorm:"column:bill_ref_number;size:100" json:"bill_ref_number"`
	Msisdn            string              `gorm:"column:msisdn;size:20;index" json:"msisdn"`
	FirstName         string              `gorm:"column:first_name;size:100" json:"first_name"`
	MiddleName        string              `gorm:"column:middle_name;size:100" json:"middle_name"`
	LastName          string              `gorm:"column:last_name;size:100" json:"last_name"`
	OrgAccountBalance decimal.NullDecimal `gorm:"column:org_account_balance;type:decimal(12,2)" json:"org_account_balance"`
	Status            string              `gorm:"column:status;size:20;default:received;index" json:"status"`
	MatchedCategory   string              `gorm:"column:matched_category_code;size:20" json:"matched_category_code"`
	MatchMethod       string              `gorm:"column:match_method;size:10" json:"match_method"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (C2BTransaction) TableName() string {
	return "c2b_transactions"
}
