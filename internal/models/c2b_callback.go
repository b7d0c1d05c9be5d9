package models

import (
	"time"
)

// Callback types stored on C2BCallback.
const (
	CallbackValidation   = "validation"
	CallbackConfirmation = "confirmation"
)

// C2BCallback is an append-only audit log of every raw payload received from
// the M-Pesa network, written before any other processing. Business logic
// never reads these rows back except to set the transaction back-reference.
type C2BCallback struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CallbackType  string    `gorm:"column:callback_type;size:20;not null;index" json:"callback_type"`
	TransID       string    `gorm:"column:trans_id;size:100;index" json:"trans_id"`
	RawData       string    `gorm:"column:raw_data;type:longtext" json:"raw_data"`
	Processed     bool      `gorm:"column:processed;default:false" json:"processed"`
	TransactionID *uint     `gorm:"column:transaction_id" json:"transaction_id"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (C2BCallback) TableName() string {
	return "c2b_callbacks"
}

// ArchivedC2BCallback holds processed callback audit rows moved out of the
// hot table by the nightly archive job. Rows are moved, never dropped.
type ArchivedC2BCallback struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CallbackType  string    `gorm:"column:callback_type;size:20;index" json:"callback_type"`
	TransID       string    `gorm:"column:trans_id;size:100;index" json:"trans_id"`
	RawData       string    `gorm:"column:raw_data;type:longtext" json:"raw_data"`
	Processed     bool      `gorm:"column:processed;default:false" json:"processed"`
	TransactionID *uint     `gorm:"column:transaction_id" json:"transaction_id"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (ArchivedC2BCallback) TableName() string {
	return "archived_c2b_callbacks"
}
