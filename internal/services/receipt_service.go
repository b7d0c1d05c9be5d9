package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"contribution-service/internal/models"
	"contribution-service/pkg/common"
)

// ReceiptDetails carries everything needed to send a contribution receipt.
type ReceiptDetails struct {
	Phone            string          `json:"phone"`
	MemberName       string          `json:"member_name"`
	CategoryName     string          `json:"category_name"`
	Amount           decimal.Decimal `json:"amount"`
	TransactionDate  time.Time       `json:"transaction_date"`
	ReceiptReference string          `json:"receipt_reference"`
}

// ReceiptResult reports the outcome of a receipt delivery attempt.
type ReceiptResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ReceiptNotifier delivers contribution receipts. Implementations are
// best-effort: callers log failures and move on, a receipt must never undo a
// recorded contribution.
type ReceiptNotifier interface {
	SendReceipt(details ReceiptDetails) (*ReceiptResult, error)
}

// notifyReceipt fires a best-effort receipt for a recorded contribution.
// Every failure path degrades to a logged warning; a receipt problem must
// never surface to the caller or touch the financial record.
func notifyReceipt(notifier ReceiptNotifier, member *models.Member, category *models.ContributionCategory, amount decimal.Decimal, transTime time.Time, reference string) {
	if notifier == nil {
		return
	}

	result, err := notifier.SendReceipt(ReceiptDetails{
		Phone:            member.PhoneNumber,
		MemberName:       member.FullName(),
		CategoryName:     category.Name,
		Amount:           amount,
		TransactionDate:  transTime,
		ReceiptReference: reference,
	})
	if err != nil {
		log.WithField("reference", reference).Warn("Receipt delivery error: ", err)
		return
	}
	if !result.Success {
		log.WithFields(log.Fields{
			"reference": reference,
			"message":   result.Message,
		}).Warn("Receipt delivery failed")
	}
}

// SMSNotifier sends receipts through an HTTP SMS gateway.
type SMSNotifier struct {
	BaseURL string
	APIKey  string
	Sender  string
}

func NewSMSNotifier(baseURL, apiKey, sender string) *SMSNotifier {
	return &SMSNotifier{BaseURL: baseURL, APIKey: apiKey, Sender: sender}
}

// FormatReceiptMessage builds the SMS body for a contribution receipt.
func FormatReceiptMessage(details ReceiptDetails) string {
	dateStr := details.TransactionDate.Format("02 Jan 2006, 03:04 PM")
	return fmt.Sprintf(
		"Dear %s,\n\nThank you for your contribution!\n\nCategory: %s\nAmount: KES %s\nReceipt: %s\nDate: %s\n\nGod bless you!",
		details.MemberName,
		details.CategoryName,
		details.Amount.StringFixed(2),
		details.ReceiptReference,
		dateStr,
	)
}

func (n *SMSNotifier) SendReceipt(details ReceiptDetails) (*ReceiptResult, error) {
	if n.BaseURL == "" {
		return &ReceiptResult{Success: false, Message: "SMS gateway not configured"}, nil
	}

	payload := map[string]interface{}{
		"to":      details.Phone,
		"from":    n.Sender,
		"message": FormatReceiptMessage(details),
	}
	headers := map[string]string{
		"Authorization": "Bearer " + n.APIKey,
	}

	resp, err := common.Post(fmt.Sprintf("%s/messages", n.BaseURL), payload, headers)
	if err != nil {
		return &ReceiptResult{Success: false, Message: err.Error()}, err
	}

	if respMap, ok := resp.(map[string]interface{}); ok {
		if status, ok := respMap["status"].(string); ok && status == "Fail" {
			msg, _ := respMap["error_desc"].(string)
			return &ReceiptResult{Success: false, Message: msg}, nil
		}
	}

	log.WithFields(log.Fields{
		"phone":   details.Phone,
		"receipt": details.ReceiptReference,
	}).Info("Receipt SMS sent")
	return &ReceiptResult{Success: true, Message: "Receipt sent"}, nil
}
