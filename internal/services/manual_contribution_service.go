package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"contribution-service/internal/models"
	"contribution-service/pkg/common"
)

// ManualContributionRequest is a staff-entered ledger entry for money that
// arrived outside M-Pesa (cash, envelope) or needs manual capture.
type ManualContributionRequest struct {
	PhoneNumber     string          `json:"phone_number"`
	Amount          decimal.Decimal `json:"amount"`
	CategoryID      uint            `json:"category_id"`
	EntryType       string          `json:"entry_type"`
	ReceiptNumber   string          `json:"receipt_number"`
	TransactionDate *time.Time      `json:"transaction_date"`
	Notes           string          `json:"notes"`
	EnteredBy       string          `json:"entered_by"`
}

// ManualContributionResult reports the outcome of a manual entry.
type ManualContributionResult struct {
	Success       bool                 `json:"success"`
	Message       string               `json:"message"`
	Contribution  *models.Contribution `json:"contribution,omitempty"`
	MemberCreated bool                 `json:"member_created"`
	IsGuest       bool                 `json:"is_guest"`
	SMSSent       bool                 `json:"sms_sent"`
}

// ManualContributionService records manual, cash and envelope entries.
type ManualContributionService struct {
	DB       *gorm.DB
	Members  *MemberResolver
	Notifier ReceiptNotifier
}

func NewManualContributionService(db *gorm.DB, notifier ReceiptNotifier) *ManualContributionService {
	return &ManualContributionService{
		DB:       db,
		Members:  NewMemberResolver(db),
		Notifier: notifier,
	}
}

// CreateManualContribution validates and records a manual entry. Manual
// entries are completed immediately; a receipt number is generated when the
// operator did not supply one.
func (s *ManualContributionService) CreateManualContribution(req ManualContributionRequest) ManualContributionResult {
	phone, err := common.NormalizePhone(req.PhoneNumber)
	if err != nil {
		return ManualContributionResult{Success: false, Message: err.Error()}
	}

	if req.Amount.LessThan(minPaymentAmount) {
		return ManualContributionResult{Success: false, Message: "Amount must be at least KES 1.00"}
	}

	switch req.EntryType {
	case models.EntryManual, models.EntryCash, models.EntryEnvelope:
	default:
		return ManualContributionResult{
			Success: false,
			Message: "Invalid entry type. Must be one of: manual, cash, envelope",
		}
	}

	var category models.ContributionCategory
	err = s.DB.Where("id = ? AND is_active = ? AND is_deleted = ?", req.CategoryID, true, false).First(&category).Error
	if err != nil {
		return ManualContributionResult{Success: false, Message: "Invalid or inactive contribution category"}
	}

	member, created, err := s.Members.Resolve(phone, "", "")
	if err != nil {
		return ManualContributionResult{Success: false, Message: fmt.Sprintf("Failed to resolve member: %v", err)}
	}

	transactionDate := time.Now()
	if req.TransactionDate != nil {
		transactionDate = *req.TransactionDate
	}

	contribution := models.Contribution{
		MemberID:            member.ID,
		CategoryID:          category.ID,
		ContributionGroupID: uuid.NewString(),
		Amount:              req.Amount,
		Status:              models.ContributionCompleted,
		EntryType:           req.EntryType,
		EnteredBy:           req.EnteredBy,
		Notes:               req.Notes,
		TransactionDate:     transactionDate,
	}
	if req.ReceiptNumber != "" {
		contribution.ManualReceiptNumber = &req.ReceiptNumber
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&contribution).Error; err != nil {
			return err
		}
		if contribution.ManualReceiptNumber == nil {
			generated := common.GenerateReceiptNumber(transactionDate, contribution.ID)
			contribution.ManualReceiptNumber = &generated
			return tx.Model(&contribution).Update("manual_receipt_number", generated).Error
		}
		return nil
	})
	if err != nil {
		log.WithField("phone", phone).Error("Failed to record manual contribution: ", err)
		return ManualContributionResult{Success: false, Message: fmt.Sprintf("Failed to record contribution: %v", err)}
	}

	smsSent := false
	if s.Notifier != nil {
		result, err := s.Notifier.SendReceipt(ReceiptDetails{
			Phone:            member.PhoneNumber,
			MemberName:       member.FullName(),
			CategoryName:     category.Name,
			Amount:           req.Amount,
			TransactionDate:  transactionDate,
			ReceiptReference: *contribution.ManualReceiptNumber,
		})
		if err != nil {
			log.WithField("phone", phone).Warn("Failed to send receipt SMS: ", err)
		} else {
			smsSent = result.Success
		}
	}

	log.WithFields(log.Fields{
		"member":   member.FullName(),
		"category": category.Name,
		"amount":   req.Amount.String(),
		"entry":    req.EntryType,
	}).Info("Manual contribution recorded")

	return ManualContributionResult{
		Success:       true,
		Message:       fmt.Sprintf("Contribution of KES %s recorded successfully", req.Amount.StringFixed(2)),
		Contribution:  &contribution,
		MemberCreated: created,
		IsGuest:       member.IsGuest,
		SMSSent:       smsSent,
	}
}
