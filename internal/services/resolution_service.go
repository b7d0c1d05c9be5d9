package services

import (
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"contribution-service/internal/models"
)

// ResolutionResult reports the outcome of a manual resolution attempt.
type ResolutionResult struct {
	Success      bool                   `json:"success"`
	Message      string                 `json:"message"`
	Transaction  *models.C2BTransaction `json:"transaction,omitempty"`
	Contribution *models.Contribution   `json:"contribution,omitempty"`
}

// ResolutionService lets a staff operator assign a category to a payment the
// confirmation handler could not match, completing the same ledger-entry
// creation path. Staff gating is the caller's responsibility.
type ResolutionService struct {
	DB       *gorm.DB
	Notifier ReceiptNotifier
}

func NewResolutionService(db *gorm.DB, notifier ReceiptNotifier) *ResolutionService {
	return &ResolutionService{DB: db, Notifier: notifier}
}

// ResolveUnmatched assigns categoryID to the unmatched transaction
// transactionID, creating the contribution and flipping the transaction to
// processed/manual. Preconditions are checked in order and each failure
// leaves no partial state change.
func (s *ResolutionService) ResolveUnmatched(transactionID, categoryID uint) ResolutionResult {
	var c2bTx models.C2BTransaction
	if err := s.DB.First(&c2bTx, transactionID).Error; err != nil {
		return ResolutionResult{
			Success: false,
			Message: fmt.Sprintf("C2B transaction %d not found", transactionID),
		}
	}

	if c2bTx.Status != models.TxStatusUnmatched {
		return ResolutionResult{
			Success: false,
			Message: fmt.Sprintf("Transaction is not unmatched (current status: %s)", c2bTx.Status),
		}
	}

	var category models.ContributionCategory
	err := s.DB.Where("id = ? AND is_active = ? AND is_deleted = ?", categoryID, true, false).First(&category).Error
	if err != nil {
		return ResolutionResult{
			Success: false,
			Message: fmt.Sprintf("Category %d not found or inactive", categoryID),
		}
	}

	var member models.Member
	err = s.DB.Where("phone_number = ? AND is_deleted = ?", c2bTx.Msisdn, false).First(&member).Error
	if err != nil {
		return ResolutionResult{
			Success: false,
			Message: fmt.Sprintf("Member with phone %s not found", c2bTx.Msisdn),
		}
	}

	contribution := models.Contribution{
		MemberID:            member.ID,
		CategoryID:          category.ID,
		C2BTransactionID:    &c2bTx.ID,
		ContributionGroupID: uuid.NewString(),
		Amount:              c2bTx.TransAmount,
		Status:              models.ContributionCompleted,
		EntryType:           models.EntryMpesa,
		Notes: fmt.Sprintf("C2B Pay Bill (manually resolved: %s -> %s) - Trans ID: %s",
			c2bTx.BillRefNumber, category.Code, c2bTx.TransID),
		TransactionDate: c2bTx.TransTime,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&contribution).Error; err != nil {
			return err
		}
		return tx.Model(&c2bTx).Updates(map[string]interface{}{
			"status":                models.TxStatusProcessed,
			"match_method":          models.MatchManual,
			"matched_category_code": category.Code,
		}).Error
	})
	if err != nil {
		log.WithFields(log.Fields{
			"trans_id": c2bTx.TransID,
			"error":    err.Error(),
		}).Error("Error resolving unmatched C2B transaction")
		return ResolutionResult{
			Success: false,
			Message: fmt.Sprintf("Error creating contribution: %v", err),
		}
	}

	c2bTx.Status = models.TxStatusProcessed
	c2bTx.MatchMethod = models.MatchManual
	c2bTx.MatchedCategory = category.Code

	// Receipt is best-effort, outside the unit of work.
	notifyReceipt(s.Notifier, &member, &category, c2bTx.TransAmount, c2bTx.TransTime, c2bTx.TransID)

	log.WithFields(log.Fields{
		"trans_id": c2bTx.TransID,
		"category": category.Name,
		"amount":   c2bTx.TransAmount.String(),
	}).Info("C2B unmatched transaction resolved")

	return ResolutionResult{
		Success:      true,
		Message:      fmt.Sprintf("Transaction resolved: %s -> %s", c2bTx.BillRefNumber, category.Name),
		Transaction:  &c2bTx,
		Contribution: &contribution,
	}
}
