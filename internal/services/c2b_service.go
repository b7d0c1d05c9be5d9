package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"contribution-service/internal/models"
	"contribution-service/pkg/common"
)

// Minimum accepted payment, in currency units. The only hard rejection rule
// at validation time.
var minPaymentAmount = decimal.RequireFromString("1.00")

// Layout of the network's fixed-width transaction timestamp (YYYYMMDDHHMMSS).
const transTimeLayout = "20060102150405"

// C2BCallbackData mirrors the M-Pesa C2B callback payload. The same shape is
// delivered to both the validation and confirmation endpoints.
type C2BCallbackData struct {
	TransactionType   string `json:"TransactionType"`
	TransID           string `json:"TransID"`
	TransTime         string `json:"TransTime"`
	TransAmount       string `json:"TransAmount"`
	BusinessShortCode string `json:"BusinessShortCode"`
	BillRefNumber     string `json:"BillRefNumber"`
	InvoiceNumber     string `json:"InvoiceNumber"`
	OrgAccountBalance string `json:"OrgAccountBalance"`
	ThirdPartyTransID string `json:"ThirdPartyTransID"`
	MSISDN            string `json:"MSISDN"`
	FirstName         string `json:"FirstName"`
	MiddleName        string `json:"MiddleName"`
	LastName          string `json:"LastName"`
}

// ValidationResult is the accept/reject decision for a validation callback.
type ValidationResult struct {
	Accept  bool   `json:"accept"`
	Message string `json:"message"`
}

// ConfirmationResult reports the internal outcome of confirmation processing.
// The transport-level acknowledgement to the network is always "accepted"
// regardless of this result.
type ConfirmationResult struct {
	Success      bool                    `json:"success"`
	Message      string                  `json:"message"`
	Transaction  *models.C2BTransaction  `json:"transaction,omitempty"`
	Contribution *models.Contribution    `json:"contribution,omitempty"`
}

// C2BService turns M-Pesa pay-bill callbacks into ledger entries.
type C2BService struct {
	DB       *gorm.DB
	Matcher  *CategoryMatcher
	Members  *MemberResolver
	Notifier ReceiptNotifier
}

func NewC2BService(db *gorm.DB, notifier ReceiptNotifier) *C2BService {
	return &C2BService{
		DB:       db,
		Matcher:  NewCategoryMatcher(db),
		Members:  NewMemberResolver(db),
		Notifier: notifier,
	}
}

// ValidateC2BPayment decides whether an incoming payment may proceed.
// Called by M-Pesa before any money moves, under a tight response deadline.
//
// Policy: never refuse money over a categorization problem. Unknown bill
// references are accepted and flagged during confirmation for manual
// resolution by a treasurer. The only rejection is a malformed or
// sub-minimum amount.
func (s *C2BService) ValidateC2BPayment(data C2BCallbackData) ValidationResult {
	s.storeCallback(models.CallbackValidation, data)

	amount, err := decimal.NewFromString(strings.TrimSpace(data.TransAmount))
	if err != nil {
		log.WithField("amount", data.TransAmount).Warn("C2B validation rejected: invalid amount")
		return ValidationResult{
			Accept:  false,
			Message: fmt.Sprintf("Invalid amount: %s", data.TransAmount),
		}
	}

	if amount.LessThan(minPaymentAmount) {
		log.WithField("amount", amount.String()).Warn("C2B validation rejected: amount too low")
		return ValidationResult{
			Accept:  false,
			Message: fmt.Sprintf("Amount KES %s is below minimum of KES 1.00", amount.String()),
		}
	}

	log.WithFields(log.Fields{
		"bill_ref": strings.TrimSpace(data.BillRefNumber),
		"amount":   amount.String(),
	}).Info("C2B validation accepted")
	return ValidationResult{Accept: true, Message: "Accepted"}
}

// ProcessC2BConfirmation records a payment that has already moved.
// It persists the audit record, enforces idempotency on TransID, creates the
// durable transaction row, matches member and category, creates the ledger
// entry when matched, and triggers a best-effort receipt.
func (s *C2BService) ProcessC2BConfirmation(data C2BCallbackData) ConfirmationResult {
	callbackRecord := s.storeCallback(models.CallbackConfirmation, data)

	// Idempotency gate: at-least-once delivery means duplicates are expected.
	if s.transactionExists(data.TransID) {
		log.WithField("trans_id", data.TransID).Warn("C2B duplicate callback ignored")
		s.markCallbackProcessed(callbackRecord)
		return ConfirmationResult{
			Success: true,
			Message: fmt.Sprintf("Transaction %s already processed (duplicate ignored)", data.TransID),
		}
	}

	result, err := s.processConfirmation(data, callbackRecord)
	if err != nil {
		// A race between two deliveries of the same TransID surfaces as a
		// uniqueness failure on the insert; treat the loser like a duplicate.
		if s.transactionExists(data.TransID) {
			log.WithField("trans_id", data.TransID).Warn("C2B duplicate callback lost insert race, ignored")
			s.markCallbackProcessed(callbackRecord)
			return ConfirmationResult{
				Success: true,
				Message: fmt.Sprintf("Transaction %s already processed (duplicate ignored)", data.TransID),
			}
		}

		log.WithFields(log.Fields{
			"trans_id": data.TransID,
			"error":    err.Error(),
		}).Error("C2B confirmation processing error")
		return ConfirmationResult{
			Success: false,
			Message: fmt.Sprintf("Error processing confirmation: %v", err),
		}
	}

	return result
}

func (s *C2BService) processConfirmation(data C2BCallbackData, callbackRecord *models.C2BCallback) (ConfirmationResult, error) {
	billRef := strings.TrimSpace(data.BillRefNumber)

	transAmount, err := decimal.NewFromString(strings.TrimSpace(data.TransAmount))
	if err != nil {
		return ConfirmationResult{}, fmt.Errorf("unparseable amount %q: %w", data.TransAmount, err)
	}

	transTime, err := time.Parse(transTimeLayout, data.TransTime)
	if err != nil {
		transTime = time.Now()
	}

	var orgBalance decimal.NullDecimal
	if data.OrgAccountBalance != "" {
		if bal, err := decimal.NewFromString(data.OrgAccountBalance); err == nil {
			orgBalance = decimal.NullDecimal{Decimal: bal, Valid: true}
		}
	}

	// Money has already moved, so a bad MSISDN must never abort processing;
	// fall back to the raw value and record it as received.
	phone, err := common.NormalizePhone(data.MSISDN)
	if err != nil {
		phone = data.MSISDN
	}

	category, matchMethod, err := s.Matcher.Match(billRef)
	if err != nil {
		return ConfirmationResult{}, fmt.Errorf("category matching failed: %w", err)
	}

	c2bTx := models.C2BTransaction{
		TransID:           data.TransID,
		TransTime:         transTime,
		TransAmount:       transAmount,
		BusinessShortCode: data.BusinessShortCode,
		BillRefNumber:     billRef,
		Msisdn:            phone,
		FirstName:         data.FirstName,
		MiddleName:        data.MiddleName,
		LastName:          data.LastName,
		OrgAccountBalance: orgBalance,
		Status:            models.TxStatusReceived,
		MatchMethod:       matchMethod,
	}
	if category != nil {
		c2bTx.MatchedCategory = category.Code
	}

	var member *models.Member
	var contribution *models.Contribution

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&c2bTx).Error; err != nil {
			return err
		}

		if callbackRecord != nil {
			if err := tx.Model(callbackRecord).Update("transaction_id", c2bTx.ID).Error; err != nil {
				return err
			}
		}

		// Always resolve the member, matched or not, so unmatched payments
		// still land against a person.
		resolver := NewMemberResolver(tx)
		m, _, err := resolver.Resolve(phone, data.FirstName, data.LastName)
		if err != nil {
			return err
		}
		member = m

		if category == nil {
			if err := tx.Model(&c2bTx).Update("status", models.TxStatusUnmatched).Error; err != nil {
				return err
			}
			c2bTx.Status = models.TxStatusUnmatched
			if callbackRecord != nil {
				if err := tx.Model(callbackRecord).Update("processed", true).Error; err != nil {
					return err
				}
			}
			return nil
		}

		var notes string
		if matchMethod == models.MatchFuzzy {
			notes = fmt.Sprintf("C2B Pay Bill (fuzzy matched %s -> %s) - Trans ID: %s", billRef, category.Code, data.TransID)
		} else {
			notes = fmt.Sprintf("C2B Pay Bill - Trans ID: %s", data.TransID)
		}

		contribution = &models.Contribution{
			MemberID:            member.ID,
			CategoryID:          category.ID,
			C2BTransactionID:    &c2bTx.ID,
			ContributionGroupID: uuid.NewString(),
			Amount:              transAmount,
			Status:              models.ContributionCompleted,
			EntryType:           models.EntryMpesa,
			Notes:               notes,
			TransactionDate:     transTime,
		}
		if err := tx.Create(contribution).Error; err != nil {
			return err
		}

		if err := tx.Model(&c2bTx).Update("status", models.TxStatusProcessed).Error; err != nil {
			return err
		}
		c2bTx.Status = models.TxStatusProcessed

		if callbackRecord != nil {
			if err := tx.Model(callbackRecord).Update("processed", true).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return ConfirmationResult{}, err
	}

	if category == nil {
		log.WithFields(log.Fields{
			"trans_id": data.TransID,
			"bill_ref": billRef,
			"amount":   transAmount.String(),
			"phone":    phone,
		}).Warn("C2B unmatched, awaiting manual resolution")
		return ConfirmationResult{
			Success:     true,
			Message:     fmt.Sprintf("Payment accepted but category unmatched for reference: %s", billRef),
			Transaction: &c2bTx,
		}, nil
	}

	// Receipt delivery happens outside the unit of work: a failure here is
	// logged and swallowed, the recorded contribution stands.
	notifyReceipt(s.Notifier, member, category, transAmount, transTime, data.TransID)

	log.WithFields(log.Fields{
		"trans_id": data.TransID,
		"member":   member.FullName(),
		"category": category.Name,
		"amount":   transAmount.String(),
		"method":   matchMethod,
	}).Info("C2B contribution recorded")

	return ConfirmationResult{
		Success:      true,
		Message:      "C2B payment processed successfully",
		Transaction:  &c2bTx,
		Contribution: contribution,
	}, nil
}

// storeCallback appends the raw payload to the audit log. Audit failures are
// logged but never block the callback response.
func (s *C2BService) storeCallback(callbackType string, data C2BCallbackData) *models.C2BCallback {
	raw, err := json.Marshal(data)
	if err != nil {
		raw = []byte("{}")
	}

	record := models.C2BCallback{
		CallbackType: callbackType,
		TransID:      data.TransID,
		RawData:      string(raw),
	}
	if err := s.DB.Create(&record).Error; err != nil {
		log.WithFields(log.Fields{
			"trans_id": data.TransID,
			"type":     callbackType,
			"error":    err.Error(),
		}).Error("Failed to store callback audit record")
		return nil
	}
	return &record
}

func (s *C2BService) markCallbackProcessed(record *models.C2BCallback) {
	if record == nil {
		return
	}
	if err := s.DB.Model(record).Update("processed", true).Error; err != nil {
		log.WithField("callback_id", record.ID).Error("Failed to mark callback processed: ", err)
	}
}

func (s *C2BService) transactionExists(transID string) bool {
	var count int64
	s.DB.Model(&models.C2BTransaction{}).Where("trans_id = ?", transID).Count(&count)
	return count > 0
}

