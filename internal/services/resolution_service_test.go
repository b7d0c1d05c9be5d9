package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"contribution-service/internal/models"
)

// unmatchedFixture runs a confirmation with an unknown bill reference so each
// resolution test starts from a real unmatched transaction.
func unmatchedFixture(t *testing.T, db *gorm.DB) models.C2BTransaction {
	t.Helper()
	svc := NewC2BService(db, nil)
	data := confirmationPayload()
	data.BillRefNumber = "MYSTERY"
	result := svc.ProcessC2BConfirmation(data)
	require.True(t, result.Success)

	var tx models.C2BTransaction
	require.NoError(t, db.Where("trans_id = ?", data.TransID).First(&tx).Error)
	require.Equal(t, models.TxStatusUnmatched, tx.Status)
	return tx
}

func TestResolveUnmatchedHappyPath(t *testing.T) {
	db := setupTestDB(t)
	category := seedCategory(t, db, "Building Fund", "BUILDING", true)
	tx := unmatchedFixture(t, db)
	notifier := &fakeNotifier{}
	svc := NewResolutionService(db, notifier)

	result := svc.ResolveUnmatched(tx.ID, category.ID)
	require.True(t, result.Success, result.Message)
	assert.Contains(t, result.Message, "MYSTERY -> Building Fund")

	var updated models.C2BTransaction
	require.NoError(t, db.First(&updated, tx.ID).Error)
	assert.Equal(t, models.TxStatusProcessed, updated.Status)
	assert.Equal(t, models.MatchManual, updated.MatchMethod)
	assert.Equal(t, "BUILDING", updated.MatchedCategory)

	var contribution models.Contribution
	require.NoError(t, db.Where("c2b_transaction_id = ?", tx.ID).First(&contribution).Error)
	assert.Equal(t, models.ContributionCompleted, contribution.Status)
	assert.Equal(t, models.EntryMpesa, contribution.EntryType)
	assert.True(t, contribution.Amount.Equal(tx.TransAmount))
	assert.Contains(t, contribution.Notes, "manually resolved: MYSTERY -> BUILDING")

	require.Len(t, notifier.calls, 1)
	assert.Equal(t, tx.TransID, notifier.calls[0].ReceiptReference)
}

func TestResolveRejectsAlreadyProcessed(t *testing.T) {
	db := setupTestDB(t)
	category := seedCategory(t, db, "Building Fund", "BUILDING", true)
	tx := unmatchedFixture(t, db)
	svc := NewResolutionService(db, nil)

	first := svc.ResolveUnmatched(tx.ID, category.ID)
	require.True(t, first.Success)

	second := svc.ResolveUnmatched(tx.ID, category.ID)
	assert.False(t, second.Success)
	assert.Contains(t, second.Message, "not unmatched")
	assert.Contains(t, second.Message, models.TxStatusProcessed)

	// Still exactly one ledger entry
	var count int64
	db.Model(&models.Contribution{}).Where("c2b_transaction_id = ?", tx.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestResolveTransactionNotFound(t *testing.T) {
	db := setupTestDB(t)
	category := seedCategory(t, db, "Building Fund", "BUILDING", true)
	svc := NewResolutionService(db, nil)

	result := svc.ResolveUnmatched(999, category.ID)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "not found")
}

func TestResolveRejectsInactiveCategory(t *testing.T) {
	db := setupTestDB(t)
	category := seedCategory(t, db, "Old Fund", "OLDFUND", false)
	tx := unmatchedFixture(t, db)
	svc := NewResolutionService(db, nil)

	result := svc.ResolveUnmatched(tx.ID, category.ID)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "not found or inactive")

	// Transaction stays unmatched so a later attempt can succeed
	var unchanged models.C2BTransaction
	require.NoError(t, db.First(&unchanged, tx.ID).Error)
	assert.Equal(t, models.TxStatusUnmatched, unchanged.Status)
}

func TestResolveRejectsMissingMember(t *testing.T) {
	db := setupTestDB(t)
	category := seedCategory(t, db, "Building Fund", "BUILDING", true)
	tx := unmatchedFixture(t, db)

	// Soft-delete the payer the confirmation handler created
	require.NoError(t, db.Model(&models.Member{}).
		Where("phone_number = ?", tx.Msisdn).
		Update("is_deleted", true).Error)

	svc := NewResolutionService(db, nil)
	result := svc.ResolveUnmatched(tx.ID, category.ID)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "Member with phone")
}
