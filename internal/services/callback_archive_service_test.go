package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"contribution-service/internal/models"
)

func seedCallback(t *testing.T, db *gorm.DB, transID string, processed bool, age time.Duration) models.C2BCallback {
	t.Helper()
	callback := models.C2BCallback{
		CallbackType: models.CallbackConfirmation,
		TransID:      transID,
		RawData:      `{"TransID":"` + transID + `"}`,
		Processed:    processed,
		CreatedAt:    time.Now().Add(-age),
	}
	require.NoError(t, db.Create(&callback).Error)
	return callback
}

func TestArchiveMovesOldProcessedCallbacks(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCallbackArchiveService(db, 90)

	old := seedCallback(t, db, "OLD001", true, 120*24*time.Hour)
	seedCallback(t, db, "RECENT1", true, 10*24*time.Hour)
	seedCallback(t, db, "PENDING", false, 120*24*time.Hour)

	svc.ArchiveCallbacks()

	// Only the old processed row moved
	var remaining []models.C2BCallback
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 2)
	for _, cb := range remaining {
		assert.NotEqual(t, "OLD001", cb.TransID)
	}

	var archived []models.ArchivedC2BCallback
	require.NoError(t, db.Find(&archived).Error)
	require.Len(t, archived, 1)
	assert.Equal(t, "OLD001", archived[0].TransID)
	assert.Equal(t, old.RawData, archived[0].RawData)
	assert.True(t, archived[0].Processed)
}

func TestArchiveNoEligibleCallbacks(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCallbackArchiveService(db, 90)

	seedCallback(t, db, "RECENT1", true, time.Hour)

	svc.ArchiveCallbacks()

	var count int64
	db.Model(&models.C2BCallback{}).Count(&count)
	assert.Equal(t, int64(1), count)
	db.Model(&models.ArchivedC2BCallback{}).Count(&count)
	assert.Equal(t, int64(0), count)
}
