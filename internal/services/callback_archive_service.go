package services

import (
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"contribution-service/internal/models"
)

// CallbackArchiveService moves processed callback audit rows older than the
// retention window into the archive table. Unprocessed rows and unmatched
// transactions are never touched; the audit trail is moved, not dropped.
type CallbackArchiveService struct {
	DB            *gorm.DB
	RetentionDays int
}

func NewCallbackArchiveService(db *gorm.DB, retentionDays int) *CallbackArchiveService {
	return &CallbackArchiveService{DB: db, RetentionDays: retentionDays}
}

// ArchiveCallbacks moves processed callbacks older than the retention window
// to archived_c2b_callbacks.
func (s *CallbackArchiveService) ArchiveCallbacks() {
	log.Info("Starting callback archive process...")

	cutoff := time.Now().AddDate(0, 0, -s.RetentionDays)

	var oldCallbacks []models.C2BCallback
	if err := s.DB.Where("processed = ? AND created_at < ?", true, cutoff).Find(&oldCallbacks).Error; err != nil {
		log.Error("Error finding old callbacks: ", err)
		return
	}

	if len(oldCallbacks) == 0 {
		log.Info("No callbacks to archive")
		return
	}

	archived := make([]models.ArchivedC2BCallback, 0, len(oldCallbacks))
	ids := make([]uint, 0, len(oldCallbacks))
	for _, cb := range oldCallbacks {
		archived = append(archived, models.ArchivedC2BCallback{
			CallbackType:  cb.CallbackType,
			TransID:       cb.TransID,
			RawData:       cb.RawData,
			Processed:     cb.Processed,
			TransactionID: cb.TransactionID,
			CreatedAt:     cb.CreatedAt,
			UpdatedAt:     cb.UpdatedAt,
		})
		ids = append(ids, cb.ID)
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&archived).Error; err != nil {
			return err
		}
		return tx.Delete(&models.C2BCallback{}, ids).Error
	})
	if err != nil {
		log.Error("Error during callback archiving: ", err)
		return
	}

	log.Infof("Archived and removed %d callbacks", len(oldCallbacks))
}

// StartScheduler runs the archive job daily at 02:00.
func (s *CallbackArchiveService) StartScheduler() {
	c := cron.New()
	_, err := c.AddFunc("0 2 * * *", func() {
		log.Info("Running scheduled callback archive task...")
		s.ArchiveCallbacks()
	})
	if err != nil {
		log.Error("Error scheduling archive task: ", err)
		return
	}
	c.Start()
	log.Info("Callback Archive Scheduler started (daily at 02:00)")
}
