package services

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"contribution-service/internal/models"
)

// testDSN names the per-test in-memory SQLite database; cache=shared lets a
// second connection reach the same database.
func testDSN(t *testing.T) string {
	t.Helper()
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
}

// setupTestDB opens a per-test in-memory SQLite database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(testDSN(t)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.Member{},
		&models.ContributionCategory{},
		&models.Contribution{},
		&models.C2BTransaction{},
		&models.C2BCallback{},
		&models.ArchivedC2BCallback{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// openIndependentConn opens a second connection to the test database so a
// hook can write outside a service-held transaction; such writes survive the
// service's rollback.
func openIndependentConn(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(testDSN(t)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open independent test connection: %v", err)
	}
	return db
}

// fakeNotifier records receipt calls and can simulate gateway failure.
type fakeNotifier struct {
	calls     []ReceiptDetails
	failSend  bool
	returnErr bool
}

func (f *fakeNotifier) SendReceipt(details ReceiptDetails) (*ReceiptResult, error) {
	f.calls = append(f.calls, details)
	if f.returnErr {
		return &ReceiptResult{Success: false, Message: "gateway error"}, errors.New("gateway error")
	}
	if f.failSend {
		return &ReceiptResult{Success: false, Message: "delivery failed"}, nil
	}
	return &ReceiptResult{Success: true, Message: "sent"}, nil
}

func seedCategory(t *testing.T, db *gorm.DB, name, code string, active bool) models.ContributionCategory {
	t.Helper()
	category := models.ContributionCategory{
		Name:     name,
		Code:     code,
		IsActive: active,
	}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("failed to seed category %s: %v", code, err)
	}
	// Force IsActive through with an explicit update: the model's gorm
	// default:true replaces a zero-value false on INSERT.
	if err := db.Model(&category).Update("is_active", active).Error; err != nil {
		t.Fatalf("failed to set is_active on category %s: %v", code, err)
	}
	category.IsActive = active
	return category
}

func seedMember(t *testing.T, db *gorm.DB, firstName, lastName, phone, memberNumber string) models.Member {
	t.Helper()
	member := models.Member{
		FirstName:    firstName,
		LastName:     lastName,
		PhoneNumber:  phone,
		MemberNumber: memberNumber,
		IsActive:     true,
	}
	if err := db.Create(&member).Error; err != nil {
		t.Fatalf("failed to seed member %s: %v", phone, err)
	}
	return member
}
