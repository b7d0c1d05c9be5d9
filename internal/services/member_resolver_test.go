package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"contribution-service/internal/models"
)

func TestResolveExistingMember(t *testing.T) {
	db := setupTestDB(t)
	existing := seedMember(t, db, "Jane", "Wanjiku", "254797030300", "000001")

	resolver := NewMemberResolver(db)

	member, created, err := resolver.Resolve("254797030300", "GUESSED", "NAME")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, existing.ID, member.ID)

	// The stored registration name is authoritative; payer names never
	// overwrite it.
	assert.Equal(t, "Jane", member.FirstName)
	assert.Equal(t, "Wanjiku", member.LastName)
}

func TestResolveCreatesGuest(t *testing.T) {
	db := setupTestDB(t)
	resolver := NewMemberResolver(db)

	member, created, err := resolver.Resolve("254708374149", "John", "Otieno")
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, member.IsGuest)
	assert.True(t, member.IsActive)
	assert.Equal(t, "John", member.FirstName)
	assert.Equal(t, "Otieno", member.LastName)
	assert.Equal(t, "000001", member.MemberNumber)
}

func TestResolveGuestNameDefaults(t *testing.T) {
	db := setupTestDB(t)
	resolver := NewMemberResolver(db)

	member, created, err := resolver.Resolve("254708374149", "", "  ")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Guest", member.FirstName)
	assert.Equal(t, "Member", member.LastName)
}

func TestResolveIsIdempotentPerPhone(t *testing.T) {
	db := setupTestDB(t)
	resolver := NewMemberResolver(db)

	first, created, err := resolver.Resolve("254708374149", "John", "Otieno")
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := resolver.Resolve("254708374149", "Different", "Person")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	db.Model(&models.Member{}).Where("phone_number = ?", "254708374149").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestResolveGuestWithOutOfOrderMemberNumbers(t *testing.T) {
	db := setupTestDB(t)

	// Imported members can carry numbers that do not follow insertion order;
	// the next number continues from the highest assigned one.
	seedMember(t, db, "Imported", "Two", "254700000002", "000002")
	seedMember(t, db, "Imported", "One", "254700000001", "000001")

	resolver := NewMemberResolver(db)
	member, created, err := resolver.Resolve("254708374149", "John", "Otieno")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "000003", member.MemberNumber)
}

func TestResolveRetriesOnMemberNumberCollision(t *testing.T) {
	db := setupTestDB(t)
	resolver := NewMemberResolver(db)

	// A concurrent guest create for a different phone can take the computed
	// member number between generation and insert; slip such a rival in just
	// before the first insert runs. The rival goes through an independent
	// connection so the service's rollback cannot unwind it.
	rivalDB := openIndependentConn(t)
	stole := false
	err := db.Callback().Create().Before("gorm:create").Register("steal_member_number", func(tx *gorm.DB) {
		if stole || tx.Statement.Table != (models.Member{}).TableName() {
			return
		}
		stole = true
		rival := models.Member{
			FirstName:    "Rival",
			LastName:     "Guest",
			PhoneNumber:  "254711000111",
			MemberNumber: "000001",
			IsActive:     true,
			IsGuest:      true,
		}
		require.NoError(t, rivalDB.Create(&rival).Error)
	})
	require.NoError(t, err)

	member, created, err := resolver.Resolve("254708374149", "John", "Otieno")
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, stole)
	assert.Equal(t, "000002", member.MemberNumber)

	var count int64
	db.Model(&models.Member{}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestMemberNumberSequence(t *testing.T) {
	db := setupTestDB(t)
	resolver := NewMemberResolver(db)

	first, _, err := resolver.Resolve("254708374149", "A", "One")
	require.NoError(t, err)
	assert.Equal(t, "000001", first.MemberNumber)

	second, _, err := resolver.Resolve("254708374150", "B", "Two")
	require.NoError(t, err)
	assert.Equal(t, "000002", second.MemberNumber)
}
