package services

import (
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"contribution-service/internal/models"
)

// Insert attempts per guest create. Member numbers are generated
// select-then-insert, so a concurrent create can take the computed number
// first; each retry regenerates it.
const guestCreateRetries = 3

// MemberResolver finds a member by normalized phone number or creates a
// guest record from payer-supplied names.
type MemberResolver struct {
	DB *gorm.DB
}

func NewMemberResolver(db *gorm.DB) *MemberResolver {
	return &MemberResolver{DB: db}
}

// Resolve returns the member for the given normalized phone, creating a
// guest member when none exists. The second return value reports whether a
// new member was created. Stored registration names are authoritative: an
// existing member is returned as-is, payer names are never written over it.
//
// Concurrent calls for the same phone are safe: the phone uniqueness
// constraint makes the losing insert fail, and the loser re-reads and
// returns the existing row.
func (r *MemberResolver) Resolve(phone, firstName, lastName string) (*models.Member, bool, error) {
	var member models.Member
	err := r.DB.Where("phone_number = ? AND is_deleted = ?", phone, false).First(&member).Error
	if err == nil {
		return &member, false, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, false, err
	}

	first := strings.TrimSpace(firstName)
	if first == "" {
		first = "Guest"
	}
	last := strings.TrimSpace(lastName)
	if last == "" {
		last = "Member"
	}

	var createErr error
	for attempt := 0; attempt < guestCreateRetries; attempt++ {
		guest := models.Member{
			FirstName:    first,
			LastName:     last,
			PhoneNumber:  phone,
			MemberNumber: r.nextMemberNumber(),
			IsActive:     true,
			IsGuest:      true,
		}

		if createErr = r.DB.Create(&guest).Error; createErr == nil {
			log.WithFields(log.Fields{
				"member": guest.FullName(),
				"phone":  phone,
			}).Info("Created guest member")
			return &guest, true, nil
		}

		// Another request may have won the insert race on the phone; re-read
		// before retrying.
		var existing models.Member
		if ferr := r.DB.Where("phone_number = ? AND is_deleted = ?", phone, false).First(&existing).Error; ferr == nil {
			return &existing, false, nil
		}

		// The phone is still free, so the member number collided with a
		// concurrent create; regenerate and retry.
		log.WithFields(log.Fields{
			"phone":         phone,
			"member_number": guest.MemberNumber,
		}).Warn("Guest member number taken, retrying")
	}
	return nil, false, fmt.Errorf("failed to create guest member: %w", createErr)
}

// nextMemberNumber continues the zero-padded sequence from the highest
// assigned member number, starting at 000001. Numbers are fixed width, so
// the lexicographic maximum is the numeric maximum even when rows were
// imported out of id order.
func (r *MemberResolver) nextMemberNumber() string {
	var last models.Member
	if err := r.DB.Order("member_number DESC").First(&last).Error; err != nil {
		return "000001"
	}
	if n, err := strconv.Atoi(last.MemberNumber); err == nil {
		return fmt.Sprintf("%06d", n+1)
	}
	return fmt.Sprintf("%06d", last.ID+1)
}
