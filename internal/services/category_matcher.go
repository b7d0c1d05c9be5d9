package services

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"contribution-service/internal/models"
)

// Minimum similarity ratio for a fuzzy category match.
const fuzzyMatchCutoff = 0.6

// CategoryMatcher resolves a raw bill reference to a contribution category.
type CategoryMatcher struct {
	DB *gorm.DB
}

func NewCategoryMatcher(db *gorm.DB) *CategoryMatcher {
	return &CategoryMatcher{DB: db}
}

// Match finds the best active category for a bill reference.
//
// Resolution order:
//  1. Case-insensitive exact match on the category code.
//  2. Fuzzy match: Ratcliff/Obershelp similarity against every active code,
//     accepted only when exactly one candidate clears the 0.6 cutoff.
//     Ambiguity (two or more survivors) is treated as no match so that money
//     is never credited to the wrong fund on a near-tie.
//
// Returns the category (nil when unmatched) and the match method
// (models.MatchExact, models.MatchFuzzy or models.MatchNone).
func (m *CategoryMatcher) Match(billRef string) (*models.ContributionCategory, string, error) {
	billRef = strings.TrimSpace(billRef)
	if billRef == "" {
		return nil, models.MatchNone, nil
	}

	// 1. Exact match (case-insensitive)
	var category models.ContributionCategory
	err := m.DB.Where("UPPER(code) = ? AND is_active = ? AND is_deleted = ?",
		strings.ToUpper(billRef), true, false).First(&category).Error
	if err == nil {
		return &category, models.MatchExact, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, models.MatchNone, err
	}

	// 2. Fuzzy match against all active category codes
	var candidates []models.ContributionCategory
	if err := m.DB.Where("is_active = ? AND is_deleted = ?", true, false).Find(&candidates).Error; err != nil {
		return nil, models.MatchNone, err
	}

	ref := strings.ToUpper(billRef)
	var matched *models.ContributionCategory
	survivors := 0
	for i := range candidates {
		if similarity(ref, strings.ToUpper(candidates[i].Code)) >= fuzzyMatchCutoff {
			survivors++
			matched = &candidates[i]
		}
	}

	if survivors != 1 {
		return nil, models.MatchNone, nil
	}

	log.WithFields(log.Fields{
		"bill_ref": billRef,
		"code":     matched.Code,
		"category": matched.Name,
	}).Info("C2B fuzzy match")
	return matched, models.MatchFuzzy, nil
}

// similarity computes the Ratcliff/Obershelp ratio between two strings,
// character-wise, in the 0.0 to 1.0 range.
func similarity(a, b string) float64 {
	matcher := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return matcher.Ratio()
}
