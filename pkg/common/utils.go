package common

import (
	"fmt"
	"time"
)

// GenerateReceiptNumber builds the receipt reference used for manual, cash
// and envelope entries when the operator did not supply one, e.g.
// RCP-20250114-0042.
func GenerateReceiptNumber(date time.Time, contributionID uint) string {
	return fmt.Sprintf("RCP-%s-%04d", date.Format("20060102"), contributionID)
}
