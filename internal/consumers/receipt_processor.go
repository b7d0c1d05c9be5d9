package consumers

import (
	log "github.com/sirupsen/logrus"

	"contribution-service/internal/services"
)

// ReceiptProcessor delivers queued contribution receipts through the SMS
// gateway. Delivery is best-effort: a failed send is logged, never retried
// and never re-queued.
type ReceiptProcessor struct {
	Notifier *services.SMSNotifier
}

func NewReceiptProcessor(notifier *services.SMSNotifier) *ReceiptProcessor {
	return &ReceiptProcessor{Notifier: notifier}
}

func (p *ReceiptProcessor) ProcessReceipt(details services.ReceiptDetails) {
	result, err := p.Notifier.SendReceipt(details)
	if err != nil {
		log.WithFields(log.Fields{
			"phone":     details.Phone,
			"reference": details.ReceiptReference,
		}).Warn("Receipt SMS error: ", err)
		return
	}
	if !result.Success {
		log.WithFields(log.Fields{
			"phone":     details.Phone,
			"reference": details.ReceiptReference,
			"message":   result.Message,
		}).Warn("Receipt SMS failed")
	}
}
