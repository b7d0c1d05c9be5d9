package worker

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"contribution-service/internal/services"
)

// Task Types
const (
	TypeSendReceipt = "send-receipt"
)

// NewSendReceiptTask wraps receipt details in an asynq task.
func NewSendReceiptTask(details services.ReceiptDetails) (*asynq.Task, error) {
	data, err := json.Marshal(details)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeSendReceipt, data), nil
}
