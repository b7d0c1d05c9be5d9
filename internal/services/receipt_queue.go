package services

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	log "github.com/sirupsen/logrus"
)

// Task type for receipt delivery (copied from worker/tasks.go to avoid cycle)
const TypeSendReceipt = "send-receipt"

// QueueNotifier hands receipt delivery off to the asynq worker so the HTTP
// handlers never block on the SMS gateway. Enqueue failures are reported in
// the result and swallowed by callers like any other notifier failure.
type QueueNotifier struct {
	Client *asynq.Client
}

func NewQueueNotifier(client *asynq.Client) *QueueNotifier {
	return &QueueNotifier{Client: client}
}

func (n *QueueNotifier) SendReceipt(details ReceiptDetails) (*ReceiptResult, error) {
	taskData, err := json.Marshal(details)
	if err != nil {
		return &ReceiptResult{Success: false, Message: "Failed to marshal receipt task"}, err
	}

	task := asynq.NewTask(TypeSendReceipt, taskData)

	// TaskID dedupes re-enqueues for the same receipt; MaxRetry(0) because
	// receipt delivery is fire-and-forget.
	taskID := fmt.Sprintf("receipt:%s", details.ReceiptReference)
	if _, err := n.Client.Enqueue(task, asynq.TaskID(taskID), asynq.MaxRetry(0)); err != nil {
		return &ReceiptResult{Success: false, Message: err.Error()}, err
	}

	log.WithField("receipt", details.ReceiptReference).Info("Receipt task enqueued")
	return &ReceiptResult{Success: true, Message: "Receipt queued"}, nil
}
