package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/hibiken/asynq"

	"contribution-service/internal/consumers"
	"contribution-service/internal/services"
)

type Worker struct {
	Processor *consumers.ReceiptProcessor
}

func NewWorker(processor *consumers.ReceiptProcessor) *Worker {
	return &Worker{
		Processor: processor,
	}
}

func (w *Worker) HandleSendReceipt(ctx context.Context, t *asynq.Task) error {
	var details services.ReceiptDetails
	if err := json.Unmarshal(t.Payload(), &details); err != nil {
		return fmt.Errorf("json.Unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}
	w.Processor.ProcessReceipt(details)
	return nil
}

func StartWorker(redisOpt asynq.RedisClientOpt, processor *consumers.ReceiptProcessor) {
	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	worker := NewWorker(processor)
	mux := asynq.NewServeMux()

	mux.HandleFunc(TypeSendReceipt, worker.HandleSendReceipt)

	if err := srv.Run(mux); err != nil {
		log.Fatalf("could not run server: %v", err)
	}
}
