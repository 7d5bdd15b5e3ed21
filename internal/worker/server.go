package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"loyalty-service/internal/consumers"

	"github.com/hibiken/asynq"
)

type Worker struct {
	Processor *consumers.SettlementProcessor
}

func NewWorker(processor *consumers.SettlementProcessor) *Worker {
	return &Worker{
		Processor: processor,
	}
}

func (w *Worker) HandleGoalSettlement(ctx context.Context, t *asynq.Task) error {
	var p consumers.GoalSettlementDTO
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("json.Unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}
	return w.Processor.ProcessGoalSettlement(p)
}

func StartWorker(redisOpt asynq.RedisClientOpt, processor *consumers.SettlementProcessor) {
	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			// Settlement runs strictly serially per day; no need for more.
			Concurrency: 2,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	worker := NewWorker(processor)
	mux := asynq.NewServeMux()

	mux.HandleFunc(TypeGoalSettlement, worker.HandleGoalSettlement)

	if err := srv.Run(mux); err != nil {
		log.Fatalf("could not run server: %v", err)
	}
}
