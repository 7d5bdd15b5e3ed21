package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"loyalty-service/internal/models"
	"loyalty-service/pkg/common"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Task type for the queue. Kept here as well as in the worker package to
// avoid an import cycle through the consumers.
const TypeGoalSettlement = "goal-settlement"

// A RUNNING row older than this is treated as a crashed run and taken over.
const runStaleAfter = time.Hour

type GoalSettlementPayload struct {
	Day string `json:"day"`
}

// SettlementService is the nightly engine that resolves each worker's
// pending commission against the daily goal: released to the worker when the
// goal was met, forfeited (kept by the owner) when it was not. Each goal is
// settled in its own database transaction; one goal's failure never aborts
// the rest of the run.
type SettlementService struct {
	DB     *gorm.DB
	Helper *HelperService
	Client *asynq.Client
}

func NewSettlementService(db *gorm.DB, helper *HelperService, client *asynq.Client) *SettlementService {
	return &SettlementService{DB: db, Helper: helper, Client: client}
}

type SettlementSummary struct {
	Day            string  `json:"day"`
	Reference      string  `json:"reference"`
	GoalsProcessed int     `json:"goals_processed"`
	GoalsReleased  int     `json:"goals_released"`
	GoalsForfeited int     `json:"goals_forfeited"`
	GoalsFailed    int     `json:"goals_failed"`
	AmountReleased float64 `json:"amount_released"`
	AlreadySettled bool    `json:"already_settled"`
}

// SettleDay runs the settlement for one calendar day. Re-running a day that
// already completed is a no-op; a day still RUNNING returns CONFLICT so two
// schedulers cannot interleave. A FAILED run, or a RUNNING row left behind by
// a crash, is taken over and retried: goals settled on an earlier attempt
// have no PENDING transactions left and pass through untouched.
func (s *SettlementService) SettleDay(day time.Time) (*SettlementSummary, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	dayStr := dayStart.Format("2006-01-02")

	run := models.SettlementRun{
		Day:       dayStr,
		Reference: uuid.NewString(),
		Status:    models.RunRunning,
	}
	if err := s.DB.Create(&run).Error; err != nil {
		// Unique day index: somebody ran (or is running) this day already.
		var existing models.SettlementRun
		if ferr := s.DB.Where("day = ?", dayStr).First(&existing).Error; ferr != nil {
			return nil, err
		}
		if existing.Status == models.RunCompleted {
			return &SettlementSummary{
				Day:            existing.Day,
				Reference:      existing.Reference,
				GoalsProcessed: existing.GoalsProcessed,
				GoalsReleased:  existing.GoalsReleased,
				GoalsForfeited: existing.GoalsForfeited,
				GoalsFailed:    existing.GoalsFailed,
				AmountReleased: existing.AmountReleased,
				AlreadySettled: true,
			}, nil
		}
		if existing.Status == models.RunRunning && time.Since(existing.UpdatedAt) < runStaleAfter {
			return nil, common.NewConflictError("settlement for this day is already running")
		}

		// Failed or stale run: take the row over and retry the day. The
		// status guard keeps two retries from both winning the takeover.
		res := s.DB.Model(&models.SettlementRun{}).
			Where("id = ? AND status = ?", existing.ID, existing.Status).
			Updates(map[string]interface{}{"status": models.RunRunning, "reference": run.Reference})
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, common.NewConflictError("settlement for this day is already running")
		}
		existing.Status = models.RunRunning
		existing.Reference = run.Reference
		run = existing
	}

	var goals []models.Goal
	err := s.DB.Where("is_recurring = ? AND goal_type = ? AND status = ?",
		true, models.GoalWorkerTarget, models.GoalActive).Find(&goals).Error
	if err != nil {
		s.finishRun(&run, models.RunFailed, nil)
		return nil, err
	}

	// On a takeover retry the counters carry over from the earlier attempt,
	// so the audit row stays cumulative for the day.
	summary := SettlementSummary{
		Day:            dayStr,
		Reference:      run.Reference,
		GoalsProcessed: run.GoalsProcessed,
		GoalsReleased:  run.GoalsReleased,
		GoalsForfeited: run.GoalsForfeited,
		AmountReleased: run.AmountReleased,
	}
	for _, goal := range goals {
		outcome, amount, err := s.settleGoal(goal, dayStart, dayEnd)
		if err != nil {
			log.Printf("settlement: goal %d failed: %v", goal.ID, err)
			summary.GoalsFailed++
			continue
		}
		switch outcome {
		case outcomeReleased:
			summary.GoalsProcessed++
			summary.GoalsReleased++
			summary.AmountReleased += amount
		case outcomeForfeited:
			summary.GoalsProcessed++
			summary.GoalsForfeited++
		}
	}

	// A failed goal leaves its transactions PENDING. Marking the run FAILED
	// lets the next SettleDay take the row over and retry just those goals.
	status := models.RunCompleted
	if summary.GoalsFailed > 0 {
		status = models.RunFailed
	}
	s.finishRun(&run, status, &summary)
	log.Printf("settlement: day %s %s, %d goals (%d released, %d forfeited, %d failed), %.2f released",
		dayStr, status, summary.GoalsProcessed, summary.GoalsReleased, summary.GoalsForfeited,
		summary.GoalsFailed, summary.AmountReleased)

	return &summary, nil
}

type settleOutcome int

const (
	outcomeSkipped settleOutcome = iota
	outcomeReleased
	outcomeForfeited
)

// settleGoal resolves one goal for the day. The contributing transactions
// and both wallet rows are locked inside a single transaction: the
// owner-debit/worker-credit pair is all-or-nothing.
func (s *SettlementService) settleGoal(goal models.Goal, dayStart, dayEnd time.Time) (settleOutcome, float64, error) {
	outcome := outcomeSkipped
	var released float64

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var profile models.WorkerProfile
		if err := tx.First(&profile, goal.WorkerProfileId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("worker profile %d not found", goal.WorkerProfileId)
			}
			return err
		}
		if profile.Status != models.ProfileActive {
			return nil
		}

		var pending []models.Transaction
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("worker_profile_id = ? AND trx_type = ? AND status = ? AND commission_status = ?",
				profile.ID, models.TrxDeposit, models.TrxCompleted, models.CommissionPending).
			Where("created_at >= ? AND created_at < ?", dayStart, dayEnd).
			Find(&pending).Error
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			return nil
		}

		var total float64
		ids := make([]int, 0, len(pending))
		for _, trx := range pending {
			total += trx.Commission
			ids = append(ids, trx.ID)
		}

		if total >= goal.TargetAmount {
			// Goal met: claw the day's commission from the owner back to
			// the worker.
			if err := s.Helper.DebitWallet(tx, goal.OwnerId, total); err != nil {
				return err
			}
			if err := s.Helper.CreditWallet(tx, profile.UserId, total); err != nil {
				return err
			}
			if err := tx.Model(&models.Transaction{}).Where("id IN ?", ids).
				Update("commission_status", models.CommissionPaid).Error; err != nil {
				return err
			}
			outcome = outcomeReleased
			released = total
			return nil
		}

		// Goal missed: the owner already holds the commission, so
		// forfeiture is bookkeeping only.
		if err := tx.Model(&models.Transaction{}).Where("id IN ?", ids).
			Update("commission_status", models.CommissionForfeited).Error; err != nil {
			return err
		}
		outcome = outcomeForfeited
		return nil
	})
	if err != nil {
		return outcomeSkipped, 0, err
	}
	return outcome, released, nil
}

func (s *SettlementService) finishRun(run *models.SettlementRun, status string, summary *SettlementSummary) {
	now := time.Now()
	updates := map[string]interface{}{
		"status":      status,
		"finished_at": &now,
	}
	if summary != nil {
		updates["goals_processed"] = summary.GoalsProcessed
		updates["goals_released"] = summary.GoalsReleased
		updates["goals_forfeited"] = summary.GoalsForfeited
		updates["goals_failed"] = summary.GoalsFailed
		updates["amount_released"] = summary.AmountReleased
	}
	if err := s.DB.Model(run).Updates(updates).Error; err != nil {
		log.Printf("settlement: failed to update run %s: %v", run.Day, err)
	}
}

// Dispatch enqueues the settlement task for a day. The queue-side TaskID
// dedupes double-fires from the scheduler; the settlement_runs row is the
// authoritative guard either way.
func (s *SettlementService) Dispatch(day time.Time) error {
	payload, err := json.Marshal(GoalSettlementPayload{Day: day.Format("2006-01-02")})
	if err != nil {
		return err
	}

	task := asynq.NewTask(TypeGoalSettlement, payload)
	_, err = s.Client.Enqueue(task,
		asynq.TaskID(fmt.Sprintf("%s:%s", TypeGoalSettlement, day.Format("2006-01-02"))),
		asynq.Queue("critical"),
	)
	if err != nil && !errors.Is(err, asynq.ErrTaskIDConflict) {
		return err
	}
	return nil
}

// StartScheduler fires shortly after midnight and settles the previous
// calendar day, once its transactions are final. With no queue client the
// run happens in-process.
func (s *SettlementService) StartScheduler() {
	c := cron.New()

	_, err := c.AddFunc("5 0 * * *", func() {
		yesterday := time.Now().AddDate(0, 0, -1)
		if s.Client != nil {
			if err := s.Dispatch(yesterday); err != nil {
				log.Printf("settlement: failed to dispatch for %s: %v", yesterday.Format("2006-01-02"), err)
			}
			return
		}
		if _, err := s.SettleDay(yesterday); err != nil {
			log.Printf("settlement: run for %s failed: %v", yesterday.Format("2006-01-02"), err)
		}
	})
	if err != nil {
		log.Printf("settlement: failed to schedule daily run: %v", err)
		return
	}

	c.Start()
	log.Println("Settlement scheduler started (daily at 00:05)")
}
