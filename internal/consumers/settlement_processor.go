package consumers

import (
	"fmt"
	"log"
	"time"

	"loyalty-service/internal/services"
)

type GoalSettlementDTO struct {
	Day string `json:"day"`
}

// SettlementProcessor bridges queue tasks to the settlement engine.
type SettlementProcessor struct {
	Settlement *services.SettlementService
}

func NewSettlementProcessor(settlement *services.SettlementService) *SettlementProcessor {
	return &SettlementProcessor{Settlement: settlement}
}

func (p *SettlementProcessor) ProcessGoalSettlement(data GoalSettlementDTO) error {
	day, err := time.ParseInLocation("2006-01-02", data.Day, time.Local)
	if err != nil {
		return fmt.Errorf("invalid settlement day %q: %w", data.Day, err)
	}

	summary, err := p.Settlement.SettleDay(day)
	if err != nil {
		return err
	}

	if summary.AlreadySettled {
		log.Printf("settlement: day %s already settled, nothing to do", summary.Day)
	}
	return nil
}
