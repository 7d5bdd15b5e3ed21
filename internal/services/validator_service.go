package services

import (
	"errors"
	"time"

	"loyalty-service/internal/config"
	"loyalty-service/internal/models"
	"loyalty-service/pkg/common"

	"gorm.io/gorm"
)

// ValidatorService runs the pre-transfer rule checks: sender eligibility,
// kiosk authorization, the per-transfer amount ceiling and the two daily
// transaction-count ceilings. Reads only, no mutation. The count checks here
// are advisory (cheap early rejection); the binding enforcement happens on
// the counter rows inside the transfer transaction.
type ValidatorService struct {
	DB     *gorm.DB
	Helper *HelperService
}

func NewValidatorService(db *gorm.DB, helper *HelperService) *ValidatorService {
	return &ValidatorService{DB: db, Helper: helper}
}

type TransferRequest struct {
	SenderId        int
	ReceiverPhone   string
	KioskId         int
	Amount          float64
	WorkerProfileId *int
	IdempotencyKey  string
}

// ValidateTransfer checks the candidate transfer and resolves the sender,
// kiosk and (for workers) the active worker profile the transfer is scoped
// to. Any violation returns an AppError before the processor touches state.
func (s *ValidatorService) ValidateTransfer(req TransferRequest, settings config.Settings) (*models.User, *models.Kiosk, *models.WorkerProfile, error) {
	sender, err := s.Helper.FindUser(s.DB, req.SenderId)
	if err != nil {
		return nil, nil, nil, err
	}

	if sender.Status != models.UserActive || !sender.Verified {
		return nil, nil, nil, common.NewUnauthorizedError("sender is not an active verified identity")
	}
	if sender.Role != models.RoleWorker && sender.Role != models.RoleOwner {
		return nil, nil, nil, common.NewUnauthorizedError("sender must be a kiosk worker or owner")
	}

	kiosk, err := s.Helper.FindKiosk(s.DB, req.KioskId)
	if err != nil {
		return nil, nil, nil, err
	}
	if !kiosk.Active {
		return nil, nil, nil, common.NewBusinessError("kiosk is not active", nil)
	}

	var profile *models.WorkerProfile
	switch sender.Role {
	case models.RoleOwner:
		if kiosk.OwnerId != sender.ID {
			return nil, nil, nil, common.NewUnauthorizedError("sender does not own this kiosk")
		}
		if req.WorkerProfileId != nil {
			return nil, nil, nil, common.NewBusinessError("worker profile does not apply to an owner transfer", nil)
		}
	case models.RoleWorker:
		profile, err = s.activeProfile(sender.ID, kiosk.ID)
		if err != nil {
			return nil, nil, nil, err
		}
		if req.WorkerProfileId != nil && *req.WorkerProfileId != profile.ID {
			return nil, nil, nil, common.NewUnauthorizedError("worker profile does not match the sender at this kiosk")
		}
	}

	if req.Amount <= 0 {
		return nil, nil, nil, common.NewBusinessError("amount must be positive", nil)
	}
	if req.Amount > settings.MaxTransferAmount {
		return nil, nil, nil, common.NewBusinessError("amount exceeds the per-transaction ceiling", map[string]interface{}{
			"max":    settings.MaxTransferAmount,
			"amount": req.Amount,
		})
	}

	dayStart, dayEnd := dayBounds(time.Now())

	toReceiver, err := s.completedCountToday(req.SenderId, req.ReceiverPhone, dayStart, dayEnd)
	if err != nil {
		return nil, nil, nil, err
	}
	if toReceiver >= int64(settings.MaxDailyPerReceiver) {
		return nil, nil, nil, common.NewBusinessError("daily limit to this receiver reached", map[string]interface{}{
			"max":     settings.MaxDailyPerReceiver,
			"current": toReceiver,
		})
	}

	total, err := s.completedCountToday(req.SenderId, "", dayStart, dayEnd)
	if err != nil {
		return nil, nil, nil, err
	}
	if total >= int64(settings.MaxDailyPerSender) {
		return nil, nil, nil, common.NewBusinessError("daily transaction limit reached", map[string]interface{}{
			"max":     settings.MaxDailyPerSender,
			"current": total,
		})
	}

	return sender, kiosk, profile, nil
}

func (s *ValidatorService) activeProfile(userId, kioskId int) (*models.WorkerProfile, error) {
	var profile models.WorkerProfile
	err := s.DB.Where("user_id = ? AND kiosk_id = ? AND status = ?", userId, kioskId, models.ProfileActive).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewUnauthorizedError("sender has no active worker profile at this kiosk")
		}
		return nil, err
	}
	return &profile, nil
}

func (s *ValidatorService) completedCountToday(senderId int, receiverPhone string, dayStart, dayEnd time.Time) (int64, error) {
	query := s.DB.Model(&models.Transaction{}).
		Where("sender_id = ? AND status = ?", senderId, models.TrxCompleted).
		Where("created_at >= ? AND created_at < ?", dayStart, dayEnd)
	if receiverPhone != "" {
		query = query.Where("receiver_phone = ?", receiverPhone)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// dayBounds returns the local calendar day containing t as [start, end).
func dayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}
