package services

import (
	"errors"
	"time"

	"loyalty-service/internal/config"
	"loyalty-service/internal/models"
	"loyalty-service/pkg/common"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TransferService orchestrates a single point transfer. The four writes —
// receiver credit (wallet or shadow wallet), sender commission credit, due
// creation and the transaction row — happen in one database transaction; a
// reader can never observe the credit without the transaction row.
type TransferService struct {
	DB        *gorm.DB
	Helper    *HelperService
	Validator *ValidatorService
}

func NewTransferService(db *gorm.DB, helper *HelperService, validator *ValidatorService) *TransferService {
	return &TransferService{DB: db, Helper: helper, Validator: validator}
}

type SendPointsDTO struct {
	SenderId        int
	ReceiverPhone   string
	KioskId         int
	Amount          float64
	WorkerProfileId *int
	IdempotencyKey  string
}

type TransferResult struct {
	Transaction models.Transaction
	Due         models.KioskDue
	Replayed    bool
}

// SendPoints moves gross points to the receiver's wallet (net of the flat
// fee), credits the flat commission to the sender, and records the due and
// transaction rows. Validation failures surface before any mutation starts.
// A repeated idempotency key returns the original result instead of
// re-applying.
func (s *TransferService) SendPoints(dto SendPointsDTO, settings config.Settings) (*TransferResult, error) {
	if dto.IdempotencyKey != "" {
		if replay, err := s.findByIdempotencyKey(s.DB, dto.IdempotencyKey); err != nil {
			return nil, err
		} else if replay != nil {
			return replay, nil
		}
	}

	sender, kiosk, profile, err := s.Validator.ValidateTransfer(TransferRequest{
		SenderId:        dto.SenderId,
		ReceiverPhone:   dto.ReceiverPhone,
		KioskId:         dto.KioskId,
		Amount:          dto.Amount,
		WorkerProfileId: dto.WorkerProfileId,
		IdempotencyKey:  dto.IdempotencyKey,
	}, settings)
	if err != nil {
		return nil, err
	}

	amountNet := dto.Amount - settings.TransactionFee
	if amountNet <= 0 {
		return nil, common.NewBusinessError("amount does not cover the transaction fee", map[string]interface{}{
			"fee":    settings.TransactionFee,
			"amount": dto.Amount,
		})
	}

	var result TransferResult
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		// Replay check again under the unique index; two concurrent
		// requests with the same key race the first lookup.
		if dto.IdempotencyKey != "" {
			if replay, err := s.findByIdempotencyKey(tx, dto.IdempotencyKey); err != nil {
				return err
			} else if replay != nil {
				result = *replay
				return nil
			}
		}

		// The receiver is resolved inside the transaction, under lock. A
		// registration committing after validation must see the credit in
		// the wallet, never in a resurrected shadow row the claim already
		// missed.
		receiver, err := s.Helper.FindUserByPhone(tx, dto.ReceiverPhone)
		if err != nil {
			return err
		}

		day := time.Now().Format("2006-01-02")
		if err := s.bumpCounter(tx, dto.SenderId, "", day, settings.MaxDailyPerSender, "daily transaction limit reached"); err != nil {
			return err
		}
		if err := s.bumpCounter(tx, dto.SenderId, dto.ReceiverPhone, day, settings.MaxDailyPerReceiver, "daily limit to this receiver reached"); err != nil {
			return err
		}

		var receiverId *int
		if receiver != nil {
			receiverId = &receiver.ID
			if err := s.Helper.CreditWallet(tx, receiver.ID, amountNet); err != nil {
				return err
			}
		} else {
			if err := s.creditShadowWallet(tx, dto.ReceiverPhone, amountNet); err != nil {
				return err
			}
		}

		// The sender keeps the commission immediately; settlement claws it
		// back to the worker only when the daily goal is met.
		if err := s.Helper.CreditWallet(tx, sender.ID, settings.CommissionAmount); err != nil {
			return err
		}

		trx := models.Transaction{
			Reference:        common.GenerateTrxNo(),
			SenderId:         sender.ID,
			ReceiverPhone:    dto.ReceiverPhone,
			ReceiverId:       receiverId,
			KioskId:          kiosk.ID,
			AmountGross:      dto.Amount,
			AmountNet:        amountNet,
			Commission:       settings.CommissionAmount,
			TrxType:          models.TrxDeposit,
			Status:           models.TrxCompleted,
			CommissionStatus: models.CommissionPending,
		}
		if dto.IdempotencyKey != "" {
			key := dto.IdempotencyKey
			trx.IdempotencyKey = &key
		}
		if profile != nil {
			trx.WorkerProfileId = &profile.ID
		}
		if err := tx.Create(&trx).Error; err != nil {
			return err
		}

		due := models.KioskDue{
			KioskId:       kiosk.ID,
			TransactionId: trx.ID,
			Amount:        dto.Amount,
		}
		if err := tx.Create(&due).Error; err != nil {
			return err
		}

		result = TransferResult{Transaction: trx, Due: due}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// bumpCounter increments the (sender, receiverPhone, day) counter row with
// an ON DUPLICATE KEY upsert and re-reads it in the same transaction. Going
// over max fails the whole transfer, so two concurrent requests cannot both
// pass a count check and exceed the ceiling.
func (s *TransferService) bumpCounter(tx *gorm.DB, senderId int, receiverPhone, day string, max int, message string) error {
	counter := models.TransferCounter{
		SenderId:      senderId,
		ReceiverPhone: receiverPhone,
		Day:           day,
		Count:         1,
	}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "sender_id"}, {Name: "receiver_phone"}, {Name: "day"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"count": gorm.Expr("count + 1")}),
	}).Create(&counter).Error
	if err != nil {
		return err
	}

	// Locking read: the upsert already holds the row lock, and FOR UPDATE
	// returns the latest committed count rather than the snapshot.
	var current models.TransferCounter
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("sender_id = ? AND receiver_phone = ? AND day = ?", senderId, receiverPhone, day).
		First(&current).Error; err != nil {
		return err
	}
	if current.Count > max {
		return common.NewBusinessError(message, map[string]interface{}{
			"max":     max,
			"current": current.Count,
		})
	}
	return nil
}

// creditShadowWallet upserts the shadow balance for an unregistered phone,
// creating the row at amount when absent.
func (s *TransferService) creditShadowWallet(tx *gorm.DB, phone string, amount float64) error {
	shadow := models.ShadowWallet{Phone: phone, Balance: amount}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "phone"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"balance": gorm.Expr("balance + ?", amount)}),
	}).Create(&shadow).Error
}

func (s *TransferService) findByIdempotencyKey(db *gorm.DB, key string) (*TransferResult, error) {
	var trx models.Transaction
	err := db.Where("idempotency_key = ?", key).First(&trx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var due models.KioskDue
	if err := db.Where("transaction_id = ?", trx.ID).First(&due).Error; err != nil &&
		!errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return &TransferResult{Transaction: trx, Due: due, Replayed: true}, nil
}
