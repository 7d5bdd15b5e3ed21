package config

import (
	"os"
	"strconv"

	"gorm.io/gorm"

	"loyalty-service/internal/models"
)

// Setting keys in the system_settings table. Env vars of the same name act
// as defaults when no row exists.
const (
	KeyTransactionFee      = "TRANSACTION_FEE"
	KeyCommissionAmount    = "COMMISSION_AMOUNT"
	KeyMaxTransferAmount   = "MAX_TRANSFER_AMOUNT"
	KeyMaxDailyPerReceiver = "MAX_DAILY_PER_RECEIVER"
	KeyMaxDailyPerSender   = "MAX_DAILY_PER_SENDER"
)

// Settings is an immutable per-operation snapshot of the mutable
// configuration store. Services take it as an argument instead of reading
// globals, so tests can vary ceilings deterministically.
type Settings struct {
	TransactionFee      float64
	CommissionAmount    float64
	MaxTransferAmount   float64
	MaxDailyPerReceiver int
	MaxDailyPerSender   int
}

func Defaults() Settings {
	return Settings{
		TransactionFee:      envFloat(KeyTransactionFee, 5),
		CommissionAmount:    envFloat(KeyCommissionAmount, 5),
		MaxTransferAmount:   envFloat(KeyMaxTransferAmount, 10000),
		MaxDailyPerReceiver: envInt(KeyMaxDailyPerReceiver, 2),
		MaxDailyPerSender:   envInt(KeyMaxDailyPerSender, 50),
	}
}

// Load snapshots the settings store, overlaying system_settings rows on top
// of the env defaults. Unknown keys and unparsable values are ignored.
func Load(db *gorm.DB) Settings {
	s := Defaults()
	if db == nil {
		return s
	}

	var rows []models.SystemSetting
	if err := db.Find(&rows).Error; err != nil {
		return s
	}

	for _, row := range rows {
		switch row.Key {
		case KeyTransactionFee:
			if v, err := strconv.ParseFloat(row.Value, 64); err == nil {
				s.TransactionFee = v
			}
		case KeyCommissionAmount:
			if v, err := strconv.ParseFloat(row.Value, 64); err == nil {
				s.CommissionAmount = v
			}
		case KeyMaxTransferAmount:
			if v, err := strconv.ParseFloat(row.Value, 64); err == nil {
				s.MaxTransferAmount = v
			}
		case KeyMaxDailyPerReceiver:
			if v, err := strconv.Atoi(row.Value); err == nil {
				s.MaxDailyPerReceiver = v
			}
		case KeyMaxDailyPerSender:
			if v, err := strconv.Atoi(row.Value); err == nil {
				s.MaxDailyPerSender = v
			}
		}
	}
	return s
}

func envFloat(key string, fallback float64) float64 {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return fallback
}
