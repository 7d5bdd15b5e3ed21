package services

import (
	"errors"

	"loyalty-service/internal/models"
	"loyalty-service/pkg/common"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HelperService holds the lookups and wallet primitives shared by the
// transfer, goal and settlement services.
type HelperService struct {
	DB *gorm.DB
}

func NewHelperService(db *gorm.DB) *HelperService {
	return &HelperService{DB: db}
}

func (s *HelperService) FindUser(db *gorm.DB, userId int) (*models.User, error) {
	var user models.User
	if err := db.First(&user, userId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewNotFoundError("user not found")
		}
		return nil, err
	}
	return &user, nil
}

// FindUserByPhone resolves the identity holding a phone under FOR UPDATE,
// returning (nil, nil) when nobody does; the caller decides whether that
// means a shadow wallet. Inside a transaction the not-found case gap-locks
// the phone index, so a registration for the phone cannot commit until the
// caller does.
func (s *HelperService) FindUserByPhone(db *gorm.DB, phone string) (*models.User, error) {
	var user models.User
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("phone = ?", phone).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (s *HelperService) FindKiosk(db *gorm.DB, kioskId int) (*models.Kiosk, error) {
	var kiosk models.Kiosk
	if err := db.First(&kiosk, kioskId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewNotFoundError("kiosk not found")
		}
		return nil, err
	}
	return &kiosk, nil
}

// CreditWallet adds amount to a user's wallet with an atomic upsert on the
// user_id index, creating the row when the user has none yet. The upsert
// cannot collide with a concurrent wallet registration.
func (s *HelperService) CreditWallet(tx *gorm.DB, userId int, amount float64) error {
	wallet := models.Wallet{UserId: userId, Balance: amount}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"balance": gorm.Expr("balance + ?", amount)}),
	}).Create(&wallet).Error
}

// DebitWallet subtracts amount from a user's wallet. The row is locked and
// the sufficiency check runs under that lock, so the balance cannot go
// negative under concurrent transfers.
func (s *HelperService) DebitWallet(tx *gorm.DB, userId int, amount float64) error {
	var wallet models.Wallet
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userId).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.NewNotFoundError("wallet not found")
		}
		return err
	}

	if wallet.Balance < amount {
		return common.NewBusinessError("insufficient balance", map[string]interface{}{
			"balance":  wallet.Balance,
			"required": amount,
		})
	}

	return tx.Model(&models.Wallet{}).
		Where("user_id = ?", userId).
		UpdateColumn("balance", gorm.Expr("balance - ?", amount)).Error
}
