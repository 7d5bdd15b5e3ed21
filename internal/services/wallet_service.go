package services

import (
	"errors"

	"loyalty-service/internal/models"
	"loyalty-service/pkg/common"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WalletService struct {
	DB     *gorm.DB
	Helper *HelperService
}

func NewWalletService(db *gorm.DB, helper *HelperService) *WalletService {
	return &WalletService{DB: db, Helper: helper}
}

type RegisterWalletDTO struct {
	UserId int
	Phone  string
}

// RegisterWallet creates the wallet for a newly registered identity and
// claims any shadow balance accrued on the phone before registration. Wallet
// creation, the balance migration and the shadow row deletion are one
// transaction: points are never in neither place.
func (s *WalletService) RegisterWallet(data RegisterWalletDTO) (common.SuccessResponse, error) {
	user, err := s.Helper.FindUser(s.DB, data.UserId)
	if err != nil {
		return common.SuccessResponse{}, err
	}

	phone := data.Phone
	if phone == "" {
		phone = user.Phone
	}

	var wallet models.Wallet
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.Wallet
		if err := tx.Where("user_id = ?", user.ID).First(&existing).Error; err == nil {
			return common.NewConflictError("wallet already exists for this user")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		wallet = models.Wallet{UserId: user.ID}

		var shadow models.ShadowWallet
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("phone = ?", phone).First(&shadow).Error
		switch {
		case err == nil:
			wallet.Balance = shadow.Balance
			if err := tx.Delete(&shadow).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// nothing to claim
		default:
			return err
		}

		return tx.Create(&wallet).Error
	})
	if err != nil {
		return common.SuccessResponse{}, err
	}

	return common.NewSuccessResponse(wallet, "Wallet created"), nil
}

type GetBalanceDTO struct {
	UserId      int
	SettledOnly bool
}

type BalanceView struct {
	UserId            int     `json:"user_id"`
	Balance           float64 `json:"balance"`
	PendingCommission float64 `json:"pending_commission"`
	SettledBalance    float64 `json:"settled_balance"`
}

// GetBalance returns the wallet balance. The settled-only view subtracts the
// commission still PENDING on the owner's kiosks: commission is credited to
// the owner optimistically at transfer time, so the raw balance overstates
// owner equity until the nightly settlement confirms or claws it back.
func (s *WalletService) GetBalance(data GetBalanceDTO) (common.SuccessResponse, error) {
	var wallet models.Wallet
	if err := s.DB.Where("user_id = ?", data.UserId).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.SuccessResponse{}, common.NewNotFoundError("wallet not found")
		}
		return common.SuccessResponse{}, err
	}

	view := BalanceView{
		UserId:         wallet.UserId,
		Balance:        wallet.Balance,
		SettledBalance: wallet.Balance,
	}

	if data.SettledOnly {
		var pending float64
		err := s.DB.Model(&models.Transaction{}).
			Joins("JOIN kiosks k ON k.id = transactions.kiosk_id").
			Where("k.owner_id = ?", data.UserId).
			Where("transactions.trx_type = ? AND transactions.status = ? AND transactions.commission_status = ?",
				models.TrxDeposit, models.TrxCompleted, models.CommissionPending).
			Select("COALESCE(SUM(transactions.commission), 0)").
			Scan(&pending).Error
		if err != nil {
			return common.SuccessResponse{}, err
		}
		view.PendingCommission = pending
		view.SettledBalance = wallet.Balance - pending
	}

	return common.NewSuccessResponse(view, "Wallet fetched"), nil
}

type ListTransactionsDTO struct {
	UserId    int
	KioskId   int
	StartDate string
	EndDate   string
	Page      int
	Limit     int
}

// ListTransactions returns the transfer history, newest first. Callers
// recovering from a transfer timeout query here (by idempotency key on the
// rows) before retrying.
func (s *WalletService) ListTransactions(data ListTransactionsDTO) (common.PaginationResult, error) {
	limit := data.Limit
	if limit <= 0 {
		limit = 50
	}
	page := data.Page
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	query := s.DB.Model(&models.Transaction{})
	if data.UserId != 0 {
		query = query.Where("sender_id = ? OR receiver_id = ?", data.UserId, data.UserId)
	}
	if data.KioskId != 0 {
		query = query.Where("kiosk_id = ?", data.KioskId)
	}
	if data.StartDate != "" {
		query = query.Where("DATE(created_at) >= ?", data.StartDate)
	}
	if data.EndDate != "" {
		query = query.Where("DATE(created_at) <= ?", data.EndDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return common.PaginationResult{}, err
	}

	var transactions []models.Transaction
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&transactions).Error; err != nil {
		return common.PaginationResult{}, err
	}

	return common.PaginateResponse(transactions, total, page, limit, "Transactions fetched"), nil
}
