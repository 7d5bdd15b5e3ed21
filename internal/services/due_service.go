package services

import (
	"errors"

	"loyalty-service/internal/models"
	"loyalty-service/pkg/common"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DueService struct {
	DB *gorm.DB
}

func NewDueService(db *gorm.DB) *DueService {
	return &DueService{DB: db}
}

type ListDuesDTO struct {
	KioskId    int
	UnpaidOnly bool
	Page       int
	Limit      int
}

func (s *DueService) ListDues(data ListDuesDTO) (common.PaginationResult, error) {
	limit := data.Limit
	if limit <= 0 {
		limit = 50
	}
	page := data.Page
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	query := s.DB.Model(&models.KioskDue{})
	if data.KioskId != 0 {
		query = query.Where("kiosk_id = ?", data.KioskId)
	}
	if data.UnpaidOnly {
		query = query.Where("is_paid = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return common.PaginationResult{}, err
	}

	var dues []models.KioskDue
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&dues).Error; err != nil {
		return common.PaginationResult{}, err
	}

	return common.PaginateResponse(dues, total, page, limit, "Dues fetched"), nil
}

// CollectDue flips a due to paid and records who collected it. The row is
// locked so a double collection surfaces as CONFLICT, not a silent re-flip.
func (s *DueService) CollectDue(dueId, collectorId int) (common.SuccessResponse, error) {
	var due models.KioskDue
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&due, dueId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return common.NewNotFoundError("due not found")
			}
			return err
		}
		if due.IsPaid {
			return common.NewConflictError("due is already collected")
		}

		updates := map[string]interface{}{"is_paid": true}
		if collectorId != 0 {
			updates["collector_id"] = collectorId
		}
		if err := tx.Model(&due).Updates(updates).Error; err != nil {
			return err
		}

		due.IsPaid = true
		if collectorId != 0 {
			due.CollectorId = &collectorId
		}
		return nil
	})
	if err != nil {
		return common.SuccessResponse{}, err
	}

	return common.NewSuccessResponse(due, "Due collected"), nil
}
