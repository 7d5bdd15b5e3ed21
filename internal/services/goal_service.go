package services

import (
	"errors"
	"time"

	"loyalty-service/internal/models"
	"loyalty-service/pkg/common"

	"gorm.io/gorm"
)

type GoalService struct {
	DB     *gorm.DB
	Helper *HelperService
}

func NewGoalService(db *gorm.DB, helper *HelperService) *GoalService {
	return &GoalService{DB: db, Helper: helper}
}

type SetGoalDTO struct {
	OwnerId         int
	WorkerProfileId int
	TargetAmount    float64
	IsRecurring     bool
	Deadline        *time.Time
}

// SetGoal creates a WORKER_TARGET goal for a worker profile. Only the owner
// of the profile's kiosk may set one, and setting a new goal archives the
// prior active goal so at most one is ever ACTIVE per profile.
func (s *GoalService) SetGoal(data SetGoalDTO) (common.SuccessResponse, error) {
	owner, err := s.Helper.FindUser(s.DB, data.OwnerId)
	if err != nil {
		return common.SuccessResponse{}, err
	}
	if owner.Role != models.RoleOwner {
		return common.SuccessResponse{}, common.NewUnauthorizedError("only kiosk owners can set goals")
	}

	var profile models.WorkerProfile
	if err := s.DB.First(&profile, data.WorkerProfileId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.SuccessResponse{}, common.NewNotFoundError("worker profile not found")
		}
		return common.SuccessResponse{}, err
	}
	if profile.Status != models.ProfileActive {
		return common.SuccessResponse{}, common.NewBusinessError("worker profile is not active", nil)
	}

	kiosk, err := s.Helper.FindKiosk(s.DB, profile.KioskId)
	if err != nil {
		return common.SuccessResponse{}, err
	}
	if kiosk.OwnerId != owner.ID {
		return common.SuccessResponse{}, common.NewUnauthorizedError("worker profile belongs to another owner's kiosk")
	}

	if data.TargetAmount <= 0 {
		return common.SuccessResponse{}, common.NewBusinessError("target amount must be positive", nil)
	}

	var goal models.Goal
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Goal{}).
			Where("worker_profile_id = ? AND goal_type = ? AND status = ?",
				profile.ID, models.GoalWorkerTarget, models.GoalActive).
			Update("status", models.GoalArchived).Error; err != nil {
			return err
		}

		goal = models.Goal{
			OwnerId:         owner.ID,
			WorkerProfileId: profile.ID,
			GoalType:        models.GoalWorkerTarget,
			TargetAmount:    data.TargetAmount,
			IsRecurring:     data.IsRecurring,
			Status:          models.GoalActive,
			Deadline:        data.Deadline,
		}
		return tx.Create(&goal).Error
	})
	if err != nil {
		return common.SuccessResponse{}, err
	}

	return common.NewSuccessResponse(goal, "Goal set"), nil
}

type ListGoalsDTO struct {
	OwnerId int
	KioskId int
	Status  string
	Page    int
	Limit   int
}

func (s *GoalService) ListGoals(data ListGoalsDTO) (common.PaginationResult, error) {
	limit := data.Limit
	if limit <= 0 {
		limit = 50
	}
	page := data.Page
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	query := s.DB.Model(&models.Goal{})
	if data.OwnerId != 0 {
		query = query.Where("owner_id = ?", data.OwnerId)
	}
	if data.KioskId != 0 {
		query = query.Where("worker_profile_id IN (?)",
			s.DB.Model(&models.WorkerProfile{}).Select("id").Where("kiosk_id = ?", data.KioskId))
	}
	if data.Status != "" {
		query = query.Where("status = ?", data.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return common.PaginationResult{}, err
	}

	var goals []models.Goal
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&goals).Error; err != nil {
		return common.PaginationResult{}, err
	}

	return common.PaginateResponse(goals, total, page, limit, "Goals fetched"), nil
}

// ArchiveGoal retires a goal without touching its history or any pending
// commission; the next settlement run simply no longer sees it.
func (s *GoalService) ArchiveGoal(goalId, ownerId int) (common.SuccessResponse, error) {
	var goal models.Goal
	if err := s.DB.First(&goal, goalId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.SuccessResponse{}, common.NewNotFoundError("goal not found")
		}
		return common.SuccessResponse{}, err
	}
	if goal.OwnerId != ownerId {
		return common.SuccessResponse{}, common.NewUnauthorizedError("goal belongs to another owner")
	}
	if goal.Status == models.GoalArchived {
		return common.SuccessResponse{}, common.NewConflictError("goal is already archived")
	}

	if err := s.DB.Model(&goal).Update("status", models.GoalArchived).Error; err != nil {
		return common.SuccessResponse{}, err
	}

	return common.NewSuccessResponse(goal, "Goal archived"), nil
}
